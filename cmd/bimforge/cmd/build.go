package cmd

import (
	"encoding/json"
	"os"
	"strings"

	"github.com/apex/log"
	"github.com/spf13/cobra"

	"github.com/bimforge/bimforge"
	"github.com/bimforge/bimforge/pkg/annotate"
	"github.com/bimforge/bimforge/pkg/encode"
	"github.com/bimforge/bimforge/pkg/model"
	"github.com/bimforge/bimforge/pkg/pset"
	"github.com/bimforge/bimforge/pkg/ratings"
	"github.com/bimforge/bimforge/pkg/script"
)

var (
	buildStandard  string
	buildOut       string
	buildOverrides string
	buildAnnotate  bool
	buildPreview   string
)

var buildCmd = &cobra.Command{
	Use:   "build <script>",
	Short: "Evaluate a building script and write the exchange file",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		std, err := ratings.ParseStandard(buildStandard)
		if err != nil {
			log.Fatalf("invalid --standard: %s", err)
		}

		source, err := os.ReadFile(args[0])
		if err != nil {
			log.Fatalf("read script: %s", err)
		}

		result, evalErrs, err := script.NewEngine().Evaluate(string(source))
		if err != nil {
			log.Fatalf("evaluate: %s", err)
		}
		if len(evalErrs) > 0 {
			for _, e := range evalErrs {
				log.Errorf("%s: %s", args[0], e.Error())
			}
			os.Exit(1)
		}
		store := result.Store
		log.Infof("evaluated %s: %d entities, %d relations",
			args[0], store.EntityCount(), store.RelationCount())

		cfg := ratings.Defaults()
		if buildOverrides != "" {
			o, err := ratings.LoadFile(buildOverrides)
			if err != nil {
				log.Fatalf("load overrides: %s", err)
			}
			if err := cfg.Apply(o); err != nil {
				log.Fatalf("apply overrides: %s", err)
			}
		}

		if buildAnnotate {
			ann := annotate.New(store, pset.NewManager(store), cfg, std)
			rs := ann.FireRatings()
			log.Infof("fire ratings (%s): %d elements annotated, %d errors",
				std, rs.Processed, rs.Errors)
			ss := ann.BuildingSafety()
			log.Infof("fire safety: %d sites, %d buildings, %d storeys, %d properties, %d errors",
				ss.Sites, ss.Buildings, ss.Storeys, ss.Properties, ss.Errors)
			if rs.Errors > 0 || ss.Errors > 0 {
				log.Warn("annotation finished with errors")
			}
		}

		out := buildOut
		if out == "" {
			out = strings.TrimSuffix(args[0], ".lisp") + ".bim"
		}
		if err := writeModel(store, out); err != nil {
			log.Fatalf("write model: %s", err)
		}
		log.Infof("wrote %s", out)

		if buildPreview != "" {
			if err := writePreviews(store, buildPreview); err != nil {
				log.Fatalf("write previews: %s", err)
			}
			log.Infof("wrote %s", buildPreview)
		}
	},
}

func writeModel(store *model.Store, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := encode.New(f).Encode(store, path); err != nil {
		return err
	}
	return f.Close()
}

func writePreviews(store *model.Store, path string) error {
	meshes, err := bimforge.NewService().Previews(store)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	if err := enc.Encode(meshes); err != nil {
		return err
	}
	return f.Close()
}

func init() {
	rootCmd.AddCommand(buildCmd)
	buildCmd.Flags().StringVarP(&buildStandard, "standard", "s", "en",
		"fire rating standard (en, de, fr, ch)")
	buildCmd.Flags().StringVarP(&buildOut, "out", "o", "",
		"output file (default: script name with .bim extension)")
	buildCmd.Flags().StringVar(&buildOverrides, "ratings", "",
		"YAML file with rating value overrides")
	buildCmd.Flags().BoolVar(&buildAnnotate, "annotate", true,
		"attach fire rating and fire safety properties")
	buildCmd.Flags().StringVar(&buildPreview, "preview", "",
		"write preview meshes as JSON to this file")
}
