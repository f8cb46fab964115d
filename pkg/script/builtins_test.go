package script

import (
	"testing"

	zygo "github.com/glycerine/zygomys/zygo"
)

func TestPreprocessSource(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			"keyword becomes marker string",
			`(wall :height 3)`,
			`(wall "__kw_height" 3)`,
		},
		{
			"kebab identifier becomes underscore",
			`(wall-type "X")`,
			`(wall_type "X")`,
		},
		{
			"semicolon comment becomes slash comment",
			";; south facade\n(x)",
			"// south facade\n(x)",
		},
		{
			"minus operator survives",
			`(- 5 3)`,
			`(- 5 3)`,
		},
		{
			"negative literal survives",
			`(vec2 -2.5 0)`,
			`(vec2 -2.5 0)`,
		},
		{
			"assignment operator survives",
			`(x := 1)`,
			`(x := 1)`,
		},
		{
			"string contents untouched",
			`(storey "Keller :deep; wall-type")`,
			`(storey "Keller :deep; wall-type")`,
		},
		{
			"escaped quote inside string",
			`(x "a\"b:c")`,
			`(x "a\"b:c")`,
		},
		{
			"keyword with hyphen",
			`(x :fire-rating 30)`,
			`(x "__kw_fire-rating" 30)`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := preprocessSource(tt.in); got != tt.want {
				t.Errorf("preprocessSource(%q)\n got %q\nwant %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseArgs(t *testing.T) {
	str := func(s string) zygo.Sexp { return &zygo.SexpStr{S: s} }
	args := []zygo.Sexp{
		str("positional"),
		str(kwPrefix + "height"), &zygo.SexpFloat{Val: 3},
		str(kwPrefix + "name"), str("South Wall"),
	}
	pa := parseArgs(args)
	if len(pa.positional) != 1 {
		t.Fatalf("%d positional args, want 1", len(pa.positional))
	}
	if _, ok := pa.kw["height"]; !ok {
		t.Error("missing height keyword")
	}
	name, err := toString(pa.kw["name"])
	if err != nil || name != "South Wall" {
		t.Errorf("name = %q, %v", name, err)
	}

	// Trailing keyword with no value parses as a nil-valued flag.
	pa = parseArgs([]zygo.Sexp{str(kwPrefix + "flag")})
	if v, ok := pa.kw["flag"]; !ok || v != zygo.SexpNull {
		t.Errorf("trailing keyword = %v, %v", v, ok)
	}
}

func TestFloatArgHelpers(t *testing.T) {
	pa := kwArgs{kw: map[string]zygo.Sexp{
		"height": &zygo.SexpInt{Val: 3},
		"name":   &zygo.SexpStr{S: "x"},
	}}

	if f, err := floatArg(pa, "wall", "height"); err != nil || f != 3 {
		t.Errorf("floatArg(height) = %g, %v", f, err)
	}
	if _, err := floatArg(pa, "wall", "thickness"); err == nil {
		t.Error("missing required key accepted")
	}
	if _, err := floatArg(pa, "wall", "name"); err == nil {
		t.Error("string value accepted as number")
	}
	if f, err := floatOpt(pa, "wall", "base", 1.5); err != nil || f != 1.5 {
		t.Errorf("floatOpt default = %g, %v", f, err)
	}
}
