package script

import (
	"fmt"
	"strings"

	v2 "github.com/deadsy/sdfx/vec/v2"
	zygo "github.com/glycerine/zygomys/zygo"

	"github.com/bimforge/bimforge/pkg/builder"
	"github.com/bimforge/bimforge/pkg/model"
)

// ---------------------------------------------------------------------------
// Source preprocessing
// ---------------------------------------------------------------------------

// preprocessSource transforms bimforge Lisp source code before passing it
// to zygomys. It performs two transformations:
//
//  1. Keyword conversion: :keyword -> "__kw_keyword" (string literal)
//     This avoids the need to register keyword symbols as globals, which
//     would conflict with user-defined variables of the same name.
//
//  2. Kebab-case to underscore: wall-type -> wall_type
//     zygomys does not allow hyphens in identifiers (it interprets them
//     as the subtraction operator). This converts kebab-case identifiers
//     to underscore form outside of strings and comments.
//
// Both transformations respect string literal boundaries and line comments.
func preprocessSource(source string) string {
	result := make([]byte, 0, len(source)+len(source)/4)
	b := []byte(source)
	i := 0
	for i < len(b) {
		// Skip double-quoted string literals.
		if b[i] == '"' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '"' {
				if b[i] == '\\' && i+1 < len(b) {
					result = append(result, b[i], b[i+1])
					i += 2
					continue
				}
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Skip backtick-quoted string literals.
		if b[i] == '`' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '`' {
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Convert ; line comments to // comments for zygomys.
		if b[i] == ';' {
			result = append(result, '/', '/')
			i++
			for i < len(b) && b[i] == ';' {
				i++
			}
			for i < len(b) && b[i] != '\n' {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Transform :keyword to "__kw_keyword".
		if b[i] == ':' && i+1 < len(b) {
			// Preserve := (assignment operator).
			if b[i+1] == '=' {
				result = append(result, b[i], b[i+1])
				i += 2
				continue
			}
			if isLetter(b[i+1]) {
				j := i + 1
				for j < len(b) && isKWChar(b[j]) {
					j++
				}
				kwName := string(b[i+1 : j])
				result = append(result, '"')
				result = append(result, []byte(kwPrefix)...)
				result = append(result, []byte(kwName)...)
				result = append(result, '"')
				i = j
				continue
			}
		}
		// Transform kebab-case identifiers: alpha-alpha -> alpha_alpha.
		// Only when the hyphen sits between identifier characters (not a
		// minus operator).
		if b[i] == '-' && i > 0 && i+1 < len(b) &&
			isIdentChar(b[i-1]) && isIdentStartChar(b[i+1]) {
			result = append(result, '_')
			i++
			continue
		}
		result = append(result, b[i])
		i++
	}
	return string(result)
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isKWChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '-' || c == '_'
}

func isIdentChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '_'
}

func isIdentStartChar(c byte) bool {
	return isLetter(c)
}

// ---------------------------------------------------------------------------
// Custom Sexp types for passing Go values through the zygomys environment
// ---------------------------------------------------------------------------

// sexpEntity wraps a model entity so builtins can hand references to each
// other.
type sexpEntity struct {
	entity *model.Entity
}

func (s *sexpEntity) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(%s %q)", s.entity.Kind, s.entity.Name)
}
func (s *sexpEntity) Type() *zygo.RegisteredType { return nil }

// sexpVec2 wraps a plan coordinate.
type sexpVec2 struct {
	vec v2.Vec
}

func (s *sexpVec2) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(vec2 %.2f %.2f)", s.vec.X, s.vec.Y)
}
func (s *sexpVec2) Type() *zygo.RegisteredType { return nil }

// ---------------------------------------------------------------------------
// Keyword argument parsing
// ---------------------------------------------------------------------------

// kwPrefix is the marker prepended to keyword names by preprocessSource.
const kwPrefix = "__kw_"

// isKW checks if a Sexp is a preprocessed keyword string.
// Returns the keyword name (without prefix) and true if it is.
func isKW(s zygo.Sexp) (string, bool) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", false
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], true
	}
	return "", false
}

// kwArgs holds the result of parsing a mixed positional+keyword argument
// list.
type kwArgs struct {
	kw         map[string]zygo.Sexp
	positional []zygo.Sexp
}

// parseArgs separates args into keyword and positional arguments.
func parseArgs(args []zygo.Sexp) kwArgs {
	result := kwArgs{kw: make(map[string]zygo.Sexp)}
	i := 0
	for i < len(args) {
		name, ok := isKW(args[i])
		if ok {
			if i+1 < len(args) {
				result.kw[name] = args[i+1]
				i += 2
			} else {
				// Keyword at end with no value: treat as flag with nil.
				result.kw[name] = zygo.SexpNull
				i++
			}
		} else {
			result.positional = append(result.positional, args[i])
			i++
		}
	}
	return result
}

// ---------------------------------------------------------------------------
// Value extraction helpers
// ---------------------------------------------------------------------------

// toFloat64 extracts a float64 from a Sexp (SexpInt or SexpFloat).
func toFloat64(s zygo.Sexp) (float64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	}
	return 0, fmt.Errorf("expected number, got %T (%s)", s, s.SexpString(nil))
}

// toString extracts a string from a Sexp.
func toString(s zygo.Sexp) (string, error) {
	if str, ok := s.(*zygo.SexpStr); ok {
		return str.S, nil
	}
	return "", fmt.Errorf("expected string, got %T (%s)", s, s.SexpString(nil))
}

// toVec2 extracts a plan coordinate from a sexpVec2.
func toVec2(s zygo.Sexp) (v2.Vec, error) {
	if v, ok := s.(*sexpVec2); ok {
		return v.vec, nil
	}
	return v2.Vec{}, fmt.Errorf("expected vec2, got %T (%s)", s, s.SexpString(nil))
}

// toEntity extracts an entity reference, optionally constrained to kinds.
func toEntity(s zygo.Sexp, kinds ...model.EntityKind) (*model.Entity, error) {
	ref, ok := s.(*sexpEntity)
	if !ok {
		return nil, fmt.Errorf("expected entity reference, got %T (%s)", s, s.SexpString(nil))
	}
	if len(kinds) == 0 {
		return ref.entity, nil
	}
	for _, k := range kinds {
		if ref.entity.Kind == k {
			return ref.entity, nil
		}
	}
	return nil, fmt.Errorf("expected %s, got %s %q", kinds[0], ref.entity.Kind, ref.entity.Name)
}

// floatArg reads a required numeric keyword argument.
func floatArg(pa kwArgs, fn, key string) (float64, error) {
	v, ok := pa.kw[key]
	if !ok {
		return 0, fmt.Errorf("%s: missing :%s", fn, key)
	}
	f, err := toFloat64(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %s: %w", fn, key, err)
	}
	return f, nil
}

// floatOpt reads an optional numeric keyword argument with a default.
func floatOpt(pa kwArgs, fn, key string, def float64) (float64, error) {
	v, ok := pa.kw[key]
	if !ok {
		return def, nil
	}
	f, err := toFloat64(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %s: %w", fn, key, err)
	}
	return f, nil
}

// ---------------------------------------------------------------------------
// Evaluation session
// ---------------------------------------------------------------------------

// session carries the state of one evaluation: the store being populated,
// the builder driving it and the hierarchy declared by (project ...).
type session struct {
	store     *model.Store
	b         *builder.Builder
	hierarchy *builder.Hierarchy
	counters  map[model.EntityKind]int
}

func newSession(store *model.Store) *session {
	return &session{
		store:    store,
		b:        builder.New(store),
		counters: make(map[model.EntityKind]int),
	}
}

// autoName produces "Wall 1", "Window 2" style names for unnamed elements.
func (s *session) autoName(kind model.EntityKind) string {
	s.counters[kind]++
	name := kind.String()
	name = strings.ToUpper(name[:1]) + name[1:]
	return fmt.Sprintf("%s %d", name, s.counters[kind])
}

// nameOpt reads the :name keyword or generates a sequential name.
func (s *session) nameOpt(pa kwArgs, fn string, kind model.EntityKind) (string, error) {
	v, ok := pa.kw["name"]
	if !ok {
		return s.autoName(kind), nil
	}
	name, err := toString(v)
	if err != nil {
		return "", fmt.Errorf("%s: name: %w", fn, err)
	}
	return name, nil
}

// requireHierarchy guards builtins that only make sense after (project).
func (s *session) requireHierarchy(fn string) error {
	if s.hierarchy == nil {
		return fmt.Errorf("%s: no project defined, call (project ...) first", fn)
	}
	return nil
}

// finalize wires the single building-to-storeys aggregation after user
// code has declared every storey.
func (s *session) finalize() error {
	if s.hierarchy == nil || len(s.hierarchy.Storeys) == 0 {
		return nil
	}
	return s.b.AttachStoreys(s.hierarchy)
}

// ---------------------------------------------------------------------------
// Builtin registration
// ---------------------------------------------------------------------------

// registerBuiltins installs the bimforge DSL builtins into a zygomys
// environment. The builtins populate the session's store during
// evaluation.
//
// Source code must be preprocessed with preprocessSource() before
// evaluation so that :keyword tokens are converted to recognizable string
// literals.
func registerBuiltins(env *zygo.Zlisp, s *session) {

	// -----------------------------------------------------------------------
	// (vec2 1.5 2)
	// -----------------------------------------------------------------------
	env.AddFunction("vec2", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 2 {
			return zygo.SexpNull, fmt.Errorf("vec2 requires exactly 2 arguments, got %d", len(args))
		}
		x, err := toFloat64(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("vec2: x: %w", err)
		}
		y, err := toFloat64(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("vec2: y: %w", err)
		}
		return &sexpVec2{vec: v2.Vec{X: x, Y: y}}, nil
	})

	// -----------------------------------------------------------------------
	// (project "Small House" :site "Plot 42" :building "Main Building")
	// -----------------------------------------------------------------------
	env.AddFunction("project", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if s.hierarchy != nil {
			return zygo.SexpNull, fmt.Errorf("project: already defined as %q", s.hierarchy.Project.Name)
		}
		pa := parseArgs(args)
		if len(pa.positional) < 1 {
			return zygo.SexpNull, fmt.Errorf("project requires a name argument")
		}
		projectName, err := toString(pa.positional[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("project: name: %w", err)
		}

		siteName := projectName + " Site"
		if v, ok := pa.kw["site"]; ok {
			if siteName, err = toString(v); err != nil {
				return zygo.SexpNull, fmt.Errorf("project: site: %w", err)
			}
		}
		buildingName := projectName + " Building"
		if v, ok := pa.kw["building"]; ok {
			if buildingName, err = toString(v); err != nil {
				return zygo.SexpNull, fmt.Errorf("project: building: %w", err)
			}
		}

		h, err := s.b.StartHierarchy(projectName, siteName, buildingName)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("project: %w", err)
		}
		s.hierarchy = h
		return &sexpEntity{entity: h.Project}, nil
	})

	// -----------------------------------------------------------------------
	// (storey "Ground Floor" :elevation 0.0)
	// -----------------------------------------------------------------------
	env.AddFunction("storey", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if err := s.requireHierarchy("storey"); err != nil {
			return zygo.SexpNull, err
		}
		pa := parseArgs(args)
		if len(pa.positional) < 1 {
			return zygo.SexpNull, fmt.Errorf("storey requires a name argument")
		}
		storeyName, err := toString(pa.positional[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("storey: name: %w", err)
		}
		elevation, err := floatOpt(pa, "storey", "elevation", 0)
		if err != nil {
			return zygo.SexpNull, err
		}

		st := s.b.AddStorey(builder.StoreyDescriptor{Name: storeyName, Elevation: elevation})
		s.hierarchy.Storeys = append(s.hierarchy.Storeys, st)
		return &sexpEntity{entity: st}, nil
	})

	// -----------------------------------------------------------------------
	// (wall :from (vec2 0 0) :to (vec2 8 0) :base 0 :height 3
	//       :thickness 0.2 :storey gf :name "South Wall")
	// -----------------------------------------------------------------------
	env.AddFunction("wall", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)

		fromV, ok := pa.kw["from"]
		if !ok {
			return zygo.SexpNull, fmt.Errorf("wall: missing :from")
		}
		start, err := toVec2(fromV)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("wall: from: %w", err)
		}
		toV, ok := pa.kw["to"]
		if !ok {
			return zygo.SexpNull, fmt.Errorf("wall: missing :to")
		}
		end, err := toVec2(toV)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("wall: to: %w", err)
		}

		base, err := floatOpt(pa, "wall", "base", 0)
		if err != nil {
			return zygo.SexpNull, err
		}
		height, err := floatArg(pa, "wall", "height")
		if err != nil {
			return zygo.SexpNull, err
		}
		thickness, err := floatArg(pa, "wall", "thickness")
		if err != nil {
			return zygo.SexpNull, err
		}

		storeyV, ok := pa.kw["storey"]
		if !ok {
			return zygo.SexpNull, fmt.Errorf("wall: missing :storey")
		}
		st, err := toEntity(storeyV, model.KindStorey, model.KindBuilding)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("wall: storey: %w", err)
		}
		wallName, err := s.nameOpt(pa, "wall", model.KindWall)
		if err != nil {
			return zygo.SexpNull, err
		}

		wall, err := s.b.AddWall(st, builder.WallSpec{
			Name:       wallName,
			Start:      start,
			End:        end,
			BaseHeight: base,
			Height:     height,
			Thickness:  thickness,
		})
		if err != nil {
			return zygo.SexpNull, err
		}
		return &sexpEntity{entity: wall}, nil
	})

	// -----------------------------------------------------------------------
	// (slab :length 8 :width 6 :at 0 :thickness 0.2 :storey gf)
	// -----------------------------------------------------------------------
	env.AddFunction("slab", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)

		length, err := floatArg(pa, "slab", "length")
		if err != nil {
			return zygo.SexpNull, err
		}
		width, err := floatArg(pa, "slab", "width")
		if err != nil {
			return zygo.SexpNull, err
		}
		baseZ, err := floatOpt(pa, "slab", "at", 0)
		if err != nil {
			return zygo.SexpNull, err
		}
		thickness, err := floatArg(pa, "slab", "thickness")
		if err != nil {
			return zygo.SexpNull, err
		}

		storeyV, ok := pa.kw["storey"]
		if !ok {
			return zygo.SexpNull, fmt.Errorf("slab: missing :storey")
		}
		st, err := toEntity(storeyV, model.KindStorey, model.KindBuilding)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("slab: storey: %w", err)
		}
		slabName, err := s.nameOpt(pa, "slab", model.KindSlab)
		if err != nil {
			return zygo.SexpNull, err
		}

		slab, err := s.b.AddSlab(st, builder.SlabSpec{
			Name:      slabName,
			Length:    length,
			Width:     width,
			BaseZ:     baseZ,
			Thickness: thickness,
		})
		if err != nil {
			return zygo.SexpNull, err
		}
		return &sexpEntity{entity: slab}, nil
	})

	// -----------------------------------------------------------------------
	// (window :in south :offset 2 :sill 1 :width 1.5 :height 1.2 :depth 0.25)
	// (door   :in north :offset 3.5 :width 0.9 :height 2.1 :depth 0.25)
	// -----------------------------------------------------------------------
	insert := func(fn string, kind model.EntityKind) func(*zygo.Zlisp, string, []zygo.Sexp) (zygo.Sexp, error) {
		return func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
			pa := parseArgs(args)

			inV, ok := pa.kw["in"]
			if !ok {
				return zygo.SexpNull, fmt.Errorf("%s: missing :in", fn)
			}
			wall, err := toEntity(inV, model.KindWall)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("%s: in: %w", fn, err)
			}
			container := s.store.ContainerOf(wall.ID)
			if container == nil {
				return zygo.SexpNull, fmt.Errorf("%s: wall %q is not contained anywhere", fn, wall.Name)
			}

			offset, err := floatArg(pa, fn, "offset")
			if err != nil {
				return zygo.SexpNull, err
			}
			sill, err := floatOpt(pa, fn, "sill", 0)
			if err != nil {
				return zygo.SexpNull, err
			}
			width, err := floatArg(pa, fn, "width")
			if err != nil {
				return zygo.SexpNull, err
			}
			height, err := floatArg(pa, fn, "height")
			if err != nil {
				return zygo.SexpNull, err
			}
			depth, err := floatArg(pa, fn, "depth")
			if err != nil {
				return zygo.SexpNull, err
			}
			fillerName, err := s.nameOpt(pa, fn, kind)
			if err != nil {
				return zygo.SexpNull, err
			}

			filler, err := s.b.Insert(kind, container, wall, builder.InsertSpec{
				Name:   fillerName,
				Offset: offset,
				Sill:   sill,
				Width:  width,
				Height: height,
				Depth:  depth,
			})
			if err != nil {
				return zygo.SexpNull, err
			}
			return &sexpEntity{entity: filler}, nil
		}
	}
	env.AddFunction("window", insert("window", model.KindWindow))
	env.AddFunction("door", insert("door", model.KindDoor))

	// -----------------------------------------------------------------------
	// (wall-type "Standard Wall" :description "200mm concrete")
	//
	// Note: registered as "wall_type" because zygomys does not support
	// hyphens in identifiers. The preprocessor converts wall-type to
	// wall_type in the source.
	// -----------------------------------------------------------------------
	defineType := func(fn string, kind model.EntityKind) func(*zygo.Zlisp, string, []zygo.Sexp) (zygo.Sexp, error) {
		return func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
			pa := parseArgs(args)
			if len(pa.positional) < 1 {
				return zygo.SexpNull, fmt.Errorf("%s requires a name argument", fn)
			}
			typeName, err := toString(pa.positional[0])
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("%s: name: %w", fn, err)
			}
			description := ""
			if v, ok := pa.kw["description"]; ok {
				if description, err = toString(v); err != nil {
					return zygo.SexpNull, fmt.Errorf("%s: description: %w", fn, err)
				}
			}
			typ, err := s.b.DefineType(kind, typeName, description)
			if err != nil {
				return zygo.SexpNull, err
			}
			return &sexpEntity{entity: typ}, nil
		}
	}
	env.AddFunction("wall_type", defineType("wall-type", model.KindWallType))
	env.AddFunction("window_type", defineType("window-type", model.KindWindowType))
	env.AddFunction("door_type", defineType("door-type", model.KindDoorType))

	// -----------------------------------------------------------------------
	// (apply-type standard-wall south north east west)
	// -----------------------------------------------------------------------
	env.AddFunction("apply_type", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) < 2 {
			return zygo.SexpNull, fmt.Errorf("apply-type requires a type and at least one element")
		}
		typ, err := toEntity(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("apply-type: type: %w", err)
		}
		elements := make([]*model.Entity, 0, len(args)-1)
		for i := 1; i < len(args); i++ {
			e, err := toEntity(args[i])
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("apply-type: element %d: %w", i, err)
			}
			elements = append(elements, e)
		}
		if err := s.b.ApplyType(typ, elements...); err != nil {
			return zygo.SexpNull, err
		}
		return args[0], nil
	})
}
