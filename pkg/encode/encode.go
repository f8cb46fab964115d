// Package encode serializes a built model into an SPF-style textual
// exchange file: a header naming the originating application, then one
// numbered line per entity and relation in creation order. The format is
// line-oriented and diff-friendly; nothing in the core depends on it.
package encode

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/bimforge/bimforge/pkg/model"
)

// ApplicationName is written into the file header.
const ApplicationName = "bimforge"

// SchemaName identifies the line vocabulary of this encoder.
const SchemaName = "BIMFORGE_1"

// Encoder writes models to a stream. The zero value is not usable; use
// New.
type Encoder struct {
	w *bufio.Writer

	// Now stamps the header; overridable for reproducible output.
	Now func() time.Time
}

// New returns an encoder writing to w.
func New(w io.Writer) *Encoder {
	return &Encoder{w: bufio.NewWriter(w), Now: time.Now}
}

// Encode writes the full model: header, one line per entity, one line per
// relation, footer. Line numbers follow creation order, entities first.
func (e *Encoder) Encode(s *model.Store, fileName string) error {
	e.header(fileName)

	refs := make(map[model.GlobalID]int)
	n := 0
	for _, ent := range s.AllEntities() {
		n++
		refs[ent.ID] = n
		e.entityLine(n, ent)
	}
	for _, r := range s.AllRelations() {
		n++
		e.relationLine(n, r, refs)
	}

	fmt.Fprintf(e.w, "ENDSEC;\nEND-%s;\n", SchemaName)
	return e.w.Flush()
}

func (e *Encoder) header(fileName string) {
	stamp := e.Now().UTC().Format("2006-01-02T15:04:05")
	fmt.Fprintf(e.w, "%s;\nHEADER;\n", SchemaName)
	fmt.Fprintf(e.w, "FILE_NAME(%s,%s,%s,%s);\n",
		str(fileName), str(stamp), str(ApplicationName), str(ApplicationName))
	fmt.Fprintf(e.w, "FILE_SCHEMA((%s));\nENDSEC;\nDATA;\n", str(SchemaName))
}

// entityLine writes one entity. The attribute tail depends on the payload:
// storeys carry their elevation, elements their absolute frame and
// extents, property sets their ordered property list.
func (e *Encoder) entityLine(n int, ent *model.Entity) {
	kind := strings.ToUpper(strings.ReplaceAll(ent.Kind.String(), "-", "_"))
	fmt.Fprintf(e.w, "#%d=%s(%s,%s", n, kind, str(string(ent.ID)), str(ent.Name))

	switch {
	case ent.Storey() != nil:
		fmt.Fprintf(e.w, ",%s", num(ent.Storey().Elevation))
	case ent.Element() != nil:
		d := ent.Element()
		origin, angle := d.Placement.Absolute()
		fmt.Fprintf(e.w, ",(%s,%s,%s),%s,(%s,%s),%s",
			num(origin.X), num(origin.Y), num(origin.Z), num(angle),
			num(d.Profile.Length), num(d.Profile.Width), num(d.Height))
		if d.Tag != "" {
			fmt.Fprintf(e.w, ",%s", str(d.Tag))
		}
	case ent.PropertySet() != nil:
		e.w.WriteString(",(")
		for i, p := range ent.PropertySet().Properties {
			if i > 0 {
				e.w.WriteString(",")
			}
			fmt.Fprintf(e.w, "(%s,%s)", str(p.Name), value(p.Value))
		}
		e.w.WriteString(")")
	}
	e.w.WriteString(");\n")
}

func (e *Encoder) relationLine(n int, r *model.Relation, refs map[model.GlobalID]int) {
	kind := strings.ToUpper(strings.ReplaceAll(r.Kind.String(), "-", "_"))
	fmt.Fprintf(e.w, "#%d=%s(%s,%s,#%d,(", n, kind, str(string(r.ID)), str(r.Name), refs[r.Relating])
	for i, id := range r.Related {
		if i > 0 {
			e.w.WriteString(",")
		}
		fmt.Fprintf(e.w, "#%d", refs[id])
	}
	e.w.WriteString("));\n")
}

// str renders a quoted string with embedded quotes doubled.
func str(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

// num renders a float compactly but always with a decimal point, so
// integers and reals stay distinguishable on the line.
func num(f float64) string {
	s := fmt.Sprintf("%g", f)
	if !strings.ContainsAny(s, ".eE") {
		s += "."
	}
	return s
}

// value renders a typed property value with its kind tag.
func value(v model.Value) string {
	switch v.Kind {
	case model.ValueText:
		return "TEXT(" + str(v.Text) + ")"
	case model.ValueInteger:
		return fmt.Sprintf("INTEGER(%d)", v.Int)
	case model.ValueReal:
		return "REAL(" + num(v.Real) + ")"
	case model.ValueBoolean:
		if v.Bool {
			return "BOOLEAN(.T.)"
		}
		return "BOOLEAN(.F.)"
	}
	return "UNKNOWN()"
}
