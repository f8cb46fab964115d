// Package bimforge ties the pieces together for embedding: evaluate Lisp
// source into a model and render it to colored preview meshes in one
// call. The CLI uses the same path for its preview output.
package bimforge

import (
	"github.com/bimforge/bimforge/pkg/kernel"
	"github.com/bimforge/bimforge/pkg/kernel/sdfx"
	"github.com/bimforge/bimforge/pkg/mesh"
	"github.com/bimforge/bimforge/pkg/model"
	"github.com/bimforge/bimforge/pkg/script"
)

// colorPalette is a default palette used to assign distinct colors to
// elements.
var colorPalette = []string{
	"#4A90D9", "#E67E22", "#2ECC71", "#9B59B6",
	"#E74C3C", "#1ABC9C", "#F39C12", "#3498DB",
}

// MeshData is the JSON-serializable mesh format sent to frontends.
type MeshData struct {
	Vertices []float32 `json:"vertices"`
	Normals  []float32 `json:"normals"`
	Indices  []uint32  `json:"indices"`
	Element  string    `json:"element"`
	Color    string    `json:"color"`
}

// EvalErrorData is a JSON-serializable eval error for frontends.
type EvalErrorData struct {
	Line    int    `json:"line"`
	Col     int    `json:"col"`
	Message string `json:"message"`
}

// EvalResult is the full result of evaluating a script to previews.
type EvalResult struct {
	Meshes []MeshData      `json:"meshes"`
	Errors []EvalErrorData `json:"errors"`
}

// Service bundles a script engine with a geometry kernel.
type Service struct {
	engine *script.Engine
	kernel kernel.Kernel
}

// NewService creates a Service with a fresh engine and the sdfx kernel.
func NewService() *Service {
	return &Service{
		engine: script.NewEngine(),
		kernel: sdfx.New(),
	}
}

// Evaluate takes Lisp source and returns colored mesh data plus any eval
// errors. Fatal engine failures (timeout, panic) surface as errors too.
func (s *Service) Evaluate(source string) EvalResult {
	result := EvalResult{
		Meshes: []MeshData{},
		Errors: []EvalErrorData{},
	}

	res, evalErrs, err := s.engine.Evaluate(source)
	if err != nil {
		result.Errors = append(result.Errors, EvalErrorData{Message: err.Error()})
		return result
	}
	if len(evalErrs) > 0 {
		for _, e := range evalErrs {
			result.Errors = append(result.Errors, EvalErrorData{
				Line:    e.Line,
				Col:     e.Col,
				Message: e.Message,
			})
		}
		return result
	}

	meshes, err := s.Previews(res.Store)
	if err != nil {
		result.Errors = append(result.Errors, EvalErrorData{
			Message: "preview failed: " + err.Error(),
		})
		return result
	}
	result.Meshes = meshes
	return result
}

// Previews renders an already-built model to colored mesh data.
func (s *Service) Previews(store *model.Store) ([]MeshData, error) {
	meshes, err := mesh.Previews(s.kernel, store)
	if err != nil {
		return nil, err
	}
	out := make([]MeshData, 0, len(meshes))
	for i, m := range meshes {
		out = append(out, MeshData{
			Vertices: m.Vertices,
			Normals:  m.Normals,
			Indices:  m.Indices,
			Element:  m.Element,
			Color:    colorPalette[i%len(colorPalette)],
		})
	}
	return out, nil
}
