// Package mesh produces preview triangle meshes from a built model using
// a geometry kernel. One mesh is produced per element; penetrable hosts
// get their opening cutouts subtracted so windows and doors read as real
// holes in the preview.
package mesh

import (
	"fmt"

	"github.com/bimforge/bimforge/pkg/kernel"
	"github.com/bimforge/bimforge/pkg/model"
)

// ElementSolid builds the extruded box for a single element at its
// absolute placement. The box spans the plan profile centered on the
// frame origin and extrudes upward from the origin's elevation.
func ElementSolid(k kernel.Kernel, e *model.Entity) (kernel.Solid, error) {
	data := e.Element()
	if data == nil {
		return nil, fmt.Errorf("element solid: %s %q carries no geometry", e.Kind, e.Name)
	}
	if data.Profile.Length <= 0 || data.Profile.Width <= 0 || data.Height <= 0 {
		return nil, fmt.Errorf("element solid: %s %q has empty extent %gx%gx%g",
			e.Kind, e.Name, data.Profile.Length, data.Profile.Width, data.Height)
	}

	origin, angle := data.Placement.Absolute()

	solid := k.Box(data.Profile.Length, data.Profile.Width, data.Height)
	// Center the plan footprint on the frame origin; the base stays at the
	// origin's elevation.
	solid = k.Translate(solid, -data.Profile.Length/2, -data.Profile.Width/2, 0)
	if angle != 0 {
		solid = k.Rotate(solid, 0, 0, angle)
	}
	return k.Translate(solid, origin.X, origin.Y, origin.Z), nil
}

// HostSolid builds the solid of a penetrable host with every opening cut
// out of it. Non-penetrable elements come back unchanged.
func HostSolid(k kernel.Kernel, s *model.Store, host *model.Entity) (kernel.Solid, error) {
	solid, err := ElementSolid(k, host)
	if err != nil {
		return nil, err
	}
	if !host.Kind.IsPenetrable() {
		return solid, nil
	}

	for _, r := range s.RelationsOf(host.ID) {
		if r.Kind != model.RelVoids || r.Relating != host.ID {
			continue
		}
		for _, id := range r.Related {
			opening := s.Get(id)
			if opening == nil || opening.Kind != model.KindOpening {
				continue
			}
			cut, err := ElementSolid(k, opening)
			if err != nil {
				return nil, fmt.Errorf("host %q: %w", host.Name, err)
			}
			solid = k.Difference(solid, cut)
		}
	}
	return solid, nil
}

// Previews walks the model in creation order and produces one mesh per
// placeable element. Openings are consumed as cutouts, never rendered on
// their own.
func Previews(k kernel.Kernel, s *model.Store) ([]*kernel.Mesh, error) {
	var meshes []*kernel.Mesh
	for _, e := range s.AllEntities() {
		if !e.Kind.IsElement() {
			continue
		}
		solid, err := HostSolid(k, s, e)
		if err != nil {
			return nil, fmt.Errorf("preview: %w", err)
		}
		m, err := k.ToMesh(solid)
		if err != nil {
			return nil, fmt.Errorf("preview: mesh for %q: %w", e.Name, err)
		}
		if e.Name != "" {
			m.Element = e.Name
		} else {
			m.Element = e.ID.Short()
		}
		meshes = append(meshes, m)
	}
	return meshes, nil
}
