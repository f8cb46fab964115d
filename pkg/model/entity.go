// Package model defines the building-model entity/relation graph and the
// in-memory model store that assembles it. Entities are created once and
// never deleted; mutation is limited to appending properties to a property
// set. The store is the concrete "model sink" the rest of the system
// builds against.
package model

import "github.com/bimforge/bimforge/pkg/placement"

// Entity is a node of the building model graph.
type Entity struct {
	ID   GlobalID
	Kind EntityKind
	Name string
	Data EntityData // kind-specific payload, may be nil
}

// EntityData is the interface for kind-specific entity payloads.
type EntityData interface {
	entityData() // marker method restricting implementations to this package
}

// StoreyData carries the explicit elevation of a building storey.
type StoreyData struct {
	Elevation float64
}

func (StoreyData) entityData() {}

// ElementData is the payload of placeable elements (walls, slabs, windows,
// doors, openings): a local placement, a plan profile and an extrusion
// height. For walls, Profile.Length runs along the wall axis and
// Profile.Width is the wall thickness.
type ElementData struct {
	Placement *placement.LocalPlacement
	Profile   placement.Profile
	Height    float64
	Tag       string
}

func (ElementData) entityData() {}

// TypeData is the payload of type-definition templates.
type TypeData struct {
	Description string
}

func (TypeData) entityData() {}

// PropertySetData owns the ordered property collection of a property set.
// It is the only mutable payload: managers append to Properties after
// creation.
type PropertySetData struct {
	Description string
	Properties  []Property
}

func (*PropertySetData) entityData() {}

// Element returns the element payload, or nil if the entity has none.
func (e *Entity) Element() *ElementData {
	if d, ok := e.Data.(ElementData); ok {
		return &d
	}
	return nil
}

// Storey returns the storey payload, or nil.
func (e *Entity) Storey() *StoreyData {
	if d, ok := e.Data.(StoreyData); ok {
		return &d
	}
	return nil
}

// PropertySet returns the property-set payload, or nil.
func (e *Entity) PropertySet() *PropertySetData {
	d, _ := e.Data.(*PropertySetData)
	return d
}

// Relation wires one relating entity to an ordered list of related
// entities. The participant list is fixed at creation; extending an
// existing relation is not supported, a new relation instance is required
// per element group.
type Relation struct {
	ID       GlobalID
	Kind     RelationKind
	Name     string
	Relating GlobalID
	Related  []GlobalID
}
