package model

// EntityKind enumerates the entity types of the building model graph.
type EntityKind int

const (
	KindProject EntityKind = iota
	KindSite
	KindBuilding
	KindStorey
	KindWall
	KindSlab
	KindWindow
	KindDoor
	KindBeam
	KindColumn
	KindStair
	KindOpening
	KindWallType
	KindWindowType
	KindDoorType
	KindPropertySet
)

func (k EntityKind) String() string {
	switch k {
	case KindProject:
		return "project"
	case KindSite:
		return "site"
	case KindBuilding:
		return "building"
	case KindStorey:
		return "storey"
	case KindWall:
		return "wall"
	case KindSlab:
		return "slab"
	case KindWindow:
		return "window"
	case KindDoor:
		return "door"
	case KindBeam:
		return "beam"
	case KindColumn:
		return "column"
	case KindStair:
		return "stair"
	case KindOpening:
		return "opening"
	case KindWallType:
		return "wall-type"
	case KindWindowType:
		return "window-type"
	case KindDoorType:
		return "door-type"
	case KindPropertySet:
		return "property-set"
	default:
		return "unknown"
	}
}

// IsSpatial reports whether the kind is a spatial-hierarchy node.
func (k EntityKind) IsSpatial() bool {
	switch k {
	case KindProject, KindSite, KindBuilding, KindStorey:
		return true
	}
	return false
}

// IsElement reports whether the kind is a placeable building element.
func (k EntityKind) IsElement() bool {
	switch k {
	case KindWall, KindSlab, KindWindow, KindDoor, KindBeam, KindColumn, KindStair:
		return true
	}
	return false
}

// IsPenetrable reports whether elements of this kind may host openings.
func (k EntityKind) IsPenetrable() bool {
	return k == KindWall || k == KindSlab
}

// IsType reports whether the kind is a type-definition template.
func (k EntityKind) IsType() bool {
	switch k {
	case KindWallType, KindWindowType, KindDoorType:
		return true
	}
	return false
}

// RelationKind enumerates the relation types wiring entities together.
type RelationKind int

const (
	RelAggregates          RelationKind = iota // spatial parent owns child nodes
	RelContains                                // spatial node contains elements
	RelVoids                                   // host element voided by opening
	RelFills                                   // opening filled by element
	RelDefinesByType                           // type template defines elements
	RelDefinesByProperties                     // property set attached to entities
)

func (k RelationKind) String() string {
	switch k {
	case RelAggregates:
		return "aggregates"
	case RelContains:
		return "contains"
	case RelVoids:
		return "voids"
	case RelFills:
		return "fills"
	case RelDefinesByType:
		return "defines-by-type"
	case RelDefinesByProperties:
		return "defines-by-properties"
	default:
		return "unknown"
	}
}
