package model

import "fmt"

// Sink is the model-sink capability consumed by the assembler: create an
// entity, create a relation, look entities up. The in-memory Store is the
// only implementation in this repository; persistence layers can provide
// their own.
type Sink interface {
	CreateEntity(kind EntityKind, name string, data EntityData) *Entity
	CreateRelation(kind RelationKind, name string, relating GlobalID, related ...GlobalID) (*Relation, error)
	FindEntities(kind EntityKind) []*Entity
	Get(id GlobalID) *Entity
	RelationsOf(id GlobalID) []*Relation
	PropertySetOn(entity GlobalID, setName string) *Entity
}

// Compile-time interface check.
var _ Sink = (*Store)(nil)

// Store is the in-memory building-model graph. It is owned exclusively by
// one assembly run: single-threaded, no locking. Iteration order is
// creation order everywhere, so identical inputs produce isomorphic graphs.
type Store struct {
	entities  []*Entity
	relations []*Relation
	byID      map[GlobalID]*Entity

	// relIndex lists, per entity, every relation the entity participates
	// in (as relating or related member), in creation order.
	relIndex map[GlobalID][]*Relation

	// psetIndex maps entity -> set name -> property-set entity for the
	// sets attached via RelDefinesByProperties. This turns the
	// "does this entity already have a set named X" scan into an O(1)
	// lookup (a permitted optimization; linear-scan semantics preserved).
	psetIndex map[GlobalID]map[string]*Entity
}

// NewStore returns an empty model store.
func NewStore() *Store {
	return &Store{
		byID:      make(map[GlobalID]*Entity),
		relIndex:  make(map[GlobalID][]*Relation),
		psetIndex: make(map[GlobalID]map[string]*Entity),
	}
}

// CreateEntity creates an entity with a fresh identifier and records it.
func (s *Store) CreateEntity(kind EntityKind, name string, data EntityData) *Entity {
	e := &Entity{
		ID:   NewGlobalID(),
		Kind: kind,
		Name: name,
		Data: data,
	}
	s.entities = append(s.entities, e)
	s.byID[e.ID] = e
	return e
}

// CreateRelation creates a relation after checking that every participant
// exists. The related list is copied; callers cannot extend a relation
// after creation.
func (s *Store) CreateRelation(kind RelationKind, name string, relating GlobalID, related ...GlobalID) (*Relation, error) {
	if _, ok := s.byID[relating]; !ok {
		return nil, fmt.Errorf("relation %s: relating %s: %w", kind, relating.Short(), ErrUnknownEntity)
	}
	for _, id := range related {
		if _, ok := s.byID[id]; !ok {
			return nil, fmt.Errorf("relation %s: related %s: %w", kind, id.Short(), ErrUnknownEntity)
		}
	}

	r := &Relation{
		ID:       NewGlobalID(),
		Kind:     kind,
		Name:     name,
		Relating: relating,
		Related:  append([]GlobalID(nil), related...),
	}
	s.relations = append(s.relations, r)
	s.relIndex[relating] = append(s.relIndex[relating], r)
	for _, id := range related {
		if id != relating {
			s.relIndex[id] = append(s.relIndex[id], r)
		}
	}

	if kind == RelDefinesByProperties {
		s.indexPropertySet(r)
	}
	return r, nil
}

// indexPropertySet records the (entity, set name) attachments of a
// defines-by-properties relation.
func (s *Store) indexPropertySet(r *Relation) {
	pset := s.byID[r.Relating]
	if pset == nil || pset.Kind != KindPropertySet {
		return
	}
	for _, id := range r.Related {
		sets := s.psetIndex[id]
		if sets == nil {
			sets = make(map[string]*Entity)
			s.psetIndex[id] = sets
		}
		if _, exists := sets[pset.Name]; !exists {
			sets[pset.Name] = pset
		}
	}
}

// FindEntities returns all entities of the given kind in creation order.
func (s *Store) FindEntities(kind EntityKind) []*Entity {
	var out []*Entity
	for _, e := range s.entities {
		if e.Kind == kind {
			out = append(out, e)
		}
	}
	return out
}

// Get returns the entity with the given ID, or nil.
func (s *Store) Get(id GlobalID) *Entity {
	return s.byID[id]
}

// RelationsOf returns every relation the entity participates in, in
// creation order.
func (s *Store) RelationsOf(id GlobalID) []*Relation {
	return s.relIndex[id]
}

// Relations returns all relations of the given kind in creation order.
func (s *Store) Relations(kind RelationKind) []*Relation {
	var out []*Relation
	for _, r := range s.relations {
		if r.Kind == kind {
			out = append(out, r)
		}
	}
	return out
}

// PropertySetOn returns the property set with the given name attached to
// the entity, or nil if none is attached.
func (s *Store) PropertySetOn(entity GlobalID, setName string) *Entity {
	return s.psetIndex[entity][setName]
}

// PropertySetsOn returns every property set attached to the entity, in
// attachment order.
func (s *Store) PropertySetsOn(entity GlobalID) []*Entity {
	var out []*Entity
	for _, r := range s.relIndex[entity] {
		if r.Kind != RelDefinesByProperties {
			continue
		}
		if pset := s.byID[r.Relating]; pset != nil && pset.Kind == KindPropertySet {
			out = append(out, pset)
		}
	}
	return out
}

// ContainerOf returns the spatial node the element is contained in via its
// first containment relation, or nil.
func (s *Store) ContainerOf(element GlobalID) *Entity {
	for _, r := range s.relIndex[element] {
		if r.Kind != RelContains || r.Relating == element {
			continue
		}
		return s.byID[r.Relating]
	}
	return nil
}

// AllEntities returns every entity in creation order.
func (s *Store) AllEntities() []*Entity {
	return s.entities
}

// AllRelations returns every relation in creation order.
func (s *Store) AllRelations() []*Relation {
	return s.relations
}

// EntityCount returns the number of entities.
func (s *Store) EntityCount() int { return len(s.entities) }

// RelationCount returns the number of relations.
func (s *Store) RelationCount() int { return len(s.relations) }
