// Package pset manages named property collections on model entities. The
// central invariant: at most one property set with a given name is
// attached to a given entity, wired through exactly one
// defines-by-properties relation.
package pset

import (
	"errors"
	"fmt"

	"github.com/bimforge/bimforge/pkg/model"
)

// ErrTypeMismatch: a property value could not be converted to its declared
// kind.
var ErrTypeMismatch = errors.New("property value kind mismatch")

// DuplicatePolicy controls what happens when a property with an existing
// name is appended to a set. The source behavior appends a second,
// shadowing-by-order entry; skipping is opt-in.
type DuplicatePolicy int

const (
	// DuplicateAppend always appends, even under an existing name.
	DuplicateAppend DuplicatePolicy = iota
	// DuplicateSkip leaves the set untouched when the name exists and
	// reports ok=false.
	DuplicateSkip
)

// Manager finds-or-creates property sets and appends typed properties.
type Manager struct {
	sink model.Sink

	// Duplicates selects the in-set duplicate-name policy.
	Duplicates DuplicatePolicy

	// Strict makes an entity carrying two same-name set attachments an
	// error instead of silently reusing the first.
	Strict bool
}

// NewManager returns a manager with the default always-append,
// silent-reuse policy.
func NewManager(sink model.Sink) *Manager {
	return &Manager{sink: sink}
}

// EnsureProperty appends a property to the set named setName on the
// entity, creating and attaching the set first if the entity does not
// carry one. Repeated calls with the same (entity, setName) reuse the
// existing set and never create a second relation; repeated property
// names follow the duplicate policy.
//
// The returned bool reports whether a property was appended; it is false
// only for the benign duplicate-skip case.
func (m *Manager) EnsureProperty(entity *model.Entity, setName string, prop model.Property) (bool, error) {
	set := m.sink.PropertySetOn(entity.ID, setName)
	if set == nil {
		var err error
		set, err = m.attach(entity, setName)
		if err != nil {
			return false, err
		}
	} else if m.Strict {
		if n := m.attachmentCount(entity.ID, setName); n > 1 {
			return false, fmt.Errorf("entity %q carries %d sets named %q: %w",
				entityLabel(entity), n, setName, model.ErrRelationIntegrity)
		}
	}

	data := set.PropertySet()
	if data == nil {
		return false, fmt.Errorf("set %q on %s %q: %w", setName, entity.Kind, entity.Name, model.ErrRelationIntegrity)
	}

	if m.Duplicates == DuplicateSkip {
		for _, existing := range data.Properties {
			if existing.Name == prop.Name {
				return false, nil
			}
		}
	}
	data.Properties = append(data.Properties, prop)
	return true, nil
}

// EnsureTypedProperty coerces a loosely-typed value to the declared kind
// and appends it via EnsureProperty. Values that cannot be coerced fail
// with ErrTypeMismatch and leave the set untouched.
func (m *Manager) EnsureTypedProperty(entity *model.Entity, setName, propName string, value any, kind model.ValueKind) (bool, error) {
	v, err := Coerce(value, kind)
	if err != nil {
		return false, fmt.Errorf("property %q on %q: %w", propName, entityLabel(entity), err)
	}
	return m.EnsureProperty(entity, setName, model.Property{Name: propName, Value: v})
}

// attach creates a fresh property set and the single relation binding it
// to the entity.
func (m *Manager) attach(entity *model.Entity, setName string) (*model.Entity, error) {
	set := m.sink.CreateEntity(model.KindPropertySet, setName, &model.PropertySetData{})
	name := setName + " for " + entityLabel(entity)
	if _, err := m.sink.CreateRelation(model.RelDefinesByProperties, name, set.ID, entity.ID); err != nil {
		return nil, err
	}
	return set, nil
}

// attachmentCount counts same-name set attachments on the entity.
func (m *Manager) attachmentCount(id model.GlobalID, setName string) int {
	n := 0
	for _, r := range m.sink.RelationsOf(id) {
		if r.Kind != model.RelDefinesByProperties {
			continue
		}
		if set := m.sink.Get(r.Relating); set != nil && set.Kind == model.KindPropertySet && set.Name == setName {
			n++
		}
	}
	return n
}

// Coerce converts a loosely-typed value into a model.Value of the wanted
// kind. Integers widen to reals; nothing narrows. Mismatches fail with
// ErrTypeMismatch.
func Coerce(value any, kind model.ValueKind) (model.Value, error) {
	switch kind {
	case model.ValueText:
		if s, ok := value.(string); ok {
			return model.Text(s), nil
		}
	case model.ValueInteger:
		switch v := value.(type) {
		case int:
			return model.Integer(int64(v)), nil
		case int64:
			return model.Integer(v), nil
		}
	case model.ValueReal:
		switch v := value.(type) {
		case float64:
			return model.Real(v), nil
		case int:
			return model.Real(float64(v)), nil
		case int64:
			return model.Real(float64(v)), nil
		}
	case model.ValueBoolean:
		if b, ok := value.(bool); ok {
			return model.Boolean(b), nil
		}
	}
	return model.Value{}, fmt.Errorf("%T as %s: %w", value, kind, ErrTypeMismatch)
}

func entityLabel(e *model.Entity) string {
	if e.Name != "" {
		return e.Name
	}
	return e.ID.Short()
}
