// Package annotate walks a finished model graph and attaches fire rating
// and fire safety properties, using the classifier to pick values from
// the configuration tables. Annotation is best-effort: a failing entity
// is counted and skipped, not fatal.
package annotate

import (
	"strings"

	"github.com/bimforge/bimforge/pkg/classify"
	"github.com/bimforge/bimforge/pkg/model"
	"github.com/bimforge/bimforge/pkg/pset"
	"github.com/bimforge/bimforge/pkg/ratings"
)

// Annotator binds a model, a property manager and a value standard.
type Annotator struct {
	store *model.Store
	mgr   *pset.Manager
	cfg   *ratings.Config
	std   ratings.Standard
}

// New returns an annotator writing through the given property manager.
func New(store *model.Store, mgr *pset.Manager, cfg *ratings.Config, std ratings.Standard) *Annotator {
	return &Annotator{store: store, mgr: mgr, cfg: cfg, std: std}
}

// Stats counts the outcome of an annotation pass.
type Stats struct {
	Processed int
	Errors    int
}

// ratedKinds is the element processing order. Deterministic output
// depends on it.
var ratedKinds = []model.EntityKind{
	model.KindWall,
	model.KindDoor,
	model.KindSlab,
	model.KindBeam,
	model.KindColumn,
	model.KindWindow,
	model.KindStair,
}

// FireRatings classifies every rated element and attaches a FireRating
// text property to its kind-appropriate common property set.
func (a *Annotator) FireRatings() Stats {
	var stats Stats
	for _, kind := range ratedKinds {
		for _, e := range a.store.FindEntities(kind) {
			ctx := classify.ContextFor(a.store, e)
			cat := classify.Element(kind, ctx)
			value, err := a.cfg.RatingFor(a.std, cat)
			if err != nil {
				stats.Errors++
				continue
			}
			if err := a.setText(e, ratings.PsetNameFor(kind), "FireRating", value); err != nil {
				stats.Errors++
				continue
			}
			stats.Processed++
		}
	}
	return stats
}

// SafetyStats counts the outcome of the building-level pass.
type SafetyStats struct {
	Sites      int
	Buildings  int
	Storeys    int
	Properties int
	Errors     int
}

// BuildingSafety attaches fire safety classifications to every site,
// building and storey: QSS level for sites, VKF category for buildings,
// occupancy and escape routes per storey type.
func (a *Annotator) BuildingSafety() SafetyStats {
	var stats SafetyStats
	safety, err := a.cfg.SafetyFor(a.std)
	if err != nil {
		stats.Errors++
		return stats
	}

	for _, site := range a.store.FindEntities(model.KindSite) {
		name := ratings.PsetNameFor(model.KindSite)
		n := a.countOK(&stats,
			a.setText(site, name, "SiteFireSafetyLevel", safety.SiteQSSLevel),
			a.setText(site, name, "SiteSafetyClassification", "QSS Certified"),
		)
		if n > 0 {
			stats.Sites++
		}
	}

	for _, b := range a.store.FindEntities(model.KindBuilding) {
		name := ratings.PsetNameFor(model.KindBuilding)
		n := a.countOK(&stats,
			a.setText(b, name, "BuildingFireCategory", safety.BuildingVKFCategory),
			a.setText(b, name, "BuildingHeightCategory", safety.BuildingCategory),
			a.setText(b, name, "FireSafetyCompliance", "VKF Standards Compliant"),
		)
		if n > 0 {
			stats.Buildings++
		}
	}

	for _, s := range a.store.FindEntities(model.KindStorey) {
		elevation := 0.0
		if data := s.Storey(); data != nil {
			elevation = data.Elevation
		}
		cat := classify.Storey(s.Name, elevation)
		occupancy, err := a.cfg.OccupancyFor(a.std, cat)
		if err != nil {
			stats.Errors++
			continue
		}
		routes := 1
		if cat == classify.Ground {
			routes = 2
		}
		name := ratings.PsetNameFor(model.KindStorey)
		n := a.countOK(&stats,
			a.setInteger(s, name, "MaximumOccupancy", int64(occupancy)),
			a.setText(s, name, "StoreyFireClassification", "Storey "+titleCase(string(cat))+" - Fire Compartment"),
			a.setInteger(s, name, "EscapeRoutesCount", int64(routes)),
		)
		if n > 0 {
			stats.Storeys++
		}
	}
	return stats
}

func (a *Annotator) setText(e *model.Entity, setName, propName, value string) error {
	_, err := a.mgr.EnsureTypedProperty(e, setName, propName, value, model.ValueText)
	return err
}

func (a *Annotator) setInteger(e *model.Entity, setName, propName string, value int64) error {
	_, err := a.mgr.EnsureTypedProperty(e, setName, propName, value, model.ValueInteger)
	return err
}

// countOK tallies a batch of property writes into the stats, returning
// how many succeeded.
func (a *Annotator) countOK(stats *SafetyStats, errs ...error) int {
	ok := 0
	for _, err := range errs {
		if err != nil {
			stats.Errors++
			continue
		}
		ok++
		stats.Properties++
	}
	return ok
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
