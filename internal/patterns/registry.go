package patterns

import (
	"fmt"
	"sort"

	"github.com/steveyegge/agentlint/internal/artifact"
)

// Registry is the read-only catalog of all registered patterns. It is built
// once at startup; every consumer holds a reference to the same instance.
// Severity overrides are applied at build time; once built, a pattern's
// certainty never changes.
type Registry struct {
	ordered []*Pattern
	byID    map[string]*Pattern
}

// NewRegistry builds the full pattern catalog. overrides maps pattern id to
// a replacement certainty (from external configuration); unknown ids are
// ignored so a stale config cannot break a run.
func NewRegistry(overrides map[string]Certainty) *Registry {
	r := &Registry{byID: make(map[string]*Pattern)}

	for _, p := range buildCatalog() {
		if err := r.register(p); err != nil {
			// Catalog construction is compile-time-adjacent; a duplicate id
			// is a bug in this package, not a runtime condition.
			panic(err)
		}
	}

	for id, certainty := range overrides {
		if p, ok := r.byID[id]; ok {
			p.Certainty = certainty
		}
	}
	return r
}

// buildCatalog assembles every per-type pattern set.
func buildCatalog() []*Pattern {
	var all []*Pattern
	all = append(all, structurePatterns()...)
	all = append(all, capabilityPatterns()...)
	all = append(all, sectionPatterns()...)
	all = append(all, budgetPatterns()...)
	all = append(all, clarityPatterns()...)
	all = append(all, manifestPatterns()...)
	all = append(all, memoryPatterns()...)
	return all
}

func (r *Registry) register(p *Pattern) error {
	if _, exists := r.byID[p.ID]; exists {
		return fmt.Errorf("pattern %q already registered", p.ID)
	}
	r.ordered = append(r.ordered, p)
	r.byID[p.ID] = p
	return nil
}

// All returns every pattern in registration order.
func (r *Registry) All() []*Pattern {
	out := make([]*Pattern, len(r.ordered))
	copy(out, r.ordered)
	return out
}

// ByID returns the pattern with the given id.
func (r *Registry) ByID(id string) (*Pattern, bool) {
	p, ok := r.byID[id]
	return p, ok
}

// ByCategory returns all patterns in a category.
func (r *Registry) ByCategory(c Category) []*Pattern {
	var out []*Pattern
	for _, p := range r.ordered {
		if p.Category == c {
			out = append(out, p)
		}
	}
	return out
}

// ByCertainty returns all patterns with the given certainty.
func (r *Registry) ByCertainty(c Certainty) []*Pattern {
	var out []*Pattern
	for _, p := range r.ordered {
		if p.Certainty == c {
			out = append(out, p)
		}
	}
	return out
}

// AutoFixable returns all patterns that carry an auto-fix.
func (r *Registry) AutoFixable() []*Pattern {
	var out []*Pattern
	for _, p := range r.ordered {
		if p.AutoFix {
			out = append(out, p)
		}
	}
	return out
}

// ForType returns the patterns applicable to one artifact type.
func (r *Registry) ForType(t artifact.Type) []*Pattern {
	var out []*Pattern
	for _, p := range r.ordered {
		if p.Applies(t) {
			out = append(out, p)
		}
	}
	return out
}

// IDs returns all pattern ids, sorted.
func (r *Registry) IDs() []string {
	ids := make([]string, 0, len(r.byID))
	for id := range r.byID {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
