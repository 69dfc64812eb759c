package overlay

import (
	"sort"

	"github.com/palworld-go/palmap/pkg/core"
)

// TypeSet is the set of object categories currently visible. It starts empty;
// the first observed snapshot enables all of its categories, and every later
// snapshot intersects the set with what the data still contains. A category
// that newly appears is not auto-enabled unless the set was empty.
type TypeSet struct {
	active map[core.ObjectCategory]struct{}
}

// NewTypeSet creates an empty active-type set.
func NewTypeSet() *TypeSet {
	return &TypeSet{active: make(map[core.ObjectCategory]struct{})}
}

// Observe reconciles the active set against the categories present in the
// latest snapshot.
func (t *TypeSet) Observe(categories []core.ObjectCategory) {
	observed := make(map[core.ObjectCategory]struct{}, len(categories))
	for _, c := range categories {
		observed[c] = struct{}{}
	}

	if len(t.active) == 0 {
		t.active = observed
		return
	}

	for c := range t.active {
		if _, ok := observed[c]; !ok {
			delete(t.active, c)
		}
	}
}

// SetActive replaces the active set wholesale.
func (t *TypeSet) SetActive(categories ...core.ObjectCategory) {
	t.active = make(map[core.ObjectCategory]struct{}, len(categories))
	for _, c := range categories {
		t.active[c] = struct{}{}
	}
}

// Toggle adds or removes a single category.
func (t *TypeSet) Toggle(c core.ObjectCategory, on bool) {
	if on {
		t.active[c] = struct{}{}
		return
	}
	delete(t.active, c)
}

// Active reports whether a category is currently visible.
func (t *TypeSet) Active(c core.ObjectCategory) bool {
	_, ok := t.active[c]
	return ok
}

// List returns the active categories in stable order.
func (t *TypeSet) List() []core.ObjectCategory {
	out := make([]core.ObjectCategory, 0, len(t.active))
	for c := range t.active {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
