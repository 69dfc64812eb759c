// Package overlay keeps the set of displayed markers in step with polled
// snapshots. Reconciliation computes the minimal create/update/delete diff so
// markers with a stable identity survive across polls instead of being
// destroyed and recreated.
package overlay

import (
	"fmt"

	"github.com/palworld-go/palmap/internal/surface"
	"github.com/palworld-go/palmap/internal/transform"
	"github.com/palworld-go/palmap/pkg/core"
)

// ChangeSet counts the operations one reconciliation pass performed.
type ChangeSet struct {
	Created int
	Updated int
	Deleted int
}

// entry binds one live identity to its backend marker handle.
type entry struct {
	category core.ObjectCategory
	marker   surface.Marker
	handle   surface.Handle
}

// Registry holds exactly one displayed marker per live identity. Player and
// object identities live in separate spaces: players carry a stable user id,
// objects only a composite key derived from their content.
type Registry struct {
	players map[string]*entry
	objects map[string]*entry
}

// NewRegistry creates an empty marker registry.
func NewRegistry() *Registry {
	return &Registry{
		players: make(map[string]*entry),
		objects: make(map[string]*entry),
	}
}

// PlayerCount returns the number of live player markers.
func (r *Registry) PlayerCount() int { return len(r.players) }

// ObjectCount returns the number of live object markers.
func (r *Registry) ObjectCount() int { return len(r.objects) }

// PlayerHandle returns the backend handle for a player identity.
func (r *Registry) PlayerHandle(userID string) (surface.Handle, bool) {
	e, ok := r.players[userID]
	if !ok {
		return 0, false
	}
	return e.handle, true
}

// ObjectHandle returns the backend handle for an object composite key.
func (r *Registry) ObjectHandle(key string) (surface.Handle, bool) {
	e, ok := r.objects[key]
	if !ok {
		return 0, false
	}
	return e.handle, true
}

// playerLabel builds the marker text for a player.
func playerLabel(p core.Player) string {
	if p.Level > 0 {
		return fmt.Sprintf("%s (Lv.%d)", p.Name, p.Level)
	}
	return p.Name
}

// objectLabel builds the marker text for a world object, falling back to the
// category label when the data carries no name.
func objectLabel(o core.MapObject) string {
	if o.Name != "" {
		return o.Name
	}
	if o.SubType != "" {
		return o.SubType
	}
	return o.Category.Label()
}

// keyed is a snapshot element prepared for reconciliation.
type keyed struct {
	key      string
	category core.ObjectCategory
	marker   surface.Marker
}

// SyncPlayers reconciles player markers against the latest player snapshot.
// Matching identities are updated in place; identities absent from the
// snapshot are removed along with their backend marker.
func (r *Registry) SyncPlayers(players []core.Player, proj transform.Projection, surf surface.Surface) (ChangeSet, error) {
	snapshot := make([]keyed, 0, len(players))
	for _, p := range players {
		snapshot = append(snapshot, keyed{
			key: p.UserID,
			marker: surface.Marker{
				Label:    playerLabel(p),
				Position: proj.WorldToDisplay(p.Location),
			},
		})
	}
	return reconcile(r.players, snapshot, surf)
}

// SyncObjects reconciles object markers against the latest object snapshot.
// Objects have no stable id; an object that moves changes its composite key
// and is therefore deleted and recreated. Accepted behavior, not a bug.
func (r *Registry) SyncObjects(objects []core.MapObject, proj transform.Projection, surf surface.Surface) (ChangeSet, error) {
	snapshot := make([]keyed, 0, len(objects))
	for _, o := range objects {
		snapshot = append(snapshot, keyed{
			key:      o.Key(),
			category: o.Category,
			marker: surface.Marker{
				Label:    objectLabel(o),
				Category: o.Category,
				Position: proj.WorldToDisplay(o.Location),
			},
		})
	}
	return reconcile(r.objects, snapshot, surf)
}

// reconcile applies the minimal diff between current and snapshot. Iteration
// follows snapshot insertion order; duplicate keys within a snapshot collapse
// to the first occurrence.
func reconcile(current map[string]*entry, snapshot []keyed, surf surface.Surface) (ChangeSet, error) {
	var cs ChangeSet

	seen := make(map[string]struct{}, len(snapshot))
	for _, k := range snapshot {
		if _, dup := seen[k.key]; dup {
			continue
		}
		seen[k.key] = struct{}{}

		if e, ok := current[k.key]; ok {
			if e.marker != k.marker {
				if err := surf.Update(e.handle, k.marker); err != nil {
					return cs, fmt.Errorf("update marker %q: %w", k.key, err)
				}
				e.marker = k.marker
				cs.Updated++
			}
			continue
		}

		h, err := surf.Create(k.marker)
		if err != nil {
			return cs, fmt.Errorf("create marker %q: %w", k.key, err)
		}
		current[k.key] = &entry{category: k.category, marker: k.marker, handle: h}
		cs.Created++
	}

	for key, e := range current {
		if _, ok := seen[key]; ok {
			continue
		}
		if err := surf.Remove(e.handle); err != nil {
			return cs, fmt.Errorf("remove marker %q: %w", key, err)
		}
		delete(current, key)
		cs.Deleted++
	}

	return cs, nil
}

// ApplyVisibility attaches every object marker whose category is active and
// detaches the rest. Players are always attached. Idempotent and cheap, so
// the viewer runs it unconditionally after every mutation.
func (r *Registry) ApplyVisibility(ts *TypeSet, surf surface.Surface) error {
	for key, e := range r.players {
		if err := surf.Attach(e.handle); err != nil {
			return fmt.Errorf("attach player %q: %w", key, err)
		}
	}
	for key, e := range r.objects {
		if ts.Active(e.category) {
			if err := surf.Attach(e.handle); err != nil {
				return fmt.Errorf("attach object %q: %w", key, err)
			}
			continue
		}
		if err := surf.Detach(e.handle); err != nil {
			return fmt.Errorf("detach object %q: %w", key, err)
		}
	}
	return nil
}
