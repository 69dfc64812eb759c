// Package viewer orchestrates the live map: it owns one display surface,
// routes every snapshot through coordinate transformation and marker
// reconciliation, and layers category visibility on top.
package viewer

import (
	"fmt"
	"log/slog"
	"sync"

	geom "github.com/peterstace/simplefeatures/geom"

	"github.com/palworld-go/palmap/internal/overlay"
	"github.com/palworld-go/palmap/internal/surface"
	"github.com/palworld-go/palmap/internal/transform"
	"github.com/palworld-go/palmap/pkg/core"
)

// State tracks the viewer lifecycle. Transitions only move forward; a
// disposed viewer is not reusable.
type State int

const (
	StateUninitialized State = iota
	StateInitializing
	StateReady
	StateDisposed
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateInitializing:
		return "initializing"
	case StateReady:
		return "ready"
	case StateDisposed:
		return "disposed"
	default:
		return "unknown"
	}
}

// Viewer binds a projection, a surface and the marker registry. All mutation
// runs on the caller's goroutine; the mutex only guards against a late poll
// racing a teardown.
type Viewer struct {
	mu    sync.Mutex
	state State

	proj     transform.Projection
	surf     surface.Surface
	registry *overlay.Registry
	types    *overlay.TypeSet
	logger   *slog.Logger

	// Snapshots that arrived before the surface opened. Applied once on Open.
	pendingPlayers []core.Player
	pendingObjects []core.MapObject
	havePlayers    bool
	haveObjects    bool

	metrics      *opCounters
	recordChange func(overlay.ChangeSet)
}

// Option configures a Viewer.
type Option func(*Viewer)

// WithChangeRecorder adds a callback fed the change set of every
// reconciliation pass, alongside the built-in counters.
func WithChangeRecorder(fn func(overlay.ChangeSet)) Option {
	return func(v *Viewer) { v.recordChange = fn }
}

// New creates a viewer in the uninitialized state.
func New(proj transform.Projection, surf surface.Surface, logger *slog.Logger, opts ...Option) (*Viewer, error) {
	m, err := newOpCounters()
	if err != nil {
		return nil, fmt.Errorf("creating viewer metrics: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	v := &Viewer{
		proj:     proj,
		surf:     surf,
		registry: overlay.NewRegistry(),
		types:    overlay.NewTypeSet(),
		logger:   logger,
		metrics:  m,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v, nil
}

// State returns the current lifecycle state.
func (v *Viewer) State() State {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.state
}

// Mounted reports whether the viewer still accepts data. A poll that resolves
// after Dispose must check this before pushing its snapshot.
func (v *Viewer) Mounted() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.state != StateDisposed
}

// Init marks the backend load as started. Drawing stays deferred until Open.
func (v *Viewer) Init() {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.state == StateUninitialized {
		v.state = StateInitializing
	}
}

// Open is the surface's "opened" signal. The first call transitions to Ready
// and applies any snapshots that arrived early; later calls are no-ops.
func (v *Viewer) Open() error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.state == StateReady || v.state == StateDisposed {
		return nil
	}
	v.state = StateReady
	v.logger.Info("Map surface opened")

	if v.havePlayers {
		if err := v.syncPlayersLocked(v.pendingPlayers); err != nil {
			return err
		}
		v.pendingPlayers = nil
		v.havePlayers = false
	}
	if v.haveObjects {
		if err := v.syncObjectsLocked(v.pendingObjects); err != nil {
			return err
		}
		v.pendingObjects = nil
		v.haveObjects = false
	}
	return nil
}

// SetPlayers applies a new player snapshot. Before Ready the snapshot is
// retained and applied on Open; after Dispose it is dropped. Neither case is
// an error.
func (v *Viewer) SetPlayers(players []core.Player) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	switch v.state {
	case StateDisposed:
		return nil
	case StateReady:
		return v.syncPlayersLocked(players)
	default:
		v.pendingPlayers = players
		v.havePlayers = true
		return nil
	}
}

// SetObjects applies a new world-object snapshot, recomputing the active-type
// set from the observed categories first.
func (v *Viewer) SetObjects(objects []core.MapObject) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	switch v.state {
	case StateDisposed:
		return nil
	case StateReady:
		return v.syncObjectsLocked(objects)
	default:
		v.pendingObjects = objects
		v.haveObjects = true
		return nil
	}
}

func (v *Viewer) syncPlayersLocked(players []core.Player) error {
	cs, err := v.registry.SyncPlayers(players, v.proj, v.surf)
	if err != nil {
		return fmt.Errorf("reconciling players: %w", err)
	}
	v.metrics.record(cs)
	if v.recordChange != nil {
		v.recordChange(cs)
	}
	v.logger.Debug("Player markers reconciled",
		"created", cs.Created, "updated", cs.Updated, "deleted", cs.Deleted)
	return v.registry.ApplyVisibility(v.types, v.surf)
}

func (v *Viewer) syncObjectsLocked(objects []core.MapObject) error {
	observed := make([]core.ObjectCategory, 0, len(objects))
	for _, o := range objects {
		observed = append(observed, o.Category)
	}
	v.types.Observe(observed)

	cs, err := v.registry.SyncObjects(objects, v.proj, v.surf)
	if err != nil {
		return fmt.Errorf("reconciling objects: %w", err)
	}
	v.metrics.record(cs)
	if v.recordChange != nil {
		v.recordChange(cs)
	}
	v.logger.Debug("Object markers reconciled",
		"created", cs.Created, "updated", cs.Updated, "deleted", cs.Deleted,
		"activeTypes", v.types.List())
	return v.registry.ApplyVisibility(v.types, v.surf)
}

// SetActiveTypes replaces the active category set and reapplies visibility.
func (v *Viewer) SetActiveTypes(categories ...core.ObjectCategory) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.state == StateDisposed {
		return nil
	}
	v.types.SetActive(categories...)
	return v.registry.ApplyVisibility(v.types, v.surf)
}

// ToggleType toggles one category and reapplies visibility.
func (v *Viewer) ToggleType(c core.ObjectCategory, on bool) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.state == StateDisposed {
		return nil
	}
	v.types.Toggle(c, on)
	return v.registry.ApplyVisibility(v.types, v.surf)
}

// ActiveTypes returns the current active category set.
func (v *Viewer) ActiveTypes() []core.ObjectCategory {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.types.List()
}

// Readout translates a pointer position on the map surface into the world
// coordinate string shown next to the cursor. Returns "" until Ready.
func (v *Viewer) Readout(d geom.XY) string {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.state != StateReady {
		return ""
	}
	w := v.proj.DisplayToWorld(d)
	return fmt.Sprintf("%.0f, %.0f", w.X, w.Y)
}

// Dispose tears the viewer down: the surface is closed and the viewer stops
// accepting data. Safe to call more than once; only the first call closes.
func (v *Viewer) Dispose() error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.state == StateDisposed {
		return nil
	}
	v.state = StateDisposed
	v.pendingPlayers = nil
	v.pendingObjects = nil
	v.logger.Info("Viewer disposed")
	return v.surf.Close()
}
