package overlay

import (
	"testing"

	"github.com/palworld-go/palmap/internal/surface"
	"github.com/palworld-go/palmap/internal/transform"
	"github.com/palworld-go/palmap/pkg/core"
)

func newTestSurface() *surface.Memory {
	s := surface.NewMemory()
	s.Open()
	return s
}

func player(id string, x, y float64) core.Player {
	return core.Player{UserID: id, Name: id, Location: core.Position2D{X: x, Y: y}}
}

func object(cat core.ObjectCategory, x, y float64) core.MapObject {
	return core.MapObject{Category: cat, Location: core.Position2D{X: x, Y: y}}
}

func TestSyncPlayers_CreatesMarkers(t *testing.T) {
	r := NewRegistry()
	s := newTestSurface()
	proj := transform.NewImageProjection()

	cs, err := r.SyncPlayers([]core.Player{player("u1", 100, 200), player("u2", -50, 75)}, proj, s)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cs.Created != 2 || cs.Updated != 0 || cs.Deleted != 0 {
		t.Errorf("expected 2 creates, got %+v", cs)
	}
	if s.Count() != 2 {
		t.Errorf("expected 2 surface markers, got %d", s.Count())
	}
}

func TestSyncPlayers_MoveUpdatesInPlace(t *testing.T) {
	r := NewRegistry()
	s := newTestSurface()
	proj := transform.NewImageProjection()

	if _, err := r.SyncPlayers([]core.Player{player("u1", 100, 200)}, proj, s); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	before, ok := r.PlayerHandle("u1")
	if !ok {
		t.Fatal("expected a handle for u1")
	}

	cs, err := r.SyncPlayers([]core.Player{player("u1", 150, 210)}, proj, s)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cs.Created != 0 || cs.Updated != 1 || cs.Deleted != 0 {
		t.Errorf("expected one update only, got %+v", cs)
	}
	after, _ := r.PlayerHandle("u1")
	if after != before {
		t.Errorf("expected marker handle to survive the move, got %d then %d", before, after)
	}
	m, _ := s.Get(after)
	want := proj.WorldToDisplay(core.Position2D{X: 150, Y: 210})
	if m.Position != want {
		t.Errorf("expected repositioned marker at %+v, got %+v", want, m.Position)
	}
}

func TestSyncPlayers_AbsentIdentityRemoved(t *testing.T) {
	r := NewRegistry()
	s := newTestSurface()
	proj := transform.NewImageProjection()

	if _, err := r.SyncPlayers([]core.Player{player("u1", 0, 0), player("u2", 1, 1)}, proj, s); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	gone, _ := r.PlayerHandle("u2")

	cs, err := r.SyncPlayers([]core.Player{player("u1", 0, 0)}, proj, s)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cs.Deleted != 1 {
		t.Errorf("expected one delete, got %+v", cs)
	}
	if s.Exists(gone) {
		t.Error("expected removed player's marker to be destroyed, not hidden")
	}
	if r.PlayerCount() != 1 {
		t.Errorf("expected 1 live player, got %d", r.PlayerCount())
	}
}

func TestSyncPlayers_Idempotent(t *testing.T) {
	r := NewRegistry()
	s := newTestSurface()
	proj := transform.NewImageProjection()

	snapshot := []core.Player{player("u1", 5, 5), player("u2", 9, 9)}
	if _, err := r.SyncPlayers(snapshot, proj, s); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cs, err := r.SyncPlayers(snapshot, proj, s)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cs != (ChangeSet{}) {
		t.Errorf("expected zero operations on identical snapshot, got %+v", cs)
	}
}

func TestSyncObjects_MovedObjectIsDeletePlusCreate(t *testing.T) {
	r := NewRegistry()
	s := newTestSurface()
	proj := transform.NewLeafletProjection()

	if _, err := r.SyncObjects([]core.MapObject{object(core.CategoryDungeon, 1000, 2000)}, proj, s); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cs, err := r.SyncObjects([]core.MapObject{object(core.CategoryDungeon, 3000, 2000)}, proj, s)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cs.Created != 1 || cs.Deleted != 1 || cs.Updated != 0 {
		t.Errorf("expected delete+create for moved object, got %+v", cs)
	}
}

func TestSyncObjects_DuplicatesCollapse(t *testing.T) {
	r := NewRegistry()
	s := newTestSurface()
	proj := transform.NewLeafletProjection()

	cs, err := r.SyncObjects([]core.MapObject{
		object(core.CategoryPal, 10, 10),
		object(core.CategoryPal, 10, 10),
	}, proj, s)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cs.Created != 1 {
		t.Errorf("expected indistinguishable objects to collapse to one marker, got %+v", cs)
	}
	if r.ObjectCount() != 1 {
		t.Errorf("expected 1 live object, got %d", r.ObjectCount())
	}
}

func TestSyncObjects_RemovedKeyNeverReappears(t *testing.T) {
	r := NewRegistry()
	s := newTestSurface()
	proj := transform.NewLeafletProjection()

	removed := object(core.CategoryFastTravel, 500, 500)
	if _, err := r.SyncObjects([]core.MapObject{removed, object(core.CategoryDungeon, 1, 1)}, proj, s); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	remaining := []core.MapObject{object(core.CategoryDungeon, 1, 1)}
	cs, err := r.SyncObjects(remaining, proj, s)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cs.Deleted != 1 {
		t.Errorf("expected exactly one delete, got %+v", cs)
	}

	// Same snapshot again: nothing comes back.
	cs, err = r.SyncObjects(remaining, proj, s)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cs != (ChangeSet{}) {
		t.Errorf("expected no operations, got %+v", cs)
	}
	if _, ok := r.ObjectHandle(removed.Key()); ok {
		t.Error("expected removed object to stay gone without a new matching entity")
	}
}

func TestApplyVisibility_DetachKeepsMarkerAlive(t *testing.T) {
	r := NewRegistry()
	s := newTestSurface()
	proj := transform.NewLeafletProjection()
	ts := NewTypeSet()

	objs := []core.MapObject{
		object(core.CategoryPal, 10, 10),
		object(core.CategoryDungeon, 20, 20),
	}
	if _, err := r.SyncObjects(objs, proj, s); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ts.Observe([]core.ObjectCategory{core.CategoryPal, core.CategoryDungeon})

	palHandle, _ := r.ObjectHandle(objs[0].Key())

	// Toggle pal off: detached, not destroyed.
	ts.Toggle(core.CategoryPal, false)
	if err := r.ApplyVisibility(ts, s); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !s.Exists(palHandle) {
		t.Fatal("expected detached marker to still exist")
	}
	if s.Attached(palHandle) {
		t.Error("expected pal marker to be detached")
	}

	// Toggle back on: the same marker instance reattaches.
	ts.Toggle(core.CategoryPal, true)
	if err := r.ApplyVisibility(ts, s); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !s.Attached(palHandle) {
		t.Error("expected pal marker to be reattached")
	}
}

func TestApplyVisibility_PlayersAlwaysAttached(t *testing.T) {
	r := NewRegistry()
	s := newTestSurface()
	proj := transform.NewImageProjection()
	ts := NewTypeSet()

	if _, err := r.SyncPlayers([]core.Player{player("u1", 0, 0)}, proj, s); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := r.ApplyVisibility(ts, s); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	h, _ := r.PlayerHandle("u1")
	if !s.Attached(h) {
		t.Error("expected player marker to stay attached regardless of the active set")
	}
}
