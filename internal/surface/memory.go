package surface

import (
	"errors"
	"sync"
)

// ErrUnknownHandle is returned when an operation references a handle the
// surface never issued or already removed.
var ErrUnknownHandle = errors.New("unknown marker handle")

// ErrClosed is returned when drawing on a closed surface.
var ErrClosed = errors.New("surface is closed")

// record is the native marker object of the memory surface.
type record struct {
	marker   Marker
	attached bool
}

// Memory is an in-process surface. It backs tests and headless runs, and it
// doubles as the bookkeeping core for surfaces that forward operations
// elsewhere.
type Memory struct {
	mu      sync.RWMutex
	opened  bool
	closed  bool
	nextID  Handle
	markers map[Handle]*record
}

// NewMemory creates a memory surface. It is not ready until Open is called.
func NewMemory() *Memory {
	return &Memory{
		markers: make(map[Handle]*record),
	}
}

// Open marks the surface ready. The viewer treats this as the backend's
// "surface opened" signal.
func (s *Memory) Open() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.opened = true
}

// Ready reports whether the surface accepts drawing.
func (s *Memory) Ready() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.opened && !s.closed
}

// Create allocates a native marker and returns its handle. New markers start
// attached.
func (s *Memory) Create(m Marker) (Handle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return 0, ErrClosed
	}
	s.nextID++
	s.markers[s.nextID] = &record{marker: m, attached: true}
	return s.nextID, nil
}

// Update repositions and relabels a marker in place.
func (s *Memory) Update(h Handle, m Marker) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.markers[h]
	if !ok {
		return ErrUnknownHandle
	}
	r.marker = m
	return nil
}

// Attach shows a marker. Idempotent.
func (s *Memory) Attach(h Handle) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.markers[h]
	if !ok {
		return ErrUnknownHandle
	}
	r.attached = true
	return nil
}

// Detach hides a marker without destroying it. Idempotent.
func (s *Memory) Detach(h Handle) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.markers[h]
	if !ok {
		return ErrUnknownHandle
	}
	r.attached = false
	return nil
}

// Remove destroys a marker and releases its handle.
func (s *Memory) Remove(h Handle) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.markers[h]; !ok {
		return ErrUnknownHandle
	}
	delete(s.markers, h)
	return nil
}

// Close destroys the surface. Further drawing fails with ErrClosed.
func (s *Memory) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.markers = make(map[Handle]*record)
	return nil
}

// Count returns the number of live markers.
func (s *Memory) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.markers)
}

// Attached reports whether a marker is currently shown.
func (s *Memory) Attached(h Handle) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.markers[h]
	return ok && r.attached
}

// Exists reports whether a handle is still live.
func (s *Memory) Exists(h Handle) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.markers[h]
	return ok
}

// MarkerState describes one live marker and its attachment.
type MarkerState struct {
	Handle   Handle
	Marker   Marker
	Attached bool
}

// Snapshot returns the current state of every live marker.
func (s *Memory) Snapshot() []MarkerState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]MarkerState, 0, len(s.markers))
	for h, r := range s.markers {
		out = append(out, MarkerState{Handle: h, Marker: r.marker, Attached: r.attached})
	}
	return out
}

// Get returns the current marker content for a handle.
func (s *Memory) Get(h Handle) (Marker, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.markers[h]
	if !ok {
		return Marker{}, false
	}
	return r.marker, true
}
