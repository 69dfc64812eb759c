package surface

import (
	geom "github.com/peterstace/simplefeatures/geom"

	"github.com/palworld-go/palmap/pkg/core"
)

// Marker describes what a surface should draw for one entity.
type Marker struct {
	Label    string
	Category core.ObjectCategory
	Position geom.XY
}

// Handle is the backend-native identity of a drawn marker. Handles are opaque
// to callers; only the surface that issued a handle may interpret it.
type Handle uint64

// Surface is the interface all display backends must satisfy. A surface owns
// the native marker objects; callers hold handles. Detach hides a marker
// without destroying it, Remove releases it for good.
type Surface interface {
	// Ready reports whether the surface has opened and can accept drawing.
	Ready() bool

	// Marker lifecycle
	Create(m Marker) (Handle, error)
	Update(h Handle, m Marker) error
	Attach(h Handle) error
	Detach(h Handle) error
	Remove(h Handle) error

	Close() error
}
