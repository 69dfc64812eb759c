package viewer

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"

	"github.com/palworld-go/palmap/internal/overlay"
)

const instrumentationName = "github.com/palworld-go/palmap/internal/viewer"

func meter() metric.Meter {
	return otel.Meter(instrumentationName)
}

// opCounters tracks marker reconciliation operations. Counters come from the
// global OTel meter and are no-ops when no provider is configured.
type opCounters struct {
	created metric.Int64Counter
	updated metric.Int64Counter
	deleted metric.Int64Counter
}

func newOpCounters() (*opCounters, error) {
	m := meter()

	created, err := m.Int64Counter(
		"viewer.markers.created",
		metric.WithDescription("Total markers created by reconciliation"),
	)
	if err != nil {
		return nil, err
	}
	updated, err := m.Int64Counter(
		"viewer.markers.updated",
		metric.WithDescription("Total markers updated in place"),
	)
	if err != nil {
		return nil, err
	}
	deleted, err := m.Int64Counter(
		"viewer.markers.deleted",
		metric.WithDescription("Total markers removed by reconciliation"),
	)
	if err != nil {
		return nil, err
	}

	return &opCounters{created: created, updated: updated, deleted: deleted}, nil
}

func (c *opCounters) record(cs overlay.ChangeSet) {
	ctx := context.Background()
	if cs.Created > 0 {
		c.created.Add(ctx, int64(cs.Created))
	}
	if cs.Updated > 0 {
		c.updated.Add(ctx, int64(cs.Updated))
	}
	if cs.Deleted > 0 {
		c.deleted.Add(ctx, int64(cs.Deleted))
	}
}
