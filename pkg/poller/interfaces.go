package poller

import (
	"context"
	"time"

	"github.com/victoryforphil/cursed-usb/pkg/models"
)

// SnapshotSource produces a point-in-time view of the attached devices.
type SnapshotSource interface {
	Snapshot(ctx context.Context) models.Snapshot
}

// Clock abstracts time-related operations.
type Clock interface {
	Now() time.Time
	NewTimer(d time.Duration) Timer
}

// Timer abstracts a single-shot timer so tests can drive polling cycles.
type Timer interface {
	Chan() <-chan time.Time
	Stop()
}
