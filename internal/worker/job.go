package worker

import (
	"time"
)

// Job asks the worker for one collection run.
type Job struct {
	Reason string // "schedule", "watch", "startup", "reload"
	At     time.Time
}
