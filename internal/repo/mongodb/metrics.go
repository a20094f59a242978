package mongodb

import "time"

// Metrics is the slice of observability the repos report into. Not-found
// outcomes are recorded as successes; only genuine store failures count as
// errors.
type Metrics interface {
	ObserveStoreOp(store, op string, err error, elapsed time.Duration)
}

func observe(m Metrics, op string, err error, start time.Time) {
	if m == nil {
		return
	}
	m.ObserveStoreOp("mongo", op, err, time.Since(start))
}
