// Package jobs waits for background work queued by the deployment (image
// imports, product updates) to finish, so that tests can assert on its
// side effects. The queue itself belongs to the server; this package only
// reads snapshots of it.
package jobs

import "time"

// State is the lifecycle state of a background job as reported by the queue.
// The set is open: the queue may grow new states, and anything outside the
// two transient states counts as terminal.
type State string

const (
	StateInactive State = "inactive"
	StateActive   State = "active"
	StateFinished State = "finished"
	StateFailed   State = "failed"
)

// Terminal reports whether a job in this state will never run again.
// Note that failed jobs are terminal too: the poller does not distinguish
// success from failure, callers that care must inspect the returned jobs.
func (s State) Terminal() bool {
	return s != StateActive && s != StateInactive
}

// Job is a read-only snapshot of one queue entry.
type Job struct {
	ID        string
	State     State
	CreatedAt time.Time
	Task      string
}

// Queue is the query surface of the external job queue.
type Queue interface {
	// JobsForTask returns a snapshot of every job of the given task type
	// currently known to the queue, in no particular order.
	JobsForTask(task string) ([]Job, error)
}
