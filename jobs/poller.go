package jobs

import (
	"sort"
	"time"
)

// DefaultPollInterval is how long the poller sleeps between queue queries.
const DefaultPollInterval = 2 * time.Second

// Poller waits for background jobs to leave their transient states. It is a
// fixed-interval polling loop with a wait budget; there is no cancellation
// beyond the budget, matching how test scripts use it.
type Poller struct {
	Queue    Queue
	Interval time.Duration

	// sleep is replaceable so tests can run the loop without real delays.
	sleep func(time.Duration)
}

func NewPoller(queue Queue) *Poller {
	return &Poller{
		Queue:    queue,
		Interval: DefaultPollInterval,
		sleep:    time.Sleep,
	}
}

// WaitForTask returns the jobs of the given task type created at or after
// createdAfter, once every such job has reached a terminal state or once
// maxWait has been spent sleeping. Hitting the budget is not an error: the
// result then holds only the jobs already known to be terminal, and callers
// that need "all N jobs finished in time" must check the returned count
// themselves. A job the queue never lists is silently absent.
//
// The returned duration is the time actually slept, which can be less than
// wall-clock time spent querying the queue.
//
// A job recorded as terminal once is never re-evaluated, even if a later
// snapshot reports it differently.
func (p *Poller) WaitForTask(task string, createdAfter time.Time, maxWait time.Duration) ([]Job, time.Duration, error) {
	interval := p.Interval
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	sleep := p.sleep
	if sleep == nil {
		sleep = time.Sleep
	}

	completed := make(map[string]Job)
	var slept time.Duration

	for {
		listed, err := p.Queue.JobsForTask(task)
		if err != nil {
			return nil, slept, err
		}

		allComplete := true
		for _, job := range listed {
			if _, done := completed[job.ID]; done {
				continue
			}
			if job.CreatedAt.Before(createdAfter) {
				continue
			}
			if !job.State.Terminal() {
				allComplete = false
				continue
			}
			completed[job.ID] = job
		}

		if allComplete || slept >= maxWait {
			break
		}
		sleep(interval)
		slept += interval
	}

	result := make([]Job, 0, len(completed))
	for _, job := range completed {
		result = append(result, job)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	return result, slept, nil
}
