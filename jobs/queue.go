package jobs

import (
	"time"

	"golang.org/x/exp/rand"
)

// Queue holds the jobs waiting to be dispatched, in creation order.
type Queue struct {
	jobs []Job
}

func NewQueue(jobs ...Job) *Queue {
	return &Queue{jobs: jobs}
}

func (q *Queue) Len() int {
	return len(q.jobs)
}

func (q *Queue) Push(j Job) {
	q.jobs = append(q.jobs, j)
}

// PopFront removes the oldest job. ok is false when the queue is empty.
func (q *Queue) PopFront() (j Job, ok bool) {
	if len(q.jobs) == 0 {
		return Job{}, false
	}
	j = q.jobs[0]
	q.jobs[0] = Job{}
	q.jobs = q.jobs[1:]
	return j, true
}

// Take removes up to n jobs. With a nil rng they come from the front of the
// queue; otherwise each one is picked uniformly from what remains.
func (q *Queue) Take(n int, rng *rand.Rand) []Job {
	n = min(n, len(q.jobs))
	if n <= 0 {
		return nil
	}
	if rng == nil {
		taken := make([]Job, n)
		copy(taken, q.jobs[:n])
		q.jobs = q.jobs[n:]
		return taken
	}

	taken := make([]Job, 0, n)
	for range n {
		i := rng.Intn(len(q.jobs))
		taken = append(taken, q.jobs[i])
		q.jobs = append(q.jobs[:i], q.jobs[i+1:]...)
	}
	return taken
}

// NewRand returns the generator used for random job distribution. A zero seed
// seeds from the clock.
func NewRand(seed uint64) *rand.Rand {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return rand.New(rand.NewSource(seed))
}
