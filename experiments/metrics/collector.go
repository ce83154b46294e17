package metrics

import (
	"sync/atomic"
	"time"
)

// Phase is a stage of a distributed search that is timed separately.
type Phase int

const (
	Setup         Phase = iota // Initialising and splitting jobs
	Communication              // Sending jobs and waiting on results
	Computation                // The master executing its own share
	Collate                    // Rewinding results and picking root moves
	numPhases
)

func (p Phase) String() string {
	switch p {
	case Setup:
		return "setup"
	case Communication:
		return "communication"
	case Computation:
		return "computation"
	case Collate:
		return "collate"
	default:
		return "unknown"
	}
}

type SearchMetric struct {
	Workers         int
	Depth           int
	JobsBeforeSplit int
	JobsAfterSplit  int
	Setup           time.Duration
	Communication   time.Duration
	Computation     time.Duration
	Collate         time.Duration
	Duration        time.Duration
	BoardsAssessed  int
	Exhaustive      bool
}

type MoveMetric struct {
	Step   int
	Player string
	Move   string // Empty when the player passed
	SearchMetric
}

type GameMetric struct {
	StartingPlayer string
	Winner         string // Empty on a draw
	Score          int    // Black disks minus white disks
	StartTime      time.Time
	EndTime        time.Time
	Duration       time.Duration
	TotalMoves     int
	BoardsAssessed int
	Exhaustive     bool
}

type Collector interface {
	Start(workers, depth int)
	SetJobs(before, after int)
	Add(phase Phase, d time.Duration)
	// Time starts timing phase and returns the function that stops it.
	Time(phase Phase) func()
	Complete(boards int, exhaustive bool) SearchMetric
}

type collector struct {
	workers   int
	depth     int
	startTime time.Time
	before    atomic.Int32
	after     atomic.Int32
	phases    [numPhases]atomic.Int64
}

func NewCollector() Collector {
	return &collector{}
}

func (m *collector) Start(workers, depth int) {
	m.startTime = time.Now()
	m.workers = workers
	m.depth = depth
	m.before.Store(0)
	m.after.Store(0)
	for i := range m.phases {
		m.phases[i].Store(0)
	}
}

func (m *collector) SetJobs(before, after int) {
	m.before.Store(int32(before))
	m.after.Store(int32(after))
}

func (m *collector) Add(phase Phase, d time.Duration) {
	m.phases[phase].Add(int64(d))
}

func (m *collector) Time(phase Phase) func() {
	start := time.Now()
	return func() {
		m.Add(phase, time.Since(start))
	}
}

func (m *collector) Complete(boards int, exhaustive bool) SearchMetric {
	return SearchMetric{
		Workers:         m.workers,
		Depth:           m.depth,
		JobsBeforeSplit: int(m.before.Load()),
		JobsAfterSplit:  int(m.after.Load()),
		Setup:           time.Duration(m.phases[Setup].Load()),
		Communication:   time.Duration(m.phases[Communication].Load()),
		Computation:     time.Duration(m.phases[Computation].Load()),
		Collate:         time.Duration(m.phases[Collate].Load()),
		Duration:        time.Since(m.startTime),
		BoardsAssessed:  boards,
		Exhaustive:      exhaustive,
	}
}

type dummyCollector struct{}

func NewDummyCollector() Collector {
	return &dummyCollector{}
}

func (m *dummyCollector) Start(workers, depth int)         {}
func (m *dummyCollector) SetJobs(before, after int)        {}
func (m *dummyCollector) Add(phase Phase, d time.Duration) {}
func (m *dummyCollector) Time(phase Phase) func()          { return func() {} }
func (m *dummyCollector) Complete(boards int, exhaustive bool) SearchMetric {
	return SearchMetric{BoardsAssessed: boards, Exhaustive: exhaustive}
}
