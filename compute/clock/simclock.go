package clock

import "container/heap"

// SimClock is a deterministic, single-threaded cooperative executor bound
// to a simulated clock. All scheduled callbacks run synchronously within
// RunUntil/Step, in (time, then insertion-order) order — the "single logical
// executor" §5 requires, with no locks needed because nothing runs
// concurrently with it.
type SimClock struct {
	now    int64
	seq    int64
	tasks  taskHeap
	active map[string]bool
}

// NewSimClock creates a SimClock starting at simulated time 0.
func NewSimClock() *SimClock {
	sc := &SimClock{active: make(map[string]bool)}
	heap.Init(&sc.tasks)
	return sc
}

// Now implements Clock.
func (sc *SimClock) Now() int64 {
	return sc.now
}

// Schedule runs fn at now+delay. delay must be >= 0.
func (sc *SimClock) Schedule(delay int64, fn func()) {
	heap.Push(&sc.tasks, task{time: sc.now + delay, seq: sc.nextSeq(), fn: fn})
}

// StartSingleTimer arms a single-slot timer identified by key: if key is
// already active, this call is a no-op (§4.E "at most one dispatch pass is
// pending at any time"). Otherwise the timer is armed to fire fn after
// delay, and key is cleared immediately before fn runs so a fresh
// StartSingleTimer call from within fn (or anywhere else) can re-arm it.
func (sc *SimClock) StartSingleTimer(key string, delay int64, fn func()) {
	if sc.active[key] {
		return
	}
	sc.active[key] = true
	sc.Schedule(delay, func() {
		sc.active[key] = false
		fn()
	})
}

// IsTimerActive reports whether a single-slot timer identified by key is
// currently armed and has not yet fired.
func (sc *SimClock) IsTimerActive(key string) bool {
	return sc.active[key]
}

// HasPending reports whether any task remains scheduled.
func (sc *SimClock) HasPending() bool {
	return sc.tasks.Len() > 0
}

// PeekNextTime returns the timestamp of the earliest pending task. Panics
// if no task is pending; callers must guard with HasPending.
func (sc *SimClock) PeekNextTime() int64 {
	return sc.tasks[0].time
}

// Step pops and executes the single earliest-scheduled task, advancing Now
// to its timestamp. No-op (returns false) if no task is pending.
func (sc *SimClock) Step() bool {
	if sc.tasks.Len() == 0 {
		return false
	}
	t := heap.Pop(&sc.tasks).(task)
	sc.now = t.time
	t.fn()
	return true
}

// RunUntil executes tasks in timestamp order until none remain scheduled
// at or before horizon (exclusive tasks strictly after horizon are left
// pending). A horizon of -1 drains the clock entirely.
func (sc *SimClock) RunUntil(horizon int64) {
	for sc.tasks.Len() > 0 && (horizon < 0 || sc.tasks[0].time <= horizon) {
		sc.Step()
	}
}

func (sc *SimClock) nextSeq() int64 {
	s := sc.seq
	sc.seq++
	return s
}

// task is one scheduled callback. Ordering is (time, seq) so that tasks
// scheduled for the same timestamp run in the order they were scheduled —
// the determinism guarantee sim/cluster/cluster_event.go's
// clusterEventEntry gives its events.
type task struct {
	time int64
	seq  int64
	fn   func()
}

// taskHeap implements heap.Interface, ordered by (time, seq).
type taskHeap []task

func (h taskHeap) Len() int { return len(h) }
func (h taskHeap) Less(i, j int) bool {
	if h[i].time != h[j].time {
		return h[i].time < h[j].time
	}
	return h[i].seq < h[j].seq
}
func (h taskHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }
func (h *taskHeap) Push(x any)   { *h = append(*h, x.(task)) }
func (h *taskHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}
