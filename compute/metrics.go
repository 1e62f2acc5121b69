package compute

// MetricsAvailable is emitted synchronously on every state transition that
// affects an aggregate counter (§4.I, §6), so subscribers observe a
// linearizable sequence of snapshots.
type MetricsAvailable struct {
	HostCount      int
	AvailableCount int
	Submitted      int64
	Running        int64
	Finished       int64
	Queued         int64
	Unscheduled    int64
}

// counters holds the aggregate counter set (§3). SubmittedVms, FinishedVms,
// and UnscheduledVms are cumulative lifetime totals, never decremented;
// QueuedVms and RunningVms are gauges (§9 "counter monotonicity on
// deletion").
type counters struct {
	submitted   int64
	queued      int64
	running     int64
	finished    int64
	unscheduled int64
}

// eventBus is a hot, multi-subscriber broadcast channel (§9 "event
// streams"). The core is a producer only; a subscriber that falls behind
// drops events rather than blocking the dispatch loop — buffered,
// non-blocking sends. Every subscriber gets this drop behaviour; there is
// no subscription mode in which the producer blocks.
type eventBus struct {
	subscribers []chan MetricsAvailable
}

// subscribe returns a channel that receives every MetricsAvailable emitted
// from this point on. The channel is buffered; if the subscriber falls
// behind the buffer, subsequent sends are dropped rather than blocking the
// scheduler.
func (b *eventBus) subscribe(buffer int) <-chan MetricsAvailable {
	ch := make(chan MetricsAvailable, buffer)
	b.subscribers = append(b.subscribers, ch)
	return ch
}

// publish fans out m to every subscriber, dropping for any subscriber whose
// buffer is full.
func (b *eventBus) publish(m MetricsAvailable) {
	for _, ch := range b.subscribers {
		select {
		case ch <- m:
		default:
		}
	}
}

// close closes every subscriber channel. Called once, from Service.Close.
func (b *eventBus) close() {
	for _, ch := range b.subscribers {
		close(ch)
	}
	b.subscribers = nil
}
