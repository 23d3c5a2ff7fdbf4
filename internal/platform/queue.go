package platform

// Queue is a FIFO of host events for hosts that synthesize their own queue
// instead of wrapping a native one.
type Queue struct {
	events []HostEvent
}

func (q *Queue) Push(events ...HostEvent) {
	q.events = append(q.events, events...)
}

func (q *Queue) Len() int { return len(q.events) }

func (q *Queue) PollEvent() (HostEvent, bool) {
	if len(q.events) == 0 {
		return HostEvent{}, false
	}
	e := q.events[0]
	q.events = q.events[1:]
	return e, true
}

func (q *Queue) TakeEvent(kind HostEventKind) (HostEvent, bool) {
	for i, e := range q.events {
		if e.Kind == kind {
			q.events = append(q.events[:i:i], q.events[i+1:]...)
			return e, true
		}
	}
	return HostEvent{}, false
}

func (q *Queue) FlushEvents(kinds ...HostEventKind) {
	kept := q.events[:0]
	for _, e := range q.events {
		if !hasKind(kinds, e.Kind) {
			kept = append(kept, e)
		}
	}
	q.events = kept
}

func hasKind(kinds []HostEventKind, kind HostEventKind) bool {
	for _, k := range kinds {
		if k == kind {
			return true
		}
	}
	return false
}
