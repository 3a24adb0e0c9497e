package simulation

import (
	"container/heap"

	"github.com/lcalzada-xor/probegen/internal/core/domain"
)

// eventQueue wraps domain.EventQueue behind container/heap so the rest of
// the engine never imports container/heap directly (spec.md §9: "Keep it
// as an explicit priority-queue drainer").
type eventQueue struct {
	q   domain.EventQueue
	seq uint64
}

func newEventQueue() *eventQueue {
	q := &eventQueue{}
	heap.Init(&q.q)
	return q
}

// schedule pushes ev onto the queue, assigning it the next insertion
// sequence number for deterministic tie-breaking.
func (eq *eventQueue) schedule(ev *domain.Event) {
	ev.Seq = eq.seq
	eq.seq++
	heap.Push(&eq.q, ev)
}

func (eq *eventQueue) pop() *domain.Event {
	if eq.q.Len() == 0 {
		return nil
	}
	return heap.Pop(&eq.q).(*domain.Event)
}

func (eq *eventQueue) empty() bool {
	return eq.q.Len() == 0
}
