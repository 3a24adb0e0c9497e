package domain

import (
	"container/heap"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEventQueueOrdersByTimeThenSeq(t *testing.T) {
	q := &EventQueue{}
	heap.Init(q)

	heap.Push(q, &Event{Time: 5 * time.Second, Seq: 2})
	heap.Push(q, &Event{Time: 1 * time.Second, Seq: 1})
	heap.Push(q, &Event{Time: 1 * time.Second, Seq: 0})
	heap.Push(q, &Event{Time: 3 * time.Second, Seq: 3})

	var order []uint64
	for q.Len() > 0 {
		ev := heap.Pop(q).(*Event)
		order = append(order, ev.Seq)
	}
	assert.Equal(t, []uint64{0, 1, 3, 2}, order)
}

func TestEventKindString(t *testing.T) {
	assert.Equal(t, "create_device", EventCreateDevice.String())
	assert.Equal(t, "send_packet", EventSendPacket.String())
	assert.Equal(t, "unknown", EventKind(99).String())
}
