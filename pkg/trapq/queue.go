package trapq

import (
	"errors"
	"math"
)

// ErrMalformedQueue is returned by CheckSentinels when the queue's boundary
// markers are missing or out of order.
var ErrMalformedQueue = errors.New("trapq: queue sentinel check failed")

// Queue is an intrusive doubly-linked list of moves, ordered by PrintTime,
// terminated at both ends by sentinel nodes. It is read-only from the
// solver's perspective; only Append mutates it.
//
// The head sentinel carries PrintTime = -Inf and the tail sentinel carries
// PrintTime = +Inf (both with MoveT = 0), so that any forward or backward
// walk driven by a comparison against a finite flush time stops at the
// sentinel on its own, without a caller needing to branch on IsSentinel
// before every step.
type Queue struct {
	head, tail *Move
}

// NewQueue returns an empty queue.
func NewQueue() *Queue {
	head := &Move{PrintTime: math.Inf(-1), sentinel: true}
	tail := &Move{PrintTime: math.Inf(1), sentinel: true}
	head.next = tail
	tail.prev = head
	return &Queue{head: head, tail: tail}
}

// Append adds a move to the end of the queue. The caller is responsible for
// maintaining PrintTime ordering and contiguity.
func (q *Queue) Append(m *Move) {
	last := q.tail.prev
	last.next = m
	m.prev = last
	m.next = q.tail
	q.tail.prev = m
}

// First returns the first move, or the tail sentinel if the queue is empty.
func (q *Queue) First() *Move { return q.head.next }

// Last returns the last move, or the head sentinel if the queue is empty.
func (q *Queue) Last() *Move { return q.tail.prev }

// CheckSentinels verifies the queue's boundary markers are intact. This is
// the external precondition the flush driver checks before walking the
// queue (spec'd as queue_check_sentinels).
func (q *Queue) CheckSentinels() error {
	if q == nil || q.head == nil || q.tail == nil {
		return ErrMalformedQueue
	}
	if !q.head.sentinel || !q.tail.sentinel {
		return ErrMalformedQueue
	}
	if q.head.prev != nil || q.tail.next != nil {
		return ErrMalformedQueue
	}
	if !math.IsInf(q.head.PrintTime, -1) || !math.IsInf(q.tail.PrintTime, 1) {
		return ErrMalformedQueue
	}
	return nil
}
