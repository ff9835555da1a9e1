package arena

import "image"

// RedrawEntry is one pending tile refresh. It is drawn once per tick until
// Remaining reaches zero so every display buffer receives it.
type RedrawEntry struct {
	Tile      TileCoord
	Src       image.Point
	Masked    bool // overlay Src on a void tile instead of a plain copy
	Remaining int
}

// redrawQueue is a fixed-capacity FIFO ring buffer.
type redrawQueue struct {
	buf   []RedrawEntry
	head  int
	count int
}

func newRedrawQueue(capacity int) redrawQueue {
	return redrawQueue{buf: make([]RedrawEntry, capacity)}
}

func (q *redrawQueue) Len() int { return q.count }

func (q *redrawQueue) Cap() int { return len(q.buf) }

func (q *redrawQueue) Full() bool { return q.count == len(q.buf) }

// push appends e and reports false when the queue is full.
func (q *redrawQueue) push(e RedrawEntry) bool {
	if q.Full() {
		return false
	}
	q.buf[(q.head+q.count)%len(q.buf)] = e
	q.count++
	return true
}

// front returns the oldest entry, or nil when empty.
func (q *redrawQueue) front() *RedrawEntry {
	if q.count == 0 {
		return nil
	}
	return &q.buf[q.head]
}

func (q *redrawQueue) pop() {
	if q.count == 0 {
		return
	}
	q.buf[q.head] = RedrawEntry{}
	q.head = (q.head + 1) % len(q.buf)
	q.count--
}

func (q *redrawQueue) reset() {
	for i := range q.buf {
		q.buf[i] = RedrawEntry{}
	}
	q.head, q.count = 0, 0
}

// snapshot copies pending entries oldest first.
func (q *redrawQueue) snapshot() []RedrawEntry {
	out := make([]RedrawEntry, 0, q.count)
	for i := 0; i < q.count; i++ {
		out = append(out, q.buf[(q.head+i)%len(q.buf)])
	}
	return out
}
