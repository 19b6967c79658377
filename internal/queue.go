package internal

// ComputationQueue is a FIFO of computations waiting at one tier.
type ComputationQueue struct {
	items   []*Computation
	members map[*Computation]struct{}
}

func NewComputationQueue() *ComputationQueue {
	return &ComputationQueue{
		items:   make([]*Computation, 0),
		members: make(map[*Computation]struct{}),
	}
}

// Enqueue appends c unless it is already waiting.
func (q *ComputationQueue) Enqueue(c *Computation) bool {
	if _, ok := q.members[c]; ok {
		return false
	}
	q.members[c] = struct{}{}
	q.items = append(q.items, c)
	return true
}

func (q *ComputationQueue) Pop() (*Computation, bool) {
	if len(q.items) == 0 {
		return nil, false
	}
	c := q.items[0]
	q.items[0] = nil
	q.items = q.items[1:]
	delete(q.members, c)
	return c, true
}

func (q *ComputationQueue) Len() int {
	if q == nil {
		return 0
	}
	return len(q.items)
}

func (q *ComputationQueue) Contains(c *Computation) bool {
	if q == nil {
		return false
	}
	_, ok := q.members[c]
	return ok
}

// reset empties the queue, returning what was waiting to StateNone so a
// later write enqueues it again.
func (q *ComputationQueue) reset() {
	if q == nil {
		return
	}
	for c, ok := q.Pop(); ok; c, ok = q.Pop() {
		c.state = StateNone
	}
}

type SettledQueue struct {
	callbacks []func()
}

func NewSettledQueue() *SettledQueue {
	return &SettledQueue{
		callbacks: make([]func(), 0),
	}
}

func (q *SettledQueue) Enqueue(fn func()) {
	q.callbacks = append(q.callbacks, fn)
}

func (q *SettledQueue) Run() {
	callbacks := q.callbacks
	q.callbacks = make([]func(), 0)

	for _, cb := range callbacks {
		cb()
	}
}
