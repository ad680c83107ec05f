package sieve

import "sync"

// reorderBuffer releases per-segment prime batches strictly in segment
// index order, no matter in which order workers complete them.
//
// It also provides the engine's one point of backpressure: a worker that
// finished segment k+window while segment k is still outstanding blocks in
// put until the stream catches up, bounding the number of completed
// segments held in memory.
type reorderBuffer struct {
	mu      sync.Mutex
	cond    *sync.Cond
	pending map[int][]uint64
	next    int // lowest index not yet released
	window  int
	closed  bool
	err     error
}

func newReorderBuffer(window int) *reorderBuffer {
	if window < 1 {
		window = 1
	}
	b := &reorderBuffer{
		pending: make(map[int][]uint64),
		window:  window,
	}
	b.cond = sync.NewCond(&b.mu)
	return b
}

// put stores the batch for the given segment index, blocking while the
// index is too far ahead of the release point. Returns the abort error if
// the buffer was aborted while waiting.
func (b *reorderBuffer) put(index int, primes []uint64) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	for b.err == nil && index >= b.next+b.window {
		b.cond.Wait()
	}
	if b.err != nil {
		return b.err
	}

	b.pending[index] = primes
	b.cond.Broadcast()
	return nil
}

// take returns the next in-order batch. ok is false when the buffer was
// closed and fully drained. Blocks until the next index arrives.
func (b *reorderBuffer) take() (primes []uint64, ok bool, err error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for {
		if b.err != nil {
			return nil, false, b.err
		}
		if batch, present := b.pending[b.next]; present {
			delete(b.pending, b.next)
			b.next++
			b.cond.Broadcast()
			return batch, true, nil
		}
		if b.closed {
			return nil, false, nil
		}
		b.cond.Wait()
	}
}

// close marks the producer side finished; take drains what remains.
func (b *reorderBuffer) close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed = true
	b.cond.Broadcast()
}

// abort wakes all waiters with err and discards pending batches.
func (b *reorderBuffer) abort(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.err == nil {
		b.err = err
	}
	b.pending = nil
	b.cond.Broadcast()
}
