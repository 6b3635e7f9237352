package campaign

import "sync"

// Rotation is a round-robin cursor over an ordered account list. A Rotation
// shared between campaigns keeps its position across them.
type Rotation struct {
	mu   sync.Mutex
	next int
}

func NewRotation() *Rotation {
	return &Rotation{}
}

// Next returns the index to use for a list of n accounts and advances.
func (r *Rotation) Next(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	if n <= 0 {
		return -1
	}
	i := r.next % n
	r.next = i + 1
	return i
}

// Reset moves the cursor back to the first account.
func (r *Rotation) Reset() {
	r.mu.Lock()
	r.next = 0
	r.mu.Unlock()
}
