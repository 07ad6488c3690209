package particles

import "sync"

// Pointer holds the last known pointer position in page space. It is the
// only simulator state that input goroutines may write, so it is guarded.
type Pointer struct {
	mu   sync.RWMutex
	pos  Vec2
	seen bool
}

// Set records a new page-space position.
func (p *Pointer) Set(pos Vec2) {
	p.mu.Lock()
	p.pos = pos
	p.seen = true
	p.mu.Unlock()
}

// Position returns the most recent position and whether the pointer has been
// observed at all. Before the first Set there is no repulsion or highlight.
func (p *Pointer) Position() (Vec2, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.pos, p.seen
}
