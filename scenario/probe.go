package scenario

import (
	"sort"
	"sync"
	"sync/atomic"
)

var lastProbeID atomic.Int64

// NextID returns the next probe identifier. Identifiers are sequential
// across the process.
func NextID() int64 {
	return lastProbeID.Add(1)
}

// Probe is an instrumented pointee. It records every Drop in its Tally.
type Probe struct {
	tally *Tally
	ID    int64
}

// NewProbe returns a probe with the next identifier, reporting to t.
// t may be nil.
func NewProbe(t *Tally) *Probe {
	return &Probe{ID: NextID(), tally: t}
}

// Drop implements handle.Dropper.
func (p *Probe) Drop() {
	if p.tally != nil {
		p.tally.record(p.ID)
	}
}

// Tally counts probe drops by identifier.
type Tally struct {
	drops map[int64]int
	mu    sync.Mutex
}

// NewTally creates an empty tally.
func NewTally() *Tally {
	return &Tally{drops: make(map[int64]int)}
}

func (t *Tally) record(id int64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.drops[id]++
}

// Drops returns how many times the probe with the given id was dropped.
func (t *Tally) Drops(id int64) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.drops[id]
}

// Total returns the number of drops recorded.
func (t *Tally) Total() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	n := 0
	for _, c := range t.drops {
		n += c
	}
	return n
}

// Repeated returns the ids of probes dropped more than once, sorted.
func (t *Tally) Repeated() []int64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	var ids []int64
	for id, c := range t.drops {
		if c > 1 {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
