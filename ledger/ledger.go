package ledger

import (
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/wippyai/smartptr/errors"
	"github.com/wippyai/smartptr/handle"
)

// Entry describes one live ownership group.
type Entry struct {
	Created time.Time
	Label   string
	Group   uint64
	Refs    uint32
	Joins   uint32
}

// Ledger records the live ownership groups it observes.
// Implements handle.Observer.
type Ledger struct {
	entries   map[uint64]*Entry
	observers []handle.Observer
	created   uint64
	freed     uint64
	mu        sync.RWMutex
	obsMu     sync.RWMutex
	closed    bool
}

// New creates an empty ledger.
func New() *Ledger {
	return &Ledger{
		entries: make(map[uint64]*Entry, 16),
	}
}

// Options returns group options that label the group and report it to l.
func (l *Ledger) Options(label string) handle.Options {
	return handle.Options{
		Label:     label,
		Observers: []handle.Observer{l},
	}
}

// OnHandleEvent records e and forwards it to subscribers.
func (l *Ledger) OnHandleEvent(e handle.Event) {
	if !l.record(e) {
		return
	}
	l.notify(e)
}

func (l *Ledger) record(e handle.Event) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return false
	}

	switch e.Type {
	case handle.EventCreated:
		l.entries[e.Group] = &Entry{
			Created: time.Now(),
			Label:   e.Label,
			Group:   e.Group,
			Refs:    e.Refs,
		}
		l.created++

	case handle.EventJoined:
		if ent, ok := l.entries[e.Group]; ok {
			ent.Refs = e.Refs
			ent.Joins++
		}

	case handle.EventLeft, handle.EventMoved:
		if ent, ok := l.entries[e.Group]; ok {
			ent.Refs = e.Refs
		}

	case handle.EventFreed:
		if _, ok := l.entries[e.Group]; ok {
			delete(l.entries, e.Group)
			l.freed++
		}
	}
	return true
}

// Get returns the entry for a live group.
func (l *Ledger) Get(group uint64) (Entry, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	ent, ok := l.entries[group]
	if !ok {
		return Entry{}, false
	}
	return *ent, true
}

// Len returns the number of live groups.
func (l *Ledger) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entries)
}

// Created returns how many groups the ledger has seen created.
func (l *Ledger) Created() uint64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.created
}

// Freed returns how many observed groups have been freed.
func (l *Ledger) Freed() uint64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.freed
}

// Each iterates over live groups in creation order.
func (l *Ledger) Each(fn func(Entry) bool) {
	for _, ent := range l.snapshot() {
		if !fn(ent) {
			break
		}
	}
}

func (l *Ledger) snapshot() []Entry {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.snapshotLocked()
}

// snapshotLocked copies the live entries. Caller must hold l.mu.
func (l *Ledger) snapshotLocked() []Entry {
	out := make([]Entry, 0, len(l.entries))
	for _, ent := range l.entries {
		out = append(out, *ent)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Group < out[j].Group })
	return out
}

// Subscribe adds an observer that receives every recorded event.
// o must be comparable for Unsubscribe to find it. A closed ledger
// records nothing, so subscribing to it fails.
func (l *Ledger) Subscribe(o handle.Observer) error {
	l.mu.RLock()
	closed := l.closed
	l.mu.RUnlock()
	if closed {
		return errors.Closed("ledger")
	}

	l.obsMu.Lock()
	defer l.obsMu.Unlock()
	l.observers = append(l.observers, o)
	return nil
}

// Unsubscribe removes an observer.
func (l *Ledger) Unsubscribe(o handle.Observer) {
	l.obsMu.Lock()
	defer l.obsMu.Unlock()
	for i, obs := range l.observers {
		if obs == o {
			l.observers = append(l.observers[:i], l.observers[i+1:]...)
			return
		}
	}
}

// Check returns a *errors.LeakError listing every live group, or nil.
func (l *Ledger) Check() error {
	return l.report(l.snapshot())
}

func (l *Ledger) report(live []Entry) error {
	if len(live) == 0 {
		return nil
	}

	groups := make([]errors.LeakedGroup, 0, len(live))
	for _, ent := range live {
		Logger().Warn("group not freed",
			zap.Uint64("group", ent.Group),
			zap.String("label", ent.Label),
			zap.Uint32("refs", ent.Refs),
			zap.Duration("age", time.Since(ent.Created)))
		groups = append(groups, errors.LeakedGroup{
			Group: ent.Group,
			Label: ent.Label,
			Refs:  ent.Refs,
		})
	}
	return errors.NewLeakError(groups)
}

// Clear forgets all live groups without freeing them.
func (l *Ledger) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = make(map[uint64]*Entry, 16)
}

// Close audits the ledger and stops recording. Later events are ignored
// and later calls to Close return nil.
func (l *Ledger) Close() error {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return nil
	}
	l.closed = true
	live := l.snapshotLocked()
	l.mu.Unlock()

	return l.report(live)
}

func (l *Ledger) notify(e handle.Event) {
	l.obsMu.RLock()
	defer l.obsMu.RUnlock()
	for _, o := range l.observers {
		o.OnHandleEvent(e)
	}
}
