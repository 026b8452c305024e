package handle

import (
	"fmt"
	"math"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/wippyai/smartptr/errors"
)

// Group identifiers are process wide so ledgers can watch groups created
// on different goroutines. The count itself is not atomic.
var lastGroupID atomic.Uint64

// group is the shared record behind every handle of one ownership group.
type group[T any] struct {
	value *T
	opts  Options
	id    uint64
	refs  uint32
}

func newGroup[T any](value *T, opts Options) *group[T] {
	if len(opts.Observers) > 0 {
		opts.Observers = append([]Observer(nil), opts.Observers...)
	}
	g := &group[T]{
		value: value,
		opts:  opts,
		id:    lastGroupID.Add(1),
		refs:  1,
	}

	Logger().Debug("group created",
		zap.Uint64("group", g.id),
		zap.String("label", opts.Label),
		zap.String("type", fmt.Sprintf("%T", value)))
	g.notify(EventCreated)
	return g
}

func (g *group[T]) acquire() {
	if g.refs == 0 {
		fail(errors.UseAfterFree(g.id, g.opts.Label))
	}
	if g.refs == math.MaxUint32 {
		fail(errors.Overflow(g.id, g.opts.Label, g.refs))
	}
	g.refs++
	g.notify(EventJoined)
}

// release drops one share and frees the group when it was the last one.
func (g *group[T]) release() (freed bool) {
	if g.refs == 0 {
		fail(errors.DoubleRelease(g.id, g.opts.Label))
	}
	g.refs--
	if g.refs > 0 {
		g.notify(EventLeft)
		return false
	}
	g.free()
	return true
}

func (g *group[T]) free() {
	value := g.value
	g.value = nil

	if d, ok := any(value).(Dropper); ok && value != nil {
		d.Drop()
	}

	Logger().Debug("group freed",
		zap.Uint64("group", g.id),
		zap.String("label", g.opts.Label))
	g.notifyValue(EventFreed, value)
}

func (g *group[T]) notify(t EventType) {
	g.notifyValue(t, g.value)
}

func (g *group[T]) notifyValue(t EventType, value *T) {
	if len(g.opts.Observers) == 0 {
		return
	}
	e := Event{
		Type:  t,
		Group: g.id,
		Label: g.opts.Label,
		Refs:  g.refs,
		Value: value,
	}
	for _, o := range g.opts.Observers {
		o.OnHandleEvent(e)
	}
}

func fail(err *errors.Error) {
	Logger().Error("handle misuse",
		zap.Uint64("group", err.Group),
		zap.String("label", err.Label),
		zap.Error(err))
	panic(err)
}
