// Package events carries in-process notifications between the dispatcher,
// the transports and the log pipeline.
package events

import (
	"github.com/kelindar/event"
)

// Bus is a typed fan-out over kelindar/event. The zero Bus is not usable;
// create one with New. A nil *Bus drops everything published to it.
type Bus struct {
	dispatcher *event.Dispatcher
}

// New creates an event bus.
func New() *Bus {
	return &Bus{dispatcher: event.NewDispatcher()}
}

// Publish delivers ev to the subscribers of its concrete type.
func (b *Bus) Publish(ev Event) {
	if b == nil {
		return
	}
	switch e := ev.(type) {
	case CommandExecutedEvent:
		event.Publish(b.dispatcher, e)
	case LogEntryEvent:
		event.Publish(b.dispatcher, e)
	}
}

// OnCommand calls fn for every executed command until the returned func is called.
func (b *Bus) OnCommand(fn func(CommandExecutedEvent)) (unsubscribe func()) {
	return event.Subscribe(b.dispatcher, fn)
}

// OnLog calls fn for every captured log entry until the returned func is called.
func (b *Bus) OnLog(fn func(LogEntryEvent)) (unsubscribe func()) {
	return event.Subscribe(b.dispatcher, fn)
}

// Feed forwards every T published on bus to ch. Publishers never wait on a
// slow reader; events that do not fit in ch are dropped.
func Feed[T Event](bus *Bus, ch chan<- T) (unsubscribe func()) {
	return event.Subscribe(bus.dispatcher, func(e T) {
		select {
		case ch <- e:
		default:
		}
	})
}
