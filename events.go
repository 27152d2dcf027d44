package corgi

import "reflect"

// MaxEventTypes caps the number of distinct event types one bus can carry.
const MaxEventTypes = 256

// EventBus is a typed publish/subscribe channel. The manager owns one and
// publishes entity lifecycle events on it; programs are free to publish
// their own event types on the same bus.
//
// Delivery is synchronous: Publish calls every handler for the event's type
// in subscription order before returning. Publish does not allocate.
type EventBus struct {
	eventTypes    map[reflect.Type]uint8
	handlers      [MaxEventTypes][]any
	nextEventType uint8
}

// Subscribe registers a handler for events of type T.
func Subscribe[T any](bus *EventBus, handler func(T)) {
	id := bus.eventTypeID(reflect.TypeFor[T]())
	if cap(bus.handlers[id]) == 0 {
		bus.handlers[id] = make([]any, 0, 4)
	}
	bus.handlers[id] = append(bus.handlers[id], handler)
}

// Publish delivers an event to every handler subscribed to type T. An event
// type with no subscribers is dropped silently.
func Publish[T any](bus *EventBus, event T) {
	if id, ok := bus.eventTypes[reflect.TypeFor[T]()]; ok {
		for _, h := range bus.handlers[id] {
			h.(func(T))(event)
		}
	}
}

func (bus *EventBus) eventTypeID(t reflect.Type) uint8 {
	if bus.eventTypes == nil {
		bus.eventTypes = make(map[reflect.Type]uint8)
	}
	if id, ok := bus.eventTypes[t]; ok {
		return id
	}
	// nextEventType alone cannot catch overflow: it is a uint8 and wraps
	// to 0 at the 257th type, which would alias the first type's handlers.
	if len(bus.eventTypes) >= MaxEventTypes {
		panic("corgi: too many event types")
	}
	id := bus.nextEventType
	bus.nextEventType++
	bus.eventTypes[t] = id
	return id
}

// EntityCreatedEvent is published after AllocateNewEntity, before the ref
// is returned to the caller. The entity has no attachments yet.
type EntityCreatedEvent struct {
	Entity EntityRef
}

// EntityDeletedEvent is published after an entity has been detached from
// every component and freed. It carries the ID the entity had; any refs to
// it are already stale.
type EntityDeletedEvent struct {
	ID EntityID
}
