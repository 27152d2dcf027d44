package corgi

import (
	"fmt"
	"reflect"
)

// EntityManager owns every entity and the ordered registry of components.
// A program normally creates one manager, registers its components once at
// startup, and then calls UpdateComponents once per frame followed by
// DeleteMarkedEntities between frames.
//
// The manager, like the rest of the core, is single-threaded: every
// operation runs to completion on the calling goroutine, and structural
// mutation during an update pass is forbidden. That is what the deferred
// deletion queue is for.
type EntityManager struct {
	entities         VectorPool[Entity]
	components       []ComponentInterface
	componentTypes   map[reflect.Type]ComponentID
	entitiesToDelete []EntityRef
	entityFactory    EntityFactoryInterface
	events           EventBus
	services         Services
}

// NewEntityManager returns an empty manager with no components registered.
func NewEntityManager() *EntityManager {
	return &EntityManager{
		componentTypes: make(map[reflect.Type]ComponentID),
	}
}

// RegisterComponent appends a component to the registry and returns its ID,
// which equals its registration index. Registration order is a caller
// contract: it is the order components update in every frame, so producers
// must be registered before their consumers.
//
// Both the concrete component type and its data type are mapped to the ID,
// so the generic helpers accept either. The component's Init hook runs
// before RegisterComponent returns.
func (m *EntityManager) RegisterComponent(component ComponentInterface) ComponentID {
	id := ComponentID(len(m.components))
	if id == InvalidComponentID {
		panic("corgi: component registry is full")
	}
	if m.componentTypes == nil {
		m.componentTypes = make(map[reflect.Type]ComponentID)
	}
	componentType := reflect.TypeOf(component)
	if _, exists := m.componentTypes[componentType]; exists {
		panic(fmt.Sprintf("corgi: component type %s registered twice", componentType))
	}
	m.componentTypes[componentType] = id
	m.componentTypes[component.dataType()] = id
	m.components = append(m.components, component)
	component.bind(component, m, id)
	component.Init()
	return id
}

// GetComponent returns the registered component for an ID. Resolving an
// unregistered ID is a contract violation and panics.
func (m *EntityManager) GetComponent(id ComponentID) ComponentInterface {
	if int(id) >= len(m.components) {
		panic(fmt.Sprintf("corgi: no component registered with id %d", id))
	}
	return m.components[id]
}

// ComponentCount returns the number of registered components.
func (m *EntityManager) ComponentCount() int {
	return len(m.components)
}

// AllocateNewEntity creates a new entity with no attachments and returns a
// ref to it.
func (m *EntityManager) AllocateNewEntity() EntityRef {
	ref := m.entities.Allocate(AddToBack)
	// Pool indexes are stable for the lifetime of the allocation, so the
	// slot index doubles as the entity's internal ID.
	ref.MustGet().id = EntityID(ref.Index())
	Publish(&m.events, EntityCreatedEvent{Entity: ref})
	return ref
}

// DeleteEntity marks an entity for deletion and queues it. No structural
// change happens until DeleteMarkedEntities runs, which makes DeleteEntity
// safe to call from inside an update pass. Marking an already-marked or
// stale entity has no effect.
func (m *EntityManager) DeleteEntity(e EntityRef) {
	ent, ok := e.Get()
	if !ok || ent.markedForDeletion {
		return
	}
	ent.markedForDeletion = true
	m.entitiesToDelete = append(m.entitiesToDelete, e)
}

// DeleteEntityImmediately detaches an entity from every component and frees
// it synchronously, bypassing the deferred queue. The caller must guarantee
// no iteration over the entity pool or any component is in flight.
func (m *EntityManager) DeleteEntityImmediately(e EntityRef) {
	if !e.IsValid() {
		return
	}
	id := e.MustGet().id
	m.RemoveAllComponents(e)
	m.entities.FreeIndex(e.Index())
	Publish(&m.events, EntityDeletedEvent{ID: id})
}

// DeleteMarkedEntities processes the deferred-deletion queue: every queued
// entity is detached from every registered component and freed. Entities
// already gone (e.g. deleted immediately after being marked) are skipped.
//
// This is the documented barrier between frames; it must never be called
// from inside an update pass.
func (m *EntityManager) DeleteMarkedEntities() {
	// Index loop, re-reading the length: CleanupEntity hooks may mark
	// further entities during the barrier (a parent cascading deletion to
	// its children), and those must be processed in the same pass.
	for i := 0; i < len(m.entitiesToDelete); i++ {
		e := m.entitiesToDelete[i]
		if !e.IsValid() {
			continue
		}
		id := e.MustGet().id
		m.RemoveAllComponents(e)
		m.entities.FreeIndex(e.Index())
		Publish(&m.events, EntityDeletedEvent{ID: id})
	}
	clear(m.entitiesToDelete)
	m.entitiesToDelete = m.entitiesToDelete[:0]
}

// RemoveAllComponents detaches an entity from every component that has data
// for it. The manager calls this before freeing an entity.
func (m *EntityManager) RemoveAllComponents(e EntityRef) {
	for _, component := range m.components {
		if component.HasDataForEntity(e) {
			component.RemoveEntity(e)
		}
	}
}

// AddEntityToComponentID attaches an entity to the component registered
// under id, dispatching through the type-erased interface. Attaching to a
// component the entity already has data in is a no-op.
func (m *EntityManager) AddEntityToComponentID(e EntityRef, id ComponentID) {
	component := m.GetComponent(id)
	if !component.HasDataForEntity(e) {
		component.AddEntityGenerically(e)
	}
}

// UpdateComponents runs one frame: every registered component's
// UpdateAllEntities is called exactly once, in strict registration order.
func (m *EntityManager) UpdateComponents(delta WorldTime) {
	for _, component := range m.components {
		component.UpdateAllEntities(delta)
	}
}

// Clear resets the manager to its initial state: every component's data is
// cleared and its Cleanup hook run, the registry and type map are emptied,
// all entities are freed, and the event bus and service registry are reset.
func (m *EntityManager) Clear() {
	for _, component := range m.components {
		component.ClearComponentData()
		component.Cleanup()
	}
	m.components = nil
	m.componentTypes = make(map[reflect.Type]ComponentID)
	m.entitiesToDelete = nil
	m.entities.Clear()
	m.events = EventBus{}
	m.services.Clear()
}

// Events returns the manager's event bus. The manager publishes
// EntityCreatedEvent and EntityDeletedEvent on it.
func (m *EntityManager) Events() *EventBus {
	return &m.events
}

// Services returns the manager's shared service registry.
func (m *EntityManager) Services() *Services {
	return &m.services
}

// Begin returns an iterator over all active entities.
func (m *EntityManager) Begin() Iterator[Entity] {
	return m.entities.Begin()
}

// End returns the past-the-end iterator for the active entities.
func (m *EntityManager) End() Iterator[Entity] {
	return m.entities.End()
}

// EntityCount is the number of active entities.
func (m *EntityManager) EntityCount() int {
	return m.entities.ActiveCount()
}

// SetEntityFactory registers the factory used by CreateEntityFromData. Set
// it before attempting to spawn entities from serialized data.
func (m *EntityManager) SetEntityFactory(factory EntityFactoryInterface) {
	m.entityFactory = factory
}

// CreateEntityFromData spawns and populates an entity from an opaque blob
// by delegating to the registered factory, which owns the data format. It
// panics when no factory has been registered.
func (m *EntityManager) CreateEntityFromData(data []byte) EntityRef {
	if m.entityFactory == nil {
		panic("corgi: CreateEntityFromData called with no entity factory set")
	}
	return m.entityFactory.CreateEntityFromData(data, m)
}

// EntityFactoryInterface parses serialized entity descriptions and turns
// them into live entities. The factory establishes the blob format; the
// core never inspects it.
type EntityFactoryInterface interface {
	CreateEntityFromData(data []byte, manager *EntityManager) EntityRef
}

// GetComponentID returns the ID registered for T, which may be either a
// component's data type or the concrete component type itself.
func GetComponentID[T any](m *EntityManager) (ComponentID, bool) {
	var zero T
	id, ok := m.componentTypes[reflect.TypeOf(zero)]
	return id, ok
}

// GetComponent returns the registered component with concrete type C.
// It panics when no component of that type has been registered.
func GetComponent[C ComponentInterface](m *EntityManager) C {
	var zero C
	id, ok := m.componentTypes[reflect.TypeOf(zero)]
	if !ok {
		panic(fmt.Sprintf("corgi: component type %T not registered", zero))
	}
	return m.components[id].(C)
}

// GetComponentData returns the payload of type T attached to an entity, or
// nil when T is unregistered or the entity has no data in T's component.
func GetComponentData[T any](m *EntityManager, e EntityRef) *T {
	var zero T
	id, ok := m.componentTypes[reflect.TypeOf(zero)]
	if !ok {
		return nil
	}
	return (*T)(m.components[id].GetComponentDataAsVoid(e))
}

// AddEntityToComponent attaches an entity to the component that stores
// payloads of type T and returns the entity's payload. It panics when T
// is not registered.
func AddEntityToComponent[T any](m *EntityManager, e EntityRef) *T {
	var zero T
	id, ok := m.componentTypes[reflect.TypeOf(zero)]
	if !ok {
		panic(fmt.Sprintf("corgi: component data type %T not registered", zero))
	}
	m.AddEntityToComponentID(e, id)
	return (*T)(m.components[id].GetComponentDataAsVoid(e))
}

// IsRegisteredWithComponent reports whether an entity has data in the
// component that stores payloads of type T.
func IsRegisteredWithComponent[T any](m *EntityManager, e EntityRef) bool {
	var zero T
	id, ok := m.componentTypes[reflect.TypeOf(zero)]
	if !ok {
		return false
	}
	return m.components[id].HasDataForEntity(e)
}
