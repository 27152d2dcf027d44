package corgi

import (
	"reflect"
	"unsafe"
)

// ComponentInterface is the type-erased contract between the EntityManager
// and every component. The manager only ever talks to components through
// this interface, keyed by the integer ID assigned at registration.
//
// Components are built by embedding Component[T], which provides the whole
// interface with default behavior; concrete components shadow the methods
// they care about (usually UpdateAllEntities and some lifecycle hooks).
type ComponentInterface interface {
	// AddEntityGenerically attaches an entity without exposing the typed
	// payload. Component.AddEntity is the typed equivalent.
	AddEntityGenerically(e EntityRef)
	// RemoveEntity detaches an entity and destroys its payload. Calling it
	// for an entity that has no data here is a contract violation.
	RemoveEntity(e EntityRef)
	// UpdateAllEntities applies one frame of component logic to every
	// attached entity, in attachment (used-list) order.
	UpdateAllEntities(delta WorldTime)
	// HasDataForEntity reports whether the entity is attached.
	HasDataForEntity(e EntityRef) bool
	// ClearComponentData detaches every entity, running cleanup hooks.
	ClearComponentData()
	// GetComponentDataAsVoid returns the entity's payload as an untyped
	// pointer, or nil. The pointer is not stable across attachments.
	GetComponentDataAsVoid(e EntityRef) unsafe.Pointer
	// Init runs once when the component is registered with a manager. Used
	// to wire references to other components.
	Init()
	// InitEntity runs for each entity as it is attached. Components use it
	// to declare cross-component dependencies, e.g. also attaching the
	// entity to a component they depend on.
	InitEntity(e EntityRef)
	// CleanupEntity runs for each entity just before it is detached.
	CleanupEntity(e EntityRef)
	// Cleanup runs just before the component is dropped from the manager.
	Cleanup()
	// AddFromRawData populates an entity's payload from a serialized blob.
	// The blob format is owned by the concrete component; the core treats
	// it as opaque bytes.
	AddFromRawData(e EntityRef, data []byte)
	// ExportRawData serializes an entity's payload, or returns nil when the
	// component does not support serialization.
	ExportRawData(e EntityRef) []byte
	// ID returns the component ID assigned at registration.
	ID() ComponentID

	bind(self ComponentInterface, manager *EntityManager, id ComponentID)
	dataType() reflect.Type
}

// componentData pairs a payload with the entity that owns it.
type componentData[T any] struct {
	entity EntityRef
	data   T
}

// Component is the storage and dispatch base for one component type: a
// VectorPool of payloads plus an entity→slot index. Its zero value is ready
// for use, so concrete components embed it directly:
//
//	type CounterComponent struct {
//		corgi.Component[CounterData]
//	}
//
// Shadowed hook methods are honored for entities attached through the
// component or the manager once the component has been registered.
type Component[T any] struct {
	data        VectorPool[componentData[T]]
	indexLookup map[EntityID]ComponentIndex
	manager     *EntityManager
	id          ComponentID
	self        ComponentInterface
}

// hooks returns the interface value to dispatch lifecycle hooks through:
// the registered concrete component when there is one, else the base.
func (c *Component[T]) hooks() ComponentInterface {
	if c.self != nil {
		return c.self
	}
	return c
}

func (c *Component[T]) bind(self ComponentInterface, manager *EntityManager, id ComponentID) {
	c.self = self
	c.manager = manager
	c.id = id
}

func (c *Component[T]) dataType() reflect.Type {
	var zero T
	return reflect.TypeOf(zero)
}

// ID returns the component ID assigned at registration, or zero before the
// component is registered.
func (c *Component[T]) ID() ComponentID {
	return c.id
}

// Manager returns the EntityManager the component is registered with. It is
// the contact point for talking to other components.
func (c *Component[T]) Manager() *EntityManager {
	return c.manager
}

// AddEntity attaches an entity, allocating its payload at the back of the
// pool, and returns the payload. Attaching an already-attached entity is
// idempotent: the existing payload is returned unchanged.
func (c *Component[T]) AddEntity(e EntityRef) *T {
	return c.AddEntityAt(e, AddToBack)
}

// AddEntityAt is AddEntity with an explicit allocation location, for
// components that want new entities updated before existing ones.
//
// The returned pointer is invalidated by any later attachment that grows
// the backing pool; it is meant to be used immediately, not stored.
func (c *Component[T]) AddEntityAt(e EntityRef, loc AllocationLocation) *T {
	if data := c.GetComponentData(e); data != nil {
		return data
	}
	id := e.MustGet().ID()
	ref := c.data.Allocate(loc)
	if c.indexLookup == nil {
		c.indexLookup = make(map[EntityID]ComponentIndex)
	}
	c.indexLookup[id] = ComponentIndex(ref.Index())
	c.data.Get(ref.Index()).entity = e
	c.hooks().InitEntity(e)
	// Resolved after the hook: InitEntity may attach further entities and
	// grow the pool, which would leave an earlier pointer dangling.
	return &c.data.Get(ref.Index()).data
}

// AddEntityGenerically implements ComponentInterface.
func (c *Component[T]) AddEntityGenerically(e EntityRef) {
	c.AddEntity(e)
}

// RemoveEntity detaches an entity: the CleanupEntity hook runs, the payload
// slot is freed, and the index entry is dropped. An entity without data
// here indicates the caller has lost track of its attachments, so the call
// panics rather than ignoring it; guard with HasDataForEntity when removal
// is speculative.
func (c *Component[T]) RemoveEntity(e EntityRef) {
	index := c.componentDataIndex(e)
	if index == InvalidComponentIndex {
		panic("corgi: RemoveEntity called for an entity with no data in this component")
	}
	c.hooks().CleanupEntity(e)
	c.data.FreeIndex(int(index))
	delete(c.indexLookup, e.MustGet().ID())
}

// RemoveEntityAt detaches the entity under the iterator and returns an
// iterator to the next attached entity, keeping a walk valid across the
// removal.
func (c *Component[T]) RemoveEntityAt(it ComponentIterator[T]) ComponentIterator[T] {
	e := it.Entity()
	c.hooks().CleanupEntity(e)
	next := c.data.FreeAt(it.it)
	if ent, ok := e.Get(); ok {
		delete(c.indexLookup, ent.ID())
	}
	return ComponentIterator[T]{it: next}
}

// GetComponentData returns the entity's payload, or nil when the entity is
// not attached. The pointer is not stable across attachments; hold the
// EntityRef and re-query instead of storing it.
func (c *Component[T]) GetComponentData(e EntityRef) *T {
	index := c.componentDataIndex(e)
	if index == InvalidComponentIndex {
		return nil
	}
	return &c.data.Get(int(index)).data
}

// GetComponentDataAsVoid implements ComponentInterface.
func (c *Component[T]) GetComponentDataAsVoid(e EntityRef) unsafe.Pointer {
	return unsafe.Pointer(c.GetComponentData(e))
}

// HasDataForEntity reports whether the entity is attached to this
// component.
func (c *Component[T]) HasDataForEntity(e EntityRef) bool {
	return c.componentDataIndex(e) != InvalidComponentIndex
}

// ActiveCount is the number of entities currently attached.
func (c *Component[T]) ActiveCount() int {
	return c.data.ActiveCount()
}

// ClearComponentData detaches every entity, running CleanupEntity for each.
func (c *Component[T]) ClearComponentData() {
	for it := c.Begin(); it != c.End(); {
		it = c.RemoveEntityAt(it)
	}
}

// Begin returns an iterator over the attached entities in used-list order.
func (c *Component[T]) Begin() ComponentIterator[T] {
	return ComponentIterator[T]{it: c.data.Begin()}
}

// End returns the past-the-end iterator for the attached entities.
func (c *Component[T]) End() ComponentIterator[T] {
	return ComponentIterator[T]{it: c.data.End()}
}

// UpdateAllEntities implements ComponentInterface as a no-op. Concrete
// components shadow it with their per-frame logic.
func (c *Component[T]) UpdateAllEntities(delta WorldTime) {}

// Init implements ComponentInterface as a no-op.
func (c *Component[T]) Init() {}

// InitEntity implements ComponentInterface as a no-op.
func (c *Component[T]) InitEntity(e EntityRef) {}

// CleanupEntity implements ComponentInterface as a no-op.
func (c *Component[T]) CleanupEntity(e EntityRef) {}

// Cleanup implements ComponentInterface as a no-op.
func (c *Component[T]) Cleanup() {}

// AddFromRawData implements ComponentInterface as a no-op. Components that
// participate in entity factories shadow it.
func (c *Component[T]) AddFromRawData(e EntityRef, data []byte) {}

// ExportRawData implements ComponentInterface, reporting no serialization
// support.
func (c *Component[T]) ExportRawData(e EntityRef) []byte {
	return nil
}

// componentDataIndex translates an entity into its slot in the payload
// pool, or InvalidComponentIndex when the entity is stale or unattached.
func (c *Component[T]) componentDataIndex(e EntityRef) ComponentIndex {
	ent, ok := e.Get()
	if !ok {
		return InvalidComponentIndex
	}
	index, ok := c.indexLookup[ent.ID()]
	if !ok {
		return InvalidComponentIndex
	}
	return index
}

// ComponentIterator walks the entities attached to a Component in
// attachment order. Iterators are comparable; loops run until the
// component's End.
type ComponentIterator[T any] struct {
	it Iterator[componentData[T]]
}

// Next returns an iterator advanced to the next attached entity.
func (it ComponentIterator[T]) Next() ComponentIterator[T] {
	return ComponentIterator[T]{it: it.it.Next()}
}

// Entity returns the entity under the iterator.
func (it ComponentIterator[T]) Entity() EntityRef {
	return it.it.Value().entity
}

// Data returns the payload under the iterator.
func (it ComponentIterator[T]) Data() *T {
	return &it.it.Value().data
}
