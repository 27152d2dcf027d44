// Package corgi provides an entity/component storage core: a slot-based
// memory pool with generation-checked weak references, typed per-component
// storage built on top of it, and an entity manager that owns entities and
// drives per-frame updates in component registration order.
package corgi

import "fmt"

// AllocationLocation selects which end of a pool's used list a new element
// is linked to. AddToFront elements are visited first during iteration,
// AddToBack elements last.
type AllocationLocation int

const (
	// AddToFront links new elements at the front of the used list.
	AddToFront AllocationLocation = iota
	// AddToBack links new elements at the back of the used list.
	AddToBack
)

// uniqueID is the generation stamp for pool slots. A single counter is
// shared by all slots of one pool instance; it only ever increases.
type uniqueID uint32

// invalidUniqueID marks a slot that holds no allocation. Generations start
// at invalidUniqueID+1.
const invalidUniqueID uniqueID = 0

// Sentinel rows at the start of every pool's backing slice. They anchor the
// used and free lists so that list surgery never branches on "first/last
// element". They never hold data.
const (
	firstUsed     = 0
	lastUsed      = 1
	firstFree     = 2
	lastFree      = 3
	totalReserved = 4
)

// outOfBounds is the resting value for the link fields of an unlinked slot.
const outOfBounds = -1

// poolElement is one slot of the backing slice: a payload plus the intrusive
// list links and the generation stamped at allocation time.
type poolElement[T any] struct {
	data     T
	next     int
	prev     int
	uniqueID uniqueID
}

// VectorPool is a pool allocator implemented as a slice-backed pair of
// doubly-linked lists. Allocation, freeing, and iteration steps are all
// O(1). Elements are addressed by index, so they stay reachable when the
// backing slice is reallocated; anything that outlives a single call should
// hold a Ref rather than a raw pointer, since pointers into the pool are
// invalidated whenever an allocation grows the backing slice.
//
// The zero value is an empty pool ready for use.
type VectorPool[T any] struct {
	elements     []poolElement[T]
	activeCount  int
	nextUniqueID uniqueID
}

// ensure installs the sentinel rows on first use so that the zero value
// works, including when a pool is embedded by value in another struct.
func (p *VectorPool[T]) ensure() {
	if len(p.elements) != 0 {
		return
	}
	p.elements = make([]poolElement[T], totalReserved)
	for i := range p.elements {
		p.elements[i].next = outOfBounds
		p.elements[i].prev = outOfBounds
	}
	p.elements[firstUsed].next = lastUsed
	p.elements[lastUsed].prev = firstUsed
	p.elements[firstFree].next = lastFree
	p.elements[lastFree].prev = firstFree
	if p.nextUniqueID == invalidUniqueID {
		p.nextUniqueID = invalidUniqueID + 1
	}
}

// Allocate returns a Ref to a new element. The head of the free list is
// reused if one exists; otherwise the backing slice grows by one slot. The
// payload is always reset to T's zero value.
func (p *VectorPool[T]) Allocate(loc AllocationLocation) Ref[T] {
	p.ensure()
	var index int
	if p.elements[firstFree].next != lastFree {
		index = p.elements[firstFree].next
		p.removeFromList(index)
	} else {
		index = len(p.elements)
		p.elements = append(p.elements, poolElement[T]{next: outOfBounds, prev: outOfBounds})
	}
	switch loc {
	case AddToFront:
		p.addToListFront(index, firstUsed)
	case AddToBack:
		p.addToListBack(index, lastUsed)
	default:
		panic(fmt.Sprintf("corgi: unknown allocation location %d", loc))
	}
	p.activeCount++
	var zero T
	p.elements[index].data = zero
	p.elements[index].uniqueID = p.allocateUniqueID()
	return Ref[T]{pool: p, index: index, uniqueID: p.elements[index].uniqueID}
}

// Free releases the element ref points to. Stale refs are ignored, so it is
// safe to call with a reference whose element is already gone.
func (p *VectorPool[T]) Free(ref Ref[T]) {
	if ref.IsValid() {
		p.FreeIndex(ref.index)
	}
}

// FreeIndex releases the element at index, moving its slot from the used
// list to the front of the free list and resetting the payload to the zero
// value. Freeing a slot that is not currently allocated is a contract
// violation and panics.
func (p *VectorPool[T]) FreeIndex(index int) {
	if index < totalReserved || index >= len(p.elements) {
		panic(fmt.Sprintf("corgi: free of out-of-range pool index %d", index))
	}
	if p.elements[index].uniqueID == invalidUniqueID {
		panic(fmt.Sprintf("corgi: double free of pool index %d", index))
	}
	var zero T
	p.elements[index].data = zero
	p.elements[index].uniqueID = invalidUniqueID
	p.removeFromList(index)
	p.addToListFront(index, firstFree)
	p.activeCount--
}

// FreeAt releases the element it points to and returns an iterator to the
// next live element, which keeps a forward walk valid across the removal.
func (p *VectorPool[T]) FreeAt(it Iterator[T]) Iterator[T] {
	next := it.Next()
	p.FreeIndex(it.index)
	return next
}

// Get returns a pointer to the payload at index. The pointer is not stable
// across allocations; hold a Ref for anything longer-lived.
func (p *VectorPool[T]) Get(index int) *T {
	return &p.elements[index].data
}

// Size is the total number of payload slots the pool has ever grown to,
// used and free alike.
func (p *VectorPool[T]) Size() int {
	if len(p.elements) == 0 {
		return 0
	}
	return len(p.elements) - totalReserved
}

// ActiveCount is the number of currently allocated elements.
func (p *VectorPool[T]) ActiveCount() int {
	return p.activeCount
}

// Clear releases every element and shrinks the pool back to its minimum
// size. Outstanding Refs become invalid. The generation counter is not
// reset, so refs taken before the clear never alias later allocations.
func (p *VectorPool[T]) Clear() {
	p.ensure()
	p.elements = p.elements[:totalReserved]
	p.elements[firstUsed].next = lastUsed
	p.elements[lastUsed].prev = firstUsed
	p.elements[firstFree].next = lastFree
	p.elements[lastFree].prev = firstFree
	p.activeCount = 0
}

// Reserve grows the pool until it holds at least n payload slots, pushing
// the new slots onto the free list. It has no effect if the pool is already
// that large.
func (p *VectorPool[T]) Reserve(n int) {
	p.ensure()
	current := len(p.elements)
	target := n + totalReserved
	if current >= target {
		return
	}
	for i := current; i < target; i++ {
		p.elements = append(p.elements, poolElement[T]{next: outOfBounds, prev: outOfBounds})
		p.addToListFront(i, firstFree)
	}
}

// Begin returns an iterator to the first active element. Together with End
// it walks the used list in insertion order:
//
//	for it := pool.Begin(); it != pool.End(); it = it.Next() { ... }
func (p *VectorPool[T]) Begin() Iterator[T] {
	p.ensure()
	return Iterator[T]{pool: p, index: p.elements[firstUsed].next}
}

// End returns the past-the-end iterator for the used list.
func (p *VectorPool[T]) End() Iterator[T] {
	p.ensure()
	return Iterator[T]{pool: p, index: lastUsed}
}

// removeFromList unlinks a slot from whichever list it is on. Every call
// must be paired with an addToList call so the slot is never orphaned.
func (p *VectorPool[T]) removeFromList(index int) {
	e := &p.elements[index]
	p.elements[e.prev].next = e.next
	p.elements[e.next].prev = e.prev
}

// addToListFront links a slot immediately after the given list-head
// sentinel (firstUsed or firstFree).
func (p *VectorPool[T]) addToListFront(index, startIndex int) {
	listStart := &p.elements[startIndex]
	p.elements[listStart.next].prev = index
	p.elements[index].prev = startIndex
	p.elements[index].next = listStart.next
	listStart.next = index
}

// addToListBack links a slot immediately before the given list-tail
// sentinel (lastUsed or lastFree).
func (p *VectorPool[T]) addToListBack(index, endIndex int) {
	listEnd := &p.elements[endIndex]
	p.elements[listEnd.prev].next = index
	p.elements[index].next = endIndex
	p.elements[index].prev = listEnd.prev
	listEnd.prev = index
}

// allocateUniqueID returns the next generation value. The counter is shared
// by every slot in the pool and skips invalidUniqueID when it wraps. With a
// 32-bit counter, pools that see more than 4,294,967,294 allocations over
// their lifetime can in principle hand out a generation that collides with
// a very old ref; widen uniqueID before relying on the pool in that regime.
func (p *VectorPool[T]) allocateUniqueID() uniqueID {
	result := p.nextUniqueID
	p.nextUniqueID++
	if p.nextUniqueID == invalidUniqueID {
		p.nextUniqueID++
	}
	return result
}

// Ref is a weak reference to a pool element: the pool, the slot index, and
// the generation captured at allocation. It stays meaningful when the pool's
// backing slice is reallocated, and it detects staleness: once the element
// is freed the ref reports invalid forever, even after the slot is reused.
// A Ref never owns its payload; the pool does. The zero Ref is invalid.
type Ref[T any] struct {
	pool     *VectorPool[T]
	index    int
	uniqueID uniqueID
}

// IsValid reports whether the element the ref was taken from is still live.
func (r Ref[T]) IsValid() bool {
	return r.pool != nil &&
		r.uniqueID != invalidUniqueID &&
		r.index < len(r.pool.elements) &&
		r.pool.elements[r.index].uniqueID == r.uniqueID
}

// Get resolves the ref. It returns the payload pointer and true while the
// element is live, and (nil, false) once it has been freed or replaced.
func (r Ref[T]) Get() (*T, bool) {
	if !r.IsValid() {
		return nil, false
	}
	return &r.pool.elements[r.index].data, true
}

// MustGet resolves the ref, panicking if it is stale. Use Get when staleness
// is an expected outcome rather than a bookkeeping bug.
func (r Ref[T]) MustGet() *T {
	v, ok := r.Get()
	if !ok {
		panic("corgi: dereference of invalid pool reference")
	}
	return v
}

// Index is the raw slot index inside the pool's backing slice.
func (r Ref[T]) Index() int {
	return r.index
}

// ToIterator converts the ref into an iterator positioned on its element.
func (r Ref[T]) ToIterator() Iterator[T] {
	return Iterator[T]{pool: r.pool, index: r.index}
}

// Iterator walks a pool's used list. Each step follows one link, so
// advancing costs O(1). Iterators are comparable; a loop runs until it
// equals the pool's End.
type Iterator[T any] struct {
	pool  *VectorPool[T]
	index int
}

// Next returns an iterator advanced to the following active element.
func (it Iterator[T]) Next() Iterator[T] {
	return Iterator[T]{pool: it.pool, index: it.pool.elements[it.index].next}
}

// Prev returns an iterator moved back to the preceding active element.
func (it Iterator[T]) Prev() Iterator[T] {
	return Iterator[T]{pool: it.pool, index: it.pool.elements[it.index].prev}
}

// Value returns the payload under the iterator.
func (it Iterator[T]) Value() *T {
	return &it.pool.elements[it.index].data
}

// Ref captures a weak reference to the element under the iterator.
func (it Iterator[T]) Ref() Ref[T] {
	return Ref[T]{pool: it.pool, index: it.index, uniqueID: it.pool.elements[it.index].uniqueID}
}

// Index is the raw slot index under the iterator.
func (it Iterator[T]) Index() int {
	return it.index
}
