package corgi_test

import (
	"testing"

	"github.com/google/corgi"
)

type testValue struct {
	value int
}

// fillBack allocates n elements at the back of the pool with values 0..n-1.
func fillBack(p *corgi.VectorPool[testValue], n int) []corgi.Ref[testValue] {
	refs := make([]corgi.Ref[testValue], 0, n)
	for i := 0; i < n; i++ {
		ref := p.Allocate(corgi.AddToBack)
		ref.MustGet().value = i
		refs = append(refs, ref)
	}
	return refs
}

func TestAllocateReturnsZeroValue(t *testing.T) {
	var pool corgi.VectorPool[testValue]
	for i := 0; i < 100; i++ {
		ref := pool.Allocate(corgi.AddToFront)
		if got := ref.MustGet().value; got != 0 {
			t.Fatalf("allocation %d: expected zero-valued payload, got %d", i, got)
		}
		ref.MustGet().value = 42
	}
	// Freed slots are reset, so reuse hands back a zero value too.
	for it := pool.Begin(); it != pool.End(); {
		it = pool.FreeAt(it)
	}
	ref := pool.Allocate(corgi.AddToBack)
	if got := ref.MustGet().value; got != 0 {
		t.Errorf("expected reused slot to be reset to zero value, got %d", got)
	}
}

func TestAllocAndFreeOneElement(t *testing.T) {
	var pool corgi.VectorPool[testValue]
	if pool.ActiveCount() != 0 {
		t.Fatalf("expected empty pool, got active count %d", pool.ActiveCount())
	}
	ref := pool.Allocate(corgi.AddToFront)
	if !ref.IsValid() {
		t.Error("expected ref to be valid after Allocate")
	}
	if pool.ActiveCount() != 1 {
		t.Errorf("expected active count 1, got %d", pool.ActiveCount())
	}
	pool.Free(ref)
	if pool.ActiveCount() != 0 {
		t.Errorf("expected active count 0 after free, got %d", pool.ActiveCount())
	}
	if ref.IsValid() {
		t.Error("expected ref to be invalid after free")
	}
}

func TestAllocAndFreeTwoElements(t *testing.T) {
	var pool corgi.VectorPool[testValue]
	ref1 := pool.Allocate(corgi.AddToFront)
	ref2 := pool.Allocate(corgi.AddToFront)
	if !ref1.IsValid() || !ref2.IsValid() {
		t.Fatal("expected both refs to be valid")
	}
	if pool.ActiveCount() != 2 {
		t.Errorf("expected active count 2, got %d", pool.ActiveCount())
	}

	pool.Free(ref1)
	if ref1.IsValid() {
		t.Error("expected ref1 to be invalid after its free")
	}
	if !ref2.IsValid() {
		t.Error("expected ref2 to stay valid across an unrelated free")
	}
	if pool.ActiveCount() != 1 {
		t.Errorf("expected active count 1, got %d", pool.ActiveCount())
	}

	pool.Free(ref2)
	if ref2.IsValid() {
		t.Error("expected ref2 to be invalid after its free")
	}
	if pool.ActiveCount() != 0 {
		t.Errorf("expected active count 0, got %d", pool.ActiveCount())
	}
}

// Inserts values 0..99 at the back, frees every even value, then inserts 50
// values at the front and 50 at the back. The final order must be the 50
// front insertions reversed, the surviving odds in original order, then the
// 50 back insertions.
func TestAllocAndFreeManyElements(t *testing.T) {
	var pool corgi.VectorPool[testValue]
	fillBack(&pool, 100)

	// Free the even values: free the current element, then step over the
	// odd survivor that follows it.
	for it := pool.Begin(); it != pool.End(); {
		it = pool.FreeAt(it)
		if it != pool.End() {
			it = it.Next()
		}
	}

	for i := 0; i < 50; i++ {
		front := pool.Allocate(corgi.AddToFront)
		front.MustGet().value = i
		back := pool.Allocate(corgi.AddToBack)
		back.MustGet().value = i + 50
	}

	var got []int
	for it := pool.Begin(); it != pool.End(); it = it.Next() {
		got = append(got, it.Value().value)
	}

	var want []int
	for i := 49; i >= 0; i-- {
		want = append(want, i)
	}
	for i := 1; i < 100; i += 2 {
		want = append(want, i)
	}
	for i := 50; i < 100; i++ {
		want = append(want, i)
	}

	if len(got) != len(want) {
		t.Fatalf("expected %d elements, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("position %d: expected %d, got %d", i, want[i], got[i])
		}
	}
}

func TestInsertionOrderAddToBack(t *testing.T) {
	var pool corgi.VectorPool[testValue]
	fillBack(&pool, 100)
	i := 0
	for it := pool.Begin(); it != pool.End(); it = it.Next() {
		if it.Value().value != i {
			t.Fatalf("position %d: expected %d, got %d", i, i, it.Value().value)
		}
		i++
	}
	if i != 100 {
		t.Errorf("expected to visit 100 elements, visited %d", i)
	}
}

func TestInsertionOrderAddToFront(t *testing.T) {
	var pool corgi.VectorPool[testValue]
	for i := 0; i < 100; i++ {
		ref := pool.Allocate(corgi.AddToFront)
		ref.MustGet().value = i
	}
	i := 99
	for it := pool.Begin(); it != pool.End(); it = it.Next() {
		if it.Value().value != i {
			t.Fatalf("expected %d, got %d", i, it.Value().value)
		}
		i--
	}
	if i != -1 {
		t.Errorf("expected to visit 100 elements, stopped at %d", i)
	}
}

func TestIteratorBeginEndEmpty(t *testing.T) {
	var pool corgi.VectorPool[testValue]
	if pool.Begin() != pool.End() {
		t.Error("expected Begin == End for an empty pool")
	}
	ref := pool.Allocate(corgi.AddToFront)
	if pool.Begin() == pool.End() {
		t.Error("expected Begin != End for a non-empty pool")
	}
	pool.Free(ref)
	if pool.Begin() != pool.End() {
		t.Error("expected Begin == End after the pool was emptied")
	}
}

func TestIteratorStepBackwards(t *testing.T) {
	var pool corgi.VectorPool[testValue]
	fillBack(&pool, 100)

	counter := 0
	for it := pool.End().Prev(); it != pool.Begin(); it = it.Prev() {
		counter++
		if it.Value().value != 100-counter {
			t.Fatalf("expected %d, got %d", 100-counter, it.Value().value)
		}
	}
	// 99, not 100: the loop starts one step off the end sentinel.
	if counter != 99 {
		t.Errorf("expected 99 backward steps, got %d", counter)
	}
}

func TestActiveCountTracksAllocsAndFrees(t *testing.T) {
	var pool corgi.VectorPool[testValue]
	refs := fillBack(&pool, 20)
	allocs, frees := 20, 0
	for i := 0; i < len(refs); i += 3 {
		pool.Free(refs[i])
		frees++
		if pool.ActiveCount() != allocs-frees {
			t.Fatalf("expected active count %d, got %d", allocs-frees, pool.ActiveCount())
		}
	}
	for i := 0; i < 5; i++ {
		pool.Allocate(corgi.AddToFront)
		allocs++
	}
	if pool.ActiveCount() != allocs-frees {
		t.Fatalf("expected active count %d, got %d", allocs-frees, pool.ActiveCount())
	}
	visited := 0
	for it := pool.Begin(); it != pool.End(); it = it.Next() {
		visited++
	}
	if visited != pool.ActiveCount() {
		t.Errorf("iteration visited %d elements, active count is %d", visited, pool.ActiveCount())
	}
}

func TestRefStalenessAcrossReuse(t *testing.T) {
	var pool corgi.VectorPool[testValue]
	stale := pool.Allocate(corgi.AddToBack)
	if !stale.IsValid() {
		t.Fatal("expected ref to be valid right after Allocate")
	}

	// Unrelated churn must not invalidate the ref.
	other := pool.Allocate(corgi.AddToBack)
	pool.Free(other)
	if !stale.IsValid() {
		t.Fatal("expected ref to survive unrelated allocs and frees")
	}

	pool.Free(stale)
	if stale.IsValid() {
		t.Fatal("expected ref to be invalid after its own free")
	}

	// The freed slot is at the head of the free list, so the next
	// allocation reuses it. The old ref must stay invalid regardless.
	reused := pool.Allocate(corgi.AddToBack)
	if reused.Index() != stale.Index() {
		t.Fatalf("expected slot %d to be reused, got %d", stale.Index(), reused.Index())
	}
	if stale.IsValid() {
		t.Error("expected stale ref to stay invalid after slot reuse")
	}
	if !reused.IsValid() {
		t.Error("expected the new ref to be valid")
	}
	if _, ok := stale.Get(); ok {
		t.Error("expected Get on a stale ref to report absent")
	}
}

func TestZeroRefIsInvalid(t *testing.T) {
	var ref corgi.Ref[testValue]
	if ref.IsValid() {
		t.Error("expected the zero Ref to be invalid")
	}
	if _, ok := ref.Get(); ok {
		t.Error("expected Get on the zero Ref to report absent")
	}
}

func TestMustGetPanicsOnStaleRef(t *testing.T) {
	var pool corgi.VectorPool[testValue]
	ref := pool.Allocate(corgi.AddToBack)
	pool.Free(ref)
	defer func() {
		if recover() == nil {
			t.Error("expected MustGet on a stale ref to panic")
		}
	}()
	ref.MustGet()
}

func TestDoubleFreePanics(t *testing.T) {
	var pool corgi.VectorPool[testValue]
	ref := pool.Allocate(corgi.AddToBack)
	pool.FreeIndex(ref.Index())
	defer func() {
		if recover() == nil {
			t.Error("expected double free by index to panic")
		}
	}()
	pool.FreeIndex(ref.Index())
}

func TestFreeStaleRefIsIgnored(t *testing.T) {
	var pool corgi.VectorPool[testValue]
	ref := pool.Allocate(corgi.AddToBack)
	pool.Free(ref)
	// Freeing through a stale ref is a no-op, unlike FreeIndex.
	pool.Free(ref)
	if pool.ActiveCount() != 0 {
		t.Errorf("expected active count 0, got %d", pool.ActiveCount())
	}
}

func TestReserve(t *testing.T) {
	var pool corgi.VectorPool[testValue]
	pool.Reserve(64)
	if pool.Size() != 64 {
		t.Fatalf("expected 64 slots after Reserve, got %d", pool.Size())
	}
	if pool.ActiveCount() != 0 {
		t.Fatalf("expected no active elements after Reserve, got %d", pool.ActiveCount())
	}
	for i := 0; i < 64; i++ {
		pool.Allocate(corgi.AddToBack)
	}
	if pool.Size() != 64 {
		t.Errorf("expected reserved slots to be reused without growth, size is %d", pool.Size())
	}
	pool.Allocate(corgi.AddToBack)
	if pool.Size() != 65 {
		t.Errorf("expected growth past the reservation, size is %d", pool.Size())
	}
	// Shrinking reservations have no effect.
	pool.Reserve(10)
	if pool.Size() != 65 {
		t.Errorf("expected Reserve below current size to be a no-op, size is %d", pool.Size())
	}
}

func TestClearInvalidatesRefs(t *testing.T) {
	var pool corgi.VectorPool[testValue]
	refs := fillBack(&pool, 10)
	pool.Clear()
	if pool.ActiveCount() != 0 {
		t.Errorf("expected active count 0 after Clear, got %d", pool.ActiveCount())
	}
	for i, ref := range refs {
		if ref.IsValid() {
			t.Errorf("ref %d: expected invalid after Clear", i)
		}
	}
	// The pool stays usable, and old refs never alias new allocations.
	ref := pool.Allocate(corgi.AddToBack)
	if !ref.IsValid() {
		t.Error("expected allocation after Clear to work")
	}
	for i, old := range refs {
		if old.IsValid() {
			t.Errorf("ref %d: expected pre-Clear ref to stay invalid after reuse", i)
		}
	}
}

func TestRefToIterator(t *testing.T) {
	var pool corgi.VectorPool[testValue]
	refs := fillBack(&pool, 3)
	it := refs[1].ToIterator()
	if it.Value().value != 1 {
		t.Errorf("expected iterator at value 1, got %d", it.Value().value)
	}
	if got := it.Next().Value().value; got != 2 {
		t.Errorf("expected next value 2, got %d", got)
	}
	back := it.Ref()
	if back != refs[1] {
		t.Error("expected round trip ref to equal the original")
	}
}
