package asyncell

import (
	"errors"
	"testing"
)

// The root package only re-exports pkg/cell; these tests pin the surface so
// a rename there breaks loudly here.

func TestRootCellRoundTrip(t *testing.T) {
	count := New(0)
	count.Set(41)
	count.Update(func(v int) int { return v + 1 })

	if got := count.Get(); got != 42 {
		t.Errorf("Get() = %d, want 42", got)
	}
}

func TestRootEffectTracksCell(t *testing.T) {
	scope := NewScope(nil)
	defer scope.Dispose()

	count := New(0)
	runs := 0
	NewEffect(scope, func() Cleanup {
		_ = count.Get()
		runs++
		return nil
	})

	Batch(func() {
		count.Set(1)
		count.Set(2)
	})

	if runs != 2 {
		t.Errorf("effect ran %d times, want 2 (initial + one batched)", runs)
	}
}

func TestRootAsyncVariants(t *testing.T) {
	if !Loading[int]().IsLoading() {
		t.Error("Loading should report IsLoading")
	}
	if got := Data(7).ValueOr(0); got != 7 {
		t.Errorf("Data(7).ValueOr(0) = %d, want 7", got)
	}

	sentinel := errors.New("boom")
	if got := Err[int](sentinel).Error(); !errors.Is(got, sentinel) {
		t.Errorf("Err().Error() = %v, want %v", got, sentinel)
	}

	doubled := MapAsync(Data(21), func(v int) int { return v * 2 })
	if got := doubled.ValueOr(0); got != 42 {
		t.Errorf("MapAsync result = %d, want 42", got)
	}
}

func TestRootAsyncCellMutationsNotify(t *testing.T) {
	c := NewAsync[string]()

	var states []string
	unsub := c.Watch(func(v AsyncValue[string]) {
		states = append(states, v.String())
	})
	defer unsub()

	c.SetData("a")
	c.SetData("a") // Same payload still notifies.

	if len(states) != 2 {
		t.Errorf("got %d notifications, want 2", len(states))
	}
}
