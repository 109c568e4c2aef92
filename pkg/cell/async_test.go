package cell

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestAsyncValueVariants(t *testing.T) {
	t.Run("loading", func(t *testing.T) {
		v := Loading[int]()
		if !v.IsLoading() || v.HasData() || v.HasError() {
			t.Errorf("Loading variant flags wrong: %v", v)
		}
		if _, ok := v.Value(); ok {
			t.Error("Loading should have no value")
		}
		if v.Error() != nil {
			t.Error("Loading should have no error")
		}
	})

	t.Run("data", func(t *testing.T) {
		v := Data(7)
		if v.IsLoading() || !v.HasData() || v.HasError() {
			t.Errorf("Data variant flags wrong: %v", v)
		}
		got, ok := v.Value()
		if !ok || got != 7 {
			t.Errorf("Value() = %d, %v, want 7, true", got, ok)
		}
	})

	t.Run("error", func(t *testing.T) {
		boom := errors.New("boom")
		v := Err[int](boom)
		if v.IsLoading() || v.HasData() || !v.HasError() {
			t.Errorf("Err variant flags wrong: %v", v)
		}
		if v.Error() != boom {
			t.Errorf("Error() = %v, want %v", v.Error(), boom)
		}
	})
}

func TestAsyncValueValueOr(t *testing.T) {
	if got := Data(3).ValueOr(9); got != 3 {
		t.Errorf("ValueOr on Data = %d, want 3", got)
	}
	if got := Loading[int]().ValueOr(9); got != 9 {
		t.Errorf("ValueOr on Loading = %d, want 9", got)
	}
	if got := Err[int](errors.New("x")).ValueOr(9); got != 9 {
		t.Errorf("ValueOr on Err = %d, want 9", got)
	}
}

func TestAsyncValueWhen(t *testing.T) {
	var seen string

	Loading[int]().When(
		func() { seen = "loading" },
		func(int) { seen = "data" },
		func(error) { seen = "error" },
	)
	if seen != "loading" {
		t.Errorf("When on Loading matched %q", seen)
	}

	Data(1).When(
		func() { seen = "loading" },
		func(int) { seen = "data" },
		func(error) { seen = "error" },
	)
	if seen != "data" {
		t.Errorf("When on Data matched %q", seen)
	}

	Err[int](errors.New("x")).When(
		func() { seen = "loading" },
		func(int) { seen = "data" },
		func(error) { seen = "error" },
	)
	if seen != "error" {
		t.Errorf("When on Err matched %q", seen)
	}

	// Nil handlers are skipped without panicking.
	Data(1).When(nil, nil, nil)
}

func TestMapAsync(t *testing.T) {
	doubled := MapAsync(Data(21), func(n int) int { return n * 2 })
	if got, _ := doubled.Value(); got != 42 {
		t.Errorf("MapAsync(Data(21)) = %d, want 42", got)
	}

	if !MapAsync(Loading[int](), func(n int) int { return n }).IsLoading() {
		t.Error("MapAsync should pass Loading through")
	}

	boom := errors.New("boom")
	if MapAsync(Err[int](boom), func(n int) int { return n }).Error() != boom {
		t.Error("MapAsync should pass Err through")
	}
}

func TestAsyncCellStartsLoading(t *testing.T) {
	c := NewAsync[string]()
	if !c.Peek().IsLoading() {
		t.Errorf("new cell state = %v, want loading", c.Peek())
	}
}

func TestAsyncCellStateMatchesPeek(t *testing.T) {
	c := NewAsync[int]()

	if !c.State().IsLoading() {
		t.Errorf("State() = %v, want loading", c.State())
	}

	c.SetData(7)
	if got, _ := c.State().Value(); got != 7 {
		t.Errorf("State() after SetData = %v, want data(7)", c.State())
	}

	// State does not subscribe the caller.
	if got := c.Watchers(); got != 0 {
		t.Errorf("Watchers() = %d after State reads, want 0", got)
	}
}

func TestAsyncCellTransitions(t *testing.T) {
	c := NewAsync[int]()

	c.SetData(1)
	if got, _ := c.Peek().Value(); got != 1 {
		t.Errorf("after SetData, value = %d, want 1", got)
	}

	boom := errors.New("boom")
	c.SetError(boom)
	if c.Peek().Error() != boom {
		t.Errorf("after SetError, error = %v, want %v", c.Peek().Error(), boom)
	}

	// Any state may transition to any other; there is no terminal state.
	c.SetLoading()
	if !c.Peek().IsLoading() {
		t.Error("after SetLoading, state should be loading")
	}
}

func TestAsyncCellExactlyOneVariant(t *testing.T) {
	c := NewAsync[int]()
	states := []func(){
		func() { c.SetLoading() },
		func() { c.SetData(1) },
		func() { c.SetError(errors.New("x")) },
	}

	for _, transition := range states {
		transition()
		v := c.Peek()
		active := 0
		if v.IsLoading() {
			active++
		}
		if v.HasData() {
			active++
		}
		if v.HasError() {
			active++
		}
		if active != 1 {
			t.Errorf("%v: %d variants active, want exactly 1", v, active)
		}
	}
}

func TestAsyncCellNotifiesEveryTransition(t *testing.T) {
	c := NewAsync[int]()

	notified := 0
	unsub := c.Watch(func(AsyncValue[int]) { notified++ })
	defer unsub()

	// Same-variant overwrites still notify; async cells are not
	// equality-gated.
	c.SetLoading()
	c.SetLoading()
	c.SetData(1)
	c.SetData(1)

	if notified != 4 {
		t.Errorf("notified = %d, want 4", notified)
	}
}

func TestAsyncCellWatchOrder(t *testing.T) {
	c := NewAsync[int]()

	var order []int
	unsub1 := c.Watch(func(AsyncValue[int]) { order = append(order, 1) })
	defer unsub1()
	unsub2 := c.Watch(func(AsyncValue[int]) { order = append(order, 2) })
	defer unsub2()

	c.SetData(5)

	if len(order) != 2 || order[0] != 1 || order[1] != 2 {
		t.Errorf("delivery order = %v, want [1 2]", order)
	}
}

func TestMutateSuccess(t *testing.T) {
	c := NewAsync[string]()

	var transitions []string
	unsub := c.Watch(func(v AsyncValue[string]) {
		transitions = append(transitions, v.String())
	})
	defer unsub()

	err := c.Mutate(context.Background(), func(context.Context) (string, error) {
		return "done", nil
	})
	if err != nil {
		t.Fatalf("Mutate returned %v", err)
	}

	if got, _ := c.Peek().Value(); got != "done" {
		t.Errorf("final value = %q, want %q", got, "done")
	}
	if len(transitions) != 2 || transitions[0] != "loading" {
		t.Errorf("transitions = %v, want [loading data(done)]", transitions)
	}
}

func TestMutateFailure(t *testing.T) {
	c := NewAsync[string]()
	boom := errors.New("boom")

	sawData := false
	unsub := c.Watch(func(v AsyncValue[string]) {
		if v.HasData() {
			sawData = true
		}
	})
	defer unsub()

	err := c.Mutate(context.Background(), func(context.Context) (string, error) {
		return "", boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("Mutate returned %v, want %v", err, boom)
	}

	if c.Peek().Error() != boom {
		t.Errorf("final state = %v, want error(%v)", c.Peek(), boom)
	}
	if sawData {
		t.Error("observed a Data transition during a failed mutation")
	}
}

func TestMutateRecoversPanic(t *testing.T) {
	c := NewAsync[int]()

	err := c.Mutate(context.Background(), func(context.Context) (int, error) {
		panic("kaboom")
	})
	if err == nil {
		t.Fatal("Mutate should return an error for a panicking operation")
	}
	if !c.Peek().HasError() {
		t.Errorf("final state = %v, want error", c.Peek())
	}
}

func TestMutateHonorsContext(t *testing.T) {
	c := NewAsync[int]()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := c.Mutate(ctx, func(ctx context.Context) (int, error) {
		select {
		case <-ctx.Done():
			return 0, ctx.Err()
		case <-time.After(time.Second):
			return 1, nil
		}
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Mutate returned %v, want context.Canceled", err)
	}
	if !errors.Is(c.Peek().Error(), context.Canceled) {
		t.Errorf("final state = %v, want error(context canceled)", c.Peek())
	}
}
