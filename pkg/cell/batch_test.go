package cell

import "testing"

func TestBatchCoalescesNotifications(t *testing.T) {
	a := New(0)
	b := New(0)

	runs := 0
	scope := NewScope(nil)
	defer scope.Dispose()

	NewEffect(scope, func() Cleanup {
		runs++
		_ = a.Get()
		_ = b.Get()
		return nil
	})
	if runs != 1 {
		t.Fatalf("effect ran %d times initially, want 1", runs)
	}

	Batch(func() {
		a.Set(1)
		b.Set(2)
	})

	if runs != 2 {
		t.Errorf("effect ran %d times, want 2 (one run for the whole batch)", runs)
	}
}

func TestBatchNesting(t *testing.T) {
	c := New(0)

	notified := 0
	unsub := c.Watch(func(int) { notified++ })
	defer unsub()

	Batch(func() {
		c.Set(1)
		Batch(func() {
			c.Set(2)
		})
		// Inner batch end must not flush; still inside the outer batch.
		if notified != 0 {
			t.Errorf("notified = %d inside outer batch, want 0", notified)
		}
		c.Set(3)
	})

	if notified != 1 {
		t.Errorf("notified = %d after outer batch, want 1", notified)
	}
	if got := c.Peek(); got != 3 {
		t.Errorf("Peek() = %d, want 3", got)
	}
}

func TestBatchDeduplicatesListeners(t *testing.T) {
	a := New(0)
	b := New(0)

	notified := 0
	w := func(int) { notified++ }
	unsubA := a.Watch(w)
	defer unsubA()
	unsubB := b.Watch(w)
	defer unsubB()

	// Two distinct watchers (separate subscriptions), each queued once.
	Batch(func() {
		a.Set(1)
		a.Set(2)
		b.Set(3)
	})

	if notified != 2 {
		t.Errorf("notified = %d, want 2", notified)
	}
}

func TestUntracked(t *testing.T) {
	c := New(0)

	runs := 0
	scope := NewScope(nil)
	defer scope.Dispose()

	NewEffect(scope, func() Cleanup {
		runs++
		Untracked(func() {
			_ = c.Get()
		})
		return nil
	})

	c.Set(1)
	if runs != 1 {
		t.Errorf("effect ran %d times, want 1 (Untracked read must not subscribe)", runs)
	}
}
