package reactive

import "testing"

func TestEffectRunsImmediately(t *testing.T) {
	runs := 0
	CreateEffect(func() Cleanup {
		runs++
		return nil
	})

	if runs != 1 {
		t.Errorf("effect should run on creation, ran %d times", runs)
	}
}

func TestEffectRerunsOnChange(t *testing.T) {
	count := NewSignal(0)
	runs := 0
	CreateEffect(func() Cleanup {
		_ = count.Get()
		runs++
		return nil
	})

	count.Set(1)
	count.Set(2)
	if runs != 3 {
		t.Errorf("expected 3 runs, got %d", runs)
	}
}

func TestEffectCleanupBeforeRerun(t *testing.T) {
	count := NewSignal(0)
	var order []string
	CreateEffect(func() Cleanup {
		_ = count.Get()
		order = append(order, "run")
		return func() {
			order = append(order, "cleanup")
		}
	})

	count.Set(1)

	want := []string{"run", "cleanup", "run"}
	if len(order) != len(want) {
		t.Fatalf("expected %v, got %v", want, order)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, order)
		}
	}
}

func TestEffectDispose(t *testing.T) {
	count := NewSignal(0)
	runs := 0
	cleaned := false
	e := CreateEffect(func() Cleanup {
		_ = count.Get()
		runs++
		return func() { cleaned = true }
	})

	e.Dispose()
	if !cleaned {
		t.Error("Dispose should run the pending cleanup")
	}

	count.Set(1)
	if runs != 1 {
		t.Errorf("disposed effect should not re-run, ran %d times", runs)
	}
}

func TestEffectBatchedNotification(t *testing.T) {
	a := NewSignal(0)
	b := NewSignal(0)
	runs := 0
	CreateEffect(func() Cleanup {
		_ = a.Get()
		_ = b.Get()
		runs++
		return nil
	})

	Batch(func() {
		a.Set(1)
		b.Set(1)
	})

	if runs != 2 {
		t.Errorf("batched writes should re-run effect once, ran %d times total", runs)
	}
}
