package lock

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

func TestLocalSerializesSameKey(t *testing.T) {
	l := NewLocal()

	var (
		mu      sync.Mutex
		inside  int
		maxSeen int
		wg      sync.WaitGroup
	)

	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			release, err := l.Acquire(context.Background(), WithdrawalKey("p1"))
			if err != nil {
				t.Error(err)
				return
			}
			mu.Lock()
			inside++
			if inside > maxSeen {
				maxSeen = inside
			}
			mu.Unlock()

			time.Sleep(time.Millisecond)

			mu.Lock()
			inside--
			mu.Unlock()
			release()
		}()
	}
	wg.Wait()

	if maxSeen != 1 {
		t.Fatalf("expected mutual exclusion, saw %d holders", maxSeen)
	}
}

func TestLocalTimesOutWithContext(t *testing.T) {
	l := NewLocal()

	release, err := l.Acquire(context.Background(), "k")
	if err != nil {
		t.Fatal(err)
	}
	defer release()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	if _, err := l.Acquire(ctx, "k"); !errors.Is(err, ErrLockTimeout) {
		t.Fatalf("expected timeout, got %v", err)
	}

	if r2, err := l.Acquire(context.Background(), "other"); err != nil {
		t.Fatalf("independent keys must not block: %v", err)
	} else {
		r2()
	}
}

func TestReleaseIsIdempotent(t *testing.T) {
	l := NewLocal()
	release, _ := l.Acquire(context.Background(), "k")
	release()
	release()

	r2, err := l.Acquire(context.Background(), "k")
	if err != nil {
		t.Fatal(err)
	}
	r2()
}

func TestKeys(t *testing.T) {
	if got := SlotKey("page-1", 1767225600); got != "lock:slot:page-1:1767225600" {
		t.Fatalf("unexpected key %s", got)
	}
	if got := SlotKey("page-1", -12); got != "lock:slot:page-1:-12" {
		t.Fatalf("unexpected key %s", got)
	}
}

func (l *Local) keys() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.slots)
}

func TestLocalForgetsIdleKeys(t *testing.T) {
	l := NewLocal()

	for i := int64(0); i < 100; i++ {
		release, err := l.Acquire(context.Background(), SlotKey("page-1", i))
		if err != nil {
			t.Fatal(err)
		}
		release()
	}
	if n := l.keys(); n != 0 {
		t.Fatalf("released keys must be dropped, %d left", n)
	}

	held, _ := l.Acquire(context.Background(), "k")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	if _, err := l.Acquire(ctx, "k"); !errors.Is(err, ErrLockTimeout) {
		t.Fatalf("expected timeout, got %v", err)
	}
	if n := l.keys(); n != 1 {
		t.Fatalf("held key must stay while owned, got %d", n)
	}

	held()
	if n := l.keys(); n != 0 {
		t.Fatalf("key must be dropped after the last release, %d left", n)
	}
}
