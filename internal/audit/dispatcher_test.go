package audit

import (
	"errors"
	"sync"
	"testing"

	"github.com/rs/zerolog"
)

func TestDispatcherWritesAndDrainsOnClose(t *testing.T) {
	sink := NewMemorySink()
	d := NewDispatcher(sink, zerolog.Nop())

	d.Dispatch(Event{PageID: "p1", UserID: "u1", Action: "appointment_created", Entity: "appointment", EntityID: "a1", Metadata: map[string]any{"price": "300"}})
	d.Dispatch(Event{Action: "invite_sent"})
	d.Close()

	rows := sink.Rows()
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0].UserID == nil || *rows[0].UserID != "u1" || rows[0].Metadata != `{"price":"300"}` {
		t.Fatalf("unexpected first row %+v", rows[0])
	}
	if rows[1].UserID != nil || rows[1].EntityID != nil {
		t.Fatal("empty ids must be stored as NULL")
	}
}

type failingSink struct{ calls int }

func (f *failingSink) Log(Event) error {
	f.calls++
	return errors.New("db down")
}

func TestDispatcherSurvivesSinkErrors(t *testing.T) {
	sink := &failingSink{}
	d := NewDispatcher(sink, zerolog.Nop())

	d.Dispatch(Event{Action: "a"})
	d.Dispatch(Event{Action: "b"})
	d.Close()

	if sink.calls != 2 {
		t.Fatalf("expected 2 attempts, got %d", sink.calls)
	}
}

func TestNilDispatcherIsNoop(t *testing.T) {
	var d *Dispatcher
	d.Dispatch(Event{Action: "x"})
	d.Close()
}

func TestDispatchAfterCloseIsDropped(t *testing.T) {
	sink := NewMemorySink()
	d := NewDispatcher(sink, zerolog.Nop())

	d.Dispatch(Event{Action: "before"})
	d.Close()
	d.Close()

	d.Dispatch(Event{Action: "late"})

	rows := sink.Rows()
	if len(rows) != 1 || rows[0].Action != "before" {
		t.Fatalf("late event must be dropped, got %+v", rows)
	}
}

func TestDispatchRacingClose(t *testing.T) {
	d := NewDispatcher(NewMemorySink(), zerolog.Nop())

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				d.Dispatch(Event{Action: "concurrent"})
			}
		}()
	}
	d.Close()
	wg.Wait()
}
