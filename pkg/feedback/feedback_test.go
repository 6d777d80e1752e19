package feedback

import (
	"math"
	"testing"
	"time"

	"tally/pkg/patstore"
)

func newTestSystem(t *testing.T) *System {
	t.Helper()
	s, err := patstore.Init(t.TempDir())
	if err != nil {
		t.Fatalf("init store: %v", err)
	}
	return NewSystem(s)
}

func TestRecord(t *testing.T) {
	tests := []struct {
		name    string
		entry   Entry
		wantErr bool
	}{
		{name: "valid", entry: Entry{Agent: "debugger", Rating: 4}},
		{name: "empty agent", entry: Entry{Rating: 4}, wantErr: true},
		{name: "rating too low", entry: Entry{Agent: "a", Rating: 0}, wantErr: true},
		{name: "rating too high", entry: Entry{Agent: "a", Rating: 6}, wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			sys := newTestSystem(t)
			err := sys.Record(tc.entry)
			if (err != nil) != tc.wantErr {
				t.Errorf("Record err = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}

func TestList(t *testing.T) {
	sys := newTestSystem(t)
	base := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	entries := []Entry{
		{Agent: "a", Rating: 3, CreatedAt: base},
		{Agent: "b", Rating: 5, CreatedAt: base.Add(time.Hour)},
		{Agent: "a", Rating: 4, CreatedAt: base.Add(2 * time.Hour)},
	}
	for _, e := range entries {
		if err := sys.Record(e); err != nil {
			t.Fatalf("Record: %v", err)
		}
	}

	t.Run("newest first", func(t *testing.T) {
		got, err := sys.List(ListOpts{})
		if err != nil {
			t.Fatalf("List: %v", err)
		}
		if len(got) != 3 || !got[0].CreatedAt.After(got[2].CreatedAt) {
			t.Errorf("List order wrong: %+v", got)
		}
	})

	t.Run("agent filter", func(t *testing.T) {
		got, err := sys.List(ListOpts{Agent: "a"})
		if err != nil {
			t.Fatalf("List: %v", err)
		}
		if len(got) != 2 {
			t.Errorf("filtered list = %d entries, want 2", len(got))
		}
	})

	t.Run("limit", func(t *testing.T) {
		got, err := sys.List(ListOpts{Limit: 1})
		if err != nil {
			t.Fatalf("List: %v", err)
		}
		if len(got) != 1 || got[0].Rating != 4 {
			t.Errorf("limited list = %+v", got)
		}
	})

	t.Run("empty store", func(t *testing.T) {
		empty := newTestSystem(t)
		got, err := empty.List(ListOpts{})
		if err != nil {
			t.Fatalf("List: %v", err)
		}
		if len(got) != 0 {
			t.Errorf("List on empty store = %+v", got)
		}
	})
}

func TestAdjustedRating(t *testing.T) {
	sys := newTestSystem(t)
	for _, r := range []int{5, 3} { // mean 4 -> normalized 0.75
		if err := sys.Record(Entry{Agent: "debugger", Rating: r}); err != nil {
			t.Fatalf("Record: %v", err)
		}
	}

	t.Run("blended with success rate", func(t *testing.T) {
		got, ok, err := sys.AdjustedRating("debugger", 0.5)
		if err != nil {
			t.Fatalf("AdjustedRating: %v", err)
		}
		if !ok {
			t.Fatal("ok = false with feedback present")
		}
		want := 0.7*0.75 + 0.3*0.5
		if math.Abs(got-want) > 1e-9 {
			t.Errorf("AdjustedRating = %v, want %v", got, want)
		}
	})

	t.Run("no success rate available", func(t *testing.T) {
		got, ok, err := sys.AdjustedRating("debugger", -1)
		if err != nil {
			t.Fatalf("AdjustedRating: %v", err)
		}
		if !ok || math.Abs(got-0.75) > 1e-9 {
			t.Errorf("AdjustedRating = %v/%v, want 0.75/true", got, ok)
		}
	})

	t.Run("unknown agent", func(t *testing.T) {
		_, ok, err := sys.AdjustedRating("ghost", 0.9)
		if err != nil {
			t.Fatalf("AdjustedRating: %v", err)
		}
		if ok {
			t.Error("ok = true for agent with no feedback")
		}
	})
}
