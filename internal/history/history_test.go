package history

import (
	"sync"
	"testing"
	"time"

	"eos-mcp/internal/feedback"
)

func TestLogAppendSnapshotClear(t *testing.T) {
	l := NewLog[int](3)
	l.Append(1)
	l.Append(2)

	got := l.Snapshot()
	if len(got) != 2 || got[0] != 1 || got[1] != 2 {
		t.Fatalf("unexpected snapshot: %v", got)
	}

	// Ensure copy semantics (modifying returned slice does not affect internal state)
	got[0] = 42
	if l.Snapshot()[0] != 1 {
		t.Fatalf("internal state mutated via returned slice")
	}

	l.Clear()
	if l.Len() != 0 || len(l.Snapshot()) != 0 {
		t.Fatalf("clear did not empty log")
	}
	l.Append(7)
	if s := l.Snapshot(); len(s) != 1 || s[0] != 7 {
		t.Fatalf("append after clear: %v", s)
	}
}

func TestLogEvictsOldestFirst(t *testing.T) {
	l := NewLog[int](DefaultCapacity)
	for i := 1; i <= 1200; i++ {
		l.Append(i)
		if l.Len() > DefaultCapacity {
			t.Fatalf("length %d exceeds capacity", l.Len())
		}
	}
	got := l.Snapshot()
	if len(got) != DefaultCapacity {
		t.Fatalf("want %d entries, got %d", DefaultCapacity, len(got))
	}
	for i, v := range got {
		if v != 201+i {
			t.Fatalf("entry %d = %d, want %d", i, v, 201+i)
		}
	}
}

func TestLogFilterAndTail(t *testing.T) {
	l := NewLog[int](10)
	for i := 1; i <= 15; i++ {
		l.Append(i)
	}
	even := l.Filter(func(v int) bool { return v%2 == 0 })
	want := []int{6, 8, 10, 12, 14}
	if len(even) != len(want) {
		t.Fatalf("filter: got %v", even)
	}
	for i := range want {
		if even[i] != want[i] {
			t.Fatalf("filter order: got %v", even)
		}
	}

	tail := l.Tail(3, nil)
	if len(tail) != 3 || tail[0] != 13 || tail[2] != 15 {
		t.Fatalf("tail: got %v", tail)
	}
	evenTail := l.Tail(2, func(v int) bool { return v%2 == 0 })
	if len(evenTail) != 2 || evenTail[0] != 12 || evenTail[1] != 14 {
		t.Fatalf("filtered tail: got %v", evenTail)
	}
	if all := l.Tail(100, nil); len(all) != 10 {
		t.Fatalf("tail larger than log: got %d", len(all))
	}
}

func TestLogConcurrentAppendAndRead(t *testing.T) {
	l := NewLog[int](100)
	var wg sync.WaitGroup
	for w := 0; w < 4; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 1000; i++ {
				l.Append(i)
			}
		}()
	}
	for r := 0; r < 4; r++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				if n := len(l.Snapshot()); n > 100 {
					t.Errorf("snapshot length %d exceeds capacity", n)
					return
				}
				if i%50 == 0 {
					l.Clear()
				}
			}
		}()
	}
	wg.Wait()
	if l.Len() > l.Cap() {
		t.Fatalf("length %d exceeds capacity %d", l.Len(), l.Cap())
	}
}

func TestStoreRecord(t *testing.T) {
	s := NewStore(DefaultCapacity)
	now := time.Now()

	kept := s.Record(feedback.NewMessage(now, "/eos/out/user/1/action", []feedback.Argument{feedback.Text("Chan 1 At 50")}))
	if !kept {
		t.Fatalf("user action should be kept")
	}
	s.Record(feedback.NewMessage(now, "/eos/out/error", []feedback.Argument{feedback.Text("Unknown command")}))
	for i := 0; i < 10000; i++ {
		if s.Record(feedback.NewMessage(now, "/eos/out/dmx/1", []feedback.Argument{feedback.Number(float64(i % 256))})) {
			t.Fatalf("dmx traffic must be discarded")
		}
	}

	if s.Feedback.Len() != 2 {
		t.Fatalf("want 2 feedback entries, got %d", s.Feedback.Len())
	}
	actions := s.Actions.Snapshot()
	if len(actions) != 1 || actions[0].CommandText() != "Chan 1 At 50" {
		t.Fatalf("unexpected actions: %+v", actions)
	}

	s.Clear()
	if s.Feedback.Len() != 0 || s.Actions.Len() != 0 {
		t.Fatalf("clear did not empty the store")
	}
}
