package prof

import (
	"testing"
	"time"
)

func TestSnapshotAndReset(t *testing.T) {
	SnapshotAndReset()
	Track(time.Now(), "a")
	Track(time.Now().Add(-time.Millisecond), "b")
	got := SnapshotAndReset()
	if len(got) != 2 || got[0].Label != "a" || got[1].Label != "b" {
		t.Fatalf("unexpected entries %+v", got)
	}
	if got[1].Dur < time.Millisecond {
		t.Fatalf("duration %v shorter than the offset", got[1].Dur)
	}
	if rest := SnapshotAndReset(); len(rest) != 0 {
		t.Fatalf("reset left %d entries", len(rest))
	}
}

func TestSummarize(t *testing.T) {
	sum := Summarize([]Entry{
		{"sign", 3 * time.Millisecond},
		{"verify", time.Millisecond},
		{"sign", time.Millisecond},
		{"sign", 2 * time.Millisecond},
	})
	if len(sum) != 2 || sum[0].Label != "sign" || sum[1].Label != "verify" {
		t.Fatalf("unexpected summaries %+v", sum)
	}
	s := sum[0]
	if s.Count != 3 || s.Min != time.Millisecond || s.Max != 3*time.Millisecond || s.Mean() != 2*time.Millisecond {
		t.Fatalf("bad sign summary %+v", s)
	}
	if (Summary{}).Mean() != 0 {
		t.Fatalf("empty summary mean must be 0")
	}
}
