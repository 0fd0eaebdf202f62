package profiler

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestRecordOrder(t *testing.T) {
	p := NewProfiler()
	p.Record("load", 3*time.Millisecond)
	p.Record("normalize", 10*time.Millisecond)
	p.Record("load", 1*time.Millisecond)

	stats := p.GetAllStats()
	if len(stats) != 2 {
		t.Fatalf("got %d stages, want 2", len(stats))
	}
	if stats[0].Name != "load" || stats[1].Name != "normalize" {
		t.Errorf("stage order = %s, %s", stats[0].Name, stats[1].Name)
	}

	load := stats[0]
	if load.Count != 2 || load.Total != 4*time.Millisecond {
		t.Errorf("load stats = %+v", load)
	}
	if load.Min != time.Millisecond || load.Max != 3*time.Millisecond || load.Average != 2*time.Millisecond {
		t.Errorf("load min/max/avg = %v/%v/%v", load.Min, load.Max, load.Average)
	}

	if p.Total() != 14*time.Millisecond {
		t.Errorf("total = %v, want 14ms", p.Total())
	}
}

func TestStageRecordsOnError(t *testing.T) {
	p := NewProfiler()
	boom := errors.New("boom")

	if err := p.Stage("train", func() error { return boom }); err != boom {
		t.Errorf("Stage returned %v, want boom", err)
	}
	if p.GetStats("train").Count != 1 {
		t.Error("failed stage should still be recorded")
	}
	if p.GetStats("missing").Count != 0 {
		t.Error("unknown stage should have zero count")
	}
}

func TestPrintReport(t *testing.T) {
	p := NewProfiler()

	var buf bytes.Buffer
	p.PrintReport(&buf)
	if !strings.Contains(buf.String(), "No timing data") {
		t.Errorf("empty report = %q", buf.String())
	}

	p.Record("split", 2*time.Millisecond)
	p.Record("a-very-long-stage-name-that-overflows", time.Second)
	buf.Reset()
	p.PrintReport(&buf)

	out := buf.String()
	for _, want := range []string{"split", "2.00ms", "1.000s", "...", "total"} {
		if !strings.Contains(out, want) {
			t.Errorf("report missing %q:\n%s", want, out)
		}
	}

	p.Reset()
	if len(p.GetAllStats()) != 0 {
		t.Error("Reset should clear stages")
	}
}
