package flash

import (
	"errors"
	"testing"
	"time"
)

type fakeClock struct {
	now time.Time
}

func (f *fakeClock) Now() time.Time { return f.now }

func (f *fakeClock) advance(d time.Duration) { f.now = f.now.Add(d) }

func newTestController(text string, after AfterRecord) (*Controller, *fakeClock) {
	clk := &fakeClock{now: time.Unix(1700000000, 0)}
	c := New(clk, after)
	c.SetText(text)
	return c, clk
}

func record(t *testing.T, c *Controller, clk *fakeClock, gaps ...time.Duration) Effect {
	t.Helper()
	if err := c.StartRecording(); err != nil {
		t.Fatalf("start recording failed: %v", err)
	}
	var eff Effect
	for _, g := range gaps {
		clk.advance(g)
		var err error
		eff, err = c.Advance()
		if err != nil {
			t.Fatalf("advance failed: %v", err)
		}
	}
	return eff
}

func TestRecordProducesOneTimingPerToken(t *testing.T) {
	c, clk := newTestController("the quick brown fox", AfterRecordNone)

	eff := record(t, c, clk, 120*time.Millisecond, 80*time.Millisecond, 300*time.Millisecond, 45*time.Millisecond)

	if !eff.Completed {
		t.Fatal("expected recording to complete on the last advance")
	}
	if c.Mode() != Idle {
		t.Errorf("expected idle, got %s", c.Mode())
	}

	want := []time.Duration{120, 80, 300, 45}
	got := c.Timings()
	if len(got) != len(want) {
		t.Fatalf("expected %d timings, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i]*time.Millisecond {
			t.Errorf("timing %d: expected %v, got %v", i, want[i]*time.Millisecond, got[i])
		}
	}
}

func TestOnlySpacesSeparateWords(t *testing.T) {
	c, clk := newTestController("a\tb c\nd", AfterRecordNone)

	if n := len(c.Tokens()); n != 2 {
		t.Fatalf("expected 2 tokens, got %d (%q)", n, c.Tokens())
	}
	eff := record(t, c, clk, 10*time.Millisecond, 20*time.Millisecond)
	if !eff.Completed {
		t.Error("expected two advances to complete the recording")
	}
}

func TestRecordTruncatesToMilliseconds(t *testing.T) {
	c, clk := newTestController("a b", AfterRecordNone)
	record(t, c, clk, 10*time.Millisecond+999*time.Microsecond, 1500*time.Microsecond)

	got := c.Timings()
	if got[0] != 10*time.Millisecond || got[1] != time.Millisecond {
		t.Errorf("expected [10ms 1ms], got %v", got)
	}
}

func TestRecordClampsBackwardsClock(t *testing.T) {
	c, clk := newTestController("a b", AfterRecordNone)
	record(t, c, clk, -50*time.Millisecond, 20*time.Millisecond)

	for i, d := range c.Timings() {
		if d < 0 {
			t.Errorf("timing %d is negative: %v", i, d)
		}
	}
}

func TestRecordingShowsNextTokenUntilDone(t *testing.T) {
	c, clk := newTestController("one two three", AfterRecordNone)
	if err := c.StartRecording(); err != nil {
		t.Fatal(err)
	}

	for i, want := range []string{"one", "two", "three"} {
		if got, _ := c.Current(); got != want {
			t.Errorf("step %d: expected %s, got %s", i, want, got)
		}
		clk.advance(time.Millisecond)
		if _, err := c.Advance(); err != nil {
			t.Fatal(err)
		}
	}
	if c.Mode() != Idle {
		t.Errorf("expected idle after last word, got %s", c.Mode())
	}
}

func TestSingleTokenCompletesImmediately(t *testing.T) {
	c, clk := newTestController("solo", AfterRecordNone)
	eff := record(t, c, clk, 250*time.Millisecond)

	if !eff.Completed {
		t.Error("expected single token recording to complete on first advance")
	}
	if n := len(c.Timings()); n != 1 {
		t.Errorf("expected 1 timing, got %d", n)
	}
}

func TestStartRecordingWithoutTokens(t *testing.T) {
	c, _ := newTestController("   ", AfterRecordNone)

	if err := c.StartRecording(); !errors.Is(err, ErrNoTokens) {
		t.Errorf("expected ErrNoTokens, got %v", err)
	}
	if c.Mode() != Idle {
		t.Errorf("expected idle, got %s", c.Mode())
	}
	if _, ok := c.Current(); ok {
		t.Error("expected nothing to display")
	}
	c.Nudge()
	if c.StartPlayback() != nil {
		t.Error("expected no playback without timings")
	}
}

func TestAdvanceOutsideRecording(t *testing.T) {
	c, _ := newTestController("a b", AfterRecordNone)
	if _, err := c.Advance(); !errors.Is(err, ErrNotRecording) {
		t.Errorf("expected ErrNotRecording, got %v", err)
	}
}

func TestPlaybackCyclesIndexes(t *testing.T) {
	c, clk := newTestController("a b c", AfterRecordNone)
	record(t, c, clk, 100*time.Millisecond, 200*time.Millisecond, 300*time.Millisecond)

	tick := c.StartPlayback()
	if tick == nil {
		t.Fatal("expected first tick")
	}
	if tick.Delay != 100*time.Millisecond || c.Index() != 0 {
		t.Fatalf("expected first tick of 100ms at index 0, got %v at %d", tick.Delay, c.Index())
	}

	wantIdx := []int{1, 2, 0, 1, 2, 0, 1}
	wantDelay := []time.Duration{200, 300, 100, 200, 300, 100, 200}
	for i := range wantIdx {
		tick = c.Fire(*tick)
		if tick == nil {
			t.Fatalf("step %d: playback stopped unexpectedly", i)
		}
		if c.Index() != wantIdx[i] {
			t.Errorf("step %d: expected index %d, got %d", i, wantIdx[i], c.Index())
		}
		if tick.Delay != wantDelay[i]*time.Millisecond {
			t.Errorf("step %d: expected delay %v, got %v", i, wantDelay[i]*time.Millisecond, tick.Delay)
		}
	}
}

func TestCancelledTickIsStale(t *testing.T) {
	c, clk := newTestController("a b c", AfterRecordNone)
	record(t, c, clk, 10*time.Millisecond, 10*time.Millisecond, 10*time.Millisecond)

	tick := c.StartPlayback()
	tick = c.Fire(*tick)
	idx := c.Index()

	c.CancelPlayback()
	if c.Mode() != Idle {
		t.Fatalf("expected idle, got %s", c.Mode())
	}
	if next := c.Fire(*tick); next != nil {
		t.Error("expected stale tick to be ignored")
	}
	if c.Index() != idx {
		t.Errorf("stale tick moved index from %d to %d", idx, c.Index())
	}

	c.CancelPlayback()
	c.CancelPlayback()
}

func TestRestartedPlaybackInvalidatesOldTicks(t *testing.T) {
	c, clk := newTestController("a b", AfterRecordNone)
	record(t, c, clk, 10*time.Millisecond, 20*time.Millisecond)

	old := c.StartPlayback()
	fresh := c.StartPlayback()

	if c.Fire(*old) != nil {
		t.Error("expected tick from the first playback to be stale")
	}
	if c.Fire(*fresh) == nil {
		t.Error("expected tick from the restarted playback to be live")
	}
}

func TestRecordingCancelsPlayback(t *testing.T) {
	c, clk := newTestController("a b", AfterRecordNone)
	record(t, c, clk, 10*time.Millisecond, 20*time.Millisecond)

	tick := c.StartPlayback()
	if err := c.StartRecording(); err != nil {
		t.Fatal(err)
	}
	if c.Mode() != Recording {
		t.Fatalf("expected recording, got %s", c.Mode())
	}
	if c.Fire(*tick) != nil {
		t.Error("old playback tick advanced the index during recording")
	}
	if c.Index() != 0 {
		t.Errorf("expected index 0, got %d", c.Index())
	}
	if n := len(c.Timings()); n != 0 {
		t.Errorf("expected fresh timings, got %d", n)
	}
}

func TestTrigger(t *testing.T) {
	c, clk := newTestController("x y", AfterRecordPlay)

	if _, err := c.Trigger(); err != nil {
		t.Fatal(err)
	}
	if c.Mode() != Recording {
		t.Fatalf("expected recording, got %s", c.Mode())
	}

	clk.advance(50 * time.Millisecond)
	if _, err := c.Trigger(); err != nil {
		t.Fatal(err)
	}
	clk.advance(70 * time.Millisecond)
	eff, err := c.Trigger()
	if err != nil {
		t.Fatal(err)
	}
	if !eff.Completed || eff.Tick == nil {
		t.Fatal("expected completion to start playback")
	}
	if c.Mode() != Playing {
		t.Fatalf("expected playing, got %s", c.Mode())
	}
	if eff.Tick.Delay != 50*time.Millisecond {
		t.Errorf("expected first playback delay 50ms, got %v", eff.Tick.Delay)
	}

	if _, err := c.Trigger(); err != nil {
		t.Fatal(err)
	}
	if c.Mode() != Idle {
		t.Errorf("expected trigger to cancel playback, got %s", c.Mode())
	}
}

func TestAfterRecordExport(t *testing.T) {
	c, clk := newTestController("a b c", AfterRecordExport)
	eff := record(t, c, clk, 100*time.Millisecond, 200*time.Millisecond, 300*time.Millisecond)

	if eff.Export == nil {
		t.Fatal("expected export job")
	}
	if c.Mode() != Exporting {
		t.Fatalf("expected exporting, got %s", c.Mode())
	}
	if len(eff.Export.Tokens) != 3 || len(eff.Export.Timings) != 3 {
		t.Errorf("expected 3 tokens and timings, got %d/%d", len(eff.Export.Tokens), len(eff.Export.Timings))
	}

	if _, err := c.Trigger(); !errors.Is(err, ErrBusy) {
		t.Errorf("expected ErrBusy while exporting, got %v", err)
	}
	if err := c.StartRecording(); !errors.Is(err, ErrBusy) {
		t.Errorf("expected ErrBusy while exporting, got %v", err)
	}

	c.EndExport()
	if c.Mode() != Idle {
		t.Errorf("expected idle after export, got %s", c.Mode())
	}
}

func TestBeginExportPreconditions(t *testing.T) {
	c, clk := newTestController("a b", AfterRecordNone)

	if _, err := c.BeginExport(); !errors.Is(err, ErrNoTimings) {
		t.Errorf("expected ErrNoTimings, got %v", err)
	}

	record(t, c, clk, 10*time.Millisecond, 10*time.Millisecond)
	c.SetText("a b c")
	if _, err := c.BeginExport(); !errors.Is(err, ErrTimingMismatch) {
		t.Errorf("expected ErrTimingMismatch, got %v", err)
	}
	if c.Mode() != Idle {
		t.Errorf("failed export must not change mode, got %s", c.Mode())
	}
}

func TestExportJobIsSnapshot(t *testing.T) {
	c, clk := newTestController("a b", AfterRecordNone)
	record(t, c, clk, 10*time.Millisecond, 20*time.Millisecond)

	job, err := c.BeginExport()
	if err != nil {
		t.Fatal(err)
	}
	job.Tokens[0] = "mutated"
	job.Timings[0] = time.Hour

	if tok := c.Tokens()[0]; tok != "a" {
		t.Errorf("controller tokens changed through job: %s", tok)
	}
	if d := c.Timings()[0]; d != 10*time.Millisecond {
		t.Errorf("controller timings changed through job: %v", d)
	}
}

func TestSetTextAbortsRecording(t *testing.T) {
	c, clk := newTestController("a b c", AfterRecordNone)
	if err := c.StartRecording(); err != nil {
		t.Fatal(err)
	}
	clk.advance(10 * time.Millisecond)
	if _, err := c.Advance(); err != nil {
		t.Fatal(err)
	}

	c.SetText("d e")
	if c.Mode() != Idle {
		t.Errorf("expected idle, got %s", c.Mode())
	}
	if n := len(c.Timings()); n != 0 {
		t.Errorf("expected partial timings to be discarded, got %d", n)
	}
}

func TestNudge(t *testing.T) {
	c, clk := newTestController("a b c", AfterRecordNone)

	c.Nudge()
	c.Nudge()
	if got, _ := c.Current(); got != "c" {
		t.Errorf("expected c, got %s", got)
	}
	c.Nudge()
	if got, _ := c.Current(); got != "a" {
		t.Errorf("expected wrap to a, got %s", got)
	}

	record(t, c, clk, 1*time.Millisecond, 1*time.Millisecond, 1*time.Millisecond)
	c.StartPlayback()
	c.Nudge()
	if c.Mode() != Idle {
		t.Errorf("expected nudge to cancel playback, got %s", c.Mode())
	}
}

func TestRestore(t *testing.T) {
	c := New(nil, AfterRecordNone)
	timings := []time.Duration{30 * time.Millisecond, 40 * time.Millisecond}
	if err := c.Restore("hello there", timings); err != nil {
		t.Fatal(err)
	}
	timings[0] = 0

	tick := c.StartPlayback()
	if tick == nil || tick.Delay != 30*time.Millisecond {
		t.Fatalf("expected first tick of 30ms, got %+v", tick)
	}
}

func TestParseAfterRecord(t *testing.T) {
	for _, name := range AfterRecordNames() {
		a, err := ParseAfterRecord(name)
		if err != nil {
			t.Errorf("%s: unexpected error %v", name, err)
		}
		if a.String() != name {
			t.Errorf("expected %s, got %s", name, a)
		}
	}
	if _, err := ParseAfterRecord("rewind"); err == nil {
		t.Error("expected error for unknown action")
	}
	if AfterRecordNone.Next() != AfterRecordPlay {
		t.Error("expected Next to wrap around")
	}
}
