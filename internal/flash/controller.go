package flash

import (
	"log"
	"time"

	"github.com/san-kum/wordflash/internal/words"
)

// Tick is a pending single-shot callback. The host delivers it to
// Controller.Fire after Delay. A tick issued before the last mode change is
// stale and Fire ignores it.
type Tick struct {
	Delay time.Duration
	Index int
	gen   uint64
}

// ExportJob is a snapshot of the tokens and timings to bake into an animation.
type ExportJob struct {
	Text    string
	Tokens  []string
	Timings []time.Duration
}

// Effect reports what the host has to do after a controller operation.
type Effect struct {
	// Tick, when set, must be delivered to Fire after Tick.Delay.
	Tick *Tick
	// Export, when set, must be built and then acknowledged with EndExport.
	Export *ExportJob
	// Completed is true when this operation finished a recording session.
	Completed bool
}

// Controller owns the token sequence, the current index, the recorded
// timings and the active mode.
type Controller struct {
	clock   Clock
	after   AfterRecord
	text    string
	tokens  []string
	index   int
	timings []time.Duration
	mode    Mode
	last    time.Time
	gen     uint64
}

// New creates an idle controller. A nil clock uses the system clock.
func New(clock Clock, after AfterRecord) *Controller {
	if clock == nil {
		clock = SystemClock()
	}
	return &Controller{
		clock:  clock,
		after:  after,
		tokens: []string{},
	}
}

func (c *Controller) Mode() Mode               { return c.mode }
func (c *Controller) Index() int               { return c.index }
func (c *Controller) Text() string             { return c.text }
func (c *Controller) AfterRecord() AfterRecord { return c.after }

// SetAfterRecord changes the action taken when the next recording completes.
func (c *Controller) SetAfterRecord(a AfterRecord) { c.after = a }

// Tokens returns a copy of the current token sequence.
func (c *Controller) Tokens() []string {
	out := make([]string, len(c.tokens))
	copy(out, c.tokens)
	return out
}

// Timings returns a copy of the recorded timing sequence.
func (c *Controller) Timings() []time.Duration {
	out := make([]time.Duration, len(c.timings))
	copy(out, c.timings)
	return out
}

// Current returns the token at the current index, wrapped to the sequence
// length. The second result is false when there is nothing to display.
func (c *Controller) Current() (string, bool) {
	return words.Current(c.tokens, c.index)
}

// SetText re-tokenizes the input. Editing the text mid-recording aborts the
// session and discards its partial timings.
func (c *Controller) SetText(text string) {
	c.text = text
	c.tokens = words.Tokenize(text)
	if c.mode == Recording {
		log.Printf("flash: text changed mid-recording, discarding %d timings", len(c.timings))
		c.timings = nil
		c.index = 0
		c.setMode(Idle)
	}
}

// Restore loads a previously recorded session. Any active playback stops.
func (c *Controller) Restore(text string, timings []time.Duration) error {
	if c.mode == Exporting {
		return ErrBusy
	}
	c.CancelPlayback()
	c.SetText(text)
	c.timings = make([]time.Duration, len(timings))
	copy(c.timings, timings)
	c.index = 0
	c.setMode(Idle)
	return nil
}

// setMode switches mode and invalidates every tick issued so far.
func (c *Controller) setMode(m Mode) {
	if c.mode != m {
		log.Printf("flash: %s -> %s", c.mode, m)
	}
	c.mode = m
	c.gen++
}

// StartRecording begins a fresh recording session, cancelling playback.
func (c *Controller) StartRecording() error {
	if c.mode == Exporting {
		return ErrBusy
	}
	if len(c.tokens) == 0 {
		return ErrNoTokens
	}
	c.timings = make([]time.Duration, 0, len(c.tokens))
	c.index = 0
	c.last = c.clock.Now()
	c.setMode(Recording)
	return nil
}

// Advance records the interval since the previous advance and moves to the
// next token. Reaching the end of the sequence completes the session and
// runs the configured post-record action.
func (c *Controller) Advance() (Effect, error) {
	if c.mode != Recording {
		return Effect{}, ErrNotRecording
	}
	if len(c.tokens) == 0 {
		c.setMode(Idle)
		return Effect{}, ErrNoTokens
	}

	now := c.clock.Now()
	delta := now.Sub(c.last)
	if delta < 0 {
		delta = 0
	}
	c.timings = append(c.timings, delta.Truncate(time.Millisecond))
	c.last = now
	c.index++

	if c.index < len(c.tokens) {
		return Effect{}, nil
	}
	return c.finishRecording(), nil
}

func (c *Controller) finishRecording() Effect {
	c.index = 0
	c.setMode(Idle)
	log.Printf("flash: recorded %d timings, after=%s", len(c.timings), c.after)

	eff := Effect{Completed: true}
	switch c.after {
	case AfterRecordPlay:
		eff.Tick = c.StartPlayback()
	case AfterRecordExport:
		job, err := c.BeginExport()
		if err != nil {
			// Cannot happen for a completed session; keep the timings anyway.
			log.Printf("flash: post-record export: %v", err)
			break
		}
		eff.Export = job
	}
	return eff
}

// StartPlayback loops the recorded timings from the first token. It returns
// nil, changing nothing, when there is nothing to play or an export or
// recording is active.
func (c *Controller) StartPlayback() *Tick {
	if len(c.timings) == 0 || c.mode == Exporting || c.mode == Recording {
		return nil
	}
	c.index = 0
	c.setMode(Playing)
	return c.nextTick()
}

func (c *Controller) nextTick() *Tick {
	return &Tick{
		Delay: c.timings[c.index],
		Index: c.index,
		gen:   c.gen,
	}
}

// Fire delivers a scheduled tick. Stale ticks are ignored and return nil.
// A live tick advances the index cyclically and returns the next tick.
func (c *Controller) Fire(t Tick) *Tick {
	if t.gen != c.gen || c.mode != Playing || len(c.timings) == 0 {
		return nil
	}
	c.index = (c.index + 1) % len(c.timings)
	return c.nextTick()
}

// CancelPlayback stops a running playback. Safe to call in any mode.
func (c *Controller) CancelPlayback() {
	if c.mode != Playing {
		return
	}
	c.setMode(Idle)
}

// Trigger is the single manual control: it cancels playback, advances a
// recording, or starts one.
func (c *Controller) Trigger() (Effect, error) {
	switch c.mode {
	case Playing:
		c.CancelPlayback()
		return Effect{}, nil
	case Recording:
		return c.Advance()
	case Exporting:
		return Effect{}, ErrBusy
	default:
		return Effect{}, c.StartRecording()
	}
}

// Nudge cancels playback or, when idle, steps the preview to the next token.
func (c *Controller) Nudge() {
	switch c.mode {
	case Playing:
		c.CancelPlayback()
	case Idle:
		if len(c.tokens) > 0 {
			c.index = (c.index + 1) % len(c.tokens)
		}
	}
}

// BeginExport snapshots the session for export and enters Exporting.
func (c *Controller) BeginExport() (*ExportJob, error) {
	switch c.mode {
	case Exporting:
		return nil, ErrBusy
	case Recording:
		return nil, ErrNoTimings
	}
	if len(c.timings) == 0 {
		return nil, ErrNoTimings
	}
	if len(c.timings) != len(c.tokens) {
		return nil, ErrTimingMismatch
	}

	c.CancelPlayback()
	job := &ExportJob{
		Text:    c.text,
		Tokens:  c.Tokens(),
		Timings: c.Timings(),
	}
	c.setMode(Exporting)
	return job, nil
}

// EndExport returns to Idle once an export has finished or failed.
func (c *Controller) EndExport() {
	if c.mode != Exporting {
		return
	}
	c.setMode(Idle)
}
