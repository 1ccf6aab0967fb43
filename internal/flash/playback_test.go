package flash_test

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/wordflash/internal/flash"
)

type stepClock struct {
	now time.Time
}

func (c *stepClock) Now() time.Time { return c.now }

// pendingTicks mimics a host event loop: ticks are queued in issue order
// and delivered one at a time.
type pendingTicks []flash.Tick

func (p *pendingTicks) push(t *flash.Tick) {
	if t != nil {
		*p = append(*p, *t)
	}
}

func (p *pendingTicks) pop() flash.Tick {
	t := (*p)[0]
	*p = (*p)[1:]
	return t
}

var _ = Describe("Controller playback", func() {
	var (
		clk   *stepClock
		ctrl  *flash.Controller
		queue pendingTicks
	)

	recordGaps := func(gaps ...time.Duration) {
		Expect(ctrl.StartRecording()).To(Succeed())
		for _, g := range gaps {
			clk.now = clk.now.Add(g)
			eff, err := ctrl.Advance()
			Expect(err).NotTo(HaveOccurred())
			queue.push(eff.Tick)
		}
	}

	BeforeEach(func() {
		clk = &stepClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
		ctrl = flash.New(clk, flash.AfterRecordPlay)
		queue = nil
	})

	Context("after recording four words", func() {
		BeforeEach(func() {
			ctrl.SetText("never gonna give you")
			recordGaps(400*time.Millisecond, 150*time.Millisecond, 150*time.Millisecond, 600*time.Millisecond)
		})

		It("starts playing from the first word", func() {
			Expect(ctrl.Mode()).To(Equal(flash.Playing))
			Expect(ctrl.Index()).To(Equal(0))
			Expect(queue).To(HaveLen(1))
			Expect(queue[0].Delay).To(Equal(400 * time.Millisecond))
		})

		It("shows each word for its recorded interval, looping", func() {
			var shown []string
			var held []time.Duration
			for i := 0; i < 9; i++ {
				word, _ := ctrl.Current()
				tick := queue.pop()
				shown = append(shown, word)
				held = append(held, tick.Delay)
				queue.push(ctrl.Fire(tick))
			}

			Expect(shown).To(Equal([]string{
				"never", "gonna", "give", "you",
				"never", "gonna", "give", "you",
				"never",
			}))
			Expect(held).To(Equal([]time.Duration{
				400 * time.Millisecond, 150 * time.Millisecond, 150 * time.Millisecond, 600 * time.Millisecond,
				400 * time.Millisecond, 150 * time.Millisecond, 150 * time.Millisecond, 600 * time.Millisecond,
				400 * time.Millisecond,
			}))
		})

		It("stops advancing once cancelled mid-loop", func() {
			queue.push(ctrl.Fire(queue.pop()))
			queue.push(ctrl.Fire(queue.pop()))
			Expect(ctrl.Index()).To(Equal(2))

			ctrl.CancelPlayback()

			for len(queue) > 0 {
				Expect(ctrl.Fire(queue.pop())).To(BeNil())
			}
			Expect(ctrl.Index()).To(Equal(2))
			Expect(ctrl.Mode()).To(Equal(flash.Idle))
		})

		It("drops the old timer when a new recording starts", func() {
			stale := queue.pop()
			Expect(ctrl.StartRecording()).To(Succeed())

			Expect(ctrl.Fire(stale)).To(BeNil())
			Expect(ctrl.Mode()).To(Equal(flash.Recording))
			Expect(ctrl.Index()).To(Equal(0))
		})

		It("exports instead of playing when asked to", func() {
			ctrl.SetAfterRecord(flash.AfterRecordExport)
			queue = nil
			recordGaps(10*time.Millisecond, 20*time.Millisecond, 30*time.Millisecond, 40*time.Millisecond)

			Expect(queue).To(BeEmpty())
			Expect(ctrl.Mode()).To(Equal(flash.Exporting))
		})
	})

	Context("with a single word", func() {
		It("completes the recording on the first advance", func() {
			ctrl.SetText("hi")
			Expect(ctrl.StartRecording()).To(Succeed())
			clk.now = clk.now.Add(75 * time.Millisecond)

			eff, err := ctrl.Advance()
			Expect(err).NotTo(HaveOccurred())
			Expect(eff.Completed).To(BeTrue())
			Expect(ctrl.Timings()).To(Equal([]time.Duration{75 * time.Millisecond}))
		})

		It("keeps showing the same word while looping", func() {
			ctrl.SetText("hi")
			recordGaps(75 * time.Millisecond)

			for i := 0; i < 3; i++ {
				queue.push(ctrl.Fire(queue.pop()))
				word, _ := ctrl.Current()
				Expect(word).To(Equal("hi"))
			}
		})
	})

	Context("with no words", func() {
		It("refuses to record and never schedules a tick", func() {
			ctrl.SetText("")
			Expect(ctrl.StartRecording()).To(MatchError(flash.ErrNoTokens))
			Expect(ctrl.StartPlayback()).To(BeNil())
			_, ok := ctrl.Current()
			Expect(ok).To(BeFalse())
		})
	})
})
