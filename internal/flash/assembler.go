package flash

import (
	"context"
	"image"
	"log"
	"time"
)

// FrameRenderer draws one token into a fresh frame.
type FrameRenderer interface {
	Render(token string) (image.Image, error)
}

// Encoder accumulates frames and emits the finished animation.
type Encoder interface {
	AddFrame(frame image.Image, delay time.Duration) error
	Finish() error
}

// Build renders tokens[i] and submits it with timings[i], in index order,
// then finalises the encoder. The context is checked between frames.
func Build(ctx context.Context, tokens []string, timings []time.Duration, r FrameRenderer, enc Encoder) error {
	if len(tokens) == 0 {
		return ErrNoTokens
	}
	if len(timings) != len(tokens) {
		return ErrTimingMismatch
	}

	for i, tok := range tokens {
		select {
		case <-ctx.Done():
			return &ExportError{Frame: i, Token: tok, Wrapped: ctx.Err()}
		default:
		}

		frame, err := r.Render(tok)
		if err != nil {
			return &ExportError{Frame: i, Token: tok, Wrapped: err}
		}
		if err := enc.AddFrame(frame, timings[i]); err != nil {
			return &ExportError{Frame: i, Token: tok, Wrapped: err}
		}
	}

	log.Printf("flash: submitted %d frames", len(tokens))
	return enc.Finish()
}

// Build assembles the job's frames.
func (j *ExportJob) Build(ctx context.Context, r FrameRenderer, enc Encoder) error {
	return Build(ctx, j.Tokens, j.Timings, r, enc)
}
