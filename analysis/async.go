package analysis

import (
	"context"
	"fmt"

	"colorharmony/model"
)

type DetectResult struct {
	Tone model.SkinTone
	Err  error
}

type AdjustResult struct {
	Image model.Image
	Err   error
}

// DetectAsync runs Detect in its own goroutine. The returned channel
// receives exactly one result and is then closed; it is buffered, so a
// caller that stops listening does not leak the goroutine.
func (r *Runner) DetectAsync(ctx context.Context, img model.Image) <-chan DetectResult {
	ch := make(chan DetectResult, 1)
	go func() {
		defer close(ch)
		defer func() {
			if p := recover(); p != nil {
				ch <- DetectResult{Err: fmt.Errorf("detect skin tone: panic: %v", p)}
			}
		}()
		tone, err := r.Detect(ctx, img)
		ch <- DetectResult{Tone: tone, Err: err}
	}()
	return ch
}

// AdjustAsync is the asynchronous form of Adjust, with the same channel
// semantics as DetectAsync.
func (r *Runner) AdjustAsync(ctx context.Context, img model.Image, target model.SkinTone) <-chan AdjustResult {
	ch := make(chan AdjustResult, 1)
	go func() {
		defer close(ch)
		defer func() {
			if p := recover(); p != nil {
				ch <- AdjustResult{Err: fmt.Errorf("adjust skin tone: panic: %v", p)}
			}
		}()
		out, err := r.Adjust(ctx, img, target)
		ch <- AdjustResult{Image: out, Err: err}
	}()
	return ch
}
