// Package analysis provides skin-tone detection and adjustment for uploaded
// images.
//
// Both operations are placeholders: detection picks a tone at random and
// adjustment returns the image untouched. What they do honour is the
// contract callers rely on: the input is validated as a decodable image,
// the result arrives after a configurable latency, and the wait can be
// abandoned through the context.
package analysis

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/rs/zerolog"
	_ "golang.org/x/image/webp"

	"colorharmony/logging"
	"colorharmony/metrics"
	"colorharmony/model"
)

const (
	DefaultDetectDelay = time.Second
	DefaultAdjustDelay = 500 * time.Millisecond
)

// ErrInvalidImage is returned for empty, truncated or undecodable image data.
var ErrInvalidImage = errors.New("invalid image")

// ProgressFunc receives stage updates while an operation runs.
type ProgressFunc func(stage string, message string)

type Options struct {
	DetectDelay time.Duration
	AdjustDelay time.Duration
	// Rand drives tone selection. Nil means a randomly seeded source.
	Rand    *rand.Rand
	Metrics *metrics.Registry
}

// DefaultOptions returns the stock latencies with a randomly seeded source.
func DefaultOptions() Options {
	return Options{
		DetectDelay: DefaultDetectDelay,
		AdjustDelay: DefaultAdjustDelay,
	}
}

// NewRand returns a generator seeded with seed; zero picks a random seed.
func NewRand(seed uint64) *rand.Rand {
	if seed == 0 {
		seed = rand.Uint64()
	}
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// Runner executes detection and adjustment requests. It is safe for
// concurrent use.
type Runner struct {
	detectDelay time.Duration
	adjustDelay time.Duration

	mu  sync.Mutex
	rng *rand.Rand

	reg    *metrics.Registry
	logger zerolog.Logger
}

func NewRunner(opts Options) *Runner {
	rng := opts.Rand
	if rng == nil {
		rng = NewRand(0)
	}
	return &Runner{
		detectDelay: max(opts.DetectDelay, 0),
		adjustDelay: max(opts.AdjustDelay, 0),
		rng:         rng,
		reg:         opts.Metrics,
		logger:      logging.Component("analysis"),
	}
}

// Inspect decodes the image header and returns img with Format, Width and
// Height filled in.
func Inspect(img model.Image) (model.Image, error) {
	if len(img.Data) == 0 {
		return img, fmt.Errorf("%w: empty data", ErrInvalidImage)
	}
	cfg, format, err := image.DecodeConfig(bytes.NewReader(img.Data))
	if err != nil {
		return img, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return img, fmt.Errorf("%w: zero-sized image", ErrInvalidImage)
	}
	img.Format = format
	img.Width = cfg.Width
	img.Height = cfg.Height
	return img, nil
}

// Detect returns the skin tone for img.
func (r *Runner) Detect(ctx context.Context, img model.Image) (model.SkinTone, error) {
	return r.DetectWithProgress(ctx, img, nil)
}

// DetectWithProgress is Detect with stage callbacks. If progress is nil it
// behaves like Detect.
func (r *Runner) DetectWithProgress(ctx context.Context, img model.Image, progress ProgressFunc) (model.SkinTone, error) {
	if progress == nil {
		progress = func(_ string, _ string) {}
	}

	progress("validate", "Reading image...")
	info, err := Inspect(img)
	if err != nil {
		r.reg.Inc(ctx, "detections_failed_total", nil, 1)
		return "", fmt.Errorf("detect skin tone: %w", err)
	}

	progress("analyze", "Analyzing skin tone...")
	if err := wait(ctx, r.detectDelay); err != nil {
		return "", fmt.Errorf("detect skin tone: %w", err)
	}

	tone := r.pick()
	progress("done", fmt.Sprintf("Detected skin tone: %s", tone))

	r.logger.Debug().
		Str("image_id", img.ID).
		Str("format", info.Format).
		Int("width", info.Width).
		Int("height", info.Height).
		Str("tone", string(tone)).
		Msg("skin tone detected")
	r.reg.Inc(ctx, "detections_total", map[string]string{"tone": string(tone)}, 1)

	return tone, nil
}

// Adjust recolors img towards target and returns the result. The current
// transform is the identity, so the returned image equals img.
func (r *Runner) Adjust(ctx context.Context, img model.Image, target model.SkinTone) (model.Image, error) {
	return r.AdjustWithProgress(ctx, img, target, nil)
}

func (r *Runner) AdjustWithProgress(ctx context.Context, img model.Image, target model.SkinTone, progress ProgressFunc) (model.Image, error) {
	if progress == nil {
		progress = func(_ string, _ string) {}
	}

	if !target.Valid() {
		return model.Image{}, fmt.Errorf("adjust skin tone: %w: %q", model.ErrUnsupportedTone, target)
	}

	progress("validate", "Reading image...")
	if _, err := Inspect(img); err != nil {
		r.reg.Inc(ctx, "adjustments_failed_total", nil, 1)
		return model.Image{}, fmt.Errorf("adjust skin tone: %w", err)
	}

	progress("adjust", fmt.Sprintf("Adjusting towards %s...", target))
	if err := wait(ctx, r.adjustDelay); err != nil {
		return model.Image{}, fmt.Errorf("adjust skin tone: %w", err)
	}

	progress("done", fmt.Sprintf("Adjusted to: %s", target))
	r.logger.Debug().Str("image_id", img.ID).Str("target", string(target)).Msg("skin tone adjusted")
	r.reg.Inc(ctx, "adjustments_total", map[string]string{"tone": string(target)}, 1)

	return img, nil
}

func (r *Runner) pick() model.SkinTone {
	tones := model.AllSkinTones()
	r.mu.Lock()
	i := r.rng.IntN(len(tones))
	r.mu.Unlock()
	return tones[i]
}

// wait blocks for d or until ctx is done.
func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
