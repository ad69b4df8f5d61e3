package analysis_test

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"colorharmony/analysis"
	"colorharmony/metrics"
	"colorharmony/model"
)

func testImage(t *testing.T) model.Image {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 3))
	for x := 0; x < 4; x++ {
		for y := 0; y < 3; y++ {
			img.Set(x, y, color.RGBA{R: 0xC1, G: 0x9A, B: 0x6B, A: 0xFF})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return model.Image{ID: "img-1", Data: buf.Bytes()}
}

func instantRunner(seed uint64) *analysis.Runner {
	return analysis.NewRunner(analysis.Options{Rand: analysis.NewRand(seed)})
}

func TestInspect(t *testing.T) {
	img, err := analysis.Inspect(testImage(t))
	require.NoError(t, err)
	require.Equal(t, "png", img.Format)
	require.Equal(t, 4, img.Width)
	require.Equal(t, 3, img.Height)
}

func TestDetectReturnsKnownTone(t *testing.T) {
	r := instantRunner(42)
	img := testImage(t)

	seen := make(map[model.SkinTone]int)
	for i := 0; i < 600; i++ {
		tone, err := r.Detect(context.Background(), img)
		require.NoError(t, err)
		require.True(t, tone.Valid(), tone)
		seen[tone]++
	}
	require.Len(t, seen, 6)
}

func TestDetectSeededIsReproducible(t *testing.T) {
	img := testImage(t)
	a, b := instantRunner(7), instantRunner(7)
	for i := 0; i < 20; i++ {
		ta, err := a.Detect(context.Background(), img)
		require.NoError(t, err)
		tb, err := b.Detect(context.Background(), img)
		require.NoError(t, err)
		require.Equal(t, ta, tb)
	}
}

func TestDetectInvalidImage(t *testing.T) {
	r := instantRunner(1)
	for _, data := range [][]byte{nil, {}, []byte("definitely not an image")} {
		_, err := r.Detect(context.Background(), model.Image{Data: data})
		require.ErrorIs(t, err, analysis.ErrInvalidImage)
	}
}

func TestDetectProgressStages(t *testing.T) {
	r := instantRunner(3)
	var stages []string
	_, err := r.DetectWithProgress(context.Background(), testImage(t), func(stage, _ string) {
		stages = append(stages, stage)
	})
	require.NoError(t, err)
	require.Equal(t, []string{"validate", "analyze", "done"}, stages)
}

func TestDetectHonoursDelayAndCancel(t *testing.T) {
	r := analysis.NewRunner(analysis.Options{DetectDelay: time.Hour, Rand: analysis.NewRand(1)})
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := r.Detect(ctx, testImage(t))
	require.ErrorIs(t, err, context.DeadlineExceeded)
	require.Less(t, time.Since(start), time.Second)
}

func TestDetectWaitsForDelay(t *testing.T) {
	r := analysis.NewRunner(analysis.Options{DetectDelay: 30 * time.Millisecond, Rand: analysis.NewRand(1)})
	start := time.Now()
	_, err := r.Detect(context.Background(), testImage(t))
	require.NoError(t, err)
	require.GreaterOrEqual(t, time.Since(start), 30*time.Millisecond)
}

func TestAdjustIsIdentity(t *testing.T) {
	r := instantRunner(1)
	img := testImage(t)
	for _, tone := range model.AllSkinTones() {
		out, err := r.Adjust(context.Background(), img, tone)
		require.NoError(t, err)
		require.Equal(t, img, out)
	}
}

func TestAdjustErrors(t *testing.T) {
	r := instantRunner(1)

	_, err := r.Adjust(context.Background(), testImage(t), "grey")
	require.ErrorIs(t, err, model.ErrUnsupportedTone)

	_, err = r.Adjust(context.Background(), model.Image{}, model.ToneDark)
	require.ErrorIs(t, err, analysis.ErrInvalidImage)
}

func TestAsync(t *testing.T) {
	reg := metrics.NewRegistry()
	r := analysis.NewRunner(analysis.Options{Rand: analysis.NewRand(5), Metrics: reg})
	img := testImage(t)

	dres := <-r.DetectAsync(context.Background(), img)
	require.NoError(t, dres.Err)
	require.True(t, dres.Tone.Valid())

	ares := <-r.AdjustAsync(context.Background(), img, model.ToneTan)
	require.NoError(t, ares.Err)
	require.Equal(t, img, ares.Image)

	require.EqualValues(t, 1, reg.Value("detections_total", map[string]string{"tone": string(dres.Tone)}))
	require.EqualValues(t, 1, reg.Value("adjustments_total", map[string]string{"tone": "tan"}))
}

func TestAsyncAbandonedResultDoesNotBlock(t *testing.T) {
	r := instantRunner(9)
	ch := r.DetectAsync(context.Background(), testImage(t))

	// Nobody reads until the goroutine has finished and closed the channel.
	require.Eventually(t, func() bool { return len(ch) == 1 }, time.Second, time.Millisecond)
	res, ok := <-ch
	require.True(t, ok)
	require.NoError(t, res.Err)
	_, ok = <-ch
	require.False(t, ok)
}
