package session_test

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"colorharmony/analysis"
	"colorharmony/model"
	"colorharmony/palette"
	"colorharmony/session"
	"colorharmony/storage"
)

func pngBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 2, 2))))
	return buf.Bytes()
}

// fixedAnalyzer detects a preset tone and can be told to block or fail.
type fixedAnalyzer struct {
	tone    model.SkinTone
	err     error
	release chan struct{}
}

func (f *fixedAnalyzer) DetectWithProgress(ctx context.Context, img model.Image, progress analysis.ProgressFunc) (model.SkinTone, error) {
	if f.release != nil {
		select {
		case <-f.release:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	if f.err != nil {
		return "", f.err
	}
	return f.tone, nil
}

func (f *fixedAnalyzer) AdjustWithProgress(ctx context.Context, img model.Image, target model.SkinTone, progress analysis.ProgressFunc) (model.Image, error) {
	if f.err != nil {
		return model.Image{}, f.err
	}
	return img, nil
}

func drain(ch <-chan model.Notification) []model.NotificationKind {
	var kinds []model.NotificationKind
	for {
		select {
		case n := <-ch:
			kinds = append(kinds, n.Kind)
		default:
			return kinds
		}
	}
}

func TestInitialState(t *testing.T) {
	s := session.New(&fixedAnalyzer{}, storage.New(storage.Options{}))
	st := s.Snapshot()
	require.Nil(t, st.Image)
	require.Equal(t, model.ToneMedium, st.Tone)
	require.Equal(t, palette.Recommendations(model.ToneMedium), st.Recommendations)
}

func TestUploadDetectsTone(t *testing.T) {
	ctx := context.Background()
	store := storage.New(storage.Options{})
	s := session.New(&fixedAnalyzer{tone: model.ToneOlive}, store)
	events, cancel := s.Subscribe(8)
	defer cancel()

	tone, err := s.Upload(ctx, pngBytes(t))
	require.NoError(t, err)
	require.Equal(t, model.ToneOlive, tone)

	st := s.Snapshot()
	require.NotNil(t, st.Image)
	require.Equal(t, "png", st.Image.Format)
	require.Equal(t, model.ToneOlive, st.Tone)
	require.False(t, st.Analyzing)
	require.Equal(t, "Purple", st.Recommendations[0].Colors[0].Name)
	require.Equal(t, []model.NotificationKind{model.NotifyUploaded, model.NotifyDetected}, drain(events))

	img, err := s.Image(ctx)
	require.NoError(t, err)
	require.Equal(t, pngBytes(t), img.Data)
}

func TestUploadReplacesPreviousImage(t *testing.T) {
	ctx := context.Background()
	store := storage.New(storage.Options{})
	s := session.New(&fixedAnalyzer{tone: model.ToneTan}, store)

	_, err := s.Upload(ctx, pngBytes(t))
	require.NoError(t, err)
	first := s.Snapshot().Image.ID

	_, err = s.Upload(ctx, pngBytes(t))
	require.NoError(t, err)
	require.NotEqual(t, first, s.Snapshot().Image.ID)
	require.Equal(t, 1, store.Len())
}

func TestUploadRejectsNonImage(t *testing.T) {
	ctx := context.Background()
	store := storage.New(storage.Options{})
	s := session.New(&fixedAnalyzer{tone: model.ToneTan}, store)
	events, cancel := s.Subscribe(8)
	defer cancel()

	_, err := s.Upload(ctx, []byte("hello"))
	require.ErrorIs(t, err, analysis.ErrInvalidImage)
	require.Zero(t, store.Len())
	require.Nil(t, s.Snapshot().Image)
	require.Equal(t, []model.NotificationKind{model.NotifyError}, drain(events))
}

func TestUploadDetectionFailure(t *testing.T) {
	boom := errors.New("boom")
	s := session.New(&fixedAnalyzer{err: boom}, storage.New(storage.Options{}))

	_, err := s.Upload(context.Background(), pngBytes(t))
	require.ErrorIs(t, err, boom)
	st := s.Snapshot()
	require.False(t, st.Analyzing)
	require.Equal(t, model.ToneMedium, st.Tone)
}

func TestSupersededUploadIsIgnored(t *testing.T) {
	ctx := context.Background()
	slow := &fixedAnalyzer{tone: model.ToneDark, release: make(chan struct{})}
	s := session.New(slow, storage.New(storage.Options{}))

	done := make(chan error, 1)
	go func() {
		_, err := s.Upload(ctx, pngBytes(t))
		done <- err
	}()
	require.Eventually(t, func() bool { return s.Snapshot().Analyzing }, time.Second, time.Millisecond)

	// A close while detection is pending invalidates the result.
	require.NoError(t, s.Close(ctx))
	close(slow.release)

	require.ErrorIs(t, <-done, session.ErrSuperseded)
	require.Equal(t, model.ToneMedium, s.Snapshot().Tone)
}

func TestSelectTone(t *testing.T) {
	s := session.New(&fixedAnalyzer{}, storage.New(storage.Options{}))

	require.NoError(t, s.SelectTone(model.ToneBrown))
	st := s.Snapshot()
	require.Equal(t, model.ToneBrown, st.Tone)
	require.Equal(t, palette.Recommendations(model.ToneBrown), st.Recommendations)

	require.ErrorIs(t, s.SelectTone("grey"), model.ErrUnsupportedTone)
	require.Equal(t, model.ToneBrown, s.Snapshot().Tone)
}

func TestAdjust(t *testing.T) {
	ctx := context.Background()
	s := session.New(&fixedAnalyzer{tone: model.ToneLight}, storage.New(storage.Options{}))

	require.ErrorIs(t, s.Adjust(ctx, model.ToneDark), session.ErrNoImage)

	_, err := s.Upload(ctx, pngBytes(t))
	require.NoError(t, err)
	events, cancel := s.Subscribe(8)
	defer cancel()

	// Same tone: nothing to do.
	require.NoError(t, s.Adjust(ctx, model.ToneLight))
	require.Empty(t, drain(events))

	require.NoError(t, s.Adjust(ctx, model.ToneDark))
	st := s.Snapshot()
	require.Equal(t, model.ToneDark, st.Tone)
	require.False(t, st.Adjusting)
	require.Equal(t, []model.NotificationKind{model.NotifyAdjusted}, drain(events))

	img, err := s.Image(ctx)
	require.NoError(t, err)
	require.Equal(t, pngBytes(t), img.Data)

	require.ErrorIs(t, s.Adjust(ctx, "grey"), model.ErrUnsupportedTone)
}

func TestWithRealRunner(t *testing.T) {
	ctx := context.Background()
	runner := analysis.NewRunner(analysis.Options{Rand: analysis.NewRand(11)})
	s := session.New(runner, storage.New(storage.Options{TTL: time.Minute}))

	tone, err := s.Upload(ctx, pngBytes(t))
	require.NoError(t, err)
	require.True(t, tone.Valid())

	target := model.ToneLight
	if tone == target {
		target = model.ToneDark
	}
	require.NoError(t, s.Adjust(ctx, target))
	require.Equal(t, target, s.Snapshot().Tone)
	require.NoError(t, s.Close(ctx))
	_, err = s.Image(ctx)
	require.ErrorIs(t, err, session.ErrNoImage)
}

// hookStore wraps a real store so tests can interleave session calls with
// store operations.
type hookStore struct {
	*storage.Store
	afterSave  func()
	getEntered chan struct{}
	getRelease chan struct{}
}

func (h *hookStore) Save(ctx context.Context, data []byte) (model.Image, error) {
	img, err := h.Store.Save(ctx, data)
	if h.afterSave != nil {
		h.afterSave()
	}
	return img, err
}

func (h *hookStore) Get(ctx context.Context, id string) (model.Image, error) {
	if h.getRelease != nil {
		h.getEntered <- struct{}{}
		<-h.getRelease
	}
	return h.Store.Get(ctx, id)
}

func TestUploadDuringCloseIsDiscarded(t *testing.T) {
	ctx := context.Background()
	store := &hookStore{Store: storage.New(storage.Options{})}
	s := session.New(&fixedAnalyzer{tone: model.ToneOlive}, store)
	store.afterSave = func() { require.NoError(t, s.Close(ctx)) }

	tone, err := s.Upload(ctx, pngBytes(t))
	require.ErrorIs(t, err, session.ErrSuperseded)
	require.Empty(t, tone)

	st := s.Snapshot()
	require.Nil(t, st.Image)
	require.Equal(t, model.ToneMedium, st.Tone)
	require.Zero(t, store.Len())
}

func TestAdjustAfterReplacementIsSilent(t *testing.T) {
	ctx := context.Background()
	store := &hookStore{Store: storage.New(storage.Options{})}
	s := session.New(&fixedAnalyzer{tone: model.ToneLight}, store)

	_, err := s.Upload(ctx, pngBytes(t))
	require.NoError(t, err)

	events, cancel := s.Subscribe(8)
	defer cancel()

	store.getEntered = make(chan struct{})
	store.getRelease = make(chan struct{})
	done := make(chan error, 1)
	go func() { done <- s.Adjust(ctx, model.ToneDark) }()
	<-store.getEntered

	// A newer upload deletes the image the adjustment is about to read.
	_, err = s.Upload(ctx, pngBytes(t))
	require.NoError(t, err)
	close(store.getRelease)

	require.ErrorIs(t, <-done, session.ErrSuperseded)
	st := s.Snapshot()
	require.Equal(t, model.ToneLight, st.Tone)
	require.False(t, st.Adjusting)
	require.NotContains(t, drain(events), model.NotifyError)
}
