// Package session tracks what a single user is looking at: the uploaded
// image, the selected skin tone and the palette recommended for it. It
// wires user actions to the store and the analysis runner and announces
// each outcome as a notification.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"colorharmony/analysis"
	"colorharmony/logging"
	"colorharmony/model"
	"colorharmony/palette"
)

var (
	ErrNoImage = errors.New("no image uploaded")
	// ErrSuperseded is returned when a newer upload replaced the image
	// while an operation on the old one was still running.
	ErrSuperseded = errors.New("image replaced by a newer upload")
)

// Analyzer is implemented by analysis.Runner.
type Analyzer interface {
	DetectWithProgress(ctx context.Context, img model.Image, progress analysis.ProgressFunc) (model.SkinTone, error)
	AdjustWithProgress(ctx context.Context, img model.Image, target model.SkinTone, progress analysis.ProgressFunc) (model.Image, error)
}

// ImageStore is implemented by storage.Store.
type ImageStore interface {
	Save(ctx context.Context, data []byte) (model.Image, error)
	Get(ctx context.Context, id string) (model.Image, error)
	Replace(ctx context.Context, id string, data []byte) error
	Delete(ctx context.Context, id string) error
}

// State is a point-in-time copy of the session. Recommendations always
// match Tone.
type State struct {
	Image           *model.Image          `json:"image,omitempty"`
	Tone            model.SkinTone        `json:"tone"`
	Recommendations []model.ColorCategory `json:"recommendations"`
	Analyzing       bool                  `json:"analyzing"`
	Adjusting       bool                  `json:"adjusting"`
}

type Session struct {
	analyzer Analyzer
	store    ImageStore
	events   *Broadcaster
	now      func() time.Time
	logger   zerolog.Logger

	mu        sync.Mutex
	image     *model.Image // metadata only, bytes live in the store
	tone      model.SkinTone
	analyzing bool
	adjusting bool
	closed    bool
	gen       uint64
}

func New(analyzer Analyzer, store ImageStore) *Session {
	return &Session{
		analyzer: analyzer,
		store:    store,
		events:   NewBroadcaster(),
		now:      time.Now,
		logger:   logging.Component("session"),
		tone:     model.DefaultTone,
	}
}

// Subscribe returns a channel of notifications and a cancel function.
func (s *Session) Subscribe(buffer int) (<-chan model.Notification, func()) {
	return s.events.Subscribe(buffer)
}

// Upload stores data as the current image and detects its skin tone. The
// previous image, if any, is discarded. The detected tone becomes the
// current tone unless another upload happened in the meantime.
func (s *Session) Upload(ctx context.Context, data []byte) (model.SkinTone, error) {
	img, err := s.store.Save(ctx, data)
	if err != nil {
		s.notifyError("Upload failed", err)
		return "", fmt.Errorf("upload: %w", err)
	}
	info, err := analysis.Inspect(img)
	if err != nil {
		_ = s.store.Delete(ctx, img.ID)
		s.notifyError("Please upload an image file", err)
		return "", fmt.Errorf("upload: %w", err)
	}
	meta := info
	meta.Data = nil

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		_ = s.store.Delete(ctx, img.ID)
		return "", ErrSuperseded
	}
	old := s.image
	s.image = &meta
	s.analyzing = true
	s.adjusting = false
	s.gen++
	gen := s.gen
	s.mu.Unlock()

	if old != nil {
		_ = s.store.Delete(ctx, old.ID)
	}

	s.notify(model.NotifyUploaded, "Image uploaded successfully", "Analyzing your skin tone...")
	s.logger.Info().Str("image_id", img.ID).Str("format", info.Format).Msg("image uploaded")

	tone, err := s.analyzer.DetectWithProgress(ctx, img, s.progressLogger(img.ID))

	s.mu.Lock()
	if s.gen != gen {
		s.mu.Unlock()
		return "", ErrSuperseded
	}
	s.analyzing = false
	if err == nil {
		s.setToneLocked(tone)
	}
	s.mu.Unlock()

	if err != nil {
		s.notifyError("There was an error processing your image", err)
		return "", fmt.Errorf("upload: %w", err)
	}

	s.notify(model.NotifyDetected, "Analysis complete", fmt.Sprintf("Detected skin tone: %s", tone))
	return tone, nil
}

// SelectTone sets the tone by hand and refreshes the recommendations.
func (s *Session) SelectTone(tone model.SkinTone) error {
	if !tone.Valid() {
		return fmt.Errorf("select tone: %w: %q", model.ErrUnsupportedTone, tone)
	}
	s.mu.Lock()
	s.setToneLocked(tone)
	s.mu.Unlock()
	return nil
}

// Adjust recolors the current image towards target and makes target the
// current tone. Asking for the tone already selected is a no-op.
func (s *Session) Adjust(ctx context.Context, target model.SkinTone) error {
	if !target.Valid() {
		return fmt.Errorf("adjust: %w: %q", model.ErrUnsupportedTone, target)
	}

	s.mu.Lock()
	if s.image == nil {
		s.mu.Unlock()
		return ErrNoImage
	}
	if s.tone == target {
		s.mu.Unlock()
		return nil
	}
	id := s.image.ID
	gen := s.gen
	s.adjusting = true
	s.mu.Unlock()

	err := s.adjust(ctx, id, gen, target)

	s.mu.Lock()
	if s.gen == gen {
		s.adjusting = false
	}
	s.mu.Unlock()

	if err != nil {
		if !errors.Is(err, ErrSuperseded) {
			s.notifyError("Error adjusting skin tone", err)
		}
		return err
	}
	s.notify(model.NotifyAdjusted, "Skin tone adjusted", fmt.Sprintf("Adjusted to: %s", target))
	return nil
}

func (s *Session) adjust(ctx context.Context, id string, gen uint64, target model.SkinTone) error {
	img, err := s.store.Get(ctx, id)
	if err != nil {
		s.mu.Lock()
		superseded := s.gen != gen
		s.mu.Unlock()
		if superseded {
			return ErrSuperseded
		}
		return fmt.Errorf("adjust: %w", err)
	}
	out, err := s.analyzer.AdjustWithProgress(ctx, img, target, s.progressLogger(id))
	if err != nil {
		return fmt.Errorf("adjust: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gen != gen {
		return ErrSuperseded
	}
	if err := s.store.Replace(ctx, id, out.Data); err != nil {
		return fmt.Errorf("adjust: %w", err)
	}
	s.setToneLocked(target)
	return nil
}

// Image returns the bytes of the current image.
func (s *Session) Image(ctx context.Context) (model.Image, error) {
	s.mu.Lock()
	cur := s.image
	s.mu.Unlock()
	if cur == nil {
		return model.Image{}, ErrNoImage
	}
	img, err := s.store.Get(ctx, cur.ID)
	if err != nil {
		return model.Image{}, err
	}
	meta := *cur
	meta.Data = img.Data
	return meta, nil
}

func (s *Session) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := State{
		Tone:            s.tone,
		Recommendations: palette.Recommendations(s.tone),
		Analyzing:       s.analyzing,
		Adjusting:       s.adjusting,
	}
	if s.image != nil {
		img := *s.image
		st.Image = &img
	}
	return st
}

// Close releases the current image and drops all subscribers. Uploads
// still in flight are discarded with ErrSuperseded.
func (s *Session) Close(ctx context.Context) error {
	s.mu.Lock()
	cur := s.image
	s.closed = true
	s.image = nil
	s.analyzing = false
	s.adjusting = false
	s.gen++
	s.mu.Unlock()

	s.events.Close()
	if cur != nil {
		return s.store.Delete(ctx, cur.ID)
	}
	return nil
}

func (s *Session) setToneLocked(tone model.SkinTone) {
	s.tone = tone
}

func (s *Session) notify(kind model.NotificationKind, title, description string) {
	s.events.Broadcast(model.Notification{
		Kind:        kind,
		Title:       title,
		Description: description,
		Time:        s.now().UTC(),
	})
}

func (s *Session) notifyError(title string, err error) {
	s.logger.Warn().Err(err).Msg(title)
	s.notify(model.NotifyError, title, err.Error())
}

func (s *Session) progressLogger(imageID string) analysis.ProgressFunc {
	return func(stage, message string) {
		s.logger.Debug().Str("image_id", imageID).Str("stage", stage).Msg(message)
	}
}
