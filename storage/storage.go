package storage

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"colorharmony/logging"
	"colorharmony/metrics"
	"colorharmony/model"
)

var (
	ErrNotFound   = errors.New("image not found")
	ErrEmptyImage = errors.New("empty image data")
	ErrTooLarge   = errors.New("image exceeds size limit")
)

type entry struct {
	data    []byte
	created time.Time
	expires time.Time // zero means no expiry
}

// Store keeps uploaded images in memory, keyed by a generated id, until
// they expire or are deleted. Nothing is written to disk.
type Store struct {
	mu       sync.Mutex
	entries  map[string]*entry
	ttl      time.Duration
	maxBytes int
	now      func() time.Time

	reg    *metrics.Registry
	logger zerolog.Logger
}

type Options struct {
	// TTL applied to every saved image; zero keeps images until deleted.
	TTL time.Duration
	// MaxBytes rejects larger images; zero disables the limit.
	MaxBytes int
	Metrics  *metrics.Registry
}

// New creates an empty Store.
func New(opts Options) *Store {
	return &Store{
		entries:  make(map[string]*entry),
		ttl:      opts.TTL,
		maxBytes: opts.MaxBytes,
		now:      time.Now,
		reg:      opts.Metrics,
		logger:   logging.Component("storage"),
	}
}

// Save copies data into the store and returns a handle to it.
func (s *Store) Save(ctx context.Context, data []byte) (model.Image, error) {
	if len(data) == 0 {
		return model.Image{}, ErrEmptyImage
	}
	if s.maxBytes > 0 && len(data) > s.maxBytes {
		return model.Image{}, fmt.Errorf("%w: %d > %d bytes", ErrTooLarge, len(data), s.maxBytes)
	}

	id := uuid.NewString()
	buf := make([]byte, len(data))
	copy(buf, data)

	now := s.now()
	e := &entry{data: buf, created: now}
	if s.ttl > 0 {
		e.expires = now.Add(s.ttl)
	}

	s.mu.Lock()
	s.entries[id] = e
	s.mu.Unlock()

	s.logger.Debug().Str("image_id", id).Int("bytes", len(buf)).Msg("image saved")
	s.reg.Inc(ctx, "images_saved_total", nil, 1)
	s.reg.Inc(ctx, "images_bytes_stored_total", nil, int64(len(buf)))

	return model.Image{ID: id, Data: copyBytes(buf)}, nil
}

// Get returns a copy of the image stored under id.
func (s *Store) Get(ctx context.Context, id string) (model.Image, error) {
	s.mu.Lock()
	e, ok := s.entries[id]
	if ok && s.expired(e, s.now()) {
		delete(s.entries, id)
		ok = false
	}
	var data []byte
	if ok {
		data = copyBytes(e.data)
	}
	s.mu.Unlock()

	if !ok {
		return model.Image{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return model.Image{ID: id, Data: data}, nil
}

// Replace swaps the bytes stored under id, keeping its expiry.
func (s *Store) Replace(ctx context.Context, id string, data []byte) error {
	if len(data) == 0 {
		return ErrEmptyImage
	}
	if s.maxBytes > 0 && len(data) > s.maxBytes {
		return fmt.Errorf("%w: %d > %d bytes", ErrTooLarge, len(data), s.maxBytes)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[id]
	if !ok || s.expired(e, s.now()) {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	e.data = copyBytes(data)
	return nil
}

// Delete removes id. Deleting an unknown id is not an error.
func (s *Store) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	e, ok := s.entries[id]
	if ok {
		delete(s.entries, id)
	}
	s.mu.Unlock()

	if ok {
		s.logger.Debug().Str("image_id", id).Int("bytes", len(e.data)).Msg("image deleted")
		s.reg.Inc(ctx, "images_deleted_total", nil, 1)
	}
	return nil
}

// IDs returns the ids of live images, oldest first.
func (s *Store) IDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	type item struct {
		id      string
		created time.Time
	}
	items := make([]item, 0, len(s.entries))
	for id, e := range s.entries {
		if s.expired(e, now) {
			continue
		}
		items = append(items, item{id, e.created})
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].created.Equal(items[j].created) {
			return items[i].id < items[j].id
		}
		return items[i].created.Before(items[j].created)
	})
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.id
	}
	return out
}

func (s *Store) Len() int {
	return len(s.IDs())
}

// Sweep removes every expired image and returns how many were evicted.
func (s *Store) Sweep(ctx context.Context) int {
	s.mu.Lock()
	now := s.now()
	evicted := 0
	for id, e := range s.entries {
		if s.expired(e, now) {
			delete(s.entries, id)
			evicted++
		}
	}
	s.mu.Unlock()

	if evicted > 0 {
		s.logger.Debug().Int("evicted", evicted).Msg("expired images swept")
		s.reg.Inc(ctx, "images_evicted_total", nil, int64(evicted))
	}
	return evicted
}

// StartSweeper evicts expired images every interval until ctx is done.
func (s *Store) StartSweeper(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	go func() {
		s.logger.Debug().Dur("interval", interval).Msg("sweeper started")
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				s.logger.Debug().Msg("sweeper stopped")
				return
			case <-ticker.C:
				s.Sweep(ctx)
			}
		}
	}()
}

func (s *Store) expired(e *entry, now time.Time) bool {
	return !e.expires.IsZero() && !now.Before(e.expires)
}

func copyBytes(b []byte) []byte {
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
