package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrUnsupportedTone is returned when a value outside the six known skin tones
// reaches a boundary that validates strictly.
var ErrUnsupportedTone = errors.New("unsupported skin tone")

type SkinTone string

const (
	ToneLight  SkinTone = "light"
	ToneMedium SkinTone = "medium"
	ToneTan    SkinTone = "tan"
	ToneOlive  SkinTone = "olive"
	ToneBrown  SkinTone = "brown"
	ToneDark   SkinTone = "dark"
)

// DefaultTone is used whenever a tone is missing or unknown.
const DefaultTone = ToneMedium

var allTones = [...]SkinTone{ToneLight, ToneMedium, ToneTan, ToneOlive, ToneBrown, ToneDark}

// AllSkinTones returns the six tones from lightest to darkest.
func AllSkinTones() []SkinTone {
	out := make([]SkinTone, len(allTones))
	copy(out, allTones[:])
	return out
}

func (t SkinTone) Valid() bool {
	for _, v := range allTones {
		if v == t {
			return true
		}
	}
	return false
}

func (t SkinTone) String() string {
	return string(t)
}

// ParseSkinTone accepts a tone name in any case, surrounded by optional spaces.
func ParseSkinTone(s string) (SkinTone, error) {
	t := SkinTone(strings.ToLower(strings.TrimSpace(s)))
	if !t.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedTone, s)
	}
	return t, nil
}

type ColorEntry struct {
	Name string `json:"name"`
	Hex  string `json:"hex"`
}

type ColorCategory struct {
	Name        string       `json:"name"`
	Description string       `json:"description"`
	Colors      []ColorEntry `json:"colors"`
}

type SkinTonePreset struct {
	Name  SkinTone `json:"name"`
	Color string   `json:"color"`
}

// Image is the handle passed between detection, adjustment and the session.
// Data holds the encoded bytes as uploaded; Format, Width and Height are
// filled in once the header has been decoded.
type Image struct {
	ID     string `json:"id"`
	Data   []byte `json:"-"`
	Format string `json:"format,omitempty"`
	Width  int    `json:"width,omitempty"`
	Height int    `json:"height,omitempty"`
}

type NotificationKind string

const (
	NotifyUploaded NotificationKind = "uploaded"
	NotifyDetected NotificationKind = "detected"
	NotifyAdjusted NotificationKind = "adjusted"
	NotifyError    NotificationKind = "error"
)

type Notification struct {
	Kind        NotificationKind `json:"kind"`
	Title       string           `json:"title"`
	Description string           `json:"description"`
	Time        time.Time        `json:"time"`
}
