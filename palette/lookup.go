package palette

import (
	"errors"
	"fmt"
	"strings"

	"github.com/lucasb-eyer/go-colorful"

	"colorharmony/model"
)

var ErrInvalidHex = errors.New("invalid hex color")

// Recommendations returns the clothing and makeup categories for tone.
// Unknown tones fall back to medium; the call never fails.
func Recommendations(tone model.SkinTone) []model.ColorCategory {
	cats, ok := catalog[tone]
	if !ok {
		cats = catalog[model.DefaultTone]
	}
	return cloneCategories(cats)
}

// RecommendationsFor is Recommendations for callers holding a raw string,
// e.g. a flag or query value. Case and surrounding spaces are ignored.
func RecommendationsFor(s string) []model.ColorCategory {
	tone, err := model.ParseSkinTone(s)
	if err != nil {
		tone = model.DefaultTone
	}
	return Recommendations(tone)
}

// Category returns a single category by name for tone, with the same
// fallback as Recommendations.
func Category(tone model.SkinTone, name string) (model.ColorCategory, bool) {
	for _, cat := range Recommendations(tone) {
		if cat.Name == name {
			return cat, true
		}
	}
	return model.ColorCategory{}, false
}

// ParseHex validates a #RRGGBB code and returns it upper-cased.
func ParseHex(hex string) (string, error) {
	if len(hex) != 7 || hex[0] != '#' {
		return "", fmt.Errorf("%w: %q", ErrInvalidHex, hex)
	}
	c, err := colorful.Hex(hex)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidHex, hex)
	}
	return strings.ToUpper(c.Hex()), nil
}

func cloneCategories(in []model.ColorCategory) []model.ColorCategory {
	out := make([]model.ColorCategory, len(in))
	for i, cat := range in {
		out[i] = model.ColorCategory{
			Name:        cat.Name,
			Description: cat.Description,
			Colors:      append([]model.ColorEntry(nil), cat.Colors...),
		}
	}
	return out
}
