package palette

import (
	"fmt"

	"colorharmony/model"
)

var presets = []model.SkinTonePreset{
	{Name: model.ToneLight, Color: "#FFE4C4"},
	{Name: model.ToneMedium, Color: "#D2B48C"},
	{Name: model.ToneTan, Color: "#C19A6B"},
	{Name: model.ToneOlive, Color: "#8B7355"},
	{Name: model.ToneBrown, Color: "#6B4423"},
	{Name: model.ToneDark, Color: "#3B2F2F"},
}

var descriptions = map[model.SkinTone]string{
	model.ToneLight:  "Fair skin with cool or warm undertones",
	model.ToneMedium: "Medium skin with neutral undertones",
	model.ToneTan:    "Golden or tanned skin with warm undertones",
	model.ToneOlive:  "Medium skin with greenish or olive undertones",
	model.ToneBrown:  "Deep skin with warm undertones",
	model.ToneDark:   "Deep skin with cool or neutral undertones",
}

// Presets returns the swatch color for every tone, lightest first.
func Presets() []model.SkinTonePreset {
	return append([]model.SkinTonePreset(nil), presets...)
}

func PresetColor(tone model.SkinTone) (string, bool) {
	for _, p := range presets {
		if p.Name == tone {
			return p.Color, true
		}
	}
	return "", false
}

// Describe returns a short description of the undertones for tone, or an
// empty string for unknown tones.
func Describe(tone model.SkinTone) string {
	return descriptions[tone]
}

func checkPresets() error {
	tones := model.AllSkinTones()
	if len(presets) != len(tones) {
		return fmt.Errorf("presets has %d entries, want %d", len(presets), len(tones))
	}
	for i, p := range presets {
		if p.Name != tones[i] {
			return fmt.Errorf("preset %d is %s, want %s", i, p.Name, tones[i])
		}
		if _, err := ParseHex(p.Color); err != nil {
			return fmt.Errorf("preset %s: %w", p.Name, err)
		}
		if descriptions[p.Name] == "" {
			return fmt.Errorf("missing description for %s", p.Name)
		}
	}
	return nil
}
