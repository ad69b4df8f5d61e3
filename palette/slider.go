package palette

import "colorharmony/model"

const (
	SliderMin = 0
	SliderMax = 100
)

var sliderPositions = map[model.SkinTone]int{
	model.ToneLight:  0,
	model.ToneMedium: 20,
	model.ToneTan:    40,
	model.ToneOlive:  60,
	model.ToneBrown:  80,
	model.ToneDark:   100,
}

// ToneToSlider returns the slider position for tone. Unknown tones map to
// the medium position.
func ToneToSlider(tone model.SkinTone) int {
	if v, ok := sliderPositions[tone]; ok {
		return v
	}
	return sliderPositions[model.DefaultTone]
}

// SliderToTone buckets a slider value back into a tone. Values outside
// [0,100] clamp to the nearest end.
func SliderToTone(v int) model.SkinTone {
	switch {
	case v <= 10:
		return model.ToneLight
	case v <= 30:
		return model.ToneMedium
	case v <= 50:
		return model.ToneTan
	case v <= 70:
		return model.ToneOlive
	case v <= 90:
		return model.ToneBrown
	default:
		return model.ToneDark
	}
}
