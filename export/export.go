// Package export writes recommendations and presets in the formats the
// command line offers: JSON, CSV, CSS custom properties and terminal
// swatches.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/jszwec/csvutil"

	"colorharmony/model"
	"colorharmony/palette"
)

type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
	FormatCSS  Format = "css"
)

func Formats() []Format {
	return []Format{FormatText, FormatJSON, FormatCSV, FormatCSS}
}

func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Formats() {
		if f == known {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown format %q", s)
}

// Recommendation is the exported view of one tone's palette.
type Recommendation struct {
	Tone        model.SkinTone        `json:"tone"`
	Description string                `json:"description"`
	Swatch      string                `json:"swatch"`
	Slider      int                   `json:"slider"`
	Categories  []model.ColorCategory `json:"categories"`
}

// NewRecommendation assembles the palette for tone; unknown tones get the
// medium palette, matching palette.Recommendations.
func NewRecommendation(tone model.SkinTone) Recommendation {
	if !tone.Valid() {
		tone = model.DefaultTone
	}
	swatch, _ := palette.PresetColor(tone)
	return Recommendation{
		Tone:        tone,
		Description: palette.Describe(tone),
		Swatch:      swatch,
		Slider:      palette.ToneToSlider(tone),
		Categories:  palette.Recommendations(tone),
	}
}

// Write renders recs to w in format f.
func Write(w io.Writer, f Format, recs ...Recommendation) error {
	switch f {
	case FormatJSON:
		return WriteJSON(w, recs)
	case FormatCSV:
		return WriteCSV(w, recs)
	case FormatCSS:
		return WriteCSS(w, recs)
	case FormatText, "":
		return RenderSwatches(w, recs)
	default:
		return fmt.Errorf("unknown format %q", f)
	}
}

// WriteJSON writes a single object for one recommendation, an array
// otherwise.
func WriteJSON(w io.Writer, recs []Recommendation) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if len(recs) == 1 {
		return enc.Encode(recs[0])
	}
	return enc.Encode(recs)
}

type csvRow struct {
	Tone     model.SkinTone `csv:"tone"`
	Category string         `csv:"category"`
	Position int            `csv:"position"`
	Name     string         `csv:"name"`
	Hex      string         `csv:"hex"`
}

// WriteCSV writes one row per color with a header line.
func WriteCSV(w io.Writer, recs []Recommendation) error {
	var rows []csvRow
	for _, rec := range recs {
		for _, cat := range rec.Categories {
			for i, c := range cat.Colors {
				rows = append(rows, csvRow{
					Tone:     rec.Tone,
					Category: cat.Name,
					Position: i + 1,
					Name:     c.Name,
					Hex:      c.Hex,
				})
			}
		}
	}

	cw := csv.NewWriter(w)
	enc := csvutil.NewEncoder(cw)
	var err error
	if len(rows) == 0 {
		err = enc.EncodeHeader(csvRow{})
	} else {
		err = enc.Encode(rows)
	}
	if err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	cw.Flush()
	return cw.Error()
}

type presetRow struct {
	Tone        model.SkinTone `csv:"tone"`
	Color       string         `csv:"color"`
	Slider      int            `csv:"slider"`
	Description string         `csv:"description"`
}

// WritePresetsCSV writes the swatch table.
func WritePresetsCSV(w io.Writer, presets []model.SkinTonePreset) error {
	rows := make([]presetRow, 0, len(presets))
	for _, p := range presets {
		rows = append(rows, presetRow{
			Tone:        p.Name,
			Color:       p.Color,
			Slider:      palette.ToneToSlider(p.Name),
			Description: palette.Describe(p.Name),
		})
	}
	b, err := csvutil.Marshal(rows)
	if err != nil {
		return fmt.Errorf("marshal presets: %w", err)
	}
	_, err = w.Write(b)
	return err
}
