package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"colorharmony/model"
	"colorharmony/palette"
)

const swatchWidth = 6

// RenderSwatches prints each category as a list of colored blocks followed
// by the color name and hex code. Colors are dropped automatically when w
// is not a terminal.
func RenderSwatches(w io.Writer, recs []Recommendation) error {
	r := lipgloss.NewRenderer(w)
	title := r.NewStyle().Bold(true)
	muted := r.NewStyle().Faint(true)

	var b strings.Builder
	for i, rec := range recs {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(title.Render(fmt.Sprintf("Recommended Color Palettes: %s", rec.Tone)))
		b.WriteString("\n")
		if rec.Description != "" {
			b.WriteString(muted.Render(rec.Description))
			b.WriteString("\n")
		}
		for _, cat := range rec.Categories {
			b.WriteString("\n")
			b.WriteString(title.Render(cat.Name))
			b.WriteString("\n")
			b.WriteString(muted.Render(cat.Description))
			b.WriteString("\n")
			for _, c := range cat.Colors {
				b.WriteString(swatchLine(r, c))
				b.WriteString("\n")
			}
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// RenderPresets prints the six skin tone swatches, marking selected.
func RenderPresets(w io.Writer, presets []model.SkinTonePreset, selected model.SkinTone) error {
	r := lipgloss.NewRenderer(w)
	active := r.NewStyle().Bold(true)

	var b strings.Builder
	for _, p := range presets {
		marker := "  "
		name := fmt.Sprintf("%-7s", p.Name)
		if p.Name == selected {
			marker = "> "
			name = active.Render(name)
		}
		b.WriteString(marker)
		b.WriteString(block(r, p.Color))
		fmt.Fprintf(&b, " %s %s  %s\n", name, p.Color, palette.Describe(p.Name))
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func swatchLine(r *lipgloss.Renderer, c model.ColorEntry) string {
	return fmt.Sprintf("  %s %-20s %s", block(r, c.Hex), c.Name, c.Hex)
}

func block(r *lipgloss.Renderer, hex string) string {
	return r.NewStyle().
		Background(lipgloss.Color(hex)).
		Width(swatchWidth).
		Render("")
}
