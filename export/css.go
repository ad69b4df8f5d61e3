package export

import (
	"fmt"
	"io"
	"strings"
)

// WriteCSS emits one rule per tone, scoped by a data-tone attribute, with a
// custom property per color:
//
//	[data-tone="olive"] {
//	  --skin-tone: #8B7355;
//	  --clothing-colors-1: #800080; /* Purple */
//	}
func WriteCSS(w io.Writer, recs []Recommendation) error {
	var b strings.Builder
	for i, rec := range recs {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString("/*\n  Tone: ")
		b.WriteString(string(rec.Tone))
		if rec.Description != "" {
			b.WriteString("\n  Display: ")
			b.WriteString(rec.Description)
		}
		b.WriteString("\n*/\n")

		b.WriteString(`[data-tone="`)
		b.WriteString(string(rec.Tone))
		b.WriteString("\"] {\n")
		if rec.Swatch != "" {
			fmt.Fprintf(&b, "  --skin-tone: %s;\n", rec.Swatch)
		}
		for _, cat := range rec.Categories {
			prefix := slug(cat.Name)
			for j, c := range cat.Colors {
				fmt.Fprintf(&b, "  --%s-%d: %s; /* %s */\n", prefix, j+1, c.Hex, c.Name)
			}
		}
		b.WriteString("}\n")
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// slug lower-cases s and joins its words with dashes.
func slug(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), "-")
}
