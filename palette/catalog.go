// Package palette holds the curated clothing and makeup colors for each skin
// tone, the swatch presets, and the slider mapping used when adjusting a tone.
//
// All tables are built at package init and never change afterwards; the
// exported accessors hand out copies.
package palette

import (
	"fmt"

	"colorharmony/model"
)

const (
	ClothingCategory = "Clothing Colors"
	MakeupCategory   = "Makeup Colors"
)

// catalog maps each tone to exactly two categories, clothing first.
var catalog = map[model.SkinTone][]model.ColorCategory{
	model.ToneLight: {
		{
			Name:        ClothingCategory,
			Description: "Colors that complement light skin tones",
			Colors: []model.ColorEntry{
				{Name: "Navy Blue", Hex: "#000080"},
				{Name: "Emerald Green", Hex: "#50C878"},
				{Name: "Lavender", Hex: "#E6E6FA"},
				{Name: "Soft Pink", Hex: "#FFB6C1"},
				{Name: "Burgundy", Hex: "#800020"},
			},
		},
		{
			Name:        MakeupCategory,
			Description: "Makeup shades for light skin",
			Colors: []model.ColorEntry{
				{Name: "Peach Blush", Hex: "#FFCBA4"},
				{Name: "Soft Rose", Hex: "#E8ADAA"},
				{Name: "Taupe Eyeshadow", Hex: "#483C32"},
				{Name: "Berry Lip", Hex: "#8E4585"},
				{Name: "Champagne Highlight", Hex: "#F7E7CE"},
			},
		},
	},
	model.ToneMedium: {
		{
			Name:        ClothingCategory,
			Description: "Colors that complement medium skin tones",
			Colors: []model.ColorEntry{
				{Name: "Coral", Hex: "#FF7F50"},
				{Name: "Olive Green", Hex: "#808000"},
				{Name: "Teal", Hex: "#008080"},
				{Name: "Peach", Hex: "#FFE5B4"},
				{Name: "Royal Blue", Hex: "#4169E1"},
			},
		},
		{
			Name:        MakeupCategory,
			Description: "Makeup shades for medium skin",
			Colors: []model.ColorEntry{
				{Name: "Coral Blush", Hex: "#FF7F50"},
				{Name: "Bronze", Hex: "#CD7F32"},
				{Name: "Copper Eyeshadow", Hex: "#B87333"},
				{Name: "Terracotta Lip", Hex: "#E2725B"},
				{Name: "Gold Highlight", Hex: "#FFD700"},
			},
		},
	},
	model.ToneTan: {
		{
			Name:        ClothingCategory,
			Description: "Colors that complement tan skin tones",
			Colors: []model.ColorEntry{
				{Name: "Turquoise", Hex: "#40E0D0"},
				{Name: "Bright Red", Hex: "#FF0000"},
				{Name: "Cobalt Blue", Hex: "#0047AB"},
				{Name: "Mustard Yellow", Hex: "#FFDB58"},
				{Name: "Emerald", Hex: "#50C878"},
			},
		},
		{
			Name:        MakeupCategory,
			Description: "Makeup shades for tan skin",
			Colors: []model.ColorEntry{
				{Name: "Apricot Blush", Hex: "#FBCEB1"},
				{Name: "Bronze", Hex: "#CD7F32"},
				{Name: "Gold Eyeshadow", Hex: "#FFD700"},
				{Name: "Coral Lip", Hex: "#FF7F50"},
				{Name: "Copper Highlight", Hex: "#B87333"},
			},
		},
	},
	model.ToneOlive: {
		{
			Name:        ClothingCategory,
			Description: "Colors that complement olive skin tones",
			Colors: []model.ColorEntry{
				{Name: "Purple", Hex: "#800080"},
				{Name: "Forest Green", Hex: "#228B22"},
				{Name: "Burnt Orange", Hex: "#CC5500"},
				{Name: "Cranberry", Hex: "#9F000F"},
				{Name: "Teal", Hex: "#008080"},
			},
		},
		{
			Name:        MakeupCategory,
			Description: "Makeup shades for olive skin",
			Colors: []model.ColorEntry{
				{Name: "Terracotta Blush", Hex: "#E2725B"},
				{Name: "Bronze", Hex: "#CD7F32"},
				{Name: "Plum Eyeshadow", Hex: "#8E4585"},
				{Name: "Brick Red Lip", Hex: "#CB4154"},
				{Name: "Gold Highlight", Hex: "#FFD700"},
			},
		},
	},
	model.ToneBrown: {
		{
			Name:        ClothingCategory,
			Description: "Colors that complement brown skin tones",
			Colors: []model.ColorEntry{
				{Name: "Bright Yellow", Hex: "#FFFF00"},
				{Name: "Fuchsia", Hex: "#FF00FF"},
				{Name: "Royal Blue", Hex: "#4169E1"},
				{Name: "Emerald Green", Hex: "#50C878"},
				{Name: "Orange", Hex: "#FFA500"},
			},
		},
		{
			Name:        MakeupCategory,
			Description: "Makeup shades for brown skin",
			Colors: []model.ColorEntry{
				{Name: "Brick Blush", Hex: "#CB4154"},
				{Name: "Bronze", Hex: "#CD7F32"},
				{Name: "Purple Eyeshadow", Hex: "#800080"},
				{Name: "Berry Lip", Hex: "#8E4585"},
				{Name: "Gold Highlight", Hex: "#FFD700"},
			},
		},
	},
	model.ToneDark: {
		{
			Name:        ClothingCategory,
			Description: "Colors that complement dark skin tones",
			Colors: []model.ColorEntry{
				{Name: "Bright White", Hex: "#FFFFFF"},
				{Name: "Hot Pink", Hex: "#FF69B4"},
				{Name: "Electric Blue", Hex: "#7DF9FF"},
				{Name: "Bright Orange", Hex: "#FF4500"},
				{Name: "Lime Green", Hex: "#32CD32"},
			},
		},
		{
			Name:        MakeupCategory,
			Description: "Makeup shades for dark skin",
			Colors: []model.ColorEntry{
				{Name: "Raisin Blush", Hex: "#926F5B"},
				{Name: "Bronze", Hex: "#CD7F32"},
				{Name: "Cobalt Eyeshadow", Hex: "#0047AB"},
				{Name: "Plum Lip", Hex: "#8E4585"},
				{Name: "Gold Highlight", Hex: "#FFD700"},
			},
		},
	},
}

func init() {
	if err := checkCatalog(); err != nil {
		panic(fmt.Sprintf("palette: %v", err))
	}
	if err := checkPresets(); err != nil {
		panic(fmt.Sprintf("palette: %v", err))
	}
}

// checkCatalog enforces that every tone is covered with a clothing and a
// makeup category and that every hex code is well formed.
func checkCatalog() error {
	for _, tone := range model.AllSkinTones() {
		cats, ok := catalog[tone]
		if !ok {
			return fmt.Errorf("catalog missing tone %s", tone)
		}
		if len(cats) != 2 || cats[0].Name != ClothingCategory || cats[1].Name != MakeupCategory {
			return fmt.Errorf("catalog entry for %s must be [%s, %s]", tone, ClothingCategory, MakeupCategory)
		}
		for _, cat := range cats {
			if len(cat.Colors) == 0 {
				return fmt.Errorf("%s/%s has no colors", tone, cat.Name)
			}
			for _, c := range cat.Colors {
				if _, err := ParseHex(c.Hex); err != nil {
					return fmt.Errorf("%s/%s/%s: %w", tone, cat.Name, c.Name, err)
				}
			}
		}
	}
	if len(catalog) != len(model.AllSkinTones()) {
		return fmt.Errorf("catalog has %d tones, want %d", len(catalog), len(model.AllSkinTones()))
	}
	return nil
}
