package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"colorharmony/export"
	"colorharmony/model"
	"colorharmony/palette"
)

var (
	outputFormat string
	allTones     bool
	selectedTone string
	targetTone   string
	outputPath   string
	sliderTone   string
	sliderValue  string
)

var recommendCmd = &cobra.Command{
	Use:   "recommend [tone]",
	Short: "Show the color palette for a skin tone",
	Long: "Show clothing and makeup colors for a skin tone (light, medium, tan, olive, brown, dark). " +
		"Unknown or missing tones fall back to medium.",
	Args: cobra.MaximumNArgs(1),
	RunE: runRecommend,
}

var presetsCmd = &cobra.Command{
	Use:   "presets",
	Short: "List the skin tone swatches",
	Args:  cobra.NoArgs,
	RunE:  runPresets,
}

var detectCmd = &cobra.Command{
	Use:   "detect <image>",
	Short: "Detect the skin tone in a photo and show its palette",
	Args:  cobra.ExactArgs(1),
	RunE:  runDetect,
}

var adjustCmd = &cobra.Command{
	Use:   "adjust <image>",
	Short: "Adjust the skin tone of a photo",
	Long:  "Detect the skin tone of a photo, adjust it towards --tone and write the result to --out.",
	Args:  cobra.ExactArgs(1),
	RunE:  runAdjust,
}

var sliderCmd = &cobra.Command{
	Use:   "slider [value]",
	Short: "Map a 0-100 slider position to a skin tone, or a tone to its position",
	Long: "Map a 0-100 slider position to a skin tone, or a tone to its position. " +
		"Positions outside the range are clamped. Pass negative positions with --value or after --.",
	Example: "  colorharmony slider 35\n  colorharmony slider --value -5\n  colorharmony slider -- -5\n  colorharmony slider --tone olive",
	Args:    cobra.MaximumNArgs(1),
	RunE:  runSlider,
}

func init() {
	formats := make([]string, 0, len(export.Formats()))
	for _, f := range export.Formats() {
		formats = append(formats, string(f))
	}
	formatHelp := "Output format (" + strings.Join(formats, ", ") + ")"

	recommendCmd.Flags().StringVarP(&outputFormat, "format", "f", "text", formatHelp)
	recommendCmd.Flags().BoolVar(&allTones, "all", false, "Show every skin tone")

	presetsCmd.Flags().StringVarP(&outputFormat, "format", "f", "text", "Output format (text, json, csv)")
	presetsCmd.Flags().StringVar(&selectedTone, "selected", string(model.DefaultTone), "Tone to highlight")

	detectCmd.Flags().StringVarP(&outputFormat, "format", "f", "text", formatHelp)

	adjustCmd.Flags().StringVarP(&targetTone, "tone", "t", "", "Target skin tone")
	adjustCmd.Flags().StringVarP(&outputPath, "out", "o", "", "Output file (default <image>_<tone><ext>)")
	_ = adjustCmd.MarkFlagRequired("tone")

	sliderCmd.Flags().StringVar(&sliderTone, "tone", "", "Print the slider position of this tone instead")
	sliderCmd.Flags().StringVar(&sliderValue, "value", "", "Slider position, may be negative")
}

func runRecommend(cmd *cobra.Command, args []string) error {
	format, err := export.ParseFormat(outputFormat)
	if err != nil {
		return err
	}

	var recs []export.Recommendation
	switch {
	case allTones:
		for _, tone := range model.AllSkinTones() {
			recs = append(recs, export.NewRecommendation(tone))
		}
	case len(args) == 1:
		tone, err := model.ParseSkinTone(args[0])
		if err != nil {
			log.Warn().Str("tone", args[0]).Msg("unknown skin tone, using medium")
			tone = model.DefaultTone
		}
		recs = append(recs, export.NewRecommendation(tone))
	default:
		recs = append(recs, export.NewRecommendation(model.DefaultTone))
	}

	return export.Write(cmd.OutOrStdout(), format, recs...)
}

func runPresets(cmd *cobra.Command, args []string) error {
	presets := palette.Presets()
	out := cmd.OutOrStdout()

	switch strings.ToLower(outputFormat) {
	case "text", "":
		selected, err := model.ParseSkinTone(selectedTone)
		if err != nil {
			return err
		}
		return export.RenderPresets(out, presets, selected)
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(presets)
	case "csv":
		return export.WritePresetsCSV(out, presets)
	default:
		return fmt.Errorf("unknown format %q", outputFormat)
	}
}

func runDetect(cmd *cobra.Command, args []string) error {
	format, err := export.ParseFormat(outputFormat)
	if err != nil {
		return err
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read image: %w", err)
	}

	ctx, cancel := signalContext()
	defer cancel()
	a := newApp(ctx, cfg)
	wait := a.logEvents(log.Logger)
	defer func() {
		a.close(ctx)
		wait()
	}()

	tone, err := a.session.Upload(ctx, data)
	if err != nil {
		return err
	}

	return export.Write(cmd.OutOrStdout(), format, export.NewRecommendation(tone))
}

func runAdjust(cmd *cobra.Command, args []string) error {
	target, err := model.ParseSkinTone(targetTone)
	if err != nil {
		return err
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read image: %w", err)
	}

	ctx, cancel := signalContext()
	defer cancel()
	a := newApp(ctx, cfg)
	wait := a.logEvents(log.Logger)
	defer func() {
		a.close(ctx)
		wait()
	}()

	if _, err := a.session.Upload(ctx, data); err != nil {
		return err
	}
	if err := a.session.Adjust(ctx, target); err != nil {
		return err
	}

	img, err := a.session.Image(ctx)
	if err != nil {
		return err
	}

	dst := outputPath
	if dst == "" {
		dst = adjustedName(args[0], target)
	}
	if err := os.WriteFile(dst, img.Data, 0o644); err != nil {
		return fmt.Errorf("write image: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Adjusted to %s: %s\n", target, dst)
	return nil
}

func runSlider(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	if sliderTone != "" {
		tone, err := model.ParseSkinTone(sliderTone)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, palette.ToneToSlider(tone))
		return nil
	}
	raw := sliderValue
	if len(args) == 1 {
		if raw != "" {
			return fmt.Errorf("slider value given twice")
		}
		raw = args[0]
	}
	if raw == "" {
		return fmt.Errorf("slider value or --tone required")
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fmt.Errorf("invalid slider value %q: %w", raw, err)
	}
	fmt.Fprintln(out, palette.SliderToTone(v))
	return nil
}

func logNotifications(logger zerolog.Logger, events <-chan model.Notification) {
	for n := range events {
		ev := logger.Info()
		if n.Kind == model.NotifyError {
			ev = logger.Error()
		}
		ev.Str("kind", string(n.Kind)).Msgf("%s: %s", n.Title, n.Description)
	}
}

// adjustedName turns photo.jpg into photo_dark.jpg.
func adjustedName(path string, tone model.SkinTone) string {
	ext := filepath.Ext(path)
	return path[:len(path)-len(ext)] + "_" + string(tone) + ext
}
