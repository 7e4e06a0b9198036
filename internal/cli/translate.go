package cli

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/mgpai22/tilawa/internal/subtitle"
	"github.com/mgpai22/tilawa/internal/translate"
	"github.com/spf13/cobra"
)

var translateCmd = &cobra.Command{
	Use:   "translate [subtitle_file]",
	Short: "Translate subtitles to another language using AI",
	Long: `Translate a recitation subtitle file to another language using AI.

Segment ids, timings and verse numbers are kept; only the text changes.
The output format follows the output file extension (.srt, .vtt, .ass).

The --overlay flag creates bilingual subtitles with the translated text
first, followed by the original text on the next line.

Examples:
  tilawa translate fatiha.srt --target-language english
  tilawa translate fatiha.srt -t en --overlay -o fatiha.en.ass
  tilawa translate fatiha.srt -l arabic -t french --provider anthropic`,
	Args: cobra.ExactArgs(1),
	RunE: runTranslate,
}

func init() {
	rootCmd.AddCommand(translateCmd)

	translateCmd.Flags().
		StringP("target-language", "t", "", "Target language for translation (required)")
	translateCmd.Flags().
		Bool("overlay", false, "Overlay translated text with original (bilingual subtitles)")
	translateCmd.Flags().
		StringP("api-key", "k", "", "API key (or set GEMINI_API_KEY/OPENAI_API_KEY/ANTHROPIC_API_KEY)")
	translateCmd.Flags().
		String("model", "", "Model to use for translation (provider-specific, uses sensible defaults)")
	translateCmd.Flags().
		Bool("model-override", false, "Allow any custom model, bypassing provider model validation")
	translateCmd.Flags().
		String("provider", "", "Translation provider (gemini, openai, anthropic); defaults to TILAWA_PROVIDER")
	translateCmd.Flags().
		Int("concurrency", 0, "Number of parallel translation workers (default TILAWA_CONCURRENCY)")
	translateCmd.Flags().
		Int("batch-size", 0, "Number of segments per API request (default TILAWA_BATCH_SIZE)")

	_ = translateCmd.MarkFlagRequired("target-language")
}

func runTranslate(cmd *cobra.Command, args []string) error {
	subtitlePath := args[0]
	ctx := context.Background()

	targetLang, _ := cmd.Flags().GetString("target-language")
	overlay, _ := cmd.Flags().GetBool("overlay")
	apiKey, _ := cmd.Flags().GetString("api-key")
	model, _ := cmd.Flags().GetString("model")
	modelOverride, _ := cmd.Flags().GetBool("model-override")
	providerStr, _ := cmd.Flags().GetString("provider")
	concurrency, _ := cmd.Flags().GetInt("concurrency")
	batchSize, _ := cmd.Flags().GetInt("batch-size")
	outputPath, _ := cmd.Flags().GetString("output")
	inputLang, _ := cmd.Flags().GetString("language")

	if targetLang == "" {
		return fmt.Errorf("target language is required")
	}

	if inputLang != "" &&
		strings.EqualFold(
			strings.TrimSpace(inputLang),
			strings.TrimSpace(targetLang),
		) {
		return fmt.Errorf(
			"input language %q and target language %q cannot be the same",
			inputLang,
			targetLang,
		)
	}

	if providerStr == "" {
		providerStr = cfg.Provider
	}
	provider := translate.Provider(providerStr)

	if apiKey == "" {
		apiKey = cfg.APIKey(providerStr)
	}
	if apiKey == "" {
		return fmt.Errorf(
			"API key is required: use --api-key flag or set %s environment variable",
			translate.APIKeyEnv(provider),
		)
	}

	if model == "" {
		model = cfg.Model
	}
	if model != "" && !modelOverride {
		if err := validateModel(provider, model); err != nil {
			return err
		}
	}

	if concurrency == 0 {
		concurrency = cfg.Concurrency
	}
	if batchSize == 0 {
		batchSize = cfg.BatchSize
	}
	if concurrency <= 0 {
		return fmt.Errorf("concurrency must be positive, got %d", concurrency)
	}
	if batchSize <= 0 {
		return fmt.Errorf("batch-size must be positive, got %d", batchSize)
	}

	if outputPath == "" {
		ext := filepath.Ext(subtitlePath)
		if overlay {
			outputPath = derivedPath(subtitlePath, targetLang+".overlay", ext)
		} else {
			outputPath = derivedPath(subtitlePath, targetLang, ext)
		}
	}

	logger.Infow("Starting subtitle translation",
		"input", subtitlePath,
		"output", outputPath,
		"target_language", targetLang,
		"input_language", inputLang,
		"provider", provider,
		"overlay", overlay,
		"model", model,
	)

	segments, err := subtitle.Open(subtitlePath)
	if err != nil {
		return fmt.Errorf("failed to parse subtitle file: %w", err)
	}
	if len(segments) == 0 {
		return fmt.Errorf("subtitle file contains no segments")
	}

	logger.Infow("Parsed subtitle file", "segments", len(segments))

	translator, err := translate.Factory(ctx, provider, apiKey, translate.Options{
		InputLanguage:  inputLang,
		TargetLanguage: targetLang,
		Model:          model,
		BatchSize:      batchSize,
	})
	if err != nil {
		return fmt.Errorf("failed to create translator: %w", err)
	}
	if closer, ok := translator.(io.Closer); ok {
		defer closer.Close()
	}

	logger.Infow("Translating subtitles",
		"items", len(segments),
		"concurrency", concurrency,
	)

	translated, err := translate.TranslateSegments(ctx, translator, segments, concurrency)
	if err != nil {
		return fmt.Errorf("translation failed: %w", err)
	}

	if overlay {
		translated = overlaySegments(translated, segments)
	}

	logger.Infow("Writing output file")
	if err := writeSegments(translated, outputPath); err != nil {
		return err
	}

	absOutput, _ := filepath.Abs(outputPath)
	fmt.Printf("Subtitles translated successfully: %s\n", absOutput)
	fmt.Printf("  Segments: %d\n", len(translated))
	fmt.Printf("  Target language: %s\n", targetLang)
	if overlay {
		fmt.Printf("  Mode: bilingual overlay\n")
	}

	return nil
}

// overlaySegments puts the translation above the original text. Both slices
// are in the same id order.
func overlaySegments(translated, original []subtitle.Segment) []subtitle.Segment {
	out := make([]subtitle.Segment, len(translated))
	for i, seg := range translated {
		seg.Text = seg.Text + "\n" + original[i].Text
		out[i] = seg
	}
	return out
}
