package cli

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/mgpai22/tilawa/internal/document"
	"github.com/mgpai22/tilawa/internal/editor"
	"github.com/mgpai22/tilawa/internal/subtitle"
	"github.com/spf13/cobra"
)

var mergeCmd = &cobra.Command{
	Use:   "merge [subtitle_file]",
	Short: "Merge subtitle segments into one",
	Long: `Merge two or more segments of a subtitle file into a single segment.

The merged segment keeps the lowest id, spans from the earliest start to
the latest end, and joins the texts in id order. Segments are renumbered
on export.

With --min-words the segments are merged automatically instead: each
segment is joined with the ones after it until the line holds at least
that many words, unless the next segment starts more than --max-gap later.

Examples:
  tilawa merge fatiha.srt --ids 2,3
  tilawa merge fatiha.srt --ids 4,6,5 -o fatiha.fixed.srt
  tilawa merge baqara.srt --min-words 5 --max-gap 1s`,
	Args: cobra.ExactArgs(1),
	RunE: runMerge,
}

func init() {
	rootCmd.AddCommand(mergeCmd)

	mergeCmd.Flags().
		IntSlice("ids", nil, "Segment ids to merge (at least two)")
	mergeCmd.Flags().
		Int("min-words", 0, "Merge automatically until each line has this many words")
	mergeCmd.Flags().
		Duration("max-gap", editor.DefaultMaxGap, "Largest silence bridged by automatic merging")

	mergeCmd.MarkFlagsOneRequired("ids", "min-words")
	mergeCmd.MarkFlagsMutuallyExclusive("ids", "min-words")
}

func runMerge(cmd *cobra.Command, args []string) error {
	inputPath := args[0]
	ids, _ := cmd.Flags().GetIntSlice("ids")
	minWords, _ := cmd.Flags().GetInt("min-words")
	maxGap, _ := cmd.Flags().GetDuration("max-gap")
	outputPath, _ := cmd.Flags().GetString("output")

	if outputPath == "" {
		outputPath = derivedPath(inputPath, "merged", filepath.Ext(inputPath))
	}

	if cmd.Flags().Changed("min-words") {
		return runAutoMerge(inputPath, outputPath, minWords, maxGap)
	}

	logger.Infow("Merging segments",
		"input", inputPath,
		"output", outputPath,
		"ids", ids,
	)

	merged, count, err := mergeFile(inputPath, outputPath, ids)
	if err != nil {
		return err
	}

	logger.Debugw("Merged segment",
		"id", merged.ID,
		"start", subtitle.FormatTimestamp(merged.StartTime),
		"end", subtitle.FormatTimestamp(merged.EndTime),
		"duration", merged.Duration().String(),
	)

	absOutput, _ := filepath.Abs(outputPath)
	fmt.Printf("Segments merged successfully: %s\n", absOutput)
	fmt.Printf("  Merged into: %d\n", merged.ID)
	fmt.Printf("  Segments: %d\n", count)
	return nil
}

func runAutoMerge(inputPath, outputPath string, minWords int, maxGap time.Duration) error {
	if minWords < 1 {
		return fmt.Errorf("min-words must be positive, got %d", minWords)
	}
	if maxGap < 0 {
		return fmt.Errorf("max-gap must not be negative, got %s", maxGap)
	}

	logger.Infow("Auto-merging segments",
		"input", inputPath,
		"output", outputPath,
		"min_words", minWords,
		"max_gap", maxGap.String(),
	)

	merged, count, err := autoMergeFile(inputPath, outputPath, minWords, maxGap)
	if err != nil {
		return err
	}

	for _, seg := range merged {
		logger.Debugw("Merged segment",
			"id", seg.ID,
			"duration", seg.Duration().String(),
			"verse", seg.VerseNumber,
		)
	}

	absOutput, _ := filepath.Abs(outputPath)
	fmt.Printf("Segments merged successfully: %s\n", absOutput)
	fmt.Printf("  Merged lines: %d\n", len(merged))
	fmt.Printf("  Segments: %d\n", count)
	return nil
}

// mergeFile loads inputPath, merges ids and writes the result in the format
// implied by outputPath's extension.
func mergeFile(
	inputPath, outputPath string,
	ids []int,
) (subtitle.Segment, int, error) {
	manager, doc, err := loadDocument(inputPath)
	if err != nil {
		return subtitle.Segment{}, 0, err
	}

	merged, err := manager.Merge(doc.ID, ids)
	if err != nil {
		return subtitle.Segment{}, 0, fmt.Errorf("merge failed: %w", err)
	}

	segments := doc.Segments()
	if err := writeSegments(segments, outputPath); err != nil {
		return subtitle.Segment{}, 0, err
	}
	return merged, len(segments), nil
}

// autoMergeFile is mergeFile for editor.AutoMerge.
func autoMergeFile(
	inputPath, outputPath string,
	minWords int,
	maxGap time.Duration,
) ([]subtitle.Segment, int, error) {
	manager, doc, err := loadDocument(inputPath)
	if err != nil {
		return nil, 0, err
	}

	merged, err := manager.AutoMerge(doc.ID, minWords, maxGap)
	if err != nil {
		return nil, 0, fmt.Errorf("merge failed: %w", err)
	}

	segments := doc.Segments()
	if err := writeSegments(segments, outputPath); err != nil {
		return nil, 0, err
	}
	return merged, len(segments), nil
}

func loadDocument(path string) (*document.Manager, *document.Document, error) {
	segments, err := subtitle.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse subtitle file: %w", err)
	}

	manager := document.NewManager()
	doc, err := manager.CreateDocument(filepath.Base(path), segments)
	if err != nil {
		return nil, nil, err
	}
	return manager, doc, nil
}

func writeSegments(segments []subtitle.Segment, outputPath string) error {
	writer, err := subtitle.NewWriter(subtitle.GetFormatFromExtension(outputPath))
	if err != nil {
		return err
	}
	if err := writer.Write(segments, outputPath); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	return nil
}

// derivedPath turns dir/name.srt into dir/name.<tag><ext>.
func derivedPath(inputPath, tag, ext string) string {
	base := strings.TrimSuffix(inputPath, filepath.Ext(inputPath))
	return fmt.Sprintf("%s.%s%s", base, tag, ext)
}
