package cli

import (
	"fmt"
	"path/filepath"

	"github.com/mgpai22/tilawa/internal/document"
	"github.com/mgpai22/tilawa/internal/subtitle"
	"github.com/spf13/cobra"
)

var convertCmd = &cobra.Command{
	Use:   "convert [subtitle_file]",
	Short: "Convert an SRT file to SRT, VTT or ASS",
	Long: `Convert a subtitle file to another format. Segments are renumbered
1..N in id order.

Examples:
  tilawa convert fatiha.srt -f vtt
  tilawa convert fatiha.srt -f ass -o out/fatiha.ass`,
	Args: cobra.ExactArgs(1),
	RunE: runConvert,
}

func init() {
	rootCmd.AddCommand(convertCmd)

	convertCmd.Flags().
		StringP("format", "f", "srt", "Output format (srt, vtt, ass)")
}

func runConvert(cmd *cobra.Command, args []string) error {
	inputPath := args[0]
	formatStr, _ := cmd.Flags().GetString("format")
	outputPath, _ := cmd.Flags().GetString("output")

	format, ok := subtitle.ParseFormat(formatStr)
	if !ok {
		return fmt.Errorf("unsupported format %q: use srt, vtt, or ass", formatStr)
	}

	if outputPath == "" {
		dir := filepath.Dir(inputPath)
		outputPath = filepath.Join(
			dir,
			document.SuggestedName(filepath.Base(inputPath), format),
		)
		if outputPath == inputPath {
			outputPath = derivedPath(inputPath, "converted", subtitle.GetExtensionForFormat(format))
		}
	}

	logger.Infow("Converting subtitle file",
		"input", inputPath,
		"output", outputPath,
		"format", format,
	)

	count, err := convertFile(inputPath, outputPath, format)
	if err != nil {
		return err
	}

	absOutput, _ := filepath.Abs(outputPath)
	fmt.Printf("Subtitles converted successfully: %s\n", absOutput)
	fmt.Printf("  Format: %s\n", format)
	fmt.Printf("  Segments: %d\n", count)
	return nil
}

// convertFile goes through the document store so inverted timings and
// duplicate ids are rejected before anything is written.
func convertFile(inputPath, outputPath string, format subtitle.Format) (int, error) {
	_, doc, err := loadDocument(inputPath)
	if err != nil {
		return 0, err
	}

	writer, err := subtitle.NewWriter(format)
	if err != nil {
		return 0, err
	}

	segments := doc.Segments()
	if err := writer.Write(segments, outputPath); err != nil {
		return 0, fmt.Errorf("failed to write output file: %w", err)
	}
	return len(segments), nil
}
