package cli

import (
	"fmt"

	"github.com/mgpai22/tilawa/internal/editor"
	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check [subtitle_file]",
	Short: "Report problem segments in a subtitle file",
	Long: `Check a subtitle file for segments that need review: empty text,
inverted or overlapping timings, and text the recognizer could not match
to a verse.

With --strict the command fails when any issue is found.`,
	Args: cobra.ExactArgs(1),
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)

	checkCmd.Flags().
		Bool("strict", false, "Exit with an error when issues are found")
}

func runCheck(cmd *cobra.Command, args []string) error {
	inputPath := args[0]
	strict, _ := cmd.Flags().GetBool("strict")

	logger.Infow("Checking subtitle file", "input", inputPath)

	issues, total, err := checkFile(inputPath)
	if err != nil {
		return err
	}

	for _, issue := range issues {
		if issue.OtherID != 0 {
			fmt.Printf("  segment %d: %s (with %d)\n", issue.SegmentID, issue.Kind, issue.OtherID)
			continue
		}
		fmt.Printf("  segment %d: %s\n", issue.SegmentID, issue.Kind)
	}
	fmt.Printf("Checked %d segments, %d issues\n", total, len(issues))

	if strict && len(issues) > 0 {
		return fmt.Errorf("%d issues found in %s", len(issues), inputPath)
	}
	return nil
}

func checkFile(path string) ([]editor.Issue, int, error) {
	manager, doc, err := loadDocument(path)
	if err != nil {
		return nil, 0, err
	}

	issues, err := manager.Validate(doc.ID)
	if err != nil {
		return nil, 0, err
	}
	return issues, doc.Summary().Segments, nil
}
