package translate

import (
	"context"
	"fmt"
	"strings"

	"github.com/mgpai22/tilawa/internal/subtitle"
)

// TranslateSegments translates the text of every segment and returns copies
// with the translated text. Ids, timings and verse tags are kept; error flags
// are reset since the text is new. Every segment must come back exactly once.
func TranslateSegments(
	ctx context.Context,
	translator Translator,
	segments []subtitle.Segment,
	concurrency int,
) ([]subtitle.Segment, error) {
	if len(segments) == 0 {
		return []subtitle.Segment{}, nil
	}

	items := make([]TranslationItem, len(segments))
	for i, seg := range segments {
		items[i] = TranslationItem{
			Index: seg.ID,
			Verse: seg.VerseNumber,
			Text:  seg.Text,
		}
	}

	var results []TranslationResult
	var err error
	if ct, ok := translator.(ConcurrentTranslator); ok && concurrency > 1 {
		results, err = ct.TranslateWithConcurrency(ctx, items, concurrency)
	} else {
		results, err = translator.Translate(ctx, items)
	}
	if err != nil {
		return nil, err
	}

	byID := make(map[int]string, len(results))
	for _, r := range results {
		if _, dup := byID[r.Index]; dup {
			return nil, fmt.Errorf("duplicate translation for segment %d", r.Index)
		}
		byID[r.Index] = r.Text
	}

	out := make([]subtitle.Segment, len(segments))
	for i, seg := range segments {
		text, ok := byID[seg.ID]
		if !ok {
			return nil, fmt.Errorf("missing translation for segment %d", seg.ID)
		}
		seg.Text = cleanText(text)
		if seg.Text == "" {
			return nil, fmt.Errorf("empty translation for segment %d", seg.ID)
		}
		seg.HasError = false
		out[i] = seg
	}
	return out, nil
}

// cleanText drops blank lines and carriage returns from model output so the
// text can be stored and exported as a single cue.
func cleanText(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")

	var lines []string
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) != "" {
			lines = append(lines, strings.TrimRight(line, " \t"))
		}
	}
	return strings.Join(lines, "\n")
}
