package parse

import (
	"cmp"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"weebdex/internal/domain"

	"github.com/araddon/dateparse"
)

var leadingFloatPattern = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?`)

// ChapterNumber parses the leading decimal number of s, ignoring any trailing text.
// Anything that does not start with a finite number yields 0.
func ChapterNumber(s string) float32 {
	match := leadingFloatPattern.FindString(strings.TrimSpace(s))
	if match == "" {
		return 0
	}

	number, err := strconv.ParseFloat(match, 32)
	if err != nil || math.IsNaN(number) || math.IsInf(number, 0) {
		return 0
	}

	return float32(number)
}

// EpochMillis parses a date string into milliseconds since the unix epoch.
// Dates without a zone are read as UTC, unparsable dates yield 0.
func EpochMillis(date string) int64 {
	date = strings.TrimSpace(date)
	if date == "" {
		return 0
	}

	t, err := dateparse.ParseIn(date, time.UTC)
	if err != nil {
		return 0
	}

	return t.UnixMilli()
}

// ChapterSelection parses the user input for ranges and parts and returns the
// matching chapters in their original order
func ChapterSelection(input string, availableChapters []domain.Chapter) ([]domain.Chapter, error) {
	type span struct{ start, end float32 }

	var spans []span

	for _, part := range strings.Split(input, ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}

		if strings.Contains(part, "-") {
			rangeParts := strings.Split(part, "-")
			if len(rangeParts) != 2 {
				return nil, fmt.Errorf("invalid range format: %s", part)
			}
			start, end, err := getRange(rangeParts)
			if err != nil {
				return nil, err
			}

			spans = append(spans, span{start, end})
		} else {
			chapter, err := strconv.ParseFloat(strings.TrimSpace(part), 32)
			if err != nil {
				return nil, fmt.Errorf("invalid chapter number: %s", part)
			}
			spans = append(spans, span{float32(chapter), float32(chapter)})
		}
	}

	selectedChapters := make([]domain.Chapter, 0)
	for _, chapter := range availableChapters {
		for _, s := range spans {
			if chapter.Number >= s.start && chapter.Number <= s.end {
				selectedChapters = append(selectedChapters, chapter)
				break
			}
		}
	}

	return selectedChapters, nil
}

// getRange parses the user input for chapter ranges
func getRange(rangeParts []string) (float32, float32, error) {
	start, err := strconv.ParseFloat(strings.TrimSpace(rangeParts[0]), 32)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid start of range: %s", rangeParts[0])
	}
	end, err := strconv.ParseFloat(strings.TrimSpace(rangeParts[1]), 32)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid end of range: %s", rangeParts[1])
	}

	if start > end {
		return 0, 0, fmt.Errorf("start of range should not be greater than end: %s-%s", rangeParts[0], rangeParts[1])
	}

	return float32(start), float32(end), nil
}

// MinAndMax returns the items with the lowest and highest key. Ties keep the first item seen.
func MinAndMax[T any, K cmp.Ordered](items []T, key func(T) K) (T, T, error) {
	if len(items) == 0 {
		var zero T
		return zero, zero, fmt.Errorf("slice is empty")
	}

	lowest, highest := items[0], items[0]
	for _, item := range items[1:] {
		if key(item) < key(lowest) {
			lowest = item
		}
		if key(item) > key(highest) {
			highest = item
		}
	}

	return lowest, highest, nil
}
