package search

import (
	"math"
	"strconv"
)

// Well-known resolution aliases.
const (
	pixels4K = int64(3840) * 2160
	pixels2K = int64(2560) * 1440
)

// extractResolution recognizes resolution constraints in priority order:
// an explicit WxH pair, a bare pixel count, the 4K/2K aliases, then an
// NNNp height. The first matching form wins. Every extracted value is a
// lower bound; a 4K query matches anything at or above 4K.
func extractResolution(text string) ([]Predicate, []string) {
	if m := reResPair.FindStringSubmatch(text); m != nil {
		width, _ := strconv.Atoi(m[1])
		height, _ := strconv.Atoi(m[2])
		if width > 0 && height > 0 {
			preds := []Predicate{
				MinWidth{Width: width},
				MinHeight{Height: height},
				MinPixels{Pixels: int64(width) * int64(height)},
			}
			return preds, []string{m[0]}
		}
	}

	if m := reResPixels.FindStringSubmatch(text); m != nil {
		count, err := strconv.ParseInt(m[1], 10, 64)
		if err == nil && count > 0 {
			return []Predicate{MinPixels{Pixels: count}}, []string{m[0]}
		}
	}

	if m := reResAlias.FindStringSubmatch(text); m != nil {
		pixels := pixels2K
		if m[1] == "4" {
			pixels = pixels4K
		}
		return []Predicate{MinPixels{Pixels: pixels}}, []string{m[0]}
	}

	if m := reResHeight.FindStringSubmatch(text); m != nil {
		height, _ := strconv.Atoi(m[1])
		if height == 0 {
			return nil, nil
		}
		width := int(math.Round(float64(height) * 16.0 / 9.0))
		preds := []Predicate{
			MinWidth{Width: width},
			MinHeight{Height: height},
		}
		return preds, []string{m[0]}
	}

	return nil, nil
}
