package search

import (
	"regexp"
	"strings"
)

var (
	// reGearAfter captures the phrase following a camera/lens/model word,
	// 2 to 40 word or CJK characters.
	reGearAfter = regexp.MustCompile(`(?i)(?:相机|镜头|机型|型号|camera|lens|model)\s*(?:是|为|[:：])?\s*([\p{Han}\w][\p{Han}\w .+\-]{0,38}[\p{Han}\w])`)

	// reGearShotWith captures the phrase in "用 X 拍的" / "shot with X".
	reGearShotWith = regexp.MustCompile(`(?i)(?:用|使用|using|with)\s*(.{1,40}?)\s*(?:拍摄|拍照|拍的|拍|shot|photographed|taken)`)
)

var gearSuffixes = []string{"相机", "镜头", "camera", "lens"}

// extractCamera finds a camera or lens model hint. A phrase directly after
// a camera word wins; failing that, the "using X shot" form is tried. The
// matched span and the phrase are claimed so the model name never doubles
// as a keyword.
func extractCamera(text string) ([]Predicate, []string) {
	if m := reGearAfter.FindStringSubmatch(text); m != nil {
		phrase := cleanGearPhrase(m[1])
		// 相机拍的... captures the taken word, not a model; fall through
		// to the shot-with form instead.
		if phrase != "" && !startsWithTakenWord(phrase) {
			return []Predicate{GearLike{Text: phrase}}, []string{m[0], phrase}
		}
	}

	if m := reGearShotWith.FindStringSubmatch(text); m != nil {
		phrase := cleanGearPhrase(m[1])
		if len([]rune(phrase)) >= 2 {
			return []Predicate{GearLike{Text: phrase}}, []string{m[0], phrase}
		}
	}

	return nil, nil
}

// cleanGearPhrase trims whitespace and a redundant trailing camera word
// from a captured model phrase.
func cleanGearPhrase(phrase string) string {
	phrase = strings.TrimSpace(phrase)
	for _, suffix := range gearSuffixes {
		phrase = strings.TrimSpace(strings.TrimSuffix(phrase, suffix))
	}
	return phrase
}

func startsWithTakenWord(phrase string) bool {
	lower := strings.ToLower(phrase)
	for _, w := range takenWords {
		if strings.HasPrefix(lower, w) {
			return true
		}
	}
	return false
}
