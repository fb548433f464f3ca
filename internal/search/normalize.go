package search

import "strings"

// dashNormalizer rewrites Unicode dash variants to a plain ASCII hyphen so
// the range and date patterns only have to know about one dash character.
var dashNormalizer = strings.NewReplacer(
	"‐", "-", // hyphen
	"‑", "-", // non-breaking hyphen
	"‒", "-", // figure dash
	"–", "-", // en dash
	"—", "-", // em dash
	"―", "-", // horizontal bar
	"−", "-", // minus sign
	"﹘", "-", // small em dash
	"﹣", "-", // small hyphen-minus
	"－", "-", // fullwidth hyphen-minus
)

// Normalize canonicalizes dash variants in a raw query. No other characters
// are touched, so normalizing already-normalized text is a no-op.
func Normalize(text string) string {
	return dashNormalizer.Replace(text)
}
