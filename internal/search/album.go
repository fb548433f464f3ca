package search

import (
	"regexp"
	"strings"
)

// Album phrase patterns, tried in order. The first match wins. Each pattern
// captures a candidate title that is then passed through cleanAlbumTitle.
var albumPatterns = []*regexp.Regexp{
	// 名为"风景"的相册 / named summer album
	regexp.MustCompile(`(?i)(?:名为|名叫|叫做|named|called|titled)\s*(.{1,40}?)\s*的?(?:相册|专辑|影集|图库|文件夹|album|collection|folder)`),
	// 相册名为风景 / album named summer / album: summer
	regexp.MustCompile(`(?i)(?:相册|专辑|影集|图库|文件夹|album|collection|folder)\s*(?:名为|名叫|叫做|named|called|titled|是|[:：])\s*([^\s,，。.!！?？]{1,40})`),
	// any quoted phrase, four quote styles
	regexp.MustCompile(`"([^"]{1,40})"|“([^”]{1,40})”|'([^']{1,40})'|「([^」]{1,40})」`),
	// 风景的相册 possessive form
	regexp.MustCompile(`([\p{Han}\w]{1,30})的(?:相册|专辑|影集|图库|文件夹)`),
	// trailing English form: album summer
	regexp.MustCompile(`(?i)\balbum\s+([\p{Han}\w]{1,40})`),
}

var albumSuffixes = []string{"相册", "专辑", "影集", "图库", "文件夹", "album", "collection", "folder"}

// extractAlbum finds an album title hint. The full matched phrase and the
// cleaned title are both claimed so the title never doubles as a keyword.
func extractAlbum(text string) ([]Predicate, []string) {
	for _, pattern := range albumPatterns {
		m := pattern.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		title := ""
		for _, group := range m[1:] {
			if group != "" {
				title = group
				break
			}
		}
		title = cleanAlbumTitle(title)
		if title == "" {
			continue
		}
		return []Predicate{AlbumLike{Title: title}}, []string{m[0], title}
	}
	return nil, nil
}

// cleanAlbumTitle strips surrounding quotes, a trailing album word, and a
// trailing possessive particle from a captured title.
func cleanAlbumTitle(title string) string {
	title = strings.Trim(title, `"“”'‘’「」『』`)
	title = strings.TrimSpace(title)
	for changed := true; changed; {
		changed = false
		for _, suffix := range albumSuffixes {
			if trimmed := strings.TrimSuffix(title, suffix); trimmed != title {
				title = strings.TrimSpace(trimmed)
				changed = true
			}
		}
		if trimmed := strings.TrimSuffix(title, "的"); trimmed != title {
			title = strings.TrimSpace(trimmed)
			changed = true
		}
	}
	return strings.TrimSpace(title)
}
