package search

import (
	"regexp"
	"strings"
)

// Connective and qualifier vocabulary shared by the extractors, the logic
// mode detector, and the noise classifier. Queries arrive in mixed Chinese
// and English, so every list carries both.

var (
	// takenWords flip a date range from the upload timestamp to the EXIF
	// capture timestamp.
	takenWords = []string{"拍摄", "拍照", "拍的", "摄于", "taken", "captured", "shot", "photographed"}

	// uploadedWords force the upload timestamp even when a taken word is
	// also present. Upload intent wins as an override.
	uploadedWords = []string{"上传", "upload"}

	// aboveWords turn a single size value into a lower bound.
	aboveWords = []string{"以上", "大于", "超过", "不小于", "不少于", "至少", "above", "over", "more than", "at least", "greater", "bigger", "larger", ">="}

	// belowWords turn a single size value into an upper bound.
	belowWords = []string{"以下", "以内", "小于", "不超过", "不大于", "至多", "最多", "below", "under", "less than", "at most", "smaller", "within", "<="}
)

var (
	// reDate matches YYYY-M-D with -, /, . or the CJK year/month/day
	// markers as separators. Month and day validity is checked by the date
	// extractor, not the pattern.
	reDate = regexp.MustCompile(`(\d{4})[-/.年](\d{1,2})[-/.月](\d{1,2})日?`)

	// reOrConn matches explicit disjunctive connectives. Longest Chinese
	// forms come first so 或者 is not consumed as a bare 或.
	reOrConn = regexp.MustCompile(`(?i)或者|或是|还是|要么|或|\beither\b|\bor\b|\|`)

	// reAndConn matches explicit conjunctive connectives.
	reAndConn = regexp.MustCompile(`(?i)并且|而且|以及|同时|还有|和|及|与|跟|\band\b|\balso\b|as\s+well\s+as|\bboth\b|\bplus\b|&`)
)

// Shape patterns used by the noise classifier and by the size extractor's
// pre-scrub. A token that looks like a date, a size, or a resolution has
// already been handled (or deliberately ignored) by a structured extractor
// and must not leak into the keyword expression.
var (
	reSizeShaped = regexp.MustCompile(`(?i)\d+(?:\.\d+)?\s*(?:gb|mb|kb|g|m|k|兆)`)
	reResPair    = regexp.MustCompile(`(\d{2,5})\s*[xX×*]\s*(\d{2,5})`)
	reResPixels  = regexp.MustCompile(`(?i)(\d{4,})\s*(?:px|pixels?|像素)`)
	reResAlias   = regexp.MustCompile(`(?i)\b([42])k\b`)
	reResHeight  = regexp.MustCompile(`(?i)\b(\d{3,4})p\b`)
)

// noiseWords are tokens that never become keyword terms: field vocabulary,
// range qualifiers, command and politeness words, and the connectives
// themselves. Matching is exact on the lowercased token.
var noiseWords = buildNoiseWords()

func buildNoiseWords() map[string]struct{} {
	words := []string{
		// field vocabulary
		"拍摄", "拍照", "拍的", "摄于", "上传", "大小", "容量", "体积", "尺寸",
		"分辨率", "像素", "相册", "专辑", "影集", "图库", "文件夹", "相机", "镜头",
		"型号", "机型", "名为", "名叫", "叫做", "日期", "时间",
		"size", "resolution", "pixels", "pixel", "px", "album", "albums",
		"folder", "folders", "collection", "camera", "lens", "model",
		"named", "called", "titled", "taken", "captured", "shot",
		"photographed", "uploaded", "upload", "using", "date",
		// range qualifiers
		"之间", "以上", "以下", "以内", "之前", "之后", "到", "至", "从",
		"大于", "小于", "超过",
		"不小于", "不少于", "不超过", "不大于", "至少", "至多", "最多",
		"between", "above", "below", "under", "over", "least", "most",
		"than", "greater", "less", "bigger", "larger", "smaller", "within",
		"before", "after", "from", "to", "until", "during", "with",
		// command and politeness words
		"请", "帮我", "帮忙", "麻烦", "查找", "查询", "搜索", "寻找", "找到",
		"找出", "显示", "列出", "看看", "给我", "我想", "我要", "所有", "全部",
		"一下", "照片", "图片", "相片", "图像",
		"please", "help", "me", "find", "search", "show", "list", "display",
		"all", "every", "want", "need", "see", "get", "give",
		"photo", "photos", "image", "images", "picture", "pictures",
		"file", "files", "my", "the", "a", "an", "of", "in", "on", "for",
		"that", "this", "is", "are", "it",
		// connectives
		"或者", "或是", "还是", "要么", "或", "并且", "而且", "以及", "同时",
		"还有", "和", "及", "与", "跟",
		"and", "or", "also", "both", "plus", "either", "as", "well",
	}
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[strings.ToLower(w)] = struct{}{}
	}
	return m
}

// cjkScrub removes politeness, command, and filler words that attach to
// Chinese phrases without whitespace, so they cannot survive tokenization
// glued to a real term. Longer forms come first.
var cjkScrub = regexp.MustCompile(`请问|麻烦|请|帮我|帮忙|找一找|找找|找到|找出|查找|查询|搜索|寻找|我想看|我想要|我想|我要|给我|显示|列出|看看|一下|所有|全部|之间|以上|以下|以内|拍摄|拍的|上传|文件夹|相册|专辑|影集|图库|名为|名叫|叫做|相机|镜头|型号|机型|照片|图片|相片|图像|的|了|吗|呢|吧|找|搜`)

// containsAny reports whether text contains any of the listed words,
// case-insensitively.
func containsAny(text string, words []string) bool {
	lower := strings.ToLower(text)
	for _, w := range words {
		if strings.Contains(lower, w) {
			return true
		}
	}
	return false
}

// isNoise reports whether a candidate keyword token should be discarded.
// Tokens are never rejected for script or length alone, only for matching
// noise vocabulary or a structured-field shape.
func isNoise(token string) bool {
	lower := strings.ToLower(token)
	if _, ok := noiseWords[lower]; ok {
		return true
	}
	if reDate.MatchString(lower) {
		return true
	}
	if reSizeShaped.MatchString(lower) {
		return true
	}
	if reResPair.MatchString(lower) || reResPixels.MatchString(lower) ||
		reResAlias.MatchString(lower) || reResHeight.MatchString(lower) {
		return true
	}
	return false
}
