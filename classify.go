package borelog

import (
	"strings"
	"unicode"
)

// ClassifyLines tags each line that looks like free-text material
// description. The tag is computed once here and read-only afterwards.
//
// A line qualifies when it contains one of the configured material keywords,
// or when it is mostly letters and long enough to be prose rather than a
// header cell or a stray number.
func ClassifyLines(lines []TextLine, params ClassifierParams) []TextLine {
	classified := make([]TextLine, len(lines))
	for i, line := range lines {
		classified[i] = line
		if isDescriptionText(line.Text(), params) {
			classified[i].Kind = LineDescription
		} else {
			classified[i].Kind = LineOther
		}
	}
	return classified
}

func isDescriptionText(text string, params ClassifierParams) bool {
	lowered := strings.ToLower(text)
	for _, keyword := range params.MaterialKeywords {
		if keyword != "" && strings.Contains(lowered, strings.ToLower(keyword)) {
			return true
		}
	}

	letters, total := 0, 0
	for _, r := range lowered {
		if unicode.IsSpace(r) {
			continue
		}
		total++
		if unicode.IsLetter(r) {
			letters++
		}
	}
	if total < 8 {
		return false
	}
	return float64(letters)/float64(total) >= params.MinLetterRatio
}
