package borelog

import (
	"sort"
	"unicode"

	"github.com/klippa-app/go-pdfium"
	"github.com/klippa-app/go-pdfium/references"
	"github.com/klippa-app/go-pdfium/requests"
	"github.com/pkg/errors"
)

// PageContent is the tokenized content of one page, in top-left page
// coordinates.
type PageContent struct {
	Number  int
	Width   float64
	Height  float64
	Words   []Word
	Lines   []TextLine
	Rulings []GeometricLine
}

// ExtractPageContent tokenizes a PDF page into words, classified lines and
// ruling lines.
func ExtractPageContent(instance pdfium.Pdfium, page references.FPDF_PAGE, pageNumber int, config Config) (*PageContent, error) {
	widthResp, err := instance.FPDF_GetPageWidthF(&requests.FPDF_GetPageWidthF{
		Page: requests.Page{ByReference: &page},
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to get page width")
	}
	heightResp, err := instance.FPDF_GetPageHeightF(&requests.FPDF_GetPageHeightF{
		Page: requests.Page{ByReference: &page},
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to get page height")
	}
	pageWidth := float64(widthResp.PageWidth)
	pageHeight := float64(heightResp.PageHeight)

	content := &PageContent{
		Number: pageNumber,
		Width:  pageWidth,
		Height: pageHeight,
	}

	textPage, err := instance.FPDFText_LoadPage(&requests.FPDFText_LoadPage{
		Page: requests.Page{ByReference: &page},
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to load text page")
	}
	defer instance.FPDFText_ClosePage(&requests.FPDFText_ClosePage{
		TextPage: textPage.TextPage,
	})

	charCount, err := instance.FPDFText_CountChars(&requests.FPDFText_CountChars{
		TextPage: textPage.TextPage,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to count characters")
	}

	if charCount.Count > 0 {
		chars, err := extractChars(instance, textPage.TextPage, charCount.Count, pageHeight)
		if err != nil {
			return nil, errors.Wrap(err, "failed to extract characters")
		}
		content.Words = groupCharsIntoWords(chars)
		content.Lines = ClassifyLines(groupWordsIntoLines(content.Words), config.Classifier)
	}

	rulings, err := ExtractRulings(instance, page, pageWidth, pageHeight)
	if err != nil {
		// Non-fatal: matching degrades to gap-based block detection.
		rulings = nil
	}
	content.Rulings = rulings

	return content, nil
}

// pageChar is one character with its box, already converted to top-left
// coordinates.
type pageChar struct {
	text rune
	box  Rect
}

func extractChars(instance pdfium.Pdfium, textPage references.FPDF_TEXTPAGE, count int, pageHeight float64) ([]pageChar, error) {
	chars := make([]pageChar, 0, count)
	for i := range count {
		unicodeResp, err := instance.FPDFText_GetUnicode(&requests.FPDFText_GetUnicode{
			TextPage: textPage,
			Index:    i,
		})
		if err != nil || unicodeResp.Unicode == 0 {
			continue
		}
		charBox, err := instance.FPDFText_GetCharBox(&requests.FPDFText_GetCharBox{
			TextPage: textPage,
			Index:    i,
		})
		if err != nil {
			continue
		}
		chars = append(chars, pageChar{
			text: rune(unicodeResp.Unicode),
			box: Rect{
				X0: charBox.Left,
				Y0: pageHeight - charBox.Top,
				X1: charBox.Right,
				Y1: pageHeight - charBox.Bottom,
			},
		})
	}
	return chars, nil
}

// groupCharsIntoWords splits the character stream into words at whitespace
// and at horizontal gaps wider than half the average character width. Depth
// tables often abut number cells without explicit spaces, so gap splitting
// matters here.
func groupCharsIntoWords(chars []pageChar) []Word {
	avgWidth := 0.0
	for _, c := range chars {
		avgWidth += c.box.Width()
	}
	if len(chars) > 0 {
		avgWidth /= float64(len(chars))
	}

	var words []Word
	var current []pageChar
	flush := func() {
		if len(current) == 0 {
			return
		}
		text := make([]rune, 0, len(current))
		box := current[0].box
		for _, c := range current {
			text = append(text, c.text)
			box = box.Union(c.box)
		}
		words = append(words, Word{Text: string(text), Box: box})
		current = nil
	}

	for i, c := range chars {
		if unicode.IsSpace(c.text) {
			flush()
			continue
		}
		if len(current) > 0 {
			prev := chars[i-1].box
			sameLine := c.box.Y0 < prev.Y1 && prev.Y0 < c.box.Y1
			if !sameLine || c.box.X0-prev.X1 > avgWidth/2 {
				flush()
			}
		}
		current = append(current, c)
	}
	flush()
	return words
}

// groupWordsIntoLines groups words whose vertical centers fall within each
// other's boxes into visual lines, ordered top to bottom.
func groupWordsIntoLines(words []Word) []TextLine {
	sorted := make([]Word, len(words))
	copy(sorted, words)
	sort.SliceStable(sorted, func(i, j int) bool {
		ci := (sorted[i].Box.Y0 + sorted[i].Box.Y1) / 2
		cj := (sorted[j].Box.Y0 + sorted[j].Box.Y1) / 2
		if ci != cj {
			return ci < cj
		}
		return sorted[i].Box.X0 < sorted[j].Box.X0
	})

	var lines []TextLine
	var current []Word
	for _, word := range sorted {
		if len(current) > 0 {
			lineBox := NewTextLine(current).Box
			center := (word.Box.Y0 + word.Box.Y1) / 2
			if center < lineBox.Y0 || center > lineBox.Y1 {
				lines = append(lines, newOrderedLine(current))
				current = nil
			}
		}
		current = append(current, word)
	}
	if len(current) > 0 {
		lines = append(lines, newOrderedLine(current))
	}
	return lines
}

func newOrderedLine(words []Word) TextLine {
	ordered := make([]Word, len(words))
	copy(ordered, words)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Box.X0 < ordered[j].Box.X0
	})
	return NewTextLine(ordered)
}
