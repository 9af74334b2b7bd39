package source

import (
	"bytes"
	"fmt"
	"strings"

	pdf "github.com/ledongthuc/pdf"
)

// wordGapRatio is the horizontal gap, relative to the font size, above which
// two glyph runs on the same row are treated as separate words.
const wordGapRatio = 0.15

func readPDF(content []byte) (text string, err error) {
	// the pdf package panics on some malformed streams
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("malformed pdf: %v", r)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", err
	}

	pages := make([]string, 0, r.NumPage())
	for i := 1; i <= r.NumPage(); i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}
		pages = append(pages, pageText(p))
	}
	return strings.Join(pages, "\n"), nil
}

func pageText(p pdf.Page) string {
	rows, err := p.GetTextByRow()
	if err != nil {
		plain, err := p.GetPlainText(nil)
		if err != nil {
			return ""
		}
		return normalizeNewlines(plain)
	}

	lines := make([]string, 0, len(rows))
	for _, row := range rows {
		if line := rowText(row.Content); strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}

func rowText(texts pdf.TextHorizontal) string {
	var b strings.Builder
	for i, t := range texts {
		if i > 0 && needsSpace(texts[i-1], t) {
			b.WriteByte(' ')
		}
		b.WriteString(t.S)
	}
	return b.String()
}

func needsSpace(prev, cur pdf.Text) bool {
	if strings.HasSuffix(prev.S, " ") || strings.HasPrefix(cur.S, " ") {
		return false
	}
	size := prev.FontSize
	if size <= 0 {
		size = 1
	}
	return cur.X-(prev.X+prev.W) > wordGapRatio*size
}
