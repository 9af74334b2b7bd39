package source

import (
	"bytes"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/jhillyerd/enmime"
)

// readEML returns the message body followed by the text of every supported
// attachment. Attachments that cannot be read are skipped.
func readEML(content []byte) (string, error) {
	env, err := enmime.ReadEnvelope(bytes.NewReader(content))
	if err != nil {
		return "", err
	}

	var parts []string
	body := normalizeNewlines(env.Text)
	if strings.TrimSpace(body) == "" && env.HTML != "" {
		body, err = readHTML(env.HTML)
		if err != nil {
			return "", err
		}
	}
	if strings.TrimSpace(body) != "" {
		parts = append(parts, body)
	}

	for _, att := range env.Attachments {
		name := strings.TrimSpace(att.FileName)
		if name == "" || !Supported(name) {
			continue
		}
		text, err := ReadBytes(name, att.Content)
		if err != nil || strings.TrimSpace(text) == "" {
			continue
		}
		parts = append(parts, text)
	}

	return strings.Join(parts, "\n"), nil
}

var blockTags = map[string]bool{
	"p": true, "div": true, "tr": true, "li": true, "table": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"section": true, "article": true, "header": true, "footer": true, "pre": true,
}

// readHTML flattens markup into lines: block elements and table rows start a
// new line, table cells are separated by a space.
func readHTML(markup string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return "", err
	}

	var b strings.Builder
	writeHTMLText(doc.Selection, &b)

	var lines []string
	for _, line := range strings.Split(b.String(), "\n") {
		if line = strings.Join(strings.Fields(line), " "); line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n"), nil
}

func writeHTMLText(sel *goquery.Selection, b *strings.Builder) {
	sel.Contents().Each(func(_ int, s *goquery.Selection) {
		switch name := goquery.NodeName(s); {
		case name == "#text":
			b.WriteString(strings.ReplaceAll(s.Text(), "\n", " "))
		case name == "script" || name == "style" || name == "head":
		case name == "br":
			b.WriteByte('\n')
		case name == "td" || name == "th":
			writeHTMLText(s, b)
			b.WriteByte(' ')
		case blockTags[name]:
			b.WriteByte('\n')
			writeHTMLText(s, b)
			b.WriteByte('\n')
		default:
			writeHTMLText(s, b)
		}
	})
}
