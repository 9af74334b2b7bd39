package source

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"invoiceparts/internal"
)

// FormatOf maps a file name to its document format by extension.
func FormatOf(name string) (internal.DocumentFormat, bool) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".pdf":
		return internal.FormatPDF, true
	case ".txt":
		return internal.FormatText, true
	case ".xlsx":
		return internal.FormatXLSX, true
	case ".eml":
		return internal.FormatEML, true
	case ".html", ".htm":
		return internal.FormatHTML, true
	}
	return "", false
}

func Supported(name string) bool {
	_, ok := FormatOf(name)
	return ok
}

// ReadFile returns the plain text of the document at path.
func ReadFile(path string) (string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return "", &internal.SourceReadError{Path: path, Cause: err}
	}
	return ReadBytes(path, content)
}

// ReadBytes extracts text from an in-memory document. The format comes from
// the extension of name.
func ReadBytes(name string, content []byte) (string, error) {
	format, ok := FormatOf(name)
	if !ok {
		return "", &internal.SourceReadError{Path: name, Cause: internal.ErrUnsupportedFormat}
	}

	var (
		text string
		err  error
	)
	switch format {
	case internal.FormatPDF:
		text, err = readPDF(content)
	case internal.FormatText:
		text = normalizeNewlines(string(content))
	case internal.FormatXLSX:
		text, err = readXLSX(content)
	case internal.FormatEML:
		text, err = readEML(content)
	case internal.FormatHTML:
		text, err = readHTML(string(content))
	}
	if err != nil {
		return "", &internal.SourceReadError{Path: name, Cause: err}
	}
	return text, nil
}

// Discover expands inputs into document paths. Directories are walked
// recursively and only supported files are kept; explicit files are kept as
// given so unsupported ones surface as read errors later. Output is in lexical
// order per directory, inputs in the order given, without duplicates.
func Discover(inputs []string) ([]string, error) {
	seen := map[string]struct{}{}
	var out []string
	add := func(p string) {
		clean := filepath.Clean(p)
		if _, ok := seen[clean]; ok {
			return
		}
		seen[clean] = struct{}{}
		out = append(out, clean)
	}

	for _, input := range inputs {
		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		info, err := os.Stat(input)
		if err != nil {
			return nil, fmt.Errorf("input %s: %w", input, err)
		}
		if !info.IsDir() {
			add(input)
			continue
		}

		var found []string
		err = filepath.WalkDir(input, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() || !Supported(path) {
				return nil
			}
			found = append(found, path)
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walk %s: %w", input, err)
		}
		sort.Strings(found)
		for _, p := range found {
			add(p)
		}
	}

	if len(out) == 0 {
		return nil, internal.ErrNoDocuments
	}
	return out, nil
}

func normalizeNewlines(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return strings.ReplaceAll(text, "\r", "\n")
}
