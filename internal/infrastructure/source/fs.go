// Package source loads raw documents from a directory tree.
package source

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"taskdigest/internal/domain"
	"taskdigest/internal/ports"
)

var supportedExts = map[string]struct{}{
	".txt":  {},
	".md":   {},
	".json": {},
	".html": {},
}

// FSSource walks a root directory and yields one Document per supported
// file, in lexical path order.
type FSSource struct {
	root   string
	logger *slog.Logger
}

var _ ports.DocumentSource = (*FSSource)(nil)

// NewFSSource wires the input root.
func NewFSSource(root string, logger *slog.Logger) *FSSource {
	return &FSSource{root: root, logger: logger}
}

// Load reads every supported file under the root. A missing root is the one
// fatal input error; unreadable or empty files are skipped with a warning.
func (s *FSSource) Load(ctx context.Context) ([]domain.Document, error) {
	if _, err := os.Stat(s.root); err != nil {
		return nil, fmt.Errorf("input dir %s: %w", s.root, err)
	}

	var docs []domain.Document
	err := filepath.WalkDir(s.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if d.IsDir() {
			return nil
		}

		ext := strings.ToLower(filepath.Ext(path))
		if _, ok := supportedExts[ext]; !ok {
			return nil
		}

		raw, err := os.ReadFile(path)
		if err != nil {
			s.warn("skipping unreadable file", "path", path, "error", err)
			return nil
		}

		text := strings.TrimSpace(decode(ext, raw))
		if text == "" {
			return nil
		}
		docs = append(docs, domain.Document{Name: filepath.Base(path), Text: text})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk input dir: %w", err)
	}

	return docs, nil
}

func decode(ext string, raw []byte) string {
	switch ext {
	case ".json":
		return jsonText(raw)
	case ".html":
		return htmlText(raw)
	}
	return string(raw)
}

// jsonText pulls a usable text body out of a JSON file: objects with a
// "text" key use it, arrays join element-wise, anything else is
// pretty-printed. Invalid JSON falls back to the raw bytes.
func jsonText(raw []byte) string {
	var data any
	if err := json.Unmarshal(raw, &data); err != nil {
		return string(raw)
	}

	switch v := data.(type) {
	case map[string]any:
		if t, ok := v["text"]; ok {
			return fmt.Sprint(t)
		}
	case []any:
		lines := make([]string, 0, len(v))
		for _, x := range v {
			lines = append(lines, fmt.Sprint(x))
		}
		return strings.Join(lines, "\n")
	}

	pretty, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return string(raw)
	}
	return string(pretty)
}

// htmlText extracts the visible text of an HTML document, dropping script
// and style content.
func htmlText(raw []byte) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(raw)))
	if err != nil {
		return string(raw)
	}
	doc.Find("script, style").Remove()

	var lines []string
	for _, line := range strings.Split(doc.Text(), "\n") {
		if l := strings.TrimSpace(line); l != "" {
			lines = append(lines, l)
		}
	}
	return strings.Join(lines, "\n")
}

func (s *FSSource) warn(msg string, args ...any) {
	if s.logger != nil {
		s.logger.Warn(msg, args...)
	}
}
