package source

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

func TestLoadSupportedFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "a_standup.txt", "STANDUP: Payments\nDONE:\n- x\n")
	writeFile(t, dir, "b_notes.md", "# meeting notes\nsome text\n")
	writeFile(t, dir, "c_export.json", `{"text": "exported body"}`)
	writeFile(t, dir, "d_page.html", "<html><head><style>p{}</style></head><body><p>visible text</p><script>x()</script></body></html>")
	writeFile(t, dir, "e_ignored.bin", "binary payload")
	writeFile(t, dir, "f_empty.txt", "   \n  ")

	docs, err := NewFSSource(dir, nil).Load(context.Background())
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}

	if len(docs) != 4 {
		t.Fatalf("expected 4 documents, got %d: %+v", len(docs), docs)
	}
	// lexical order by path
	if docs[0].Name != "a_standup.txt" || docs[3].Name != "d_page.html" {
		t.Fatalf("unexpected order: %s ... %s", docs[0].Name, docs[3].Name)
	}
	if docs[2].Text != "exported body" {
		t.Fatalf("json text not extracted: %q", docs[2].Text)
	}
	if docs[3].Text != "visible text" {
		t.Fatalf("html text not extracted: %q", docs[3].Text)
	}
}

func TestLoadMissingRootFails(t *testing.T) {
	t.Parallel()

	if _, err := NewFSSource(filepath.Join(t.TempDir(), "missing"), nil).Load(context.Background()); err == nil {
		t.Fatalf("missing input root must be fatal")
	}
}

func TestJSONFallbacks(t *testing.T) {
	t.Parallel()

	if got := jsonText([]byte(`["one", "two"]`)); got != "one\ntwo" {
		t.Fatalf("array join wrong: %q", got)
	}
	if got := jsonText([]byte(`not json at all`)); got != "not json at all" {
		t.Fatalf("invalid json should fall back to raw: %q", got)
	}
	if got := jsonText([]byte(`{"other": 1}`)); got != "{\n  \"other\": 1\n}" {
		t.Fatalf("object without text should pretty-print: %q", got)
	}
}
