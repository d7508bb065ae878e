package render

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"

	"taskdigest/internal/domain"
)

func sampleReport() domain.Report {
	return domain.Report{
		App:            domain.AppTitle,
		RunID:          "run-1",
		Generated:      "2024-01-05T10:00:00",
		ManagerSummary: []string{"P0 - 1 tasks", "P1 - 0 tasks", "P2 - 1 tasks"},
		Groups: map[string][]domain.Item{
			domain.PriorityP0: {{Channel: "email", Text: "EMAIL: Settlement mismatch", Source: "email_Settlement mismatch", Priority: "P0"}},
			domain.PriorityP1: {},
			domain.PriorityP2: {{Channel: "doc", Text: "weekly planning recap", Source: "notes.txt:chunk0", Priority: "P2"}},
		},
	}
}

func TestMarkdownRender(t *testing.T) {
	t.Parallel()

	md := Compact{}.Markdown(sampleReport())

	for _, want := range []string{
		"# TaskDigest",
		"_Generated: 2024-01-05T10:00:00_",
		"## Manager Summary",
		"## 🔥 HIGH / P0",
		"- **[Email]** EMAIL: Settlement mismatch  _(src: email_Settlement mismatch)_",
		"## 🟡 MEDIUM / P1",
		"_None_",
		"## 🟢 LOW / P2",
	} {
		if !strings.Contains(md, want) {
			t.Fatalf("markdown missing %q:\n%s", want, md)
		}
	}
}

func TestHTMLRender(t *testing.T) {
	t.Parallel()

	out, err := Compact{}.HTML(sampleReport())
	if err != nil {
		t.Fatalf("HTML error: %v", err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(out))
	if err != nil {
		t.Fatalf("parse rendered html: %v", err)
	}

	if title := doc.Find("title").Text(); title != "TaskDigest" {
		t.Fatalf("unexpected title: %q", title)
	}
	if got := doc.Find("h3").Length(); got != 3 {
		t.Fatalf("expected 3 tier cards, got %d", got)
	}
	if summary := doc.Find(".card ul").First().Find("li").Length(); summary != 3 {
		t.Fatalf("expected 3 summary bullets, got %d", summary)
	}
	if !strings.Contains(doc.Find("body").Text(), "EMAIL: Settlement mismatch") {
		t.Fatalf("P0 item text missing from rendered html")
	}
}

func TestDirStoreWritesArtifacts(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "out")
	store, err := NewDirStore(dir)
	if err != nil {
		t.Fatalf("NewDirStore: %v", err)
	}

	if err := store.WriteJSON("report.json", sampleReport()); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}
	if err := store.WriteText("report.md", "# digest"); err != nil {
		t.Fatalf("WriteText: %v", err)
	}

	raw, err := os.ReadFile(filepath.Join(dir, "report.json"))
	if err != nil {
		t.Fatalf("read artifact: %v", err)
	}
	var rep domain.Report
	if err := json.Unmarshal(raw, &rep); err != nil {
		t.Fatalf("artifact is not valid json: %v", err)
	}
	if rep.RunID != "run-1" {
		t.Fatalf("unexpected run id: %s", rep.RunID)
	}
}
