package render

import (
	"fmt"
	"html/template"
	"strings"

	"taskdigest/internal/domain"
)

var htmlTpl = template.Must(template.New("report").Parse(`<!doctype html>
<html>
<head>
  <meta charset="utf-8">
  <title>{{ .App }}</title>
  <style>
    body { font-family: -apple-system, BlinkMacSystemFont, Segoe UI, Roboto, Arial, sans-serif; margin: 40px; }
    h1 { margin: 0 0 6px 0; }
    .muted { color: #666; }
    .card { border: 1px solid #eee; border-radius: 14px; padding: 18px; margin: 14px 0; }
    ul { margin: 10px 0 0 18px; }
    li { margin: 10px 0; line-height: 1.35; }
    .src { color: #777; font-size: 12px; margin-left: 8px; white-space: nowrap; }
    .cols { display: grid; grid-template-columns: 1fr 1fr 1fr; gap: 14px; }
    @media (max-width: 980px) { .cols { grid-template-columns: 1fr; } }
  </style>
</head>
<body>
  <h1>{{ .App }}</h1>
  <div class="muted">Generated: {{ .Generated }}</div>

  {{ if .Summary }}
  <div class="card">
    <h2 style="margin-top:0;">Manager Summary</h2>
    <ul>
      {{ range .Summary }}<li>{{ . }}</li>
      {{ end }}
    </ul>
  </div>
  {{ end }}

  <div class="cols">
    {{ range .Tiers }}
    <div class="card" style="margin:0;">
      <h3 style="margin-top:0;">{{ .Header }}</h3>
      <ul>
        {{ if not .Items }}<li class="muted">None</li>{{ end }}
        {{ range .Items }}<li><b>[{{ .Channel }}]</b> {{ .Text }}<span class="src">src: {{ .Source }}</span></li>
        {{ end }}
      </ul>
    </div>
    {{ end }}
  </div>

</body>
</html>
`))

type htmlItem struct {
	Channel string
	Text    string
	Source  string
}

type htmlTier struct {
	Header string
	Items  []htmlItem
}

type htmlPayload struct {
	App       string
	Generated string
	Summary   []string
	Tiers     []htmlTier
}

// HTML renders the compact markup view.
func (Compact) HTML(rep domain.Report) (string, error) {
	payload := htmlPayload{
		App:       rep.App,
		Generated: rep.Generated,
		Summary:   rep.ManagerSummary,
	}
	if len(payload.Summary) > maxSummaryLines {
		payload.Summary = payload.Summary[:maxSummaryLines]
	}

	for _, tier := range tierOrder {
		ht := htmlTier{Header: tierHeader(tier)}
		for _, it := range rep.Groups[tier] {
			ht.Items = append(ht.Items, htmlItem{
				Channel: domain.ChannelLabel(it.Channel),
				Text:    it.Text,
				Source:  it.Source,
			})
		}
		payload.Tiers = append(payload.Tiers, ht)
	}

	var b strings.Builder
	if err := htmlTpl.Execute(&b, payload); err != nil {
		return "", fmt.Errorf("render html: %w", err)
	}
	return b.String(), nil
}
