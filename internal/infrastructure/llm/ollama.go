// Package llm implements the enrichment and summary collaborators against a
// local Ollama daemon, plus the no-op fallback used when it is unavailable.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"regexp"
	"strings"
	"time"

	"taskdigest/internal/domain"
	"taskdigest/internal/ports"
)

// Options configure the Ollama client.
type Options struct {
	BaseURL          string
	Model            string
	ExtractTimeout   time.Duration
	SummarizeTimeout time.Duration
}

// OllamaClient talks to /api/generate, which works even where /api/chat is
// not available.
type OllamaClient struct {
	baseURL   string
	model     string
	extract   *http.Client
	summarize *http.Client
	logger    *slog.Logger
}

var (
	_ ports.Extractor  = (*OllamaClient)(nil)
	_ ports.Summarizer = (*OllamaClient)(nil)
)

// NewOllamaClient builds a client; separate timeouts apply to extraction and
// summarization calls.
func NewOllamaClient(opts Options, logger *slog.Logger) *OllamaClient {
	if opts.ExtractTimeout <= 0 {
		opts.ExtractTimeout = 45 * time.Second
	}
	if opts.SummarizeTimeout <= 0 {
		opts.SummarizeTimeout = 120 * time.Second
	}
	return &OllamaClient{
		baseURL:   strings.TrimSuffix(opts.BaseURL, "/"),
		model:     opts.Model,
		extract:   &http.Client{Timeout: opts.ExtractTimeout},
		summarize: &http.Client{Timeout: opts.SummarizeTimeout},
		logger:    logger,
	}
}

// Available probes the daemon's tag listing.
func Available(baseURL string, timeout time.Duration) bool {
	client := &http.Client{Timeout: timeout}
	resp, err := client.Get(strings.TrimSuffix(baseURL, "/") + "/api/tags")
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

// wireItem is the schema the model is asked to produce.
type wireItem struct {
	Type     string        `json:"type"`
	Priority string        `json:"priority"`
	Channel  string        `json:"channel"`
	Text     string        `json:"text"`
	Owner    *string       `json:"owner"`
	Due      *string       `json:"due"`
	Flags    *domain.Flags `json:"flags"`
	Source   string        `json:"source"`
}

// ExtractItems asks the model for operational updates in one chunk. Any
// malformed response yields an empty item list, never an error that would
// abort the run.
func (c *OllamaClient) ExtractItems(ctx context.Context, chunkText, source string) ([]domain.Item, error) {
	raw, err := c.generate(ctx, c.extract, extractPrompt(chunkText, source))
	if err != nil {
		return nil, fmt.Errorf("ollama extract: %w", err)
	}

	var parsed struct {
		Items []json.RawMessage `json:"items"`
	}
	if err := json.Unmarshal(salvageJSON(raw), &parsed); err != nil || parsed.Items == nil {
		c.warn("extract response failed schema validation", "source", source)
		return nil, nil
	}

	var out []domain.Item
	for _, rawIt := range parsed.Items {
		var wi wireItem
		if err := json.Unmarshal(rawIt, &wi); err != nil {
			continue
		}
		if wi.Type == "" || wi.Text == "" {
			continue
		}
		it := domain.Item{
			Type:     wi.Type,
			Priority: wi.Priority,
			Channel:  wi.Channel,
			Text:     wi.Text,
			Flags:    wi.Flags,
			Source:   source, // a mismatched echo is a collaborator bug
		}
		if wi.Owner != nil {
			it.Owner = *wi.Owner
		}
		if wi.Due != nil {
			it.Due = *wi.Due
		}
		out = append(out, it)
	}

	return out, nil
}

// Summarize asks the model for manager-ready bullets over the flattened
// items. Malformed output yields zero lines; the pipeline substitutes its
// deterministic disclosure.
func (c *OllamaClient) Summarize(ctx context.Context, items []domain.Item) ([]string, error) {
	itemsJSON, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal items: %w", err)
	}

	raw, err := c.generate(ctx, c.summarize, summarizePrompt(string(itemsJSON)))
	if err != nil {
		return nil, fmt.Errorf("ollama summarize: %w", err)
	}

	var parsed struct {
		ManagerSummary []any `json:"manager_summary"`
	}
	if err := json.Unmarshal(salvageJSON(raw), &parsed); err != nil || parsed.ManagerSummary == nil {
		c.warn("summary response failed schema validation")
		return nil, nil
	}

	var bullets []string
	for _, x := range parsed.ManagerSummary {
		if s, ok := x.(string); ok && strings.TrimSpace(s) != "" {
			bullets = append(bullets, strings.TrimSpace(s))
		}
	}
	return bullets, nil
}

func (c *OllamaClient) generate(ctx context.Context, client *http.Client, prompt string) (string, error) {
	body, err := json.Marshal(map[string]any{
		"model": c.model,
		"prompt": "SYSTEM: You are a precise assistant. Return ONLY valid JSON. Do not add extra keys.\n\n" +
			"USER:\n" + prompt + "\n",
		"stream":  false,
		"options": map[string]any{"temperature": 0.1},
	})
	if err != nil {
		return "", fmt.Errorf("marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/generate", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", fmt.Errorf("ollama error %s: %s", resp.Status, strings.TrimSpace(string(payload)))
	}

	var data struct {
		Response string `json:"response"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	return data.Response, nil
}

func (c *OllamaClient) warn(msg string, args ...any) {
	if c.logger != nil {
		c.logger.Warn(msg, args...)
	}
}

var fenceRe = regexp.MustCompile("(?i)```(?:json)?")

// salvageJSON extracts the first valid JSON object or array from a model
// response that may wrap it in prose or code fences.
func salvageJSON(text string) []byte {
	text = strings.TrimSpace(fenceRe.ReplaceAllString(text, ""))
	if text == "" {
		return []byte("null")
	}

	start := len(text)
	if i := strings.IndexByte(text, '{'); i >= 0 && i < start {
		start = i
	}
	if i := strings.IndexByte(text, '['); i >= 0 && i < start {
		start = i
	}
	if start == len(text) {
		return []byte("null")
	}

	candidate := text[start:]
	if json.Valid([]byte(candidate)) {
		return []byte(candidate)
	}

	// trailing prose: trim from the end until something parses
	floor := 0
	if len(candidate) > 12000 {
		floor = len(candidate) - 12000
	}
	for i := len(candidate); i > floor; i-- {
		sub := strings.TrimSpace(candidate[:i])
		if sub != "" && json.Valid([]byte(sub)) {
			return []byte(sub)
		}
	}
	return []byte("null")
}

func extractPrompt(chunkText, source string) string {
	return fmt.Sprintf(`Extract operational updates from the text.

Return ONLY JSON in this exact format:
{
  "items": [
    {
      "type":"done|blocker|risk|decision|question|info",
      "priority":"P0|P1|P2",
      "channel":"email|slack|standup|doc",
      "text":"...",
      "owner":null,
      "due":null,
      "flags": {
        "requires_action": true|false,
        "manager_attention": true|false,
        "financial_risk": true|false,
        "blocking": true|false,
        "informational": true|false
      },
      "source":%[1]q
    }
  ]
}

Rules:
- Keep each item short (<= 200 chars).
- priority:
  - P0: money mismatch, incident/outage, compliance breach, "pause now", urgent escalation
  - P1: needs review today, suspicious spikes, access issues impacting investigation
  - P2: informational updates, monitoring, planning
- channel: pick best match (email/slack/standup/doc).
- flags:
  - requires_action: follow-up needed
  - manager_attention: needs escalation/approval/owner assignment
  - financial_risk: money involved (mismatch, payout, chargeback)
  - blocking: blocks progress (e.g., no access / cannot proceed)
  - informational: purely FYI
- If owner is mentioned, set "owner" (name/role). Otherwise null.
- If a due date is mentioned, set "due" as YYYY-MM-DD. Otherwise null.
- ALWAYS set source exactly to %[1]q for every item.
- Do NOT invent facts. If nothing found, return { "items": [] }.

TEXT:
%s`, source, chunkText)
}

func summarizePrompt(itemsJSON string) string {
	return fmt.Sprintf(`You will receive extracted operational items as a JSON array.
Return ONLY JSON in this exact format:

{
  "manager_summary": ["bullet 1", "bullet 2", "bullet 3", "bullet 4", "bullet 5"]
}

Rules:
- 5-8 bullets max, concise and manager-ready.
- Mention the biggest P0/P1 risks and required actions.
- Do NOT hallucinate: only summarize what's in ITEMS.

ITEMS:
%s`, itemsJSON)
}
