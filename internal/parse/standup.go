package parse

import (
	"regexp"
	"strings"

	"taskdigest/internal/detect"
	"taskdigest/internal/domain"
)

var (
	standupHeaderRe = regexp.MustCompile(`(?m)^\s*STANDUP:\s*(.+?)\s*$`)
	dateLineRe      = regexp.MustCompile(`(?m)^\s*DATE:\s*([0-9]{4}-[0-9]{2}-[0-9]{2})\s*$`)
	separatorRe     = regexp.MustCompile(`(?m)^\s*---\s*$`)

	standupMDHeaderRe  = regexp.MustCompile(`(?m)^#\s*Daily Standup\s*[–-]\s*(.+?)\s*$`)
	standupMDSectionRe = regexp.MustCompile(`(?m)^##[ \t]*(.+?)[ \t]*$`)
)

var mdSectionTitles = map[string]domain.Section{
	"Done":             domain.SectionDone,
	"In Progress":      domain.SectionInProgress,
	"Blockers":         domain.SectionBlockers,
	"Risks / Concerns": domain.SectionRisks,
	"Questions":        domain.SectionQuestions,
}

// StandupParser handles both the plain STANDUP: form and the markdown
// fallback. The plain form wins when both markers appear.
type StandupParser struct{}

func (StandupParser) Format() detect.Format { return detect.FormatStandup }

func (p StandupParser) Parse(text, docName string) []domain.EventCard {
	if standupHeaderRe.MatchString(text) {
		return p.parsePlain(text, docName)
	}
	if standupMDHeaderRe.MatchString(text) {
		return p.parseMarkdown(text, docName)
	}
	return nil
}

func (StandupParser) parsePlain(text, docName string) []domain.EventCard {
	var cards []domain.EventCard

	for _, block := range splitBefore(text, standupHeaderRe) {
		// Anything past a standalone --- is accidental concatenation with a
		// following format and is discarded.
		block = firstSeparatedPart(block)

		m := standupHeaderRe.FindStringSubmatch(block)
		if m == nil {
			continue
		}
		team := strings.TrimSpace(m[1])

		date := ""
		if dm := dateLineRe.FindStringSubmatch(block); dm != nil {
			date = dm[1]
		}

		cards = append(cards, domain.EventCard{
			Kind:       domain.KindStandup,
			Src:        domain.StandupSrc(date, team),
			SourceFile: docName,
			RawText:    strings.TrimSpace(block),
			Team:       team,
			Date:       date,
			Sections:   parseSectionsPlain(block),
		})
	}

	return cards
}

func parseSectionsPlain(block string) map[domain.Section][]string {
	buf := map[domain.Section][]string{}
	var cur domain.Section
	have := false

	for _, line := range strings.Split(block, "\n") {
		if sec, ok := sectionHeader(line); ok {
			cur = sec
			have = true
			continue
		}
		if !have {
			continue
		}
		buf[cur] = append(buf[cur], line)
	}

	out := map[domain.Section][]string{}
	for _, sec := range domain.Sections {
		out[sec] = keepBullets(buf[sec])
	}
	return out
}

func sectionHeader(line string) (domain.Section, bool) {
	s := strings.ToUpper(strings.TrimSpace(line))
	for _, sec := range domain.Sections {
		if s == string(sec)+":" {
			return sec, true
		}
	}
	return "", false
}

func (StandupParser) parseMarkdown(text, docName string) []domain.EventCard {
	loc := standupMDHeaderRe.FindStringIndex(text)
	if loc == nil {
		return nil
	}
	text = text[loc[0]:]

	var cards []domain.EventCard
	for _, block := range splitBefore(text, standupMDHeaderRe) {
		block = strings.TrimSpace(block)
		m := standupMDHeaderRe.FindStringSubmatch(block)
		if m == nil {
			continue
		}
		team := strings.TrimSpace(m[1])

		sections := map[domain.Section][]string{}
		for _, sec := range domain.Sections {
			sections[sec] = nil
		}
		for title, body := range markdownSections(block) {
			if sec, ok := mdSectionTitles[title]; ok {
				sections[sec] = keepBullets(strings.Split(body, "\n"))
			}
		}

		cards = append(cards, domain.EventCard{
			Kind:       domain.KindStandup,
			Src:        domain.StandupSrc("", team),
			SourceFile: docName,
			RawText:    block,
			Team:       team,
			Sections:   sections,
		})
	}

	return cards
}

// markdownSections maps each ## header to the text up to the next ## header
// or the end of the block.
func markdownSections(block string) map[string]string {
	out := map[string]string{}
	matches := standupMDSectionRe.FindAllStringSubmatchIndex(block, -1)
	for i, m := range matches {
		title := block[m[2]:m[3]]
		bodyStart := m[1]
		bodyEnd := len(block)
		if i+1 < len(matches) {
			bodyEnd = matches[i+1][0]
		}
		if _, dup := out[title]; dup {
			continue
		}
		out[title] = strings.TrimSpace(block[bodyStart:bodyEnd])
	}
	return out
}

// splitBefore segments text at the start of each match, keeping the match in
// its segment. Text before the first match is dropped by callers that
// require a header.
func splitBefore(text string, re *regexp.Regexp) []string {
	locs := re.FindAllStringIndex(text, -1)
	if len(locs) == 0 {
		return nil
	}
	var out []string
	for i, loc := range locs {
		end := len(text)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		}
		seg := strings.TrimSpace(text[loc[0]:end])
		if seg != "" {
			out = append(out, seg)
		}
	}
	return out
}

func firstSeparatedPart(block string) string {
	for _, part := range separatorRe.Split(block, -1) {
		if p := strings.TrimSpace(part); p != "" {
			return p
		}
	}
	return block
}

// keepBullets extracts `- ` and `• ` bullet lines, trimmed, dropping
// placeholder values.
func keepBullets(lines []string) []string {
	var out []string
	for _, raw := range lines {
		s := strings.TrimSpace(raw)
		var bullet string
		switch {
		case strings.HasPrefix(s, "- "):
			bullet = strings.TrimSpace(s[2:])
		case strings.HasPrefix(s, "• "):
			bullet = strings.TrimSpace(strings.TrimPrefix(s, "• "))
		default:
			continue
		}
		if bullet == "" || isPlaceholder(bullet) {
			continue
		}
		out = append(out, bullet)
	}
	return out
}

func isPlaceholder(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "none", "n/a", "na", "-":
		return true
	}
	return false
}
