package parse

import (
	"regexp"
	"strings"

	"taskdigest/internal/detect"
	"taskdigest/internal/domain"
)

var (
	emailSubjectRe  = regexp.MustCompile(`(?m)^\s*Subject:\s*(.+?)\s*$`)
	subjectLineRe   = regexp.MustCompile(`(?m)^[ \t]*Subject:.*\n?`)
	fromLineRe      = regexp.MustCompile(`(?m)^[ \t]*From:.*\n?`)
	emailFromRe     = regexp.MustCompile(`(?m)^\s*From:\s*(.+?)\s*$`)
	emailBoundaryRe = regexp.MustCompile(`(?m)^\s*Subject:`)
)

// EmailParser splits a mail dump into threads, one per Subject: line.
type EmailParser struct{}

func (EmailParser) Format() detect.Format { return detect.FormatEmail }

func (EmailParser) Parse(text, docName string) []domain.EventCard {
	var cards []domain.EventCard

	for _, block := range splitBefore(text, emailBoundaryRe) {
		sm := emailSubjectRe.FindStringSubmatch(block)
		if sm == nil {
			continue
		}
		subject := strings.TrimSpace(sm[1])

		from := ""
		if fm := emailFromRe.FindStringSubmatch(block); fm != nil {
			from = strings.TrimSpace(fm[1])
		}

		cards = append(cards, domain.EventCard{
			Kind:       domain.KindEmail,
			Src:        domain.EmailSrc(subject),
			SourceFile: docName,
			RawText:    strings.TrimSpace(block),
			Subject:    subject,
			From:       from,
			Body:       emailBody(block),
		})
	}

	return cards
}

// emailBody strips the first Subject: and From: lines so the body stays
// readable without repeating the envelope.
func emailBody(block string) string {
	body := removeFirst(block, subjectLineRe)
	body = removeFirst(body, fromLineRe)
	return strings.TrimSpace(body)
}

func removeFirst(s string, re *regexp.Regexp) string {
	loc := re.FindStringIndex(s)
	if loc == nil {
		return s
	}
	return s[:loc[0]] + s[loc[1]:]
}
