package parse

import (
	"regexp"
	"strings"

	"taskdigest/internal/detect"
	"taskdigest/internal/domain"
)

var slackRootRe = regexp.MustCompile(`^\[(\d{2}:\d{2})\]\s*([^:]+?):\s*(.*)\s*$`)

// SlackParser splits a chat export into events separated by standalone ---
// lines. The root message is the first unindented [HH:MM] Name: line;
// replies stay inside the raw text. Blocks without a root are unparsable
// noise and are silently skipped.
type SlackParser struct{}

func (SlackParser) Format() detect.Format { return detect.FormatSlack }

func (SlackParser) Parse(text, docName string) []domain.EventCard {
	var cards []domain.EventCard

	for _, block := range separatorRe.Split(text, -1) {
		block = strings.Trim(block, "\n")
		if strings.TrimSpace(block) == "" {
			continue
		}

		var rootTime, rootName, rootMsg string
		for _, line := range strings.Split(block, "\n") {
			if strings.TrimSpace(line) == "" {
				continue
			}
			if strings.HasPrefix(line, " ") || strings.HasPrefix(line, "\t") {
				continue
			}
			if m := slackRootRe.FindStringSubmatch(strings.TrimSpace(line)); m != nil {
				rootTime = m[1]
				rootName = strings.TrimSpace(m[2])
				rootMsg = strings.TrimSpace(m[3])
				break
			}
		}

		if rootTime == "" || rootName == "" {
			continue
		}

		cards = append(cards, domain.EventCard{
			Kind:       domain.KindSlack,
			Src:        domain.SlackSrc(rootTime, rootName),
			SourceFile: docName,
			RawText:    strings.TrimSpace(block),
			Time:       rootTime,
			Author:     rootName,
			Root:       rootMsg,
		})
	}

	return cards
}
