// Package detect classifies whole documents into one of the supported
// formats using structural markers only.
package detect

import (
	"regexp"
	"strings"
)

// Format is the detected document class.
type Format string

const (
	FormatStandup Format = "standup"
	FormatSlack   Format = "slack"
	FormatEmail   Format = "email"
	FormatGeneric Format = "generic"
)

var (
	standupPlainRe = regexp.MustCompile(`(?m)^\s*STANDUP:\s*(.+?)\s*$`)
	standupMDRe    = regexp.MustCompile(`(?m)^#\s*Daily Standup\s*[–-]\s*.+$`)
	emailSubjectRe = regexp.MustCompile(`(?m)^\s*Subject:\s*(.+?)\s*$`)
	slackRootRe    = regexp.MustCompile(`^\[(\d{2}:\d{2})\]\s*([^:]+?):\s*(.*)\s*$`)
)

// Detect classifies text with a strict precedence: standup markers win over
// email subjects, which win over slack root lines. The order resolves
// ambiguous documents (an email quoting a timestamped line stays an email).
func Detect(text string) Format {
	switch {
	case looksLikeStandup(text):
		return FormatStandup
	case looksLikeEmail(text):
		return FormatEmail
	case looksLikeSlack(text):
		return FormatSlack
	}
	return FormatGeneric
}

func looksLikeStandup(text string) bool {
	return text != "" && (standupPlainRe.MatchString(text) || standupMDRe.MatchString(text))
}

func looksLikeEmail(text string) bool {
	return text != "" && emailSubjectRe.MatchString(text)
}

func looksLikeSlack(text string) bool {
	for _, line := range strings.Split(text, "\n") {
		if line == "" || strings.HasPrefix(line, " ") || strings.HasPrefix(line, "\t") {
			continue
		}
		if slackRootRe.MatchString(strings.TrimSpace(line)) {
			return true
		}
	}
	return false
}
