package domain

import (
	"regexp"
	"strings"
)

// EventKind discriminates the card variants.
type EventKind string

const (
	KindStandup EventKind = "standup"
	KindSlack   EventKind = "slack"
	KindEmail   EventKind = "email"
)

// Section names a standup bucket.
type Section string

const (
	SectionDone       Section = "DONE"
	SectionInProgress Section = "IN_PROGRESS"
	SectionBlockers   Section = "BLOCKERS"
	SectionRisks      Section = "RISKS"
	SectionQuestions  Section = "QUESTIONS"
)

// Sections lists the standup buckets in source order.
var Sections = []Section{SectionDone, SectionInProgress, SectionBlockers, SectionRisks, SectionQuestions}

// Document is a raw input file snapshot, immutable for the run.
type Document struct {
	Name string `json:"name"`
	Text string `json:"text"`
}

// EventCard is one logical event extracted from a document. Variant fields
// beyond Kind/Src/SourceFile/RawText are populated per kind.
type EventCard struct {
	Kind       EventKind `json:"kind"`
	Src        string    `json:"src"`
	SourceFile string    `json:"source_file"`
	RawText    string    `json:"raw_text"`

	// standup
	Team     string               `json:"team,omitempty"`
	Date     string               `json:"date,omitempty"`
	Sections map[Section][]string `json:"sections,omitempty"`

	// slack
	Time   string `json:"time,omitempty"`
	Author string `json:"name,omitempty"`
	Root   string `json:"root,omitempty"`

	// email
	Subject string `json:"subject,omitempty"`
	From    string `json:"from,omitempty"`
	Body    string `json:"body_text,omitempty"`
}

var (
	spaceRe    = regexp.MustCompile(`\s+`)
	slugRe     = regexp.MustCompile(`[^a-z0-9]+`)
	slugTrimRe = regexp.MustCompile(`_+`)
	tokenRe    = regexp.MustCompile(`[^\p{L}\p{N}_]+`)
)

func slug(s string) string {
	s = spaceRe.ReplaceAllString(strings.TrimSpace(s), " ")
	s = slugRe.ReplaceAllString(strings.ToLower(s), "_")
	s = strings.Trim(slugTrimRe.ReplaceAllString(s, "_"), "_")
	if s == "" {
		return "unknown"
	}
	return s
}

func nameToken(name string) string {
	n := spaceRe.ReplaceAllString(strings.TrimSpace(name), "_")
	n = tokenRe.ReplaceAllString(n, "")
	if n == "" {
		return "Unknown"
	}
	return n
}

// StandupSrc derives the stable id for a standup card. Identical
// (date, team) pairs always map to the same id.
func StandupSrc(date, team string) string {
	d := strings.TrimSpace(date)
	if d == "" {
		d = "no_date"
	}
	return "standup_" + d + ":" + slug(team)
}

// SlackSrc derives the stable id for a slack thread from its root line.
func SlackSrc(timeHM, author string) string {
	return "slack_" + timeHM + ":" + nameToken(author)
}

// EmailSrc derives the stable id for an email thread. The subject stays
// human-readable, only whitespace is normalized.
func EmailSrc(subject string) string {
	s := spaceRe.ReplaceAllString(strings.TrimSpace(subject), " ")
	if s == "" {
		return "email_no_subject"
	}
	return "email_" + s
}
