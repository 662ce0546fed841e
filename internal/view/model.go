// Package view derives render-ready pages from lookup state and renders
// them as HTML or terminal text.
package view

import (
	"fmt"
	"net/url"
	"path"
	"strings"

	"github.com/heartmarshall/words/internal/domain"
	"github.com/heartmarshall/words/internal/service/lookup"
)

// Policy decides how much of a lookup failure the page reveals.
type Policy string

const (
	// PolicyCollapsed shows the same "no definitions" message for every failure.
	PolicyCollapsed Policy = "collapsed"
	// PolicyDetailed adds the failure kind and a short reason.
	PolicyDetailed Policy = "detailed"
)

// ParsePolicy maps a config value onto a Policy, defaulting to collapsed.
func ParsePolicy(s string) Policy {
	if strings.EqualFold(strings.TrimSpace(s), string(PolicyDetailed)) {
		return PolicyDetailed
	}
	return PolicyCollapsed
}

// Tab keys, in display order.
const (
	TabDefinitions = "definitions"
	TabSynonyms    = "synonyms"
	TabAntonyms    = "antonyms"
	TabExamples    = "examples"
)

// Messages shown by the page.
const (
	NotFoundTitle   = "No Definitions Found"
	NotFoundMessage = "The word you searched for could not be found."
	NoDefinitions   = "No definitions available."
	NoSynonyms      = "No synonyms available."
	NoAntonyms      = "No antonyms available."
	NoExamples      = "No examples available."
)

// Page is the view model consumed by every renderer.
type Page struct {
	Status string `json:"status"`
	Busy   bool   `json:"busy"`
	Term   string `json:"term,omitempty"`
	Seq    uint64 `json:"seq"`

	// FormError is an inline validation message for the search field.
	FormError string `json:"formError,omitempty"`

	NotFound       *NotFound       `json:"notFound,omitempty"`
	Headword       string          `json:"headword,omitempty"`
	Pronunciations []Pronunciation `json:"pronunciations,omitempty"`
	Meanings       []Meaning       `json:"meanings,omitempty"`
}

// NotSearched reports whether nothing has been looked up yet.
func (p Page) NotSearched() bool { return p.Status == domain.ResultNotSearched.String() }

// Found reports whether the page carries entries.
func (p Page) Found() bool { return p.Status == domain.ResultFound.String() }

// NotFound is the failure panel.
type NotFound struct {
	Title   string `json:"title"`
	Message string `json:"message"`
	Kind    string `json:"kind,omitempty"`
	Detail  string `json:"detail,omitempty"`
}

// Pronunciation is a phonetic with playable audio, keyed by its position
// among the audio-bearing phonetics.
type Pronunciation struct {
	Index    int    `json:"index"`
	Accent   string `json:"accent,omitempty"`
	Text     string `json:"text"`
	AudioURL string `json:"audioUrl"`
}

// Meaning is one part-of-speech group with its tab set.
type Meaning struct {
	ID           string `json:"id"`
	PartOfSpeech string `json:"partOfSpeech"`
	Tabs         []Tab  `json:"tabs"`
}

// Tab is one panel of a meaning. Exactly one of Items or Empty is set.
type Tab struct {
	Key   string   `json:"key"`
	Label string   `json:"label"`
	Items []string `json:"items,omitempty"`
	Empty string   `json:"empty,omitempty"`
}

// Build derives the page for a controller snapshot.
func Build(s lookup.State, policy Policy) Page {
	p := Page{
		Status: s.Result.Kind().String(),
		Busy:   s.Busy,
		Term:   s.Term,
		Seq:    s.Seq,
	}

	switch s.Result.Kind() {
	case domain.ResultNotFound:
		p.NotFound = buildNotFound(s.Result.Failure(), policy)
	case domain.ResultFound:
		entries := s.Result.Entries()
		if len(entries) == 0 {
			break
		}
		p.Headword = entries[0].Word
		p.Pronunciations = buildPronunciations(entries[0].Phonetics)
		for _, e := range entries {
			for _, m := range e.Meanings {
				p.Meanings = append(p.Meanings, buildMeaning(len(p.Meanings), m))
			}
		}
	}

	return p
}

func buildNotFound(f *domain.LookupFailure, policy Policy) *NotFound {
	nf := &NotFound{Title: NotFoundTitle, Message: NotFoundMessage}
	if policy != PolicyDetailed || f == nil {
		return nf
	}
	nf.Kind = f.Kind.String()
	switch f.Kind {
	case domain.FailureNotFoundByService:
		nf.Detail = "The dictionary has no entry for this word."
	case domain.FailureServiceError:
		nf.Detail = fmt.Sprintf("The dictionary service answered with status %d.", f.Status)
	case domain.FailureNetworkError:
		nf.Detail = "The dictionary service could not be reached."
	case domain.FailureParseError:
		nf.Detail = "The dictionary service sent a response that could not be read."
	}
	return nf
}

func buildPronunciations(phonetics []domain.Phonetic) []Pronunciation {
	var out []Pronunciation
	for _, ph := range phonetics {
		if !ph.HasAudio() {
			continue
		}
		out = append(out, Pronunciation{
			Index:    len(out),
			Accent:   AccentFromAudio(ph.AudioURL),
			Text:     ph.Text,
			AudioURL: ph.AudioURL,
		})
	}
	return out
}

func buildMeaning(idx int, m domain.Meaning) Meaning {
	defs := make([]string, 0, len(m.Definitions))
	var examples []string
	for _, d := range m.Definitions {
		defs = append(defs, d.Text)
		if d.HasExample() {
			examples = append(examples, *d.Example)
		}
	}

	return Meaning{
		ID:           fmt.Sprintf("meaning-%d", idx),
		PartOfSpeech: m.PartOfSpeech,
		Tabs: []Tab{
			newTab(TabDefinitions, "Definitions", defs, NoDefinitions),
			newTab(TabSynonyms, "Synonyms", m.Synonyms, NoSynonyms),
			newTab(TabAntonyms, "Antonyms", m.Antonyms, NoAntonyms),
			newTab(TabExamples, "Examples", examples, NoExamples),
		},
	}
}

func newTab(key, label string, items []string, empty string) Tab {
	if len(items) == 0 {
		return Tab{Key: key, Label: label, Empty: empty}
	}
	return Tab{Key: key, Label: label, Items: items}
}

// AccentFromAudio extracts the accent tag from an audio file name such as
// ".../hello-uk.mp3" ("UK"). It returns "" when the name carries no tag.
func AccentFromAudio(audioURL string) string {
	p := audioURL
	if u, err := url.Parse(audioURL); err == nil && u.Path != "" {
		p = u.Path
	}
	base := path.Base(p)

	i := strings.LastIndex(base, "-")
	if i < 0 {
		return ""
	}
	tag, _, _ := strings.Cut(base[i+1:], ".")
	return strings.ToUpper(tag)
}
