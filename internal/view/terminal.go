package view

import (
	"fmt"
	"io"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
)

var (
	headwordStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")).MarginBottom(1)
	accentStyle   = lipgloss.NewStyle().Bold(true).Underline(true)
	posStyle      = lipgloss.NewStyle().Bold(true).MarginTop(1)
	tabStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("8")).PaddingLeft(2)
	itemStyle     = lipgloss.NewStyle().PaddingLeft(4)
	emptyStyle    = lipgloss.NewStyle().Faint(true).PaddingLeft(4)
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
)

// tabBullets mirrors the markers the HTML page uses per tab.
var tabBullets = map[string]string{
	TabDefinitions: "-",
	TabSynonyms:    "•",
	TabAntonyms:    "•",
	TabExamples:    "*",
}

// RenderText writes the page for a terminal. Every tab is printed in
// sequence since a terminal has no tab switching.
func RenderText(w io.Writer, p Page) error {
	var b strings.Builder

	switch {
	case p.FormError != "":
		b.WriteString(titleStyle.Render(p.FormError))
		b.WriteString("\n")
	case p.NotFound != nil:
		b.WriteString(titleStyle.Render(p.NotFound.Title))
		b.WriteString("\n")
		b.WriteString(p.NotFound.Message)
		b.WriteString("\n")
		if p.NotFound.Detail != "" {
			b.WriteString(emptyStyle.Render(p.NotFound.Detail))
			b.WriteString("\n")
		}
	case p.Found():
		writeFound(&b, p)
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func writeFound(b *strings.Builder, p Page) {
	b.WriteString(headwordStyle.Render(p.Headword))
	b.WriteString("\n")

	for _, pr := range p.Pronunciations {
		if pr.Accent != "" {
			b.WriteString(accentStyle.Render(pr.Accent))
			b.WriteString(" ")
		}
		fmt.Fprintf(b, "%q  %s\n", pr.Text, pr.AudioURL)
	}

	for _, m := range p.Meanings {
		b.WriteString(posStyle.Render(capitalize(m.PartOfSpeech)))
		b.WriteString("\n")
		for _, t := range m.Tabs {
			b.WriteString(tabStyle.Render(t.Label))
			b.WriteString("\n")
			if len(t.Items) == 0 {
				b.WriteString(emptyStyle.Render(t.Empty))
				b.WriteString("\n")
				continue
			}
			for _, item := range t.Items {
				b.WriteString(itemStyle.Render(tabBullets[t.Key] + " " + item))
				b.WriteString("\n")
			}
		}
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + s[size:]
}
