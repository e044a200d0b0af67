// Package news turns a free-text list of legal headlines into display items.
package news

import (
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/csheth/lexdesk/internal/advice"
)

const (
	// CanonicalPrompt asks for the headline list Extract understands.
	CanonicalPrompt = "List the top 5 most important recent legal updates or landmark judgments in India from the last 30 days. Format as a list with Title and a one-sentence summary."
	// DefaultFallbackURL is linked when the reply carried no sources.
	DefaultFallbackURL = "https://livelaw.in"

	DefaultTitle = "Legal Update"
	MaxItems     = 5
	DateLayout   = "Jan 2, 2006"

	// minLineChars is measured in runes.
	minLineChars = 10
)

var numberPrefix = regexp.MustCompile(`^\d\.\s*`)

// Item is one headline.
type Item struct {
	Title   string `json:"title"`
	Snippet string `json:"snippet"`
	URL     string `json:"url"`
	Date    string `json:"date"`
}

// Extract never fails: malformed text yields fewer or generic items.
func Extract(text string, sources []advice.Source, now time.Time, fallbackURL string) []Item {
	url := fallbackURL
	if url == "" {
		url = DefaultFallbackURL
	}
	if len(sources) > 0 && sources[0].URI != "" {
		url = sources[0].URI
	}
	date := now.Format(DateLayout)

	items := make([]Item, 0, MaxItems)
	for _, line := range strings.Split(text, "\n") {
		if len(items) == MaxItems {
			break
		}
		if utf8.RuneCountInString(strings.TrimSpace(line)) <= minLineChars {
			continue
		}
		items = append(items, Item{
			Title:   itemTitle(line),
			Snippet: itemSnippet(line),
			URL:     url,
			Date:    date,
		})
	}
	return items
}

func itemTitle(line string) string {
	stripped := numberPrefix.ReplaceAllString(line, "")
	title, _, _ := strings.Cut(stripped, ":")
	if strings.TrimSpace(title) == "" {
		return DefaultTitle
	}
	return title
}

func itemSnippet(line string) string {
	_, rest, found := strings.Cut(line, ":")
	if !found || rest == "" {
		return line
	}
	return rest
}
