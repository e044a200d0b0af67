package format

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"

	"github.com/csheth/lexdesk/internal/advice"
)

func TestFormatClassifiesLines(t *testing.T) {
	doc := Format("FIRST INFORMATION REPORT\nName: [YOUR NAME]\n\nVisit https://x.y\nSee HTTP LINK\nDATE: [DD/MM]")

	want := []Line{
		{Text: "FIRST INFORMATION REPORT", Heading: true},
		{Text: "Name: [YOUR NAME]", Placeholder: true},
		{Text: "", Blank: true},
		{Text: "Visit https://x.y"},
		{Text: "See HTTP LINK"},
		{Text: "DATE: [DD/MM]", Heading: true, Placeholder: true},
	}
	if diff := cmp.Diff(want, doc.Lines); diff != "" {
		t.Fatalf("lines mismatch (-want +got):\n%s", diff)
	}
	assert.False(t, doc.Draft)
}

func TestIsHeading(t *testing.T) {
	tests := map[string]bool{
		"NOTICE":        true,
		"BAIL":          false,
		"SHORT":         false,
		"Notice to you": false,
		"HTTPS LINK":    false,
		"SECTION 420":   true,
		"ÉÉÉÉÉÉ":        true,
		"      ":        true,
	}
	for line, want := range tests {
		assert.Equal(t, want, IsHeading(line), "IsHeading(%q)", line)
	}
}

func TestHasPlaceholderAllowsUnpaired(t *testing.T) {
	assert.True(t, HasPlaceholder("] and ["))
	assert.True(t, HasPlaceholder("[NAME]"))
	assert.False(t, HasPlaceholder("[NAME"))
	assert.False(t, HasPlaceholder("plain"))
}

func TestContainsDraft(t *testing.T) {
	assert.True(t, ContainsDraft("TO,\nThe SHO"))
	assert.True(t, ContainsDraft("Subject: Complaint"))
	assert.True(t, ContainsDraft("intro\n---\nbody"))
	assert.False(t, ContainsDraft("to, the officer"))
	assert.True(t, Format("Subject: Notice").Draft)
}

func TestCitationLabel(t *testing.T) {
	assert.Equal(t, "Short title", CitationLabel("Short title"))
	assert.Equal(t, "12345678901234567890", CitationLabel("12345678901234567890"))
	assert.Equal(t, "Supreme Court of Ind...", CitationLabel("Supreme Court of India Judgment"))
}

func TestCitationsPreserveOrder(t *testing.T) {
	got := Citations([]advice.Source{
		{Title: "Indian Kanoon Judgment Archive", URI: "https://a"},
		{Title: "LiveLaw", URI: "https://b"},
	})
	want := []Citation{
		{Label: "Indian Kanoon Judgme...", URI: "https://a"},
		{Label: "LiveLaw", URI: "https://b"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("citations mismatch (-want +got):\n%s", diff)
	}
}
