package advice

import (
	"context"
	"fmt"
	"strings"
)

// Mock is an offline Adviser that answers deterministically. It powers demos
// without credentials and the UI tests.
type Mock struct{}

// NewMock returns the offline adviser.
func NewMock() *Mock {
	return &Mock{}
}

func (m *Mock) Name() string {
	return "Mock (offline)"
}

func (m *Mock) Advise(ctx context.Context, prompt string, history []Turn) (Reply, error) {
	if err := ctx.Err(); err != nil {
		return Reply{}, fail("mock", "advise", err)
	}
	if strings.TrimSpace(prompt) == "" {
		return Reply{}, fail("mock", "advise", ErrEmptyPrompt)
	}
	if strings.Contains(strings.ToLower(prompt), "legal updates") {
		return Reply{
			Text: mockNews,
			Sources: []Source{
				{Title: "LiveLaw", URI: "https://www.livelaw.in/top-stories"},
			},
		}, nil
	}

	subject := strings.TrimSpace(prompt)
	if first, _, ok := strings.Cut(subject, "\n"); ok {
		subject = first
	}
	subject = clipText(subject, 80)

	var b strings.Builder
	b.WriteString("**Preliminary Assessment**\n\n")
	fmt.Fprintf(&b, "You asked: %s\n\n", subject)
	if len(history) > 0 {
		fmt.Fprintf(&b, "I have %d earlier message(s) of context for this matter.\n\n", len(history))
	}
	b.WriteString("**Suggested Next Steps:**\n")
	b.WriteString("1. Record the facts in writing with dates and places.\n")
	b.WriteString("2. Replace [YOUR NAME] and [DATE] in any draft before filing.\n\n")
	b.WriteString("Disclaimer: This is AI guidance, not legal advice.")

	return Reply{
		Text: b.String(),
		Sources: []Source{
			{Title: "India Code", URI: "https://www.indiacode.nic.in"},
		},
	}, nil
}

const mockNews = `1. Bail Reform Ruling: The Supreme Court reiterated that bail is the rule and jail the exception.
2. BNSS Transition: High Courts clarified how pending trials move to the new procedure code.
3. Data Protection Rules: The government notified rules under the Digital Personal Data Protection Act.
4. Cheque Bounce Guidelines: Summary trials under Section 138 NI Act were given fixed timelines.
5. Arbitration Update: Courts narrowed interference with arbitral awards.`
