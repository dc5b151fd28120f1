package finder

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/octobees/outreach-api/internal/entity"
	"github.com/octobees/outreach-api/internal/llm"
	"github.com/octobees/outreach-api/internal/service/emailresolve"
	"github.com/octobees/outreach-api/internal/service/scoring"
)

// OutreachWriter drafts a short first message to a contact.
type OutreachWriter interface {
	Write(ctx context.Context, c entity.Contact, req Request, jobType scoring.JobType) (string, error)
}

const outreachSystem = "You write short, warm, specific outreach messages from a job seeker to a person at the hiring company. " +
	"Three sentences at most. No subject line, no placeholders, no sign-off."

// LLMOutreachWriter drafts messages with a text completer.
type LLMOutreachWriter struct {
	completer llm.Completer
}

// NewLLMOutreachWriter wraps completer.
func NewLLMOutreachWriter(completer llm.Completer) *LLMOutreachWriter {
	return &LLMOutreachWriter{completer: completer}
}

// Write asks the completer for a message to c about req's role.
func (w *LLMOutreachWriter) Write(ctx context.Context, c entity.Contact, req Request, jobType scoring.JobType) (string, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "Recipient: %s", c.DisplayName())
	if c.Title != "" {
		fmt.Fprintf(&b, ", %s", c.Title)
	}
	fmt.Fprintf(&b, " at %s.\n", req.Company)
	if req.JobTitle != "" {
		fmt.Fprintf(&b, "Role: %s (%s).\n", req.JobTitle, jobType)
	}
	b.WriteString("Ask whether they are the right person to talk to about the role.")

	text, err := w.completer.Complete(ctx, outreachSystem, b.String())
	if err != nil {
		return "", fmt.Errorf("generate outreach: %w", err)
	}
	return llm.CleanText(text), nil
}

// writeOutreach fills items[i].Outreach in place. Failures leave it empty.
func (d deps) writeOutreach(ctx context.Context, req Request, jobType scoring.JobType, items []entity.ResolvedContact) {
	var g errgroup.Group
	g.SetLimit(emailresolve.BatchConcurrency)
	for i := range items {
		g.Go(func() error {
			text, err := d.writer.Write(ctx, items[i].Contact, req, jobType)
			if err != nil {
				d.logger.Warnf("outreach generation failed contact=%q err=%v", items[i].Contact.DisplayName(), err)
				return nil
			}
			items[i].Outreach = text
			return nil
		})
	}
	_ = g.Wait()
}
