package slack

import (
	"context"
	"fmt"
	"strings"

	"github.com/theopenlane/shelfcheck/internal/types"
)

// maxListedViolations caps the violations itemized in one alert
const maxListedViolations = 5

// Notify posts a risk alert for a completed scan
func (c *Client) Notify(ctx context.Context, r *types.ScanResult) error {
	if r == nil {
		return nil
	}

	return c.Send(ctx, c.ScanMessage(r))
}

// ScanMessage renders a scan as a Block Kit alert
func (c *Client) ScanMessage(r *types.ScanResult) Message {
	title := r.URL
	if r.Product != nil && r.Product.Title != "" {
		title = r.Product.Title
	}

	blocks := []Block{
		{
			Type: "header",
			Text: &TextObject{Type: "plain_text", Text: fmt.Sprintf("Compliance risk %d/100", r.RiskScore)},
		},
		{
			Type: "section",
			Text: markdown(fmt.Sprintf("*<%s|%s>*", r.URL, escape(title))),
			Fields: []TextObject{
				{Type: "mrkdwn", Text: fmt.Sprintf("*Category*\n%s", r.Category)},
				{Type: "mrkdwn", Text: fmt.Sprintf("*Trust index*\n%d", r.TrustIndex.Score)},
				{Type: "mrkdwn", Text: fmt.Sprintf("*Violations*\n%d", len(r.Violations))},
				{Type: "mrkdwn", Text: fmt.Sprintf("*Dark patterns*\n%d", len(r.DarkPatterns))},
			},
		},
	}

	if len(r.Violations) > 0 {
		var b strings.Builder

		for i, v := range r.Violations {
			if i == maxListedViolations {
				fmt.Fprintf(&b, "_and %d more_", len(r.Violations)-maxListedViolations)
				break
			}

			fmt.Fprintf(&b, "• *%s* (%s) %s\n", v.RuleID, v.Severity, escape(v.Description))
		}

		blocks = append(blocks, Block{Type: "divider"}, Block{Type: "section", Text: markdown(strings.TrimSpace(b.String()))})
	}

	if c.linkBase != "" {
		blocks = append(blocks, Block{
			Type:     "context",
			Elements: []TextObject{{Type: "mrkdwn", Text: fmt.Sprintf("<%s/api/scans/%s|View scan %s>", c.linkBase, r.ID, r.ID)}},
		})
	}

	return Message{
		Text:   fmt.Sprintf("Compliance risk %d/100 for %s", r.RiskScore, r.URL),
		Blocks: blocks,
	}
}

// escape encodes the characters Slack treats as control sequences in mrkdwn
func escape(s string) string {
	return strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;").Replace(s)
}
