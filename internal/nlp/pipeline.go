// Package nlp turns free-form text, optionally with an image, into a
// structured subscription draft. A fixed pattern table is the fast path; the
// LLM is the fallback; LLM output is always validated and normalized before
// it leaves the package.
package nlp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/yuanbopang/subscription-manager/internal/llm"
)

const dateLayout = "2006-01-02"

// Draft sources.
const (
	SourcePattern = "pattern"
	SourceLLM     = "llm"
)

// Draft is a structured, not-yet-persisted candidate subscription. A nil
// MonthlyCost or empty ServiceName is a caller-visible soft failure, not an
// error: the partial draft is still returned for client-side correction.
type Draft struct {
	ServiceName       string   `json:"service_name"`
	ServiceCategory   string   `json:"service_category"`
	Account           string   `json:"account"`
	MonthlyCost       *float64 `json:"monthly_cost"`
	PaymentDate       string   `json:"payment_date"`
	IsTrial           bool     `json:"is_trial"`
	TrialDurationDays int      `json:"trial_duration_days"`
	Source            string   `json:"source"`
}

// Pipeline runs pattern matching with an LLM fallback.
type Pipeline struct {
	client llm.Client
	now    func() time.Time
}

func NewPipeline(client llm.Client) *Pipeline {
	return &Pipeline{client: client, now: time.Now}
}

// Extract parses text into a Draft. Returns nil when neither the pattern
// table nor the LLM produced a parseable result; the pattern path is never
// retried after the LLM fails.
func (p *Pipeline) Extract(ctx context.Context, text, imageB64 string) *Draft {
	if draft := matchPattern(text, p.now()); draft != nil {
		return draft
	}

	raw, err := p.client.Complete(ctx, p.buildPrompt(text), imageB64)
	if err != nil {
		slog.Warn("llm extraction failed", "error", err)
		return nil
	}

	parsed := parseJSONBlock(raw)
	if parsed == nil {
		slog.Warn("llm response contained no parseable JSON")
		return nil
	}

	return p.normalize(parsed)
}

func (p *Pipeline) buildPrompt(text string) string {
	return fmt.Sprintf(`Parse the following natural language text into structured subscription service data. Return JSON with these fields:
- service_name: Service name
- service_category: Service category (e.g., "Streaming", "Software", "Cloud", "Music", "Gaming", "Other")
- account: Account information
- monthly_cost: Monthly cost (number)
- payment_date: Next payment date (YYYY-MM-DD format)
- is_trial: Whether there is a trial period (true/false)
- trial_duration_days: Trial period duration in days

Notes:
1. Today's date is %s; resolve relative dates against it.
2. If keywords like "free", "trial", "免费", "试用" are mentioned, set is_trial to true.
3. Monthly cost should be the regular cost after the trial period.
4. If information is incomplete or cannot be parsed, use null for the respective fields.

User input: %s

Return only JSON, no other explanation.`, p.now().Format(dateLayout), text)
}

// llmDraft is the loosely-typed shape the model returns. monthly_cost and
// trial_duration_days arrive as numbers, numeric strings or null depending
// on the model's mood.
type llmDraft struct {
	ServiceName       *string     `json:"service_name"`
	ServiceCategory   *string     `json:"service_category"`
	Account           *string     `json:"account"`
	MonthlyCost       interface{} `json:"monthly_cost"`
	PaymentDate       *string     `json:"payment_date"`
	IsTrial           bool        `json:"is_trial"`
	TrialDurationDays interface{} `json:"trial_duration_days"`
}

// parseJSONBlock extracts the first top-level {...} block from the response,
// tolerating code-fence wrapping. Returns nil on parse failure.
func parseJSONBlock(content string) *llmDraft {
	content = strings.TrimSpace(content)
	if strings.HasPrefix(content, "```") {
		content = strings.TrimPrefix(content, "```json")
		content = strings.TrimPrefix(content, "```")
		content = strings.TrimSuffix(content, "```")
		content = strings.TrimSpace(content)
	}

	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start < 0 || end <= start {
		return nil
	}

	var parsed llmDraft
	if err := json.Unmarshal([]byte(content[start:end+1]), &parsed); err != nil {
		return nil
	}
	return &parsed
}

// normalize validates LLM output. Pattern output never passes through here;
// it is already normalized.
func (p *Pipeline) normalize(in *llmDraft) *Draft {
	out := &Draft{
		ServiceCategory:   "Other",
		Account:           DefaultAccount,
		IsTrial:           in.IsTrial,
		TrialDurationDays: coerceInt(in.TrialDurationDays),
		Source:            SourceLLM,
	}

	if in.ServiceName != nil {
		out.ServiceName = strings.TrimSpace(*in.ServiceName)
	}
	if in.ServiceCategory != nil && strings.TrimSpace(*in.ServiceCategory) != "" {
		out.ServiceCategory = strings.TrimSpace(*in.ServiceCategory)
	}
	if in.Account != nil && strings.TrimSpace(*in.Account) != "" {
		out.Account = strings.TrimSpace(*in.Account)
	}

	if v, ok := coerceFloat(in.MonthlyCost); ok {
		out.MonthlyCost = &v
	}

	out.PaymentDate = firstOfNextMonth(p.now()).Format(dateLayout)
	if in.PaymentDate != nil {
		if _, err := time.Parse(dateLayout, *in.PaymentDate); err == nil {
			out.PaymentDate = *in.PaymentDate
		}
	}

	return out
}

func coerceFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case string:
		if f, err := strconv.ParseFloat(strings.TrimSpace(n), 64); err == nil {
			return f, true
		}
	}
	return 0, false
}

func coerceInt(v interface{}) int {
	if f, ok := coerceFloat(v); ok && f > 0 {
		return int(f)
	}
	return 0
}
