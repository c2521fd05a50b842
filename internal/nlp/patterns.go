package nlp

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// knownService is a fast-path entry: when every term appears in the input,
// the pipeline resolves the subscription without calling the LLM.
type knownService struct {
	terms        []string
	name         string
	category     string
	defaultPrice float64
}

var knownServices = []knownService{
	{[]string{"netflix"}, "Netflix", "Streaming", 15.99},
	{[]string{"spotify"}, "Spotify", "Music", 9.99},
	{[]string{"amazon", "prime"}, "Amazon Prime", "Streaming", 6.99},
	{[]string{"youtube", "premium"}, "YouTube Premium", "Streaming", 11.99},
	{[]string{"github"}, "GitHub", "Development", 4.00},
	{[]string{"disney"}, "Disney+", "Streaming", 7.99},
}

var (
	// Matches: 15.99, $15.99, € 9,99-style inputs are out of scope; first
	// match wins, same as the original parser.
	priceRegex = regexp.MustCompile(`(?:[$€£¥]\s*)?(\d+(?:\.\d{1,2})?)`)
	emailRegex = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)
)

var trialKeywords = []string{"trial", "free", "免费", "试用"}

// Duration phrases checked in order; first hit wins. An unqualified trial
// mention falls back to 30 days.
var trialDurations = []struct {
	phrases []string
	days    int
}{
	{[]string{"7 days", "1 week", "seven days", "one week"}, 7},
	{[]string{"14 days", "2 weeks", "fourteen days", "two weeks"}, 14},
	{[]string{"30 days", "1 month", "thirty days", "one month", "一个月", "1个月"}, 30},
	{[]string{"60 days", "2 months", "两个月", "2个月"}, 60},
	{[]string{"90 days", "3 months", "三个月", "3个月"}, 90},
}

const defaultTrialDays = 30

// DefaultAccount is the placeholder used when no account identifier is found.
const DefaultAccount = "Default Account"

// matchPattern tries the known-service fast path. It never calls the LLM and
// its output is already normalized.
func matchPattern(text string, now time.Time) *Draft {
	lower := strings.ToLower(text)

	for _, svc := range knownServices {
		if !containsAll(lower, svc.terms) {
			continue
		}

		cost := svc.defaultPrice
		if m := priceRegex.FindStringSubmatch(text); m != nil {
			if v, err := strconv.ParseFloat(m[1], 64); err == nil {
				cost = v
			}
		}

		account := DefaultAccount
		if m := emailRegex.FindString(text); m != "" {
			account = m
		}

		isTrial, trialDays := detectTrial(lower)

		return &Draft{
			ServiceName:       svc.name,
			ServiceCategory:   svc.category,
			Account:           account,
			MonthlyCost:       &cost,
			PaymentDate:       firstOfNextMonth(now).Format(dateLayout),
			IsTrial:           isTrial,
			TrialDurationDays: trialDays,
			Source:            SourcePattern,
		}
	}
	return nil
}

func containsAll(text string, terms []string) bool {
	for _, term := range terms {
		if !strings.Contains(text, term) {
			return false
		}
	}
	return true
}

func detectTrial(lower string) (bool, int) {
	trial := false
	for _, kw := range trialKeywords {
		if strings.Contains(lower, kw) {
			trial = true
			break
		}
	}
	if !trial {
		return false, 0
	}
	for _, d := range trialDurations {
		for _, phrase := range d.phrases {
			if strings.Contains(lower, phrase) {
				return true, d.days
			}
		}
	}
	return true, defaultTrialDays
}

// firstOfNextMonth returns the first day of the calendar month after now.
func firstOfNextMonth(now time.Time) time.Time {
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	return first.AddDate(0, 1, 0)
}
