package sentiment

import (
	"strings"

	"MarketMind/internal/model"
)

// DefaultLimit is the number of headlines shown on the dashboard.
const DefaultLimit = 5

// Annotate scores the first limit headlines in input order. Headlines with a
// blank title are skipped and reported in skipped; the rest are still
// annotated. A non-positive limit uses DefaultLimit.
func Annotate(headlines []model.Headline, limit int, scorer Scorer) (out []model.AnnotatedHeadline, skipped []error) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if len(headlines) > limit {
		headlines = headlines[:limit]
	}
	out = make([]model.AnnotatedHeadline, 0, len(headlines))
	for i, h := range headlines {
		if strings.TrimSpace(h.Title) == "" {
			skipped = append(skipped, &model.InvalidHeadlineError{Index: i, Reason: "empty title"})
			continue
		}
		p := scorer.Polarity(h.Title)
		out = append(out, model.AnnotatedHeadline{
			Headline: h,
			Polarity: p,
			Label:    model.LabelFor(p),
		})
	}
	return out, skipped
}
