package usecase

import (
	"context"
	"log"
	"strings"

	"briefops/internal/summarize/domain"
)

// Source is one candidate text source for aggregation. Fetch returns the
// source's full text block, including any title header the caller wants in
// the combined payload.
type Source struct {
	Ref   domain.SourceRef
	Fetch func(ctx context.Context) (string, error)
}

// BudgetLimits bounds an aggregation run. A limit <= 0 disables that bound.
type BudgetLimits struct {
	MaxSources   int
	MaxTotalLen  int
	PerSourceLen int
}

// Aggregate combines sources in order under the given budget. Each source is
// truncated to PerSourceLen; a source that would push the combined length
// past MaxTotalLen is not partially included; aggregation stops there and
// the result is marked truncated. Fetch errors are recorded per source and
// never abort the run or escape this call.
func Aggregate(ctx context.Context, sources []Source, limits BudgetLimits) domain.Aggregation {
	var agg domain.Aggregation
	var combined strings.Builder
	total := 0

	for _, src := range sources {
		if limits.MaxSources > 0 && len(agg.Included) >= limits.MaxSources {
			break
		}

		text, err := src.Fetch(ctx)
		if err != nil {
			log.Printf("[Aggregate] Failed to fetch %s: %v", src.Ref.URL, err)
			agg.Failed = append(agg.Failed, src.Ref)
			continue
		}
		if text == "" {
			continue
		}
		if limits.PerSourceLen > 0 && len(text) > limits.PerSourceLen {
			text = text[:limits.PerSourceLen]
		}

		if limits.MaxTotalLen > 0 && total+len(text) > limits.MaxTotalLen {
			agg.Truncated = true
			break
		}

		combined.WriteString(text)
		total += len(text)
		agg.Included = append(agg.Included, src.Ref)
	}

	agg.Combined = combined.String()
	return agg
}
