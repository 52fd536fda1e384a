package delivery

import (
	"testing"

	"briefops/internal/search/usecase"
	sumdomain "briefops/internal/summarize/domain"

	"github.com/stretchr/testify/assert"
)

func TestParseSearchArgs(t *testing.T) {
	cases := []struct {
		text          string
		wantQuery     string
		wantSummarize bool
		wantPublic    bool
	}{
		{"golang generics", "golang generics", false, false},
		{"golang --summarize", "golang", true, false},
		{"golang --summarise --public", "golang", true, true},
		{"--summarize go 1.24 release notes", "go 1.24 release notes", true, false},
		{"", "", false, false},
	}

	for _, tc := range cases {
		query, summarize, public := parseSearchArgs(tc.text)
		assert.Equal(t, tc.wantQuery, query, tc.text)
		assert.Equal(t, tc.wantSummarize, summarize, tc.text)
		assert.Equal(t, tc.wantPublic, public, tc.text)
	}
}

func TestFormatReportCitesSourcesAndTruncation(t *testing.T) {
	report := &usecase.SummaryReport{
		Summary: "the summary",
		Used: []sumdomain.SourceRef{
			{Title: "First", URL: "https://a"},
			{Title: "Second", URL: "https://b"},
		},
		Failed:    []sumdomain.SourceRef{{Title: "Broken", URL: "https://c"}},
		Truncated: true,
	}

	text := formatReport("golang", report)

	assert.Contains(t, text, "*Summary for:* golang")
	assert.Contains(t, text, "the summary")
	assert.Contains(t, text, "2 source(s) summarized")
	assert.Contains(t, text, "1 source(s) could not be fetched")
	assert.Contains(t, text, "truncated")
	assert.Contains(t, text, "<https://a|First>")
	assert.Contains(t, text, "<https://b|Second>")
	assert.NotContains(t, text, "Broken>")
}
