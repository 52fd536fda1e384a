package delivery

import (
	"testing"

	"briefops/internal/summarize/repository"
	"briefops/internal/summarize/usecase"

	"github.com/stretchr/testify/assert"
)

func TestParseSummarizeArgs(t *testing.T) {
	cases := []struct {
		text     string
		wantDays int
		wantPub  bool
	}{
		{"", 7, true},
		{"3", 3, true},
		{"14 --private", 14, false},
		{"--private", 7, false},
		{"-private 5", 5, false},
		{"abc", 7, true},
		{"0", 7, true},
		{"-2", 7, true},
	}

	for _, tc := range cases {
		days, public := parseSummarizeArgs(tc.text)
		assert.Equal(t, tc.wantDays, days, tc.text)
		assert.Equal(t, tc.wantPub, public, tc.text)
	}
}

func TestSummarizeErrorText(t *testing.T) {
	assert.Contains(t, summarizeErrorText(repository.ErrNotAMember), "/invite @briefops")
	assert.Contains(t, summarizeErrorText(usecase.ErrNothingToSummarize), "nothing to summarize")
	assert.Contains(t, summarizeErrorText(usecase.ErrNoSummary), "no summary")
	assert.Contains(t, summarizeErrorText(assert.AnError), "try again later")
}
