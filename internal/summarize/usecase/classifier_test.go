package usecase

import (
	"testing"

	"briefops/internal/summarize/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyPrefersAttachmentOverAnyURL(t *testing.T) {
	messages := []domain.Message{
		{Text: "see https://example.com/article"},
		{
			Text:  "and this video https://youtu.be/dQw4w9WgXcQ",
			Files: []domain.Attachment{{ID: "F1", Name: "report.pdf", MimeType: "application/pdf"}},
		},
	}

	cls := Classify(messages)

	require.NotNil(t, cls.File)
	assert.Equal(t, "F1", cls.File.ID)
	assert.Empty(t, cls.VideoURL)
}

func TestClassifyPrefersYouTubeOverGenericURL(t *testing.T) {
	messages := []domain.Message{
		{Text: "background reading https://example.com/article"},
		{Text: "watch https://www.youtube.com/watch?v=dQw4w9WgXcQ"},
	}

	cls := Classify(messages)

	assert.Nil(t, cls.File)
	assert.Equal(t, "https://www.youtube.com/watch?v=dQw4w9WgXcQ", cls.VideoURL)
}

func TestClassifyKeepsFirstGenericURL(t *testing.T) {
	messages := []domain.Message{
		{Text: "first https://example.com/one"},
		{Text: "second https://example.com/two"},
	}

	cls := Classify(messages)

	assert.Equal(t, "https://example.com/one", cls.URL)
}

func TestClassifySkipsUnsupportedAttachments(t *testing.T) {
	messages := []domain.Message{
		{
			Text:  "notes at https://example.com/notes",
			Files: []domain.Attachment{{ID: "F1", Name: "clip.mp4", MimeType: "video/mp4"}},
		},
	}

	cls := Classify(messages)

	assert.Nil(t, cls.File)
	assert.Equal(t, "https://example.com/notes", cls.URL)
}

func TestClassifyEmptyThread(t *testing.T) {
	cls := Classify(nil)

	assert.Nil(t, cls.File)
	assert.Empty(t, cls.VideoURL)
	assert.Empty(t, cls.URL)
}
