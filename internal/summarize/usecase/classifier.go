package usecase

import (
	"regexp"
	"strings"

	"briefops/internal/summarize/domain"
)

var (
	youtubeURLRe = regexp.MustCompile(`https?://(?:www\.)?(?:youtube\.com|youtu\.be)/[^\s<>|]+`)
	genericURLRe = regexp.MustCompile(`https?://[^\s<>|]+`)
)

// Classification is the best-effort result of scanning a message list for
// summarizable content. At most one of each kind is reported.
type Classification struct {
	File     *domain.Attachment
	VideoURL string
	URL      string
}

// Classify scans messages in the given order. Within a message an attachment
// of an accepted mime class beats a YouTube URL beats a generic URL. The
// first attachment or YouTube URL ends the scan; the first generic URL seen
// is retained without stopping, since a later message may still carry
// higher-precedence content.
func Classify(messages []domain.Message) Classification {
	var out Classification
	for _, msg := range messages {
		for i := range msg.Files {
			if acceptedMimeType(msg.Files[i].MimeType) {
				file := msg.Files[i]
				out.File = &file
				return out
			}
		}

		if match := youtubeURLRe.FindString(msg.Text); match != "" {
			out.VideoURL = match
			return out
		}

		if out.URL == "" {
			if match := genericURLRe.FindString(msg.Text); match != "" {
				out.URL = match
			}
		}
	}
	return out
}

func acceptedMimeType(mimeType string) bool {
	return mimeType == "application/pdf" ||
		strings.HasPrefix(mimeType, "image/") ||
		strings.HasPrefix(mimeType, "application/")
}
