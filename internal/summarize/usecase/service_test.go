package usecase

import (
	"context"
	"strconv"
	"testing"
	"time"

	"briefops/internal/summarize/domain"
	"briefops/pkg/gemini"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDocGateway struct {
	fakeGateway
	docInputs []string
	docResult gemini.Result
	docErr    error
}

func (f *fakeDocGateway) SummarizeDocument(ctx context.Context, mimeType string, data []byte, cfg gemini.DecodingConfig) (gemini.Result, error) {
	f.docInputs = append(f.docInputs, mimeType)
	return f.docResult, f.docErr
}

type fakeFileSource struct {
	data        []byte
	downloadErr error
}

func (f *fakeFileSource) FileInfo(ctx context.Context, fileID string) (domain.Attachment, error) {
	return domain.Attachment{ID: fileID}, nil
}

func (f *fakeFileSource) DownloadFile(ctx context.Context, downloadURL string) ([]byte, error) {
	return f.data, f.downloadErr
}

type fakeWebFetcher struct {
	text string
	err  error
}

func (f *fakeWebFetcher) ExtractText(ctx context.Context, pageURL string) (string, error) {
	return f.text, f.err
}

func newTestService(source *fakePageSource, files *fakeFileSource, gateway *fakeDocGateway, web *fakeWebFetcher) *Service {
	return NewService(NewFetcher(source), files, gateway, web, gemini.DecodingConfig{})
}

func TestSummarizeChannelJoinsMessageTexts(t *testing.T) {
	now := time.Now().Unix()
	source := &fakePageSource{
		historyPages: []domain.FetchPage{
			{Messages: []domain.Message{
				{Timestamp: timestamp(now), Text: "second"},
				{Timestamp: timestamp(now - 60), Text: "first"},
			}},
		},
	}
	gateway := &fakeDocGateway{fakeGateway: fakeGateway{results: []gemini.Result{{Text: "the summary"}}}}
	svc := newTestService(source, &fakeFileSource{}, gateway, &fakeWebFetcher{})

	summary, err := svc.SummarizeChannel(context.Background(), "C123", 7)
	require.NoError(t, err)

	assert.Equal(t, "the summary", summary)
	require.Len(t, gateway.inputs, 1)
	assert.Equal(t, "first\nsecond", gateway.inputs[0])
}

func TestSummarizeChannelWithNoMessages(t *testing.T) {
	source := &fakePageSource{historyPages: []domain.FetchPage{{}}}
	svc := newTestService(source, &fakeFileSource{}, &fakeDocGateway{}, &fakeWebFetcher{})

	_, err := svc.SummarizeChannel(context.Background(), "C123", 7)

	assert.ErrorIs(t, err, ErrNothingToSummarize)
}

func TestSummarizeThreadIncludesUnsupportedAttachmentNotice(t *testing.T) {
	source := &fakePageSource{
		replyPages: []domain.FetchPage{
			{Messages: []domain.Message{
				{Timestamp: "200.0", Text: "reply"},
				{
					Timestamp: "100.0",
					Text:      "root",
					Files:     []domain.Attachment{{Name: "clip.mp4", MimeType: "video/mp4"}},
				},
			}},
		},
	}
	gateway := &fakeDocGateway{fakeGateway: fakeGateway{results: []gemini.Result{{Text: "ok"}}}}
	svc := newTestService(source, &fakeFileSource{}, gateway, &fakeWebFetcher{})

	_, err := svc.SummarizeThread(context.Background(), "C123", "100.0")
	require.NoError(t, err)

	require.Len(t, gateway.inputs, 1)
	assert.Contains(t, gateway.inputs[0], "root")
	assert.Contains(t, gateway.inputs[0], "reply")
	assert.Contains(t, gateway.inputs[0], "File type video/mp4 is not supported")
}

func TestSummarizeThreadDegradesWhenAttachmentFails(t *testing.T) {
	source := &fakePageSource{
		replyPages: []domain.FetchPage{
			{Messages: []domain.Message{
				{
					Timestamp: "100.0",
					Text:      "root",
					Files:     []domain.Attachment{{Name: "report.pdf", MimeType: "application/pdf"}},
				},
			}},
		},
	}
	gateway := &fakeDocGateway{fakeGateway: fakeGateway{results: []gemini.Result{{Text: "ok"}}}}
	files := &fakeFileSource{downloadErr: assert.AnError}
	svc := newTestService(source, files, gateway, &fakeWebFetcher{})

	_, err := svc.SummarizeThread(context.Background(), "C123", "100.0")
	require.NoError(t, err)

	require.Len(t, gateway.inputs, 1)
	assert.Contains(t, gateway.inputs[0], `The file "report.pdf" could not be summarized.`)
}

func TestSummarizeAttachmentRoutesCSVAsText(t *testing.T) {
	gateway := &fakeDocGateway{fakeGateway: fakeGateway{results: []gemini.Result{{Text: "csv summary"}}}}
	files := &fakeFileSource{data: []byte("a,b\n1,2")}
	svc := newTestService(&fakePageSource{}, files, gateway, &fakeWebFetcher{})

	summary, err := svc.SummarizeAttachment(context.Background(), domain.Attachment{
		Name: "data.csv", MimeType: "text/csv", DownloadURL: "https://files/data.csv",
	})
	require.NoError(t, err)

	assert.Equal(t, "csv summary", summary)
	require.Len(t, gateway.inputs, 1)
	assert.Equal(t, "a,b\n1,2", gateway.inputs[0])
	assert.Empty(t, gateway.docInputs)
}

func TestSummarizeAttachmentRoutesPDFAsDocument(t *testing.T) {
	gateway := &fakeDocGateway{docResult: gemini.Result{Text: "pdf summary"}}
	files := &fakeFileSource{data: []byte("%PDF-1.4")}
	svc := newTestService(&fakePageSource{}, files, gateway, &fakeWebFetcher{})

	summary, err := svc.SummarizeAttachment(context.Background(), domain.Attachment{
		Name: "report.pdf", MimeType: "application/pdf", DownloadURL: "https://files/report.pdf",
	})
	require.NoError(t, err)

	assert.Equal(t, "pdf summary", summary)
	assert.Equal(t, []string{"application/pdf"}, gateway.docInputs)
}

func TestSummarizeURLWithEmptyPage(t *testing.T) {
	svc := newTestService(&fakePageSource{}, &fakeFileSource{}, &fakeDocGateway{}, &fakeWebFetcher{text: ""})

	_, err := svc.SummarizeURL(context.Background(), "https://example.com")

	assert.ErrorIs(t, err, ErrNothingToSummarize)
}

func timestamp(unix int64) string {
	return strconv.FormatInt(unix, 10) + ".000000"
}
