package domain

// Message is one fetched conversation message. Immutable once fetched.
// Timestamps are Slack-style string-sortable values ("1700000000.000100").
type Message struct {
	Timestamp string
	AuthorID  string
	Text      string
	Files     []Attachment
	ThreadTS  string // empty outside threads
}

// Attachment describes an uploaded file referenced by a message. DownloadURL
// is an opaque locator; the bytes are only fetched when summarization
// actually needs them.
type Attachment struct {
	ID          string
	Name        string
	MimeType    string
	SizeBytes   int
	DownloadURL string
}

// FetchPage is one page of a paginated history or replies call, newest first
// per the backend convention. Consumed immediately.
type FetchPage struct {
	Messages   []Message
	NextCursor string
	HasMore    bool
}

// SourceRef identifies one aggregated source in user-facing reports.
type SourceRef struct {
	Title string
	URL   string
}

// Aggregation is the outcome of combining multiple text sources under a
// budget. Failures are captured per source; they never abort aggregation.
type Aggregation struct {
	Combined  string
	Included  []SourceRef
	Failed    []SourceRef
	Truncated bool
}
