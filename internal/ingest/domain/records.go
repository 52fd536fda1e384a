package domain

import "time"

// IngestedFile records a document stored in the grounding bucket.
type IngestedFile struct {
	ID        string    `firestore:"-"`
	FileID    string    `firestore:"fileId"`
	FileName  string    `firestore:"fileName"`
	GCSUri    string    `firestore:"gcsUri"`
	CreatedAt time.Time `firestore:"createdAt"`
}

// DocumentSummary is the stored summary of an ingested document.
type DocumentSummary struct {
	ID        string    `firestore:"-"`
	FileID    string    `firestore:"fileId"`
	FileName  string    `firestore:"fileName"`
	Summary   string    `firestore:"summary"`
	CreatedAt time.Time `firestore:"createdAt"`
}

// VideoSummary is the stored summary of an ingested YouTube video.
type VideoSummary struct {
	ID        string    `firestore:"-"`
	VideoID   string    `firestore:"videoId"`
	VideoURL  string    `firestore:"videoUrl"`
	Summary   string    `firestore:"summary"`
	CreatedAt time.Time `firestore:"createdAt"`
}
