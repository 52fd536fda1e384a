package domain

// UsageRecord tracks one user's summarization count for one calendar day.
// There is at most one record per user; a record with a stale Date is
// overwritten on the next commit rather than deleted.
type UsageRecord struct {
	UserID string `firestore:"-"`
	Date   string `firestore:"date"` // YYYY-MM-DD in UTC
	Count  int    `firestore:"count"`
}
