package usecase

import (
	"context"
	"time"

	"briefops/internal/usage/repository"
)

// Decision is the outcome of a usage check.
type Decision int

const (
	Allowed Decision = iota
	DailyLimitExceeded
	DaysLimitExceeded
)

// Limiter gates summarization commands against a per-user daily quota and a
// maximum lookback window. A limit configured <= 0 disables that check.
//
// CheckAndReserve and Commit are deliberately separate: the check runs before
// the expensive summarization work, the commit only after output was actually
// produced. Two concurrent requests from one user can both pass the check
// before either commits, so the daily limit can be exceeded by in-flight
// concurrency; the transactional commit still never loses an increment.
type Limiter struct {
	repo       repository.UsageRepository
	dailyLimit int
	maxDays    int
	now        func() time.Time
}

func NewLimiter(repo repository.UsageRepository, dailyLimit, maxDays int) *Limiter {
	return &Limiter{
		repo:       repo,
		dailyLimit: dailyLimit,
		maxDays:    maxDays,
		now:        time.Now,
	}
}

// CheckAndReserve decides whether the user may run a summarization covering
// requestedDays of history.
func (l *Limiter) CheckAndReserve(ctx context.Context, userID string, requestedDays int) (Decision, error) {
	if l.maxDays > 0 && requestedDays > l.maxDays {
		return DaysLimitExceeded, nil
	}
	if l.dailyLimit <= 0 {
		return Allowed, nil
	}

	record, err := l.repo.Get(ctx, userID)
	if err != nil {
		return Allowed, err
	}
	if record != nil && record.Date == l.todayKey() && record.Count >= l.dailyLimit {
		return DailyLimitExceeded, nil
	}
	return Allowed, nil
}

// Commit records one completed summarization for the user. No-op when the
// daily limit feature is disabled.
func (l *Limiter) Commit(ctx context.Context, userID string) error {
	if l.dailyLimit <= 0 {
		return nil
	}
	return l.repo.IncrementDaily(ctx, userID, l.todayKey())
}

// DailyLimit reports the configured daily quota.
func (l *Limiter) DailyLimit() int { return l.dailyLimit }

// MaxDays reports the configured maximum lookback window.
func (l *Limiter) MaxDays() int { return l.maxDays }

func (l *Limiter) todayKey() string {
	return l.now().UTC().Format("2006-01-02")
}
