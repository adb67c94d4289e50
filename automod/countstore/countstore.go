package countstore

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

const (
	PeriodTotal  = "total"
	PeriodDay    = "day"
	PeriodHour   = "hour"
	PeriodMinute = "minute"
)

var allPeriods = []string{PeriodTotal, PeriodDay, PeriodHour, PeriodMinute}

// CountStore tracks simple and distinct-value event counters, bucketed by
// time period. Used for message rate checks, cross-user duplicate payload
// tracking, and distinct-mention counting.
type CountStore interface {
	GetCount(ctx context.Context, name, val, period string) (int, error)
	Increment(ctx context.Context, name, val string) error
	GetCountDistinct(ctx context.Context, name, bucket, period string) (int, error)
	IncrementDistinct(ctx context.Context, name, bucket, val string) error
}

func periodBucket(name, val, period string) string {
	switch period {
	case PeriodTotal:
		return fmt.Sprintf("%s/%s", name, val)
	case PeriodDay:
		t := time.Now().UTC().Format(time.DateOnly)
		return fmt.Sprintf("%s/%s/%s", name, val, t)
	case PeriodHour:
		t := time.Now().UTC().Format(time.RFC3339)[0:13]
		return fmt.Sprintf("%s/%s/%s", name, val, t)
	case PeriodMinute:
		t := time.Now().UTC().Format(time.RFC3339)[0:16]
		return fmt.Sprintf("%s/%s/%s", name, val, t)
	default:
		slog.Warn("unhandled counter period", "period", period)
		return fmt.Sprintf("%s/%s", name, val)
	}
}
