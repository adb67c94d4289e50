package corpusstore

import (
	"context"
	"time"
)

const (
	LabelSpam = "spam"
	LabelHam  = "ham"
)

// Minimum text length worth learning from; shorter confirmed-spam payloads
// are almost always emoji or single words with no lexical signal.
const MinSampleLen = 10

type Sample struct {
	Text      string
	Label     string
	CreatedAt time.Time
}

// CorpusStore is the append-only labeled training corpus behind the
// classifier's self-learning loop. Entries are immutable once added.
type CorpusStore interface {
	// AddSample appends a sample, deduplicating on exact text. Returns true
	// if the sample was new.
	AddSample(ctx context.Context, text, label string) (bool, error)
	SampleCount(ctx context.Context) (int, error)
	// CountSinceFit returns how many samples have been appended since the
	// last MarkFit call (or since the beginning, if never fit).
	CountSinceFit(ctx context.Context) (int, error)
	// MarkFit records that a model was fit against the current corpus.
	MarkFit(ctx context.Context) error
	LoadAll(ctx context.Context) ([]Sample, error)
}
