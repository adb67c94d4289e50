package classifier

import (
	"context"
	"log/slog"
	"sync"

	"github.com/vigil-bot/vigil/automod/corpusstore"
)

// Retrain after this many newly appended samples, unless overridden.
const DefaultRetrainEvery = 10

// Trainer runs the self-learning loop: confirmed-spam (and false-positive
// ham) text is appended to the corpus, and a background retrain fires each
// time the configured number of new samples accumulates. Retraining never
// holds per-message locks and never blocks classification; a retrain
// requested while one is already running is coalesced into a single rerun
// against the then-current corpus, so only the most recent corpus state
// wins.
type Trainer struct {
	Logger       *slog.Logger
	Corpus       corpusstore.CorpusStore
	Classifier   *Classifier
	Persist      ModelPersistence // optional
	RetrainEvery int

	mu      sync.Mutex
	running bool
	rerun   bool
}

func NewTrainer(logger *slog.Logger, corpus corpusstore.CorpusStore, cls *Classifier, persist ModelPersistence) *Trainer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Trainer{
		Logger:       logger,
		Corpus:       corpus,
		Classifier:   cls,
		Persist:      persist,
		RetrainEvery: DefaultRetrainEvery,
	}
}

// LearnSpam appends a confirmed-spam sample. Fire-and-forget relative to
// the decision path: any retrain happens on a background goroutine.
func (t *Trainer) LearnSpam(ctx context.Context, text string) error {
	return t.learn(ctx, text, corpusstore.LabelSpam)
}

// LearnHam appends a falsely-flagged (confirmed clean) sample.
func (t *Trainer) LearnHam(ctx context.Context, text string) error {
	return t.learn(ctx, text, corpusstore.LabelHam)
}

func (t *Trainer) learn(ctx context.Context, text, label string) error {
	if len(text) <= corpusstore.MinSampleLen {
		return nil
	}
	added, err := t.Corpus.AddSample(ctx, text, label)
	if err != nil {
		return err
	}
	if !added {
		return nil
	}
	t.Logger.Info("added training sample", "label", label)
	return t.maybeRetrain(ctx)
}

// maybeRetrain fires a background retrain when the count of samples since
// the last fit reaches the configured threshold. The fit mark is advanced
// before the retrain starts, so each threshold crossing triggers exactly
// one retrain.
func (t *Trainer) maybeRetrain(ctx context.Context) error {
	every := t.RetrainEvery
	if every <= 0 {
		every = DefaultRetrainEvery
	}
	n, err := t.Corpus.CountSinceFit(ctx)
	if err != nil {
		return err
	}
	if n < every {
		return nil
	}
	if err := t.Corpus.MarkFit(ctx); err != nil {
		return err
	}
	t.kick()
	return nil
}

// KickRetrain unconditionally requests a background retrain (eg, at
// startup after seeding the corpus).
func (t *Trainer) KickRetrain() {
	t.kick()
}

func (t *Trainer) kick() {
	t.mu.Lock()
	if t.running {
		t.rerun = true
		t.mu.Unlock()
		return
	}
	t.running = true
	t.mu.Unlock()

	go t.retrainLoop()
}

func (t *Trainer) retrainLoop() {
	ctx := context.Background()
	for {
		t.retrainOnce(ctx)

		t.mu.Lock()
		if t.rerun {
			t.rerun = false
			t.mu.Unlock()
			continue
		}
		t.running = false
		t.mu.Unlock()
		return
	}
}

func (t *Trainer) retrainOnce(ctx context.Context) {
	samples, err := t.Corpus.LoadAll(ctx)
	if err != nil {
		t.Logger.Error("loading training corpus", "err", err)
		return
	}
	snap, err := Train(samples)
	if err != nil {
		// recoverable degradation: keep serving the prior snapshot
		t.Logger.Warn("model training skipped", "err", err, "samples", len(samples))
		return
	}
	t.Classifier.Publish(snap)
	t.Logger.Info("published new classifier snapshot", "version", snap.Version, "samples", snap.SampleCount)

	if t.Persist != nil {
		if err := t.Persist.Save(ctx, snap); err != nil {
			t.Logger.Error("persisting classifier snapshot", "err", err)
		}
	}
}
