package classifier

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/vigil-bot/vigil/automod/corpusstore"
)

// Minimum corpus size before a model is worth fitting; below this the
// classifier stays in its degraded (untrained) state.
const MinTrainingSamples = 20

// Snapshot is a fully trained model set: shared vectorizer plus the three
// sub-models, tagged with a monotonic version. Immutable once built; the
// active snapshot is replaced only by a single atomic pointer swap, so
// in-flight Classify calls always read an internally consistent model.
type Snapshot struct {
	Version     int64               `json:"version"`
	SampleCount int                 `json:"sample_count"`
	TrainedAt   time.Time           `json:"trained_at"`
	Vectorizer  *Vectorizer         `json:"vectorizer"`
	Multinomial *MultinomialNB      `json:"multinomial"`
	Bernoulli   *BernoulliNB        `json:"bernoulli"`
	Logistic    *LogisticRegression `json:"logistic"`
}

// PredictSpam soft-votes the three sub-models: the published probability is
// the arithmetic mean of their class probabilities.
func (s *Snapshot) PredictSpam(text string) float64 {
	vec := s.Vectorizer.Transform(Terms(text))
	p := s.Multinomial.predictSpam(vec)
	p += s.Bernoulli.predictSpam(vec)
	p += s.Logistic.predictSpam(vec)
	return p / 3
}

// Train fits a new Snapshot from the full corpus. Pure: no shared state is
// touched, so it can run concurrently with classification against the
// previous snapshot. The version is assigned by the caller at publish time.
func Train(samples []corpusstore.Sample) (*Snapshot, error) {
	if len(samples) < MinTrainingSamples {
		return nil, fmt.Errorf("not enough training data (%d/%d)", len(samples), MinTrainingSamples)
	}

	docs := make([][]string, len(samples))
	labels := make([]int, len(samples))
	spam := 0
	for i, s := range samples {
		docs[i] = Terms(s.Text)
		if s.Label == corpusstore.LabelSpam {
			labels[i] = 1
			spam++
		}
	}
	if spam == 0 || spam == len(samples) {
		return nil, fmt.Errorf("training corpus needs both spam and ham samples")
	}

	vectorizer := BuildVectorizer(docs, MaxFeatures)
	nf := vectorizer.NumFeatures()
	vecs := make([]map[int]float64, len(docs))
	for i, terms := range docs {
		vecs[i] = vectorizer.Transform(terms)
	}

	snap := &Snapshot{
		SampleCount: len(samples),
		TrainedAt:   time.Now().UTC(),
		Vectorizer:  vectorizer,
		Multinomial: &MultinomialNB{},
		Bernoulli:   &BernoulliNB{},
		Logistic:    &LogisticRegression{},
	}
	for _, m := range []subModel{snap.Multinomial, snap.Bernoulli, snap.Logistic} {
		m.fit(vecs, labels, nf)
	}
	return snap, nil
}

// Classifier holds the active snapshot reference. Zero value is usable and
// reports degraded (untrained) state until a snapshot is published.
type Classifier struct {
	snapshot atomic.Pointer[Snapshot]
	version  atomic.Int64
}

// Classify returns the spam probability for the text, and whether a trained
// model produced it. Cold start or retrain failure is not an error: callers
// fall back to rule-based signals when ok is false.
func (c *Classifier) Classify(text string) (prob float64, ok bool) {
	snap := c.snapshot.Load()
	if snap == nil {
		return 0, false
	}
	return snap.PredictSpam(text), true
}

// Publish assigns the next version and atomically swaps the snapshot in.
func (c *Classifier) Publish(snap *Snapshot) {
	snap.Version = c.version.Add(1)
	c.snapshot.Store(snap)
}

// Restore installs a previously persisted snapshot (eg, at startup),
// preserving its version.
func (c *Classifier) Restore(snap *Snapshot) {
	if snap == nil {
		return
	}
	for {
		cur := c.version.Load()
		if snap.Version <= cur {
			break
		}
		if c.version.CompareAndSwap(cur, snap.Version) {
			break
		}
	}
	c.snapshot.Store(snap)
}

// Current returns the active snapshot, or nil before first publish.
func (c *Classifier) Current() *Snapshot {
	return c.snapshot.Load()
}
