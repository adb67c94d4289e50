package classifier

import (
	"math"
)

// The three sub-models all share this shape: fit once on the full training
// set, then produce a spam probability for a sparse feature vector. Each is
// trained independently; the ensemble soft-votes their outputs.
type subModel interface {
	fit(vecs []map[int]float64, labels []int, numFeatures int)
	// predictSpam returns P(spam | vec) in [0,1].
	predictSpam(vec map[int]float64) float64
}

const nbAlpha = 0.1

// Multinomial naive Bayes over TF-IDF feature weights.
type MultinomialNB struct {
	ClassLogPrior  [2]float64   `json:"class_log_prior"`
	FeatureLogProb [2][]float64 `json:"feature_log_prob"`
}

func (m *MultinomialNB) fit(vecs []map[int]float64, labels []int, numFeatures int) {
	var classCount [2]float64
	var featureSum [2][]float64
	featureSum[0] = make([]float64, numFeatures)
	featureSum[1] = make([]float64, numFeatures)

	for i, vec := range vecs {
		c := labels[i]
		classCount[c]++
		for idx, val := range vec {
			featureSum[c][idx] += val
		}
	}

	total := classCount[0] + classCount[1]
	for c := 0; c < 2; c++ {
		m.ClassLogPrior[c] = math.Log((classCount[c] + 1) / (total + 2))
		var sum float64
		for _, v := range featureSum[c] {
			sum += v
		}
		denom := math.Log(sum + nbAlpha*float64(numFeatures))
		m.FeatureLogProb[c] = make([]float64, numFeatures)
		for idx := 0; idx < numFeatures; idx++ {
			m.FeatureLogProb[c][idx] = math.Log(featureSum[c][idx]+nbAlpha) - denom
		}
	}
}

func (m *MultinomialNB) predictSpam(vec map[int]float64) float64 {
	joint := [2]float64{m.ClassLogPrior[0], m.ClassLogPrior[1]}
	for idx, val := range vec {
		if idx < len(m.FeatureLogProb[0]) {
			joint[0] += val * m.FeatureLogProb[0][idx]
			joint[1] += val * m.FeatureLogProb[1][idx]
		}
	}
	return softmaxSpam(joint)
}

// Bernoulli naive Bayes over feature presence/absence.
type BernoulliNB struct {
	ClassLogPrior [2]float64 `json:"class_log_prior"`
	// log P(feature present | class) and log P(feature absent | class)
	LogProb    [2][]float64 `json:"log_prob"`
	LogProbNeg [2][]float64 `json:"log_prob_neg"`
	// precomputed sum of all absent-feature log probabilities per class
	AbsentSum [2]float64 `json:"absent_sum"`
}

func (m *BernoulliNB) fit(vecs []map[int]float64, labels []int, numFeatures int) {
	var classCount [2]float64
	var presentCount [2][]float64
	presentCount[0] = make([]float64, numFeatures)
	presentCount[1] = make([]float64, numFeatures)

	for i, vec := range vecs {
		c := labels[i]
		classCount[c]++
		for idx, val := range vec {
			if val > 0 {
				presentCount[c][idx]++
			}
		}
	}

	total := classCount[0] + classCount[1]
	for c := 0; c < 2; c++ {
		m.ClassLogPrior[c] = math.Log((classCount[c] + 1) / (total + 2))
		m.LogProb[c] = make([]float64, numFeatures)
		m.LogProbNeg[c] = make([]float64, numFeatures)
		m.AbsentSum[c] = 0
		for idx := 0; idx < numFeatures; idx++ {
			p := (presentCount[c][idx] + nbAlpha) / (classCount[c] + 2*nbAlpha)
			m.LogProb[c][idx] = math.Log(p)
			m.LogProbNeg[c][idx] = math.Log(1 - p)
			m.AbsentSum[c] += m.LogProbNeg[c][idx]
		}
	}
}

func (m *BernoulliNB) predictSpam(vec map[int]float64) float64 {
	joint := [2]float64{
		m.ClassLogPrior[0] + m.AbsentSum[0],
		m.ClassLogPrior[1] + m.AbsentSum[1],
	}
	for idx, val := range vec {
		if val > 0 && idx < len(m.LogProb[0]) {
			joint[0] += m.LogProb[0][idx] - m.LogProbNeg[0][idx]
			joint[1] += m.LogProb[1][idx] - m.LogProbNeg[1][idx]
		}
	}
	return softmaxSpam(joint)
}

// Logistic regression fit with plain batch gradient descent. The training
// sets here are small (hundreds of samples); anything fancier is wasted.
type LogisticRegression struct {
	Weights []float64 `json:"weights"`
	Bias    float64   `json:"bias"`
}

const (
	lrLearningRate = 0.5
	lrIterations   = 300
	lrL2           = 1e-4
)

func (m *LogisticRegression) fit(vecs []map[int]float64, labels []int, numFeatures int) {
	m.Weights = make([]float64, numFeatures)
	m.Bias = 0
	n := float64(len(vecs))
	if n == 0 {
		return
	}

	grad := make([]float64, numFeatures)
	for iter := 0; iter < lrIterations; iter++ {
		for i := range grad {
			grad[i] = 0
		}
		var biasGrad float64
		for i, vec := range vecs {
			pred := m.predictSpam(vec)
			diff := pred - float64(labels[i])
			for idx, val := range vec {
				grad[idx] += diff * val
			}
			biasGrad += diff
		}
		for idx := range m.Weights {
			m.Weights[idx] -= lrLearningRate * (grad[idx]/n + lrL2*m.Weights[idx])
		}
		m.Bias -= lrLearningRate * biasGrad / n
	}
}

func (m *LogisticRegression) predictSpam(vec map[int]float64) float64 {
	z := m.Bias
	for idx, val := range vec {
		if idx < len(m.Weights) {
			z += m.Weights[idx] * val
		}
	}
	return 1 / (1 + math.Exp(-z))
}

// softmaxSpam converts a pair of (ham, spam) log-joint scores to P(spam).
func softmaxSpam(joint [2]float64) float64 {
	max := joint[0]
	if joint[1] > max {
		max = joint[1]
	}
	e0 := math.Exp(joint[0] - max)
	e1 := math.Exp(joint[1] - max)
	return e1 / (e0 + e1)
}
