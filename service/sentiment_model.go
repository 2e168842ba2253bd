package service

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"strings"
)

// VectorizerArtifact is the serialized TF-IDF vectorizer: a term vocabulary
// mapping tokens to feature indices and the matching idf weight per index.
type VectorizerArtifact struct {
	Vocabulary map[string]int `json:"vocabulary"`
	IDF        []float64      `json:"idf"`
}

// ModelArtifact is the serialized classifier. Kind "naive_bayes" carries log
// priors and per-class feature log likelihoods and can report posterior
// probabilities; kind "linear" carries raw weight vectors only, so
// predictions from it use a fixed default confidence.
type ModelArtifact struct {
	Kind           string      `json:"kind"`
	Classes        []string    `json:"classes"`
	ClassLogPrior  []float64   `json:"class_log_prior,omitempty"`
	FeatureLogProb [][]float64 `json:"feature_log_prob,omitempty"`
	Coef           [][]float64 `json:"coef,omitempty"`
	Intercept      []float64   `json:"intercept,omitempty"`
}

const defaultModelConfidence = 0.75

// modelClassifier is the model-backed strategy. A failed or signal-free
// prediction falls through to the heuristic for that call only; the model
// stays active for subsequent calls.
type modelClassifier struct {
	model      *ModelArtifact
	vectorizer *VectorizerArtifact
	fallback   *heuristicClassifier
}

func newModelClassifier(modelPath, vectorizerPath string, fallback *heuristicClassifier) (*modelClassifier, error) {
	model, err := loadModelArtifact(modelPath)
	if err != nil {
		return nil, err
	}
	vectorizer, err := loadVectorizerArtifact(vectorizerPath)
	if err != nil {
		return nil, err
	}
	if err := checkArtifactsMatch(model, vectorizer); err != nil {
		return nil, err
	}
	return &modelClassifier{model: model, vectorizer: vectorizer, fallback: fallback}, nil
}

func loadModelArtifact(path string) (*ModelArtifact, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read model artifact: %v", err)
	}
	var m ModelArtifact
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse model artifact: %v", err)
	}
	if len(m.Classes) == 0 {
		return nil, fmt.Errorf("model artifact has no classes")
	}
	switch m.Kind {
	case "naive_bayes":
		if len(m.ClassLogPrior) != len(m.Classes) || len(m.FeatureLogProb) != len(m.Classes) {
			return nil, fmt.Errorf("naive_bayes artifact shape mismatch")
		}
	case "linear":
		if len(m.Coef) != len(m.Classes) || len(m.Intercept) != len(m.Classes) {
			return nil, fmt.Errorf("linear artifact shape mismatch")
		}
	default:
		return nil, fmt.Errorf("unsupported model kind %q", m.Kind)
	}
	return &m, nil
}

func loadVectorizerArtifact(path string) (*VectorizerArtifact, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read vectorizer artifact: %v", err)
	}
	var v VectorizerArtifact
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("failed to parse vectorizer artifact: %v", err)
	}
	if len(v.Vocabulary) == 0 {
		return nil, fmt.Errorf("vectorizer artifact has empty vocabulary")
	}
	if len(v.IDF) < len(v.Vocabulary) {
		return nil, fmt.Errorf("vectorizer idf shorter than vocabulary")
	}
	return &v, nil
}

func checkArtifactsMatch(m *ModelArtifact, v *VectorizerArtifact) error {
	features := len(v.IDF)
	switch m.Kind {
	case "naive_bayes":
		for _, row := range m.FeatureLogProb {
			if len(row) != features {
				return fmt.Errorf("model expects %d features, vectorizer has %d", len(row), features)
			}
		}
	case "linear":
		for _, row := range m.Coef {
			if len(row) != features {
				return fmt.Errorf("model expects %d features, vectorizer has %d", len(row), features)
			}
		}
	}
	return nil
}

func (m *modelClassifier) Name() string { return "model" }

func (m *modelClassifier) Classify(text string) (string, float64, error) {
	features, matched := m.vectorize(text)
	if !matched {
		// No vocabulary term fired: the model has no signal for this input.
		return m.fallback.Classify(text)
	}

	label, confidence, err := m.predict(features)
	if err != nil {
		// Local failure only: fall through for this call.
		return m.fallback.Classify(text)
	}
	return label, confidence, nil
}

// vectorize builds an l2-normalized tf-idf vector for text.
func (m *modelClassifier) vectorize(text string) ([]float64, bool) {
	features := make([]float64, len(m.vectorizer.IDF))
	matched := false
	for _, token := range strings.Fields(text) {
		if idx, ok := m.vectorizer.Vocabulary[token]; ok && idx >= 0 && idx < len(features) {
			features[idx] += m.vectorizer.IDF[idx]
			matched = true
		}
	}
	if !matched {
		return nil, false
	}

	var norm float64
	for _, f := range features {
		norm += f * f
	}
	if norm > 0 {
		norm = math.Sqrt(norm)
		for i := range features {
			features[i] /= norm
		}
	}
	return features, true
}

func (m *modelClassifier) predict(features []float64) (string, float64, error) {
	switch m.model.Kind {
	case "naive_bayes":
		return m.predictNaiveBayes(features)
	case "linear":
		return m.predictLinear(features)
	}
	return "", 0, fmt.Errorf("unsupported model kind %q", m.model.Kind)
}

func (m *modelClassifier) predictNaiveBayes(features []float64) (string, float64, error) {
	scores := make([]float64, len(m.model.Classes))
	for c := range m.model.Classes {
		score := m.model.ClassLogPrior[c]
		row := m.model.FeatureLogProb[c]
		for i, f := range features {
			if f != 0 {
				score += f * row[i]
			}
		}
		scores[c] = score
	}

	best := argmax(scores)

	// Posterior probability of the winning class via log-sum-exp.
	maxScore := scores[best]
	var sum float64
	for _, s := range scores {
		sum += math.Exp(s - maxScore)
	}
	confidence := 1.0 / sum
	if math.IsNaN(confidence) || math.IsInf(confidence, 0) {
		return "", 0, fmt.Errorf("degenerate posterior")
	}
	return m.model.Classes[best], confidence, nil
}

func (m *modelClassifier) predictLinear(features []float64) (string, float64, error) {
	scores := make([]float64, len(m.model.Classes))
	for c := range m.model.Classes {
		score := m.model.Intercept[c]
		row := m.model.Coef[c]
		for i, f := range features {
			if f != 0 {
				score += f * row[i]
			}
		}
		scores[c] = score
	}
	// Linear models expose no probabilities.
	return m.model.Classes[argmax(scores)], defaultModelConfidence, nil
}

func argmax(scores []float64) int {
	best := 0
	for i, s := range scores {
		if s > scores[best] {
			best = i
		}
	}
	return best
}
