package service

import (
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newHeuristicService() *SentimentService {
	return NewSentimentService("", "", nil)
}

func TestClassifySentimentBlankInput(t *testing.T) {
	s := newHeuristicService()

	for _, text := range []string{"", "   ", "\t\n"} {
		label, confidence := s.ClassifySentiment(text)
		assert.Equal(t, "Neutral", label)
		assert.Equal(t, 0.0, confidence)
	}
}

func TestClassifySentimentLexicon(t *testing.T) {
	s := newHeuristicService()

	t.Run("positive", func(t *testing.T) {
		label, confidence := s.ClassifySentiment("This is great, excellent, amazing!")
		assert.Equal(t, "Positive", label)
		assert.Greater(t, confidence, 0.5)
	})

	t.Run("negative at confidence ceiling", func(t *testing.T) {
		label, confidence := s.ClassifySentiment("terrible awful worst")
		assert.Equal(t, "Negative", label)
		assert.InDelta(t, 0.95, confidence, 1e-9)
	})

	t.Run("mixed sentiment reads neutral", func(t *testing.T) {
		label, confidence := s.ClassifySentiment("great terrible")
		assert.Equal(t, "Neutral", label)
		assert.InDelta(t, 0.95*0.8, confidence, 1e-9)
	})

	t.Run("neutral indicators dominate", func(t *testing.T) {
		label, _ := s.ClassifySentiment("the tool is okay and fine and average overall")
		assert.Equal(t, "Neutral", label)
	})
}

func TestClassifySentimentToneFallback(t *testing.T) {
	s := newHeuristicService()

	t.Run("negative tone", func(t *testing.T) {
		label, confidence := s.ClassifySentiment("please fix this broken thing")
		assert.Equal(t, "Negative", label)
		assert.InDelta(t, 0.6, confidence, 1e-9)
	})

	t.Run("positive tone", func(t *testing.T) {
		label, confidence := s.ClassifySentiment("thank you, keep up the work!!")
		assert.Equal(t, "Positive", label)
		assert.InDelta(t, 0.6, confidence, 1e-9)
	})

	t.Run("no signal at all", func(t *testing.T) {
		label, confidence := s.ClassifySentiment("the quarterly report covers eleven pages")
		assert.Equal(t, "Neutral", label)
		assert.InDelta(t, 0.5, confidence, 1e-9)
	})
}

func TestClassifySentimentDeterministic(t *testing.T) {
	s := newHeuristicService()

	label1, conf1 := s.ClassifySentiment("Great product, but the setup was confusing")
	label2, conf2 := s.ClassifySentiment("Great product, but the setup was confusing")
	assert.Equal(t, label1, label2)
	assert.Equal(t, conf1, conf2)
}

func TestPreprocessText(t *testing.T) {
	assert.Equal(t, "great!! product 1", preprocessText("Great!!  Product, #1"))
	assert.Equal(t, "what a day?", preprocessText("What\ta\nday?"))
}

func TestNewSentimentServiceWithoutModel(t *testing.T) {
	s := NewSentimentService("/nonexistent/model.json", "/nonexistent/vectorizer.json", nil)

	info := s.GetModelInfo()
	assert.Equal(t, false, info["model_loaded"])
	assert.Equal(t, "KeywordBasedSentimentAnalyzer", info["model_type"])
}

func writeArtifact(t *testing.T, dir, name string, v interface{}) string {
	t.Helper()

	data, err := json.Marshal(v)
	require.NoError(t, err)
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, data, 0644))
	return path
}

func writeTestArtifacts(t *testing.T) (modelPath, vectorizerPath string) {
	t.Helper()
	dir := t.TempDir()

	vectorizerPath = writeArtifact(t, dir, "vectorizer.json", VectorizerArtifact{
		Vocabulary: map[string]int{"good": 0, "bad": 1},
		IDF:        []float64{1.0, 1.0},
	})
	modelPath = writeArtifact(t, dir, "model.json", ModelArtifact{
		Kind:          "naive_bayes",
		Classes:       []string{"Negative", "Positive"},
		ClassLogPrior: []float64{math.Log(0.5), math.Log(0.5)},
		FeatureLogProb: [][]float64{
			{math.Log(0.1), math.Log(0.9)},
			{math.Log(0.9), math.Log(0.1)},
		},
	})
	return modelPath, vectorizerPath
}

func TestModelClassifierPredicts(t *testing.T) {
	modelPath, vectorizerPath := writeTestArtifacts(t)
	s := NewSentimentService(modelPath, vectorizerPath, nil)

	info := s.GetModelInfo()
	require.Equal(t, true, info["model_loaded"])
	assert.Equal(t, "naive_bayes", info["model_kind"])

	label, confidence := s.ClassifySentiment("good product")
	assert.Equal(t, "Positive", label)
	assert.InDelta(t, 0.9, confidence, 1e-6)

	label, confidence = s.ClassifySentiment("bad product")
	assert.Equal(t, "Negative", label)
	assert.InDelta(t, 0.9, confidence, 1e-6)
}

func TestModelClassifierFallsBackPerCall(t *testing.T) {
	modelPath, vectorizerPath := writeTestArtifacts(t)
	s := NewSentimentService(modelPath, vectorizerPath, nil)

	// No vocabulary term fires, so this call runs the heuristic instead.
	label, confidence := s.ClassifySentiment("terrible awful worst")
	assert.Equal(t, "Negative", label)
	assert.InDelta(t, 0.95, confidence, 1e-9)

	// The model stays active for inputs it does cover.
	label, _ = s.ClassifySentiment("good")
	assert.Equal(t, "Positive", label)
}

func TestModelArtifactShapeMismatch(t *testing.T) {
	dir := t.TempDir()

	vectorizerPath := writeArtifact(t, dir, "vectorizer.json", VectorizerArtifact{
		Vocabulary: map[string]int{"good": 0, "bad": 1, "okay": 2},
		IDF:        []float64{1.0, 1.0, 1.0},
	})
	modelPath := writeArtifact(t, dir, "model.json", ModelArtifact{
		Kind:          "naive_bayes",
		Classes:       []string{"Negative", "Positive"},
		ClassLogPrior: []float64{math.Log(0.5), math.Log(0.5)},
		FeatureLogProb: [][]float64{
			{math.Log(0.1), math.Log(0.9)},
			{math.Log(0.9), math.Log(0.1)},
		},
	})

	_, err := newModelClassifier(modelPath, vectorizerPath, newHeuristicClassifier())
	require.Error(t, err)

	s := NewSentimentService(modelPath, vectorizerPath, nil)
	assert.Equal(t, false, s.GetModelInfo()["model_loaded"])
}

func TestLinearModelUsesDefaultConfidence(t *testing.T) {
	dir := t.TempDir()

	vectorizerPath := writeArtifact(t, dir, "vectorizer.json", VectorizerArtifact{
		Vocabulary: map[string]int{"good": 0, "bad": 1},
		IDF:        []float64{1.0, 1.0},
	})
	modelPath := writeArtifact(t, dir, "model.json", ModelArtifact{
		Kind:    "linear",
		Classes: []string{"Negative", "Positive"},
		Coef: [][]float64{
			{-1.0, 1.0},
			{1.0, -1.0},
		},
		Intercept: []float64{0.0, 0.0},
	})

	s := NewSentimentService(modelPath, vectorizerPath, nil)
	require.Equal(t, true, s.GetModelInfo()["model_loaded"])

	label, confidence := s.ClassifySentiment("good")
	assert.Equal(t, "Positive", label)
	assert.InDelta(t, defaultModelConfidence, confidence, 1e-9)
}
