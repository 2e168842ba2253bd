package service

import (
	"regexp"
	"strings"

	log "github.com/sirupsen/logrus"
)

// classifier is one classification strategy. Implementations must be safe
// for concurrent use; the chosen strategy is fixed at construction.
type classifier interface {
	Classify(text string) (label string, confidence float64, err error)
	Name() string
}

// SentimentService classifies feedback comments. It prefers a trained model
// when both artifacts load, and otherwise runs a deterministic keyword
// heuristic. Classification is advisory: it never returns an error to the
// caller, worst case is (Unclassified, 0.0).
type SentimentService struct {
	strategy  classifier
	heuristic *heuristicClassifier
	cache     *SentimentCache
}

// NewSentimentService selects the strategy once: the model-backed classifier
// when modelPath and vectorizerPath both load, else the heuristic.
func NewSentimentService(modelPath, vectorizerPath string, cache *SentimentCache) *SentimentService {
	heuristic := newHeuristicClassifier()

	svc := &SentimentService{strategy: heuristic, heuristic: heuristic, cache: cache}

	mc, err := newModelClassifier(modelPath, vectorizerPath, heuristic)
	if err != nil {
		log.WithError(err).Warn("sentiment model unavailable, using keyword heuristic")
		return svc
	}
	log.Infof("sentiment model loaded from %s", modelPath)
	svc.strategy = mc
	return svc
}

// ClassifySentiment returns a sentiment label and confidence for text.
// Empty or blank input short-circuits to (Neutral, 0.0) without invoking
// either strategy.
func (s *SentimentService) ClassifySentiment(text string) (string, float64) {
	if strings.TrimSpace(text) == "" {
		return "Neutral", 0.0
	}

	cleaned := preprocessText(text)
	if cleaned == "" {
		return "Neutral", 0.0
	}

	if s.cache != nil {
		if label, confidence, ok := s.cache.Get(cleaned); ok {
			return label, confidence
		}
	}

	label, confidence, err := s.strategy.Classify(cleaned)
	if err != nil {
		log.WithError(err).Error("sentiment analysis failed")
		return "Unclassified", 0.0
	}

	if s.cache != nil {
		s.cache.Set(cleaned, label, confidence)
	}
	return label, confidence
}

// GetModelInfo describes the active strategy for the admin dashboard.
func (s *SentimentService) GetModelInfo() map[string]interface{} {
	if mc, ok := s.strategy.(*modelClassifier); ok {
		return map[string]interface{}{
			"model_type":   "MachineLearningModel",
			"model_loaded": true,
			"model_kind":   mc.model.Kind,
			"classes":      mc.model.Classes,
			"vocab_size":   len(mc.vectorizer.Vocabulary),
		}
	}
	return map[string]interface{}{
		"model_type":               "KeywordBasedSentimentAnalyzer",
		"model_loaded":             false,
		"positive_words_count":     len(positiveWords),
		"negative_words_count":     len(negativeWords),
		"neutral_indicators_count": len(neutralIndicators),
	}
}

// preprocessText lowercases and strips everything except letters, digits,
// whitespace and basic punctuation, collapsing runs of whitespace.
func preprocessText(text string) string {
	text = strings.ToLower(text)
	text = nonTextPattern.ReplaceAllString(text, " ")
	return strings.Join(strings.Fields(text), " ")
}

var nonTextPattern = regexp.MustCompile(`[^a-zA-Z0-9\s.!?]`)

var positiveWords = wordSet(
	"great", "excellent", "amazing", "perfect", "outstanding",
	"fantastic", "wonderful", "love", "impressed", "satisfied",
	"recommend", "good", "nice", "awesome", "brilliant", "superb",
	"exceptional", "marvelous", "terrific", "fabulous", "incredible",
	"magnificent", "splendid", "delightful", "pleased", "happy",
	"thrilled", "ecstatic", "overjoyed", "elated", "cheerful",
)

var negativeWords = wordSet(
	"terrible", "poor", "bad", "worst", "horrible", "awful",
	"disappointing", "frustrated", "useless", "waste", "hate",
	"difficult", "confusing", "bugs", "issues", "problems",
	"disgusting", "pathetic", "dreadful", "appalling", "atrocious",
	"abysmal", "deplorable", "lousy", "rotten", "miserable",
	"annoying", "irritating", "infuriating", "outrageous", "ridiculous",
)

var neutralIndicators = wordSet(
	"okay", "fine", "average", "normal", "standard", "typical",
	"regular", "ordinary", "common", "usual", "acceptable",
	"adequate", "sufficient", "reasonable", "fair", "moderate",
)

func wordSet(words ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}

// Tone patterns cover inputs with no lexicon words at all.
var positiveTonePatterns = []*regexp.Regexp{
	regexp.MustCompile(`\b(thank you|thanks)\b`),
	regexp.MustCompile(`\b(keep up|well done)\b`),
	regexp.MustCompile(`\b(highly|very|really|extremely)\s+\w+`),
	regexp.MustCompile(`[!]{2,}`),
	regexp.MustCompile(`\b(yes|definitely|absolutely|certainly)\b`),
}

var negativeTonePatterns = []*regexp.Regexp{
	regexp.MustCompile(`\b(never|not|no|don'?t|can'?t|won'?t)\b`),
	regexp.MustCompile(`\b(fix|broken|error|fail|crash)\b`),
	regexp.MustCompile(`\b(slow|sluggish|laggy)\b`),
	regexp.MustCompile(`\b(missing|lack|without)\b`),
	regexp.MustCompile(`\b(why|how come|what'?s wrong)\b`),
}

// heuristicClassifier is the deterministic fallback path: lexicon counting
// with a tone-pattern second stage. No internal randomness.
type heuristicClassifier struct{}

func newHeuristicClassifier() *heuristicClassifier {
	return &heuristicClassifier{}
}

func (h *heuristicClassifier) Name() string { return "heuristic" }

func (h *heuristicClassifier) Classify(text string) (string, float64, error) {
	words := strings.Fields(strings.ToLower(text))

	var positiveCount, negativeCount, neutralCount int
	for _, w := range words {
		if _, ok := positiveWords[w]; ok {
			positiveCount++
		}
		if _, ok := negativeWords[w]; ok {
			negativeCount++
		}
		if _, ok := neutralIndicators[w]; ok {
			neutralCount++
		}
	}

	totalSentimentWords := positiveCount + negativeCount + neutralCount
	if totalSentimentWords == 0 {
		label, confidence := h.analyzeOverallTone(text)
		return label, confidence, nil
	}

	// Confidence scales with sentiment word density, clamped to [0.5, 0.95].
	confidence := float64(totalSentimentWords) / float64(len(words)) * 2
	if confidence > 0.95 {
		confidence = 0.95
	}
	if confidence < 0.5 {
		confidence = 0.5
	}

	switch {
	case positiveCount > negativeCount && positiveCount > neutralCount:
		return "Positive", confidence, nil
	case negativeCount > positiveCount && negativeCount > neutralCount:
		return "Negative", confidence, nil
	case positiveCount == negativeCount:
		// Mixed sentiment reads as neutral at lower confidence.
		return "Neutral", confidence * 0.8, nil
	default:
		return "Neutral", confidence * 0.7, nil
	}
}

func (h *heuristicClassifier) analyzeOverallTone(text string) (string, float64) {
	lower := strings.ToLower(text)

	var positiveMatches, negativeMatches int
	for _, p := range positiveTonePatterns {
		if p.MatchString(lower) {
			positiveMatches++
		}
	}
	for _, p := range negativeTonePatterns {
		if p.MatchString(lower) {
			negativeMatches++
		}
	}

	switch {
	case positiveMatches > negativeMatches:
		return "Positive", 0.6
	case negativeMatches > positiveMatches:
		return "Negative", 0.6
	default:
		return "Neutral", 0.5
	}
}
