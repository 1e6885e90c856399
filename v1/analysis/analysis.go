package analysis

import (
	"regexp"
	"sort"
	"strings"
)

// crisisPhrases are matched as substrings of the normalized text.
// Multi-word entries stay phrases so "end it all" does not fire on
// "end" alone.
var crisisPhrases = []string{
	"kill myself",
	"end it all",
	"not worth living",
	"better off dead",
	"self harm",
	"cut myself",
	"hurt myself",
	"can't go on",
}

// crisisWords are matched on word boundaries so "suicide" does not
// fire inside an unrelated longer word.
var crisisWords = []string{
	"suicide",
	"overdose",
}

// emotionKeywords maps an emotion label to the words that indicate it.
var emotionKeywords = map[string][]string{
	"anxiety":    {"anxious", "worried", "nervous", "panic", "fear", "scared"},
	"depression": {"sad", "hopeless", "empty", "worthless", "depressed", "down"},
	"anger":      {"angry", "furious", "rage", "mad", "irritated", "frustrated"},
	"joy":        {"happy", "joyful", "excited", "elated", "cheerful", "content"},
	"stress":     {"stressed", "overwhelmed", "pressure", "tension", "burden"},
}

var copingKeywords = []string{
	"meditation", "breathing", "exercise", "walk", "music", "friends",
	"therapy", "journal", "sleep", "bath", "nature", "prayer",
}

var positiveWords = map[string]bool{
	"good": true, "great": true, "happy": true, "better": true,
	"improved": true, "positive": true, "hopeful": true,
}

var negativeWords = map[string]bool{
	"bad": true, "terrible": true, "sad": true, "worse": true,
	"negative": true, "hopeless": true, "awful": true,
}

var (
	whitespaceRE = regexp.MustCompile(`\s+`)
	punctRE      = regexp.MustCompile(`[^\w\s.,!?'-]`)
	wordRE       = regexp.MustCompile(`[a-z']+`)

	triggerPatterns = []*regexp.Regexp{
		regexp.MustCompile(`because of (\w+)`),
		regexp.MustCompile(`triggered by (\w+)`),
		regexp.MustCompile(`after (\w+)`),
		regexp.MustCompile(`when (\w+)`),
		regexp.MustCompile(`(\w+) made me feel`),
	}
)

// CrisisReport is the outcome of a crisis indicator scan.
type CrisisReport struct {
	Detected   bool     `json:"detected"`
	Indicators []string `json:"indicators,omitempty"`
}

// EntryAnalysis summarizes a single journal entry or message.
type EntryAnalysis struct {
	WordCount          int                `json:"word_count"`
	SentimentScore     float64            `json:"sentiment_score"`
	Emotions           map[string]float64 `json:"emotions"`
	DominantEmotion    string             `json:"dominant_emotion,omitempty"`
	EmotionalIntensity float64            `json:"emotional_intensity"`
	CopingMechanisms   []string           `json:"coping_mechanisms,omitempty"`
	Triggers           []string           `json:"triggers,omitempty"`
	Crisis             CrisisReport       `json:"crisis"`
}

// normalize lowercases the text and unifies curly apostrophes so
// keyword scans see one spelling of contractions.
func normalize(text string) string {
	text = strings.ToLower(text)
	return strings.ReplaceAll(text, "’", "'")
}

// CleanText collapses whitespace and strips characters outside words
// and basic punctuation.
func CleanText(text string) string {
	text = whitespaceRE.ReplaceAllString(strings.TrimSpace(text), " ")
	return punctRE.ReplaceAllString(text, "")
}

// DetectCrisis scans for crisis indicators. Phrases match anywhere,
// single keywords only on word boundaries. The scan is pure and never
// fails, which keeps the escalation path free of error handling.
func DetectCrisis(text string) CrisisReport {
	lower := normalize(text)

	var indicators []string
	for _, phrase := range crisisPhrases {
		if strings.Contains(lower, phrase) {
			indicators = append(indicators, phrase)
		}
	}

	words := wordSet(lower)
	for _, word := range crisisWords {
		if words[word] {
			indicators = append(indicators, word)
		}
	}

	return CrisisReport{
		Detected:   len(indicators) > 0,
		Indicators: indicators,
	}
}

// SentimentScore returns a score in [-1, 1] from the balance of
// positive and negative words. Text without emotional words scores 0.
func SentimentScore(text string) float64 {
	var positive, negative int
	for _, word := range wordRE.FindAllString(normalize(text), -1) {
		if positiveWords[word] {
			positive++
		}
		if negativeWords[word] {
			negative++
		}
	}

	total := positive + negative
	if total == 0 {
		return 0
	}
	return float64(positive-negative) / float64(total)
}

// Emotions scores each emotion label by matched keyword count,
// normalized by word count so long entries don't dominate.
func Emotions(text string) map[string]float64 {
	lower := normalize(text)
	wordCount := len(strings.Fields(lower))
	if wordCount == 0 {
		wordCount = 1
	}
	words := wordSet(lower)

	scores := make(map[string]float64, len(emotionKeywords))
	for emotion, keywords := range emotionKeywords {
		count := 0
		for _, keyword := range keywords {
			if words[keyword] {
				count++
			}
		}
		scores[emotion] = float64(count) / float64(wordCount)
	}
	return scores
}

// DominantEmotion returns the highest-scoring emotion, with ties
// broken alphabetically for determinism. Zero scores across the board
// return an empty label.
func DominantEmotion(scores map[string]float64) (string, float64) {
	labels := make([]string, 0, len(scores))
	for label := range scores {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	var best string
	var bestScore float64
	for _, label := range labels {
		if scores[label] > bestScore {
			best = label
			bestScore = scores[label]
		}
	}
	return best, bestScore
}

// CopingMechanisms lists the coping strategies mentioned in the text.
func CopingMechanisms(text string) []string {
	words := wordSet(normalize(text))

	var found []string
	for _, mechanism := range copingKeywords {
		if words[mechanism] {
			found = append(found, mechanism)
		}
	}
	return found
}

// Triggers extracts candidate trigger words from causal phrasings
// such as "because of X" or "X made me feel". Duplicates are removed
// and the result is sorted.
func Triggers(text string) []string {
	lower := normalize(text)

	seen := make(map[string]bool)
	for _, pattern := range triggerPatterns {
		for _, match := range pattern.FindAllStringSubmatch(lower, -1) {
			seen[match[1]] = true
		}
	}

	triggers := make([]string, 0, len(seen))
	for trigger := range seen {
		triggers = append(triggers, trigger)
	}
	sort.Strings(triggers)
	return triggers
}

// AnalyzeEntry runs the full heuristic suite over one piece of text.
func AnalyzeEntry(text string) EntryAnalysis {
	emotions := Emotions(text)
	dominant, intensity := DominantEmotion(emotions)

	return EntryAnalysis{
		WordCount:          len(strings.Fields(text)),
		SentimentScore:     SentimentScore(text),
		Emotions:           emotions,
		DominantEmotion:    dominant,
		EmotionalIntensity: intensity,
		CopingMechanisms:   CopingMechanisms(text),
		Triggers:           Triggers(text),
		Crisis:             DetectCrisis(text),
	}
}

// PrepareForEmbedding cleans the text and prefixes ordered context
// labels so semantically equivalent entries embed consistently.
func PrepareForEmbedding(text string, context map[string]string) string {
	cleaned := CleanText(text)
	if len(context) == 0 {
		return cleaned
	}

	keys := make([]string, 0, len(context))
	for key := range context {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys)+1)
	for _, key := range keys {
		parts = append(parts, key+": "+context[key])
	}
	parts = append(parts, cleaned)
	return strings.Join(parts, " | ")
}

func wordSet(lower string) map[string]bool {
	set := make(map[string]bool)
	for _, word := range wordRE.FindAllString(lower, -1) {
		set[word] = true
	}
	return set
}
