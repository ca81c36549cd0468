package parser

import (
	"sort"
	"strings"
)

// MatchType classifies which rule of the scoring cascade produced a match.
type MatchType string

const (
	MatchFull         MatchType = "full"
	MatchAllWords     MatchType = "all_words"
	MatchFirstAndLast MatchType = "first_and_last"
	MatchSurname      MatchType = "surname"
	MatchFirstName    MatchType = "first_name"
	MatchSimilar      MatchType = "similar"
	MatchNone         MatchType = "none"
)

// MatchCandidate is one directory entry scored against OCR text.
type MatchCandidate struct {
	Recipient string    `json:"recipient"`
	Score     float64   `json:"score"`
	Type      MatchType `json:"match_type"`
}

// MatcherOptions configures the scoring cascade thresholds. The defaults
// reproduce the tuning the heuristic shipped with; they are exposed because
// the similarity cutoffs are empirical rather than derived.
type MatcherOptions struct {
	// MinScore is the exclusive lower bound for a candidate to be returned.
	MinScore float64
	// MaxResults caps the ranked list length.
	MaxResults int
	// SimilarityThreshold is the minimum character similarity for the
	// fuzzy fallback tier to accept a word pair.
	SimilarityThreshold float64
	// LengthRatioCutoff rejects word pairs with too large a length
	// disparity before similarity is computed.
	LengthRatioCutoff float64
	// MinWordLength is the shortest word considered by the fuzzy tier.
	MinWordLength int
}

// Matcher ranks a fixed directory of recipient names against OCR text.
type Matcher struct {
	opts MatcherOptions
}

// NewMatcher creates a matcher, filling any zero option with its default.
func NewMatcher(opts *MatcherOptions) *Matcher {
	if opts == nil {
		opts = &MatcherOptions{}
	}
	resolved := *opts
	if resolved.MinScore == 0 {
		resolved.MinScore = 10
	}
	if resolved.MaxResults == 0 {
		resolved.MaxResults = 10
	}
	if resolved.SimilarityThreshold == 0 {
		resolved.SimilarityThreshold = 0.8
	}
	if resolved.LengthRatioCutoff == 0 {
		resolved.LengthRatioCutoff = DefaultLengthRatioCutoff
	}
	if resolved.MinWordLength == 0 {
		resolved.MinWordLength = 4
	}
	return &Matcher{opts: resolved}
}

// punctuation stripped from OCR text before tokenizing
const punctuation = ".,/#!$%^&*;:{}=-_`~()"

// cleanText lowercases the OCR text, strips punctuation, and collapses
// whitespace. The result is used both for substring checks and tokenizing.
func cleanText(text string) string {
	lowered := strings.ToLower(text)
	var b strings.Builder
	b.Grow(len(lowered))
	for _, r := range lowered {
		if strings.ContainsRune(punctuation, r) {
			continue
		}
		b.WriteRune(r)
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// tokenize splits cleaned text into words, dropping single-character
// fragments which are almost always OCR noise.
func tokenize(cleaned string) map[string]bool {
	tokens := make(map[string]bool)
	for _, word := range strings.Fields(cleaned) {
		if len(word) > 1 {
			tokens[word] = true
		}
	}
	return tokens
}

// RankRecipients ranks the directory against OCR text using the default
// matcher options and returns the best-matching names, best first.
func RankRecipients(ocrText string, directory []string) []string {
	return NewMatcher(nil).Rank(ocrText, directory)
}

// Rank returns the ranked recipient names only; scores and match types are
// dropped at this boundary.
func (m *Matcher) Rank(ocrText string, directory []string) []string {
	candidates := m.RankCandidates(ocrText, directory)
	names := make([]string, 0, len(candidates))
	for _, c := range candidates {
		names = append(names, c.Recipient)
	}
	return names
}

// RankCandidates scores every directory entry against the OCR text and
// returns the filtered, sorted candidate list with scores attached.
// The sort is stable: directory order breaks ties.
func (m *Matcher) RankCandidates(ocrText string, directory []string) []MatchCandidate {
	cleaned := cleanText(ocrText)
	tokens := tokenize(cleaned)

	var candidates []MatchCandidate
	for _, recipient := range directory {
		candidate := m.scoreCandidate(recipient, cleaned, tokens)
		if candidate.Score > m.opts.MinScore {
			candidates = append(candidates, candidate)
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Score > candidates[j].Score
	})

	if len(candidates) > m.opts.MaxResults {
		candidates = candidates[:m.opts.MaxResults]
	}
	return candidates
}

// scoreCandidate applies the tier cascade to a single directory entry.
// Only the first applicable tier sets the match type, but the partial tier
// stacks its bonuses additively, and the fuzzy tier overwrites via max.
// The precedence is preserved as-is: folding the tiers into one formula
// changes ranking outcomes.
func (m *Matcher) scoreCandidate(recipient, cleaned string, tokens map[string]bool) MatchCandidate {
	candidate := MatchCandidate{Recipient: recipient, Type: MatchNone}

	name := strings.ToLower(strings.TrimSpace(recipient))
	words := strings.Fields(name)
	if len(words) == 0 {
		return candidate
	}
	surname := words[len(words)-1]
	firstGroup := strings.Join(words[:len(words)-1], " ")

	switch {
	case strings.Contains(cleaned, name):
		candidate.Score = 100
		candidate.Type = MatchFull

	case allWordsPresent(words, tokens):
		candidate.Score = 80
		candidate.Type = MatchAllWords

	case firstGroup != "" && strings.Contains(cleaned, firstGroup) && strings.Contains(cleaned, surname):
		candidate.Score = 70
		candidate.Type = MatchFirstAndLast

	default:
		matched := 0
		for _, word := range words {
			if tokens[word] {
				matched++
			}
		}
		if matched > 0 {
			ratio := float64(matched) / float64(len(words))
			candidate.Score = 30 * ratio

			if tokens[surname] {
				candidate.Score += 20
				candidate.Type = MatchSurname
			} else if firstGroup != "" && strings.Contains(cleaned, firstGroup) {
				candidate.Score += 15
				candidate.Type = MatchFirstName
			}
			if ratio > 0.5 {
				candidate.Score += 10
			}
		}
	}

	// The fuzzy fallback only rescues weak matches; it never demotes a score.
	if candidate.Score < 30 {
		for _, word := range words {
			if len(word) < m.opts.MinWordLength {
				continue
			}
			for token := range tokens {
				if len(token) < m.opts.MinWordLength {
					continue
				}
				sim := similarityWithCutoff(word, token, m.opts.LengthRatioCutoff)
				if sim >= m.opts.SimilarityThreshold && 25*sim > candidate.Score {
					candidate.Score = 25 * sim
					candidate.Type = MatchSimilar
				}
			}
		}
	}

	return candidate
}

func allWordsPresent(words []string, tokens map[string]bool) bool {
	for _, word := range words {
		if !tokens[word] {
			return false
		}
	}
	return true
}
