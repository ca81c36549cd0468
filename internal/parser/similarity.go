package parser

// DefaultLengthRatioCutoff rejects pairs whose lengths differ too much.
// Below this shorter/longer ratio the similarity is defined as zero.
const DefaultLengthRatioCutoff = 0.5

// Similarity computes a cheap, order-sensitive, position-tolerant character
// similarity between two strings in [0, 1]. It is not an edit distance:
// each position in the shorter string earns a full point for an exact
// positional match against the longer string, or half a point when the
// character appears within a +/-2 window. The total is divided by the
// longer string's length, so large length mismatches are penalized and
// single-character OCR substitutions or small shifts are tolerated.
func Similarity(a, b string) float64 {
	return similarityWithCutoff(a, b, DefaultLengthRatioCutoff)
}

func similarityWithCutoff(a, b string, lengthRatioCutoff float64) float64 {
	longer, shorter := a, b
	if len(a) < len(b) {
		longer, shorter = b, a
	}

	if len(longer) == 0 {
		return 1.0
	}
	if float64(len(shorter))/float64(len(longer)) < lengthRatioCutoff {
		return 0
	}

	points := 0.0
	for i := 0; i < len(shorter); i++ {
		if shorter[i] == longer[i] {
			points++
			continue
		}

		// Scan a clipped window around i for a shifted match.
		lo, hi := i-2, i+2
		if lo < 0 {
			lo = 0
		}
		if hi > len(longer)-1 {
			hi = len(longer) - 1
		}
		for j := lo; j <= hi; j++ {
			if shorter[i] == longer[j] {
				points += 0.5
				break
			}
		}
	}

	return points / float64(len(longer))
}
