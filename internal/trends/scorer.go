// Package trends implements relevance scoring, candidate aggregation,
// dedup/ranking, and content-idea derivation for the trend monitoring
// pipeline. Everything in this package is pure computation; network
// fetching lives in the sources subpackage.
package trends

import (
	"regexp"
	"strings"
)

// Vocabulary holds the target keywords used for relevance scoring and
// the bonus terms that add extra weight for finance/tech topics.
// Keywords are matched case-insensitively and must be stored lower-cased.
type Vocabulary struct {
	Keywords   []string
	BonusTerms []string
}

// DefaultVocabulary returns the vocabulary used in production. It mixes
// Russian and English terms because the monitored feeds span both.
func DefaultVocabulary() *Vocabulary {
	return &Vocabulary{
		Keywords: []string{
			"telegram", "телеграм", "подарки", "боты", "bot",
			"бесплатно", "криптовалюта", "заработок", "деньги",
			"giveaway", "gift", "crypto", "bitcoin", "free",
		},
		BonusTerms: []string{
			"crypto", "bitcoin", "ethereum", "nft", "blockchain", "ai", "startup", "tech",
		},
	}
}

var (
	hashtagPattern = regexp.MustCompile(`#[\p{L}\p{N}_]+`)
	wordPattern    = regexp.MustCompile(`[a-zа-яё]+`)
	longWordRunes  = regexp.MustCompile(`[a-zа-яё]{3,}`)
)

// Score computes the relevance of text against the vocabulary.
// Each keyword contributes 1.0 for an exact match with the trimmed text,
// 0.5 when it appears within the first 100 characters, and 0.3 when it
// appears anywhere else. Each bonus term present adds 0.2. The sum is
// clamped to 1.0. The empty string scores 0.
func (v *Vocabulary) Score(text string) float64 {
	lower := strings.ToLower(text)
	trimmed := strings.TrimSpace(lower)

	// First-100 window is character based, not byte based, so Cyrillic
	// text gets the same window width as ASCII.
	runes := []rune(lower)
	head := lower
	if len(runes) > 100 {
		head = string(runes[:100])
	}

	score := 0.0
	for _, keyword := range v.Keywords {
		if !strings.Contains(lower, keyword) {
			continue
		}
		switch {
		case keyword == trimmed:
			score += 1.0
		case strings.Contains(head, keyword):
			score += 0.5
		default:
			score += 0.3
		}
	}

	for _, term := range v.BonusTerms {
		if strings.Contains(lower, term) {
			score += 0.2
		}
	}

	if score > 1.0 {
		return 1.0
	}
	return score
}

// ExtractHashtags returns up to 5 tags found in text, in order of
// appearance. When the text carries no literal hashtags, tags are
// synthesized from vocabulary keywords present in the text (at most 3).
func (v *Vocabulary) ExtractHashtags(text string) []string {
	hashtags := hashtagPattern.FindAllString(text, -1)

	if len(hashtags) == 0 {
		words := wordPattern.FindAllString(strings.ToLower(text), -1)
		for _, word := range words {
			if v.isKeyword(word) {
				hashtags = append(hashtags, "#"+word)
				if len(hashtags) == 3 {
					break
				}
			}
		}
	}

	if len(hashtags) > 5 {
		hashtags = hashtags[:5]
	}
	return hashtags
}

// MainKeyword picks the keyword a title is about: the first vocabulary
// keyword contained in the title, else the first word of 3+ letters,
// else the literal "trending".
func (v *Vocabulary) MainKeyword(title string) string {
	lower := strings.ToLower(title)

	for _, keyword := range v.Keywords {
		if strings.Contains(lower, keyword) {
			return keyword
		}
	}

	if word := longWordRunes.FindString(lower); word != "" {
		return word
	}
	return "trending"
}

func (v *Vocabulary) isKeyword(word string) bool {
	for _, keyword := range v.Keywords {
		if word == keyword {
			return true
		}
	}
	return false
}
