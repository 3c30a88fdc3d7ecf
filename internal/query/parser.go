// Package query extracts structured filters from free-text search phrases.
// A fixed rule table recognizes price bounds, colors, sizes, and known
// brands; whatever remains becomes the keyword query.
package query

import (
	"regexp"
	"strconv"
	"strings"
)

// Parsed is the structured form of a natural-language search phrase.
type Parsed struct {
	Keywords []string `json:"keywords"`
	MinPrice *float64 `json:"min_price,omitempty"`
	MaxPrice *float64 `json:"max_price,omitempty"`
	Colors   []string `json:"colors,omitempty"`
	Sizes    []string `json:"sizes,omitempty"`
	Brands   []string `json:"brands,omitempty"`
}

// Query joins the residual keywords back into a search string.
func (p *Parsed) Query() string {
	return strings.Join(p.Keywords, " ")
}

var (
	maxPriceRe   = regexp.MustCompile(`(?i)\b(?:under|below|less than)\s+(\d+)\b`)
	minPriceRe   = regexp.MustCompile(`(?i)\b(?:above|over|more than)\s+(\d+)\b`)
	rangePriceRe = regexp.MustCompile(`(?i)\b(?:between\s+)?(\d+)\s+(?:and|to)\s+(\d+)\b`)
)

var knownColors = []string{
	"red", "blue", "green", "black", "white", "yellow",
	"orange", "purple", "pink", "brown", "gray", "grey",
}

var knownSizes = []string{
	"small", "medium", "large", "xl", "xxl", "s", "m", "l",
}

// knownBrands is a starter list; a production deployment would load it from
// the catalog.
var knownBrands = []string{
	"nike", "adidas", "puma", "reebok", "samsung", "apple", "sony",
}

// Parse applies the rule table to a phrase. Price rules run in order with
// bound phrases taking precedence over bare ranges; every recognized
// fragment is stripped before the residue is split into keywords.
func Parse(phrase string) *Parsed {
	parsed := &Parsed{Keywords: []string{}}
	rest := phrase

	if m := maxPriceRe.FindStringSubmatch(rest); m != nil {
		parsed.MaxPrice = parseAmount(m[1])
		rest = maxPriceRe.ReplaceAllString(rest, " ")
	}
	if m := minPriceRe.FindStringSubmatch(rest); m != nil {
		parsed.MinPrice = parseAmount(m[1])
		rest = minPriceRe.ReplaceAllString(rest, " ")
	}
	if parsed.MinPrice == nil && parsed.MaxPrice == nil {
		if m := rangePriceRe.FindStringSubmatch(rest); m != nil {
			parsed.MinPrice = parseAmount(m[1])
			parsed.MaxPrice = parseAmount(m[2])
			rest = rangePriceRe.ReplaceAllString(rest, " ")
		}
	}

	rest, parsed.Colors = extractTerms(rest, knownColors)
	rest, parsed.Sizes = extractTerms(rest, knownSizes)
	rest, parsed.Brands = extractTerms(rest, knownBrands)

	parsed.Keywords = append(parsed.Keywords, strings.Fields(rest)...)
	return parsed
}

func parseAmount(s string) *float64 {
	n, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &n
}

// extractTerms removes whole-word occurrences of the vocabulary from the
// phrase and returns the matches in vocabulary order.
func extractTerms(phrase string, vocabulary []string) (string, []string) {
	words := strings.Fields(phrase)
	var found []string

	for _, term := range vocabulary {
		matched := false
		kept := words[:0]
		for _, word := range words {
			if strings.EqualFold(strings.Trim(word, ",."), term) {
				matched = true
				continue
			}
			kept = append(kept, word)
		}
		words = kept
		if matched {
			found = append(found, term)
		}
	}
	return strings.Join(words, " "), found
}
