package core

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// FallbackCategory absorbs transactions no keyword matched.
const FallbackCategory = "other"

type (
	// CategoryRule maps a category name to the keyword substrings that
	// claim a merchant for it.
	CategoryRule struct {
		Name     string   `json:"name"`
		Keywords []string `json:"keywords"`
	}

	// Ruleset is an ordered list of category rules. Order matters:
	// keywords overlap across categories and the first match is
	// authoritative, so the declaration order must survive loading.
	Ruleset struct {
		rules []CategoryRule
	}
)

// NewRuleset builds a ruleset from rules in declaration order. Keywords are
// lowercased once here so Categorize does not re-normalize per call.
func NewRuleset(rules []CategoryRule) Ruleset {
	normalized := make([]CategoryRule, 0, len(rules))
	for _, r := range rules {
		nr := CategoryRule{Name: r.Name, Keywords: make([]string, 0, len(r.Keywords))}
		for _, kw := range r.Keywords {
			kw = strings.ToLower(strings.TrimSpace(kw))
			if kw == "" {
				continue
			}
			nr.Keywords = append(nr.Keywords, kw)
		}
		normalized = append(normalized, nr)
	}
	return Ruleset{rules: normalized}
}

// LoadRuleset reads a JSON array of category rules from path. A JSON array is
// used rather than an object so the category order is preserved.
func LoadRuleset(path string) (Ruleset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Ruleset{}, fmt.Errorf("read ruleset: %w", err)
	}
	var rules []CategoryRule
	if err := json.Unmarshal(data, &rules); err != nil {
		return Ruleset{}, fmt.Errorf("parse ruleset %s: %w", path, err)
	}
	if len(rules) == 0 {
		return Ruleset{}, fmt.Errorf("ruleset %s: no categories defined", path)
	}
	return NewRuleset(rules), nil
}

// Categorize returns the first category whose keyword list contains a
// case-insensitive substring match against the merchant text, or the
// fallback category if none match.
func (rs Ruleset) Categorize(merchant string) string {
	m := strings.ToLower(merchant)
	for _, rule := range rs.rules {
		for _, kw := range rule.Keywords {
			if strings.Contains(m, kw) {
				return rule.Name
			}
		}
	}
	return FallbackCategory
}

// Categories returns category names in declaration order, with the fallback
// category appended last. The slice is a copy.
func (rs Ruleset) Categories() []string {
	out := make([]string, 0, len(rs.rules)+1)
	for _, r := range rs.rules {
		out = append(out, r.Name)
	}
	return append(out, FallbackCategory)
}

// Rules returns the rules in declaration order. The slice is a copy; the
// keyword slices are shared and must not be mutated.
func (rs Ruleset) Rules() []CategoryRule {
	out := make([]CategoryRule, len(rs.rules))
	copy(out, rs.rules)
	return out
}

// DefaultRuleset returns the built-in keyword lists for the author's
// credit-card statements. Merchants are Slovak and Dutch shops; keep the
// keywords lowercase.
func DefaultRuleset() Ruleset {
	return NewRuleset([]CategoryRule{
		{Name: "groceries", Keywords: []string{
			"lidl", "billa", "malina", "kraj", "terno", "stary otec",
			"albert hein", "albert heijn", "jumbo", "spar", "tesco", "pekaren",
		}},
		{Name: "eating out", Keywords: []string{
			"roxor", "dunkin donuts", "chokiki", "poseidon", "mcdonald", "kfc",
			"restauracia", "kaviaren", "ramen", "bowlicheck", "soho",
			"starbucks", "subway", "koliba", "pho", "dominos", "kantina",
			"bbq", "burger", "cafe", "wolt", "noodle", "fresh market",
			"costa", "fruitisimo",
		}},
		{Name: "bolt", Keywords: []string{"bolt", "taxi"}},
		{Name: "car wash", Keywords: []string{"mobydick", "pasadur"}},
		{Name: "gas stations", Keywords: []string{"orlen", "slovnaft", "omv", "shell"}},
		{Name: "furniture", Keywords: []string{"ikea", "hornbach", "jysk", "mobelix", "decathlon", "bauhaus"}},
		{Name: "travel", Keywords: []string{"flixbus", "ryanair", "airbnb", "booking", "hotels.com"}},
	})
}
