// Package query normalizes free-form medicine names into canonical search queries.
package query

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/pharmalens/pricelens/internal/domain"
)

// ErrEmptyQuery is returned when a name cannot be canonicalized into a
// non-empty search string. This is the engine's only hard failure.
var ErrEmptyQuery = errors.New("medicine name canonicalizes to an empty query")

// Compiled patterns for name normalization.
var (
	// Matches a dosage like "650mg", "5 ml", "0.5 mcg". No leading boundary,
	// so glued forms like "Dolo650mg" still split. Longer units first so "mg"
	// is not consumed as a bare "g".
	dosagePattern = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*(mcg|mg|ml|gm|iu|g)\b`)

	// Matches a percent-strength dosage like "2.5%".
	percentPattern = regexp.MustCompile(`(?i)\b(\d+(?:\.\d+)?)\s*%`)

	// Parenthetical content is kept, the parentheses are not.
	parensPattern = regexp.MustCompile(`\(([^)]*)\)`)

	// Everything that is not a word character, digit, dot, or hyphen is noise.
	noisePattern = regexp.MustCompile(`[^\w\s.\-%]`)

	multiSpacePattern = regexp.MustCompile(`\s+`)
)

// formWords are dosage-form and packaging words stripped from base names.
var formWords = map[string]bool{
	"tablet": true, "tablets": true, "tab": true, "tabs": true,
	"capsule": true, "capsules": true, "cap": true, "caps": true,
	"syrup": true, "suspension": true, "drops": true, "drop": true,
	"injection": true, "inj": true, "cream": true, "ointment": true, "gel": true,
	"powder": true, "sachet": true, "strip": true, "bottle": true,
	"ml": true, "mg": true, "gm": true, "g": true, "mcg": true, "iu": true,
	"of": true, "pack": true, "unit": true, "units": true, "'s": true,
}

// Builder canonicalizes raw medicine names. Stateless and safe for
// concurrent use.
type Builder struct{}

// NewBuilder creates a new query builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// Build normalizes rawName (and an optional explicit dosage) into a
// SearchQuery-ready canonical string plus alternative names.
//
//	"Dolo 650mg tablet"      -> "Dolo 650mg"
//	"Crocin Advance (500 mg)" -> "Crocin Advance 500mg"
//
// Absence of a dosage or of alternatives is a normal empty result. Build
// fails only when the name reduces to an empty string.
func (b *Builder) Build(rawName, dosage string) (domain.SearchQuery, error) {
	base, extracted := splitBaseAndDosage(cleanName(rawName))

	finalDosage := normalizeDosage(dosage)
	if finalDosage == "" {
		finalDosage = extracted
	}

	canonical := base
	if finalDosage != "" {
		canonical = strings.TrimSpace(base + " " + finalDosage)
	}
	if canonical == "" {
		return domain.SearchQuery{}, fmt.Errorf("%w: %q", ErrEmptyQuery, rawName)
	}

	return domain.SearchQuery{
		RawName:          rawName,
		Dosage:           finalDosage,
		CanonicalQuery:   canonical,
		AlternativeNames: alternativesFor(base),
	}, nil
}

// cleanName collapses whitespace, flattens parenthetical content, and strips
// punctuation noise while preserving digits, dots, and hyphens.
func cleanName(name string) string {
	cleaned := parensPattern.ReplaceAllString(name, " $1 ")
	cleaned = noisePattern.ReplaceAllString(cleaned, " ")
	cleaned = multiSpacePattern.ReplaceAllString(cleaned, " ")
	return strings.TrimSpace(cleaned)
}

// splitBaseAndDosage separates the base medicine name from an embedded
// dosage token. Form words are stripped from the base.
func splitBaseAndDosage(cleaned string) (base, dosage string) {
	match := dosagePattern.FindStringSubmatchIndex(cleaned)
	if match == nil {
		match = percentPattern.FindStringSubmatchIndex(cleaned)
		if match != nil {
			dosage = cleaned[match[2]:match[3]] + "%"
		}
	} else {
		dosage = cleaned[match[2]:match[3]] + strings.ToLower(cleaned[match[4]:match[5]])
	}

	if match == nil {
		return stripFormWords(cleaned), ""
	}

	base = strings.TrimSpace(cleaned[:match[0]])
	if base == "" {
		// Dosage-first names like "500mg Paracetamol".
		base = strings.TrimSpace(cleaned[match[1]:])
	}
	return stripFormWords(base), dosage
}

// normalizeDosage canonicalizes an explicit dosage argument ("650 MG" -> "650mg").
func normalizeDosage(dosage string) string {
	dosage = strings.TrimSpace(dosage)
	if dosage == "" {
		return ""
	}
	if m := dosagePattern.FindStringSubmatch(dosage); m != nil {
		return m[1] + strings.ToLower(m[2])
	}
	if m := percentPattern.FindStringSubmatch(dosage); m != nil {
		return m[1] + "%"
	}
	return dosage
}

// stripFormWords removes dosage-form words ("tablet", "syrup", ...) from a name.
func stripFormWords(name string) string {
	words := strings.Fields(name)
	kept := make([]string, 0, len(words))
	for _, w := range words {
		if !formWords[strings.ToLower(w)] {
			kept = append(kept, w)
		}
	}
	return strings.Join(kept, " ")
}
