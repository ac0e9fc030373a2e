// Package address decomposes free-form street lines into the gateway's
// street / house number / suffix vocabulary.
package address

import (
	"strings"
	"unicode"

	"paybridge/internal/assembly/models"
)

// Format splits a raw street line into street name, house number and number
// suffix. The last whitespace token that starts with a digit is taken as the
// house number; the token's non-digit remainder and any trailing tokens form
// the suffix. Lines without a numeric token come back whole as the street
// name. Format never fails.
func Format(raw string) models.StreetParts {
	trimmed := strings.TrimSpace(raw)
	parts := models.StreetParts{Street: trimmed}
	if trimmed == "" {
		parts.Street = raw
		return parts
	}

	tokens := strings.Fields(trimmed)
	for i := len(tokens) - 1; i > 0; i-- {
		if !startsWithDigit(tokens[i]) {
			continue
		}

		number, suffix := splitNumberToken(tokens[i])
		if len(tokens) > i+1 {
			rest := strings.Join(tokens[i+1:], " ")
			if suffix == "" {
				suffix = rest
			} else {
				suffix += " " + rest
			}
		}

		parts.Street = strings.Join(tokens[:i], " ")
		parts.HouseNumber = number
		parts.NumberSuffix = suffix
		break
	}

	return parts
}

func startsWithDigit(token string) bool {
	for _, r := range token {
		return unicode.IsDigit(r)
	}
	return false
}

// splitNumberToken separates the leading digit run from the remainder, so
// "12B" yields ("12", "B").
func splitNumberToken(token string) (number, suffix string) {
	for i, r := range token {
		if !unicode.IsDigit(r) {
			return token[:i], token[i:]
		}
	}
	return token, ""
}
