package common

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ParseJSON cleans and unmarshals a JSON string into a type T.
// It handles common LLM quirks like surrounding markdown or extra text.
func ParseJSON[T any](response string) (T, error) {
	var zero T
	jsonStr := response

	// Find first '{' and last '}'
	start := -1
	end := -1

	for i, c := range jsonStr {
		if c == '{' {
			start = i
			break
		}
	}
	for i := len(jsonStr) - 1; i >= 0; i-- {
		if c := jsonStr[i]; c == '}' {
			end = i + 1
			break
		}
	}

	if start != -1 && end != -1 && start < end {
		jsonStr = jsonStr[start:end]
	} else if start == -1 {
		return zero, fmt.Errorf("no JSON object found in response (missing '{')")
	}

	var result T
	if err := json.Unmarshal([]byte(jsonStr), &result); err != nil {
		return zero, fmt.Errorf("failed to unmarshal JSON: %w\nData: %s", err, jsonStr)
	}

	return result, nil
}

// Tokenize lowercases a name and splits it on whitespace, underscores,
// hyphens, dots and slashes. Used for token-overlap scoring of node
// and artifact names.
func Tokenize(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		switch r {
		case ' ', '\t', '_', '-', '.', '/':
			return true
		}
		return false
	})
}

// TokenSet returns the tokens of s as a set.
func TokenSet(s string) map[string]struct{} {
	set := make(map[string]struct{}, 8)
	for _, tok := range Tokenize(s) {
		set[tok] = struct{}{}
	}
	return set
}

// TokenOverlap counts tokens shared between two names.
func TokenOverlap(a, b string) int {
	setA := TokenSet(a)
	count := 0
	for tok := range TokenSet(b) {
		if _, ok := setA[tok]; ok {
			count++
		}
	}
	return count
}
