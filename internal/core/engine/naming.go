package engine

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/agenthands/flowforge/internal/core/model"
)

// AllocationContext assigns collision-free instance names and ids for
// one generation request. Counters are keyed by normalized base name,
// strictly monotonic, and never reused. The context is request-local
// state; it must not be shared across concurrent requests.
type AllocationContext struct {
	counters map[string]int
}

func NewAllocationContext() *AllocationContext {
	return &AllocationContext{counters: make(map[string]int)}
}

// Allocate returns the display name and id for the next instance of
// the given kind. Naming conventions:
//
//   - Start/End/Router events: "<Base> <n>"
//   - Sender/Receiver participants: "<Base><n>" (no separator)
//   - all other processing steps: camel-case split "<Spaced Base> <n>"
func (a *AllocationContext) Allocate(kind model.ComponentKind, rawType string) (name string, id string) {
	base := baseName(kind, rawType)
	a.counters[base]++
	n := a.counters[base]

	compact := strings.ReplaceAll(base, " ", "")
	id = fmt.Sprintf("%s_%d", compact, n)

	if kind.IsParticipant() {
		return fmt.Sprintf("%s%d", compact, n), id
	}
	return fmt.Sprintf("%s %d", base, n), id
}

func baseName(kind model.ComponentKind, rawType string) string {
	switch kind {
	case model.KindStartEvent:
		return "Start"
	case model.KindEndEvent:
		return "End"
	case model.KindRouter:
		return "Router"
	case model.KindSender:
		return "Sender"
	case model.KindReceiver, model.KindExternalReceiver:
		// External receivers share the participant counter so names
		// stay unique across both.
		return "Receiver"
	case model.KindGeneric:
		if rawType != "" {
			return splitCamelCase(rawType)
		}
		return "Step"
	default:
		return splitCamelCase(string(kind))
	}
}

// splitCamelCase turns "ContentModifier" into "Content Modifier".
// Runs of capitals stay together ("XMLValidator" -> "XML Validator").
func splitCamelCase(s string) string {
	runes := []rune(s)
	var b strings.Builder
	for i, r := range runes {
		if i > 0 && unicode.IsUpper(r) {
			prev := runes[i-1]
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextLower) {
				b.WriteRune(' ')
			}
		}
		b.WriteRune(r)
	}
	return b.String()
}
