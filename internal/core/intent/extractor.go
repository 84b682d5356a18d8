// Package intent is the parse-and-validate boundary between
// free-form LLM output and the synthesis engine. Everything coming
// back from the model is treated as untrusted input: it either yields
// a well-typed component list or ErrMalformedIntent.
package intent

import (
	"context"
	"errors"
	"fmt"

	"github.com/agenthands/flowforge/internal/config"
	"github.com/agenthands/flowforge/internal/core/common"
	"github.com/agenthands/flowforge/internal/core/model"
	"github.com/agenthands/flowforge/internal/llm"
)

// ErrMalformedIntent is the single hard failure of the pipeline:
// structured intent that fails shape validation is rejected before it
// reaches the engine.
var ErrMalformedIntent = errors.New("malformed intent")

type Extractor struct {
	LLM    llm.LLMClient
	Prompt string
}

func NewExtractor(llmClient llm.LLMClient, prompts config.IntentPrompts) *Extractor {
	return &Extractor{
		LLM:    llmClient,
		Prompt: prompts.Components,
	}
}

// RawComponent mirrors the JSON shape the intent prompt asks the LLM
// for. Quantity is a pointer so an absent field (defaults to 1) is
// distinguishable from an explicit zero (rejected).
type RawComponent struct {
	Type                string   `json:"type"`
	Name                string   `json:"name,omitempty"`
	Quantity            *int     `json:"quantity,omitempty"`
	ExplicitlyMentioned bool     `json:"explicitly_mentioned"`
	AdapterType         string   `json:"adapter_type,omitempty"`
	RoutingCriteria     string   `json:"routing_criteria,omitempty"`
	BranchCount         int      `json:"branch_count,omitempty"`
	BranchTargets       []string `json:"branch_targets,omitempty"`
}

type intentPayload struct {
	Components []RawComponent `json:"components"`
}

// ExtractComponents prompts the LLM with the user's requirement text
// and returns the validated component list.
func (e *Extractor) ExtractComponents(ctx context.Context, requirement string) ([]model.Component, error) {
	prompt := fmt.Sprintf(e.Prompt, requirement)

	response, err := e.LLM.Generate(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("intent extraction failed: %w", err)
	}

	payload, err := common.ParseJSON[intentPayload](response)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedIntent, err)
	}

	return Validate(payload.Components)
}

// Validate checks the structural shape of raw components and maps
// them onto the closed component-kind set. Pre-structured submissions
// that skip the LLM go through the same gate.
func Validate(raw []RawComponent) ([]model.Component, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("%w: no components", ErrMalformedIntent)
	}

	components := make([]model.Component, 0, len(raw))
	for i, rc := range raw {
		if rc.Type == "" {
			return nil, fmt.Errorf("%w: component %d has no type", ErrMalformedIntent, i)
		}

		quantity := 1
		if rc.Quantity != nil {
			if *rc.Quantity < 1 {
				return nil, fmt.Errorf("%w: component %d (%s) has non-positive quantity %d", ErrMalformedIntent, i, rc.Type, *rc.Quantity)
			}
			quantity = *rc.Quantity
		}

		kind, _ := model.ParseKind(rc.Type)

		if len(rc.BranchTargets) > 0 || rc.BranchCount != 0 {
			if kind != model.KindRouter {
				return nil, fmt.Errorf("%w: component %d (%s) declares branch metadata but is not a router", ErrMalformedIntent, i, rc.Type)
			}
			if rc.BranchCount < 2 {
				return nil, fmt.Errorf("%w: router component %d has branch_count %d (need >= 2)", ErrMalformedIntent, i, rc.BranchCount)
			}
		}

		components = append(components, model.Component{
			Type:                rc.Type,
			Kind:                kind,
			Name:                rc.Name,
			Quantity:            quantity,
			ExplicitlyMentioned: rc.ExplicitlyMentioned,
			AdapterType:         rc.AdapterType,
			RoutingCriteria:     rc.RoutingCriteria,
			BranchCount:         rc.BranchCount,
			BranchTargets:       rc.BranchTargets,
		})
	}

	return components, nil
}
