package model

import "strings"

// ComponentKind is the closed set of integration component kinds the
// engine knows how to place. Unknown type strings parse to KindGeneric
// with the raw name preserved on the owning Component.
type ComponentKind string

const (
	KindStartEvent       ComponentKind = "StartEvent"
	KindEndEvent         ComponentKind = "EndEvent"
	KindContentModifier  ComponentKind = "ContentModifier"
	KindRouter           ComponentKind = "Router"
	KindGroovyScript     ComponentKind = "GroovyScript"
	KindMessageMapping   ComponentKind = "MessageMapping"
	KindRequestReply     ComponentKind = "RequestReply"
	KindServiceCall      ComponentKind = "ServiceCall"
	KindMessageFlow      ComponentKind = "MessageFlow"
	KindFilter           ComponentKind = "Filter"
	KindSplitter         ComponentKind = "Splitter"
	KindAggregator       ComponentKind = "Aggregator"
	KindEnricher         ComponentKind = "Enricher"
	KindSender           ComponentKind = "Sender"
	KindReceiver         ComponentKind = "Receiver"
	KindExternalReceiver ComponentKind = "ExternalReceiver"
	KindGeneric          ComponentKind = "Generic"
)

var knownKinds = map[string]ComponentKind{
	"startevent":       KindStartEvent,
	"start":            KindStartEvent,
	"endevent":         KindEndEvent,
	"end":              KindEndEvent,
	"contentmodifier":  KindContentModifier,
	"router":           KindRouter,
	"groovyscript":     KindGroovyScript,
	"script":           KindGroovyScript,
	"messagemapping":   KindMessageMapping,
	"requestreply":     KindRequestReply,
	"request-reply":    KindRequestReply,
	"servicecall":      KindServiceCall,
	"messageflow":      KindMessageFlow,
	"filter":           KindFilter,
	"splitter":         KindSplitter,
	"aggregator":       KindAggregator,
	"enricher":         KindEnricher,
	"contentenricher":  KindEnricher,
	"sender":           KindSender,
	"receiver":         KindReceiver,
	"externalreceiver": KindExternalReceiver,
}

// ParseKind maps a free-form type string to a ComponentKind.
// The second return reports whether the string named a known kind.
func ParseKind(s string) (ComponentKind, bool) {
	key := strings.ToLower(strings.TrimSpace(s))
	key = strings.ReplaceAll(key, " ", "")
	key = strings.ReplaceAll(key, "_", "")
	if k, ok := knownKinds[key]; ok {
		return k, true
	}
	return KindGeneric, false
}

// IsParticipant reports whether the kind renders as a participant
// pool rather than a processing step.
func (k ComponentKind) IsParticipant() bool {
	return k == KindSender || k == KindReceiver || k == KindExternalReceiver
}

// Component is one user-requested building block after intent
// extraction. Quantity expands to that many instances.
type Component struct {
	Type                string        `json:"type"`
	Kind                ComponentKind `json:"kind"`
	Name                string        `json:"name,omitempty"`
	Quantity            int           `json:"quantity"`
	ExplicitlyMentioned bool          `json:"explicitly_mentioned"`
	AdapterType         string        `json:"adapter_type,omitempty"`
	RoutingCriteria     string        `json:"routing_criteria,omitempty"`
	BranchCount         int           `json:"branch_count,omitempty"`
	BranchTargets       []string      `json:"branch_targets,omitempty"`
}

// ComponentInstance is one concrete occurrence of a Component after
// expansion. Name and ID are unique within a FlowGraph; BranchNumber
// is zero for trunk instances.
type ComponentInstance struct {
	Kind         ComponentKind `json:"kind"`
	Type         string        `json:"type"`
	Name         string        `json:"name"`
	ID           string        `json:"id"`
	AdapterType  string        `json:"adapter_type,omitempty"`
	BranchNumber int           `json:"branch_number,omitempty"`
}
