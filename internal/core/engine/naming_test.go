package engine

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/agenthands/flowforge/internal/core/model"
)

func TestAllocate_Conventions(t *testing.T) {
	alloc := NewAllocationContext()

	name, _ := alloc.Allocate(model.KindStartEvent, "StartEvent")
	assert.Equal(t, "Start 1", name)

	name, _ = alloc.Allocate(model.KindRouter, "Router")
	assert.Equal(t, "Router 1", name)

	name, _ = alloc.Allocate(model.KindContentModifier, "ContentModifier")
	assert.Equal(t, "Content Modifier 1", name)

	name, _ = alloc.Allocate(model.KindContentModifier, "ContentModifier")
	assert.Equal(t, "Content Modifier 2", name)

	name, _ = alloc.Allocate(model.KindGroovyScript, "GroovyScript")
	assert.Equal(t, "Groovy Script 1", name)

	name, _ = alloc.Allocate(model.KindEndEvent, "EndEvent")
	assert.Equal(t, "End 1", name)
}

func TestAllocate_ParticipantsHaveNoSeparator(t *testing.T) {
	alloc := NewAllocationContext()

	name, _ := alloc.Allocate(model.KindSender, "Sender")
	assert.Equal(t, "Sender1", name)

	name, _ = alloc.Allocate(model.KindReceiver, "Receiver")
	assert.Equal(t, "Receiver1", name)

	// External receivers share the receiver counter, so names never
	// collide between the two participant kinds.
	name, _ = alloc.Allocate(model.KindExternalReceiver, "ExternalReceiver")
	assert.Equal(t, "Receiver2", name)
}

func TestAllocate_GenericUsesRawType(t *testing.T) {
	alloc := NewAllocationContext()

	name, id := alloc.Allocate(model.KindGeneric, "IdempotentProcessCall")
	assert.Equal(t, "Idempotent Process Call 1", name)
	assert.Equal(t, "IdempotentProcessCall_1", id)
}

func TestAllocate_NeverRepeats(t *testing.T) {
	alloc := NewAllocationContext()

	seenNames := make(map[string]bool)
	seenIDs := make(map[string]bool)
	kindsToTest := []model.ComponentKind{
		model.KindStartEvent, model.KindContentModifier, model.KindRouter,
		model.KindGroovyScript, model.KindReceiver, model.KindExternalReceiver,
	}
	for i := 0; i < 200; i++ {
		kind := kindsToTest[i%len(kindsToTest)]
		name, id := alloc.Allocate(kind, string(kind))
		assert.False(t, seenNames[name], fmt.Sprintf("name %q repeated", name))
		assert.False(t, seenIDs[id], fmt.Sprintf("id %q repeated", id))
		seenNames[name] = true
		seenIDs[id] = true
	}
}

func TestSplitCamelCase(t *testing.T) {
	assert.Equal(t, "Content Modifier", splitCamelCase("ContentModifier"))
	assert.Equal(t, "XML Validator", splitCamelCase("XMLValidator"))
	assert.Equal(t, "Filter", splitCamelCase("Filter"))
}
