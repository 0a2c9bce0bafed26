package service

import (
	"github.com/Harshitk-cp/helios/internal/llm"
	"github.com/Harshitk-cp/helios/internal/store"
	"go.uber.org/zap"
)

type fixture struct {
	memory     *store.LocalMemory
	beliefs    *store.BeliefMemStore
	behavior   *store.BehaviorLogMemStore
	characters *store.CharacterStore
	provider   *llm.MockProvider

	dialogue *DialogueService
	analyzer *BeliefService
	echo     *EchoService
}

// newFixture wires the services over in-memory stores. With simulate set the provider is
// never called.
func newFixture(simulate bool) *fixture {
	f := &fixture{
		memory:     store.NewLocalMemory(),
		beliefs:    store.NewBeliefMemStore(),
		behavior:   store.NewBehaviorLogMemStore(),
		characters: store.NewCharacterStore(),
		provider:   llm.NewMockProvider(),
	}
	logger := zap.NewNop()
	client := llm.NewClient(f.provider, llm.ClientConfig{Simulate: simulate, DefaultModel: "claude-3-sonnet"}, logger)

	f.dialogue = NewDialogueService(f.memory, f.beliefs, f.characters, client, logger)
	f.dialogue.SetBehaviorLogStore(f.behavior)
	f.analyzer = NewBeliefService(f.beliefs, f.behavior, f.characters, client, logger)
	f.echo = NewEchoService(f.memory, f.beliefs, client, logger)
	return f
}
