// Package app assembles stores, the completion client and services into one core
// shared by the HTTP server and the CLI.
package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Harshitk-cp/helios/internal/config"
	"github.com/Harshitk-cp/helios/internal/domain"
	"github.com/Harshitk-cp/helios/internal/llm"
	"github.com/Harshitk-cp/helios/internal/service"
	"github.com/Harshitk-cp/helios/internal/store"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// Options selects backends. The zero value is a local-only core with no live provider.
type Options struct {
	SimulationMode bool

	CompletionProvider string
	CompletionURL      string
	CompletionAPIKey   string
	CompletionModel    string
	CompletionTimeout  time.Duration

	MemoryURL     string
	MemoryAPIKey  string
	MemoryTimeout time.Duration

	DatabaseURL string
}

// OptionsFromEnv reads Options from the loaded environment.
func OptionsFromEnv() Options {
	return Options{
		SimulationMode:     config.SimulationMode(),
		CompletionProvider: config.CompletionProvider(),
		CompletionURL:      config.CompletionURL(),
		CompletionAPIKey:   config.CompletionAPIKey(),
		CompletionModel:    config.CompletionModel(),
		CompletionTimeout:  config.CompletionTimeout(),
		MemoryURL:          config.MemoryURL(),
		MemoryAPIKey:       config.MemoryAPIKey(),
		MemoryTimeout:      config.MemoryTimeout(),
		DatabaseURL:        config.DatabaseURL(),
	}
}

// Core owns every long-lived resource. Close releases them.
type Core struct {
	Memory     *store.MemoryRouter
	Beliefs    domain.BeliefStore
	Behavior   *store.BehaviorLogMemStore
	Characters *store.CharacterStore
	Completer  *llm.Client

	Dialogue *service.DialogueService
	Analyzer *service.BeliefService
	Echo     *service.EchoService

	pool   *pgxpool.Pool
	logger *zap.Logger
}

func New(ctx context.Context, opts Options, logger *zap.Logger) (*Core, error) {
	c := &Core{
		Behavior:   store.NewBehaviorLogMemStore(),
		Characters: store.NewCharacterStore(),
		logger:     logger,
	}

	// Memory
	var remote domain.RemoteMemoryProvider
	if opts.MemoryURL != "" {
		remote = store.NewRemoteMemory(opts.MemoryURL, opts.MemoryAPIKey, opts.MemoryTimeout)
		logger.Info("remote memory enabled", zap.String("url", opts.MemoryURL))
	}
	c.Memory = store.NewMemoryRouter(store.NewLocalMemory(), remote, logger)

	// Beliefs
	if opts.DatabaseURL != "" {
		pool, err := pgxpool.New(ctx, opts.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("connect to database: %w", err)
		}
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return nil, fmt.Errorf("ping database: %w", err)
		}
		pg := store.NewPGBeliefStore(pool)
		if err := pg.EnsureSchema(ctx); err != nil {
			pool.Close()
			return nil, fmt.Errorf("ensure belief schema: %w", err)
		}
		c.pool = pool
		c.Beliefs = pg
		logger.Info("connected to database")
	} else {
		c.Beliefs = store.NewBeliefMemStore()
	}

	// Completion
	provider, err := llm.NewProvider(opts.CompletionProvider, opts.CompletionURL, opts.CompletionAPIKey, opts.CompletionTimeout)
	if err != nil {
		if !errors.Is(err, llm.ErrProviderUnavailable) {
			c.Close()
			return nil, err
		}
		logger.Info("completion provider not configured, simulating", zap.String("provider", opts.CompletionProvider), zap.Error(err))
		provider = nil
	} else {
		logger.Info("completion provider initialized", zap.String("provider", opts.CompletionProvider))
	}
	c.Completer = llm.NewClient(provider, llm.ClientConfig{
		Simulate:     opts.SimulationMode,
		DefaultModel: opts.CompletionModel,
	}, logger)

	// Services
	c.Dialogue = service.NewDialogueService(c.Memory, c.Beliefs, c.Characters, c.Completer, logger)
	c.Dialogue.SetBehaviorLogStore(c.Behavior)
	c.Analyzer = service.NewBeliefService(c.Beliefs, c.Behavior, c.Characters, c.Completer, logger)
	c.Echo = service.NewEchoService(c.Memory, c.Beliefs, c.Completer, logger)

	return c, nil
}

// Ping checks the database when one is configured.
func (c *Core) Ping(ctx context.Context) error {
	if c.pool == nil {
		return nil
	}
	return c.pool.Ping(ctx)
}

func (c *Core) Close() {
	if c.pool != nil {
		c.pool.Close()
		c.pool = nil
	}
}

// Ensure stores and clients satisfy interfaces at compile time.
var (
	_ domain.SessionMemoryStore   = (*store.MemoryRouter)(nil)
	_ domain.SessionMemoryStore   = (*store.LocalMemory)(nil)
	_ domain.RemoteMemoryProvider = (*store.RemoteMemory)(nil)
	_ domain.BeliefStore          = (*store.BeliefMemStore)(nil)
	_ domain.BeliefStore          = (*store.PGBeliefStore)(nil)
	_ domain.CharacterStore       = (*store.CharacterStore)(nil)
	_ domain.BehaviorLogStore     = (*store.BehaviorLogMemStore)(nil)
	_ domain.CompletionProvider   = (*llm.OpenAIProvider)(nil)
	_ domain.CompletionProvider   = (*llm.AnthropicProvider)(nil)
	_ domain.CompletionProvider   = (*llm.MockProvider)(nil)
	_ domain.Completer            = (*llm.Client)(nil)
)
