package cli

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/aretw0/relay"
	"github.com/aretw0/relay/internal/logging"
	"github.com/aretw0/relay/pkg/actions"
	"github.com/aretw0/relay/pkg/adapters/memory"
	"github.com/aretw0/relay/pkg/adapters/openai"
	redisadapter "github.com/aretw0/relay/pkg/adapters/redis"
	"github.com/aretw0/relay/pkg/persistence/middleware"
	"github.com/aretw0/relay/pkg/ports"
)

// NewSignalContext creates a context cancelled on SIGINT or SIGTERM.
func NewSignalContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}

// createLogger configures the application logger. Debug mode writes to
// stderr so the conversation UI on stdout stays clean.
func createLogger(debug bool) *slog.Logger {
	if debug {
		return logging.New(slog.LevelDebug)
	}
	return logging.NewNop()
}

// printSystemMessage prints a standardized system message to stdout.
func printSystemMessage(format string, args ...any) {
	fmt.Printf(">>> %s\n", fmt.Sprintf(format, args...))
}

// buildBridge assembles a Bridge from resolved configuration.
func buildBridge(cfg *Config, logger *slog.Logger, extra ...relay.Option) (*relay.Bridge, func(), error) {
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	providerOpts := []openai.Option{}
	if cfg.Model != "" {
		providerOpts = append(providerOpts, openai.WithModel(cfg.Model))
	}
	provider := openai.New(cfg.OpenAIKey, providerOpts...)

	gateway := actions.NewClient(cfg.ActionsURL, cfg.ActionsKey, actions.WithLogger(logger))

	bridgeOpts := []relay.Option{
		relay.WithLogger(logger),
		relay.WithStrictAuth(cfg.StrictAuth),
	}
	if cfg.PollInterval > 0 {
		bridgeOpts = append(bridgeOpts, relay.WithPollInterval(cfg.PollInterval))
	}

	cleanup := func() {}
	var store ports.SessionStore
	if cfg.RedisAddr != "" {
		redisStore := redisadapter.New(cfg.RedisAddr, "", 0)
		store = redisStore
		bridgeOpts = append(bridgeOpts,
			relay.WithLocker(redisadapter.NewLocker(redisStore.Client(), "relay:")),
		)
		cleanup = func() { _ = redisStore.Close() }
	} else if cfg.SessionKey != "" {
		store = memory.NewStore()
	}

	if cfg.SessionKey != "" {
		key, err := decodeSessionKey(cfg.SessionKey)
		if err != nil {
			cleanup()
			return nil, nil, err
		}
		store = middleware.Chain(store, middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{
			ActiveKey: key,
		}))
	}
	if store != nil {
		bridgeOpts = append(bridgeOpts, relay.WithSessionStore(store))
	}
	bridgeOpts = append(bridgeOpts, extra...)

	bridge, err := relay.New(provider, gateway, bridgeOpts...)
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	return bridge, cleanup, nil
}

// decodeSessionKey accepts a base64-encoded or raw 32-byte AES-256 key.
func decodeSessionKey(value string) ([]byte, error) {
	if decoded, err := base64.StdEncoding.DecodeString(value); err == nil && len(decoded) == 32 {
		return decoded, nil
	}
	if len(value) == 32 {
		return []byte(value), nil
	}
	return nil, fmt.Errorf("session key must be 32 bytes, raw or base64 (set RELAY_SESSION_KEY)")
}
