package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/aretw0/relay"
	"github.com/aretw0/relay/internal/presentation/tui"
	"github.com/aretw0/relay/pkg/domain"
)

// ChatOptions contains the configuration for the chat command.
type ChatOptions struct {
	ConfigPath   string
	AssistantID  string
	SessionID    string
	Name         string
	Instructions string
	Debug        bool
	Quiet        bool
}

// DefaultInstructions is used when creating an assistant without explicit
// instructions.
const DefaultInstructions = "You are a helpful assistant. Use the provided tools to perform actions on behalf of the user."

// RunChat starts an interactive conversation loop on stdin/stdout.
func RunChat(ctx context.Context, opts ChatOptions) error {
	logger := createLogger(opts.Debug)

	cfg, err := LoadConfig(opts.ConfigPath)
	if err != nil {
		return err
	}

	bridge, cleanup, err := buildBridge(cfg, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	if err := bridge.VerifyCredentials(ctx); err != nil {
		return fmt.Errorf("credential check: %w", err)
	}

	sess, err := resolveSession(ctx, bridge, opts)
	if err != nil {
		return err
	}

	interactive := term.IsTerminal(int(os.Stdout.Fd()))
	render := func(s string) (string, error) { return s, nil }
	if interactive {
		if !opts.Quiet {
			tui.PrintBanner()
			printSystemMessage("Session '%s' active. Type 'exit' to quit.", sess.ID)
		}
		render = tui.NewRenderer()
	}

	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for {
		if interactive {
			fmt.Print("> ")
		}
		if !scanner.Scan() {
			break
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "exit" || line == "quit" {
			break
		}

		reply, err := bridge.Send(ctx, sess.ID, line)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				break
			}
			return fmt.Errorf("send: %w", err)
		}

		switch reply.Status {
		case domain.StatusCompleted:
			out, renderErr := render(reply.Text)
			if renderErr != nil {
				out = reply.Text
			}
			fmt.Println(out)
		default:
			printSystemMessage("Run ended with status '%s'.", reply.Status)
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read input: %w", err)
	}
	return nil
}

// resolveSession resumes an existing session or starts a new one, creating
// an assistant first when no assistant id was given.
func resolveSession(ctx context.Context, bridge *relay.Bridge, opts ChatOptions) (*domain.Session, error) {
	if opts.SessionID != "" {
		return bridge.ResumeSession(ctx, opts.SessionID)
	}

	var info *domain.AssistantInfo
	var err error
	if opts.AssistantID != "" {
		info, err = bridge.AttachAssistant(ctx, opts.AssistantID)
	} else {
		name := opts.Name
		if name == "" {
			name = "relay"
		}
		instructions := opts.Instructions
		if instructions == "" {
			instructions = DefaultInstructions
		}
		info, err = bridge.NewAssistant(ctx, name, instructions)
	}
	if err != nil {
		return nil, err
	}

	return bridge.StartSession(ctx, info)
}
