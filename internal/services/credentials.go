package services

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/desertthunder/fithub/internal/shared"
)

// Credentials supplies the API key. It does not persist keys.
type Credentials interface {
	// HasCredential reports whether a key is currently available.
	HasCredential() bool
	// Credential returns the key, or "" when none is available.
	Credential() string
	// Prompt asks the user for a key. Implementations that cannot ask return nil and leave HasCredential false.
	Prompt(ctx context.Context) error
}

// StaticCredentials holds a key from config or the environment.
type StaticCredentials struct {
	key string
}

// NewStaticCredentials creates a [StaticCredentials] with key.
func NewStaticCredentials(key string) *StaticCredentials {
	return &StaticCredentials{key: strings.TrimSpace(key)}
}

// CredentialsFromConfig resolves the key from the literal value or the configured environment variable.
func CredentialsFromConfig(cfg shared.GeminiConfig) *StaticCredentials {
	return NewStaticCredentials(cfg.ResolveAPIKey())
}

func (s *StaticCredentials) HasCredential() bool              { return s.key != "" }
func (s *StaticCredentials) Credential() string               { return s.key }
func (s *StaticCredentials) Prompt(ctx context.Context) error { return nil }

// PromptCredentials falls back to asking on a terminal when no key is configured.
//
// A supplied key lives only in memory for the life of the process.
type PromptCredentials struct {
	fallback Credentials
	in       io.Reader
	out      io.Writer

	mu  sync.RWMutex
	key string
}

// NewPromptCredentials wraps fallback, reading a key from in and writing the prompt to out.
func NewPromptCredentials(fallback Credentials, in io.Reader, out io.Writer) *PromptCredentials {
	if fallback == nil {
		fallback = NewStaticCredentials("")
	}
	return &PromptCredentials{fallback: fallback, in: in, out: out}
}

func (p *PromptCredentials) HasCredential() bool {
	return p.Credential() != ""
}

func (p *PromptCredentials) Credential() string {
	p.mu.RLock()
	key := p.key
	p.mu.RUnlock()
	if key != "" {
		return key
	}
	return p.fallback.Credential()
}

// Set installs key directly, as the TUI does after its own input field.
func (p *PromptCredentials) Set(key string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.key = strings.TrimSpace(key)
}

// Prompt reads one line from the input. An empty line leaves the credential unset.
func (p *PromptCredentials) Prompt(ctx context.Context) error {
	if p.in == nil {
		return nil
	}
	if p.out != nil {
		fmt.Fprint(p.out, "Gemini API key (paid project required for video): ")
	}

	lines := make(chan string, 1)
	errs := make(chan error, 1)
	go func() {
		scanner := bufio.NewScanner(p.in)
		if scanner.Scan() {
			lines <- scanner.Text()
			return
		}
		errs <- scanner.Err()
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case err := <-errs:
		if err != nil {
			return fmt.Errorf("failed to read api key: %w", err)
		}
		return nil
	case line := <-lines:
		p.Set(line)
		return nil
	}
}
