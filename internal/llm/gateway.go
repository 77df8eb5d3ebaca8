package llm

import (
	"context"
	"log"
	"strings"
)

// Gateway wraps a single external text-generation capability. It owns the
// session's credential and creates a fresh client for each call, so it keeps
// no state between invocations.
type Gateway struct {
	apiKey  string
	config  *Config
	factory ClientFactory
	verbose bool
}

// GatewayOption configures a Gateway.
type GatewayOption func(*Gateway)

// WithClientFactory overrides how clients are created (tests use this to stub the backend).
func WithClientFactory(factory ClientFactory) GatewayOption {
	return func(g *Gateway) {
		g.factory = factory
	}
}

// WithConfig sets the model configuration.
func WithConfig(config *Config) GatewayOption {
	return func(g *Gateway) {
		if config != nil {
			g.config = config
		}
	}
}

// WithVerbose enables request logging.
func WithVerbose(verbose bool) GatewayOption {
	return func(g *Gateway) {
		g.verbose = verbose
	}
}

// NewGateway creates a gateway for the given API key. An empty key is
// allowed; every call will then fail with ErrMissingCredential.
func NewGateway(apiKey string, opts ...GatewayOption) *Gateway {
	g := &Gateway{
		apiKey:  strings.TrimSpace(apiKey),
		config:  DefaultConfig(),
		factory: NewClient,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// CheckCredential returns ErrMissingCredential if no API key is configured.
func (g *Gateway) CheckCredential() error {
	if g.apiKey == "" {
		return ErrMissingCredential
	}
	return nil
}

// Config returns the gateway's model configuration.
func (g *Gateway) Config() *Config {
	return g.config
}

// Generate sends prompt to the model behind selector and returns the
// generated text. The credential is checked before any call is attempted.
// All backend failures are returned as *BackendError; nothing is retried.
func (g *Gateway) Generate(ctx context.Context, prompt string, selector ModelSelector) (string, error) {
	if err := g.CheckCredential(); err != nil {
		return "", err
	}

	client, err := g.factory(ctx, g.config, g.apiKey)
	if err != nil {
		return "", newBackendError(err)
	}
	defer func() {
		if cerr := client.Close(); cerr != nil && g.verbose {
			log.Printf("[GATEWAY] close client: %v", cerr)
		}
	}()

	if g.verbose {
		log.Printf("[GATEWAY] generating with %s (%d prompt chars)", g.config.GetModel(selector), len(prompt))
	}

	text, err := client.GenerateContent(ctx, prompt, selector)
	if err != nil {
		if g.verbose {
			log.Printf("[GATEWAY] generation failed: %v", err)
		}
		return "", newBackendError(err)
	}

	return text, nil
}
