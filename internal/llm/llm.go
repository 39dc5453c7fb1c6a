// Package llm is the gateway to the generative text model providers.
//
// Every call sends a system instruction and user content with a required
// output shape and a temperature, and returns a typed, validated result.
// Provider selection happens once, when the gateway is constructed from an
// explicit priority list; nothing here reads ambient state at call time.
package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"repurpose/internal/logger"

	"google.golang.org/genai"
)

// Validator is implemented by per-call-site response structs. The struct's
// json tags plus Validate form the output contract a model response must
// satisfy exactly.
type Validator interface {
	Validate() error
}

// Request describes one generation call.
type Request struct {
	System      string        // System instruction establishing role and rules
	User        string        // User content the model operates on
	Temperature float32       // Sampling temperature, 0.0-2.0
	MaxTokens   int32         // Response token cap; 0 uses the provider default
	Schema      *genai.Schema // Structured-output schema for providers that support it
}

// Gateway generates typed objects from a generative text model.
type Gateway interface {
	// GenerateObject issues one model call and decodes the response into out.
	// It fails with *SchemaError when the response does not satisfy out's
	// contract and *ProviderError when the call itself fails.
	GenerateObject(ctx context.Context, req Request, out Validator) error

	// Model reports the backing model identifier, for result metadata.
	Model() string
}

// ProviderSettings configures one backing provider.
type ProviderSettings struct {
	APIKey    string
	Model     string
	MaxTokens int32
}

// Config is the gateway factory input, constructed once per run from the
// application configuration.
type Config struct {
	ProviderPriority []string // Provider names in preference order
	Gemini           ProviderSettings
	OpenAI           ProviderSettings
	Anthropic        ProviderSettings

	MaxRetries int           // Retries for provider failures; schema failures never retry
	RetryDelay time.Duration // Base delay, grown linearly per attempt
}

// textGenerator is the raw single-call surface each provider implements.
type textGenerator interface {
	generateText(ctx context.Context, req Request) (string, error)
	name() string
	model() string
}

// client wraps a provider with retry and response-contract enforcement.
type client struct {
	gen        textGenerator
	maxRetries int
	retryDelay time.Duration
	log        *slog.Logger
}

// NewGateway resolves the first usable provider from cfg.ProviderPriority and
// returns a gateway backed by it. A provider is usable when its API key is
// configured.
func NewGateway(ctx context.Context, cfg Config) (Gateway, error) {
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = time.Second
	}

	for _, name := range cfg.ProviderPriority {
		var (
			gen textGenerator
			err error
		)
		switch name {
		case "gemini":
			if cfg.Gemini.APIKey == "" {
				continue
			}
			gen, err = newGeminiGenerator(ctx, cfg.Gemini)
		case "openai":
			if cfg.OpenAI.APIKey == "" {
				continue
			}
			gen = newOpenAIGenerator(cfg.OpenAI)
		case "anthropic":
			if cfg.Anthropic.APIKey == "" {
				continue
			}
			gen = newAnthropicGenerator(cfg.Anthropic)
		default:
			return nil, fmt.Errorf("unknown provider %q in priority list", name)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to initialize provider %q: %w", name, err)
		}
		logger.Debug("Resolved generation provider", "provider", name, "model", gen.model())
		return &client{
			gen:        gen,
			maxRetries: cfg.MaxRetries,
			retryDelay: cfg.RetryDelay,
			log:        logger.Get(),
		}, nil
	}

	return nil, fmt.Errorf("no usable provider: none of %v has an API key configured", cfg.ProviderPriority)
}

func (c *client) Model() string {
	return c.gen.model()
}

func (c *client) GenerateObject(ctx context.Context, req Request, out Validator) error {
	if req.Temperature < 0 || req.Temperature > 2 {
		return fmt.Errorf("temperature %.2f outside supported range [0, 2]", req.Temperature)
	}
	if out == nil {
		return fmt.Errorf("output contract is nil")
	}

	var (
		raw string
		err error
	)
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		raw, err = c.gen.generateText(ctx, req)
		if err == nil {
			break
		}
		if attempt < c.maxRetries {
			c.log.Warn("Provider call failed, retrying",
				"provider", c.gen.name(), "attempt", attempt+1, "error", err.Error())
			select {
			case <-ctx.Done():
				return &ProviderError{Provider: c.gen.name(), Err: ctx.Err()}
			case <-time.After(c.retryDelay * time.Duration(attempt+1)):
			}
		}
	}
	if err != nil {
		return &ProviderError{Provider: c.gen.name(), Err: err}
	}

	return decodeInto(c.gen.name(), raw, out)
}

// decodeInto enforces the output contract: fenced or prose-wrapped JSON is
// stripped, unknown fields are rejected, and the result must validate.
func decodeInto(provider, raw string, out Validator) error {
	cleaned := cleanJSONResponse(raw)

	dec := json.NewDecoder(strings.NewReader(cleaned))
	dec.DisallowUnknownFields()
	if err := dec.Decode(out); err != nil {
		return &SchemaError{Provider: provider, Reason: "response is not valid JSON for the expected shape", Raw: cleaned, Err: err}
	}
	if err := out.Validate(); err != nil {
		return &SchemaError{Provider: provider, Reason: "response JSON violates the output contract", Raw: cleaned, Err: err}
	}
	return nil
}

// cleanJSONResponse strips code fences and surrounding prose from a model
// response. Some model responses include extra text around the JSON payload.
func cleanJSONResponse(content string) string {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	content = strings.TrimSpace(content)

	start := strings.IndexAny(content, "{[")
	if start < 0 {
		return content
	}
	var end int
	if content[start] == '{' {
		end = strings.LastIndex(content, "}")
	} else {
		end = strings.LastIndex(content, "]")
	}
	if end > start {
		content = content[start : end+1]
	}
	return content
}

// schemaInstruction renders a structured-output schema as prompt text for
// providers without native schema support.
func schemaInstruction(schema *genai.Schema) string {
	if schema == nil {
		return "\n\nRespond with JSON only, no markdown fences and no commentary."
	}
	rendered := renderSchema(schema, 0)
	return fmt.Sprintf("\n\nRespond with JSON only, no markdown fences and no commentary. The JSON must match this shape exactly, with no extra fields:\n%s", rendered)
}

func renderSchema(schema *genai.Schema, depth int) string {
	indent := strings.Repeat("  ", depth)
	switch schema.Type {
	case genai.TypeObject:
		var b strings.Builder
		b.WriteString("{\n")
		required := make(map[string]bool, len(schema.Required))
		for _, name := range schema.Required {
			required[name] = true
		}
		first := true
		for name, prop := range schema.Properties {
			if !first {
				b.WriteString(",\n")
			}
			first = false
			note := prop.Description
			if !required[name] {
				if note != "" {
					note += " "
				}
				note += "(optional)"
			}
			b.WriteString(fmt.Sprintf("%s  %q: %s", indent, name, renderSchema(prop, depth+1)))
			if note != "" {
				b.WriteString(fmt.Sprintf(" // %s", note))
			}
		}
		b.WriteString("\n" + indent + "}")
		return b.String()
	case genai.TypeArray:
		if schema.Items != nil {
			return fmt.Sprintf("[%s, ...]", renderSchema(schema.Items, depth))
		}
		return "[...]"
	case genai.TypeString:
		return "string"
	case genai.TypeInteger:
		return "integer"
	case genai.TypeNumber:
		return "number"
	case genai.TypeBoolean:
		return "boolean"
	default:
		return "value"
	}
}
