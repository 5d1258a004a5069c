// Package gemini generates term descriptions with the Gemini API.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/michaelanticoli/quantumelodic/internal/inference"
	"google.golang.org/genai"
)

type Client struct {
	genaiClient      *genai.Client
	model            string
	mode             inference.OutputMode
	maxRetryAttempts uint
}

// NewClient creates a Gemini API client. baseURL is only set to point the client at a test server.
func NewClient(ctx context.Context, apiKey, model, baseURL string, mode inference.OutputMode, retryAttempts uint) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}
	clientConfig := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}
	if baseURL != "" {
		clientConfig.HTTPOptions = genai.HTTPOptions{BaseURL: baseURL}
	}

	genaiClient, err := genai.NewClient(ctx, clientConfig)
	if err != nil {
		return nil, fmt.Errorf("genai.NewClient > %w", err)
	}
	return &Client{
		genaiClient:      genaiClient,
		model:            model,
		mode:             mode,
		maxRetryAttempts: retryAttempts,
	}, nil
}

// GetModel returns the model name configured for this client
func (client *Client) GetModel() string {
	return client.model
}

// Describe implements the inference.Client interface
func (client *Client) Describe(ctx context.Context, params inference.DescribeRequest) (inference.Descriptions, error) {
	var result inference.Descriptions
	if err := inference.Retry(ctx, client.maxRetryAttempts, func() error {
		response, err := client.describe(ctx, params)
		if err != nil {
			return err
		}
		result = response
		return nil
	}); err != nil {
		return inference.Descriptions{}, err
	}
	return result, nil
}

func (client *Client) generateContentConfig() *genai.GenerateContentConfig {
	config := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(inference.SystemPrompt, genai.RoleUser),
	}
	if client.mode != inference.OutputModeText {
		config.ResponseMIMEType = "application/json"
		config.ResponseSchema = descriptionsSchema()
	}
	return config
}

func (client *Client) describe(ctx context.Context, params inference.DescribeRequest) (inference.Descriptions, error) {
	content := genai.NewContentFromText(inference.UserPrompt(params.Term, client.mode), genai.RoleUser)

	resp, err := client.genaiClient.Models.GenerateContent(ctx, client.model, []*genai.Content{content}, client.generateContentConfig())
	if err != nil {
		var apiErr genai.APIError
		if errors.As(err, &apiErr) {
			// Same shape as the OpenAI client so that inference.IsRetryableError applies
			return inference.Descriptions{}, fmt.Errorf("response error %d: %s", apiErr.Code, apiErr.Message)
		}
		return inference.Descriptions{}, fmt.Errorf("Models.GenerateContent > %w", err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return inference.Descriptions{}, fmt.Errorf("no response candidates from Gemini")
	}

	var text strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if part != nil && part.Text != "" {
			text.WriteString(part.Text)
		}
	}
	if text.Len() == 0 {
		return inference.Descriptions{}, fmt.Errorf("empty response content from Gemini")
	}

	slog.Default().Debug("describe response",
		"term", params.Term,
		"mode", client.mode,
		"response", text.String(),
	)

	return inference.DecodeResponse(text.String(), client.mode)
}

func descriptionsSchema() *genai.Schema {
	section := func(lead string) *genai.Schema {
		return &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				lead: {Type: genai.TypeString},
				"key_points": {
					Type:  genai.TypeArray,
					Items: &genai.Schema{Type: genai.TypeString},
				},
				"example": {Type: genai.TypeString},
			},
			Required:         []string{lead, "key_points", "example"},
			PropertyOrdering: []string{lead, "key_points", "example"},
		}
	}

	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"astrology":   section(inference.SectionLeads["astrology"]),
			"music":       section(inference.SectionLeads["music"]),
			"mathematics": section(inference.SectionLeads["mathematics"]),
		},
		Required:         []string{"astrology", "music", "mathematics"},
		PropertyOrdering: []string{"astrology", "music", "mathematics"},
	}
}
