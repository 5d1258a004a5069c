package openai

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/michaelanticoli/quantumelodic/internal/inference"
	"resty.dev/v3"
)

const DefaultBaseURL = "https://api.openai.com/v1"

type Client struct {
	httpClient       *resty.Client
	model            string
	mode             inference.OutputMode
	maxRetryAttempts uint
}

func NewClient(apiKey, model, baseURL string, mode inference.OutputMode, retryAttempts uint) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	client := resty.New()
	client.SetBaseURL(baseURL)
	client.SetHeader("Authorization", "Bearer "+apiKey)
	client.SetHeader("Content-Type", "application/json")

	return &Client{
		httpClient:       client,
		model:            model,
		mode:             mode,
		maxRetryAttempts: retryAttempts,
	}
}

func (client Client) Close() error {
	return client.httpClient.Close()
}

// GetModel returns the model name configured for this client
func (client Client) GetModel() string {
	return client.model
}

type ChatCompletionRequest struct {
	Model          string          `json:"model"`
	Messages       []Message       `json:"messages"`
	Temperature    float32         `json:"temperature,omitempty"`
	ResponseFormat *ResponseFormat `json:"response_format,omitempty"`
}

type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

type ResponseFormat struct {
	Type       string      `json:"type"`
	JSONSchema *JSONSchema `json:"json_schema,omitempty"`
}

type JSONSchema struct {
	Name   string         `json:"name"`
	Strict bool           `json:"strict"`
	Schema map[string]any `json:"schema"`
}

type ChatCompletionResponse struct {
	ID      string   `json:"id"`
	Object  string   `json:"object"`
	Created int64    `json:"created"`
	Model   string   `json:"model"`
	Choices []Choice `json:"choices"`
	Usage   Usage    `json:"usage"`
}

type Choice struct {
	Index        int           `json:"index"`
	Message      ChoiceMessage `json:"message"`
	FinishReason string        `json:"finish_reason"`
}

type ChoiceMessage struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
	Refusal string `json:"refusal,omitempty"`
}

type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Describe implements the inference.Client interface
func (client *Client) Describe(
	ctx context.Context,
	params inference.DescribeRequest,
) (inference.Descriptions, error) {
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

func (client *Client) getRequestBody(params inference.DescribeRequest) ChatCompletionRequest {
	requestBody := ChatCompletionRequest{
		Model: client.model,
		Messages: []Message{
			{Role: RoleSystem, Content: inference.SystemPrompt},
			{Role: RoleUser, Content: inference.UserPrompt(params.Term, client.mode)},
		},
	}
	if client.mode != inference.OutputModeText {
		requestBody.ResponseFormat = &ResponseFormat{
			Type: "json_schema",
			JSONSchema: &JSONSchema{
				Name:   "term_descriptions",
				Strict: true,
				Schema: inference.DescriptionsSchema(),
			},
		}
	}
	return requestBody
}

func (client *Client) describe(ctx context.Context, params inference.DescribeRequest) (inference.Descriptions, error) {
	requestBody := client.getRequestBody(params)

	response, err := client.httpClient.R().
		SetContext(ctx).
		SetBody(requestBody).
		SetResult(&ChatCompletionResponse{}).
		Post("/chat/completions")
	if err != nil {
		return inference.Descriptions{}, fmt.Errorf("httpClient.Post > %w", err)
	}
	if response.IsError() {
		return inference.Descriptions{}, fmt.Errorf("response error %d: %s", response.StatusCode(), response.String())
	}

	responseBody := response.Result().(*ChatCompletionResponse)
	if responseBody == nil || len(responseBody.Choices) == 0 {
		return inference.Descriptions{}, fmt.Errorf("empty response body or choices: %s", response.String())
	}

	message := responseBody.Choices[0].Message
	if message.Refusal != "" {
		return inference.Descriptions{}, fmt.Errorf("%w: model refused: %s", inference.ErrMalformedResponse, message.Refusal)
	}
	if message.Content == "" {
		return inference.Descriptions{}, fmt.Errorf("empty response content: %s", response.String())
	}

	slog.Default().Debug("describe response",
		"term", params.Term,
		"mode", client.mode,
		"response", message.Content,
	)

	return inference.DecodeResponse(message.Content, client.mode)
}
