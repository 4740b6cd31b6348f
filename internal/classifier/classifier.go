// Package classifier maps a free-text question onto one of the fixed query
// functions using a hosted chat model with function calling. It is the only
// package that talks to an external service, and its output is treated as
// untrusted until the dispatch layer validates it.
package classifier

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/isaacbevere-gif/supplykai-chatbot/internal/dispatch"
)

// FunctionCall is the model's chosen catalogue function with its raw JSON
// argument object, exactly as produced.
type FunctionCall struct {
	Name      string
	Arguments json.RawMessage
}

// Reply is the classifier outcome: either a function call, or plain text
// when the model answered the question directly without picking a function.
type Reply struct {
	Call *FunctionCall
	Text string
}

// Classifier answers one question per synchronous call.
type Classifier interface {
	Classify(ctx context.Context, question string) (*Reply, error)
}

const systemPrompt = "You are SupplyKai, a demand forecast assistant. " +
	"Answer questions about forecasted demand and style compliance by calling " +
	"one of the provided functions. Only answer in plain text when no function fits."

// OpenAI classifies questions via the OpenAI chat completions API.
type OpenAI struct {
	client *openai.Client
	model  openai.ChatModel
	tools  []openai.ChatCompletionToolParam
}

// NewOpenAI builds a classifier whose tool schema mirrors the dispatch
// catalogue, so the model can only name functions the table will accept.
func NewOpenAI(apiKey, model string, funcs []dispatch.Func) *OpenAI {
	if model == "" {
		model = string(openai.ChatModelGPT4o)
	}
	return &OpenAI{
		client: openai.NewClient(option.WithAPIKey(apiKey)),
		model:  openai.ChatModel(model),
		tools:  buildTools(funcs),
	}
}

// Classify sends the question with the catalogue tool schema. On a transient
// failure it retries exactly once, immediately; any further failure is
// surfaced to the caller.
func (o *OpenAI) Classify(ctx context.Context, question string) (*Reply, error) {
	params := openai.ChatCompletionNewParams{
		Model: openai.F(o.model),
		Messages: openai.F([]openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(question),
		}),
		Tools: openai.F(o.tools),
	}

	resp, err := o.client.Chat.Completions.New(ctx, params)
	if err != nil && isTransient(err) {
		log.Printf("classifier: transient failure, retrying once: %v", err)
		resp, err = o.client.Chat.Completions.New(ctx, params)
	}
	if err != nil {
		return nil, fmt.Errorf("classifier call failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, errors.New("classifier returned no choices")
	}

	msg := resp.Choices[0].Message
	if len(msg.ToolCalls) > 0 {
		call := msg.ToolCalls[0]
		return &Reply{Call: &FunctionCall{
			Name:      call.Function.Name,
			Arguments: json.RawMessage(call.Function.Arguments),
		}}, nil
	}

	return &Reply{Text: msg.Content}, nil
}

// buildTools converts the dispatch catalogue into OpenAI tool definitions.
func buildTools(funcs []dispatch.Func) []openai.ChatCompletionToolParam {
	tools := make([]openai.ChatCompletionToolParam, 0, len(funcs))
	for _, fn := range funcs {
		tools = append(tools, openai.ChatCompletionToolParam{
			Type: openai.F(openai.ChatCompletionToolTypeFunction),
			Function: openai.F(openai.FunctionDefinitionParam{
				Name:        openai.String(fn.Name),
				Description: openai.String(fn.Description),
				Parameters:  openai.F(paramSchema(fn.Params)),
			}),
		})
	}
	return tools
}

// paramSchema renders a JSON Schema object for one function's parameters.
func paramSchema(params []dispatch.Param) openai.FunctionParameters {
	properties := make(map[string]any, len(params))
	required := make([]string, 0, len(params))
	for _, p := range params {
		properties[p.Name] = map[string]any{
			"type":        string(p.Type),
			"description": p.Description,
		}
		if p.Required {
			required = append(required, p.Name)
		}
	}
	return openai.FunctionParameters{
		"type":       "object",
		"properties": properties,
		"required":   required,
	}
}

// isTransient reports whether a failed call is worth one immediate retry:
// network-level failures and server-side errors, never context cancellation
// or client-side rejections.
func isTransient(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var apierr *openai.Error
	if errors.As(err, &apierr) {
		return apierr.StatusCode >= 500 || apierr.StatusCode == 429
	}
	return true
}
