package mcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"k8s.io/klog/v2"

	"github.com/talos-community/talos-mcp-server/pkg/api"
)

// Dispatch is the single boundary between the protocol layer and the tool
// handlers. Every invocation terminates in a text result: an unknown tool name
// is a non-error result, and any failure between argument validation and the
// remote call is converted into an error text result. Nothing propagates past
// this function.
func (s *Server) Dispatch(ctx context.Context, name string, arguments map[string]any) *mcp.CallToolResult {
	tool, ok := s.tools[name]
	if !ok {
		return NewTextResult(fmt.Sprintf("Unknown tool: %s", name), nil)
	}
	if arguments == nil {
		arguments = make(map[string]any)
	}
	if err := validateRequired(tool, arguments); err != nil {
		klog.Errorf("Error executing tool %s: %v", name, err)
		return NewTextResult("", fmt.Errorf("Error executing %s: %v", name, err))
	}
	result, err := tool.Handler(api.ToolHandlerParams{
		Context:         ctx,
		TalosClient:     s.client,
		ToolCallRequest: &ToolCallRequest{Name: name, arguments: arguments},
	})
	if err == nil && result != nil {
		err = result.Error
	}
	if err != nil {
		klog.Errorf("Error executing tool %s: %v", name, err)
		return NewTextResult("", fmt.Errorf("Error executing %s: %v", name, err))
	}
	if result == nil {
		return NewTextResult("", nil)
	}
	return NewTextResult(result.Content, nil)
}

// validateRequired rejects the call before the handler runs when a field the
// tool's schema marks as required is absent from the argument bag.
func validateRequired(tool api.ServerTool, arguments map[string]any) error {
	if tool.Tool.InputSchema == nil {
		return nil
	}
	for _, field := range tool.Tool.InputSchema.Required {
		if _, ok := arguments[field]; !ok {
			return fmt.Errorf("missing required argument: %s", field)
		}
	}
	return nil
}

// RenderPrompt looks up a prompt by name, validates its required arguments,
// and renders its message list. Unlike tool dispatch, prompt misuse is a hard
// error surfaced to the protocol layer.
func (s *Server) RenderPrompt(ctx context.Context, name string, arguments map[string]string) (*mcp.GetPromptResult, error) {
	prompt, ok := s.prompts[name]
	if !ok {
		return nil, fmt.Errorf("unknown prompt: %s", name)
	}
	if arguments == nil {
		arguments = make(map[string]string)
	}
	for _, arg := range prompt.Prompt.Arguments {
		if arg.Required && arguments[arg.Name] == "" {
			return nil, fmt.Errorf("missing required argument: %s", arg.Name)
		}
	}
	result, err := prompt.Handler(api.PromptHandlerParams{
		Context:           ctx,
		TalosClient:       s.client,
		PromptCallRequest: &promptCallRequestAdapter{arguments: arguments},
	})
	if err != nil {
		return nil, err
	}
	if result.Error != nil {
		return nil, result.Error
	}
	messages := make([]*mcp.PromptMessage, 0, len(result.Messages))
	for _, message := range result.Messages {
		messages = append(messages, &mcp.PromptMessage{
			Role: mcp.Role(message.Role),
			Content: &mcp.TextContent{
				Text: message.Content.Text,
			},
		})
	}
	return &mcp.GetPromptResult{
		Description: result.Description,
		Messages:    messages,
	}, nil
}
