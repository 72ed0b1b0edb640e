package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"k8s.io/utils/ptr"

	"github.com/talos-community/talos-mcp-server/pkg/api"
)

// ToolCallRequest carries the parsed argument bag of a single tool call into
// the handler layer.
type ToolCallRequest struct {
	Name      string
	arguments map[string]any
}

var _ api.ToolCallRequest = (*ToolCallRequest)(nil)

func (t *ToolCallRequest) GetArguments() map[string]any {
	if t.arguments == nil {
		return map[string]any{}
	}
	return t.arguments
}

// GoSdkToolCallParamsToToolCallRequest decodes the raw JSON argument payload
// of an incoming go-sdk tool call.
func GoSdkToolCallParamsToToolCallRequest(params *mcp.CallToolParamsRaw) (*ToolCallRequest, error) {
	arguments := make(map[string]any)
	if len(params.Arguments) > 0 {
		if err := json.Unmarshal(params.Arguments, &arguments); err != nil {
			return nil, fmt.Errorf("failed to unmarshal tool call arguments: %w", err)
		}
	}
	return &ToolCallRequest{Name: params.Name, arguments: arguments}, nil
}

// ServerToolToGoSdkTool converts an api.ServerTool to a go-sdk tool and
// handler pair. The handler routes every call through Server.Dispatch so that
// argument validation and error envelopes stay in one place.
func ServerToolToGoSdkTool(s *Server, tool api.ServerTool) (*mcp.Tool, mcp.ToolHandler, error) {
	goSdkTool := &mcp.Tool{
		Name:        tool.Tool.Name,
		Description: tool.Tool.Description,
		InputSchema: tool.Tool.InputSchema,
		Annotations: &mcp.ToolAnnotations{
			Title:           tool.Tool.Annotations.Title,
			ReadOnlyHint:    ptr.Deref(tool.Tool.Annotations.ReadOnlyHint, false),
			DestructiveHint: tool.Tool.Annotations.DestructiveHint,
			IdempotentHint:  ptr.Deref(tool.Tool.Annotations.IdempotentHint, false),
			OpenWorldHint:   tool.Tool.Annotations.OpenWorldHint,
		},
	}
	goSdkToolHandler := func(ctx context.Context, request *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		params, ok := request.GetParams().(*mcp.CallToolParamsRaw)
		if !ok {
			return nil, fmt.Errorf("failed to cast request parameters to CallToolParamsRaw")
		}
		toolCallRequest, err := GoSdkToolCallParamsToToolCallRequest(params)
		if err != nil {
			return nil, err
		}
		return s.Dispatch(ctx, toolCallRequest.Name, toolCallRequest.arguments), nil
	}
	return goSdkTool, goSdkToolHandler, nil
}
