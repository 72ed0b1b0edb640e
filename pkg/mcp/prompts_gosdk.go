package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/talos-community/talos-mcp-server/pkg/api"
)

// promptCallRequestAdapter adapts go-sdk prompt arguments to the
// api.PromptCallRequest interface.
type promptCallRequestAdapter struct {
	arguments map[string]string
}

var _ api.PromptCallRequest = (*promptCallRequestAdapter)(nil)

func (p *promptCallRequestAdapter) GetArguments() map[string]string {
	if p.arguments == nil {
		return map[string]string{}
	}
	return p.arguments
}

// ServerPromptToGoSdkPrompt converts an api.ServerPrompt to a go-sdk prompt
// and handler pair. Rendering goes through Server.RenderPrompt so that
// argument validation is shared with direct callers.
func ServerPromptToGoSdkPrompt(s *Server, prompt api.ServerPrompt) (*mcp.Prompt, mcp.PromptHandler, error) {
	arguments := make([]*mcp.PromptArgument, 0, len(prompt.Prompt.Arguments))
	for _, arg := range prompt.Prompt.Arguments {
		arguments = append(arguments, &mcp.PromptArgument{
			Name:        arg.Name,
			Description: arg.Description,
			Required:    arg.Required,
		})
	}
	goSdkPrompt := &mcp.Prompt{
		Name:        prompt.Prompt.Name,
		Description: prompt.Prompt.Description,
		Arguments:   arguments,
	}
	goSdkPromptHandler := func(ctx context.Context, request *mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
		var args map[string]string
		if request.Params != nil {
			args = request.Params.Arguments
		}
		return s.RenderPrompt(ctx, prompt.Prompt.Name, args)
	}
	return goSdkPrompt, goSdkPromptHandler, nil
}
