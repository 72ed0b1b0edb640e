package mcp

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"slices"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"k8s.io/utils/ptr"

	"github.com/talos-community/talos-mcp-server/pkg/api"
	"github.com/talos-community/talos-mcp-server/pkg/config"
	"github.com/talos-community/talos-mcp-server/pkg/toolsets"
	"github.com/talos-community/talos-mcp-server/pkg/version"
)

type Configuration struct {
	*config.StaticConfig
	toolsets []api.Toolset
}

func (c *Configuration) Toolsets() []api.Toolset {
	if c.toolsets == nil {
		for _, toolset := range c.StaticConfig.Toolsets {
			if t := toolsets.ToolsetFromString(toolset); t != nil {
				c.toolsets = append(c.toolsets, t)
			}
		}
	}
	return c.toolsets
}

func (c *Configuration) isToolApplicable(tool api.ServerTool) bool {
	if c.ReadOnly && !ptr.Deref(tool.Tool.Annotations.ReadOnlyHint, false) {
		return false
	}
	if c.DisableDestructive && ptr.Deref(tool.Tool.Annotations.DestructiveHint, false) {
		return false
	}
	if c.EnabledTools != nil && !slices.Contains(c.EnabledTools, tool.Tool.Name) {
		return false
	}
	if c.DisabledTools != nil && slices.Contains(c.DisabledTools, tool.Tool.Name) {
		return false
	}
	return true
}

type Server struct {
	configuration *Configuration
	server        *mcp.Server
	client        api.TalosClient

	toolNames   []string
	tools       map[string]api.ServerTool
	promptNames []string
	prompts     map[string]api.ServerPrompt
}

func NewServer(configuration Configuration, client api.TalosClient) (*Server, error) {
	s := &Server{
		configuration: &configuration,
		client:        client,
		tools:         make(map[string]api.ServerTool),
		prompts:       make(map[string]api.ServerPrompt),
		server: mcp.NewServer(
			&mcp.Implementation{
				Name:    version.BinaryName,
				Title:   version.BinaryName,
				Version: version.Version,
			},
			&mcp.ServerOptions{
				Capabilities: &mcp.ServerCapabilities{
					Prompts: &mcp.PromptCapabilities{ListChanged: !configuration.Stateless},
					Tools:   &mcp.ToolCapabilities{ListChanged: !configuration.Stateless},
					Logging: &mcp.LoggingCapabilities{},
				},
				Instructions: configuration.ServerInstructions,
			}),
	}
	s.server.AddReceivingMiddleware(toolCallLoggingMiddleware)
	if err := s.registerToolsAndPrompts(); err != nil {
		return nil, err
	}
	return s, nil
}

// registerToolsAndPrompts registers every applicable tool and prompt from the
// configured toolsets with the protocol server. The catalog is static, listing
// order follows toolset configuration order, then declaration order.
func (s *Server) registerToolsAndPrompts() error {
	for _, toolset := range s.configuration.Toolsets() {
		for _, tool := range toolset.GetTools() {
			if !s.configuration.isToolApplicable(tool) {
				continue
			}
			goSdkTool, goSdkToolHandler, err := ServerToolToGoSdkTool(s, tool)
			if err != nil {
				return fmt.Errorf("failed to convert tool %s: %w", tool.Tool.Name, err)
			}
			s.server.AddTool(goSdkTool, goSdkToolHandler)
			s.tools[tool.Tool.Name] = tool
			s.toolNames = append(s.toolNames, tool.Tool.Name)
		}
		for _, prompt := range toolset.GetPrompts() {
			mcpPrompt, promptHandler, err := ServerPromptToGoSdkPrompt(s, prompt)
			if err != nil {
				return fmt.Errorf("failed to convert prompt %s: %w", prompt.Prompt.Name, err)
			}
			s.server.AddPrompt(mcpPrompt, promptHandler)
			s.prompts[prompt.Prompt.Name] = prompt
			s.promptNames = append(s.promptNames, prompt.Prompt.Name)
		}
	}
	return nil
}

func (s *Server) GetEnabledTools() []string {
	return s.toolNames
}

// GetEnabledPrompts returns the names of the currently enabled prompts
func (s *Server) GetEnabledPrompts() []string {
	return s.promptNames
}

func (s *Server) ServeStdio(ctx context.Context) error {
	return s.server.Run(ctx, &mcp.LoggingTransport{Transport: &mcp.StdioTransport{}, Writer: os.Stderr})
}

func (s *Server) ServeSse() *mcp.SSEHandler {
	return mcp.NewSSEHandler(func(request *http.Request) *mcp.Server {
		return s.server
	}, &mcp.SSEOptions{})
}

func (s *Server) ServeHTTP() *mcp.StreamableHTTPHandler {
	return mcp.NewStreamableHTTPHandler(func(request *http.Request) *mcp.Server {
		return s.server
	}, &mcp.StreamableHTTPOptions{
		Stateless: s.configuration.Stateless,
	})
}

func NewTextResult(content string, err error) *mcp.CallToolResult {
	if err != nil {
		return &mcp.CallToolResult{
			IsError: true,
			Content: []mcp.Content{
				&mcp.TextContent{
					Text: err.Error(),
				},
			},
		}
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{
				Text: content,
			},
		},
	}
}
