package machine

import (
	"fmt"

	"github.com/google/jsonschema-go/jsonschema"
	"k8s.io/utils/ptr"

	"github.com/talos-community/talos-mcp-server/pkg/api"
)

func initVersion() []api.ServerTool {
	return []api.ServerTool{
		{Tool: api.Tool{
			Name:        "talos_version",
			Description: "Get Talos Linux version information from a node",
			InputSchema: &jsonschema.Schema{
				Type: "object",
				Properties: map[string]*jsonschema.Schema{
					"endpoint": {
						Type:        "string",
						Description: "Node endpoint (IP:port). If not specified, uses first configured endpoint",
					},
				},
			},
			Annotations: api.ToolAnnotations{
				Title:           "Machine: Version",
				ReadOnlyHint:    ptr.To(true),
				DestructiveHint: ptr.To(false),
				IdempotentHint:  ptr.To(true),
				OpenWorldHint:   ptr.To(true),
			},
		}, Handler: machineVersion},
	}
}

func machineVersion(params api.ToolHandlerParams) (*api.ToolCallResult, error) {
	endpoint := api.OptionalString(params, "endpoint", "")
	m, err := params.Machine(params, endpoint)
	if err != nil {
		return api.NewToolCallResult("", err), nil
	}
	version, err := m.Version(params)
	if err != nil {
		return api.NewToolCallResult("", fmt.Errorf("failed to get version: %w", err)), nil
	}
	return api.NewToolCallResult(fmt.Sprintf(
		"Talos Version Information:\nVersion: %s\nPlatform: %s\nArchitecture: %s",
		version.Version, version.Platform, version.Arch), nil), nil
}
