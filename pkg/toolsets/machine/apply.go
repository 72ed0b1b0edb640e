package machine

import (
	"fmt"

	"github.com/google/jsonschema-go/jsonschema"
	"k8s.io/utils/ptr"

	"github.com/talos-community/talos-mcp-server/pkg/api"
)

// defaultApplyMode lets the node decide whether the new configuration needs a
// reboot.
const defaultApplyMode = "auto"

func initApplyConfig() []api.ServerTool {
	return []api.ServerTool{
		{Tool: api.Tool{
			Name:        "talos_apply_config",
			Description: "Apply a new machine configuration to a Talos node",
			InputSchema: &jsonschema.Schema{
				Type: "object",
				Properties: map[string]*jsonschema.Schema{
					"config": {
						Type:        "string",
						Description: "Machine configuration in YAML format",
					},
					"endpoint": {
						Type:        "string",
						Description: "Node endpoint (IP:port)",
					},
					"mode": {
						Type:        "string",
						Description: "Apply mode: 'auto', 'no-reboot', 'reboot', 'staged'",
						Default:     api.ToRawMessage(defaultApplyMode),
					},
				},
				Required: []string{"config", "endpoint"},
			},
			Annotations: api.ToolAnnotations{
				Title:           "Machine: Apply Config",
				ReadOnlyHint:    ptr.To(false),
				DestructiveHint: ptr.To(true),
				IdempotentHint:  ptr.To(false),
				OpenWorldHint:   ptr.To(true),
			},
		}, Handler: machineApplyConfig},
	}
}

func machineApplyConfig(params api.ToolHandlerParams) (*api.ToolCallResult, error) {
	config, err := api.RequiredString(params, "config")
	if err != nil {
		return api.NewToolCallResult("", err), nil
	}
	endpoint, err := api.RequiredString(params, "endpoint")
	if err != nil {
		return api.NewToolCallResult("", err), nil
	}
	mode := api.OptionalString(params, "mode", defaultApplyMode)
	m, err := params.Machine(params, endpoint)
	if err != nil {
		return api.NewToolCallResult("", err), nil
	}
	status, err := m.ApplyConfiguration(params, []byte(config), mode)
	if err != nil {
		return api.NewToolCallResult("", fmt.Errorf("failed to apply configuration to %s: %w", endpoint, err)), nil
	}
	return api.NewToolCallResult(fmt.Sprintf(
		"Configuration applied to %s\nStatus: %s\nMessage: %s",
		endpoint, status.Status, status.Message), nil), nil
}
