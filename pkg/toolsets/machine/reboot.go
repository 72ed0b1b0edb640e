package machine

import (
	"fmt"

	"github.com/google/jsonschema-go/jsonschema"
	"k8s.io/utils/ptr"

	"github.com/talos-community/talos-mcp-server/pkg/api"
)

// defaultRebootMode is forwarded to the machine API when the caller does not
// pick a mode.
const defaultRebootMode = "default"

func initReboot() []api.ServerTool {
	return []api.ServerTool{
		{Tool: api.Tool{
			Name:        "talos_reboot",
			Description: "Reboot a Talos node",
			InputSchema: &jsonschema.Schema{
				Type: "object",
				Properties: map[string]*jsonschema.Schema{
					"endpoint": {
						Type:        "string",
						Description: "Node endpoint (IP:port) to reboot",
					},
					"mode": {
						Type:        "string",
						Description: "Reboot mode: 'default' or 'graceful'",
						Default:     api.ToRawMessage(defaultRebootMode),
					},
				},
				Required: []string{"endpoint"},
			},
			Annotations: api.ToolAnnotations{
				Title:           "Machine: Reboot",
				ReadOnlyHint:    ptr.To(false),
				DestructiveHint: ptr.To(true),
				IdempotentHint:  ptr.To(false),
				OpenWorldHint:   ptr.To(true),
			},
		}, Handler: machineReboot},
	}
}

func machineReboot(params api.ToolHandlerParams) (*api.ToolCallResult, error) {
	endpoint, err := api.RequiredString(params, "endpoint")
	if err != nil {
		return api.NewToolCallResult("", err), nil
	}
	mode := api.OptionalString(params, "mode", defaultRebootMode)
	m, err := params.Machine(params, endpoint)
	if err != nil {
		return api.NewToolCallResult("", err), nil
	}
	status, err := m.Reboot(params, mode)
	if err != nil {
		return api.NewToolCallResult("", fmt.Errorf("failed to reboot node %s: %w", endpoint, err)), nil
	}
	return api.NewToolCallResult(fmt.Sprintf(
		"Reboot initiated for %s\nStatus: %s\nMessage: %s",
		endpoint, status.Status, status.Message), nil), nil
}
