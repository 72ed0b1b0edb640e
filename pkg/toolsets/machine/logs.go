package machine

import (
	"fmt"

	"github.com/google/jsonschema-go/jsonschema"
	"k8s.io/utils/ptr"

	"github.com/talos-community/talos-mcp-server/pkg/api"
)

// defaultTailLines is the number of log lines returned when the caller does
// not specify tail_lines.
const defaultTailLines = 100

func initLogs() []api.ServerTool {
	return []api.ServerTool{
		{Tool: api.Tool{
			Name:        "talos_service_logs",
			Description: "Get logs from a system service on a Talos node",
			InputSchema: &jsonschema.Schema{
				Type: "object",
				Properties: map[string]*jsonschema.Schema{
					"service": {
						Type:        "string",
						Description: "Service name (e.g., 'kubelet', 'etcd', 'apid')",
					},
					"tail_lines": {
						Type:        "integer",
						Description: "Number of lines to tail",
						Default:     api.ToRawMessage(defaultTailLines),
						Minimum:     ptr.To(float64(0)),
					},
					"endpoint": {
						Type:        "string",
						Description: "Node endpoint (IP:port)",
					},
				},
				Required: []string{"service"},
			},
			Annotations: api.ToolAnnotations{
				Title:           "Machine: Service Logs",
				ReadOnlyHint:    ptr.To(true),
				DestructiveHint: ptr.To(false),
				IdempotentHint:  ptr.To(false),
				OpenWorldHint:   ptr.To(true),
			},
		}, Handler: machineServiceLogs},
	}
}

func machineServiceLogs(params api.ToolHandlerParams) (*api.ToolCallResult, error) {
	service, err := api.RequiredString(params, "service")
	if err != nil {
		return api.NewToolCallResult("", err), nil
	}
	tailLines, err := api.OptionalInt64(params, "tail_lines", defaultTailLines)
	if err != nil {
		return api.NewToolCallResult("", fmt.Errorf("failed to parse tail_lines parameter: %w", err)), nil
	}
	endpoint := api.OptionalString(params, "endpoint", "")
	m, err := params.Machine(params, endpoint)
	if err != nil {
		return api.NewToolCallResult("", err), nil
	}
	logs, err := m.ServiceLogs(params, service, tailLines)
	if err != nil {
		return api.NewToolCallResult("", fmt.Errorf("failed to get logs for service %s: %w", service, err)), nil
	}
	return api.NewToolCallResult(fmt.Sprintf(
		"Logs for service '%s' (last %d lines):\n\n%s",
		service, tailLines, logs), nil), nil
}
