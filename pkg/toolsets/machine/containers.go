package machine

import (
	"fmt"
	"strings"

	"github.com/google/jsonschema-go/jsonschema"
	"k8s.io/utils/ptr"

	"github.com/talos-community/talos-mcp-server/pkg/api"
)

// defaultNamespace is the containerd namespace Kubernetes workloads run in.
const defaultNamespace = "k8s.io"

func initContainers() []api.ServerTool {
	return []api.ServerTool{
		{Tool: api.Tool{
			Name:        "talos_list_containers",
			Description: "List containers running on a Talos node",
			InputSchema: &jsonschema.Schema{
				Type: "object",
				Properties: map[string]*jsonschema.Schema{
					"namespace": {
						Type:        "string",
						Description: "Container namespace (e.g., 'k8s.io', 'system')",
						Default:     api.ToRawMessage(defaultNamespace),
					},
					"endpoint": {
						Type:        "string",
						Description: "Node endpoint (IP:port)",
					},
				},
			},
			Annotations: api.ToolAnnotations{
				Title:           "Machine: List Containers",
				ReadOnlyHint:    ptr.To(true),
				DestructiveHint: ptr.To(false),
				IdempotentHint:  ptr.To(false),
				OpenWorldHint:   ptr.To(true),
			},
		}, Handler: machineListContainers},
	}
}

func machineListContainers(params api.ToolHandlerParams) (*api.ToolCallResult, error) {
	namespace := api.OptionalString(params, "namespace", defaultNamespace)
	endpoint := api.OptionalString(params, "endpoint", "")
	m, err := params.Machine(params, endpoint)
	if err != nil {
		return api.NewToolCallResult("", err), nil
	}
	containers, err := m.Containers(params, namespace)
	if err != nil {
		return api.NewToolCallResult("", fmt.Errorf("failed to list containers: %w", err)), nil
	}
	lines := make([]string, 0, len(containers))
	for _, container := range containers {
		lines = append(lines, fmt.Sprintf("- %s: %s (%s)", container.ID, container.Image, container.Status))
	}
	return api.NewToolCallResult(fmt.Sprintf(
		"Containers in namespace '%s':\n%s",
		namespace, strings.Join(lines, "\n")), nil), nil
}
