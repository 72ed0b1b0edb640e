package cluster

import (
	"fmt"

	"github.com/google/jsonschema-go/jsonschema"
	"k8s.io/utils/ptr"

	"github.com/talos-community/talos-mcp-server/pkg/api"
)

func initKubeconfig() []api.ServerTool {
	return []api.ServerTool{
		{Tool: api.Tool{
			Name:        "talos_kubeconfig",
			Description: "Generate kubeconfig for accessing the Kubernetes cluster",
			InputSchema: &jsonschema.Schema{
				Type: "object",
				Properties: map[string]*jsonschema.Schema{
					"endpoint": {
						Type:        "string",
						Description: "Control plane node endpoint",
					},
				},
			},
			Annotations: api.ToolAnnotations{
				Title:           "Cluster: Kubeconfig",
				ReadOnlyHint:    ptr.To(true),
				DestructiveHint: ptr.To(false),
				IdempotentHint:  ptr.To(true),
				OpenWorldHint:   ptr.To(true),
			},
		}, Handler: clusterKubeconfig},
	}
}

func clusterKubeconfig(params api.ToolHandlerParams) (*api.ToolCallResult, error) {
	endpoint := api.OptionalString(params, "endpoint", "")
	m, err := params.Machine(params, endpoint)
	if err != nil {
		return api.NewToolCallResult("", err), nil
	}
	kubeconfig, err := m.Kubeconfig(params)
	if err != nil {
		return api.NewToolCallResult("", fmt.Errorf("failed to generate kubeconfig: %w", err)), nil
	}
	return api.NewToolCallResult(fmt.Sprintf("Kubeconfig:\n\n%s", kubeconfig), nil), nil
}
