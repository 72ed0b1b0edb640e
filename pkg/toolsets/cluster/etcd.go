package cluster

import (
	"fmt"

	"github.com/google/jsonschema-go/jsonschema"
	"k8s.io/utils/ptr"

	"github.com/talos-community/talos-mcp-server/pkg/api"
)

func initEtcd() []api.ServerTool {
	return []api.ServerTool{
		{Tool: api.Tool{
			Name:        "talos_etcd_status",
			Description: "Get etcd cluster health and status",
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
				Title:           "Cluster: Etcd Status",
				ReadOnlyHint:    ptr.To(true),
				DestructiveHint: ptr.To(false),
				IdempotentHint:  ptr.To(false),
				OpenWorldHint:   ptr.To(true),
			},
		}, Handler: clusterEtcdStatus},
	}
}

func clusterEtcdStatus(params api.ToolHandlerParams) (*api.ToolCallResult, error) {
	endpoint := api.OptionalString(params, "endpoint", "")
	m, err := params.Machine(params, endpoint)
	if err != nil {
		return api.NewToolCallResult("", err), nil
	}
	status, err := m.EtcdStatus(params)
	if err != nil {
		return api.NewToolCallResult("", fmt.Errorf("failed to get etcd status: %w", err)), nil
	}
	return api.NewToolCallResult(fmt.Sprintf(
		"Etcd Cluster Status:\nMember ID: %s\nLeader ID: %s\nRaft Term: %d\nCluster Size: %d\nHealthy: %t",
		status.MemberID, status.LeaderID, status.RaftTerm, status.ClusterSize, status.Healthy), nil), nil
}
