package cluster

import (
	"slices"

	"github.com/talos-community/talos-mcp-server/pkg/api"
	"github.com/talos-community/talos-mcp-server/pkg/toolsets"
)

type Toolset struct{}

var _ api.Toolset = (*Toolset)(nil)

func (t *Toolset) GetName() string {
	return "cluster"
}

func (t *Toolset) GetDescription() string {
	return "Cluster-scoped Talos tools (kubeconfig generation, etcd status) and operational prompts"
}

func (t *Toolset) GetTools() []api.ServerTool {
	return slices.Concat(
		initKubeconfig(),
		initEtcd(),
	)
}

func (t *Toolset) GetPrompts() []api.ServerPrompt {
	return slices.Concat(
		initHealthCheck(),
		initUpgradePlan(),
	)
}

func init() {
	toolsets.Register(&Toolset{})
}
