package machine

import (
	"slices"

	"github.com/talos-community/talos-mcp-server/pkg/api"
	"github.com/talos-community/talos-mcp-server/pkg/toolsets"
)

type Toolset struct{}

var _ api.Toolset = (*Toolset)(nil)

func (t *Toolset) GetName() string {
	return "machine"
}

func (t *Toolset) GetDescription() string {
	return "Node-scoped Talos machine tools (version, containers, stats, logs, reboot, apply config)"
}

func (t *Toolset) GetTools() []api.ServerTool {
	return slices.Concat(
		initVersion(),
		initContainers(),
		initStats(),
		initLogs(),
		initReboot(),
		initApplyConfig(),
	)
}

func (t *Toolset) GetPrompts() []api.ServerPrompt {
	return nil
}

func init() {
	toolsets.Register(&Toolset{})
}
