package cluster

import (
	"fmt"

	"github.com/talos-community/talos-mcp-server/pkg/api"
)

func initUpgradePlan() []api.ServerPrompt {
	return []api.ServerPrompt{
		{
			Prompt: api.Prompt{
				Name:        "upgrade-plan",
				Description: "Generate a plan for upgrading a Talos cluster",
				Arguments: []api.PromptArgument{
					{
						Name:        "target_version",
						Description: "Target Talos version",
						Required:    true,
					},
				},
			},
			Handler: clusterUpgradePlan,
		},
	}
}

func clusterUpgradePlan(params api.PromptHandlerParams) (*api.PromptCallResult, error) {
	target := params.GetArguments()["target_version"]
	text := fmt.Sprintf(
		"Create a detailed upgrade plan for upgrading this Talos cluster to version %s.\n\n"+
			"The plan should include:\n"+
			"1. Current cluster version and health status\n"+
			"2. Pre-upgrade checks and backups\n"+
			"3. Upgrade order (control plane first, then workers)\n"+
			"4. Validation steps after each node\n"+
			"5. Rollback procedure if issues occur\n"+
			"6. Post-upgrade verification",
		target)
	return api.NewPromptCallResult(
		"Talos cluster upgrade plan",
		[]api.PromptMessage{
			{
				Role: "user",
				Content: api.PromptContent{
					Type: "text",
					Text: text,
				},
			},
		},
		nil,
	), nil
}
