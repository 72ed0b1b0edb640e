package cluster

import (
	"fmt"

	"github.com/talos-community/talos-mcp-server/pkg/api"
)

// allEndpointsPlaceholder is rendered when the caller does not narrow the
// health check to specific endpoints.
const allEndpointsPlaceholder = "all configured"

func initHealthCheck() []api.ServerPrompt {
	return []api.ServerPrompt{
		{
			Prompt: api.Prompt{
				Name:        "cluster-health-check",
				Description: "Comprehensive health check for a Talos cluster",
				Arguments: []api.PromptArgument{
					{
						Name:        "endpoints",
						Description: "Comma-separated list of node endpoints",
						Required:    false,
					},
				},
			},
			Handler: clusterHealthCheck,
		},
	}
}

func clusterHealthCheck(params api.PromptHandlerParams) (*api.PromptCallResult, error) {
	endpoints := params.GetArguments()["endpoints"]
	if endpoints == "" {
		endpoints = allEndpointsPlaceholder
	}
	text := fmt.Sprintf(
		"Please perform a comprehensive health check of the Talos cluster.\n\n"+
			"Check the following for nodes: %s\n"+
			"1. Get version information\n"+
			"2. Check etcd cluster health\n"+
			"3. Review system stats (CPU, memory, disk)\n"+
			"4. Check critical service status\n"+
			"5. Summarize any issues found",
		endpoints)
	return api.NewPromptCallResult(
		"Talos cluster health check",
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
