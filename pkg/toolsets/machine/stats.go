package machine

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/jsonschema-go/jsonschema"
	"k8s.io/utils/ptr"

	"github.com/talos-community/talos-mcp-server/pkg/api"
)

func initStats() []api.ServerTool {
	return []api.ServerTool{
		{Tool: api.Tool{
			Name:        "talos_system_stats",
			Description: "Get system statistics (CPU, memory, disk) from a Talos node",
			InputSchema: &jsonschema.Schema{
				Type: "object",
				Properties: map[string]*jsonschema.Schema{
					"endpoint": {
						Type:        "string",
						Description: "Node endpoint (IP:port)",
					},
				},
			},
			Annotations: api.ToolAnnotations{
				Title:           "Machine: System Stats",
				ReadOnlyHint:    ptr.To(true),
				DestructiveHint: ptr.To(false),
				IdempotentHint:  ptr.To(false),
				OpenWorldHint:   ptr.To(true),
			},
		}, Handler: machineSystemStats},
	}
}

func machineSystemStats(params api.ToolHandlerParams) (*api.ToolCallResult, error) {
	endpoint := api.OptionalString(params, "endpoint", "")
	m, err := params.Machine(params, endpoint)
	if err != nil {
		return api.NewToolCallResult("", err), nil
	}
	stats, err := m.SystemStats(params)
	if err != nil {
		return api.NewToolCallResult("", fmt.Errorf("failed to get system stats: %w", err)), nil
	}
	return api.NewToolCallResult(fmt.Sprintf(
		"System Statistics:\n\n"+
			"CPU:\n"+
			"  Cores: %d\n"+
			"  Usage: %s%%\n\n"+
			"Memory:\n"+
			"  Total: %s\n"+
			"  Available: %s\n"+
			"  Usage: %s%%\n\n"+
			"Disk:\n"+
			"  Total: %s\n"+
			"  Available: %s\n"+
			"  Usage: %s%%",
		stats.CPU.Cores, percent(stats.CPU.UsagePercent),
		gigabytes(stats.Memory.TotalBytes), gigabytes(stats.Memory.AvailableBytes), percent(stats.Memory.UsagePercent),
		gigabytes(stats.Disk.TotalBytes), gigabytes(stats.Disk.AvailableBytes), percent(stats.Disk.UsagePercent)), nil), nil
}

// gigabytes renders a byte count as decimal gigabytes with two decimal places.
func gigabytes(bytes int64) string {
	return fmt.Sprintf("%.2f GB", float64(bytes)/1e9)
}

// percent renders a usage value with its decimal part, keeping ".0" for
// integral values (50.0 renders as "50.0", 35.2 as "35.2").
func percent(value float64) string {
	s := strconv.FormatFloat(value, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
