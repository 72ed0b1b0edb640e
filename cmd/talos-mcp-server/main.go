package main

import (
	"fmt"
	"os"

	"github.com/talos-community/talos-mcp-server/pkg/talos-mcp-server/cmd"
)

func main() {
	rootCmd := cmd.NewMCPServer(os.Stdout)
	if err := rootCmd.Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
