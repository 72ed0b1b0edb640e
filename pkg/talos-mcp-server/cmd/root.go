package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"k8s.io/klog/v2"
	"k8s.io/klog/v2/textlogger"

	"github.com/talos-community/talos-mcp-server/pkg/config"
	internalhttp "github.com/talos-community/talos-mcp-server/pkg/http"
	"github.com/talos-community/talos-mcp-server/pkg/mcp"
	"github.com/talos-community/talos-mcp-server/pkg/talos"
	"github.com/talos-community/talos-mcp-server/pkg/toolsets"
	_ "github.com/talos-community/talos-mcp-server/pkg/toolsets/cluster"
	_ "github.com/talos-community/talos-mcp-server/pkg/toolsets/machine"
	"github.com/talos-community/talos-mcp-server/pkg/version"
)

const examples = `
# show this help
talos-mcp-server -h

# shows version information
talos-mcp-server --version

# start STDIO server
talos-mcp-server

# start a SSE and streamable HTTP server on port 8080
talos-mcp-server --port 8080

# start a STDIO server against a specific talosconfig
talos-mcp-server --talosconfig ~/clusters/prod/talosconfig

# start a read-only server (no reboot or config apply tools)
talos-mcp-server --read-only
`

const (
	flagVersion            = "version"
	flagLogLevel           = "log-level"
	flagConfig             = "config"
	flagPort               = "port"
	flagSSEBaseUrl         = "sse-base-url"
	flagTalosconfig        = "talosconfig"
	flagToolsets           = "toolsets"
	flagReadOnly           = "read-only"
	flagDisableDestructive = "disable-destructive"
)

type MCPServerOptions struct {
	Version            bool
	LogLevel           int
	Port               string
	SSEBaseUrl         string
	Talosconfig        string
	Toolsets           []string
	ReadOnly           bool
	DisableDestructive bool

	ConfigPath   string
	StaticConfig *config.StaticConfig

	Out io.Writer
}

func NewMCPServerOptions(out io.Writer) *MCPServerOptions {
	return &MCPServerOptions{
		Out:          out,
		StaticConfig: config.Default(),
	}
}

func NewMCPServer(out io.Writer) *cobra.Command {
	o := NewMCPServerOptions(out)
	cmd := &cobra.Command{
		Use:     "talos-mcp-server [command] [options]",
		Short:   "Talos Linux Model Context Protocol (MCP) server",
		Long:    "Talos Linux Model Context Protocol (MCP) server exposing machine and cluster management tools",
		Example: examples,
		RunE: func(c *cobra.Command, args []string) error {
			if err := o.Complete(c); err != nil {
				return err
			}
			if err := o.Validate(); err != nil {
				return err
			}
			return o.Run(c.Context())
		},
	}

	cmd.Flags().BoolVar(&o.Version, flagVersion, o.Version, "Print version information and quit")
	cmd.Flags().IntVar(&o.LogLevel, flagLogLevel, o.LogLevel, "Set the log level (from 0 to 9)")
	cmd.Flags().StringVar(&o.ConfigPath, flagConfig, o.ConfigPath, "Path of the config file.")
	cmd.Flags().StringVar(&o.Port, flagPort, o.Port, "Start a streamable HTTP and SSE HTTP server on the specified port (e.g. 8080)")
	cmd.Flags().StringVar(&o.SSEBaseUrl, flagSSEBaseUrl, o.SSEBaseUrl, "SSE public base URL to use when sending the endpoint message (e.g. https://example.com)")
	cmd.Flags().StringVar(&o.Talosconfig, flagTalosconfig, o.Talosconfig, "Path to the talosconfig file to use for authentication")
	cmd.Flags().StringSliceVar(&o.Toolsets, flagToolsets, o.Toolsets, "Comma-separated list of MCP toolsets to use (available toolsets: "+strings.Join(toolsets.ToolsetNames(), ", ")+"). Defaults to "+strings.Join(o.StaticConfig.Toolsets, ", ")+".")
	cmd.Flags().BoolVar(&o.ReadOnly, flagReadOnly, o.ReadOnly, "If true, only tools annotated with readOnlyHint=true are exposed")
	cmd.Flags().BoolVar(&o.DisableDestructive, flagDisableDestructive, o.DisableDestructive, "If true, tools annotated with destructiveHint=true are disabled")

	return cmd
}

func (m *MCPServerOptions) Complete(cmd *cobra.Command) error {
	if m.ConfigPath != "" {
		cnf, err := config.Read(m.ConfigPath)
		if err != nil {
			return err
		}
		m.StaticConfig = cnf
	}

	m.loadFlags(cmd)

	m.initializeLogging()

	return nil
}

func (m *MCPServerOptions) loadFlags(cmd *cobra.Command) {
	if cmd.Flag(flagLogLevel).Changed {
		m.StaticConfig.LogLevel = m.LogLevel
	}
	if cmd.Flag(flagPort).Changed {
		m.StaticConfig.Port = m.Port
	}
	if cmd.Flag(flagSSEBaseUrl).Changed {
		m.StaticConfig.SSEBaseURL = m.SSEBaseUrl
	}
	if cmd.Flag(flagTalosconfig).Changed {
		m.StaticConfig.TalosConfig = m.Talosconfig
	}
	if cmd.Flag(flagToolsets).Changed {
		m.StaticConfig.Toolsets = m.Toolsets
	}
	if cmd.Flag(flagReadOnly).Changed {
		m.StaticConfig.ReadOnly = m.ReadOnly
	}
	if cmd.Flag(flagDisableDestructive).Changed {
		m.StaticConfig.DisableDestructive = m.DisableDestructive
	}
}

func (m *MCPServerOptions) initializeLogging() {
	flagSet := flag.NewFlagSet("klog", flag.ContinueOnError)
	klog.InitFlags(flagSet)
	if m.StaticConfig.Port == "" {
		// disable klog output for stdio mode
		// this is needed to avoid klog writing to stderr and breaking the protocol
		_ = flagSet.Parse([]string{"-logtostderr=false", "-alsologtostderr=false", "-stderrthreshold=FATAL"})
		return
	}
	loggerOptions := []textlogger.ConfigOption{textlogger.Output(m.Out)}
	if m.StaticConfig.LogLevel >= 0 {
		loggerOptions = append(loggerOptions, textlogger.Verbosity(m.StaticConfig.LogLevel))
		_ = flagSet.Parse([]string{"--v", strconv.Itoa(m.StaticConfig.LogLevel)})
	}
	logger := textlogger.NewLogger(textlogger.NewConfig(loggerOptions...))
	klog.SetLoggerWithOptions(logger)
}

func (m *MCPServerOptions) Validate() error {
	return toolsets.Validate(m.StaticConfig.Toolsets)
}

func (m *MCPServerOptions) Run(ctx context.Context) error {
	klog.V(1).Info("Starting talos-mcp-server")
	klog.V(1).Infof(" - Config: %s", m.ConfigPath)
	klog.V(1).Infof(" - Talosconfig: %s", m.StaticConfig.TalosConfig)
	klog.V(1).Infof(" - Toolsets: %s", strings.Join(m.StaticConfig.Toolsets, ", "))
	klog.V(1).Infof(" - Read-only mode: %t", m.StaticConfig.ReadOnly)
	klog.V(1).Infof(" - Disable destructive tools: %t", m.StaticConfig.DisableDestructive)

	if m.Version {
		_, _ = fmt.Fprintf(m.Out, "%s\n", version.Version)
		return nil
	}

	client, err := talos.NewClient(m.StaticConfig.TalosConfig)
	if err != nil {
		return fmt.Errorf("failed to load talosconfig: %w", err)
	}
	defer client.Close()
	client.WatchConfig(func() error {
		klog.V(2).Infof("talosconfig reloaded from %s", client.Config().Path)
		return nil
	})

	mcpServer, err := mcp.NewServer(mcp.Configuration{StaticConfig: m.StaticConfig}, client)
	if err != nil {
		return fmt.Errorf("failed to initialize MCP server: %w", err)
	}

	if m.StaticConfig.Port != "" {
		return internalhttp.Serve(ctx, mcpServer, m.StaticConfig)
	}

	if err := mcpServer.ServeStdio(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	return nil
}
