package version

// BinaryName is the name of the compiled binary, used as the MCP server
// implementation name.
var BinaryName = "talos-mcp-server"

// Version is overridable at build time with -ldflags.
var Version = "0.0.0"
