// Package commands defines the tumbler-wrap CLI.
//
// Commands
//
//   - mcp       Serve the wrap tools over MCP on stdin/stdout
//   - serve     Run the HTTP gateway (search proxy and wrap downloads)
//   - generate  Render a wrap from an image file or URL
//   - sector    Print the unrolled sector of a tapered cup
//   - search    Search Freepik from the terminal
//   - presets   List the vessel presets
//   - version   Print build information
//
// # Implementation
//
// The root command loads settings from the environment before flags are parsed, so
// flag defaults reflect the environment. Its pre-run hook validates the result and
// builds the shared logger, which always writes to stderr: stdout belongs to command
// output, and to the protocol stream under mcp.
package commands
