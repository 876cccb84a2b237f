// Package server implements the MCP (Model Context Protocol) server for tumbler wrap tools.
//
// This package provides a JSON-RPC 2.0 server that exposes the wrap generator, the vessel
// geometry and the image search through the MCP protocol, so an assistant can design a
// printable cup wrap end to end.
//
// # Protocol
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses on stdout
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
// Vessel Geometry:
//   - wrap_presets: List the built-in cups and mugs
//   - wrap_compute_sector: Unroll a tapered cup into its print sector
//
// Wrap Generation:
//   - wrap_generate: Render a straight, seamless or tapered wrap to a PNG or TIFF file
//
// Source Images:
//   - image_load: Load an image file or URL and get metadata
//   - image_search: Search Freepik for stock images
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure) or standard JSON-RPC codes
//   - message: Human-readable error description
//   - data: Additional error details (typically the Go error string)
//
// Malformed request lines get a -32700 parse error with a null id.
//
// # Usage
//
// The server is typically started by an MCP client through the mcp command:
//
//	srv := server.New(server.Options{Config: cfg, Logger: logger})
//	if err := srv.Run(ctx); err != nil {
//	    log.Fatal(err)
//	}
package server
