// Package gateway is the HTTP front end of tumbler-wrap.
//
// It keeps the Freepik API key on the server and proxies searches for browser clients,
// and it renders wraps on request so a client can download a print-ready file.
//
// # Endpoints
//
//   - GET /search?query=...   image search (also served at /api/search)
//   - GET /generate?url=...   render a wrap from an image URL and download it
//   - GET /presets            the vessel preset table
//   - GET /healthz            liveness probe
//
// Every response allows any origin. Errors are JSON objects of the form
// {"error": "..."}.
package gateway
