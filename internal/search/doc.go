// Package search queries the Freepik stock-image API and normalizes its results into
// ImageDescriptor values the wrap generator can load.
//
// Each Search is exactly one upstream request: no retries, no pagination and no caching.
// The API key never leaves the server process.
package search
