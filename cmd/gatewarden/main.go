// Gatewarden is a hierarchical admission-control daemon and replay tool.
//
// It decides, per request, whether the request may proceed based on shared,
// continuously refilling token budgets organized in a hierarchy
// (tenant, then identity+route).
//
// Usage:
//
//	# Start the admission daemon with default configuration
//	gatewarden serve
//
//	# Start with a configuration file
//	gatewarden serve --config /path/to/config.yaml
//
//	# Replay a historical request log through a fresh limiter
//	gatewarden replay --events requests.jsonl --capacity capacity.yaml
//
//	# Validate configuration and capacity files
//	gatewarden validate --config config.yaml
//
//	# Show version information
//	gatewarden version
package main

func main() {
	Execute()
}
