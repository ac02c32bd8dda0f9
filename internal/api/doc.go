// Package api provides the HTTP REST API for clienthub.
//
// It exposes token issuance, account administration, the device
// registry, and device telemetry reads. Every device operation runs
// through the ownership scope resolved from the caller's access token:
// superusers see everything, other accounts see only their own devices,
// and anonymous callers get an empty device list.
//
// The server follows the standard lifecycle pattern:
//
//	server, err := api.New(deps)
//	server.Start(ctx)
//	defer server.Close()
//
// Thread Safety: All methods are safe for concurrent use from multiple goroutines.
package api
