// Package ports defines the interfaces between the bridge core and the
// outside world. The core depends only on these; adapters under pkg/adapters
// provide the concrete implementations.
package ports
