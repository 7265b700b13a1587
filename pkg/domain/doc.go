// Package domain contains the core types shared across the Relay bridge:
// tool definitions, run lifecycle, conversation sessions, and error values.
//
// The types here are transport-agnostic. Adapters (OpenAI, the action
// provider, Redis) translate their wire formats into these structures at the
// boundary.
package domain
