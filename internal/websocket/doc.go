// Package websocket pushes dataset events to dashboard clients.
//
// A single Hub goroutine owns client membership and fans broadcast messages
// out to each client's buffered send channel. Every connection runs a read
// pump (heartbeats and close detection) and a write pump (messages and pings).
// Slow clients whose buffer fills are disconnected rather than blocking the hub.
package websocket
