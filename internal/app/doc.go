// Package app wires the transformer dashboard together and owns its
// lifecycle.
//
// NewApplication builds every component from a loaded config.Config: the
// dataset store (memory or PostgreSQL), the extractor and upload validator,
// the optional Google Sheets client, the websocket hub, OpenTelemetry and the
// chi router. Start begins serving and, when generator.load_on_start is set,
// seeds a demo dataset so a fresh dashboard has something to show. Run blocks
// until SIGINT or SIGTERM and then shuts everything down.
//
// Initialization errors are returned to the caller; the package never calls
// os.Exit.
package app
