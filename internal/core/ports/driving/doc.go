// Package driving declares what the CLI and the MCP server may ask of
// the core: catalogue edits, model maintenance, sentence generation,
// quote retrieval, stats, settings and the background scheduler.
//
// internal/core/services implements every interface here.
package driving
