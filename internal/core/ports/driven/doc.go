// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - GroupStore, SourceStore, QuoteStore: Catalogue persistence
//   - TextModelStore: Text model persistence with atomic batch saves
//   - TextModeller: Builds, combines and samples text models
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - StatsStore: Usage counters. Without it, stats are not recorded.
//   - SweepStore: Sweep schedule. Without it, the scheduler cannot run.
//   - EventObserver: Receives generation and retrieval events.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
