// Package sqlite provides a unified SQLite-based implementation of driven port interfaces.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that requires
// no CGO, enabling easy cross-compilation. It implements multiple store interfaces
// through a single database connection:
//
//   - GroupStore, SourceStore, QuoteStore: Catalogue persistence
//   - TextModelStore: Text model persistence, batches in one transaction
//   - StatsStore: Usage counters
//   - SweepStore: Periodic sweep schedule and run history
//
// # Schema
//
// The database schema is managed through versioned migrations stored in the
// migrations/ directory. Each migration is a pair of .up.sql and .down.sql files.
// Timestamps are stored as fixed-width UTC text so they sort lexically.
//
// # Data Location
//
// By default, the database is stored at ~/.quotechain/data/quotechain.db
//
// # Thread Safety
//
// All operations are thread-safe. The store uses database-level locking provided
// by SQLite in WAL mode.
package sqlite
