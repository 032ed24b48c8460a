// Package store provides SQLite-backed run history for catalogcheck.
//
// Every recorded run keeps:
//   - Runs: ID, target base URL, suite name, timestamps and the summary counts
//   - Outcomes: one row per scenario in suite order, with the calls it made
//   - Violations: one row per finding, with the request it was found in
//
// History is append-only. Saving a run whose ID is already stored is a
// no-op, so a report can be recorded twice without duplicating rows.
//
// # Ordering
//
// Runs are listed newest first by started_at, then by ID. Outcomes and
// violations come back in the order they were reported, via their seq
// columns, so a loaded report renders identically to the original.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
package store
