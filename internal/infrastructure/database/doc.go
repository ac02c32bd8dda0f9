// Package database provides SQLite connection management and schema
// migrations for clienthub.
//
// The database holds the two durable tables of the system: accounts and
// devices. Migrations are embedded into the binary by the top-level
// migrations package and applied at startup.
//
// Thread Safety: the pool is restricted to a single connection because
// SQLite supports only one writer; all methods are safe for concurrent use.
package database
