// Package sqlite implements the cache store ports on an embedded SQLite
// database. A single database file holds store listings, price records and
// resolved distances; schema changes ship as embedded migrations applied on
// open. All writes are ON CONFLICT upserts keyed by each record's natural
// key, so replays and concurrent refreshes of the same key are harmless.
package sqlite
