// Package postgres provides PostgreSQL implementations of the interfaces in
// internal/store: the section catalog, read and imported in the backend's
// raw record form, and the course cards saved per session. Schema changes
// are embedded goose migrations applied by Migrate.
package postgres
