// Package store defines interfaces for data persistence operations.
// These interfaces abstract the underlying data storage mechanism from
// the application's core logic: the section catalog and the course cards
// a session saved. Postgres implementations live in platform/postgres.
package store
