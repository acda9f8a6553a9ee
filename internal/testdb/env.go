//go:build integration

package testdb

import "os"

// DatabaseURLEnv names the variable holding the test database URL.
const DatabaseURLEnv = "AUTOSCHEDULER_TEST_DATABASE_URL"

// DatabaseURL returns the configured test database URL, or "".
func DatabaseURL() string {
	return os.Getenv(DatabaseURLEnv)
}

// ShouldSkipDatabaseTest reports whether no test database is configured.
func ShouldSkipDatabaseTest() bool {
	return DatabaseURL() == ""
}
