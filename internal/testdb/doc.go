//go:build integration

// Package testdb provides utilities for database integration tests.
//
// Tests connect through Open, which skips the test when no database is
// configured and applies the migrations once per connection. Stores that
// accept a store.DBTX can run inside WithTx, whose transaction is always
// rolled back:
//
//	func TestSavedCourses(t *testing.T) {
//	    db := testdb.Open(t)
//	    testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
//	        s := postgres.NewPostgresSavedCourseStore(tx, nil)
//	        // ...
//	    })
//	}
//
// # Environment Variables
//
// AUTOSCHEDULER_TEST_DATABASE_URL holds the connection string of a
// disposable Postgres database.
package testdb
