// Package testdb opens the Postgres database used by integration tests.
//
// Tests call Open, which skips the test when no database is configured, and
// run their work inside WithTx so nothing they write outlives the test:
//
//	db := testdb.Open(t)
//	testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
//		sets := postgres.NewPostgresSetStore(tx, nil)
//		...
//	})
//
// Set FLIPDECK_TEST_DATABASE_URL (or DATABASE_URL) and run
// go test -tags=integration ./...
package testdb
