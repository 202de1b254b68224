// Package postgres provides PostgreSQL-specific implementations for the data
// storage interfaces defined in the internal/store package. Queries go through
// database/sql with the pgx driver; schema changes ship as embedded goose
// migrations.
package postgres
