// Package postgres implements the store interfaces against a PostgreSQL
// database accessed through database/sql with the pgx driver. Database
// errors are translated to store sentinel errors via MapError so callers
// never match on driver-specific error strings.
package postgres
