// Package database provides the PostgreSQL connection pool and the schema
// for stored bars.
package database
