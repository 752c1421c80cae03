// Package postgres provides PostgreSQL implementations of the store
// interfaces. All stores operate through the store.DBTX abstraction so the
// same code runs against a connection pool or an open transaction.
package postgres
