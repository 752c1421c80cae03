// Package mocks provides in-memory implementations of the store interfaces
// for use in unit tests. They honor the same error contracts as the real
// PostgreSQL stores, including the atomic progress operations.
package mocks
