// Package receipts contains the local persistence layer for Receipt records:
// a Repository interface and its SQLite implementation.
package receipts
