// Package inmemorystore provides a thread-safe, in-memory implementation
// of the nodestore.Store interface. Records live only as long as the run that
// created them.
package inmemorystore
