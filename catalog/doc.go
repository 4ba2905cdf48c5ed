// Package catalog provides the host's default in-memory generator registry
// and operation table. Both are append-only: entries contributed by modules
// stay registered until the host exits.
package catalog
