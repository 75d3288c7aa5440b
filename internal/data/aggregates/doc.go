// Package aggregates implements the compliance write boundaries declared in
// internal/domain/aggregates.
//
// Implementations compose table repos from internal/data/repos and own the
// transaction of every invariant-critical write.
package aggregates
