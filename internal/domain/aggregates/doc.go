// Package aggregates defines the write boundaries of the compliance core.
//
// Each aggregate owns its transaction: callers never pass one in, and a
// failed write leaves nothing behind.
package aggregates
