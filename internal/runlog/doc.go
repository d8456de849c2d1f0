// Package runlog finds the per-run bootstrap logs and reads them back for
// `winbootstrap logs`.
//
// Reads stream with bounded memory: Last keeps a ring of the final lines and
// Follow polls from a byte offset, so a log being written by a concurrent run
// can be watched until the caller cancels.
package runlog
