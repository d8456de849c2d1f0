// Package restore implements the optional restore point taken after the
// environment probe and before the first installer runs.
//
// The operator is asked through a Confirmer. Anything other than an explicit
// yes skips the checkpoint without side effects, and a failed checkpoint is
// reported but never stops the bootstrap.
package restore
