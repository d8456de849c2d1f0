// Package report accumulates the outcome of a bootstrap run, derives its
// verdict and exit code, and renders the end-of-run summary.
package report
