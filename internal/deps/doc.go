// Package deps reports which external commands are resolvable on PATH.
package deps
