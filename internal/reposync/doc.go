// Package reposync clones or pulls the configuration repository into the
// operator's Documents folder and reads back its HEAD.
package reposync
