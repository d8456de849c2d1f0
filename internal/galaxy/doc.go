// Package galaxy installs the Ansible roles and collections a synced
// repository declares in its requirements manifest.
package galaxy
