// Package install implements the tiered installer that ensures the bootstrap
// toolchain: Chocolatey, Winget, uv, Python, Git, and Ansible.
//
// Each Tool carries an ordered list of strategies. Ensure returns early when
// the tool is already present; otherwise it runs strategies in order until one
// verifies. PATH is reloaded from the OS after every external invocation
// because installers only persist PATH changes for future processes.
//
// Tools gated on another tool (Python and Ansible on uv) are skipped without
// any invocation when the gate failed. Failures never propagate: every
// outcome is folded into a Status.
package install
