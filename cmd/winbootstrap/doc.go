// Command winbootstrap prepares a Windows workstation for Ansible-driven
// configuration management.
//
// Run without arguments it validates the machine, optionally creates a
// restore point, installs the toolchain, syncs the configuration repository,
// and installs its Ansible dependencies. Subcommands expose the individual
// read-only views:
//
//	winbootstrap probe        # environment checks only
//	winbootstrap tools        # which collaborators are on PATH
//	winbootstrap logs -f      # print and follow the latest run log
//	winbootstrap config init  # write a sample configuration file
//	winbootstrap config show  # print the effective configuration
package main
