// Package system reads host facts the bootstrap depends on: elevation, the
// Windows build, free space on the system volume, the persisted PATH, and the
// user's Documents folder.
//
// Windows is the production target. The unix build exists so the rest of the
// tree compiles and tests everywhere; it answers from POSIX equivalents where
// one exists.
package system
