// Package filesystem provides filesystem implementations for fontdrop.
//
// This package contains the FS interface used throughout the codebase
// and its standard OS implementation. Tests inject alternative
// implementations to simulate permission and cross-device failures.
package filesystem
