// Package types defines the core data model shared by every spackle
// package: slots and their typed values, hooks, and the loaded project.
package types
