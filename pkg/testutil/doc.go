// Package testutil provides helpers for testing spackle components.
//
// Key components:
//   - TestProject: a template directory under t.TempDir with a manifest
//   - WriteTree and ReadTree: build and snapshot directory trees
//   - FakeRunner: a hooks.Runner that records commands instead of running them
//
// Tests that need real processes use the default runner with commands
// available on every unix host, such as true, false and touch.
package testutil
