// Package driving defines the interfaces through which front ends drive the
// core. These are the "driving" or "primary" ports in hexagonal
// architecture: the CLI (or any other surface) depends on them, and core
// services implement them.
package driving
