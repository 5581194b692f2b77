// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
//   - WordStore: word entry persistence
//   - DriverProvisioner / DriverProbe: database driver lookup and download
//   - Dispatcher: the serialized observer callback queue
//   - FileLocker: cross-process critical sections over the data directory
//   - ConfigStore: application configuration
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
