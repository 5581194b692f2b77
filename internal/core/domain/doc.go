// Package domain defines the core business entities for the wordbook.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - WordEntry: One saved word with its language pair and notes
//   - LifecycleState: The service's finite lifecycle state
//   - WordbookEvent: A change notification for subscribers
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
package domain
