// Package types defines the Opportunity entity, its fixed option sets, the
// Store interface implemented by storage backends, and the error kinds shared
// by the storage, presentation, and CLI layers.
package types
