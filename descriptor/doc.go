// Package descriptor holds the declarative description of components: the
// Descriptor record, the Registry that stores descriptors and aliases, and
// the Merger that flattens parent/child inheritance.
//
// Descriptors are populated by an external loader before the first lookup
// and are read-only afterwards.
package descriptor
