// Package component manages lifecycle-managed parts of a beankit
// application: containers, the inspect server and anything else that must
// start in order and stop in reverse.
//
// Register a parent container before its children so children stop first.
package component
