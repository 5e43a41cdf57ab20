// Package value models the intended value of a component property before
// the container resolves it.
//
// A Spec is one of Literal, Reference, List, Map or Properties. Lists and
// maps nest further specs, so references may appear at any depth and are
// resolved recursively before the value is assigned:
//
//	value.ListOf(value.Ref("primaryDB"), value.Ref("replicaDB"))
//	value.MapOf(value.Entry("timeout", value.Of("30s")))
package value
