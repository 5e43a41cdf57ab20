// Package binding maps descriptor target types to Go types.
//
// A Binder allocates raw instances and applies named property values and
// named hooks without reflection. Types are registered up front with
// NewType, using setter helpers that coerce resolved values to the field's
// Go type:
//
//	b := binding.NewType("Server", func() *Server { return &Server{} }).
//		Property("port", binding.Field(func(s *Server, v int) { s.Port = v })).
//		Property("handlers", binding.SliceField(func(s *Server, v []Handler) { s.Handlers = v })).
//		Hook("start", (*Server).Start)
package binding
