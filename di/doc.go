// Package di builds and wires components from descriptors.
//
// A Container owns a descriptor registry, a binder registry and the
// singleton cache. Get merges a descriptor with its parents, allocates the
// target type through its binder, resolves and applies every property, runs
// lifecycle hooks and caches singletons.
//
//	reg := descriptor.NewRegistry()
//	reg.Register(&descriptor.Descriptor{
//	    Name:       "server",
//	    TargetType: "Server",
//	    Properties: []descriptor.Property{
//	        descriptor.Prop("port", value.Of(8080)),
//	        descriptor.Prop("store", value.Ref("store")),
//	    },
//	})
//	c := di.New(reg, binders)
//	srv, err := di.Resolve[*Server](c, "server")
//
// # Cycles
//
// Singletons that reference each other resolve: a singleton is published to
// an in-progress table as soon as it is allocated, and a nested reference
// back to it receives that half-built instance. Prototype cycles are not
// detected and recurse until the stack is exhausted.
//
// If a singleton fails after another component captured its half-built
// instance, that component keeps the incomplete reference.
//
// # Factories
//
// An instance implementing Factory stands in for its product: Get("name")
// returns a fresh CreateInstance result on every call, Get("&name") returns
// the factory itself.
//
// # Locking
//
// Each container serializes singleton construction under one mutex, held
// for a whole top-level Get. The constructing goroutine may re-enter it, so
// SetContainer, named init hooks and Factory.CreateInstance can call Get on
// the container; such calls join the running request and see its
// in-progress instances. Do not hand the container to another goroutine and
// wait for it from inside a hook: that goroutine blocks on the mutex.
// Cache hits are served under a read lock. Prototype construction takes no
// lock.
package di
