// Package testutil builds and tears down containers in tests.
//
//	func TestOrders(t *testing.T) {
//	    c := testutil.NewContainer(t, binders, descriptors)
//	    testutil.Setup(t, c)
//	    svc := di.MustResolve[*OrderService](c, "orders")
//	    testutil.RequireState(t, c, "orders", di.StateRegistered)
//	}
package testutil
