// Package objectpool is the single-object-size collaborator named but not
// detailed by the rest of this module: a mutex-guarded bulk slab
// allocator for one fixed object size, used the way a std::list or
// std::allocate_shared node allocator would be used in front of a
// lock-free structure that isn't warranted for single-threaded-typical
// node churn.
//
// It intentionally does not share freelist's lock-free CAS protocol: a
// single mutex around a plain intrusive singly-linked list is the
// straightforward implementation this component calls for. A Pool never
// shrinks — slabs, once grown, live until Close.
//
// The matching container-adapter side (a generic Deque/allocator-protocol
// wrapper over a Pool) is not implemented; that adapter layer is
// expressible with any type satisfying:
//
//	type Node interface {
//	        // Objects handed out by a Pool must be at least as large as a
//	        // pointer, so the pool can thread them onto its free list
//	        // while they are unused.
//	}
package objectpool
