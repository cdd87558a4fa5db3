// Package topk provides the bounded candidate buffer used by the per-compound search.
//
// A Selector accepts millions of cheap, unsorted inserts and pays for a sort
// only when its buffer reaches twice the retention window:
//
//	sel := topk.New(n, topk.DefaultCapacity)
//	for _, c := range candidates {
//	    _ = sel.Push(c)
//	}
//	best := sel.Finalize(n)
package topk
