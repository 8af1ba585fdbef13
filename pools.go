package indexed

import "sync"

// valueScratchPool holds scratch []Value buffers for the pagination hot
// path, mirroring the teacher's pools.go pattern of pooling scratch byte
// slices to avoid allocation on every call.
var valueScratchPool = &sync.Pool{
	New: func() any {
		s := make([]Value, 0, 64)
		return &s
	},
}

func acquireValueScratch() []Value {
	s := valueScratchPool.Get().(*[]Value)
	return (*s)[:0]
}

func releaseValueScratch(s []Value) {
	valueScratchPool.Put(&s)
}
