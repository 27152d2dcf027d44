// Profiling:
// go build ./profile/pool
// go tool pprof -http=":8000" -nodefraction=0.001 ./pool mem.pprof

package main

import (
	"github.com/google/corgi"
	"github.com/pkg/profile"
)

type payload struct {
	V int64
	W int64
}

func main() {
	rounds := 50
	iters := 10000
	elements := 1000
	p := profile.Start(profile.MemProfileAllocs, profile.ProfilePath("."), profile.NoShutdownHook)
	run(rounds, iters, elements)
	p.Stop()
}

func run(rounds, iters, numElements int) {
	for range rounds {
		var pool corgi.VectorPool[payload]
		pool.Reserve(numElements)

		for range iters {
			refs := make([]corgi.Ref[payload], 0, numElements)
			for range numElements {
				refs = append(refs, pool.Allocate(corgi.AddToBack))
			}
			for it := pool.Begin(); it != pool.End(); it = it.Next() {
				data := it.Value()
				data.V += data.W
			}
			for _, ref := range refs {
				pool.Free(ref)
			}
		}
	}
}
