// Profiling:
// go build ./profile/entities
// go tool pprof -http=":8000" -nodefraction=0.001 ./entities mem.pprof

package main

import (
	"os"
	"runtime"
	"runtime/pprof"

	"github.com/google/corgi"
)

type motion struct {
	X, Y   float64
	VX, VY float64
}

type health struct {
	HP int64
}

type motionComponent struct {
	corgi.Component[motion]
}

func (c *motionComponent) UpdateAllEntities(delta corgi.WorldTime) {
	seconds := float64(delta) / float64(corgi.MillisecondsPerSecond)
	for it := c.Begin(); it != c.End(); it = it.Next() {
		data := it.Data()
		data.X += data.VX * seconds
		data.Y += data.VY * seconds
	}
}

type healthComponent struct {
	corgi.Component[health]
}

func (c *healthComponent) UpdateAllEntities(delta corgi.WorldTime) {
	for it := c.Begin(); it != c.End(); it = it.Next() {
		it.Data().HP--
	}
}

func main() {
	// CPU Profiling
	f, _ := os.Create("cpu.prof")
	_ = pprof.StartCPUProfile(f)
	defer pprof.StopCPUProfile()

	rounds := 50
	iters := 10000
	entities := 1000
	run(rounds, iters, entities)

	// Memory Profiling
	memFile, _ := os.Create("mem.prof")
	defer memFile.Close()
	runtime.GC()
	_ = pprof.WriteHeapProfile(memFile)
}

func run(rounds, iters, numEntities int) {
	for range rounds {
		manager := corgi.NewEntityManager()
		manager.RegisterComponent(&motionComponent{})
		manager.RegisterComponent(&healthComponent{})

		refs := make([]corgi.EntityRef, 0, numEntities)
		for range numEntities {
			e := manager.AllocateNewEntity()
			corgi.AddEntityToComponent[motion](manager, e)
			corgi.AddEntityToComponent[health](manager, e)
			refs = append(refs, e)
		}

		for range iters {
			manager.UpdateComponents(16)
		}

		for _, e := range refs {
			manager.DeleteEntity(e)
		}
		manager.DeleteMarkedEntities()
	}
}
