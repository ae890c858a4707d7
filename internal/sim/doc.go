// Package sim orchestrates the particle simulation lifecycle: it owns
// the engine handle, the buffers mirroring engine state into a scene,
// and the step-and-present loop.
//
// The physics backend sits behind the [Engine] contract and the render
// surface behind [scene.Scene]; this layer never looks inside either.
// A [Simulation] is built fully initialized by [New]:
//
//	engine := physics.NewBox(seed)
//	s, err := sim.New(sc, engine, sim.DefaultParams(), view.Config{})
//	if err != nil { ... }
//	defer s.Close()
//	err = s.Run(ctx)
//
// Parameter changes go through [Simulation.Reconfigure], which releases
// the old engine state before allocating the new one and returns a
// fresh Simulation, making the rebuild visible at the call site.
//
// Each [Simulation.Step] synchronizes the scene-side render buffer from
// the engine's planar positions with the third coordinate pinned to
// zero, then pushes the values into the registered particles.
//
// # Thread Safety
//
// A Simulation is driven by exactly one goroutine. [Ensemble] runs
// several fully independent simulations in parallel.
package sim
