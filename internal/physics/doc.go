// Package physics provides in-process engines for the particle box.
//
// Each engine implements the [sim.Engine] contract: the front-end side
// never looks past it, so any backend honoring the seven operations is
// substitutable.
//
//   - [Box]: hard disks bouncing in the unit square with elastic
//     pairwise collisions and reflecting walls
//   - [Gravity]: the same disks under softened pairwise attraction
//
// Engines are seeded at construction and deterministic: the same seed
// and parameters reproduce a run exactly. Velocities are per-step
// displacements; one [Box.Step] advances each disk by its velocity.
//
// [New] builds an engine by registry name:
//
//	engine, err := physics.New("box", seed)
package physics
