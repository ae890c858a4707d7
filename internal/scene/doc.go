// Package scene defines the rendering surface contract the simulation
// front-end draws through.
//
// A [Scene] accepts [Renderable] registrations and presents frames on
// demand; backends pull the current visual state from each renderable
// at presentation time, so position changes made between frames are
// picked up automatically.
//
// Two capabilities are optional and discovered by type assertion:
//
//   - [ExitPoller]: the surface can report a user exit request. Use the
//     [ShouldClose] helper to poll it with a false default.
//   - [Trailer]: a renderable carries a bounded path history worth
//     drawing.
//
// [Headless] is the no-op implementation used by batch runs and tests.
package scene
