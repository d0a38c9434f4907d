// Package hemo provides the core cardiac-cycle primitives shared by the
// valve engine.
//
// The package defines the timing model and the error taxonomy used across
// the repository:
//
//   - [CycleSpec]: cardiac cycle timing (duration and systole fraction)
//   - [Phase]: systole/diastole discriminator
//   - [CycleState]: derived per-frame timing state
//   - [ConfigError]: fail-fast configuration validation errors
//
// Every frame of the simulation is a pure function of (time, severity,
// grid); hemo holds the pieces of that tuple that are not tied to a single
// component.
package hemo
