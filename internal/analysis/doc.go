// Package analysis reduces per-tick audio samples to an AudioFrame: spectral
// energy metrics plus an adaptive-threshold beat flag.
//
// The pipeline is Sampler (PCM to byte spectra) -> Analyze (scalar energies)
// -> Detect (beat state machine), packaged by Session into a Frame that every
// visual subsystem consumes read-only for the duration of one display tick.
package analysis
