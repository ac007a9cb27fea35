// Package testutil provides testing utilities for qsimgo.
//
// This package is intended for use in tests and benchmarks only.
// It provides helpers for deterministic random sources, preparing reference
// states, and asserting on amplitudes and probability distributions.
//
// # Deterministic Randomness
//
//	rng := testutil.NewRand(seed)
//	reg, _ := statevec.New(2, statevec.WithRand(rng))
//
// # State Assertions
//
//	testutil.AssertNormalized(t, reg.Probabilities())
//	testutil.AssertAmplitudes(t, wantAmps, reg.StateVector(), 1e-9)
package testutil
