// Package testutil provides testing utilities for the codec.
//
// This package is intended for use in tests and benchmarks only.
// It provides a seeded, thread-safe random source for generating vectors,
// plus exact brute-force search and recall computation for verifying
// approximate results against ground truth.
//
// # Random Vector Generation
//
//	rng := testutil.NewRNG(seed)
//	vec := make([]float32, 128)
//	rng.FillUniformRange(vec, -1, 1)
//
// # Ground Truth and Recall
//
//	exact := testutil.BruteForceSearch(dataset, query, k)
//	recall := testutil.ComputeRecall(exact, approx)
package testutil
