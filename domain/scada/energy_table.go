package scada

import (
	"math/rand"
)

// EnergyTable holds an observation table and hands out bootstrap resamples
// of it. Resample index 0 is by contract the identity draw, so downstream
// point estimates reflect the unperturbed sample; index i >= 1 is an
// independent draw with replacement of the same row count, seeded from the
// base seed plus the index so every resample is reproducible.
type EnergyTable struct {
	table *Table
	seed  int64
}

// NewEnergyTable wraps an observation table with a base seed for resampling.
func NewEnergyTable(t *Table, seed int64) *EnergyTable {
	return &EnergyTable{table: t, seed: seed}
}

// Table returns the unperturbed observation table.
func (e *EnergyTable) Table() *Table { return e.table }

// Resample returns the bootstrap draw for the given index.
func (e *EnergyTable) Resample(index int) *Table {
	if index == 0 {
		return e.table
	}
	n := e.table.NumRows()
	rng := rand.New(rand.NewSource(e.seed + int64(index)))
	indices := make([]int, n)
	for i := range indices {
		indices[i] = rng.Intn(n)
	}
	return e.table.Take(indices)
}
