package core

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestInitializePopulationSizeMatchesConfig(t *testing.T) {
	idx, err := NewIndex(sampleDataset(), 6)
	require.NoError(t, err)
	cfg := DefaultConfig()
	cfg.PopulationSize = 7
	rng := rand.New(rand.NewSource(42))

	population := InitializePopulation(idx, cfg, rng)
	require.Len(t, population, 7)
}

func TestInitializePopulationIsDeterministicForFixedSeed(t *testing.T) {
	idx, err := NewIndex(sampleDataset(), 6)
	require.NoError(t, err)
	cfg := DefaultConfig()
	cfg.PopulationSize = 3

	a := InitializePopulation(idx, cfg, rand.New(rand.NewSource(7)))
	b := InitializePopulation(idx, cfg, rand.New(rand.NewSource(7)))

	for i := range a {
		require.Equal(t, a[i].cells, b[i].cells)
	}
}

func TestApplyMinimumFillBiasReachesFloorWhenFeasible(t *testing.T) {
	idx, err := NewIndex(sampleDataset(), 6)
	require.NoError(t, err)
	cfg := DefaultConfig()
	cfg.PFill = 0
	rng := rand.New(rand.NewSource(1))

	sched := NewSchedule(idx.NumDays(), idx.LessonsPerDay, idx.NumClasses())
	applyMinimumFillBias(idx, &sched, cfg, rng)

	require.GreaterOrEqual(t, countNonEmpty(sched, 0, 0, idx.LessonsPerDay), cfg.MinLessonsPerDay)
}
