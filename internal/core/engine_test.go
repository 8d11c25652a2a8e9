package core

import (
	"context"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func smallConfig() Config {
	cfg := DefaultConfig()
	cfg.PopulationSize = 10
	cfg.Generations = 5
	cfg.LessonsPerDay = 4
	cfg.MinLessonsPerDay = 1
	cfg.Seed = 42
	return cfg
}

func TestEngineRunRejectsEmptyPopulation(t *testing.T) {
	idx, err := NewIndex(sampleDataset(), 4)
	require.NoError(t, err)
	cfg := smallConfig()
	cfg.PopulationSize = 0

	_, err = NewEngine(idx, cfg).Run(context.Background())
	require.ErrorIs(t, err, ErrInvalidDataset)
}

func TestEngineRunIsDeterministicForFixedSeed(t *testing.T) {
	idx, err := NewIndex(sampleDataset(), 4)
	require.NoError(t, err)
	cfg := smallConfig()

	outA, err := NewEngine(idx, cfg).Run(context.Background())
	require.NoError(t, err)
	outB, err := NewEngine(idx, cfg).Run(context.Background())
	require.NoError(t, err)

	require.Equal(t, outA.Fitness, outB.Fitness)
	require.Equal(t, outA.Schedule.cells, outB.Schedule.cells)
}

func TestEngineRunNeverReturnsWorseThanInitialBest(t *testing.T) {
	idx, err := NewIndex(sampleDataset(), 4)
	require.NoError(t, err)
	cfg := smallConfig()
	cfg.MutationRate = 0

	initial := InitializePopulation(idx, cfg, rand.New(rand.NewSource(cfg.Seed)))
	initialBest := 0.0
	for _, sched := range initial {
		if f, _ := Fitness(idx, sched, cfg.MinLessonsPerDay); f > initialBest {
			initialBest = f
		}
	}

	out, err := NewEngine(idx, cfg).Run(context.Background())
	require.NoError(t, err)
	require.False(t, out.Cancelled)
	require.GreaterOrEqual(t, out.Fitness, initialBest)
}

func TestEngineRunHonorsCancellation(t *testing.T) {
	idx, err := NewIndex(sampleDataset(), 4)
	require.NoError(t, err)
	cfg := smallConfig()
	cfg.Generations = 1000

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	out, err := NewEngine(idx, cfg).Run(ctx)
	require.NoError(t, err)
	require.True(t, out.Cancelled)
}

func TestEngineRunParallelMatchesSequentialFitness(t *testing.T) {
	idx, err := NewIndex(sampleDataset(), 4)
	require.NoError(t, err)
	cfg := smallConfig()
	cfg.Parallel = true
	cfg.Workers = 2

	out, err := NewEngine(idx, cfg).Run(context.Background())
	require.NoError(t, err)

	seqCfg := cfg
	seqCfg.Parallel = false
	seqOut, err := NewEngine(idx, seqCfg).Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, seqOut.Fitness, out.Fitness)
}
