package core

import (
	"context"
	"math/rand"
	"sort"

	"golang.org/x/sync/errgroup"
)

// Output is the result of a single evolution run. Cancellation is not an
// error: the caller gets back the best schedule found before the context
// was cancelled, compacted the same as a natural finish, with Cancelled
// set so the job layer can record it as such.
type Output struct {
	Schedule   Schedule
	Fitness    float64
	Metrics    Metrics
	Generation int
	Cancelled  bool
}

// Engine runs the generational loop over a fixed dataset index.
type Engine struct {
	idx *Index
	cfg Config
}

// NewEngine builds an engine for idx under cfg.
func NewEngine(idx *Index, cfg Config) *Engine {
	return &Engine{idx: idx, cfg: cfg}
}

// Run executes initialization, the generation loop, and final compaction,
// checking for cancellation once per generation boundary.
func (e *Engine) Run(ctx context.Context) (Output, error) {
	if e.cfg.PopulationSize <= 0 {
		return Output{}, ErrInvalidDataset
	}

	rng := rand.New(rand.NewSource(e.cfg.Seed))
	numDays := e.idx.NumDays()

	schedules := InitializePopulation(e.idx, e.cfg, rng)
	population, err := e.evaluatePopulation(ctx, schedules)
	if err != nil {
		return Output{}, err
	}
	sort.SliceStable(population, func(i, j int) bool {
		return population[i].Fitness > population[j].Fitness
	})

	best := population[0].Schedule.Clone()
	bestFitness := population[0].Fitness
	bestGeneration := 0

	eliteCount := e.cfg.PopulationSize / 10
	if eliteCount < 1 && e.cfg.PopulationSize > 0 {
		eliteCount = 1
	}

	for gen := 1; gen <= e.cfg.Generations; gen++ {
		select {
		case <-ctx.Done():
			return e.finalize(best, bestGeneration, true), nil
		default:
		}

		next := make([]Individual, 0, e.cfg.PopulationSize)
		next = append(next, population[:min(eliteCount, len(population))]...)

		for len(next) < e.cfg.PopulationSize {
			parentA := TournamentSelect(population, e.cfg.TournamentSize, rng)
			parentB := TournamentSelect(population, e.cfg.TournamentSize, rng)

			childA, childB := Crossover(parentA.Schedule, parentB.Schedule, numDays, rng)

			e.maybeMutate(&childA, rng)
			e.maybeMutate(&childB, rng)

			fitnessA, metricsA := Fitness(e.idx, childA, e.cfg.MinLessonsPerDay)
			ind1 := Individual{Schedule: childA, Fitness: fitnessA, Metrics: metricsA}

			if len(next)+2 > e.cfg.PopulationSize {
				next = append(next, ind1)
				break
			}

			fitnessB, metricsB := Fitness(e.idx, childB, e.cfg.MinLessonsPerDay)
			ind2 := Individual{Schedule: childB, Fitness: fitnessB, Metrics: metricsB}

			next = append(next, ind1, ind2)
		}

		population = next
		sort.SliceStable(population, func(i, j int) bool {
			return population[i].Fitness > population[j].Fitness
		})

		if population[0].Fitness > bestFitness {
			bestFitness = population[0].Fitness
			best = population[0].Schedule.Clone()
			bestGeneration = gen
		}
	}

	return e.finalize(best, bestGeneration, false), nil
}

func (e *Engine) maybeMutate(sched *Schedule, rng *rand.Rand) {
	if rng.Float64() >= e.cfg.MutationRate {
		return
	}
	if rng.Float64() < e.cfg.PCompactMutation {
		CompactionMutation(e.idx, sched, rng)
		return
	}
	PointMutation(e.idx, sched, rng)
}

func (e *Engine) finalize(best Schedule, generation int, cancelled bool) Output {
	compacted := Compact(e.idx, best)
	fitness, metrics := Fitness(e.idx, compacted, e.cfg.MinLessonsPerDay)
	return Output{
		Schedule:   compacted,
		Fitness:    fitness,
		Metrics:    metrics,
		Generation: generation,
		Cancelled:  cancelled,
	}
}

// evaluatePopulation scores every schedule in the initial population. With
// Parallel set it fans the work out through an errgroup capped at Workers,
// the same bounded-concurrency shape the darwinium executor uses for its
// RefreshFitness pass.
func (e *Engine) evaluatePopulation(ctx context.Context, schedules []Schedule) ([]Individual, error) {
	population := make([]Individual, len(schedules))

	if !e.cfg.Parallel {
		for i, sched := range schedules {
			fitness, metrics := Fitness(e.idx, sched, e.cfg.MinLessonsPerDay)
			population[i] = Individual{Schedule: sched, Fitness: fitness, Metrics: metrics}
		}
		return population, nil
	}

	g, _ := errgroup.WithContext(ctx)
	if e.cfg.Workers > 0 {
		g.SetLimit(e.cfg.Workers)
	}
	for i, sched := range schedules {
		i, sched := i, sched
		g.Go(func() error {
			fitness, metrics := Fitness(e.idx, sched, e.cfg.MinLessonsPerDay)
			population[i] = Individual{Schedule: sched, Fitness: fitness, Metrics: metrics}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return population, nil
}
