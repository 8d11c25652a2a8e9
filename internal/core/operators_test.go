package core

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTournamentSelectReturnsFittest(t *testing.T) {
	population := []Individual{
		{Fitness: 10},
		{Fitness: 50},
		{Fitness: 30},
	}
	rng := rand.New(rand.NewSource(1))

	best := TournamentSelect(population, 3, rng)
	require.Equal(t, 50.0, best.Fitness)
}

func TestTournamentSelectClampsOversizedTournament(t *testing.T) {
	population := []Individual{{Fitness: 1}, {Fitness: 2}}
	rng := rand.New(rand.NewSource(1))

	best := TournamentSelect(population, 10, rng)
	require.Equal(t, 2.0, best.Fitness)
}

func TestCrossoverSwapsDayRange(t *testing.T) {
	a := NewSchedule(3, 1, 1)
	b := NewSchedule(3, 1, 1)
	for day := 0; day < 3; day++ {
		a.Set(day, 1, 0, Assignment{TeacherID: 1, SubjectID: 1})
		b.Set(day, 1, 0, Assignment{TeacherID: 2, SubjectID: 2})
	}
	rng := rand.New(rand.NewSource(3))

	childA, childB := Crossover(a, b, 3, rng)

	totalFromB := 0
	for day := 0; day < 3; day++ {
		if childA.Get(day, 1, 0).TeacherID == 2 {
			totalFromB++
		}
	}
	require.Greater(t, totalFromB, 0)
	require.Less(t, totalFromB, 3)
	require.NotEqual(t, childA.cells, childB.cells)
}

func TestCrossoverSingleDayReturnsParentsUnchanged(t *testing.T) {
	a := NewSchedule(1, 1, 1)
	b := NewSchedule(1, 1, 1)
	a.Set(0, 1, 0, Assignment{TeacherID: 1, SubjectID: 1})
	rng := rand.New(rand.NewSource(1))

	childA, childB := Crossover(a, b, 1, rng)
	require.Equal(t, a.cells, childA.cells)
	require.Equal(t, b.cells, childB.cells)
}

func TestPointMutationIsNoOpWithoutSubjects(t *testing.T) {
	idx := &Index{LessonsPerDay: 1, Days: []string{"Monday"}, Classes: []Class{{ID: 1}}}
	sched := NewSchedule(1, 1, 1)
	rng := rand.New(rand.NewSource(1))

	PointMutation(idx, &sched, rng)
	require.True(t, sched.Get(0, 1, 0).Empty())
}

func TestCompactionMutationDoesNotDoubleBookTeachers(t *testing.T) {
	idx, err := NewIndex(sampleDataset(), 4)
	require.NoError(t, err)
	cfg := DefaultConfig()
	cfg.PopulationSize = 1
	rng := rand.New(rand.NewSource(9))

	sched := createRandomSchedule(idx, cfg, rng)
	CompactionMutation(idx, &sched, rng)

	n := countTeacherConflicts(idx, sched, idx.NumDays(), idx.LessonsPerDay, idx.NumClasses())
	require.Equal(t, 0, n)
}
