package core

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestScalarFitnessPerfectScheduleIsBaseline(t *testing.T) {
	m := Metrics{TotalLessons: 10}
	got := ScalarFitness(m)
	require.Equal(t, baselineScore+weightTotalLessons*10, got)
}

func TestScalarFitnessClampsAtZero(t *testing.T) {
	m := Metrics{TeacherConflicts: 100}
	require.Equal(t, 0.0, ScalarFitness(m))
}

func TestFitnessMatchesComputeMetricsAndScalarFitness(t *testing.T) {
	idx, err := NewIndex(sampleDataset(), 6)
	require.NoError(t, err)
	sched := NewSchedule(idx.NumDays(), idx.LessonsPerDay, idx.NumClasses())

	score, m := Fitness(idx, sched, 2)
	require.Equal(t, ScalarFitness(m), score)
}
