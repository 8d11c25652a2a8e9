package core

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuildOutputResolvesNamesAndEmptyCells(t *testing.T) {
	idx, err := NewIndex(sampleDataset(), 2)
	require.NoError(t, err)

	sched := NewSchedule(idx.NumDays(), idx.LessonsPerDay, idx.NumClasses())
	sched.Set(0, 1, 0, Assignment{TeacherID: 10, SubjectID: 1})

	out := Output{Schedule: sched, Fitness: 987.654, Generation: 3}
	result := BuildOutput(idx, out)

	cell := result.Schedule["Monday"]["1"]["10A"]
	require.NotNil(t, cell)
	require.Equal(t, "Ada", cell.Teacher)
	require.Equal(t, "Math", cell.Subject)

	require.Nil(t, result.Schedule["Monday"]["2"]["10A"])
	require.Equal(t, 987.65, result.FitnessScore)
	require.Equal(t, 3, result.Generation)
}
