package core

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCompactPushesLessonsToFront(t *testing.T) {
	idx, err := NewIndex(sampleDataset(), 6)
	require.NoError(t, err)

	sched := NewSchedule(idx.NumDays(), idx.LessonsPerDay, idx.NumClasses())
	sched.Set(0, 4, 0, Assignment{TeacherID: 10, SubjectID: 1})
	sched.Set(0, 6, 0, Assignment{TeacherID: 11, SubjectID: 2})

	compacted := Compact(idx, sched)

	require.False(t, compacted.Get(0, 1, 0).Empty())
	require.False(t, compacted.Get(0, 2, 0).Empty())
	require.True(t, compacted.Get(0, 4, 0).Empty())
}

func TestCompactIsIdempotent(t *testing.T) {
	idx, err := NewIndex(sampleDataset(), 6)
	require.NoError(t, err)

	sched := NewSchedule(idx.NumDays(), idx.LessonsPerDay, idx.NumClasses())
	sched.Set(0, 3, 0, Assignment{TeacherID: 10, SubjectID: 1})

	once := Compact(idx, sched)
	twice := Compact(idx, once)

	require.Equal(t, once.cells, twice.cells)
}

func TestCompactLeavesContiguousScheduleUnchanged(t *testing.T) {
	idx, err := NewIndex(sampleDataset(), 6)
	require.NoError(t, err)

	sched := NewSchedule(idx.NumDays(), idx.LessonsPerDay, idx.NumClasses())
	sched.Set(0, 1, 0, Assignment{TeacherID: 10, SubjectID: 1})
	sched.Set(0, 2, 0, Assignment{TeacherID: 11, SubjectID: 2})

	compacted := Compact(idx, sched)
	require.Equal(t, sched.cells, compacted.cells)
}
