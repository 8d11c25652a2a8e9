package core

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCountTeacherConflictsDetectsDoubleBooking(t *testing.T) {
	sched := NewSchedule(1, 1, 2)
	sched.Set(0, 1, 0, Assignment{TeacherID: 1, SubjectID: 1})
	sched.Set(0, 1, 1, Assignment{TeacherID: 1, SubjectID: 1})

	n := countTeacherConflicts(&Index{TeacherByID: map[int]Teacher{
		1: {ID: 1, Subjects: map[int]struct{}{1: {}}},
	}}, sched, 1, 1, 2)
	require.Equal(t, 1, n)
}

func TestCountTeacherConflictsDetectsUnqualified(t *testing.T) {
	sched := NewSchedule(1, 1, 1)
	sched.Set(0, 1, 0, Assignment{TeacherID: 1, SubjectID: 2})

	idx := &Index{TeacherByID: map[int]Teacher{1: {ID: 1, Subjects: map[int]struct{}{1: {}}}}}
	n := countTeacherConflicts(idx, sched, 1, 1, 1)
	require.Equal(t, 1, n)
}

func TestCountClassGapsSumsInteriorGaps(t *testing.T) {
	sched := NewSchedule(1, 4, 1)
	sched.Set(0, 1, 0, Assignment{TeacherID: 1, SubjectID: 1})
	sched.Set(0, 4, 0, Assignment{TeacherID: 1, SubjectID: 1})

	require.Equal(t, 2, countClassGaps(sched, 1, 4, 1))
}

func TestCountEarlyGapsCountsLeadingEmptySlots(t *testing.T) {
	sched := NewSchedule(1, 3, 1)
	sched.Set(0, 3, 0, Assignment{TeacherID: 1, SubjectID: 1})

	require.Equal(t, 2, countEarlyGaps(sched, 1, 3, 1))
}

func TestCountMinDailyDeficit(t *testing.T) {
	sched := NewSchedule(1, 6, 1)
	sched.Set(0, 1, 0, Assignment{TeacherID: 1, SubjectID: 1})

	require.Equal(t, 1, countMinDailyDeficit(sched, 1, 6, 1, 2))
}

func TestPopulationStdDevOfConstantValuesIsZero(t *testing.T) {
	require.Equal(t, 0.0, populationStdDev([]float64{3, 3, 3}))
}
