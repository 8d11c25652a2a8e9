package core

import (
	"math"
	"strconv"
)

// CellOutput names the teacher and subject occupying a slot.
type CellOutput struct {
	Teacher string `json:"teacher"`
	Subject string `json:"subject"`
}

// StatisticsOutput summarizes a schedule's quality for display.
type StatisticsOutput struct {
	TotalLessons     int `json:"total_lessons"`
	TeacherConflicts int `json:"teacher_conflicts"`
	TeacherGaps      int `json:"teacher_gaps"`
}

// ScheduleOutput is the JSON shape returned to API callers: day name ->
// slot number (as a string) -> class name -> cell, or null when empty.
type ScheduleOutput struct {
	Schedule     map[string]map[string]map[string]*CellOutput `json:"schedule"`
	FitnessScore float64                                      `json:"fitness_score"`
	Generation   int                                           `json:"generation"`
	Statistics   StatisticsOutput                              `json:"statistics"`
}

// BuildOutput flattens an engine Output into the wire contract, resolving
// teacher and subject ids to names via idx.
func BuildOutput(idx *Index, out Output) ScheduleOutput {
	days := idx.Days
	lessonsPerDay := idx.LessonsPerDay
	classes := idx.Classes

	byDay := make(map[string]map[string]map[string]*CellOutput, len(days))
	for dayIdx, dayName := range days {
		bySlot := make(map[string]map[string]*CellOutput, lessonsPerDay)
		for slot := 1; slot <= lessonsPerDay; slot++ {
			byClass := make(map[string]*CellOutput, len(classes))
			for classIdx, class := range classes {
				a := out.Schedule.Get(dayIdx, slot, classIdx)
				if a.Empty() {
					byClass[class.Name] = nil
					continue
				}
				teacher := idx.TeacherByID[a.TeacherID]
				subject := idx.SubjectByID[a.SubjectID]
				byClass[class.Name] = &CellOutput{Teacher: teacher.Name, Subject: subject.Name}
			}
			bySlot[strconv.Itoa(slot)] = byClass
		}
		byDay[dayName] = bySlot
	}

	return ScheduleOutput{
		Schedule:     byDay,
		FitnessScore: roundTo2(out.Fitness),
		Generation:   out.Generation,
		Statistics: StatisticsOutput{
			TotalLessons:     out.Metrics.TotalLessons,
			TeacherConflicts: out.Metrics.TeacherConflicts,
			TeacherGaps:      out.Metrics.TeacherGaps,
		},
	}
}

func roundTo2(v float64) float64 {
	return math.Round(v*100) / 100
}
