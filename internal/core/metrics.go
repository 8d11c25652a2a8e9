package core

import "math"

// Metrics are the pure, side-effect-free counts C3 combines into a score.
type Metrics struct {
	TeacherConflicts int
	TeacherGaps      int
	ClassGaps        int
	EarlyGaps        int
	DailyImbalance   float64
	TotalLessons     int
	MinDailyDeficit  int
}

// ComputeMetrics evaluates every metric over a schedule against the given
// indices. It never mutates the schedule.
func ComputeMetrics(idx *Index, sched Schedule, minLessonsPerDay int) Metrics {
	numDays := idx.NumDays()
	lessonsPerDay := idx.LessonsPerDay
	numClasses := idx.NumClasses()

	return Metrics{
		TeacherConflicts: countTeacherConflicts(idx, sched, numDays, lessonsPerDay, numClasses),
		TeacherGaps:      countTeacherGaps(sched, numDays, lessonsPerDay, numClasses),
		ClassGaps:        countClassGaps(sched, numDays, lessonsPerDay, numClasses),
		EarlyGaps:        countEarlyGaps(sched, numDays, lessonsPerDay, numClasses),
		DailyImbalance:   calculateDailyImbalance(sched, numDays, lessonsPerDay, numClasses),
		TotalLessons:     countTotalLessons(sched, numDays, lessonsPerDay, numClasses),
		MinDailyDeficit:  countMinDailyDeficit(sched, numDays, lessonsPerDay, numClasses, minLessonsPerDay),
	}
}

func countTeacherConflicts(idx *Index, sched Schedule, numDays, lessonsPerDay, numClasses int) int {
	conflicts := 0
	for day := 0; day < numDays; day++ {
		for slot := 1; slot <= lessonsPerDay; slot++ {
			seen := make(map[int]bool, numClasses)
			for c := 0; c < numClasses; c++ {
				a := sched.Get(day, slot, c)
				if a.Empty() {
					continue
				}
				teacher, known := idx.TeacherByID[a.TeacherID]
				if !known {
					conflicts++
					continue
				}
				if _, qualified := teacher.Subjects[a.SubjectID]; !qualified {
					conflicts++
				}
				if seen[a.TeacherID] {
					conflicts++
				} else {
					seen[a.TeacherID] = true
				}
			}
		}
	}
	return conflicts
}

func countTeacherGaps(sched Schedule, numDays, lessonsPerDay, numClasses int) int {
	gaps := 0
	for day := 0; day < numDays; day++ {
		slotsByTeacher := make(map[int][]int)
		for slot := 1; slot <= lessonsPerDay; slot++ {
			seenThisSlot := make(map[int]bool)
			for c := 0; c < numClasses; c++ {
				a := sched.Get(day, slot, c)
				if a.Empty() || seenThisSlot[a.TeacherID] {
					continue
				}
				seenThisSlot[a.TeacherID] = true
				slotsByTeacher[a.TeacherID] = append(slotsByTeacher[a.TeacherID], slot)
			}
		}
		for _, slots := range slotsByTeacher {
			for i := 0; i+1 < len(slots); i++ {
				gaps += slots[i+1] - slots[i] - 1
			}
		}
	}
	return gaps
}

func countClassGaps(sched Schedule, numDays, lessonsPerDay, numClasses int) int {
	gaps := 0
	for day := 0; day < numDays; day++ {
		for c := 0; c < numClasses; c++ {
			var slots []int
			for slot := 1; slot <= lessonsPerDay; slot++ {
				if !sched.Get(day, slot, c).Empty() {
					slots = append(slots, slot)
				}
			}
			for i := 0; i+1 < len(slots); i++ {
				gaps += slots[i+1] - slots[i] - 1
			}
		}
	}
	return gaps
}

func countEarlyGaps(sched Schedule, numDays, lessonsPerDay, numClasses int) int {
	total := 0
	for day := 0; day < numDays; day++ {
		for c := 0; c < numClasses; c++ {
			for slot := 1; slot <= lessonsPerDay; slot++ {
				if !sched.Get(day, slot, c).Empty() {
					total += slot - 1
					break
				}
			}
		}
	}
	return total
}

func calculateDailyImbalance(sched Schedule, numDays, lessonsPerDay, numClasses int) float64 {
	var total float64
	counts := make([]float64, numDays)
	for c := 0; c < numClasses; c++ {
		for day := 0; day < numDays; day++ {
			n := 0
			for slot := 1; slot <= lessonsPerDay; slot++ {
				if !sched.Get(day, slot, c).Empty() {
					n++
				}
			}
			counts[day] = float64(n)
		}
		total += populationStdDev(counts)
	}
	return total
}

func populationStdDev(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var mean float64
	for _, v := range values {
		mean += v
	}
	mean /= float64(len(values))

	var variance float64
	for _, v := range values {
		d := v - mean
		variance += d * d
	}
	variance /= float64(len(values))

	return math.Sqrt(variance)
}

func countTotalLessons(sched Schedule, numDays, lessonsPerDay, numClasses int) int {
	n := 0
	for day := 0; day < numDays; day++ {
		for slot := 1; slot <= lessonsPerDay; slot++ {
			for c := 0; c < numClasses; c++ {
				if !sched.Get(day, slot, c).Empty() {
					n++
				}
			}
		}
	}
	return n
}

func countMinDailyDeficit(sched Schedule, numDays, lessonsPerDay, numClasses, minPerDay int) int {
	deficit := 0
	for day := 0; day < numDays; day++ {
		for c := 0; c < numClasses; c++ {
			n := 0
			for slot := 1; slot <= lessonsPerDay; slot++ {
				if !sched.Get(day, slot, c).Empty() {
					n++
				}
			}
			if d := minPerDay - n; d > 0 {
				deficit += d
			}
		}
	}
	return deficit
}
