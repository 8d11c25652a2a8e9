package core

import "math/rand"

// InitializePopulation builds PopulationSize random schedules biased toward
// feasibility: each cell gets a fill attempt, then any class/day that still
// falls short of MinLessonsPerDay gets a second, targeted pass.
func InitializePopulation(idx *Index, cfg Config, rng *rand.Rand) []Schedule {
	population := make([]Schedule, cfg.PopulationSize)
	for i := range population {
		population[i] = createRandomSchedule(idx, cfg, rng)
	}
	return population
}

func createRandomSchedule(idx *Index, cfg Config, rng *rand.Rand) Schedule {
	numDays := idx.NumDays()
	lessonsPerDay := idx.LessonsPerDay
	numClasses := idx.NumClasses()
	sched := NewSchedule(numDays, lessonsPerDay, numClasses)

	for day := 0; day < numDays; day++ {
		for slot := 1; slot <= lessonsPerDay; slot++ {
			booked := make(map[int]bool)
			for c := 0; c < numClasses; c++ {
				if rng.Float64() >= cfg.PFill {
					continue
				}
				if a, ok := pickAssignment(idx, rng, booked); ok {
					sched.Set(day, slot, c, a)
					booked[a.TeacherID] = true
				}
			}
		}
	}

	applyMinimumFillBias(idx, &sched, cfg, rng)
	return sched
}

// pickAssignment draws a uniformly random subject, then a uniformly random
// teacher qualified for it among those not already booked this slot.
func pickAssignment(idx *Index, rng *rand.Rand, booked map[int]bool) (Assignment, bool) {
	if len(idx.Subjects) == 0 {
		return Assignment{}, false
	}
	subject := idx.Subjects[rng.Intn(len(idx.Subjects))]
	candidates := idx.TeachersBySubject[subject.ID]
	if len(candidates) == 0 {
		return Assignment{}, false
	}

	available := make([]int, 0, len(candidates))
	for _, tid := range candidates {
		if !booked[tid] {
			available = append(available, tid)
		}
	}
	if len(available) == 0 {
		return Assignment{}, false
	}

	teacherID := available[rng.Intn(len(available))]
	return Assignment{TeacherID: teacherID, SubjectID: subject.ID}, true
}

// applyMinimumFillBias tops up any (class, day) pair left below
// MinLessonsPerDay by the initial fill pass, within a bounded number of
// attempts so an infeasible dataset cannot spin this forever.
func applyMinimumFillBias(idx *Index, sched *Schedule, cfg Config, rng *rand.Rand) {
	numDays := idx.NumDays()
	lessonsPerDay := idx.LessonsPerDay
	numClasses := idx.NumClasses()
	maxAttempts := 2 * lessonsPerDay

	for day := 0; day < numDays; day++ {
		for c := 0; c < numClasses; c++ {
			for attempt := 0; attempt < maxAttempts; attempt++ {
				if countNonEmpty(*sched, day, c, lessonsPerDay) >= cfg.MinLessonsPerDay {
					break
				}
				slot := rng.Intn(lessonsPerDay) + 1
				if !sched.Get(day, slot, c).Empty() {
					continue
				}
				booked := bookedTeachers(*sched, day, slot, numClasses)
				if a, ok := pickAssignment(idx, rng, booked); ok {
					sched.Set(day, slot, c, a)
				}
			}
		}
	}
}

func countNonEmpty(sched Schedule, day, classIdx, lessonsPerDay int) int {
	n := 0
	for slot := 1; slot <= lessonsPerDay; slot++ {
		if !sched.Get(day, slot, classIdx).Empty() {
			n++
		}
	}
	return n
}

func bookedTeachers(sched Schedule, day, slot, numClasses int) map[int]bool {
	booked := make(map[int]bool)
	for c := 0; c < numClasses; c++ {
		a := sched.Get(day, slot, c)
		if !a.Empty() {
			booked[a.TeacherID] = true
		}
	}
	return booked
}
