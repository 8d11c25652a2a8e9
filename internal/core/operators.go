package core

import "math/rand"

// Individual pairs a schedule with its evaluated fitness so the generation
// loop never recomputes a score it already has.
type Individual struct {
	Schedule Schedule
	Fitness  float64
	Metrics  Metrics
}

// TournamentSelect samples tournamentSize individuals without replacement
// and returns the fittest. Ties favor whichever individual was sampled
// first, so selection stays deterministic for a given rng stream.
func TournamentSelect(population []Individual, tournamentSize int, rng *rand.Rand) Individual {
	n := len(population)
	size := tournamentSize
	if size <= 0 {
		size = 1
	}
	if size > n {
		size = n
	}

	order := rng.Perm(n)[:size]
	best := population[order[0]]
	for _, i := range order[1:] {
		if population[i].Fitness > best.Fitness {
			best = population[i]
		}
	}
	return best
}

// Crossover produces two children by swapping a contiguous run of days
// between two parents at a single random cut point.
func Crossover(a, b Schedule, numDays int, rng *rand.Rand) (Schedule, Schedule) {
	childA := a.Clone()
	childB := b.Clone()
	if numDays < 2 {
		return childA, childB
	}

	cut := rng.Intn(numDays-1) + 1
	cellsPerDay := childA.lessonsPerDay * childA.numClasses
	from := cut * cellsPerDay

	copy(childA.cells[from:], b.cells[from:])
	copy(childB.cells[from:], a.cells[from:])
	return childA, childB
}

// PointMutation applies a handful of independent single-cell edits: each
// either clears a cell or assigns a random subject taught by a random
// qualified teacher, with no conflict checking against the rest of the
// schedule.
func PointMutation(idx *Index, sched *Schedule, rng *rand.Rand) {
	numDays := idx.NumDays()
	lessonsPerDay := idx.LessonsPerDay
	numClasses := idx.NumClasses()
	if numDays == 0 || lessonsPerDay == 0 || numClasses == 0 || len(idx.Subjects) == 0 {
		return
	}

	k := rng.Intn(5) + 1
	for i := 0; i < k; i++ {
		day := rng.Intn(numDays)
		slot := rng.Intn(lessonsPerDay) + 1
		c := rng.Intn(numClasses)

		if rng.Float64() < 0.5 {
			sched.Clear(day, slot, c)
			continue
		}

		subject := idx.Subjects[rng.Intn(len(idx.Subjects))]
		candidates := idx.TeachersBySubject[subject.ID]
		if len(candidates) == 0 {
			continue
		}
		teacherID := candidates[rng.Intn(len(candidates))]
		sched.Set(day, slot, c, Assignment{TeacherID: teacherID, SubjectID: subject.ID})
	}
}

// CompactionMutation nudges a random sample of (class, day) pairs toward
// the front of the day, greedily and without backtracking across pairs.
func CompactionMutation(idx *Index, sched *Schedule, rng *rand.Rand) {
	numDays := idx.NumDays()
	numClasses := idx.NumClasses()
	if numDays == 0 || numClasses == 0 {
		return
	}

	classCount := randIntRange(rng, 2, min(5, numClasses))
	classes := rng.Perm(numClasses)[:classCount]

	for _, c := range classes {
		dayCount := randIntRange(rng, 2, min(4, numDays))
		days := rng.Perm(numDays)[:dayCount]
		for _, day := range days {
			compactClassDay(idx, sched, day, c)
		}
	}
}

// randIntRange returns a uniform random int in [lo, hi], clamping lo down to
// hi when hi itself is below lo (too few classes/days to satisfy the
// minimum).
func randIntRange(rng *rand.Rand, lo, hi int) int {
	if hi < lo {
		lo = hi
	}
	if hi <= lo {
		return lo
	}
	return lo + rng.Intn(hi-lo+1)
}

type compactLesson struct {
	originalSlot int
	assignment   Assignment
}

// compactClassDay greedily re-places one class's lessons on one day toward
// the earliest free slots, in original slot order, rolling back a single
// lesson to its original slot if no earlier slot is free for it.
func compactClassDay(idx *Index, sched *Schedule, day, c int) {
	lessonsPerDay := idx.LessonsPerDay
	numClasses := idx.NumClasses()

	var lessons []compactLesson
	for slot := 1; slot <= lessonsPerDay; slot++ {
		a := sched.Get(day, slot, c)
		if !a.Empty() {
			lessons = append(lessons, compactLesson{originalSlot: slot, assignment: a})
		}
	}
	if len(lessons) == 0 {
		return
	}

	for _, l := range lessons {
		sched.Clear(day, l.originalSlot, c)
	}

	nextSlot := 1
	for _, l := range lessons {
		placed := false
		for slot := nextSlot; slot <= lessonsPerDay; slot++ {
			if teacherBusyInSlot(*sched, day, slot, c, numClasses, l.assignment.TeacherID) {
				continue
			}
			sched.Set(day, slot, c, l.assignment)
			nextSlot = slot + 1
			placed = true
			break
		}
		if !placed {
			sched.Set(day, l.originalSlot, c, l.assignment)
		}
	}
}

// teacherBusyInSlot reports whether teacherID already teaches some other
// class in (day, slot).
func teacherBusyInSlot(sched Schedule, day, slot, excludeClass, numClasses, teacherID int) bool {
	for c := 0; c < numClasses; c++ {
		if c == excludeClass {
			continue
		}
		a := sched.Get(day, slot, c)
		if !a.Empty() && a.TeacherID == teacherID {
			return true
		}
	}
	return false
}
