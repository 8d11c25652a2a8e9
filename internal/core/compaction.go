package core

// Compact runs the deterministic post-processing pass applied to the best
// schedule before it is returned: push every class's lessons on every day
// toward the earliest free slots, trying both original and reversed lesson
// order and keeping whichever compacts furthest. It repeats until a full
// pass makes no further improvement, capped at three passes.
func Compact(idx *Index, sched Schedule) Schedule {
	result := sched.Clone()
	numDays := idx.NumDays()
	numClasses := idx.NumClasses()

	for pass := 0; pass < 3; pass++ {
		improved := false
		for c := 0; c < numClasses; c++ {
			for day := 0; day < numDays; day++ {
				if compactClassDayFull(idx, &result, day, c) {
					improved = true
				}
			}
		}
		if !improved {
			break
		}
	}
	return result
}

// compactClassDayFull replaces a single (class, day)'s lessons with the
// best of two greedy placements and reports whether it improved the
// earliest-occupied slot.
func compactClassDayFull(idx *Index, sched *Schedule, day, c int) bool {
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
		return false
	}

	alreadyContiguous := true
	for i, l := range lessons {
		if l.originalSlot != i+1 {
			alreadyContiguous = false
			break
		}
	}
	if alreadyContiguous {
		return false
	}

	originalFirst := lessons[0].originalSlot

	for _, l := range lessons {
		sched.Clear(day, l.originalSlot, c)
	}

	reversed := make([]compactLesson, len(lessons))
	for i, l := range lessons {
		reversed[len(lessons)-1-i] = l
	}

	placementA, firstA, lastA, okA := tryCompactPlacement(idx, *sched, day, c, lessons, lessonsPerDay, numClasses)
	placementB, firstB, lastB, okB := tryCompactPlacement(idx, *sched, day, c, reversed, lessonsPerDay, numClasses)

	switch {
	case okA && okB:
		if lastB < lastA {
			applyPlacement(sched, day, c, placementB)
			return firstB < originalFirst
		}
		applyPlacement(sched, day, c, placementA)
		return firstA < originalFirst
	case okA:
		applyPlacement(sched, day, c, placementA)
		return firstA < originalFirst
	case okB:
		applyPlacement(sched, day, c, placementB)
		return firstB < originalFirst
	default:
		for _, l := range lessons {
			sched.Set(day, l.originalSlot, c, l.assignment)
		}
		return false
	}
}

// tryCompactPlacement greedily assigns lessons, in the given order, to the
// earliest free slot free of teacher conflicts, against a frozen copy of
// the already-cleared day. It fails the whole attempt if any lesson has
// nowhere to go. Returns the first and last slots occupied by the result.
func tryCompactPlacement(idx *Index, sched Schedule, day, c int, lessons []compactLesson, lessonsPerDay, numClasses int) (map[int]Assignment, int, int, bool) {
	placement := make(map[int]Assignment, len(lessons))
	nextSlot := 1
	first := 0
	last := 0

	for _, l := range lessons {
		placed := false
		for slot := nextSlot; slot <= lessonsPerDay; slot++ {
			if _, taken := placement[slot]; taken {
				continue
			}
			if teacherBusyInSlot(sched, day, slot, c, numClasses, l.assignment.TeacherID) {
				continue
			}
			placement[slot] = l.assignment
			nextSlot = slot + 1
			if first == 0 {
				first = slot
			}
			last = slot
			placed = true
			break
		}
		if !placed {
			return nil, 0, 0, false
		}
	}
	return placement, first, last, true
}

func applyPlacement(sched *Schedule, day, c int, placement map[int]Assignment) {
	for slot, a := range placement {
		sched.Set(day, slot, c, a)
	}
}
