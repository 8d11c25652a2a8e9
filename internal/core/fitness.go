package core

// Fitness weights. These are part of the contract: changing them changes
// the optimum the engine searches for.
const (
	weightTeacherConflicts = 100.0
	weightTeacherGaps      = 2.0
	weightClassGaps        = 10.0
	weightEarlyGaps        = 15.0
	weightDailyImbalance   = 1.0
	weightTotalLessons     = 0.5
	weightMinDailyDeficit  = 80.0
	baselineScore          = 1000.0
)

// ScalarFitness combines metrics into the single score the evolution loop
// optimizes for. Higher is better; the floor is zero.
func ScalarFitness(m Metrics) float64 {
	score := baselineScore
	score -= weightTeacherConflicts * float64(m.TeacherConflicts)
	score -= weightTeacherGaps * float64(m.TeacherGaps)
	score -= weightClassGaps * float64(m.ClassGaps)
	score -= weightEarlyGaps * float64(m.EarlyGaps)
	score -= weightDailyImbalance * m.DailyImbalance
	score += weightTotalLessons * float64(m.TotalLessons)
	score -= weightMinDailyDeficit * float64(m.MinDailyDeficit)
	if score < 0 {
		return 0
	}
	return score
}

// Fitness evaluates a schedule end to end: metrics, then the scalar score.
func Fitness(idx *Index, sched Schedule, minLessonsPerDay int) (float64, Metrics) {
	m := ComputeMetrics(idx, sched, minLessonsPerDay)
	return ScalarFitness(m), m
}
