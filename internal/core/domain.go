package core

import "sort"

// Subject is a stable, read-only curriculum entry.
type Subject struct {
	ID   int
	Name string
}

// Teacher is qualified to teach a set of subjects, identified by subject id.
type Teacher struct {
	ID       int
	Name     string
	Subjects map[int]struct{}
}

// Class is a homeroom group a schedule assigns lessons to.
type Class struct {
	ID    int
	Name  string
	Grade int
}

// Dataset is the read-only input to a single optimization run.
type Dataset struct {
	Subjects []Subject
	Teachers []Teacher
	Classes  []Class
}

// DefaultDays is the canonical five-day week the engine schedules over.
var DefaultDays = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday"}

// Index holds the input tables plus the lookup structures derived from them
// once per run. It is shared read-only across every chromosome.
type Index struct {
	Days          []string
	LessonsPerDay int

	Subjects []Subject
	Teachers []Teacher
	Classes  []Class

	SubjectByID map[int]Subject
	TeacherByID map[int]Teacher
	ClassByID   map[int]Class

	// TeachersBySubject maps a subject id to the teacher ids qualified for
	// it, in the order teachers were given in the dataset.
	TeachersBySubject map[int][]int
}

// NewIndex builds the domain indices for a run. It rejects datasets missing
// any of subjects, teachers, or classes, matching how the data-quality
// validation layer rejects a dataset before a job ever reaches the queue.
func NewIndex(ds Dataset, lessonsPerDay int) (*Index, error) {
	return newIndexWithDays(ds, lessonsPerDay, DefaultDays)
}

func newIndexWithDays(ds Dataset, lessonsPerDay int, days []string) (*Index, error) {
	if len(ds.Subjects) == 0 || len(ds.Teachers) == 0 || len(ds.Classes) == 0 {
		return nil, ErrInvalidDataset
	}
	if lessonsPerDay <= 0 {
		return nil, ErrInvalidDataset
	}
	if len(days) == 0 {
		days = DefaultDays
	}

	idx := &Index{
		Days:              days,
		LessonsPerDay:     lessonsPerDay,
		Subjects:          ds.Subjects,
		Teachers:          ds.Teachers,
		Classes:           ds.Classes,
		SubjectByID:       make(map[int]Subject, len(ds.Subjects)),
		TeacherByID:       make(map[int]Teacher, len(ds.Teachers)),
		ClassByID:         make(map[int]Class, len(ds.Classes)),
		TeachersBySubject: make(map[int][]int, len(ds.Subjects)),
	}

	for _, s := range ds.Subjects {
		idx.SubjectByID[s.ID] = s
		idx.TeachersBySubject[s.ID] = nil
	}
	for _, t := range ds.Teachers {
		idx.TeacherByID[t.ID] = t
	}
	for _, c := range ds.Classes {
		idx.ClassByID[c.ID] = c
	}

	teacherOrder := make(map[int]int, len(ds.Teachers))
	for i, t := range ds.Teachers {
		teacherOrder[t.ID] = i
	}
	for _, t := range ds.Teachers {
		for subjectID := range t.Subjects {
			if _, known := idx.SubjectByID[subjectID]; !known {
				continue
			}
			idx.TeachersBySubject[subjectID] = append(idx.TeachersBySubject[subjectID], t.ID)
		}
	}
	for subjectID, ids := range idx.TeachersBySubject {
		sort.Slice(ids, func(i, j int) bool { return teacherOrder[ids[i]] < teacherOrder[ids[j]] })
		idx.TeachersBySubject[subjectID] = ids
	}

	return idx, nil
}

// NumDays returns the number of scheduled days.
func (idx *Index) NumDays() int { return len(idx.Days) }

// NumClasses returns the number of classes in the dataset.
func (idx *Index) NumClasses() int { return len(idx.Classes) }
