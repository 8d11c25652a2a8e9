package core

import "errors"

// ErrInvalidDataset is returned when subjects, teachers, or classes are
// missing, empty, or the requested population size cannot run at all.
var ErrInvalidDataset = errors.New("invalid dataset")
