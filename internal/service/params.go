package service

import "time"

// TimeParams is an operator-submitted clock setting. Values are clamped to
// their valid ranges, never rejected.
type TimeParams struct {
	Hour   int
	Minute int
	Second int
	Day    int
	Month  int
	Year   int
}

// LogFilter supports history filtering by time range and type.
type LogFilter struct {
	From time.Time // inclusive; zero means no lower bound
	To   time.Time // inclusive; zero means no upper bound
	Type string    // "", or one of the models.Event* constants
}
