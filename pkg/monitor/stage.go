// Package monitor runs the NDVI sweep: fetch each zone, compare against
// its history and growth stage, persist the observation, and deliver
// alerts for zones under stress.
package monitor

import "time"

// Stage is a corn growth stage with the minimum NDVI a healthy field
// shows while in it.
type Stage struct {
	Name    string
	MinNDVI float64
}

// Growing-season bounds as day-of-year. Outside this window fields are
// bare or drying down and NDVI carries no stress signal.
const (
	seasonStartDOY = 120
	seasonEndDOY   = 260
)

var stages = []struct {
	maxDOY int
	stage  Stage
}{
	{130, Stage{Name: "emergence", MinNDVI: 0.30}},
	{160, Stage{Name: "V8-V12", MinNDVI: 0.55}},
	{seasonEndDOY + 1, Stage{Name: "pre-silking", MinNDVI: 0.70}},
}

// StageFor returns the growth stage for a calendar date.
func StageFor(date time.Time) Stage {
	doy := date.YearDay()
	for _, s := range stages {
		if doy < s.maxDOY {
			return s.stage
		}
	}
	return stages[len(stages)-1].stage
}

// InSeason reports whether the date falls inside the growing season.
func InSeason(date time.Time) bool {
	doy := date.YearDay()
	return doy >= seasonStartDOY && doy <= seasonEndDOY
}
