package types

import "time"

type Interval string

const (
	Day  Interval = "1d"
	Week Interval = "1wk"
)

var IntervalToTime = map[Interval]time.Duration{
	Day:  time.Hour * 24,
	Week: time.Hour * 24 * 7,
}

var ConvertInterval = map[string]Interval{
	"1d":  Day,
	"1wk": Week,
}
