package logbook

// User is the authenticated Logbook account (from /users/me)
type User struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Weight   int    `json:"weight"`
	Gender   string `json:"gender"`
}

// Result is a single workout result from the Logbook API
type Result struct {
	ID          int64      `json:"id"`
	UserID      int64      `json:"user_id"`
	Date        string     `json:"date"`     // "2006-01-02 15:04:05" in Timezone
	DateUTC     string     `json:"date_utc"` // "2006-01-02 15:04:05"
	Timezone    string     `json:"timezone"`
	Distance    int        `json:"distance"` // meters
	Type        string     `json:"type"`     // machine, e.g. "rower"
	Time        int        `json:"time"`     // tenths of a second
	WorkoutType string     `json:"workout_type"`
	Source      string     `json:"source"`
	Comments    string     `json:"comments"`
	StrokeData  bool       `json:"stroke_data"`
	StrokeRate  int        `json:"stroke_rate"`
	HeartRate   *HeartRate `json:"heart_rate"`
	RestTime    int        `json:"rest_time"`     // tenths of a second
	RestDist    int        `json:"rest_distance"` // meters
	Workout     *Workout   `json:"workout"`
}

// HeartRate is the heart rate summary attached to results and intervals
type HeartRate struct {
	Average int `json:"average"`
	Min     int `json:"min"`
	Max     int `json:"max"`
}

// Workout holds the split or interval breakdown of a result
type Workout struct {
	Splits    []Split    `json:"splits"`
	Intervals []Interval `json:"intervals"`
}

// Split is one split of a continuous piece
type Split struct {
	Type       string `json:"type"`
	Time       int    `json:"time"` // tenths of a second
	Distance   int    `json:"distance"`
	StrokeRate int    `json:"stroke_rate"`
}

// Interval is one work interval, with the rest that followed it
type Interval struct {
	Type       string `json:"type"` // "distance", "time" or "calorie"
	Time       int    `json:"time"` // tenths of a second
	Distance   int    `json:"distance"`
	StrokeRate int    `json:"stroke_rate"`
	RestTime   int    `json:"rest_time"` // tenths of a second
	RestDist   int    `json:"rest_distance"`
}

// Stroke is one sample from the stroke endpoint
type Stroke struct {
	T   int     `json:"t"`   // tenths of a second
	D   int     `json:"d"`   // decimeters
	P   float64 `json:"p"`   // pace in tenths per 500m, or watts on some monitors
	SPM int     `json:"spm"` // strokes per minute
	HR  int     `json:"hr"`
}

// Pagination is the paging block of a list response
type Pagination struct {
	Total       int `json:"total"`
	Count       int `json:"count"`
	PerPage     int `json:"per_page"`
	CurrentPage int `json:"current_page"`
	TotalPages  int `json:"total_pages"`
}

// ResultsPage is one page of results
type ResultsPage struct {
	Data []Result `json:"data"`
	Meta struct {
		Pagination Pagination `json:"pagination"`
	} `json:"meta"`
}

type userResponse struct {
	Data User `json:"data"`
}

type strokesResponse struct {
	Data []Stroke `json:"data"`
}
