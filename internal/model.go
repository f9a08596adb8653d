package internal

// ActivityPoint is one point of the activity chart series.
type ActivityPoint struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

// HealthRecord is the user's current daily snapshot. Exactly one record is
// resolvable at any time; partial updates merge onto it and refresh CreatedAt.
type HealthRecord struct {
	ID              string          `json:"id"`
	UserID          string          `json:"user_id"`
	Steps           int             `json:"steps"`
	HeartRate       int             `json:"heart_rate"` // bpm
	ActiveMinutes   int             `json:"active_minutes"`
	SleepHours      float64         `json:"sleep_hours"`
	CreatedAt       string          `json:"created_at"`
	ActivityHistory []ActivityPoint `json:"activity_history,omitempty"`
}

// HealthUpdate is a partial update of a HealthRecord. Nil fields are left
// unchanged by the merge.
type HealthUpdate struct {
	Steps         *int     `json:"steps,omitempty" validate:"omitempty,gte=0"`
	HeartRate     *int     `json:"heart_rate,omitempty" validate:"omitempty,gt=0"`
	ActiveMinutes *int     `json:"active_minutes,omitempty" validate:"omitempty,gte=0"`
	SleepHours    *float64 `json:"sleep_hours,omitempty" validate:"omitempty,gte=0"`
}

// Workout is one logged exercise session. The ID is assigned by the ledger at
// creation time and is immutable afterwards.
type Workout struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Type           string `json:"type"`     // cardio, strength, flexibility, sport, other
	Duration       int    `json:"duration"` // minutes
	CaloriesBurned int    `json:"caloriesBurned"`
	Date           string `json:"date"`
}

// Milestone is one derivable achievement. Achieved is monotonic: once true it
// never reverts for the same condition.
type Milestone struct {
	Title    string `json:"title"`
	Achieved bool   `json:"achieved"`
}

// User is the locally stored user record. No identity verification exists.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// ExportPayload is the combined export structure handed to the download surface.
type ExportPayload struct {
	HealthData HealthRecord `json:"healthData"`
	Workouts   []Workout    `json:"workouts"`
}
