package ingest

// Result holds the outcome of an import.
type Result struct {
	WorkoutsReceived int `json:"workouts_received"`
	WorkoutsAdded    int `json:"workouts_added"`
	WorkoutsSkipped  int `json:"workouts_skipped"`
	SetsReceived     int `json:"sets_received"`
	WarmupsDropped   int `json:"warmups_dropped,omitempty"`

	Message string `json:"message,omitempty"`
}
