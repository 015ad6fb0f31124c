package ingest

// Result holds the outcome of an ingest operation.
type Result struct {
	RoutesReceived int   `json:"routes_received"`
	RoutesInserted int64 `json:"routes_inserted"`
	RoutesSkipped  int64 `json:"routes_skipped"`
	RoutesRejected int   `json:"routes_rejected"`

	AttemptsReceived int   `json:"attempts_received"`
	AttemptsInserted int64 `json:"attempts_inserted"`
	AttemptsSkipped  int64 `json:"attempts_skipped"`

	RejectedRoutes []string `json:"rejected_routes,omitempty"`

	Message string `json:"message,omitempty"`
}
