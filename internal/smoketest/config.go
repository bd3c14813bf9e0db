package smoketest

import (
	"time"

	"github.com/okian/pokecalc/internal/domain/model"
)

// Config holds configuration for a smoke run.
type Config struct {
	BaseURL     string        // Base URL of the service
	NumRequests int           // Number of random matchups to generate
	BatchSize   int           // Requests per POST /calculate/batch; 0 sends them one by one
	Workers     int           // Number of concurrent submitters
	Generation  int           // Ruleset version for generated matchups
	Seed        uint64        // Seed for the matchup generator; 0 picks one from the clock
	Timeout     time.Duration // HTTP request timeout
	OutputFile  string        // Output file for generated requests
	LogFile     string        // Log file for run output
	Verbose     bool          // Enable verbose logging
}

// Stats holds run statistics.
type Stats struct {
	RequestsGenerated int
	RequestsSubmitted int
	Succeeded         int
	Rejected          int // 4xx: the service refused the matchup
	Failed            int // transport errors and 5xx
	HistoryRetrieved  int
	StartTime         time.Time
	EndTime           time.Time
	Duration          time.Duration
}

// batchRequest mirrors the body of POST /calculate/batch.
type batchRequest struct {
	Requests []model.Request `json:"requests"`
}

type batchResponse struct {
	Items []model.BatchItem `json:"items"`
}

type listResponse struct {
	Calculations []model.Record `json:"calculations"`
}
