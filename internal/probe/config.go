package probe

import (
	"fmt"
	"time"

	"github.com/okian/outfit/internal/domain/compat"
	"github.com/okian/outfit/internal/domain/model"
)

// Config holds configuration for a probe run.
type Config struct {
	BaseURL      string        // Base URL of the service
	Garments     int           // Garments generated per category
	Combinations int           // Curated combinations to generate
	Queries      int           // Compatibility queries to cross-check
	TopN         int           // Ranked combinations to compare
	Workers      int           // Number of concurrent workers
	Timeout      time.Duration // HTTP request timeout
	Seed         int64         // Seed for catalog and query generation
	OutputFile   string        // Output file for the generated catalog
	LogFile      string        // Log file for probe output
	Verbose      bool          // Enable verbose logging
}

// Query is one compatibility lookup sent to the service.
type Query struct {
	Category model.Category    `json:"category"`
	Partial  model.Combination `json:"partial"`
}

type partialRequest struct {
	Partial model.Combination `json:"partial"`
}

type uploadResponse struct {
	Status   string `json:"status"`
	Revision string `json:"revision"`
}

type listResponse struct {
	Count        int                        `json:"count"`
	Combinations []compat.ScoredCombination `json:"combinations"`
}

type garmentsResponse struct {
	Category model.Category   `json:"category"`
	Count    int              `json:"count"`
	Garments []*model.Garment `json:"garments"`
}

type statsResponse struct {
	Revision     string `json:"revision"`
	Combinations int    `json:"combinations"`
	Garments     int    `json:"garments"`
}

// Stats holds probe statistics.
type Stats struct {
	GarmentsGenerated     int
	CombinationsGenerated int
	CombinationsIndexed   int
	Revision              string
	RankingChecked        int
	QueriesSent           int
	QueriesMatched        int
	QueriesMismatched     int
	QueriesFailed         int
	StartTime             time.Time
	EndTime               time.Time
	Duration              time.Duration
}

// Validate checks the settings that would make a run meaningless.
func (c *Config) Validate() error {
	switch {
	case c.BaseURL == "":
		return fmt.Errorf("%w: url must not be empty", ErrInvalidConfig)
	case c.Garments < 1:
		return fmt.Errorf("%w: garments must be positive", ErrInvalidConfig)
	case c.Combinations < 1:
		return fmt.Errorf("%w: combinations must be positive", ErrInvalidConfig)
	case c.TopN < 1:
		return fmt.Errorf("%w: top must be positive", ErrInvalidConfig)
	case c.Workers < 1:
		return fmt.Errorf("%w: workers must be positive", ErrInvalidConfig)
	}
	return nil
}
