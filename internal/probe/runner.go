package probe

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/goccy/go-json"
	"github.com/okian/outfit/internal/domain/compat"
	"github.com/okian/outfit/internal/domain/model"
	"github.com/okian/outfit/pkg/logger"
)

// File permission constants.
const (
	directoryPermission = 0750
	filePermission      = 0600
)

// Run executes the complete probe: it uploads a synthetic catalog, then
// checks the service's answers against an index built locally from the same
// catalog. The service must score with default weights for rankings to agree.
func Run(ctx context.Context, config *Config) error {
	if err := config.Validate(); err != nil {
		return err
	}

	stats := &Stats{
		StartTime: time.Now(),
	}

	logger.Get().Info(ctx, "starting outfit probe",
		logger.String("baseURL", config.BaseURL),
		logger.Int("garments", config.Garments),
		logger.Int("combinations", config.Combinations),
		logger.Int("queries", config.Queries),
		logger.Int("workers", config.Workers),
		logger.String("timeout", config.Timeout.String()),
		logger.Int("topN", config.TopN),
		logger.Any("verbose", config.Verbose))

	client := newHTTPClient(config.BaseURL, config.Timeout)

	// Step 1: Check service health
	if err := checkServiceHealth(ctx, client); err != nil {
		return fmt.Errorf("service health check failed: %w", err)
	}

	// Step 2: Generate catalog
	c, err := GenerateCatalog(ctx, config, stats)
	if err != nil {
		return fmt.Errorf("catalog generation failed: %w", err)
	}

	// Step 3: Upload and confirm the published revision
	if err := uploadCatalog(ctx, client, c, stats); err != nil {
		return fmt.Errorf("catalog upload failed: %w", err)
	}

	// Step 4: Build the local reference index
	local := compat.New(ctx, c, compat.WithLogger(logger.Named("local")))
	if local.Size() != stats.CombinationsIndexed {
		return fmt.Errorf("%w: service indexed %d combinations, local index has %d",
			ErrMismatch, stats.CombinationsIndexed, local.Size())
	}

	// Step 5: Compare rankings
	if err := verifyRanking(ctx, client, local, config.TopN, stats); err != nil {
		return fmt.Errorf("ranking verification failed: %w", err)
	}

	// Step 6: Cross-check compatibility queries
	queries := GenerateQueries(c, config.Queries, config.Seed)
	if err := runQueries(ctx, config, client, local, queries, stats); err != nil {
		return fmt.Errorf("query verification failed: %w", err)
	}

	// Step 7: Save catalog to file
	if err := saveCatalogToFile(ctx, config, c); err != nil {
		logger.Get().Warn(ctx, "failed to save catalog to file", logger.Error(err))
	}

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)

	displayFinalStats(stats)

	logger.Get().Info(ctx, "probe completed successfully")
	return nil
}

// checkServiceHealth verifies the service is running.
func checkServiceHealth(ctx context.Context, client *HTTPClient) error {
	logger.Get().Info(ctx, "checking service health")

	// The health endpoint serves Prometheus metrics, so any 200 is healthy.
	if err := client.Get(ctx, "/healthz", nil); err != nil {
		return fmt.Errorf("failed to reach service: %w", err)
	}

	logger.Get().Info(ctx, "service is healthy")
	return nil
}

// uploadCatalog replaces the service catalog with c and reads back the
// published index size.
func uploadCatalog(ctx context.Context, client *HTTPClient, c *model.Catalog, stats *Stats) error {
	var ack uploadResponse
	if err := client.Put(ctx, "/catalog", c, &ack); err != nil {
		return err
	}

	var st statsResponse
	if err := client.Get(ctx, "/stats", &st); err != nil {
		return err
	}
	if st.Revision != ack.Revision {
		return fmt.Errorf("%w: service serves revision %s, upload published %s", ErrMismatch, st.Revision, ack.Revision)
	}

	stats.Revision = ack.Revision
	stats.CombinationsIndexed = st.Combinations
	logger.Get().Info(ctx, "catalog uploaded",
		logger.String("status", ack.Status),
		logger.String("revision", ack.Revision),
		logger.Int("indexed", st.Combinations))
	return nil
}

// saveCatalogToFile writes the generated catalog as JSON.
func saveCatalogToFile(ctx context.Context, config *Config, c *model.Catalog) error {
	filename := config.OutputFile
	if filename == "" {
		timestamp := time.Now().Format("20060102_150405")
		filename = "generated_catalog_" + timestamp + ".json"
	}

	dir := filepath.Dir(filename)
	if dir != "." {
		if err := os.MkdirAll(dir, directoryPermission); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal catalog: %w", err)
	}
	if err := os.WriteFile(filename, data, filePermission); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}

	logger.Get().Info(ctx, "catalog saved to file", logger.String("filename", filename))
	return nil
}

// displayFinalStats logs the final probe statistics.
func displayFinalStats(stats *Stats) {
	var matchRate, queriesPerSecond float64

	if stats.QueriesSent > 0 {
		matchRate = float64(stats.QueriesMatched) / float64(stats.QueriesSent) * PercentageMultiplier
	}

	if stats.Duration > 0 {
		queriesPerSecond = float64(stats.QueriesSent) / stats.Duration.Seconds()
	}

	logger.Get().Info(context.Background(), "final statistics",
		logger.Int("garmentsGenerated", stats.GarmentsGenerated),
		logger.Int("combinationsGenerated", stats.CombinationsGenerated),
		logger.Int("combinationsIndexed", stats.CombinationsIndexed),
		logger.String("revision", stats.Revision),
		logger.Int("rankingChecked", stats.RankingChecked),
		logger.Int("queriesSent", stats.QueriesSent),
		logger.Int("queriesMatched", stats.QueriesMatched),
		logger.Int("queriesMismatched", stats.QueriesMismatched),
		logger.Int("queriesFailed", stats.QueriesFailed),
		logger.String("duration", stats.Duration.String()),
		logger.Float64("matchRate", matchRate),
		logger.Float64("queriesPerSecond", queriesPerSecond))
}
