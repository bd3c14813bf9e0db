package smoketest

import (
	"context"
	"fmt"
	"time"

	"github.com/okian/pokecalc/internal/domain/model"
	"github.com/okian/pokecalc/pkg/logger"
)

// verifyExample checks GET /example against the known generation 5 numbers.
// Other generations only need a sane range.
func verifyExample(ctx context.Context, config *Config, client *HTTPClient) (model.Record, error) {
	var rec model.Record
	if err := client.getJSON(ctx, config.BaseURL+"/example", &rec); err != nil {
		return rec, fmt.Errorf("example request failed: %w", err)
	}

	res := rec.Result
	if res.Min <= 0 || res.Min > res.Max {
		return rec, fmt.Errorf("example returned an invalid range %d-%d", res.Min, res.Max)
	}
	if res.Generation == 5 && (res.Min != ExampleMin || res.Max != ExampleMax || res.DefenderHP != ExampleHP) {
		return rec, fmt.Errorf("example returned %d-%d vs %d HP, want %d-%d vs %d HP",
			res.Min, res.Max, res.DefenderHP, ExampleMin, ExampleMax, ExampleHP)
	}

	logger.Get().Info(ctx, "example verified", logger.String("description", res.Description))
	return rec, nil
}

// verifyHistory checks that GET /calculations returns records newest first.
func verifyHistory(ctx context.Context, config *Config, client *HTTPClient, stats *Stats) error {
	var list listResponse
	url := fmt.Sprintf("%s/calculations?limit=%d", config.BaseURL, HistoryCheckLimit)
	if err := client.getJSON(ctx, url, &list); err != nil {
		return fmt.Errorf("history request failed: %w", err)
	}
	stats.HistoryRetrieved = len(list.Calculations)

	if err := checkNewestFirst(list.Calculations); err != nil {
		return err
	}
	for _, rec := range list.Calculations {
		if rec.ID == "" {
			return fmt.Errorf("history record without id")
		}
	}

	logger.Get().Info(ctx, "history verified", logger.Int("records", len(list.Calculations)))
	return nil
}

// orderingSlack absorbs concurrent writers that stamp a record and store
// it in separate steps.
const orderingSlack = 100 * time.Millisecond

// checkNewestFirst reports the first pair of records out of order.
func checkNewestFirst(recs []model.Record) error {
	for i := 1; i < len(recs); i++ {
		if recs[i].CreatedAt.Sub(recs[i-1].CreatedAt) > orderingSlack {
			return fmt.Errorf("history not newest first: record %d (%s) is newer than record %d (%s)",
				i, recs[i].ID, i-1, recs[i-1].ID)
		}
	}
	return nil
}
