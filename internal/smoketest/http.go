package smoketest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/pokecalc/internal/domain/model"
	"github.com/okian/pokecalc/pkg/logger"
)

// HTTPClient wraps http.Client with timeout
type HTTPClient struct {
	client *http.Client
}

// newHTTPClient creates a new HTTP client with timeout
func newHTTPClient(timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		client: &http.Client{Timeout: timeout},
	}
}

// Get performs a GET request
func (c *HTTPClient) Get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	return c.client.Do(req)
}

// Post performs a POST request with JSON body
func (c *HTTPClient) Post(ctx context.Context, url string, body interface{}) (*http.Response, error) {
	jsonData, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	return c.client.Do(req)
}

// getJSON fetches url and decodes a 200 response into v.
func (c *HTTPClient) getJSON(ctx context.Context, url string, v interface{}) error {
	resp, err := c.Get(ctx, url)
	if err != nil {
		return err
	}
	body, err := readResponseBody(resp)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != StatusOK {
		return fmt.Errorf("GET %s: status %d: %s", url, resp.StatusCode, bytes.TrimSpace(body))
	}
	return json.Unmarshal(body, v)
}

// readResponseBody reads and closes the response body
func readResponseBody(resp *http.Response) ([]byte, error) {
	defer resp.Body.Close()
	return io.ReadAll(resp.Body)
}

type outcome int

const (
	outcomeSucceeded outcome = iota
	outcomeRejected
	outcomeFailed
)

// submitRequests sends the matchups with a pool of submitters. Each unit
// of work is either one request or one batch, depending on BatchSize.
func submitRequests(ctx context.Context, config *Config, reqs []model.Request, stats *Stats) error {
	log := logger.Get()
	log.Info(ctx, "submitting matchups",
		logger.Int("requests", len(reqs)),
		logger.Int("batchSize", config.BatchSize),
		logger.Int("workers", config.Workers))

	client := newHTTPClient(config.Timeout)

	var submitted, succeeded, rejected, failed atomic.Int64

	chunks := chunk(reqs, config.BatchSize)
	work := make(chan []model.Request, config.Workers*WorkerChannelMultiplier)
	var wg sync.WaitGroup

	for i := 0; i < config.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for part := range work {
				if ctx.Err() != nil {
					return
				}
				var results []outcome
				if config.BatchSize > 0 {
					results = submitBatch(ctx, client, config.BaseURL, part)
				} else {
					results = []outcome{submitSingle(ctx, client, config.BaseURL, part[0])}
				}
				submitted.Add(int64(len(part)))
				for _, o := range results {
					switch o {
					case outcomeSucceeded:
						succeeded.Add(1)
					case outcomeRejected:
						rejected.Add(1)
					default:
						failed.Add(1)
					}
				}
				if config.Verbose {
					log.Debug(ctx, "progress",
						logger.Int("submitted", int(submitted.Load())),
						logger.Int("total", len(reqs)))
				}
			}
		}()
	}

	go func() {
		defer close(work)
		for _, part := range chunks {
			select {
			case <-ctx.Done():
				return
			case work <- part:
			}
		}
	}()

	wg.Wait()

	stats.RequestsSubmitted = int(submitted.Load())
	stats.Succeeded = int(succeeded.Load())
	stats.Rejected = int(rejected.Load())
	stats.Failed = int(failed.Load())

	log.Info(ctx, "submission completed",
		logger.Int("succeeded", stats.Succeeded),
		logger.Int("rejected", stats.Rejected),
		logger.Int("failed", stats.Failed))

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("submission interrupted: %w", err)
	}
	return nil
}

// chunk splits reqs into groups of size n; n <= 0 yields one request per group.
func chunk(reqs []model.Request, n int) [][]model.Request {
	if n <= 0 {
		n = 1
	}
	out := make([][]model.Request, 0, (len(reqs)+n-1)/n)
	for start := 0; start < len(reqs); start += n {
		out = append(out, reqs[start:min(start+n, len(reqs))])
	}
	return out
}

func classifyStatus(code int) outcome {
	switch {
	case code == StatusOK:
		return outcomeSucceeded
	case code >= 400 && code < 500:
		return outcomeRejected
	default:
		return outcomeFailed
	}
}

func submitSingle(ctx context.Context, client *HTTPClient, baseURL string, req model.Request) outcome {
	resp, err := client.Post(ctx, baseURL+"/calculate", req)
	if err != nil {
		return outcomeFailed
	}
	if _, err := readResponseBody(resp); err != nil {
		return outcomeFailed
	}
	return classifyStatus(resp.StatusCode)
}

// submitBatch returns one outcome per request. A rejected batch counts
// every request in it.
func submitBatch(ctx context.Context, client *HTTPClient, baseURL string, reqs []model.Request) []outcome {
	fill := func(o outcome) []outcome {
		out := make([]outcome, len(reqs))
		for i := range out {
			out[i] = o
		}
		return out
	}

	resp, err := client.Post(ctx, baseURL+"/calculate/batch", batchRequest{Requests: reqs})
	if err != nil {
		return fill(outcomeFailed)
	}
	body, err := readResponseBody(resp)
	if err != nil {
		return fill(outcomeFailed)
	}
	if resp.StatusCode != StatusOK {
		return fill(classifyStatus(resp.StatusCode))
	}

	var br batchResponse
	if err := json.Unmarshal(body, &br); err != nil || len(br.Items) != len(reqs) {
		return fill(outcomeFailed)
	}
	out := make([]outcome, len(reqs))
	for i, item := range br.Items {
		out[i] = classifyItem(item)
	}
	return out
}

// classifyItem counts only bad input as rejected; timeouts and calculator
// faults inside a batch are failures.
func classifyItem(item model.BatchItem) outcome {
	switch {
	case item.Record != nil:
		return outcomeSucceeded
	case item.Invalid:
		return outcomeRejected
	default:
		return outcomeFailed
	}
}
