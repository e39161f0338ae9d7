package testpreds

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
)

// HTTPClient wraps http.Client with a per-request timeout.
type HTTPClient struct {
	client *http.Client
}

func newHTTPClient(timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		client: &http.Client{Timeout: timeout},
	}
}

// Get performs a GET request.
func (c *HTTPClient) Get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	return c.client.Do(req)
}

// Post performs a POST request with a JSON body.
func (c *HTTPClient) Post(ctx context.Context, url string, body any) (*http.Response, error) {
	return c.send(ctx, http.MethodPost, url, body)
}

func (c *HTTPClient) send(ctx context.Context, method, url string, body any) (*http.Response, error) {
	jsonData, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal request body: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.client.Do(req)
}

func readResponseBody(resp *http.Response) ([]byte, error) {
	defer resp.Body.Close()
	return io.ReadAll(resp.Body)
}

// submitPredictions posts records concurrently and records the assigned ids
// back on the predictions.
func submitPredictions(ctx context.Context, config *Config, preds []Prediction, stats *Stats) error {
	client := newHTTPClient(config.Timeout)
	url := config.BaseURL + "/records"

	var successful, duplicate, failed, submitted int64

	type job struct{ index int }
	jobs := make(chan job, config.Workers*2)
	var wg sync.WaitGroup

	for w := 0; w < config.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				select {
				case <-ctx.Done():
					return
				default:
				}
				atomic.AddInt64(&submitted, 1)
				switch submitSingle(ctx, client, url, &preds[j.index]) {
				case "success":
					atomic.AddInt64(&successful, 1)
				case "duplicate":
					atomic.AddInt64(&duplicate, 1)
				default:
					atomic.AddInt64(&failed, 1)
				}
			}
		}()
	}

	go func() {
		defer close(jobs)
		for i := range preds {
			select {
			case <-ctx.Done():
				return
			case jobs <- job{index: i}:
			}
		}
	}()

	wg.Wait()

	stats.RecordsSubmitted = int(atomic.LoadInt64(&submitted))
	stats.RecordsSuccessful = int(atomic.LoadInt64(&successful))
	stats.RecordsDuplicate = int(atomic.LoadInt64(&duplicate))
	stats.RecordsFailed = int(atomic.LoadInt64(&failed))
	return nil
}

// submitSingle submits one prediction and returns the outcome class.
func submitSingle(ctx context.Context, client *HTTPClient, url string, pred *Prediction) string {
	resp, err := client.Post(ctx, url, pred)
	if err != nil {
		return "failed"
	}
	body, err := readResponseBody(resp)
	if err != nil {
		return "failed"
	}

	switch resp.StatusCode {
	case http.StatusCreated:
		var rec Record
		if err := json.Unmarshal(body, &rec); err != nil {
			return "failed"
		}
		pred.RecordID = rec.ID
		return "success"
	case http.StatusOK:
		return "duplicate"
	default:
		return "failed"
	}
}

// revealPredictions reveals every submitted record against a synthetic
// actual value once the target time has passed.
func revealPredictions(ctx context.Context, config *Config, preds []Prediction, stats *Stats) error {
	client := newHTTPClient(config.Timeout)

	var revealed int64
	var wg sync.WaitGroup
	jobs := make(chan int, config.Workers*2)

	for w := 0; w < config.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				url := fmt.Sprintf("%s/records/%d/reveal", config.BaseURL, preds[i].RecordID)
				resp, err := client.Post(ctx, url, map[string]int64{"actual_value": int64(i)})
				if err != nil {
					continue
				}
				_, _ = readResponseBody(resp)
				if resp.StatusCode == http.StatusOK {
					atomic.AddInt64(&revealed, 1)
				}
			}
		}()
	}

	go func() {
		defer close(jobs)
		for i := range preds {
			select {
			case <-ctx.Done():
				return
			case jobs <- i:
			}
		}
	}()

	wg.Wait()
	stats.RecordsRevealed = int(atomic.LoadInt64(&revealed))
	return nil
}
