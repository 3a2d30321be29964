package staticmap

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/planbiir/tripframes/internal/monitoring"
	"github.com/planbiir/tripframes/internal/output"
	"github.com/schollz/progressbar/v3"
)

// Fetcher downloads map images with a bounded number of workers.
type Fetcher struct {
	Client  *http.Client
	Workers int
	// Progress receives a progress bar when non-nil.
	Progress io.Writer
}

// NewFetcher returns a Fetcher with a 30s client timeout.
func NewFetcher(workers int) *Fetcher {
	return &Fetcher{
		Client:  &http.Client{Timeout: 30 * time.Second},
		Workers: workers,
	}
}

// FetchError reports a failed download for a single frame.
type FetchError struct {
	Frame  int
	Status int
	Err    error
}

func (e *FetchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("frame %d: %v", e.Frame, e.Err)
	}
	return fmt.Sprintf("frame %d: unexpected status %d", e.Frame, e.Status)
}

func (e *FetchError) Unwrap() error { return e.Err }

// FetchAll downloads every request and hands the body to sink. All requests
// are attempted; failures are joined in frame order.
func (f *Fetcher) FetchAll(ctx context.Context, reqs []Request, sink output.Sink) error {
	workers := f.Workers
	if workers <= 0 {
		workers = 4
	}
	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}

	var bar *progressbar.ProgressBar
	if f.Progress != nil {
		bar = progressbar.NewOptions(len(reqs),
			progressbar.OptionSetWriter(f.Progress),
			progressbar.OptionSetDescription("Downloading maps"),
			progressbar.OptionShowCount(),
		)
	}

	tasks := make(chan Request)
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs []*FetchError
	)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for req := range tasks {
				if err := fetchOne(ctx, client, req, sink); err != nil {
					mu.Lock()
					errs = append(errs, err)
					mu.Unlock()
				}
				if bar != nil {
					_ = bar.Add(1)
				}
			}
		}()
	}

feed:
	for _, req := range reqs {
		select {
		case <-ctx.Done():
			break feed
		case tasks <- req:
		}
	}
	close(tasks)
	wg.Wait()

	if bar != nil {
		_ = bar.Finish()
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if len(errs) == 0 {
		return nil
	}

	sort.Slice(errs, func(i, j int) bool { return errs[i].Frame < errs[j].Frame })
	joined := make([]error, len(errs))
	for i, e := range errs {
		joined[i] = e
	}
	monitoring.Logf("map download: %d of %d frames failed", len(errs), len(reqs))
	return errors.Join(joined...)
}

func fetchOne(ctx context.Context, client *http.Client, req Request, sink output.Sink) *FetchError {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, req.URL, nil)
	if err != nil {
		return &FetchError{Frame: req.Frame, Err: err}
	}
	resp, err := client.Do(httpReq)
	if err != nil {
		return &FetchError{Frame: req.Frame, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return &FetchError{Frame: req.Frame, Status: resp.StatusCode}
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return &FetchError{Frame: req.Frame, Err: fmt.Errorf("read body: %w", err)}
	}
	if err := sink.Write(req.Frame, data); err != nil {
		return &FetchError{Frame: req.Frame, Err: err}
	}
	return nil
}
