package smoketest

import (
	"context"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/aukilabs/go-tooling/pkg/logs"
	"github.com/segmentio/encoding/json"
)

const (
	StatusSuccess = "success"
	StatusFailed  = "failed"
)

// Check is a named self check returning an error when the property it
// verifies does not hold.
type Check struct {
	Name string
	Run  func() error
}

type CheckResult struct {
	Name            string  `json:"name"`
	Status          string  `json:"status"`
	Error           string  `json:"error,omitempty"`
	LatencyMilliSec float64 `json:"latency_ms"`
}

type SmokeTestResults struct {
	Status    string        `json:"status"`
	StartedAt time.Time     `json:"started_at"`
	Checks    []CheckResult `json:"checks"`
}

// Passed reports whether every check succeeded.
func (r SmokeTestResults) Passed() bool {
	return r.Status == StatusSuccess
}

// SmokeTestRequest selects the checks to run. No names means every check.
type SmokeTestRequest struct {
	Checks []string `json:"checks,omitempty"`
}

// Run runs the given checks in order. A panicking check fails without
// stopping the others.
func Run(ctx context.Context, checks []Check) SmokeTestResults {
	res := SmokeTestResults{
		Status:    StatusSuccess,
		StartedAt: time.Now(),
	}

	for _, c := range checks {
		if ctx.Err() != nil {
			res.Status = StatusFailed
			res.Checks = append(res.Checks, CheckResult{
				Name:   c.Name,
				Status: StatusFailed,
				Error:  ctx.Err().Error(),
			})
			continue
		}

		start := time.Now()
		err := runCheck(c)
		r := CheckResult{
			Name:            c.Name,
			Status:          StatusSuccess,
			LatencyMilliSec: float64(time.Since(start)) / float64(time.Millisecond),
		}
		if err != nil {
			r.Status = StatusFailed
			r.Error = err.Error()
			res.Status = StatusFailed
			logs.WithTag("check", c.Name).Warn(err)
		}
		res.Checks = append(res.Checks, r)
	}

	logs.WithTag("status", res.Status).
		WithTag("checks", len(res.Checks)).
		Info("smoke test done")
	return res
}

func runCheck(c Check) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Newf("check panicked: %v", r)
		}
	}()
	return c.Run()
}

// Select returns the checks with the given names. No names returns all of
// them.
func Select(checks []Check, names []string) ([]Check, error) {
	if len(names) == 0 {
		return checks, nil
	}

	byName := make(map[string]Check, len(checks))
	for _, c := range checks {
		byName[c.Name] = c
	}

	selected := make([]Check, 0, len(names))
	for _, n := range names {
		c, ok := byName[n]
		if !ok {
			return nil, errors.New("unknown check").WithTag("name", n)
		}
		selected = append(selected, c)
	}
	return selected, nil
}

type Options struct {
	Checks     []Check
	SendResult func(context.Context, SmokeTestResults) error
}

type testCtxKey string

var testCtxKeyValue testCtxKey = "test-context"

type testContext struct {
	context.Context
	Cancel func()
}

// HandleSmokeTest starts the requested checks in the background and reports
// their results with opts.SendResult.
func HandleSmokeTest(ctx context.Context, opts Options) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		b, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, errors.New("reading body failed").Wrap(err).Error(), http.StatusInternalServerError)
			return
		}

		var req SmokeTestRequest
		if len(b) != 0 {
			if err := json.Unmarshal(b, &req); err != nil {
				http.Error(w, "bad request", http.StatusBadRequest)
				return
			}
		}

		checks, err := Select(opts.Checks, req.Checks)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		go func() {
			defer func() {
				// if context is of testContext
				// cancel context on exit to signal function exited
				// this is used for testing
				if tctx := ctx.Value(testCtxKeyValue); tctx != nil {
					testCtx := tctx.(testContext)
					if testCtx.Cancel != nil {
						testCtx.Cancel()
					}
				}
			}()

			res := Run(ctx, checks)
			if err := opts.SendResult(ctx, res); err != nil {
				logs.Warn(errors.New("sending smoke test result failed").Wrap(err))
			}
		}()

		w.WriteHeader(http.StatusOK)
	}
}

// Status keeps the last smoke test results.
type Status struct {
	mutex sync.RWMutex
	last  *SmokeTestResults
}

// Store records results. Its signature matches Options.SendResult.
func (s *Status) Store(_ context.Context, res SmokeTestResults) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.last = &res
	return nil
}

// Passed reports whether the last smoke test passed.
func (s *Status) Passed() bool {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	return s.last != nil && s.last.Passed()
}

// ServeHTTP writes the last results as JSON.
func (s *Status) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mutex.RLock()
	last := s.last
	s.mutex.RUnlock()

	if last == nil {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	b, err := json.Marshal(last)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(b)
}
