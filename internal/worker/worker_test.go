package worker

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/pit38-assistant/community/internal/convert"
	"github.com/pit38-assistant/community/internal/job"
	"github.com/pit38-assistant/community/internal/record"
)

type mockRunner struct {
	convertFunc func(broker, input string, outputs []string) (*convert.Summary, error)
}

func (m *mockRunner) Convert(_ context.Context, broker, input string, outputs []string) (*convert.Summary, error) {
	return m.convertFunc(broker, input, outputs)
}

func jobChan(n int) <-chan *job.Job {
	jobs := make(chan *job.Job, n)
	for i := 0; i < n; i++ {
		jobs <- &job.Job{Line: i + 2, Broker: "bunq", Input: "in.csv", Outputs: []string{"out.csv"}}
	}
	close(jobs)
	return jobs
}

func TestWorker(t *testing.T) {
	var count int32
	mockClient := &mockRunner{
		convertFunc: func(broker, input string, outputs []string) (*convert.Summary, error) {
			atomic.AddInt32(&count, 1)
			return &convert.Summary{Broker: broker, Input: input, Income: []record.Income{{}}}, nil
		},
	}

	pool := NewPool(mockClient, 2, 0, false, nil)
	results := pool.Run(context.Background(), jobChan(5))

	if count != 5 {
		t.Errorf("expected 5 jobs to be processed, but got %d", count)
	}
	if len(results) != 5 {
		t.Fatalf("expected 5 results, but got %d", len(results))
	}
	for i, r := range results {
		if r.Job.Line != i+2 {
			t.Errorf("expected result %d to be line %d, but got %d", i, i+2, r.Job.Line)
		}
	}
}

func TestWorker_WithRateLimit(t *testing.T) {
	var count int32
	mockClient := &mockRunner{
		convertFunc: func(broker, input string, outputs []string) (*convert.Summary, error) {
			atomic.AddInt32(&count, 1)
			return &convert.Summary{}, nil
		},
	}

	// limit to 2 jobs per second
	pool := NewPool(mockClient, 1, 2, false, nil)

	start := time.Now()
	pool.Run(context.Background(), jobChan(5))
	duration := time.Since(start)

	if count != 5 {
		t.Errorf("expected 5 jobs to be processed, but got %d", count)
	}
	// 5 jobs at 2/sec need at least 2 seconds
	if duration < 2*time.Second {
		t.Errorf("expected duration to be at least 2s, but got %v", duration)
	}
}

func TestWorker_ErrorsAndSummary(t *testing.T) {
	mockClient := &mockRunner{
		convertFunc: func(broker, input string, outputs []string) (*convert.Summary, error) {
			if input == "bad.csv" {
				return nil, errors.New("line 3: invalid amount")
			}
			return &convert.Summary{Income: []record.Income{{}, {}}}, nil
		},
	}

	jobs := make(chan *job.Job, 2)
	jobs <- &job.Job{Line: 3, Broker: "bunq", Input: "bad.csv"}
	jobs <- &job.Job{Line: 2, Broker: "bunq", Input: "good.csv"}
	close(jobs)

	var out bytes.Buffer
	results := NewPool(mockClient, 2, 0, true, &out).Run(context.Background(), jobs)

	if results[0].Err != nil || results[1].Err == nil {
		t.Errorf("unexpected errors: %v, %v", results[0].Err, results[1].Err)
	}
	for _, want := range []string{"good.csv", "bad.csv", "invalid amount"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("expected summary to contain %q, but got:\n%s", want, out.String())
		}
	}
}

func TestWorker_Cancelled(t *testing.T) {
	var count int32
	mockClient := &mockRunner{
		convertFunc: func(broker, input string, outputs []string) (*convert.Summary, error) {
			atomic.AddInt32(&count, 1)
			return &convert.Summary{}, nil
		},
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	results := NewPool(mockClient, 2, 0, false, nil).Run(ctx, jobChan(3))

	if count != 0 {
		t.Errorf("expected no conversions, but got %d", count)
	}
	for _, r := range results {
		if !errors.Is(r.Err, context.Canceled) {
			t.Errorf("expected context.Canceled, but got %v", r.Err)
		}
	}
}
