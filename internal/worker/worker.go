package worker

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/pit38-assistant/community/internal/convert"
	"github.com/pit38-assistant/community/internal/csv"
	"github.com/pit38-assistant/community/internal/job"
	"github.com/pit38-assistant/community/internal/report"
)

type Runner interface {
	Convert(ctx context.Context, broker, input string, outputs []string) (*convert.Summary, error)
}

type Result struct {
	Job     *job.Job
	Summary *convert.Summary
	Err     error
}

type Pool struct {
	runner        Runner
	numWorker     int
	rate          int
	humanReadable bool
	out           io.Writer
}

func NewPool(runner Runner, numWorker, rate int, humanReadable bool, out io.Writer) *Pool {
	if numWorker < 1 {
		numWorker = 1
	}
	return &Pool{
		runner:        runner,
		numWorker:     numWorker,
		rate:          rate,
		humanReadable: humanReadable,
		out:           out,
	}
}

// Run converts every job and returns the results ordered by manifest line.
func (p *Pool) Run(ctx context.Context, jobs <-chan *job.Job) []Result {
	ctx1, cancel := context.WithCancel(ctx)
	defer cancel()

	var wg sync.WaitGroup

	var ticker *time.Ticker
	if p.rate > 0 {
		ticker = time.NewTicker(time.Second / time.Duration(p.rate))
		defer ticker.Stop()
	}
	co := make(chan Result, len(jobs))

	for i := 0; i < p.numWorker; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				if ticker != nil {
					select {
					case <-ticker.C:
					case <-ctx1.Done():
					}
				}
				if err := ctx1.Err(); err != nil {
					co <- Result{Job: j, Err: err}
					continue
				}
				summary, err := p.runner.Convert(ctx1, j.Broker, j.Input, j.Outputs)
				if err != nil {
					slog.Error("conversion failed", "line", j.Line, "input", j.Input, "error", err)
				} else {
					slog.Debug("conversion done", "line", j.Line, "input", j.Input)
				}
				co <- Result{Job: j, Summary: summary, Err: err}
			}
		}()
	}
	go func() {
		wg.Wait()
		close(co)
	}()

	var results []Result
	for r := range co {
		results = append(results, r)
	}
	sort.Slice(results, func(a, b int) bool {
		return results[a].Job.Line < results[b].Job.Line
	})

	if p.humanReadable {
		if err := report.Render(p.out, summaryTable(results)); err != nil {
			slog.Error(fmt.Sprintf("failed to render summary: %v", err))
		}
	}
	return results
}

func summaryTable(results []Result) *csv.CSV {
	data := &csv.CSV{Header: []string{"Line", "Broker", "Input", "Trades", "Income", "Error"}}
	for _, r := range results {
		trades, income, errText := "", "", ""
		if r.Summary != nil {
			trades = strconv.Itoa(len(r.Summary.Trades))
			income = strconv.Itoa(len(r.Summary.Income))
		}
		if r.Err != nil {
			errText = r.Err.Error()
		}
		data.Body = append(data.Body, []string{
			strconv.Itoa(r.Job.Line),
			r.Job.Broker,
			r.Job.Input,
			trades,
			income,
			errText,
		})
	}
	return data
}
