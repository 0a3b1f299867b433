// Package convert wires storage, parsing and the broker converters together.
package convert

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/pit38-assistant/community/internal/bunq"
	"github.com/pit38-assistant/community/internal/csv"
	"github.com/pit38-assistant/community/internal/record"
	"github.com/pit38-assistant/community/internal/trading212"
	"github.com/pit38-assistant/community/internal/xlsx"
)

type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

const (
	BrokerBunq       = "bunq"
	BrokerTrading212 = "trading212"
)

var (
	ErrUnknownBroker = errors.New("unknown broker")
	ErrUnknownFormat = errors.New("unknown output format")
	ErrOutputCount   = errors.New("wrong number of outputs")
)

func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatCSV, FormatXLSX:
		return f, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}
}

// Storage opens inputs and creates outputs by path.
type Storage interface {
	Open(ctx context.Context, path string) (io.ReadCloser, error)
	Create(ctx context.Context, path string) (io.WriteCloser, error)
}

type Service struct {
	store  Storage
	format Format
	comma  rune
}

func NewService(store Storage, format Format, comma rune) *Service {
	return &Service{
		store:  store,
		format: format,
		comma:  comma,
	}
}

// Summary describes a finished conversion.
type Summary struct {
	Broker  string
	Input   string
	Outputs []string
	Trades  []record.Trade
	Income  []record.Income
}

// Bunq converts a bunq statement into an income file.
func (s *Service) Bunq(ctx context.Context, input, output string) (*Summary, error) {
	data, err := s.read(ctx, input)
	if err != nil {
		return nil, err
	}
	income, err := bunq.Convert(data)
	if err != nil {
		return nil, fmt.Errorf("failed to convert %s: %w", input, err)
	}
	if err := s.write(ctx, output, "income", record.IncomeCSV(income)); err != nil {
		return nil, err
	}
	return &Summary{
		Broker:  BrokerBunq,
		Input:   input,
		Outputs: []string{output},
		Income:  income,
	}, nil
}

// Trading212 converts a Trading 212 history export into a trades file and an
// income file.
func (s *Service) Trading212(ctx context.Context, input, tradesOutput, incomeOutput string) (*Summary, error) {
	data, err := s.read(ctx, input)
	if err != nil {
		return nil, err
	}
	res, err := trading212.Convert(data)
	if err != nil {
		return nil, fmt.Errorf("failed to convert %s: %w", input, err)
	}
	if err := s.write(ctx, tradesOutput, "trades", record.TradeCSV(res.Trades)); err != nil {
		return nil, err
	}
	if err := s.write(ctx, incomeOutput, "income", record.IncomeCSV(res.Income)); err != nil {
		return nil, err
	}
	return &Summary{
		Broker:  BrokerTrading212,
		Input:   input,
		Outputs: []string{tradesOutput, incomeOutput},
		Trades:  res.Trades,
		Income:  res.Income,
	}, nil
}

// Convert dispatches on broker. outputs must match the broker's arity: one
// income file for bunq, trades then income for trading212.
func (s *Service) Convert(ctx context.Context, broker, input string, outputs []string) (*Summary, error) {
	switch strings.ToLower(broker) {
	case BrokerBunq:
		if len(outputs) != 1 {
			return nil, fmt.Errorf("%w: bunq takes 1, got %d", ErrOutputCount, len(outputs))
		}
		return s.Bunq(ctx, input, outputs[0])
	case BrokerTrading212, "t212":
		if len(outputs) != 2 {
			return nil, fmt.Errorf("%w: trading212 takes 2, got %d", ErrOutputCount, len(outputs))
		}
		return s.Trading212(ctx, input, outputs[0], outputs[1])
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBroker, broker)
	}
}

func (s *Service) read(ctx context.Context, input string) (*csv.CSV, error) {
	r, err := s.store.Open(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", input, err)
	}
	defer func() { _ = r.Close() }()

	data, err := csv.Load(r, csv.WithComma(s.comma))
	if err != nil {
		return nil, fmt.Errorf("failed to read csv %s: %w", input, err)
	}
	slog.Debug("input loaded", "path", input, "rows", len(data.Body))
	return data, nil
}

// write creates output even when data has no rows. An empty CSV output is a
// zero-byte file; xlsx always gets a header row.
func (s *Service) write(ctx context.Context, output, sheet string, data *csv.CSV) (err error) {
	w, err := s.store.Create(ctx, output)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", output, err)
	}
	defer func() {
		if cerr := w.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close %s: %w", output, cerr)
		}
	}()

	switch s.format {
	case FormatXLSX:
		err = xlsx.Write(w, sheet, data)
	default:
		if len(data.Body) == 0 {
			return nil
		}
		err = csv.Write(w, data)
	}
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", output, err)
	}
	slog.Debug("output written", "path", output, "rows", len(data.Body))
	return nil
}
