// Package bunq converts bunq account statement exports into manual income
// records. Only the monthly "bunq Payday" interest payouts are taxable income;
// every other statement line is skipped.
package bunq

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/pit38-assistant/community/internal/csv"
	"github.com/pit38-assistant/community/internal/record"
	"github.com/shopspring/decimal"
)

const (
	Broker = "BUNQ"

	paydayMarker = "bunq Payday"
	dateLayout   = "2006-01-02"

	columnDate        = "Date"
	columnAmount      = "Amount"
	columnDescription = "Description"
)

// Convert returns one INTEREST income record per payday line of data.
// Errors name the input line the failing record starts on.
func Convert(data *csv.CSV) ([]record.Income, error) {
	var out []record.Income
	for i, row := range data.Rows() {
		line := data.Line(i)
		income, ok, err := convertRow(row)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if !ok {
			slog.Debug("skipping non-interest line", "line", line)
			continue
		}
		out = append(out, income)
	}
	return out, nil
}

func convertRow(row csv.Row) (record.Income, bool, error) {
	description, err := row.Get(columnDescription)
	if err != nil {
		return record.Income{}, false, err
	}
	if !strings.Contains(description, paydayMarker) {
		return record.Income{}, false, nil
	}

	rawDate, err := row.Get(columnDate)
	if err != nil {
		return record.Income{}, false, err
	}
	operation, err := time.Parse(dateLayout, rawDate)
	if err != nil {
		return record.Income{}, false, fmt.Errorf("invalid date %q: %w", rawDate, err)
	}
	settlement := record.Date(operation)

	rawAmount, err := row.Get(columnAmount)
	if err != nil {
		return record.Income{}, false, err
	}
	amount, err := ParseAmount(rawAmount)
	if err != nil {
		return record.Income{}, false, err
	}

	// "bunq Payday 2026-01-25 EUR"
	fields := strings.Fields(description)
	currency := fields[len(fields)-1]
	symbol := record.InterestSymbol(currency)

	return record.Income{
		Broker:            Broker,
		TxID:              fmt.Sprintf("%s:%s", symbol, record.FormatDate(settlement)),
		Type:              record.IncomeInterest,
		Symbol:            symbol,
		Currency:          currency,
		GrossAmount:       amount,
		WithholdingAmount: decimal.Zero,
		OperationTime:     operation,
		SettlementDate:    settlement,
	}, true, nil
}

// ParseAmount parses a statement amount, dropping thousands separators.
func ParseAmount(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.ReplaceAll(s, ",", ""))
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	return d, nil
}
