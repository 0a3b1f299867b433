// Package trading212 converts Trading 212 history exports into manual trade
// and income records.
package trading212

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/pit38-assistant/community/internal/csv"
	"github.com/pit38-assistant/community/internal/record"
	"github.com/shopspring/decimal"
)

const Broker = "T212"

// Fractional seconds are accepted by time.Parse even though the layout omits them.
const timeLayout = "2006-01-02 15:04:05"

// significantDigits matches the default context precision of decimal
// arithmetic in the broker's own tooling.
const significantDigits = 28

// workingScale bounds the intermediate quotient before it is cut to
// significantDigits.
const workingScale = 64

const (
	actionMarketBuy      = "Market buy"
	actionMarketSell     = "Market sell"
	actionInterest       = "Interest on cash"
	actionDividendPrefix = "Dividend"
)

var ErrZeroExchangeRate = errors.New("exchange rate is zero")

type Result struct {
	Trades []record.Trade
	Income []record.Income
}

// Convert splits data into trades and income. Actions other than market
// orders, cash interest and dividends are skipped.
func Convert(data *csv.CSV) (*Result, error) {
	res := &Result{}
	for i, row := range data.Rows() {
		line := data.Line(i)
		action, err := row.Get("Action")
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		switch {
		case action == actionMarketBuy || action == actionMarketSell:
			trade, err := convertTrade(row, action)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", line, err)
			}
			res.Trades = append(res.Trades, trade)
		case action == actionInterest:
			income, err := convertInterest(row)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", line, err)
			}
			res.Income = append(res.Income, income)
		case strings.HasPrefix(action, actionDividendPrefix):
			income, err := convertDividend(row)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", line, err)
			}
			res.Income = append(res.Income, income)
		default:
			slog.Debug("skipping action", "line", line, "action", action)
		}
	}
	return res, nil
}

func convertTrade(row csv.Row, action string) (record.Trade, error) {
	direction := record.Buy
	if action == actionMarketSell {
		direction = record.Sell
	}

	var (
		p     = parser{row: row}
		isin  = p.text("ISIN")
		sym   = p.text("Ticker")
		id    = p.text("ID")
		at    = p.time("Time")
		qty   = p.decimal("No. of shares")
		price = p.decimal("Price / share")
		total = p.decimal("Total")
		cur   = p.text("Currency (Total)")
		rate  = p.decimal("Exchange rate")
		fee   = p.optionalDecimal("Currency conversion fee")
	)
	if p.err != nil {
		return record.Trade{}, p.err
	}
	if rate.IsZero() {
		return record.Trade{}, ErrZeroExchangeRate
	}

	amount := total.Sub(fee)
	if direction == record.Sell {
		amount = total.Add(fee)
	}

	var country string
	if len(isin) >= 2 {
		country = isin[:2]
	}

	return record.Trade{
		Broker:         Broker,
		TxID:           id,
		Direction:      direction,
		Symbol:         sym,
		ISIN:           isin,
		Country:        country,
		Currency:       cur,
		Price:          divide(price, rate),
		Quantity:       qty,
		Amount:         amount,
		Commission:     fee,
		OperationTime:  at,
		SettlementDate: record.Date(at),
	}, nil
}

func convertInterest(row csv.Row) (record.Income, error) {
	var (
		p     = parser{row: row}
		at    = p.time("Time")
		gross = p.decimal("Total")
		cur   = p.text("Currency (Total)")
		id    = p.text("ID")
	)
	if p.err != nil {
		return record.Income{}, p.err
	}

	return record.Income{
		Broker:            Broker,
		TxID:              id,
		Type:              record.IncomeInterest,
		Symbol:            record.InterestSymbol(cur),
		Currency:          cur,
		GrossAmount:       gross,
		WithholdingAmount: decimal.Zero,
		OperationTime:     at,
		SettlementDate:    record.Date(at),
	}, nil
}

func convertDividend(row csv.Row) (record.Income, error) {
	var (
		p       = parser{row: row}
		at      = p.time("Time")
		sym     = p.text("Ticker")
		id      = p.text("ID")
		gross   = p.decimal("Total")
		cur     = p.text("Currency (Total)")
		rawRate = p.text("Exchange rate")
		wht     = p.optionalDecimal("Withholding tax")
		whtCur  = row.Lookup("Currency (Withholding tax)")
	)
	if p.err != nil {
		return record.Income{}, p.err
	}

	// Withholding tax is reported in the instrument currency.
	if row.Lookup("Withholding tax") != "" && whtCur != "" && whtCur != cur {
		rate, err := decimal.NewFromString(rawRate)
		if err != nil {
			return record.Income{}, fmt.Errorf("invalid Exchange rate %q: %w", rawRate, err)
		}
		wht = wht.Mul(rate)
	}

	return record.Income{
		Broker:            Broker,
		TxID:              id,
		Type:              record.IncomeDividend,
		Symbol:            sym,
		Currency:          cur,
		GrossAmount:       gross,
		WithholdingAmount: wht,
		OperationTime:     at,
		SettlementDate:    record.Date(at),
	}, nil
}

// parser reads typed columns from a row and keeps the first error.
type parser struct {
	row csv.Row
	err error
}

func (p *parser) text(column string) string {
	if p.err != nil {
		return ""
	}
	v, err := p.row.Get(column)
	if err != nil {
		p.err = err
	}
	return v
}

func (p *parser) decimal(column string) decimal.Decimal {
	s := p.text(column)
	if p.err != nil {
		return decimal.Decimal{}
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		p.err = fmt.Errorf("invalid %s %q: %w", column, s, err)
	}
	return d
}

// optionalDecimal treats an absent or empty column as zero.
func (p *parser) optionalDecimal(column string) decimal.Decimal {
	if p.err != nil {
		return decimal.Decimal{}
	}
	s := p.row.Lookup(column)
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		p.err = fmt.Errorf("invalid %s %q: %w", column, s, err)
	}
	return d
}

func (p *parser) time(column string) time.Time {
	s := p.text(column)
	if p.err != nil {
		return time.Time{}
	}
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		p.err = fmt.Errorf("invalid %s %q: %w", column, s, err)
	}
	return t
}

// divide returns a/b. An exact quotient keeps the scale of a minus the scale
// of b (361.00/2 = 180.50); an inexact one is rounded half-even to
// significantDigits significant digits.
func divide(a, b decimal.Decimal) decimal.Decimal {
	q := a.DivRound(b, workingScale)
	if q.Mul(b).Equal(a) {
		n := record.Normalize(q)
		if ideal := a.Exponent() - b.Exponent(); ideal < 0 && n.Exponent() > ideal {
			return n.Round(-ideal)
		}
		return n
	}

	// places after the point that leave significantDigits significant digits
	places := int32(significantDigits)
	abs := q.Abs()
	one := decimal.NewFromInt(1)
	if abs.GreaterThanOrEqual(one) {
		places -= int32(len(abs.Truncate(0).String()))
	} else {
		ten := decimal.NewFromInt(10)
		for abs.Mul(ten).LessThan(one) {
			abs = abs.Mul(ten)
			places++
		}
	}
	return q.RoundBank(places)
}
