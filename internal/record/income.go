package record

import (
	"time"

	"github.com/pit38-assistant/community/internal/csv"
	"github.com/shopspring/decimal"
)

type IncomeType string

const (
	IncomeInterest IncomeType = "INTEREST"
	IncomeDividend IncomeType = "DIVIDEND"
)

var IncomeHeader = []string{
	"broker",
	"tx_id",
	"income_type",
	"symbol",
	"currency",
	"gross_amount",
	"wht_amount",
	"operation_datetime",
	"settlement_date",
}

// Income is one interest or dividend payment.
type Income struct {
	Broker            string
	TxID              string
	Type              IncomeType
	Symbol            string
	Currency          string
	GrossAmount       decimal.Decimal
	WithholdingAmount decimal.Decimal
	OperationTime     time.Time
	SettlementDate    time.Time
}

// InterestSymbol is the pseudo-symbol interest on cash is booked under.
func InterestSymbol(currency string) string {
	return currency + "-INT"
}

func (i Income) Row() []string {
	return []string{
		i.Broker,
		i.TxID,
		string(i.Type),
		i.Symbol,
		i.Currency,
		FormatDecimal(i.GrossAmount),
		FormatDecimal(i.WithholdingAmount),
		FormatDateTime(i.OperationTime),
		FormatDate(i.SettlementDate),
	}
}

func IncomeCSV(rows []Income) *csv.CSV {
	body := make([][]string, 0, len(rows))
	for _, r := range rows {
		body = append(body, r.Row())
	}
	return &csv.CSV{Header: IncomeHeader, Body: body}
}
