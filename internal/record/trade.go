package record

import (
	"time"

	"github.com/pit38-assistant/community/internal/csv"
	"github.com/shopspring/decimal"
)

type Direction string

const (
	Buy  Direction = "BUY"
	Sell Direction = "SELL"
)

var TradeHeader = []string{
	"broker",
	"tx_id",
	"direction",
	"symbol",
	"isin",
	"country",
	"currency",
	"price",
	"quantity",
	"amount",
	"commission",
	"operation_datetime",
	"settlement_date",
}

// Trade is one executed market order. Amount is the gross value before
// commission, in the settlement currency.
type Trade struct {
	Broker         string
	TxID           string
	Direction      Direction
	Symbol         string
	ISIN           string
	Country        string
	Currency       string
	Price          decimal.Decimal
	Quantity       decimal.Decimal
	Amount         decimal.Decimal
	Commission     decimal.Decimal
	OperationTime  time.Time
	SettlementDate time.Time
}

func (t Trade) Row() []string {
	return []string{
		t.Broker,
		t.TxID,
		string(t.Direction),
		t.Symbol,
		t.ISIN,
		t.Country,
		t.Currency,
		FormatDecimal(t.Price),
		FormatDecimal(t.Quantity),
		FormatDecimal(t.Amount),
		FormatDecimal(t.Commission),
		FormatDateTime(t.OperationTime),
		FormatDate(t.SettlementDate),
	}
}

func TradeCSV(rows []Trade) *csv.CSV {
	body := make([][]string, 0, len(rows))
	for _, r := range rows {
		body = append(body, r.Row())
	}
	return &csv.CSV{Header: TradeHeader, Body: body}
}
