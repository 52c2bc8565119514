package account

import (
	"github.com/shopspring/decimal"
	"github.com/shunichi-ikebuchi/payview/pkg/ledger"
)

// ChartDateLayout is the x-axis label format.
const ChartDateLayout = "2006-01-02"

// ChartPoint is one point of the transaction chart.
type ChartPoint struct {
	X string          `json:"x" yaml:"x"`
	Y decimal.Decimal `json:"y" yaml:"y"`
}

// ChartSeries maps history to chart points in chronological order.
// The service returns history newest first, so the mapped list is reversed.
func ChartSeries(history []ledger.Transaction) []ChartPoint {
	points := make([]ChartPoint, len(history))
	for i, txn := range history {
		points[len(history)-1-i] = ChartPoint{
			X: txn.Timestamp.Format(ChartDateLayout),
			Y: txn.Amount,
		}
	}
	return points
}
