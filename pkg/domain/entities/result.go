package entities

import (
	"time"

	"github.com/shopspring/decimal"
)

// BuildResult is the producible-quantity result for one product. Unbounded
// is set only under the UnboundedIfUnconstrained policy, when a product has
// BOM lines but none of them constrain it; Units is zero in that case.
type BuildResult struct {
	Product      ProductCode
	Units        Units
	Unbounded    bool
	Description  string
	Curve        string
	PlannerGroup string
}

// FulfilledLine records an order line that could be fully served from the
// ledger at the time it was walked.
type FulfilledLine struct {
	Order        string
	Line         int
	Product      ProductCode
	Quantity     decimal.Decimal
	PromisedDate time.Time
}
