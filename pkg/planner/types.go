package planner

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rfaria/buildplan/pkg/domain/entities"
)

// LedgerSource selects which ledger the fulfillment walker runs against
type LedgerSource int

const (
	// PostAllocationLedger continues on the ledger the allocator left
	// behind: orders compete with planned builds for what remains.
	PostAllocationLedger LedgerSource = iota
	// ReservationLedger walks the ledger as it stood after the
	// reservation pre-pass, before any product allocation.
	ReservationLedger
	// FreshLedger walks a ledger rebuilt from the original stock records.
	FreshLedger
)

// String method for LedgerSource enum
func (s LedgerSource) String() string {
	switch s {
	case PostAllocationLedger:
		return "PostAllocation"
	case ReservationLedger:
		return "Reservation"
	case FreshLedger:
		return "Fresh"
	default:
		return "Unknown"
	}
}

// ParseLedgerSource parses a configuration string
func ParseLedgerSource(s string) (LedgerSource, error) {
	switch s {
	case "", "post-allocation":
		return PostAllocationLedger, nil
	case "reservation":
		return ReservationLedger, nil
	case "fresh":
		return FreshLedger, nil
	default:
		return PostAllocationLedger, fmt.Errorf("invalid ledger source: %s (expected: post-allocation, reservation, or fresh)", s)
	}
}

// PlanResult contains the complete output of a planning run
type PlanResult struct {
	RunID       uuid.UUID
	GeneratedAt time.Time
	// Builds holds the producible-quantity results in allocation order.
	Builds []entities.BuildResult
	// Fulfilled holds the fulfillable order lines in walk order. Empty
	// when no open orders were supplied.
	Fulfilled []entities.FulfilledLine
	// FinalLedger is the remaining stock after all stages ran.
	FinalLedger map[entities.ComponentCode]decimal.Decimal
}

func decimalFromUnits(units entities.Units) decimal.Decimal {
	return decimal.NewFromInt(int64(units))
}
