package api

import (
	"github.com/rfaria/buildplan/pkg/domain/entities"
	"github.com/rfaria/buildplan/pkg/planner"
)

// PlanRequest optionally overrides the behavioral switches of the engine
// for a single run. Empty fields fall back to the server defaults.
type PlanRequest struct {
	Unconstrained     string `json:"unconstrained,omitempty"`
	Reservation       string `json:"reservation,omitempty"`
	FulfillOrders     *bool  `json:"fulfill_orders,omitempty"`
	FulfillmentLedger string `json:"fulfillment_ledger,omitempty"`
	EmitZeroRows      *bool  `json:"emit_zero_rows,omitempty"`
}

// PlanDTO is the response shape of a planning run
type PlanDTO struct {
	RunID       string         `json:"run_id"`
	GeneratedAt string         `json:"generated_at"`
	Builds      []BuildDTO     `json:"builds"`
	Fulfilled   []FulfilledDTO `json:"fulfilled"`
}

// BuildDTO is one product row of a plan
type BuildDTO struct {
	Product      string `json:"product"`
	Units        int64  `json:"units"`
	Unbounded    bool   `json:"unbounded,omitempty"`
	Description  string `json:"description,omitempty"`
	Curve        string `json:"curve,omitempty"`
	PlannerGroup string `json:"planner_group,omitempty"`
}

// FulfilledDTO is one fulfillable order line of a plan
type FulfilledDTO struct {
	Order        string `json:"order"`
	Line         int    `json:"line"`
	Product      string `json:"product"`
	Quantity     string `json:"quantity"`
	PromisedDate string `json:"promised_date"`
}

// ErrorResponse is the JSON error envelope
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

func toPlanDTO(result *planner.PlanResult) PlanDTO {
	dto := PlanDTO{
		RunID:       result.RunID.String(),
		GeneratedAt: result.GeneratedAt.Format("2006-01-02T15:04:05Z07:00"),
		Builds:      make([]BuildDTO, 0, len(result.Builds)),
		Fulfilled:   make([]FulfilledDTO, 0, len(result.Fulfilled)),
	}
	for _, build := range result.Builds {
		dto.Builds = append(dto.Builds, toBuildDTO(build))
	}
	for _, line := range result.Fulfilled {
		dto.Fulfilled = append(dto.Fulfilled, FulfilledDTO{
			Order:        line.Order,
			Line:         line.Line,
			Product:      string(line.Product),
			Quantity:     line.Quantity.String(),
			PromisedDate: line.PromisedDate.Format("2006-01-02"),
		})
	}
	return dto
}

func toBuildDTO(build entities.BuildResult) BuildDTO {
	return BuildDTO{
		Product:      string(build.Product),
		Units:        int64(build.Units),
		Unbounded:    build.Unbounded,
		Description:  build.Description,
		Curve:        build.Curve,
		PlannerGroup: build.PlannerGroup,
	}
}
