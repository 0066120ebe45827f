package output

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/rfaria/buildplan/pkg/domain/entities"
	"github.com/rfaria/buildplan/pkg/planner"
)

// Format identifies a supported output encoding
type Format string

const (
	FormatText    Format = "text"
	FormatJSON    Format = "json"
	FormatCSV     Format = "csv"
	FormatMsgpack Format = "msgpack"
)

// ParseFormat parses a configuration string
func ParseFormat(s string) (Format, error) {
	switch s {
	case "", "text":
		return FormatText, nil
	case "json":
		return FormatJSON, nil
	case "csv":
		return FormatCSV, nil
	case "msgpack":
		return FormatMsgpack, nil
	default:
		return FormatText, fmt.Errorf("unsupported output format: %s", s)
	}
}

// Render writes a plan result in the requested format
func Render(w io.Writer, result *planner.PlanResult, format Format) error {
	switch format {
	case FormatText:
		return renderText(w, result)
	case FormatJSON:
		return renderJSON(w, result)
	case FormatCSV:
		return renderCSV(w, result)
	case FormatMsgpack:
		return renderMsgpack(w, result)
	default:
		return fmt.Errorf("unsupported output format: %s", format)
	}
}

// sortedBuilds returns build results sorted descending by buildable units,
// unbounded rows first, matching how the legacy display orders the table.
// Ties keep allocation order.
func sortedBuilds(result *planner.PlanResult) []entities.BuildResult {
	builds := make([]entities.BuildResult, len(result.Builds))
	copy(builds, result.Builds)
	sort.SliceStable(builds, func(i, j int) bool {
		if builds[i].Unbounded != builds[j].Unbounded {
			return builds[i].Unbounded
		}
		return builds[i].Units > builds[j].Units
	})
	return builds
}

func unitsLabel(build entities.BuildResult) string {
	if build.Unbounded {
		return "unbounded"
	}
	return strconv.FormatInt(int64(build.Units), 10)
}

func renderText(w io.Writer, result *planner.PlanResult) error {
	fmt.Fprintf(w, "Plan %s (generated %s)\n", result.RunID, result.GeneratedAt.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(w, "Products buildable from current stock: %d\n\n", len(result.Builds))

	fmt.Fprintf(w, "%-16s %-32s %-6s %-20s %10s\n", "PRODUCT", "DESCRIPTION", "CURVE", "PLANNER GROUP", "UNITS")
	for _, build := range sortedBuilds(result) {
		fmt.Fprintf(w, "%-16s %-32s %-6s %-20s %10s\n",
			build.Product, build.Description, build.Curve, build.PlannerGroup, unitsLabel(build))
	}

	if len(result.Fulfilled) > 0 {
		fmt.Fprintf(w, "\nFulfillable order lines: %d\n\n", len(result.Fulfilled))
		fmt.Fprintf(w, "%-12s %6s %-16s %10s %s\n", "ORDER", "LINE", "PRODUCT", "QTY", "PROMISED")
		for _, line := range result.Fulfilled {
			fmt.Fprintf(w, "%-12s %6d %-16s %10s %s\n",
				line.Order, line.Line, line.Product, line.Quantity.String(),
				line.PromisedDate.Format("2006-01-02"))
		}
	}

	return nil
}

// jsonResult keeps the wire shape stable regardless of internal field
// changes.
type jsonResult struct {
	RunID       string          `json:"run_id" msgpack:"run_id"`
	GeneratedAt string          `json:"generated_at" msgpack:"generated_at"`
	Builds      []jsonBuild     `json:"builds" msgpack:"builds"`
	Fulfilled   []jsonFulfilled `json:"fulfilled,omitempty" msgpack:"fulfilled,omitempty"`
}

type jsonBuild struct {
	Product      string `json:"product" msgpack:"product"`
	Units        int64  `json:"units" msgpack:"units"`
	Unbounded    bool   `json:"unbounded,omitempty" msgpack:"unbounded,omitempty"`
	Description  string `json:"description,omitempty" msgpack:"description,omitempty"`
	Curve        string `json:"curve,omitempty" msgpack:"curve,omitempty"`
	PlannerGroup string `json:"planner_group,omitempty" msgpack:"planner_group,omitempty"`
}

type jsonFulfilled struct {
	Order        string `json:"order" msgpack:"order"`
	Line         int    `json:"line" msgpack:"line"`
	Product      string `json:"product" msgpack:"product"`
	Quantity     string `json:"quantity" msgpack:"quantity"`
	PromisedDate string `json:"promised_date" msgpack:"promised_date"`
}

func encodableResult(result *planner.PlanResult) jsonResult {
	out := jsonResult{
		RunID:       result.RunID.String(),
		GeneratedAt: result.GeneratedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
	for _, build := range sortedBuilds(result) {
		out.Builds = append(out.Builds, jsonBuild{
			Product:      string(build.Product),
			Units:        int64(build.Units),
			Unbounded:    build.Unbounded,
			Description:  build.Description,
			Curve:        build.Curve,
			PlannerGroup: build.PlannerGroup,
		})
	}
	for _, line := range result.Fulfilled {
		out.Fulfilled = append(out.Fulfilled, jsonFulfilled{
			Order:        line.Order,
			Line:         line.Line,
			Product:      string(line.Product),
			Quantity:     line.Quantity.String(),
			PromisedDate: line.PromisedDate.Format("2006-01-02"),
		})
	}
	return out
}

func renderJSON(w io.Writer, result *planner.PlanResult) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(encodableResult(result))
}

func renderMsgpack(w io.Writer, result *planner.PlanResult) error {
	return msgpack.NewEncoder(w).Encode(encodableResult(result))
}

func renderCSV(w io.Writer, result *planner.PlanResult) error {
	writer := csv.NewWriter(w)

	if err := writer.Write([]string{"product", "description", "curve", "planner_group", "units"}); err != nil {
		return err
	}
	for _, build := range sortedBuilds(result) {
		record := []string{
			string(build.Product),
			build.Description,
			build.Curve,
			build.PlannerGroup,
			unitsLabel(build),
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

// DecodeMsgpack reads back a msgpack-encoded plan result. Downstream
// tooling uses this to consume exported plans without going through JSON.
func DecodeMsgpack(r io.Reader) (map[string]interface{}, error) {
	var decoded map[string]interface{}
	if err := msgpack.NewDecoder(r).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("failed to decode plan export: %w", err)
	}
	return decoded, nil
}
