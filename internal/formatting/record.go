package formatting

import (
	"fmt"
	"time"

	"imtest/internal/engine"
)

// Record is the serialisable view of one test result.
type Record struct {
	Category   string          `json:"category" yaml:"category"`
	Name       string          `json:"name" yaml:"name"`
	Group      string          `json:"group" yaml:"group"`
	Status     string          `json:"status" yaml:"status"`
	DurationMs int64           `json:"duration_ms" yaml:"duration_ms"`
	Frames     int             `json:"frames" yaml:"frames"`
	Source     string          `json:"source,omitempty" yaml:"source,omitempty"`
	Failures   []FailureRecord `json:"failures,omitempty" yaml:"failures,omitempty"`
}

// FailureRecord is the serialisable view of an engine.Failure.
type FailureRecord struct {
	Kind     string `json:"kind" yaml:"kind"`
	Frame    int    `json:"frame" yaml:"frame"`
	Message  string `json:"message" yaml:"message"`
	Location string `json:"location,omitempty" yaml:"location,omitempty"`
}

// FullName is "category/name".
func (r Record) FullName() string {
	return r.Category + "/" + r.Name
}

// NewRecords converts engine results, keeping their order.
func NewRecords(results []engine.TestResult) []Record {
	records := make([]Record, 0, len(results))
	for _, res := range results {
		rec := Record{
			Category:   res.Category,
			Name:       res.Name,
			Group:      res.Group.String(),
			Status:     res.Status.String(),
			DurationMs: res.Duration.Round(time.Millisecond).Milliseconds(),
			Frames:     res.Frames,
		}
		if res.SourceFile != "" {
			rec.Source = fmt.Sprintf("%s:%d", res.SourceFile, res.SourceLine)
		}
		for _, f := range res.Failures {
			rec.Failures = append(rec.Failures, FailureRecord{
				Kind:     f.Kind.String(),
				Frame:    f.Frame,
				Message:  f.Message,
				Location: f.Location,
			})
		}
		records = append(records, rec)
	}
	return records
}

// resultList wraps records for the json and yaml formats.
type resultList struct {
	Tests []Record `json:"tests" yaml:"tests"`
	Count int      `json:"count" yaml:"count"`
}

func newResultList(results []engine.TestResult) resultList {
	records := NewRecords(results)
	return resultList{Tests: records, Count: len(records)}
}
