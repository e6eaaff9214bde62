package export

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"pointr/internal/points"
)

type jsonExport struct {
	ExportedAt string    `json:"exported_at"`
	Count      int       `json:"count"`
	Rows       []jsonRow `json:"rows"`
	Total      float64   `json:"total"`
}

type jsonRow struct {
	Date        string  `json:"date,omitempty"`
	TaskID      string  `json:"task_id"`
	Task        string  `json:"task"`
	Reference   string  `json:"reference,omitempty"`
	Coefficient float64 `json:"coefficient"`
	Quantity    float64 `json:"quantity"`
	Points      float64 `json:"points"`
}

func ToJSON(rep points.Report, path string) error {
	export := jsonExport{
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
		Count:      len(rep.Rows),
		Total:      rep.Total,
	}

	for _, r := range rep.Rows {
		export.Rows = append(export.Rows, jsonRow{
			Date:        r.Date,
			TaskID:      r.TaskID,
			Task:        r.Label,
			Reference:   r.Reference,
			Coefficient: r.Coefficient,
			Quantity:    r.Quantity,
			Points:      r.Points,
		})
	}

	data, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write json file: %w", err)
	}
	return nil
}
