package cli

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/andrescamacho/focusplanner/internal/domain/planning"
)

var checklistHeader = []string{"material", "action", "units", "yield", "crafts", "focus", "time_seconds"}

// WriteChecklistCSV writes checklist rows with a header line
func WriteChecklistCSV(w io.Writer, rows []planning.LeafRow) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(checklistHeader); err != nil {
		return fmt.Errorf("failed to write checklist header: %w", err)
	}

	for _, row := range rows {
		record := []string{
			row.Material,
			string(row.Action),
			strconv.FormatFloat(row.Units, 'f', -1, 64),
			strconv.FormatFloat(row.EffectiveYield, 'f', -1, 64),
			strconv.FormatInt(row.Crafts, 10),
			strconv.FormatFloat(row.Focus, 'f', -1, 64),
			strconv.FormatFloat(row.TimeSeconds, 'f', -1, 64),
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write checklist row %s: %w", row.Material, err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// WriteChecklistTable writes checklist rows as an aligned table with a totals line
func WriteChecklistTable(w io.Writer, rows []planning.LeafRow) error {
	if len(rows) == 0 {
		_, err := fmt.Fprintln(w, "No base materials")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "MATERIAL\tACTION\tUNITS\tCRAFTS\tFOCUS\tTIME")
	for _, row := range rows {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\t%s\n",
			row.Material,
			row.Action,
			formatNumber(row.Units),
			row.Crafts,
			formatNumber(row.Focus),
			formatDuration(row.TimeSeconds),
		)
	}

	focus, timeSeconds := planning.LeafTotals(rows)
	fmt.Fprintf(tw, "TOTAL\t\t\t\t%s\t%s\n", formatNumber(focus), formatDuration(timeSeconds))
	return tw.Flush()
}
