// Copyright (c) 2026 ScholarLink. All rights reserved.

package orcid

import (
	"encoding/csv"
	"io"
	"strconv"
	"strings"
)

// resultColumns are the resolution columns appended after the source columns
// in every export.
var resultColumns = []string{
	"orcid_id",
	"status",
	"confidence",
	"country",
	"main_research_area",
	"specific_research_area",
	"research_fields",
	"keywords",
	"reasoning",
}

// WriteCSV renders resolution results as RFC 4180 CSV: one header row, then
// one row per candidate with the selected source columns first and the
// resolution columns after. Multi-valued facets are joined with "; ".
//
// encoding/csv handles quoting, so cells containing commas, quotes or
// newlines survive a round trip through any standards-compliant reader.
func WriteCSV(writer io.Writer, rows []CandidateRow, selectedColumns []string) error {
	csvWriter := csv.NewWriter(writer)

	header := make([]string, 0, len(selectedColumns)+len(resultColumns))
	header = append(header, selectedColumns...)
	header = append(header, resultColumns...)
	if err := csvWriter.Write(header); err != nil {
		return err
	}

	for _, row := range rows {
		record := make([]string, 0, len(header))
		for _, column := range selectedColumns {
			record = append(record, row.Original[column])
		}
		record = append(record,
			row.OrcidID,
			row.Status,
			strconv.FormatFloat(row.Confidence, 'f', -1, 64),
			row.Country,
			row.MainResearchArea,
			row.SpecificResearchArea,
			strings.Join(row.ResearchFields, "; "),
			strings.Join(row.Keywords, "; "),
			row.Reasoning,
		)
		if err := csvWriter.Write(record); err != nil {
			return err
		}
	}

	csvWriter.Flush()
	return csvWriter.Error()
}
