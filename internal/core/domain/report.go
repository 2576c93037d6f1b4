package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReportData is the sparse numeric mapping of a report: "{row}_{column}"
// key to amount. Absent keys and explicit zeros are equivalent.
type ReportData map[string]decimal.Decimal

// ReportSchema is the column/row/branch configuration captured at report
// creation time and frozen with the report, so later settings changes never
// corrupt historical display.
type ReportSchema struct {
	Columns   []string `json:"columns"`
	Rows      []string `json:"rows"`
	Locations []string `json:"locations"`
}

// Report is one branch's figures for one calendar date.
// (ReportDate, Location) pairs are unique across the table.
type Report struct {
	ID          int64        `json:"id"`
	ReportDate  time.Time    `json:"reportDate"`
	Location    string       `json:"location"`
	Data        ReportData   `json:"data"`
	Schema      ReportSchema `json:"schema"`
	CreatedBy   string       `json:"createdBy"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedBy   *string      `json:"updatedBy,omitempty"`
	UpdatedAt   *time.Time   `json:"updatedAt,omitempty"`
	LateComment string       `json:"lateComment,omitempty"`
	EditCount   int          `json:"editCount"` // derived from history, populated on reads
}

// cellKey builds the sparse-map key for a row/column pair.
func cellKey(row, column string) string {
	return row + "_" + column
}

// amountAt returns the amount for a cell, zero when absent.
func (d ReportData) amountAt(row, column string) decimal.Decimal {
	if v, ok := d[cellKey(row, column)]; ok {
		return v
	}
	return decimal.Zero
}

// RowTotals computes per-row sums over the schema's columns.
// Totals are always derived, never persisted.
func (d ReportData) RowTotals(schema ReportSchema) map[string]decimal.Decimal {
	totals := make(map[string]decimal.Decimal, len(schema.Rows))
	for _, row := range schema.Rows {
		sum := decimal.Zero
		for _, col := range schema.Columns {
			sum = sum.Add(d.amountAt(row, col))
		}
		totals[row] = sum
	}
	return totals
}

// ColumnTotals computes per-column sums over the schema's rows.
func (d ReportData) ColumnTotals(schema ReportSchema) map[string]decimal.Decimal {
	totals := make(map[string]decimal.Decimal, len(schema.Columns))
	for _, col := range schema.Columns {
		sum := decimal.Zero
		for _, row := range schema.Rows {
			sum = sum.Add(d.amountAt(row, col))
		}
		totals[col] = sum
	}
	return totals
}

// GrandTotal computes the sum over all schema cells.
func (d ReportData) GrandTotal(schema ReportSchema) decimal.Decimal {
	sum := decimal.Zero
	for _, row := range schema.Rows {
		for _, col := range schema.Columns {
			sum = sum.Add(d.amountAt(row, col))
		}
	}
	return sum
}

// SubmissionDeadline returns the moment after which a report for reportDate
// counts as late: cutoffHour o'clock on the following calendar day, in
// reportDate's location (time zone of the server).
func SubmissionDeadline(reportDate time.Time, cutoffHour int) time.Time {
	next := reportDate.AddDate(0, 0, 1)
	return time.Date(next.Year(), next.Month(), next.Day(), cutoffHour, 0, 0, 0, reportDate.Location())
}

// IsLateSubmission reports whether a report for reportDate submitted at now
// is past its deadline.
func IsLateSubmission(reportDate, now time.Time, cutoffHour int) bool {
	return now.After(SubmissionDeadline(reportDate, cutoffHour))
}
