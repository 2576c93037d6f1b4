package mapping

import (
	"encoding/json"
	"fmt"

	"github.com/kassatrack/cash_report_app/internal/core/domain"
	"github.com/kassatrack/cash_report_app/internal/models"
)

// ToModelReport converts a domain report to its database shape, marshaling
// the data map and schema snapshot into JSON documents.
func ToModelReport(d domain.Report) (models.Report, error) {
	dataJSON, err := json.Marshal(d.Data)
	if err != nil {
		return models.Report{}, fmt.Errorf("failed to marshal report data: %w", err)
	}
	settingsJSON, err := json.Marshal(d.Schema)
	if err != nil {
		return models.Report{}, fmt.Errorf("failed to marshal report schema: %w", err)
	}

	m := models.Report{
		ReportID:   d.ID,
		ReportDate: d.ReportDate,
		Location:   d.Location,
		Data:       dataJSON,
		Settings:   settingsJSON,
		CreatedBy:  d.CreatedBy,
		CreatedAt:  d.CreatedAt,
		UpdatedBy:  d.UpdatedBy,
		UpdatedAt:  d.UpdatedAt,
	}
	if d.LateComment != "" {
		lc := d.LateComment
		m.LateComment = &lc
	}
	return m, nil
}

// ToDomainReport converts a database row back into the domain shape.
func ToDomainReport(m models.Report) (domain.Report, error) {
	var data domain.ReportData
	if err := json.Unmarshal(m.Data, &data); err != nil {
		return domain.Report{}, fmt.Errorf("failed to unmarshal report data for report %d: %w", m.ReportID, err)
	}
	var schema domain.ReportSchema
	if err := json.Unmarshal(m.Settings, &schema); err != nil {
		return domain.Report{}, fmt.Errorf("failed to unmarshal report schema for report %d: %w", m.ReportID, err)
	}

	d := domain.Report{
		ID:         m.ReportID,
		ReportDate: m.ReportDate,
		Location:   m.Location,
		Data:       data,
		Schema:     schema,
		CreatedBy:  m.CreatedBy,
		CreatedAt:  m.CreatedAt,
		UpdatedBy:  m.UpdatedBy,
		UpdatedAt:  m.UpdatedAt,
		EditCount:  m.EditCount,
	}
	if m.LateComment != nil {
		d.LateComment = *m.LateComment
	}
	return d, nil
}

// ToDomainRevision converts a history row, unmarshaling the archived blob.
func ToDomainRevision(m models.ReportHistory) (domain.RevisionEntry, error) {
	var prior domain.ReportData
	if err := json.Unmarshal(m.OldData, &prior); err != nil {
		return domain.RevisionEntry{}, fmt.Errorf("failed to unmarshal archived data for history entry %d: %w", m.ID, err)
	}
	return domain.RevisionEntry{
		ID:                m.ID,
		ReportID:          m.ReportID,
		PriorData:         prior,
		ChangedBy:         m.ChangedBy,
		ChangedByUsername: m.ChangedByUsername,
		ChangedAt:         m.ChangedAt,
	}, nil
}
