package models

import "time"

// Report is the database shape of a report row. Data and Settings are the
// raw JSONB documents; Settings is the schema snapshot frozen at creation.
type Report struct {
	ReportID    int64      `db:"id"`
	ReportDate  time.Time  `db:"report_date"`
	Location    string     `db:"location"`
	Data        []byte     `db:"data"`
	Settings    []byte     `db:"settings"`
	CreatedBy   string     `db:"created_by"`
	CreatedAt   time.Time  `db:"created_at"`
	UpdatedBy   *string    `db:"updated_by"`
	UpdatedAt   *time.Time `db:"updated_at"`
	LateComment *string    `db:"late_comment"`
	EditCount   int        `db:"edit_count"` // derived subquery column, not stored
}

// ReportHistory is the database shape of one archived pre-edit snapshot.
type ReportHistory struct {
	ID                int64     `db:"id"`
	ReportID          int64     `db:"report_id"`
	OldData           []byte    `db:"old_data"`
	ChangedBy         string    `db:"changed_by"`
	ChangedByUsername string    `db:"changed_by_username"` // joined column
	ChangedAt         time.Time `db:"changed_at"`
}
