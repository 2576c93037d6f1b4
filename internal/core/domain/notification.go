package domain

// NotificationKind distinguishes a freshly created report from an edit.
type NotificationKind string

const (
	NotificationNew  NotificationKind = "new"
	NotificationEdit NotificationKind = "edit"
)

// ReportNotification is the payload handed to the notification sink after a
// report mutation commits. Delivery is fire-and-forget and never affects the
// outcome of the mutation itself.
type ReportNotification struct {
	Kind        NotificationKind `json:"type"`
	ReportID    int64            `json:"report_id"`
	Location    string           `json:"location"`
	Date        string           `json:"date"`
	Actor       string           `json:"author"`
	Data        ReportData       `json:"data"`
	PriorData   ReportData       `json:"old_data,omitempty"`
	Schema      ReportSchema     `json:"settings"`
	LateComment string           `json:"late_comment,omitempty"`
}
