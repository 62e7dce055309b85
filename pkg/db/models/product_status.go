package models

import (
	"time"

	"github.com/angelmondragon/cellar-backend/pkg/enums"
)

// ProductStatus is an expired/damaged report awaiting or past admin review.
type ProductStatus struct {
	ID                 string              `json:"id"`
	ProductID          string              `json:"productId"`
	ProductName        string              `json:"productName"`
	Type               enums.ConditionType `json:"type"`
	Quantity           int                 `json:"quantity"`
	Notes              string              `json:"notes"`
	ImageURL           string              `json:"imageUrl,omitempty"`
	Status             enums.ReviewStatus  `json:"status"`
	ReportedBy         string              `json:"reportedBy"`
	ReportedByUsername string              `json:"reportedByUsername"`
	ReportedAt         time.Time           `json:"reportedAt"`
	ReviewNotes        string              `json:"reviewNotes,omitempty"`
	ReviewedBy         string              `json:"reviewedBy,omitempty"`
	ReviewedByUsername string              `json:"reviewedByUsername,omitempty"`
	ReviewedAt         *time.Time          `json:"reviewedAt,omitempty"`
	EditedAt           *time.Time          `json:"editedAt,omitempty"`
	PreviousReports    []PreviousReport    `json:"previousReports,omitempty"`
}

// PreviousReport archives a report's reviewable fields before an edit.
type PreviousReport struct {
	Notes       string             `json:"notes"`
	ImageURL    string             `json:"imageUrl,omitempty"`
	ReviewNotes string             `json:"reviewNotes,omitempty"`
	Status      enums.ReviewStatus `json:"status"`
	Timestamp   time.Time          `json:"timestamp"`
}

// Clone copies the report so the result shares no pointers or history with r.
func (r ProductStatus) Clone() ProductStatus {
	out := r
	out.ReviewedAt = cloneTime(r.ReviewedAt)
	out.EditedAt = cloneTime(r.EditedAt)
	if r.PreviousReports != nil {
		out.PreviousReports = append([]PreviousReport(nil), r.PreviousReports...)
	}
	return out
}
