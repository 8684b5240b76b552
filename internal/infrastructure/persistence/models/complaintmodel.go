package models

import "github.com/civicpulse/civicpulse/internal/shared/constants"

// ComplaintModel timestamps are unix milliseconds, UTC.
type ComplaintModel struct {
	ID                     uint   `gorm:"primaryKey"`
	Title                  string `gorm:"size:200;not null"`
	Description            string `gorm:"type:text;not null"`
	Ward                   string `gorm:"size:100;not null;index:idx_complaints_ward_merged,priority:1"`
	Category               string `gorm:"size:100;not null;default:'General'"`
	Priority               int    `gorm:"not null;default:0"`
	PriorityLabel          string `gorm:"size:32;not null"`
	Status                 string `gorm:"size:20;not null;index"`
	CitizenID              uint   `gorm:"not null;index"`
	Latitude               *float64
	Longitude              *float64
	AssignedTo             string   `gorm:"size:100;not null;default:''"`
	AssignedDepartment     string   `gorm:"size:100;not null;default:''"`
	ReportsCount           int      `gorm:"not null;default:1"`
	Upvotes                int      `gorm:"not null;default:0"`
	ImpactScore            float64  `gorm:"not null;default:0"`
	AIConfidenceScore      *float64 `gorm:"column:ai_confidence_score"`
	AISimilarityScore      *float64 `gorm:"column:ai_similarity_score"`
	IsMerged               bool     `gorm:"not null;default:false;index:idx_complaints_ward_merged,priority:2"`
	MergedIntoID           *uint    `gorm:"index"`
	ExpectedResolutionDate int64    `gorm:"not null;index"`
	IsSLABreached          bool     `gorm:"column:is_sla_breached;not null;default:false"`
	EscalationLevel        int      `gorm:"not null;default:0"`
	ResolvedAt             *int64
	Version                int   `gorm:"not null;default:1"`
	CreatedAt              int64 `gorm:"autoCreateTime:milli;not null;index"`
	UpdatedAt              int64 `gorm:"autoUpdateTime:milli;not null"`

	// No foreign keys; merge links and ownership are enforced by the domain.
}

func (ComplaintModel) TableName() string {
	return constants.TableComplaints
}

// ComplaintActivityModel is an append-only audit row.
type ComplaintActivityModel struct {
	ID            uint   `gorm:"primaryKey"`
	ComplaintID   uint   `gorm:"not null;index"`
	Action        string `gorm:"size:50;not null"`
	PreviousValue string `gorm:"size:255;not null;default:''"`
	NewValue      string `gorm:"size:255;not null;default:''"`
	Details       string `gorm:"type:text"`
	Actor         string `gorm:"size:100;not null;default:''"`
	CreatedAt     int64  `gorm:"autoCreateTime:milli;not null;index"`
}

func (ComplaintActivityModel) TableName() string {
	return constants.TableActivities
}

// CitizenModel keys on the identity provider's user id.
type CitizenModel struct {
	ID        uint   `gorm:"primaryKey;autoIncrement:false"`
	Name      string `gorm:"size:100;not null"`
	Points    int    `gorm:"not null;default:0"`
	CreatedAt int64  `gorm:"autoCreateTime:milli;not null"`
	UpdatedAt int64  `gorm:"autoUpdateTime:milli;not null"`
}

func (CitizenModel) TableName() string {
	return constants.TableCitizens
}
