package http

import (
	"gorm.io/gorm"

	"github.com/civicpulse/civicpulse/internal/domain/complaint"
	"github.com/civicpulse/civicpulse/internal/infrastructure/repository"
)

type repositories struct {
	complaintRepo complaint.ComplaintRepository
	activityRepo  complaint.ActivityRepository
	citizenRepo   complaint.CitizenRepository
}

func newRepositories(db *gorm.DB) *repositories {
	return &repositories{
		complaintRepo: repository.NewComplaintRepository(db),
		activityRepo:  repository.NewComplaintActivityRepository(db),
		citizenRepo:   repository.NewCitizenRepository(db),
	}
}
