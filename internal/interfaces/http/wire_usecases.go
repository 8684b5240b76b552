package http

import (
	"github.com/civicpulse/civicpulse/internal/application/complaint/usecases"
)

type allUseCases struct {
	createComplaint  *usecases.CreateComplaintUseCase
	getComplaint     *usecases.GetComplaintUseCase
	listComplaints   *usecases.ListComplaintsUseCase
	updateComplaint  *usecases.UpdateComplaintUseCase
	assignComplaint  *usecases.AssignComplaintUseCase
	changeStatus     *usecases.ChangeStatusUseCase
	mergeComplaints  *usecases.MergeComplaintsUseCase
	upvoteComplaint  *usecases.UpvoteComplaintUseCase
	detectDuplicates *usecases.DetectDuplicatesUseCase
	categorize       *usecases.CategorizeComplaintUseCase
	scanSLAs         *usecases.ScanSLAsUseCase
}

func (c *Container) newUseCases() *allUseCases {
	r := c.repos
	log := c.log

	return &allUseCases{
		createComplaint: usecases.NewCreateComplaintUseCase(
			r.complaintRepo, r.activityRepo, r.citizenRepo, c.txMgr, c.dispatcher, c.metrics, log,
		),
		getComplaint:    usecases.NewGetComplaintUseCase(r.complaintRepo, r.activityRepo, log),
		listComplaints:  usecases.NewListComplaintsUseCase(r.complaintRepo, log),
		updateComplaint: usecases.NewUpdateComplaintUseCase(r.complaintRepo, r.activityRepo, c.txMgr, c.triager, log),
		assignComplaint: usecases.NewAssignComplaintUseCase(r.complaintRepo, r.activityRepo, c.txMgr, log),
		changeStatus:    usecases.NewChangeStatusUseCase(r.complaintRepo, r.activityRepo, c.txMgr, log),
		mergeComplaints: usecases.NewMergeComplaintsUseCase(r.complaintRepo, r.activityRepo, c.txMgr, c.metrics, log),
		upvoteComplaint: usecases.NewUpvoteComplaintUseCase(r.complaintRepo, r.activityRepo, r.citizenRepo, c.txMgr, log),
		detectDuplicates: usecases.NewDetectDuplicatesUseCase(
			r.complaintRepo, r.activityRepo, c.txMgr, c.cfg.Triage.DuplicateThreshold, c.metrics, log,
		),
		categorize: usecases.NewCategorizeComplaintUseCase(r.complaintRepo, r.activityRepo, c.txMgr, c.triager, c.metrics, log),
		scanSLAs:   usecases.NewScanSLAsUseCase(r.complaintRepo, r.activityRepo, c.txMgr, c.metrics, log),
	}
}
