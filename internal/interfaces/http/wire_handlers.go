package http

import (
	complainthandlers "github.com/civicpulse/civicpulse/internal/interfaces/http/handlers/complaint"
)

type allHandlers struct {
	complaintHandler *complainthandlers.Handler
}

func (c *Container) newHandlers() *allHandlers {
	u := c.ucs
	return &allHandlers{
		complaintHandler: complainthandlers.NewHandler(
			u.createComplaint,
			u.getComplaint,
			u.listComplaints,
			u.updateComplaint,
			u.assignComplaint,
			u.changeStatus,
			u.mergeComplaints,
			u.upvoteComplaint,
			u.scanSLAs,
			c.log,
		),
	}
}
