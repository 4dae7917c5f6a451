package service

import (
	"fmt"

	"github.com/noah-isme/makeup-api/internal/models"
	appErrors "github.com/noah-isme/makeup-api/pkg/errors"
)

const (
	msgAdminCompreOnly     = "This feature is only available for Comprehensive Exam requests."
	msgAdminNeedsApproval  = "Only requests with 'faculty approved' status can be processed."
	msgAdminStatusUpdated  = "Request status updated successfully"
	msgFacultyStatusUpdate = "Request status updated successfully"
)

func validDecision(decision models.RequestStatus) bool {
	return decision == models.StatusAccepted || decision == models.StatusDenied
}

func alreadyFinalized(current models.RequestStatus) error {
	return appErrors.WithDetail(
		appErrors.Clone(appErrors.ErrAlreadyFinalized, fmt.Sprintf("Request cannot be modified as it is already in %s status", current)),
		"status", string(current),
	)
}

// FacultyTransition returns the status a faculty verdict moves a request to.
// Comprehensive exam acceptances stop at faculty approved pending timetable division sign-off.
func FacultyTransition(current models.RequestStatus, component models.EvalComponent, decision models.RequestStatus) (models.RequestStatus, error) {
	if !validDecision(decision) {
		return "", appErrors.Clone(appErrors.ErrValidation, "status must be Accepted or Denied")
	}
	if current != models.StatusPending {
		return "", alreadyFinalized(current)
	}
	if component.Kind() == models.KindCompre && decision == models.StatusAccepted {
		return models.StatusFacultyApproved, nil
	}
	return decision, nil
}

// AdminTransition returns the final status for a timetable division verdict. ok is false,
// with an explanatory message, when the request is outside the division's authority.
func AdminTransition(current models.RequestStatus, component models.EvalComponent, decision models.RequestStatus) (next models.RequestStatus, ok bool, message string, err error) {
	if !validDecision(decision) {
		return "", false, "", appErrors.Clone(appErrors.ErrValidation, "status must be Accepted or Denied")
	}
	if component != models.ComponentCompre {
		return current, false, msgAdminCompreOnly, nil
	}
	if current != models.StatusFacultyApproved {
		return current, false, msgAdminNeedsApproval, nil
	}
	return decision, true, msgAdminStatusUpdated, nil
}
