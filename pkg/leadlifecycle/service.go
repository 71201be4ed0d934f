// Package leadlifecycle decides who may record a call disposition.
package leadlifecycle

import (
	"github.com/jordanlanch/leadcrm/pkg/auth"
	"github.com/jordanlanch/leadcrm/pkg/domain"
	"github.com/jordanlanch/leadcrm/pkg/models"
)

// MsgInvalidDisposition is returned for values outside the disposition set.
const MsgInvalidDisposition = "Call disposition is not valid"

// Authorize checks that actor may record d on lead. Team Leaders may
// override any lead; Telemarketers only leads assigned to them.
func Authorize(actor auth.Identity, lead *models.Lead, d models.Disposition) error {
	if !d.Valid() {
		return domain.NewValidationError(MsgInvalidDisposition, "callDisposition")
	}
	if !actor.Can(auth.CapLeadDisposition) {
		return domain.NewForbiddenError("Forbidden")
	}
	if actor.IsTeamLeader() {
		return nil
	}
	if lead.AssignedToID() != actor.ID {
		return domain.NewForbiddenError("Forbidden")
	}
	return nil
}

// Apply records d on lead. Any disposition may follow any other.
func Apply(lead *models.Lead, d models.Disposition) {
	lead.CallDisposition = d
}
