package handlers

import (
	"github.com/gin-gonic/gin"
	apierrors "github.com/mbonimpa/agrigate/internal/errors"
	"github.com/mbonimpa/agrigate/internal/middleware"
	"github.com/mbonimpa/agrigate/internal/session"
)

// Policy identifiers the gateway checks before exposing an affordance. The
// backend enforces the same policies authoritatively; a request passing the
// gate here can still be rejected upstream.
const (
	PolicyApplicationDecide   = "application:decide"
	PolicyApplicationEdit     = "application:edit"
	PolicyApplicationTransfer = "application:transfer"
	PolicyApplicantUpload     = "applicant:upload"
	PolicyReportDownload      = "report:download"
)

// accessRule is one route's required policy, role, and org-type sets.
type accessRule struct {
	policies []string
	roles    []int
	orgTypes []int
}

// Route requirement sets. Role and org-type sets must be non-empty; an empty
// set denies everyone.
var (
	// Read access to listings and reference data.
	ruleView = accessRule{
		roles:    []int{session.RoleAdmin, session.RoleOfficer, session.RolePartner},
		orgTypes: []int{session.OrgTypeProgram, session.OrgTypePartner},
	}

	// Approve/reject decisions are a program-side action.
	ruleDecide = accessRule{
		policies: []string{PolicyApplicationDecide},
		roles:    []int{session.RoleAdmin, session.RoleOfficer},
		orgTypes: []int{session.OrgTypeProgram},
	}

	ruleEditLand = accessRule{
		policies: []string{PolicyApplicationEdit},
		roles:    []int{session.RoleAdmin, session.RoleOfficer},
		orgTypes: []int{session.OrgTypeProgram},
	}

	// Transfers reassign work between partners; admins only.
	ruleTransfer = accessRule{
		policies: []string{PolicyApplicationTransfer},
		roles:    []int{session.RoleAdmin},
		orgTypes: []int{session.OrgTypeProgram},
	}

	ruleUpload = accessRule{
		policies: []string{PolicyApplicantUpload},
		roles:    []int{session.RoleAdmin, session.RoleOfficer},
		orgTypes: []int{session.OrgTypeProgram, session.OrgTypePartner},
	}

	ruleReport = accessRule{
		policies: []string{PolicyReportDownload},
		roles:    []int{session.RoleAdmin, session.RoleOfficer},
		orgTypes: []int{session.OrgTypeProgram, session.OrgTypePartner},
	}
)

// requireAccess checks the caller's session against a rule and writes a 403
// when it fails. Returns false when the handler must stop.
func requireAccess(c *gin.Context, rule accessRule) bool {
	sess := middleware.GetSession(c)
	if !sess.HasAccess(rule.policies, rule.roles, rule.orgTypes) {
		apierrors.Forbidden(c, "You do not have permission to perform this action")
		return false
	}
	return true
}
