package policy

import (
	"time"

	"github.com/nedirbay/project-management-own-version/internal/constants"
)

// CheckReportEditWindow limits report edits by the owner to the first seven
// days after creation. Global admins are not limited.
func CheckReportEditWindow(rels RelationSet, createdAt, now time.Time) Decision {
	if rels.Has(IsGlobalAdmin) {
		return allow()
	}
	if !rels.Has(IsReportOwner) {
		return deny("only the report owner can edit this report")
	}
	if now.After(createdAt.Add(constants.ReportEditWindow)) {
		return deny("reports can only be edited within %d days of creation", int(constants.ReportEditWindow.Hours()/24))
	}
	return allow()
}
