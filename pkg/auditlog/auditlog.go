package auditlog

import (
	"log"

	internal "mrplan/internal/auditlog"
	"mrplan/pkg/models"
)

type Auditlog struct {
	r *internal.AuditLogRepository
}

type Auditable interface {
	CreateLogView() models.AuditLog
}

func NewAuditLog(repository *internal.AuditLogRepository) *Auditlog {
	return &Auditlog{r: repository}
}

// LogAs records an action against an auditable record on behalf of a user.
// Audit failures are logged and swallowed so they never fail the business
// operation itself.
func (a *Auditlog) LogAs(action string, userID *int, item Auditable, oldValues, newValues interface{}) {
	auditLog := item.CreateLogView()
	auditLog.Action = action
	auditLog.UserID = userID

	if err := a.r.PersistLog(auditLog, oldValues, newValues); err != nil {
		log.Println("Unable to create audit log entry for record", auditLog.RecordID, ":", err)
	}
}

// GetRecordTrail returns the audit entries for one record, oldest first.
func (a *Auditlog) GetRecordTrail(id int, recordType string) (*[]models.AuditLog, error) {
	return a.r.GetRecordLog(id, recordType)
}
