package auditlog

import (
	"encoding/json"
	"fmt"

	"mrplan/internal/repository"
	"mrplan/pkg/models"

	"github.com/doug-martin/goqu/v9"
)

type AuditLogRepository struct {
	repository *repository.Repository
}

func NewRepository(r *repository.Repository) *AuditLogRepository {
	return &AuditLogRepository{repository: r}
}

func (r *AuditLogRepository) PersistLog(auditlog models.AuditLog, oldValues, newValues interface{}) error {
	record := goqu.Record{
		"module":      auditlog.Module,
		"record_type": auditlog.RecordType,
		"record_id":   auditlog.RecordID,
		"action":      auditlog.Action,
		"user_id":     auditlog.UserID,
	}

	if oldValues != nil {
		oldJSON, err := json.Marshal(oldValues)
		if err != nil {
			return fmt.Errorf("failed to marshal audit log old values: %w", err)
		}
		record["old_values"] = oldJSON
	}

	if newValues != nil {
		newJSON, err := json.Marshal(newValues)
		if err != nil {
			return fmt.Errorf("failed to marshal audit log new values: %w", err)
		}
		record["new_values"] = newJSON
	}

	query := r.repository.GoquDBWrapper.Insert("audit_logs").Rows(record)

	if _, err := query.Executor().Exec(); err != nil {
		return fmt.Errorf("failed to insert audit log: %w", err)
	}

	return nil
}

func (r *AuditLogRepository) GetRecordLog(id int, recordType string) (*[]models.AuditLog, error) {
	query := r.repository.GoquDBWrapper.
		From(goqu.T("audit_logs").As("a")).
		Select(
			goqu.I("a.id").As("id"),
			goqu.I("a.module").As("module"),
			goqu.I("a.record_type").As("record_type"),
			goqu.I("a.record_id").As("record_id"),
			goqu.I("a.action").As("action"),
			goqu.COALESCE(goqu.I("a.old_values"), goqu.L("'{}'")).As("old_values"),
			goqu.COALESCE(goqu.I("a.new_values"), goqu.L("'{}'")).As("new_values"),
			goqu.I("a.user_id").As("user_id"),
			goqu.I("a.created_at").As("created_at"),
		).
		Where(goqu.Ex{
			"a.record_id":   id,
			"a.record_type": recordType,
		}).
		Order(goqu.I("a.created_at").Asc())

	var auditLogs []models.AuditLog
	if err := query.Executor().ScanStructs(&auditLogs); err != nil {
		return nil, fmt.Errorf("error executing SQL statement: %w", err)
	}

	for i := range auditLogs {
		auditLogs[i].LoadFromDB()
	}

	return &auditLogs, nil
}
