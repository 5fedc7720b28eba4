package postgresql

import (
	"context"
	"fmt"
	"strings"

	"github.com/cmlabs-hris/attendance-core/internal/domain/audit"
	"github.com/cmlabs-hris/attendance-core/internal/pkg/database"
	"github.com/google/uuid"
)

type auditRepository struct {
	db *database.DB
}

func NewAuditRepository(db *database.DB) audit.Repository {
	return &auditRepository{db: db}
}

// CreateBatch inserts events with a single multi-row statement.
func (r *auditRepository) CreateBatch(ctx context.Context, events []audit.Event) error {
	if len(events) == 0 {
		return nil
	}

	q := GetQuerier(ctx, r.db)

	const cols = 6
	valueStrings := make([]string, 0, len(events))
	valueArgs := make([]interface{}, 0, len(events)*cols)

	for i, e := range events {
		if e.ID == "" {
			e.ID = uuid.New().String()
		}
		base := i * cols
		valueStrings = append(valueStrings, fmt.Sprintf(
			"($%d, $%d, $%d, $%d, $%d, $%d)",
			base+1, base+2, base+3, base+4, base+5, base+6,
		))
		valueArgs = append(valueArgs, e.ID, e.ActorID, e.Action, e.Detail, e.IPAddress, e.CreatedAt)
	}

	query := `INSERT INTO audit_logs (id, actor_id, action, detail, ip_address, created_at) VALUES ` +
		strings.Join(valueStrings, ", ")

	if _, err := q.Exec(ctx, query, valueArgs...); err != nil {
		return fmt.Errorf("failed to insert audit logs: %w", err)
	}
	return nil
}
