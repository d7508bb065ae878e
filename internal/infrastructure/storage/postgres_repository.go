package storage

import (
	"context"
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"taskdigest/internal/domain"
	"taskdigest/internal/ports"
)

// PostgresRepository persists finished runs and their items for audit.
type PostgresRepository struct {
	db      *sql.DB
	builder sq.StatementBuilderType
}

var _ ports.ReportRepository = (*PostgresRepository)(nil)

// NewPostgresRepository wires a sql.DB implementation.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{
		db:      db,
		builder: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// SaveRun stores one run row plus one row per surviving item.
func (r *PostgresRepository) SaveRun(ctx context.Context, report domain.Report) error {
	if r.db == nil {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	runInsert := r.builder.
		Insert("digest_runs").
		Columns("run_id", "generated", "manager_summary", "p0_count", "p1_count", "p2_count").
		Values(
			report.RunID,
			report.Generated,
			pq.StringArray(report.ManagerSummary),
			len(report.Groups[domain.PriorityP0]),
			len(report.Groups[domain.PriorityP1]),
			len(report.Groups[domain.PriorityP2]),
		)

	query, args, err := runInsert.ToSql()
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("build run insert: %w", err)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("insert run: %w", err)
	}

	if len(report.All) > 0 {
		itemInsert := r.builder.
			Insert("digest_items").
			Columns("run_id", "priority", "channel", "source", "item_type", "text", "owner", "due", "policy_reason")
		for _, it := range report.All {
			reason := ""
			if it.PriorityReason != nil {
				reason = it.PriorityReason.PolicyReason
			}
			itemInsert = itemInsert.Values(
				report.RunID, it.Priority, it.Channel, it.Source, it.Type, it.Text, it.Owner, it.Due, reason,
			)
		}
		query, args, err = itemInsert.ToSql()
		if err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("build item insert: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("insert items: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit run: %w", err)
	}
	return nil
}

// RecentRunIDs lists the ids of the latest runs, newest first.
func (r *PostgresRepository) RecentRunIDs(ctx context.Context, limit int) ([]string, error) {
	if r.db == nil || limit <= 0 {
		return nil, nil
	}

	query, args, err := r.builder.
		Select("run_id").
		From("digest_runs").
		OrderBy("generated DESC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build run query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan run id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}
	return ids, nil
}
