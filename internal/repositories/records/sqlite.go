package records

import (
	"context"
	"fmt"

	"github.com/openfield/fieldsync/internal/dbx"
	"github.com/openfield/fieldsync/internal/models"
)

// SQLiteRepository implements Repository using a DBTX (either *sql.DB or *sql.Tx).
type SQLiteRepository struct {
	db dbx.DBTX
}

// NewSQLiteRepository returns a new SQLiteRepository bound to the given DBTX.
func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Create(ctx context.Context, rec *models.Record) error {
	query := `INSERT INTO records (uuid, form_id, data_point_id, device_id, submitted_at, duration, username, email, status)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, query,
		rec.UUID, rec.FormID, rec.DataPointID, rec.DeviceID, rec.SubmittedAt, rec.Duration, rec.Username, rec.Email, rec.Status)
	if err != nil {
		return fmt.Errorf("failed to insert record: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get record id: %w", err)
	}
	rec.ID = id
	return nil
}

func (r *SQLiteRepository) AddResponse(ctx context.Context, recordID int64, questionID string, typ models.AnswerType, value string) error {
	query := `INSERT INTO responses (record_id, question_id, type, answer) VALUES (?, ?, ?, ?)`
	if _, err := r.db.ExecContext(ctx, query, recordID, questionID, string(typ), value); err != nil {
		return fmt.Errorf("failed to insert response: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) ListByStatus(ctx context.Context, status models.RecordStatus) ([]models.Record, error) {
	query := `SELECT id, uuid, form_id, data_point_id, device_id, submitted_at, duration, status
			  FROM records WHERE status = ? ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query, status)
	if err != nil {
		return nil, fmt.Errorf("failed to select records: %w", err)
	}
	defer rows.Close()

	var result []models.Record
	for rows.Next() {
		var rec models.Record
		if err := rows.Scan(&rec.ID, &rec.UUID, &rec.FormID, &rec.DataPointID,
			&rec.DeviceID, &rec.SubmittedAt, &rec.Duration, &rec.Status); err != nil {
			return nil, err
		}
		result = append(result, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// ResponseRows joins each answer with the record metadata columns, so the
// caller sees the same repeated-metadata row shape a cursor over a joined
// survey table would produce.
func (r *SQLiteRepository) ResponseRows(ctx context.Context, recordID int64) ([]models.ResponseRow, error) {
	query := `SELECT rec.uuid, rec.form_id, rec.data_point_id, rec.submitted_at, rec.duration,
					 rec.username, rec.email, resp.question_id, resp.type, resp.answer
			  FROM responses resp
			  JOIN records rec ON rec.id = resp.record_id
			  WHERE resp.record_id = ?
			  ORDER BY resp.id`
	rows, err := r.db.QueryContext(ctx, query, recordID)
	if err != nil {
		return nil, fmt.Errorf("failed to select responses: %w", err)
	}
	defer rows.Close()

	var result []models.ResponseRow
	for rows.Next() {
		var row models.ResponseRow
		var typ string
		if err := rows.Scan(&row.UUID, &row.FormID, &row.DataPointID, &row.SubmittedAt,
			&row.DurationMillis, &row.Username, &row.Email, &row.QuestionID, &typ, &row.Value); err != nil {
			return nil, err
		}
		row.Type = models.AnswerType(typ)
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *SQLiteRepository) UpdateStatus(ctx context.Context, recordID int64, status models.RecordStatus) error {
	query := `UPDATE records SET status = ? WHERE id = ?`
	if _, err := r.db.ExecContext(ctx, query, status, recordID); err != nil {
		return fmt.Errorf("failed to update record status: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) FormIDs(ctx context.Context) ([]string, error) {
	query := `SELECT DISTINCT form_id FROM records ORDER BY form_id`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to select form ids: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return ids, nil
}
