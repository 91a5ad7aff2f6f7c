// Package store is the persistence interface the HTTP handlers consume:
// one record plus its attachments written or deleted as a unit, and the
// read shapes the admin pages need.
package store

import (
	"context"
	"database/sql"
	"strings"

	"github.com/pkg/errors"
	"survey-collector/database"
	"survey-collector/model"
)

// ErrNotFound reports a point lookup that matched nothing.
var ErrNotFound = errors.New("not found")

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// SaveSubmission writes one survey record and all its files in a single
// retried transaction. The record row goes in first so every file row
// references an existing record; either everything commits or nothing
// does.
func (s *Store) SaveSubmission(ctx context.Context, sub model.Submission, files []model.FileUpload) (recordID int, err error) {
	err = database.RetryWrite(ctx, s.db, func(tx *sql.Tx) error {
		err := tx.QueryRowContext(ctx, `
			INSERT INTO survey_records (q1, q2, q3, name, student_id, submit_time)
			VALUES (?, ?, ?, ?, ?, datetime('now','localtime'))
			RETURNING id`,
			sub.Q1, sub.Q2, sub.Q3, sub.Name, sub.StudentID,
		).Scan(&recordID)
		if err != nil {
			return errors.Wrap(err, "insert record")
		}

		if len(files) == 0 {
			return nil
		}

		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO survey_files (survey_id, file_name, file_blob, file_type)
			VALUES (?, ?, ?, ?)`)
		if err != nil {
			return errors.Wrap(err, "prepare file insert")
		}
		defer stmt.Close()

		for _, f := range files {
			_, err := stmt.ExecContext(ctx, recordID, f.Name, f.Blob, string(f.Type))
			if err != nil {
				return errors.Wrap(err, "insert file")
			}
		}
		return nil
	})
	return
}

// DeleteRecords removes the given records and all their files, files
// first. The reported count comes from the records delete inside the
// committed transaction, so a failed attempt can never leak a stale
// number.
func (s *Store) DeleteRecords(ctx context.Context, ids []int) (deleted int, err error) {
	if len(ids) == 0 {
		return 0, errors.New("empty id list")
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	err = database.RetryWrite(ctx, s.db, func(tx *sql.Tx) error {
		deleted = 0

		_, err := tx.ExecContext(ctx,
			"DELETE FROM survey_files WHERE survey_id IN ("+placeholders+")",
			args...,
		)
		if err != nil {
			return errors.Wrap(err, "delete files")
		}

		res, err := tx.ExecContext(ctx,
			"DELETE FROM survey_records WHERE id IN ("+placeholders+")",
			args...,
		)
		if err != nil {
			return errors.Wrap(err, "delete records")
		}

		n, err := res.RowsAffected()
		if err != nil {
			return errors.Wrap(err, "count deleted records")
		}
		deleted = int(n)
		return nil
	})
	return
}

// ListRecords returns every record, newest first, with its files in
// ascending id order. A record without files gets an empty, non-nil
// file list.
func (s *Store) ListRecords(ctx context.Context) ([]model.SurveyRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT r.id, r.q1, r.q2, r.q3, r.name, r.student_id, r.submit_time,
		       f.id, f.file_name, f.file_type
		FROM survey_records r
		LEFT OUTER JOIN survey_files f ON (r.id = f.survey_id)
		ORDER BY r.id DESC, f.id ASC`)
	if err != nil {
		return nil, errors.Wrap(err, "list records")
	}
	defer rows.Close()

	records := []model.SurveyRecord{}
	for rows.Next() {
		var r model.SurveyRecord
		var q1, q2, q3, name, studentID, submitTime sql.NullString
		var fileID sql.NullInt64
		var fileName, fileType sql.NullString
		err = rows.Scan(
			&r.ID, &q1, &q2, &q3, &name, &studentID, &submitTime,
			&fileID, &fileName, &fileType,
		)
		if err != nil {
			return nil, errors.Wrap(err, "scan record")
		}

		lastIdx := len(records) - 1
		if lastIdx < 0 || records[lastIdx].ID != r.ID {
			r.Q1, r.Q2, r.Q3 = q1.String, q2.String, q3.String
			r.Name, r.StudentID = name.String, studentID.String
			r.SubmitTime = submitTime.String
			r.Files = []model.FileSummary{}
			records = append(records, r)
			lastIdx++
		}

		if fileID.Valid {
			records[lastIdx].Files = append(records[lastIdx].Files, model.FileSummary{
				ID:   int(fileID.Int64),
				Name: fileName.String,
				Type: model.FileType(fileType.String),
			})
		}
	}
	return records, errors.Wrap(rows.Err(), "list records")
}

// FileByID fetches a single attachment blob.
func (s *Store) FileByID(ctx context.Context, id int) (model.StoredFile, error) {
	var f model.StoredFile
	err := s.db.QueryRowContext(ctx, `
		SELECT file_name, file_blob, file_type
		FROM survey_files
		WHERE id = ?`,
		id,
	).Scan(&f.Name, &f.Blob, &f.Type)
	if errors.Is(err, sql.ErrNoRows) {
		return f, ErrNotFound
	}
	if err != nil {
		return f, errors.Wrap(err, "get file")
	}
	return f, nil
}

// FilesForExport returns the attachments matching the bulk-export
// filters, joined to their owning record and ordered by submission time.
// typeFilter is one of all/image/word; date, when set, must match the
// date portion of the owning record's submit time exactly.
func (s *Store) FilesForExport(ctx context.Context, typeFilter, date string) ([]model.ExportFile, error) {
	query := `
		SELECT f.id, f.file_name, f.file_blob, f.file_type,
		       r.submit_time, r.id
		FROM survey_files f
		JOIN survey_records r ON (r.id = f.survey_id)
		WHERE 1=1`
	args := []any{}

	switch typeFilter {
	case string(model.FileTypeImage):
		query += " AND f.file_type = 'image'"
	case string(model.FileTypeWord):
		query += " AND f.file_type = 'word'"
	}
	if date != "" {
		query += " AND date(r.submit_time) = ?"
		args = append(args, date)
	}
	query += " ORDER BY r.submit_time ASC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "query export files")
	}
	defer rows.Close()

	files := []model.ExportFile{}
	for rows.Next() {
		var f model.ExportFile
		err = rows.Scan(&f.ID, &f.Name, &f.Blob, &f.Type, &f.SubmitTime, &f.RecordID)
		if err != nil {
			return nil, errors.Wrap(err, "scan export file")
		}
		files = append(files, f)
	}
	return files, errors.Wrap(rows.Err(), "query export files")
}
