package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

const listClaimLines = `-- name: ListClaimLines :many
SELECT l.encounter_key, l.line_number, l.patient_id, l.doctor_id, l.procedure,
       l.line_diagnosis_code,
       h.diagnosis_code_1, h.diagnosis_code_2, h.diagnosis_code_3, h.diagnosis_code_4
FROM medical_service_lines l
INNER JOIN medical_headers h ON h.encounter_key = l.encounter_key
WHERE l.procedure = ANY($1::text[]) OR l.procedure = ANY($2::text[])
ORDER BY l.encounter_key, l.line_number, l.id
`

type ListClaimLinesParams struct {
	ScreeningCodes []string
	ResectionCodes []string
}

type ListClaimLinesRow struct {
	EncounterKey      string
	LineNumber        int32
	PatientID         pgtype.Text
	DoctorID          pgtype.Text
	Procedure         pgtype.Text
	LineDiagnosisCode pgtype.Text
	DiagnosisCode1    pgtype.Text
	DiagnosisCode2    pgtype.Text
	DiagnosisCode3    pgtype.Text
	DiagnosisCode4    pgtype.Text
}

func (q *Queries) ListClaimLines(ctx context.Context, arg ListClaimLinesParams) ([]ListClaimLinesRow, error) {
	rows, err := q.db.Query(ctx, listClaimLines, arg.ScreeningCodes, arg.ResectionCodes)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []ListClaimLinesRow
	for rows.Next() {
		var i ListClaimLinesRow
		if err := rows.Scan(
			&i.EncounterKey,
			&i.LineNumber,
			&i.PatientID,
			&i.DoctorID,
			&i.Procedure,
			&i.LineDiagnosisCode,
			&i.DiagnosisCode1,
			&i.DiagnosisCode2,
			&i.DiagnosisCode3,
			&i.DiagnosisCode4,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const insertHeader = `-- name: InsertHeader :exec
INSERT INTO medical_headers (
    encounter_key, patient_id, diagnosis_code_1, diagnosis_code_2, diagnosis_code_3, diagnosis_code_4
) VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT (encounter_key) DO NOTHING
`

type InsertHeaderParams struct {
	EncounterKey   string
	PatientID      pgtype.Text
	DiagnosisCode1 pgtype.Text
	DiagnosisCode2 pgtype.Text
	DiagnosisCode3 pgtype.Text
	DiagnosisCode4 pgtype.Text
}

// InsertHeaders queues one insert per header in a single batch round trip.
// Headers whose encounter_key already exists are skipped. Returns the number
// of rows actually inserted.
func (q *Queries) InsertHeaders(ctx context.Context, arg []InsertHeaderParams) (int64, error) {
	if len(arg) == 0 {
		return 0, nil
	}
	batch := &pgx.Batch{}
	for _, h := range arg {
		batch.Queue(insertHeader,
			h.EncounterKey,
			h.PatientID,
			h.DiagnosisCode1,
			h.DiagnosisCode2,
			h.DiagnosisCode3,
			h.DiagnosisCode4,
		)
	}

	br := q.db.SendBatch(ctx, batch)
	var inserted int64
	for i := range arg {
		tag, err := br.Exec()
		if err != nil {
			br.Close()
			return inserted, fmt.Errorf("header %q: %w", arg[i].EncounterKey, err)
		}
		inserted += tag.RowsAffected()
	}
	return inserted, br.Close()
}

type InsertServiceLinesParams struct {
	EncounterKey      string
	LineNumber        int32
	Procedure         pgtype.Text
	DoctorID          pgtype.Text
	PatientID         pgtype.Text
	LineDiagnosisCode pgtype.Text
}

// InsertServiceLines bulk-loads service lines via COPY.
func (q *Queries) InsertServiceLines(ctx context.Context, arg []InsertServiceLinesParams) (int64, error) {
	return q.db.CopyFrom(ctx,
		pgx.Identifier{"medical_service_lines"},
		[]string{"encounter_key", "line_number", "procedure", "doctor_id", "patient_id", "line_diagnosis_code"},
		pgx.CopyFromSlice(len(arg), func(i int) ([]any, error) {
			l := arg[i]
			return []any{l.EncounterKey, l.LineNumber, l.Procedure, l.DoctorID, l.PatientID, l.LineDiagnosisCode}, nil
		}),
	)
}

const countServiceLines = `-- name: CountServiceLines :one
SELECT count(*) FROM medical_service_lines
`

func (q *Queries) CountServiceLines(ctx context.Context) (int64, error) {
	row := q.db.QueryRow(ctx, countServiceLines)
	var count int64
	err := row.Scan(&count)
	return count, err
}
