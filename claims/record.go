package claims

import (
	"github.com/jackc/pgx/v5/pgtype"

	"violationrate/db"
)

// ClaimRecord is one denormalized row of a Parquet claims extract: a service
// line carrying its encounter header's diagnosis codes. Header fields repeat
// for every line of an encounter; the first line of an encounter defines the
// header that gets stored.
type ClaimRecord struct {
	EncounterKey string  `parquet:"encounter_key"`
	LineNumber   int32   `parquet:"line_number"`
	Procedure    *string `parquet:"procedure,optional"`
	DoctorID     *string `parquet:"doctor_id,optional"`
	PatientID    *string `parquet:"patient_id,optional"`

	LineDiagnosisCode *string `parquet:"line_diagnosis_code,optional"`

	DiagnosisCode1 *string `parquet:"diagnosis_code_1,optional"`
	DiagnosisCode2 *string `parquet:"diagnosis_code_2,optional"`
	DiagnosisCode3 *string `parquet:"diagnosis_code_3,optional"`
	DiagnosisCode4 *string `parquet:"diagnosis_code_4,optional"`
}

func (r *ClaimRecord) header() db.InsertHeaderParams {
	return db.InsertHeaderParams{
		EncounterKey:   r.EncounterKey,
		PatientID:      optToPgText(r.PatientID),
		DiagnosisCode1: optToPgText(r.DiagnosisCode1),
		DiagnosisCode2: optToPgText(r.DiagnosisCode2),
		DiagnosisCode3: optToPgText(r.DiagnosisCode3),
		DiagnosisCode4: optToPgText(r.DiagnosisCode4),
	}
}

func (r *ClaimRecord) serviceLine() db.InsertServiceLinesParams {
	return db.InsertServiceLinesParams{
		EncounterKey:      r.EncounterKey,
		LineNumber:        r.LineNumber,
		Procedure:         optToPgText(r.Procedure),
		DoctorID:          optToPgText(r.DoctorID),
		PatientID:         optToPgText(r.PatientID),
		LineDiagnosisCode: optToPgText(r.LineDiagnosisCode),
	}
}

func optToPgText(s *string) pgtype.Text {
	if s == nil || *s == "" {
		return pgtype.Text{Valid: false}
	}
	return pgtype.Text{String: *s, Valid: true}
}
