package claims

import (
	"violationrate/db"
)

// HeaderDiagnosisFields names the encounter-header diagnosis columns, in the
// order they are stored in ClaimLine.HeaderDiagnoses.
var HeaderDiagnosisFields = [4]string{
	"diagnosis_code_1",
	"diagnosis_code_2",
	"diagnosis_code_3",
	"diagnosis_code_4",
}

// LineDiagnosisField is the service-line level diagnosis column.
const LineDiagnosisField = "line_diagnosis_code"

// ClaimLine is one billed service line joined with its encounter header.
// Empty strings stand for NULL diagnosis values.
type ClaimLine struct {
	EncounterKey    string
	LineNumber      int32
	PatientID       string
	DoctorID        string
	Procedure       string
	LineDiagnosis   string
	HeaderDiagnoses [4]string
}

// DiagnosisCodes returns the values of every diagnosis-bearing field:
// line_diagnosis_code then diagnosis_code_1..4. Blank fields are omitted.
func (l ClaimLine) DiagnosisCodes() []string {
	out := make([]string, 0, 1+len(l.HeaderDiagnoses))
	if l.LineDiagnosis != "" {
		out = append(out, l.LineDiagnosis)
	}
	for _, d := range l.HeaderDiagnoses {
		if d != "" {
			out = append(out, d)
		}
	}
	return out
}

// fromRow converts a query row, rejecting rows with a NULL key column.
func fromRow(r db.ListClaimLinesRow) (ClaimLine, error) {
	for _, k := range []struct {
		name  string
		valid bool
	}{
		{"patient_id", r.PatientID.Valid && r.PatientID.String != ""},
		{"doctor_id", r.DoctorID.Valid && r.DoctorID.String != ""},
		{"procedure", r.Procedure.Valid && r.Procedure.String != ""},
	} {
		if !k.valid {
			return ClaimLine{}, &MalformedRowError{EncounterKey: r.EncounterKey, LineNumber: r.LineNumber, Column: k.name}
		}
	}
	if r.EncounterKey == "" {
		return ClaimLine{}, &MalformedRowError{LineNumber: r.LineNumber, Column: "encounter_key"}
	}

	return ClaimLine{
		EncounterKey:  r.EncounterKey,
		LineNumber:    r.LineNumber,
		PatientID:     r.PatientID.String,
		DoctorID:      r.DoctorID.String,
		Procedure:     r.Procedure.String,
		LineDiagnosis: r.LineDiagnosisCode.String,
		HeaderDiagnoses: [4]string{
			r.DiagnosisCode1.String,
			r.DiagnosisCode2.String,
			r.DiagnosisCode3.String,
			r.DiagnosisCode4.String,
		},
	}, nil
}
