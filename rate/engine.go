// Package rate turns a benign-only claims cohort into per-physician
// violation rates.
//
// A physician's denominator is the number of distinct (encounter, patient)
// screening events they performed in the cohort. The numerator counts the
// distinct (encounter, patient) resection events billed by that same
// physician. Physicians who never billed a resection are reported with a zero
// numerator.
package rate

import (
	"sort"

	"github.com/rs/zerolog"

	"violationrate/claims"
	"violationrate/codes"
)

// PhysicianRate is one row of the rate table.
type PhysicianRate struct {
	Doctor        string
	Numerator     int
	Denominator   int
	ViolationRate float64
	// Flagged is true when the physician billed at least one resection.
	Flagged bool
}

// Table is the rate table: flagged physicians first, then unflagged ones,
// each half ordered by doctor id.
type Table struct {
	Rows []PhysicianRate
}

// Flagged returns the rows with a positive numerator.
func (t *Table) Flagged() []PhysicianRate {
	var out []PhysicianRate
	for _, r := range t.Rows {
		if r.Flagged {
			out = append(out, r)
		}
	}
	return out
}

// Lookup returns the row for doctor, if present.
func (t *Table) Lookup(doctor string) (PhysicianRate, bool) {
	for _, r := range t.Rows {
		if r.Doctor == doctor {
			return r, true
		}
	}
	return PhysicianRate{}, false
}

// Engine computes rate tables. The zero value logs nothing.
type Engine struct {
	Log zerolog.Logger
}

// Compute builds the rate table for a filtered cohort.
func (e *Engine) Compute(cohort []claims.ClaimLine, procs codes.ProcedureCodes) *Table {
	screening, resection := partition(cohort, procs)
	screening = dedupeEncounterPatient(screening)
	resection = dedupeEncounterPatient(resection)

	screeningDoctors := doctorSet(screening)

	var flaggedRows []claims.ClaimLine
	for _, l := range resection {
		if screeningDoctors[l.DoctorID] {
			flaggedRows = append(flaggedRows, l)
		}
	}
	flaggedDoctors := doctorSet(flaggedRows)

	numerator := countByDoctor(flaggedRows, nil)
	flaggedDenominator := countByDoctor(screening, func(doctor string) bool {
		return flaggedDoctors[doctor]
	})
	unflaggedDenominator := countByDoctor(screening, func(doctor string) bool {
		return !flaggedDoctors[doctor]
	})

	table := &Table{Rows: make([]PhysicianRate, 0, len(screeningDoctors))}

	// Inner join of numerator and denominator on doctor.
	for _, doctor := range sortedKeys(numerator) {
		den, ok := flaggedDenominator[doctor]
		if !ok {
			continue
		}
		num := numerator[doctor]
		table.Rows = append(table.Rows, PhysicianRate{
			Doctor:        doctor,
			Numerator:     num,
			Denominator:   den,
			ViolationRate: ratio(num, den),
			Flagged:       true,
		})
	}

	for _, doctor := range sortedKeys(unflaggedDenominator) {
		table.Rows = append(table.Rows, PhysicianRate{
			Doctor:        doctor,
			Numerator:     0,
			Denominator:   unflaggedDenominator[doctor],
			ViolationRate: 0,
		})
	}

	e.Log.Debug().
		Int("cohort", len(cohort)).
		Int("screening", len(screening)).
		Int("resection", len(resection)).
		Int("screening_doctors", len(screeningDoctors)).
		Int("flagged_doctors", len(flaggedDoctors)).
		Msg("rate table computed")

	return table
}

// partition splits lines by exact procedure code membership. Lines whose
// procedure is in neither set are dropped.
func partition(lines []claims.ClaimLine, procs codes.ProcedureCodes) (screening, resection []claims.ClaimLine) {
	for _, l := range lines {
		switch {
		case procs.Screening.Contains(l.Procedure):
			screening = append(screening, l)
		case procs.Resection.Contains(l.Procedure):
			resection = append(resection, l)
		}
	}
	return screening, resection
}

type encounterPatient struct {
	encounter string
	patient   string
}

// dedupeEncounterPatient keeps the first line per (encounter_key, patient_id).
func dedupeEncounterPatient(lines []claims.ClaimLine) []claims.ClaimLine {
	seen := make(map[encounterPatient]bool, len(lines))
	out := make([]claims.ClaimLine, 0, len(lines))
	for _, l := range lines {
		k := encounterPatient{l.EncounterKey, l.PatientID}
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, l)
	}
	return out
}

func doctorSet(lines []claims.ClaimLine) map[string]bool {
	set := make(map[string]bool)
	for _, l := range lines {
		set[l.DoctorID] = true
	}
	return set
}

// countByDoctor counts lines per doctor, restricted to doctors accepted by
// keep (all doctors when keep is nil).
func countByDoctor(lines []claims.ClaimLine, keep func(doctor string) bool) map[string]int {
	counts := make(map[string]int)
	for _, l := range lines {
		if keep != nil && !keep(l.DoctorID) {
			continue
		}
		counts[l.DoctorID]++
	}
	return counts
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// ratio divides, reporting 0 rather than NaN or Inf for an empty denominator.
func ratio(num, den int) float64 {
	if den == 0 {
		return 0
	}
	return float64(num) / float64(den)
}
