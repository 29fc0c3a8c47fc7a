// Package cohort narrows fetched claim lines to benign-only encounters.
//
// The diagnosis fields examined are exactly those returned by
// claims.ClaimLine.DiagnosisCodes: line_diagnosis_code on the service line and
// diagnosis_code_1..4 on the encounter header. Procedure, doctor, patient and
// key columns are never scanned.
package cohort

import (
	"violationrate/claims"
	"violationrate/codes"
)

// Filter keeps lines that carry at least one benign diagnosis and no
// malignant diagnosis, then keeps only the first line for each
// (encounter_key, procedure) pair. Input order decides which line is first.
func Filter(lines []claims.ClaimLine, dx codes.DiagnosisCodes) []claims.ClaimLine {
	benignOnly := make([]claims.ClaimLine, 0, len(lines))
	for _, l := range lines {
		if IsBenignOnly(l, dx) {
			benignOnly = append(benignOnly, l)
		}
	}
	return DedupeEncounterProcedure(benignOnly)
}

// IsBenignOnly reports whether l has a benign code and no malignant code in
// any diagnosis field. Malignant presence always wins.
func IsBenignOnly(l claims.ClaimLine, dx codes.DiagnosisCodes) bool {
	diagnoses := l.DiagnosisCodes()
	if !dx.Benign.ContainsAny(diagnoses...) {
		return false
	}
	return !dx.Malignant.ContainsAny(diagnoses...)
}

type encounterProcedure struct {
	encounter string
	procedure string
}

// DedupeEncounterProcedure drops every line after the first for each
// (encounter_key, procedure) pair. One procedure billed on several lines of
// the same encounter counts once.
func DedupeEncounterProcedure(lines []claims.ClaimLine) []claims.ClaimLine {
	seen := make(map[encounterProcedure]bool, len(lines))
	out := make([]claims.ClaimLine, 0, len(lines))
	for _, l := range lines {
		k := encounterProcedure{l.EncounterKey, l.Procedure}
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, l)
	}
	return out
}
