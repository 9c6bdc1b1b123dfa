package service

import (
	"roomie-match/internal/domain"
)

// Textos de veto por atributo, con el wording del sistema original.
const (
	reasonGender   = "Gender preferences do not match."
	reasonDrinking = "Both people cannot drink."
	reasonSmoking  = "Both people cannot smoke."
	reasonNotClean = "Both people are not clean."
	reasonPets     = "Both people cannot have pets."
)

// CompatibilityFilter aplica los vetos duros entre dos perfiles. Es una capa
// previa e independiente de la similitud semántica: un par con score alto
// igual puede quedar vetado. Una incompatibilidad es un resultado normal del
// dominio, nunca un error.
type CompatibilityFilter struct{}

// Check evalúa los atributos en orden fijo (género, bebida, fumar, limpieza,
// mascotas) y acumula todas las razones aplicables sin cortar en la primera.
// compatible es true si y sólo si no hay razones.
func (CompatibilityFilter) Check(subject, candidate domain.Profile) (bool, []string) {
	var reasons []string

	sr, st := subject.Requirements, subject.Traits
	cr, ct := candidate.Requirements, candidate.Traits

	// Género es categórico: conflicto si ambos lados están definidos y
	// difieren, en cualquiera de las dos direcciones.
	if genderConflict(sr, ct) || genderConflict(st, cr) {
		reasons = append(reasons, reasonGender)
	}

	if boolConflict(sr.Drinking, ct.Drinking, st.Drinking, cr.Drinking) {
		reasons = append(reasons, reasonDrinking)
	}
	if boolConflict(sr.Smoking, ct.Smoking, st.Smoking, cr.Smoking) {
		reasons = append(reasons, reasonSmoking)
	}
	if boolConflict(sr.NotClean, ct.NotClean, st.NotClean, cr.NotClean) {
		reasons = append(reasons, reasonNotClean)
	}
	if boolConflict(sr.Pets, ct.Pets, st.Pets, cr.Pets) {
		reasons = append(reasons, reasonPets)
	}

	return len(reasons) == 0, reasons
}

// boolConflict aplica la regla simétrica para banderas tri-estado: veto si el
// requisito de un lado y el rasgo del otro están ambos en true. Unset nunca
// participa de un veto.
func boolConflict(subjectReq, candidateTrait, subjectTrait, candidateReq domain.Tri) bool {
	return (subjectReq == domain.TriTrue && candidateTrait == domain.TriTrue) ||
		(subjectTrait == domain.TriTrue && candidateReq == domain.TriTrue)
}

func genderConflict(requirements, traits domain.PreferenceSet) bool {
	return requirements.GenderSet() && traits.GenderSet() && requirements.Gender != traits.Gender
}
