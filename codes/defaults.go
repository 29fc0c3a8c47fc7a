package codes

// Colonoscopy CPT codes: diagnostic, biopsy, foreign body removal, and the
// polypectomy/ablation variants.
var DefaultScreening = []string{
	"45378", "45380", "45381", "45382", "45383", "45384", "45385", "45388",
}

// Colectomy CPT codes, open (44110–44160) and laparoscopic (44204–44212).
var DefaultResection = []string{
	"44110", "44146", "44150", "44151", "44152", "44153", "44154", "44155", "44156",
	"44157", "44158", "44159", "44160", "44204", "44205", "44206", "44207", "44208", "44209",
	"44210", "44211", "44212",
}

// ICD-9 benign neoplasm of colon / rectum.
var DefaultBenign = []string{"211.3", "211.4"}

// ICD-9 malignant neoplasm of small intestine.
var DefaultMalignant = []string{
	"152.0", "152.1", "152.2", "152.3", "152.4",
	"152.5", "152.6", "152.7", "152.8", "152.9",
}

// Default returns the built-in catalog.
func Default() *Catalog {
	c, err := New(
		NewSet(DefaultScreening...),
		NewSet(DefaultResection...),
		NewSet(DefaultBenign...),
		NewSet(DefaultMalignant...),
	)
	if err != nil {
		panic("codes: invalid default catalog: " + err.Error())
	}
	return c
}
