package query

import "strings"

// alternativeGroup binds one generic medicine name to its common Indian
// retail brands. Slice order keeps lookups deterministic.
type alternativeGroup struct {
	generic string
	brands  []string
}

// alternativeGroups is the static generic<->brand table.
var alternativeGroups = []alternativeGroup{
	{"paracetamol", []string{"dolo", "crocin", "calpol", "pacimol", "pyrigesic"}},
	{"ibuprofen", []string{"brufen", "ibugesic", "combiflam"}},
	{"cetirizine", []string{"cetzine", "alerid", "zyrtec", "okacet"}},
	{"azithromycin", []string{"azithral", "zithromax", "azee"}},
	{"amoxicillin", []string{"mox", "novamox", "amoxil"}},
	{"omeprazole", []string{"omez", "ocid", "omecip"}},
	{"metformin", []string{"glycomet", "glucophage", "obimet"}},
	{"atorvastatin", []string{"atorva", "lipitor", "storvas"}},
	{"pantoprazole", []string{"pan", "pantop", "pantocid"}},
	{"montelukast", []string{"montair", "montek", "singulair"}},
}

// alternativesFor returns known alternative names for a base medicine name.
// A generic yields its brands; a brand yields the generic plus sibling
// brands. Unknown names yield nil.
func alternativesFor(baseName string) []string {
	tokens := strings.Fields(strings.ToLower(baseName))
	if len(tokens) == 0 {
		return nil
	}
	has := func(name string) bool {
		for _, t := range tokens {
			if t == name {
				return true
			}
		}
		return false
	}

	for _, group := range alternativeGroups {
		if has(group.generic) {
			alts := make([]string, len(group.brands))
			copy(alts, group.brands)
			return alts
		}
		for _, brand := range group.brands {
			if has(brand) {
				alts := make([]string, 0, len(group.brands))
				alts = append(alts, group.generic)
				for _, sibling := range group.brands {
					if sibling != brand {
						alts = append(alts, sibling)
					}
				}
				return alts
			}
		}
	}
	return nil
}
