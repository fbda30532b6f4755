package sirene

// nafDescriptions labels the IT activity codes the application targets.
var nafDescriptions = map[string]string{
	"62.01Z": "Programmation informatique",
	"62.02A": "Conseil systèmes informatiques",
	"62.02B": "Tierce maintenance informatique",
	"62.03Z": "Gestion installations informatiques",
	"62.09Z": "Autres activités informatiques",
	"63.11Z": "Traitement de données",
	"63.12Z": "Portails Internet",
}

// NAFDescription returns the French label of an activity code, falling back
// to a generic sector label for codes outside the known set.
func NAFDescription(nafCode string) string {
	if desc, ok := nafDescriptions[nafCode]; ok {
		return desc
	}
	return "Informatique"
}
