// Package geo holds the fixed mapping between French regions and their
// department codes. The table is data, not configuration: both upstream APIs
// filter by department code, and the mapping only changes when the
// administrative map of France does.
package geo

// UnknownRegion is returned for department codes that belong to no region.
const UnknownRegion = "Inconnue"

var metropolitanRegions = map[string][]string{
	"Auvergne-Rhône-Alpes":       {"01", "03", "07", "15", "26", "38", "42", "43", "63", "69", "73", "74"},
	"Bourgogne-Franche-Comté":    {"21", "25", "39", "58", "70", "71", "89", "90"},
	"Bretagne":                   {"22", "29", "35", "56"},
	"Centre-Val de Loire":        {"18", "28", "36", "37", "41", "45"},
	"Corse":                      {"2A", "2B"},
	"Grand Est":                  {"08", "10", "51", "52", "54", "55", "57", "67", "68", "88"},
	"Hauts-de-France":            {"02", "59", "60", "62", "80"},
	"Île-de-France":              {"75", "77", "78", "91", "92", "93", "94", "95"},
	"Normandie":                  {"14", "27", "50", "61", "76"},
	"Nouvelle-Aquitaine":         {"16", "17", "19", "23", "24", "33", "40", "47", "64", "79", "86", "87"},
	"Occitanie":                  {"09", "11", "12", "30", "31", "32", "34", "46", "48", "65", "66", "81", "82"},
	"Pays de la Loire":           {"44", "49", "53", "72", "85"},
	"Provence-Alpes-Côte d'Azur": {"04", "05", "06", "13", "83", "84"},
}

var overseasRegions = map[string][]string{
	"Guadeloupe": {"971"},
	"Martinique": {"972"},
	"Guyane":     {"973"},
	"La Réunion": {"974"},
	"Mayotte":    {"976"},
}

// regionByDepartment is the reverse index, built once at init.
var regionByDepartment = func() map[string]string {
	idx := make(map[string]string)
	for region, depts := range metropolitanRegions {
		for _, d := range depts {
			idx[d] = region
		}
	}
	for region, depts := range overseasRegions {
		for _, d := range depts {
			idx[d] = region
		}
	}
	return idx
}()

// DepartmentsOf returns the department codes of a region, in their canonical
// order. Unknown regions yield an empty slice.
func DepartmentsOf(region string) []string {
	if depts, ok := metropolitanRegions[region]; ok {
		return append([]string(nil), depts...)
	}
	if depts, ok := overseasRegions[region]; ok {
		return append([]string(nil), depts...)
	}
	return []string{}
}

// RegionOf returns the region a department code belongs to, or UnknownRegion.
func RegionOf(department string) string {
	if region, ok := regionByDepartment[department]; ok {
		return region
	}
	return UnknownRegion
}

// MetropolitanRegions returns the 13 metropolitan region names.
func MetropolitanRegions() []string {
	return []string{
		"Auvergne-Rhône-Alpes",
		"Bourgogne-Franche-Comté",
		"Bretagne",
		"Centre-Val de Loire",
		"Corse",
		"Grand Est",
		"Hauts-de-France",
		"Île-de-France",
		"Normandie",
		"Nouvelle-Aquitaine",
		"Occitanie",
		"Pays de la Loire",
		"Provence-Alpes-Côte d'Azur",
	}
}

// OverseasRegions returns the 5 overseas region names.
func OverseasRegions() []string {
	return []string{
		"Guadeloupe",
		"Martinique",
		"Guyane",
		"La Réunion",
		"Mayotte",
	}
}

// AllRegions returns every region name, metropolitan first.
func AllRegions() []string {
	return append(MetropolitanRegions(), OverseasRegions()...)
}

// AllMetropolitanDepartments returns the 96 metropolitan department codes in
// ascending order (Corsica's 2A/2B sort between 29 and 30).
func AllMetropolitanDepartments() []string {
	return []string{
		"01", "02", "03", "04", "05", "06", "07", "08", "09", "10",
		"11", "12", "13", "14", "15", "16", "17", "18", "19", "21",
		"22", "23", "24", "25", "26", "27", "28", "29", "2A", "2B",
		"30", "31", "32", "33", "34", "35", "36", "37", "38", "39",
		"40", "41", "42", "43", "44", "45", "46", "47", "48", "49",
		"50", "51", "52", "53", "54", "55", "56", "57", "58", "59",
		"60", "61", "62", "63", "64", "65", "66", "67", "68", "69",
		"70", "71", "72", "73", "74", "75", "76", "77", "78", "79",
		"80", "81", "82", "83", "84", "85", "86", "87", "88", "89",
		"90", "91", "92", "93", "94", "95",
	}
}

// AllOverseasDepartments returns the overseas department codes.
func AllOverseasDepartments() []string {
	return []string{"971", "972", "973", "974", "976"}
}

// AllDepartments returns every department code, metropolitan then overseas.
func AllDepartments() []string {
	return append(AllMetropolitanDepartments(), AllOverseasDepartments()...)
}

// IsValidRegion reports whether the name is a known region.
func IsValidRegion(region string) bool {
	_, metro := metropolitanRegions[region]
	_, overseas := overseasRegions[region]
	return metro || overseas
}
