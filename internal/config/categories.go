package config

// DefaultCategories returns the enumerated set of catalog categories a text
// may belong to. The schema migration seeds the same names; entries added
// to catalog.categories in the config file are created at startup.
func DefaultCategories() []string {
	return []string{
		"Science",
		"Literature",
		"History",
		"Technology",
		"Philosophy",
		"Fiction",
	}
}
