package config

// DefaultConfig returns a Config populated with all default values.
func DefaultConfig() *Config {
	return &Config{
		Storage: StorageConfig{
			Path:              "~/.config/wordsmith",
			SQLiteFile:        "wordsmith.db",
			SQLiteJournalMode: "wal",
		},
		Server: ServerConfig{
			Host:                "127.0.0.1",
			Port:                8080,
			ReadTimeoutSeconds:  30,
			WriteTimeoutSeconds: 60,
			IdleTimeoutSeconds:  120,
			MaxFormBytes:        1 << 20,
		},
		Logging: LoggingConfig{
			Level: "info",
			File:  "",
			JSON:  true,
		},
		Chart: ChartConfig{
			WidthInches:  10,
			HeightInches: 6,
			BarColor:     "#198754",
			Title:        "Word Length Distribution",
		},
		Catalog: CatalogConfig{
			Categories: DefaultCategories(),
			PageSize:   50,
		},
	}
}
