package config

// ApplyDefaults sets default values for any zero values in cfg.
func ApplyDefaults(cfg *Config) {
	if cfg.Storage.DatabasePath == "" {
		cfg.Storage.DatabasePath = "./paperfeed.db"
	}
	if cfg.Storage.BleveIndexPath == "" {
		cfg.Storage.BleveIndexPath = "./paperfeed.bleve"
	}
	if cfg.Fetch.Timeout == "" {
		cfg.Fetch.Timeout = "15s"
	}
	if cfg.Fetch.UserAgent == "" {
		cfg.Fetch.UserAgent = "paperfeed/1.0 (+https://github.com/wayfarer/paperfeed)"
	}
	if cfg.Export.Path == "" {
		cfg.Export.Path = "./relevant_articles.txt"
	}
	if cfg.Scoring.PrimaryKeywords == nil && cfg.Scoring.ContextKeywords == nil {
		cfg.Scoring.PrimaryKeywords = defaultPrimaryKeywords()
		cfg.Scoring.ContextKeywords = defaultContextKeywords()
		if cfg.Scoring.MinScore == 0 {
			cfg.Scoring.MinScore = 3
		}
	}
}

// defaultPrimaryKeywords returns the core topical terms used when the config
// carries no scoring section.
func defaultPrimaryKeywords() map[string]int {
	return map[string]int{
		"artificial intelligence": 3,
		"machine learning":        3,
		"ai":                      2,
		"chatgpt":                 2,
		"generative ai":           3,
		"large language model":    3,
		"llm":                     2,
		"deep learning":           2,
	}
}

// defaultContextKeywords returns the supporting domain terms used when the
// config carries no scoring section.
func defaultContextKeywords() map[string]int {
	return map[string]int{
		"administrator":            2,
		"principal":                2,
		"school leadership":        2,
		"decision making":          2,
		"teacher":                  2,
		"pedagogy":                 2,
		"instruction":              2,
		"classroom":                1,
		"secondary school":         2,
		"k-12":                     2,
		"high school":              2,
		"professional development": 1,
		"adoption":                 2,
		"implementation":           1,
	}
}
