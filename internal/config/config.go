package config

// Config is the analyzer driver's full configuration: GitHub
// credentials, where the cache and classification store live, and the
// per-run analysis defaults a caller can still override via flags.
type Config struct {
	GitHub        GitHubConfig        `yaml:"github"`
	Cache         CacheConfig         `yaml:"cache"`
	State         StateConfig         `yaml:"state"`
	Analysis      AnalysisConfig      `yaml:"analysis"`
	Output        OutputConfig        `yaml:"output"`
	Observability ObservabilityConfig `yaml:"observability"`
}

// GitHubConfig holds the credential and endpoint the GitHub adapter uses.
type GitHubConfig struct {
	Token   string `yaml:"token"`
	BaseURL string `yaml:"baseURL"`
}

// CacheConfig selects and locates the cache backend. Backend is one of
// "embedded" (bbolt file), "redis" (remote), or "none" (always miss).
type CacheConfig struct {
	Backend   string `yaml:"backend"`
	Path      string `yaml:"path"`
	RedisAddr string `yaml:"redisAddr"`
}

// StateConfig locates the classification state store's SQLite file.
type StateConfig struct {
	Path string `yaml:"path"`
}

// AnalysisConfig holds the default values for the analyzer.Options field
// set a caller can override per invocation.
type AnalysisConfig struct {
	ExcludeCheckNames []string `yaml:"excludeCheckNames"`
	ForceRefresh      bool     `yaml:"forceRefresh"`
	Deadline          string   `yaml:"deadline"`
}

// OutputConfig controls how the driver renders a PRAnalysisResult. Mode
// is "ai" (every exit code 0 except ERROR) or "semantic" (one exit code
// per PRStatus), per spec.md §6.3.
type OutputConfig struct {
	Mode string `yaml:"mode"`
}

// ObservabilityConfig configures the structured logging sink.
type ObservabilityConfig struct {
	Logging LoggingConfig `yaml:"logging"`
}

// LoggingConfig configures the zap-backed logger.
type LoggingConfig struct {
	Enabled bool   `yaml:"enabled"`
	Level   string `yaml:"level"`  // debug, info, warn, error
	Format  string `yaml:"format"` // json, human
}

// Merge combines multiple configuration instances, prioritising the
// latter ones, the way the driver layers defaults < file < env < flags.
func Merge(configs ...Config) Config {
	result := Config{}
	for _, cfg := range configs {
		result = merge(result, cfg)
	}
	return result
}

func merge(base, overlay Config) Config {
	result := base
	result.GitHub = chooseGitHub(base.GitHub, overlay.GitHub)
	result.Cache = chooseCache(base.Cache, overlay.Cache)
	result.State = chooseState(base.State, overlay.State)
	result.Analysis = chooseAnalysis(base.Analysis, overlay.Analysis)
	result.Output = chooseOutput(base.Output, overlay.Output)
	result.Observability = chooseObservability(base.Observability, overlay.Observability)
	return result
}

func chooseGitHub(base, overlay GitHubConfig) GitHubConfig {
	if overlay.Token != "" {
		base.Token = overlay.Token
	}
	if overlay.BaseURL != "" {
		base.BaseURL = overlay.BaseURL
	}
	return base
}

func chooseCache(base, overlay CacheConfig) CacheConfig {
	if overlay.Backend != "" {
		base.Backend = overlay.Backend
	}
	if overlay.Path != "" {
		base.Path = overlay.Path
	}
	if overlay.RedisAddr != "" {
		base.RedisAddr = overlay.RedisAddr
	}
	return base
}

func chooseState(base, overlay StateConfig) StateConfig {
	if overlay.Path != "" {
		base.Path = overlay.Path
	}
	return base
}

func chooseAnalysis(base, overlay AnalysisConfig) AnalysisConfig {
	if len(overlay.ExcludeCheckNames) > 0 {
		base.ExcludeCheckNames = overlay.ExcludeCheckNames
	}
	if overlay.ForceRefresh {
		base.ForceRefresh = true
	}
	if overlay.Deadline != "" {
		base.Deadline = overlay.Deadline
	}
	return base
}

func chooseOutput(base, overlay OutputConfig) OutputConfig {
	if overlay.Mode != "" {
		base.Mode = overlay.Mode
	}
	return base
}

func chooseObservability(base, overlay ObservabilityConfig) ObservabilityConfig {
	if overlay.Logging.Level != "" || overlay.Logging.Format != "" || overlay.Logging.Enabled {
		base.Logging = overlay.Logging
	}
	return base
}
