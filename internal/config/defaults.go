package config

// Default configuration values.
const (
	DefaultDatabase   = "sqlgate.db"
	DefaultSchemaMode = SchemaModeAuto
	DefaultOutput     = "table"
	DefaultLogLevel   = "info"
	EnvPrefix         = "SQLGATE_"
)

// ConfigFileNames are searched in order in the working directory.
var ConfigFileNames = []string{"sqlgate.yaml", "sqlgate.yml"}

func defaults() map[string]interface{} {
	return map[string]interface{}{
		"database":    DefaultDatabase,
		"schema_mode": DefaultSchemaMode,
		"output":      DefaultOutput,
		"log_level":   DefaultLogLevel,
		"verbose":     false,
	}
}
