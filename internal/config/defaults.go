package config

// DefaultPath is the configuration file looked up in the working directory.
const DefaultPath = ".textlens.yml"

// DefaultExtensions are the file types the detector accepts.
var DefaultExtensions = []string{".txt", ".pdf", ".docx", ".html"}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		APIURL:            "http://127.0.0.1:8000",
		TimeoutSeconds:    30,
		MaxTextLength:     10000,
		DataDir:           ".textlens",
		Port:              8080,
		AllowAllOrigins:   false,
		RequestsPerMinute: 0,
		SaveHistory:       true,
		Metrics:           true,
		AllowedExtensions: append([]string(nil), DefaultExtensions...),
		MaxFileSize:       10 << 20,
	}
}
