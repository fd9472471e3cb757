package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// DefaultSystemConfig returns the built-in machine-level settings.
func DefaultSystemConfig() *SystemConfig {
	return &SystemConfig{
		DataDirectory: GetDefaultDataDir(),
	}
}

// DefaultUserConfig returns the built-in per-data-directory settings.
func DefaultUserConfig() *UserConfig {
	return &UserConfig{
		Agent: AgentConfig{
			Backend: "voiceaction",
		},
		History: HistoryConfig{
			Backend: "file",
		},
		Credentials: SecurityPlainText,
	}
}

// CreateDefaultSystemConfig writes the commented default settings.toml.
func CreateDefaultSystemConfig() error {
	configDir := GetConfigDir()
	if err := os.MkdirAll(configDir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	content := fmt.Sprintf(`# vact settings
# Where history and credentials live.
data_directory = %q
`, GetDefaultDataDir())

	return os.WriteFile(GetSettingsFilePath(), []byte(content), 0600)
}

// CreateDefaultUserConfig writes the commented default config.toml into
// the data directory.
func CreateDefaultUserConfig(dataDir string) error {
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	content := `# vact configuration

[agent]
# Backend fulfilling commands: "voiceaction", "openai", "anthropic" or "ollama".
backend = "voiceaction"
# base_url = "https://agents.example.com"
# model = ""
# agent_id = ""

[speech]
# Shell command emitting transcript lines on stdout while listening.
# Leave empty to type commands instead.
# capture_command = "hear -m"

[history]
# History persistence: "file" or "sqlite".
backend = "file"

# Credential storage: "plaintext" or "ssh_key".
# credentials = "plaintext"
# ssh_key_path = "~/.ssh/id_ed25519"
`

	return os.WriteFile(filepath.Join(dataDir, "config.toml"), []byte(content), 0600)
}
