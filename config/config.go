package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
)

// SystemConfig is the machine-level settings file (settings.toml).
type SystemConfig struct {
	DataDirectory string `toml:"data_directory"`
}

// AgentConfig selects and configures the agent backend.
type AgentConfig struct {
	Backend string `toml:"backend"`
	BaseURL string `toml:"base_url,omitempty"`
	Model   string `toml:"model,omitempty"`
	AgentID string `toml:"agent_id,omitempty"`
}

// SpeechConfig configures voice capture.
type SpeechConfig struct {
	// CaptureCommand is a shell command emitting transcript lines on
	// stdout. Empty means speech capture is unavailable and commands
	// are typed instead.
	CaptureCommand string `toml:"capture_command,omitempty"`
}

// HistoryConfig configures history persistence.
type HistoryConfig struct {
	Backend string `toml:"backend"` // "file" or "sqlite"
}

// UserConfig is the per-data-directory settings file (config.toml).
type UserConfig struct {
	Agent       AgentConfig    `toml:"agent"`
	Speech      SpeechConfig   `toml:"speech"`
	History     HistoryConfig  `toml:"history"`
	Credentials SecurityMethod `toml:"credentials,omitempty"`
	SSHKeyPath  string         `toml:"ssh_key_path,omitempty"`
}

// Config is the resolved runtime configuration.
type Config struct {
	DataDirectory  string
	AgentBackend   string
	AgentBaseURL   string
	AgentModel     string
	AgentID        string
	CaptureCommand string
	HistoryBackend string
	Credentials    SecurityMethod
	SSHKeyPath     string
}

var Debug = false
var DebugLog *log.Logger

func (c *Config) DataDir() string {
	return ExpandPath(c.DataDirectory)
}

func (c *Config) applyEnvOverrides() {
	if dataDir := os.Getenv("VACT_DATA_DIR"); dataDir != "" {
		c.DataDirectory = dataDir
	}
	if backend := os.Getenv("VACT_AGENT_BACKEND"); backend != "" {
		c.AgentBackend = backend
	}
	if agentID := os.Getenv("VACT_AGENT_ID"); agentID != "" {
		c.AgentID = agentID
	}
}

func CheckDebug() bool {
	debug := os.Getenv("VACT_DEBUG")
	return debug == "true" || debug == "1"
}

func InitDebugLog(dataDir string) {
	if !CheckDebug() {
		return
	}

	Debug = true
	logPath := filepath.Join(dataDir, "debug.log")

	// 0600 - the log may contain command text
	f, err := os.OpenFile(logPath, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0600)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Could not open debug log at %s: %v\n", logPath, err)
		return
	}

	DebugLog = log.New(f, "", log.Ldate|log.Ltime|log.Lmicroseconds|log.Lshortfile)
	DebugLog.Printf("=== Debug logging started (VACT_DEBUG=%s) ===", os.Getenv("VACT_DEBUG"))
}

// Load resolves the runtime configuration from the settings files,
// creating defaults on first run, then applies env overrides and makes
// sure the data directory exists.
func Load() (*Config, error) {
	cfg := &Config{
		DataDirectory:  GetDefaultDataDir(),
		AgentBackend:   "voiceaction",
		HistoryBackend: "file",
		Credentials:    SecurityPlainText,
	}

	systemCfg, err := LoadSystemConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load system config: %w", err)
	}
	if systemCfg.DataDirectory != "" {
		cfg.DataDirectory = systemCfg.DataDirectory
	}

	cfg.applyEnvOverrides()

	dataDir := cfg.DataDir()
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	userCfg, err := LoadUserConfig(dataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load user config: %w", err)
	}
	if userCfg.Agent.Backend != "" {
		cfg.AgentBackend = userCfg.Agent.Backend
	}
	cfg.AgentBaseURL = userCfg.Agent.BaseURL
	cfg.AgentModel = userCfg.Agent.Model
	if userCfg.Agent.AgentID != "" {
		cfg.AgentID = userCfg.Agent.AgentID
	}
	cfg.CaptureCommand = userCfg.Speech.CaptureCommand
	if userCfg.History.Backend != "" {
		cfg.HistoryBackend = userCfg.History.Backend
	}
	if userCfg.Credentials != "" {
		cfg.Credentials = userCfg.Credentials
	}
	cfg.SSHKeyPath = userCfg.SSHKeyPath

	cfg.applyEnvOverrides()

	return cfg, nil
}
