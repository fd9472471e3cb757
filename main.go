package main

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"vact/agent"
	"vact/config"
	"vact/model"
	"vact/speech"
	"vact/storage"
	"vact/ui"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize debug logging after config is loaded
	config.InitDebugLog(cfg.DataDir())

	if len(os.Args) > 1 && os.Args[1] == "set-key" {
		if err := runSetKey(cfg, os.Args[2:]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	kv, cleanup, err := openKV(cfg)
	if err != nil {
		fmt.Printf("Failed to open history storage: %v\n", err)
		os.Exit(1)
	}
	defer cleanup()

	history := storage.NewHistoryStore(kv)
	if err := history.Load(); err != nil {
		// Tolerated: the store starts empty and the saved payload is
		// left untouched until the next successful command.
		if config.DebugLog != nil {
			config.DebugLog.Printf("[Main] history load failed: %v", err)
		}
	}

	credentials := config.NewCredentialStore(cfg.Credentials, cfg.SSHKeyPath)
	if err := credentials.Load(cfg.DataDir()); err != nil {
		fmt.Printf("Failed to load credentials: %v\n", err)
		os.Exit(1)
	}

	invoker, err := agent.NewInvoker(agent.Config{
		Type:    agent.BackendType(cfg.AgentBackend),
		BaseURL: cfg.AgentBaseURL,
		Model:   cfg.AgentModel,
		APIKey:  credentials.Get(cfg.AgentBackend),
	})
	if err != nil {
		fmt.Printf("Failed to initialize agent backend: %v\n", err)
		os.Exit(1)
	}

	var capture speech.Capture
	if cfg.CaptureCommand != "" {
		capture = speech.NewCommandCapture(cfg.CaptureCommand)
	} else {
		capture = speech.Unsupported{}
	}

	session := model.NewSession(capture, invoker, history, cfg.AgentID)

	p := tea.NewProgram(
		ui.NewAppView(session, history, time.Now),
		tea.WithAltScreen(),
	)

	if _, err := p.Run(); err != nil {
		fmt.Printf("Error running vact: %v\n", err)
		os.Exit(1)
	}
}

// runSetKey stores an API key for a backend in credentials.toml,
// encrypted first when the ssh_key method is configured. The key is read
// from stdin so it never lands in shell history.
func runSetKey(cfg *config.Config, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: vact set-key <backend>")
	}
	backend := args[0]
	switch agent.BackendType(backend) {
	case agent.BackendVoiceAction, agent.BackendOpenAI, agent.BackendAnthropic, agent.BackendOllama:
	default:
		return fmt.Errorf("unknown agent backend: %s", backend)
	}

	credentials := config.NewCredentialStore(cfg.Credentials, cfg.SSHKeyPath)
	if err := credentials.Load(cfg.DataDir()); err != nil {
		return err
	}

	fmt.Printf("API key for %s: ", backend)
	// EOF without a newline still delivers the piped key.
	key, err := bufio.NewReader(os.Stdin).ReadString('\n')
	key = strings.TrimSpace(key)
	if key == "" {
		if err != nil {
			return fmt.Errorf("failed to read key: %w", err)
		}
		return fmt.Errorf("empty API key")
	}

	credentials.Set(backend, key)
	if err := credentials.Save(cfg.DataDir()); err != nil {
		return err
	}
	fmt.Println("Saved.")
	return nil
}

// openKV selects the configured history backend. The returned cleanup
// closes the sqlite handle; the file backend has nothing to release.
func openKV(cfg *config.Config) (storage.KV, func(), error) {
	switch cfg.HistoryBackend {
	case "sqlite":
		db, err := storage.NewSQLiteKV(filepath.Join(cfg.DataDir(), "history.db"))
		if err != nil {
			return nil, nil, err
		}
		return db, func() { _ = db.Close() }, nil
	default:
		kv, err := storage.NewFileKV(cfg.DataDir())
		if err != nil {
			return nil, nil, err
		}
		return kv, func() {}, nil
	}
}
