package config

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/manifoldco/promptui"
)

// RunWizard runs an interactive configuration wizard and returns the
// resulting Config. It also saves the config to path.
func RunWizard(path string) (*Config, error) {
	fmt.Println("Welcome to lunar! Let's configure your site.")
	fmt.Println()

	cfg := DefaultConfig()

	// 1. Port.
	portPrompt := promptui.Prompt{
		Label:    "HTTP port",
		Default:  strconv.Itoa(cfg.Server.Port),
		Validate: validatePort,
	}
	portStr, err := portPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("port: %w", err)
	}
	cfg.Server.Port, _ = strconv.Atoi(portStr)

	// 2. Storage backend.
	storagePrompt := promptui.Select{
		Label: "Where should the collection be stored",
		Items: []string{
			"sqlite - relational database in the data directory",
			"file   - a single JSON file, handy for small catalogs",
		},
	}
	storageIdx, _, err := storagePrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("storage selection: %w", err)
	}
	cfg.Storage.Backend = []StorageBackend{StorageSQLite, StorageFile}[storageIdx]

	// 3. Data directory.
	dataPrompt := promptui.Prompt{
		Label:   "Data directory",
		Default: cfg.DataDir,
	}
	if cfg.DataDir, err = dataPrompt.Run(); err != nil {
		return nil, fmt.Errorf("data dir: %w", err)
	}

	// 4. Admin credentials.
	userPrompt := promptui.Prompt{
		Label:   "Admin username",
		Default: cfg.Admin.Username,
	}
	if cfg.Admin.Username, err = userPrompt.Run(); err != nil {
		return nil, fmt.Errorf("admin username: %w", err)
	}

	passPrompt := promptui.Prompt{
		Label:    "Admin password",
		Mask:     '*',
		Validate: validateNonEmpty,
	}
	if cfg.Admin.Password, err = passPrompt.Run(); err != nil {
		return nil, fmt.Errorf("admin password: %w", err)
	}

	// 5. Session backend.
	sessionPrompt := promptui.Select{
		Label: "Admin session store",
		Items: []string{"memory", "redis"},
	}
	_, sessionStr, err := sessionPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("session backend: %w", err)
	}
	cfg.Admin.SessionBackend = SessionBackend(sessionStr)

	if cfg.Admin.SessionBackend == SessionRedis {
		redisPrompt := promptui.Prompt{
			Label:   "Redis address",
			Default: cfg.Admin.RedisAddr,
		}
		if cfg.Admin.RedisAddr, err = redisPrompt.Run(); err != nil {
			return nil, fmt.Errorf("redis address: %w", err)
		}
	}

	// 6. Inquiry webhook.
	webhookPrompt := promptui.Prompt{
		Label:   "Webhook URL for new inquiries (leave blank to skip)",
		Default: "",
	}
	if cfg.Notifications.InquiryWebhookURL, err = webhookPrompt.Run(); err != nil {
		return nil, fmt.Errorf("webhook url: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if err := cfg.Save(path); err != nil {
		return nil, fmt.Errorf("saving config: %w", err)
	}

	fmt.Printf("\nConfiguration saved to %s\n", path)
	return cfg, nil
}

func validatePort(s string) error {
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 || n > 65535 {
		return errors.New("port must be a number between 1 and 65535")
	}
	return nil
}

func validateNonEmpty(s string) error {
	if s == "" {
		return errors.New("value is required")
	}
	return nil
}
