// savings-admin bootstraps the first administrator account so the API has
// a login to start from.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"savings/internal/backend"
	"savings/internal/config"
	"savings/internal/core"
	"savings/internal/ledger"
	applog "savings/internal/log"
)

func main() {
	_ = godotenv.Load()

	logger := applog.New(applog.DefaultConfig())
	applog.SetDefault(logger)

	name := flag.String("name", "", "administrator display name")
	email := flag.String("email", "", "administrator login email")
	password := flag.String("password", "", "administrator password")
	flag.Parse()

	if *name == "" || *email == "" || *password == "" {
		fmt.Fprintln(os.Stderr, "usage: savings-admin -name NAME -email EMAIL -password PASSWORD")
		os.Exit(2)
	}

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		logger.Error("Backend configuration failed", "error", err)
		os.Exit(1)
	}

	result, err := backend.NewFactory(logger.Logger).CreateBackend(context.Background(), backendCfg)
	if err != nil {
		logger.Error("Backend initialization failed", "error", err)
		os.Exit(1)
	}
	defer result.Cleanup()

	m, err := result.Service.RegisterMember(context.Background(), *name, *email, *password, core.RoleAdmin)
	if err != nil {
		if errors.Is(err, ledger.ErrDuplicateEmail) {
			logger.Error("An account with this email already exists", "email", *email)
			os.Exit(1)
		}
		logger.Error("Failed to create administrator", "error", err)
		os.Exit(1)
	}

	logger.Info("Administrator account created", "member_id", m.ID, "email", m.Email)
}
