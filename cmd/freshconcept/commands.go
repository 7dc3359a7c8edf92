package main

import (
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/amniuelmohamed/freshconcept/internal/async"
	"github.com/amniuelmohamed/freshconcept/internal/bootstrap"
	"github.com/amniuelmohamed/freshconcept/internal/cache"
	"github.com/amniuelmohamed/freshconcept/internal/config"
	"github.com/amniuelmohamed/freshconcept/internal/job"
	"github.com/amniuelmohamed/freshconcept/internal/migrations"
	"github.com/amniuelmohamed/freshconcept/internal/repository"
	"github.com/amniuelmohamed/freshconcept/internal/repository/sqlite"
	"github.com/amniuelmohamed/freshconcept/internal/service"
	"github.com/amniuelmohamed/freshconcept/internal/support/hash"
)

func init() {
	// Migrate
	var migrateStatus bool
	var migrateRollback bool
	var migrateCmd = &cobra.Command{
		Use:   "migrate [up|down|status]",
		Short: "Database migration management",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			db, err := bootstrap.OpenSQLite(cfg.DB.Path)
			if err != nil {
				return err
			}
			fmt.Printf("Using DB path: %s\n", cfg.DB.Path)
			defer db.Close()

			if migrateStatus {
				return migrations.Status(db)
			}
			if migrateRollback {
				return migrations.Down(db)
			}

			action := "up"
			if len(args) > 0 {
				action = args[0]
			}

			switch action {
			case "up":
				return migrations.Up(db)
			case "down":
				return migrations.Down(db)
			case "status":
				return migrations.Status(db)
			default:
				return fmt.Errorf("unknown migrate action %q", action)
			}
		},
	}
	migrateCmd.Flags().BoolVar(&migrateStatus, "status", false, "Show migration status")
	migrateCmd.Flags().BoolVar(&migrateRollback, "rollback", false, "Rollback the last migration")
	rootCmd.AddCommand(migrateCmd)

	// Backup
	var backupOutput string
	var backupCompress bool
	var backupCmd = &cobra.Command{
		Use:   "backup",
		Short: "Backup database",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			target := backupOutput
			if target == "" {
				backupDir := "data/backups"
				if err := os.MkdirAll(backupDir, 0755); err != nil {
					return fmt.Errorf("create backup dir: %w", err)
				}
				ext := ".db"
				if backupCompress {
					ext += ".gz"
				}
				filename := fmt.Sprintf("freshconcept_%s%s", time.Now().Format("20060102_150405"), ext)
				target = filepath.Join(backupDir, filename)
			}

			db, err := bootstrap.OpenSQLite(cfg.DB.Path)
			if err != nil {
				return err
			}
			defer db.Close()

			tempFile := target
			if backupCompress {
				if strings.HasSuffix(target, ".gz") {
					tempFile = strings.TrimSuffix(target, ".gz")
				} else {
					tempFile = target + ".tmp"
				}
			}

			if _, err := db.Exec(fmt.Sprintf("VACUUM INTO '%s'", tempFile)); err != nil {
				return fmt.Errorf("sqlite vacuum into: %w", err)
			}

			if backupCompress {
				if err := compressFile(tempFile, target); err != nil {
					os.Remove(tempFile)
					return err
				}
				os.Remove(tempFile)
			}

			fmt.Printf("Backup created at %s\n", target)
			return nil
		},
	}
	backupCmd.Flags().StringVar(&backupOutput, "output", "", "Output file path")
	backupCmd.Flags().BoolVar(&backupCompress, "compress", false, "Compress output with gzip")
	rootCmd.AddCommand(backupCmd)

	// Restore
	var restoreCmd = &cobra.Command{
		Use:   "restore <backup-file>",
		Short: "Restore database from backup",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			backupPath := args[0]
			if _, err := os.Stat(backupPath); err != nil {
				return fmt.Errorf("backup file not found: %w", err)
			}

			dbPath := cfg.DB.Path
			// Auto-backup before restore
			if _, err := os.Stat(dbPath); err == nil {
				bakPath := dbPath + ".pre_restore_" + time.Now().Format("20060102_150405")
				if err := copyFile(dbPath, bakPath); err != nil {
					return fmt.Errorf("failed to backup current db: %w", err)
				}
				fmt.Printf("Current database backed up to %s\n", bakPath)
			}

			isGzip := strings.HasSuffix(backupPath, ".gz")
			sourceFile := backupPath

			if isGzip {
				tempSource := dbPath + ".restoring"
				if err := decompressFile(backupPath, tempSource); err != nil {
					return fmt.Errorf("decompress failed: %w", err)
				}
				sourceFile = tempSource
				defer os.Remove(tempSource)
			}

			if err := copyFile(sourceFile, dbPath); err != nil {
				return fmt.Errorf("restore failed: %w", err)
			}

			fmt.Println("Database restored successfully.")
			return nil
		},
	}
	rootCmd.AddCommand(restoreCmd)

	// Account
	var accountCmd = &cobra.Command{
		Use:   "account",
		Short: "Account management",
	}
	var listAccountKind string
	var listAccountsCmd = &cobra.Command{
		Use:   "list",
		Short: "List accounts",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, _, err := getStore()
			if err != nil {
				return err
			}
			return runAccountList(store, listAccountKind)
		},
	}
	listAccountsCmd.Flags().StringVar(&listAccountKind, "kind", "", "Filter by kind (client|employee)")
	accountCmd.AddCommand(listAccountsCmd)

	var createEmail, createPassword, createKind, createCompany string
	var createRoleID int64
	var createAccountCmd = &cobra.Command{
		Use:   "create",
		Short: "Create an account",
		RunE: func(cmd *cobra.Command, args []string) error {
			if createEmail == "" || createPassword == "" {
				return fmt.Errorf("email and password are required")
			}
			store, cfg, err := getStore()
			if err != nil {
				return err
			}
			return runAccountCreate(store, cfg, service.AccountInput{
				Email:       createEmail,
				Password:    createPassword,
				Kind:        createKind,
				RoleID:      createRoleID,
				CompanyName: createCompany,
				Active:      true,
			})
		},
	}
	createAccountCmd.Flags().StringVar(&createEmail, "email", "", "Account email")
	createAccountCmd.Flags().StringVar(&createPassword, "password", "", "Account password")
	createAccountCmd.Flags().StringVar(&createKind, "kind", repository.AccountKindClient, "Account kind (client|employee)")
	createAccountCmd.Flags().Int64Var(&createRoleID, "role", 0, "Role ID")
	createAccountCmd.Flags().StringVar(&createCompany, "company", "", "Company name")
	accountCmd.AddCommand(createAccountCmd)

	var resetEmail, resetPassword string
	var resetPasswordCmd = &cobra.Command{
		Use:   "reset-password",
		Short: "Reset account password",
		RunE: func(cmd *cobra.Command, args []string) error {
			if resetEmail == "" || resetPassword == "" {
				return fmt.Errorf("email and password are required")
			}
			store, cfg, err := getStore()
			if err != nil {
				return err
			}
			return runAccountResetPassword(store, cfg, resetEmail, resetPassword)
		},
	}
	resetPasswordCmd.Flags().StringVar(&resetEmail, "email", "", "Account email")
	resetPasswordCmd.Flags().StringVar(&resetPassword, "password", "", "New password")
	accountCmd.AddCommand(resetPasswordCmd)

	accountCmd.AddCommand(&cobra.Command{
		Use:   "disable <email>",
		Short: "Disable an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, _, err := getStore()
			if err != nil {
				return err
			}
			return runAccountActive(store, args[0], false)
		},
	})

	accountCmd.AddCommand(&cobra.Command{
		Use:   "enable <email>",
		Short: "Enable an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, _, err := getStore()
			if err != nil {
				return err
			}
			return runAccountActive(store, args[0], true)
		},
	})
	rootCmd.AddCommand(accountCmd)

	// Settings
	var settingCmd = &cobra.Command{
		Use:   "setting",
		Short: "Portal setting management",
	}
	settingCmd.AddCommand(&cobra.Command{
		Use:   "get <key>",
		Short: "Get a setting value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, _, err := getStore()
			if err != nil {
				return err
			}
			return runSettingGet(store, args[0])
		},
	})
	settingCmd.AddCommand(&cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a setting value",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, _, err := getStore()
			if err != nil {
				return err
			}
			return runSettingSet(store, args[0], args[1])
		},
	})
	rootCmd.AddCommand(settingCmd)

	// Job
	var jobCmd = &cobra.Command{
		Use:   "job",
		Short: "Job management",
	}
	jobCmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List available jobs",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("Available jobs:")
			for _, name := range jobNames() {
				fmt.Println("- " + name)
			}
		},
	})
	jobCmd.AddCommand(&cobra.Command{
		Use:   "run <name>",
		Short: "Run a job manually",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, cfg, err := getStore()
			if err != nil {
				return err
			}
			jobs := getJobs(store, cfg)
			name := args[0]
			j, ok := jobs[name]
			if !ok {
				return fmt.Errorf("unknown job %q", name)
			}
			fmt.Printf("Running job %s...\n", name)
			if err := j.Run(context.Background()); err != nil {
				return fmt.Errorf("job run failed: %w", err)
			}
			fmt.Println("Job completed successfully.")
			return nil
		},
	})
	rootCmd.AddCommand(jobCmd)

	// Version
	var versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("FreshConcept %s\n", Version)
			fmt.Printf("Commit: %s\n", Commit)
			fmt.Printf("Build Time: %s\n", BuildTime)
		},
	}
	rootCmd.AddCommand(versionCmd)
}

// Helper functions

func getStore() (*sqlite.Store, *config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	db, err := bootstrap.OpenSQLite(cfg.DB.Path)
	if err != nil {
		return nil, nil, err
	}
	// The store keeps db open until process exit.
	return sqlite.NewStore(db), cfg, nil
}

func runAccountList(store *sqlite.Store, kind string) error {
	ctx := context.Background()
	accounts, err := store.Accounts().List(ctx, repository.AccountFilter{Kind: kind, Limit: 100})
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "ID\tEmail\tKind\tCompany\tActive")
	for _, a := range accounts {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%v\n", a.ID, a.Email, a.Kind, a.CompanyName, a.Active)
	}
	return w.Flush()
}

func runAccountCreate(store *sqlite.Store, cfg *config.Config, input service.AccountInput) error {
	svc, err := accountService(store, cfg)
	if err != nil {
		return err
	}
	account, err := svc.CreateAccount(context.Background(), input)
	if err != nil {
		return err
	}
	fmt.Printf("Account created: id=%d email=%s kind=%s\n", account.ID, account.Email, account.Kind)
	return nil
}

func runAccountResetPassword(store *sqlite.Store, cfg *config.Config, email, password string) error {
	ctx := context.Background()
	account, err := store.Accounts().FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("no account with email %s", email)
		}
		return err
	}

	hasher, err := hash.NewBcryptHasher(cfg.Auth.BcryptCost)
	if err != nil {
		return err
	}
	hashed, err := hasher.Hash(password)
	if err != nil {
		return err
	}

	account.Password = hashed
	account.UpdatedAt = time.Now().Unix()
	if err := store.Accounts().Update(ctx, account); err != nil {
		return err
	}
	fmt.Printf("Password reset for %s\n", email)
	return nil
}

func runAccountActive(store *sqlite.Store, email string, active bool) error {
	ctx := context.Background()
	account, err := store.Accounts().FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("no account with email %s", email)
		}
		return err
	}

	account.Active = active
	account.UpdatedAt = time.Now().Unix()
	if err := store.Accounts().Update(ctx, account); err != nil {
		return err
	}
	state := "disabled"
	if active {
		state = "enabled"
	}
	fmt.Printf("Account %s %s\n", email, state)
	return nil
}

func runSettingGet(store *sqlite.Store, key string) error {
	setting, err := store.Settings().Get(context.Background(), key)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("setting %q not found", key)
		}
		return err
	}
	fmt.Printf("%s = %s\n", setting.Key, setting.Value)
	return nil
}

func runSettingSet(store *sqlite.Store, key, value string) error {
	now := time.Now().Unix()
	if err := store.Settings().Upsert(context.Background(), &repository.Setting{
		Key:       key,
		Value:     value,
		Category:  "general",
		UpdatedAt: now,
	}); err != nil {
		return err
	}
	fmt.Printf("Setting %s updated\n", key)
	return nil
}

func accountService(store *sqlite.Store, cfg *config.Config) (service.AdminAccountService, error) {
	hasher, err := hash.NewBcryptHasher(cfg.Auth.BcryptCost)
	if err != nil {
		return nil, err
	}
	cacheStore := cache.NewStore(cache.Options{Prefix: "freshconcept-cli"})
	identity := service.NewIdentityService(store.Accounts(), store.Roles(), cacheStore)
	return service.NewAdminAccountService(store.Accounts(), store.Roles(), store.Tokens(), identity, hasher), nil
}

func jobNames() []string {
	return []string{
		"order.autoconfirm",
		"token.cleanup",
		"loginlog.cleanup",
	}
}

func getJobs(store *sqlite.Store, cfg *config.Config) map[string]job.Runnable {
	logger := slog.Default()
	cacheStore := cache.NewStore(cache.Options{Prefix: "freshconcept-cli"})
	settings := service.NewSettingsService(store.Settings(), cacheStore)
	orders := service.NewOrderService(
		store.Orders(),
		store.Carts(),
		store.Products(),
		store.Accounts(),
		settings,
		async.NewEventQueue(),
		logger,
	)

	jobs := map[string]job.Runnable{}
	for _, j := range []job.Runnable{
		job.NewOrderAutoConfirmJob(orders, logger),
		job.NewTokenCleanupJob(store.Tokens(), logger),
		job.NewLoginLogCleanupJob(store.LoginLogs(), settings, logger),
	} {
		jobs[j.Name()] = j
	}
	return jobs
}

func compressFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	gz := gzip.NewWriter(out)
	if _, err := io.Copy(gz, in); err != nil {
		gz.Close()
		return err
	}
	return gz.Close()
}

func decompressFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	gz, err := gzip.NewReader(in)
	if err != nil {
		return err
	}
	defer gz.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	_, err = io.Copy(out, gz)
	return err
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	_, err = io.Copy(out, in)
	return err
}
