package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/my-workj-ob/kelishamiz-backend-sub000/infra"
	infra_eventbus "github.com/my-workj-ob/kelishamiz-backend-sub000/infra/eventbus"
	"github.com/my-workj-ob/kelishamiz-backend-sub000/infra/initializer"
	"github.com/my-workj-ob/kelishamiz-backend-sub000/infra/migrations"
	infra_repository "github.com/my-workj-ob/kelishamiz-backend-sub000/infra/repository"
	"github.com/my-workj-ob/kelishamiz-backend-sub000/pkg/config"
	"github.com/my-workj-ob/kelishamiz-backend-sub000/pkg/middleware"
	"github.com/my-workj-ob/kelishamiz-backend-sub000/pkg/payme"
	"github.com/my-workj-ob/kelishamiz-backend-sub000/pkg/service/reconciliation"
	"github.com/spf13/cobra"
	"golang.org/x/term"
	"gorm.io/gorm"
)

// session is what a database backed command needs.
type session struct {
	cfg    *config.App
	logger *slog.Logger
	db     *gorm.DB
}

func openSession(envFile string) (*session, error) {
	cfg, err := config.Load(envFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	logger := initializer.SetupLogger(cfg.Log)
	db, err := infra.NewDBConnection(cfg.DB, cfg.Env)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return &session{cfg: cfg, logger: logger, db: db}, nil
}

func (s *session) close() {
	if sqlDB, err := s.db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

func (s *session) service() *reconciliation.Service {
	return reconciliation.NewService(config.Deps{
		Uow:      infra_repository.NewUoW(s.db),
		EventBus: infra_eventbus.NewWithMemory(s.logger),
		Logger:   s.logger,
		Config:   s.cfg,
	})
}

func migrateCmd(env func() string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or roll back the ledger schema",
	}
	run := func(apply func(s *session) error) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, _ []string) error {
			s, err := openSession(env())
			if err != nil {
				return err
			}
			defer s.close()
			if err := apply(s); err != nil {
				return err
			}
			printOK(cmd.OutOrStdout(), "migrations applied")
			return nil
		}
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		Args:  cobra.NoArgs,
		RunE: run(func(s *session) error {
			sqlDB, err := s.db.DB()
			if err != nil {
				return err
			}
			return migrations.Up(sqlDB, s.logger)
		}),
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "down",
		Short: "Roll back every migration",
		Args:  cobra.NoArgs,
		RunE: run(func(s *session) error {
			sqlDB, err := s.db.DB()
			if err != nil {
				return err
			}
			return migrations.Down(sqlDB, s.logger)
		}),
	})
	return cmd
}

func txCmd(env func() string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tx",
		Short: "Inspect provider transactions",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "show [provider-id]",
		Short: "Show one transaction by provider id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(env())
			if err != nil {
				return err
			}
			defer s.close()

			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			tx, err := s.service().GetTransaction(ctx, args[0])
			if err != nil {
				return err
			}
			printTransaction(cmd.OutOrStdout(), tx)
			return nil
		},
	})
	return cmd
}

func statementCmd(env func() string) *cobra.Command {
	var from, to int64
	cmd := &cobra.Command{
		Use:   "statement",
		Short: "List transactions created within [from, to] (unix ms)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := openSession(env())
			if err != nil {
				return err
			}
			defer s.close()

			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			txs, err := s.service().ListTransactions(ctx, time.UnixMilli(from), time.UnixMilli(to))
			if err != nil {
				return err
			}
			printStatement(cmd.OutOrStdout(), txs)
			return nil
		},
	}
	cmd.Flags().Int64Var(&from, "from", 0, "range start, unix ms")
	cmd.Flags().Int64Var(&to, "to", 0, "range end, unix ms")
	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("to")
	return cmd
}

func authHeaderCmd(env func() string) *cobra.Command {
	var prompt bool
	cmd := &cobra.Command{
		Use:   "auth-header",
		Short: "Print the Authorization header the provider must send",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(env())
			if err != nil {
				return err
			}
			key := cfg.Payme.Key
			if prompt || key == "" {
				key, err = readSecret(cmd.InOrStdin(), cmd.ErrOrStderr(), "Merchant key: ")
				if err != nil {
					return err
				}
			}
			if key == "" {
				return fmt.Errorf("merchant key is empty")
			}
			fmt.Fprintln(cmd.OutOrStdout(), payme.Credential(cfg.Payme.Login, key))
			return nil
		},
	}
	cmd.Flags().BoolVar(&prompt, "prompt", false, "ask for the merchant key instead of reading PAYME_KEY")
	return cmd
}

func tokenCmd(env func() string) *cobra.Command {
	var subject string
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue an operator token for the admin API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(env())
			if err != nil {
				return err
			}
			token, err := middleware.IssueToken(cfg.Admin, subject, time.Now())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().StringVar(&subject, "subject", "operator", "token subject")
	return cmd
}

// readSecret reads a line without echo when in is a terminal.
func readSecret(in io.Reader, out io.Writer, label string) (string, error) {
	fmt.Fprint(out, label)
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		b, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(out)
		if err != nil {
			return "", err
		}
		return strings.TrimSpace(string(b)), nil
	}
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", err
	}
	return strings.TrimSpace(line), nil
}
