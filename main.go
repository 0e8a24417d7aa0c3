package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"ems/condb"
	"ems/config"
	"ems/controllers"
	"ems/logger"
	"ems/metrics"
	"ems/models"
	"ems/routes"
	"ems/services"
	"ems/store"
	"ems/utils"
)

var configPath string

func main() {
	root := &cobra.Command{
		Use:          "ems",
		Short:        "Employee management system API",
		SilenceUsage: true,
		RunE:         runServe,
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to a YAML config file")
	root.AddCommand(serveCmd(), migrateCmd(), payrollCmd(), userCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

// env is everything a command needs after config and database are ready.
type env struct {
	cfg     *config.Config
	log     *zap.Logger
	db      *sqlx.DB
	metrics *metrics.Metrics
	svc     *services.Services
}

func setup(ctx context.Context) (*env, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	log, err := logger.New(cfg.Logging)
	if err != nil {
		return nil, err
	}

	db, err := condb.Open(cfg.Database)
	if err != nil {
		return nil, err
	}
	if err := condb.Migrate(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	m := metrics.New()
	svc, err := services.New(store.New(db), cfg, utils.RealClock{}, m, log)
	if err != nil {
		db.Close()
		return nil, err
	}
	return &env{cfg: cfg, log: log, db: db, metrics: m, svc: svc}, nil
}

func (e *env) close() {
	e.db.Close()
	_ = e.log.Sync()
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API (default)",
		RunE:  runServe,
	}
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	e, err := setup(ctx)
	if err != nil {
		return err
	}
	defer e.close()

	h := controllers.New(e.svc, e.log)
	app := routes.NewApp(e.cfg.HTTP, h, e.svc.Auth.Issuer(), e.metrics, e.log)

	errCh := make(chan error, 1)
	go func() {
		e.log.Info("http server listening", zap.String("addr", e.cfg.HTTP.Addr))
		errCh <- app.Listen(e.cfg.HTTP.Addr)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	e.log.Info("shutting down")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		return fmt.Errorf("failed to shut down: %w", err)
	}
	return nil
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create missing tables and indexes",
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := setup(cmd.Context())
			if err != nil {
				return err
			}
			defer e.close()
			e.log.Info("database migrated", zap.String("driver", e.cfg.Database.Driver))
			return nil
		},
	}
}

func payrollCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "payroll",
		Short: "Payroll operations",
	}

	var period string
	run := &cobra.Command{
		Use:   "run",
		Short: "Draft payslips for every active employee for one period",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if period == "" {
				period = time.Now().Format(models.PeriodLayout)
			}
			e, err := setup(cmd.Context())
			if err != nil {
				return err
			}
			defer e.close()

			resp, err := e.svc.Payroll.Run(cmd.Context(), period)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "period %s: %d generated, %d skipped, %d failed\n",
				resp.Period, resp.Generated, resp.Skipped, len(resp.Failed))
			if len(resp.Failed) > 0 {
				return errors.New("some payslips failed, see log")
			}
			return nil
		},
	}
	run.Flags().StringVar(&period, "period", "", "payroll period YYYY-MM (default current month)")

	cmd.AddCommand(run)
	return cmd
}

func userCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "User administration",
	}

	var req models.CreateUserReq
	var role, employeeID string
	create := &cobra.Command{
		Use:   "create",
		Short: "Create a login, e.g. the first admin",
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := setup(cmd.Context())
			if err != nil {
				return err
			}
			defer e.close()

			req.Role = models.Role(role)
			if employeeID != "" {
				req.EmployeeID = &employeeID
			}
			u, err := e.svc.Auth.CreateUser(cmd.Context(), req)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created %s user %s (%s)\n", u.Role, u.Email, u.ID)
			return nil
		},
	}
	create.Flags().StringVar(&req.Email, "email", "", "login email")
	create.Flags().StringVar(&req.Password, "password", "", "password (min 8, upper, lower, digit, special)")
	create.Flags().StringVar(&role, "role", string(models.RoleAdmin), "admin, hr or employee")
	create.Flags().StringVar(&employeeID, "employee-id", "", "link the user to an employee record")
	_ = create.MarkFlagRequired("email")
	_ = create.MarkFlagRequired("password")

	cmd.AddCommand(create)
	return cmd
}
