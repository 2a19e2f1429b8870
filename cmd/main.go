package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"

	"ads-activity-tracker/internal/archive"
	"ads-activity-tracker/internal/config"
	"ads-activity-tracker/internal/controller"
	"ads-activity-tracker/internal/db"
	"ads-activity-tracker/internal/googleauth"
	"ads-activity-tracker/internal/graph"
	appserver "ads-activity-tracker/internal/http"
	"ads-activity-tracker/internal/jobs"
	"ads-activity-tracker/internal/mailer"
	"ads-activity-tracker/internal/service"
	"ads-activity-tracker/internal/sheet"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// app carries everything a subcommand may need. Components are built in
// setup; commands that never touch a component still share the same wiring.
type app struct {
	cfg *config.Config
	log *logrus.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "ads-activity-tracker",
		Short:         "Meta Ads activity tracking and sheet automation",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			a.cfg = cfg
			a.log = newLogger(cfg)
			return nil
		},
	}

	root.AddCommand(
		newServeCmd(a),
		newSyncCmd(a),
		newBirthdayCmd(a),
		newTasksCmd(a),
		newBouncesCmd(a),
		newAdsReportCmd(a),
	)
	return root
}

func newLogger(cfg *config.Config) *logrus.Logger {
	log := logrus.New()
	if cfg.AppMode == "prod" {
		log.SetFormatter(&logrus.JSONFormatter{})
		log.SetLevel(logrus.InfoLevel)
	} else {
		log.SetLevel(logrus.DebugLevel)
	}
	return log
}

// buildSyncService wires the full pipeline: Graph client, sheet store, SMTP
// sender, and the optional ClickHouse archive.
func (a *app) buildSyncService(ctx context.Context) (service.SyncService, error) {
	googleClient, err := googleauth.NewClient(ctx, a.cfg)
	if err != nil {
		return nil, err
	}
	sheets, err := sheet.NewStore(ctx, googleClient, a.cfg.SpreadsheetID)
	if err != nil {
		return nil, err
	}

	api := graph.NewClient(nil, a.cfg.GraphBaseURL, a.cfg.GraphVersion,
		a.cfg.MetaAccessToken, a.cfg.PageLimit, a.cfg.ActivityPageLimit)

	mail := mailer.NewSMTPSender(a.cfg.SMTPHost, a.cfg.SMTPPort,
		a.cfg.SMTPUser, a.cfg.SMTPPassword, a.cfg.MailFrom)

	var arch archive.Archive = archive.Nop{}
	if a.cfg.ClickHouseAddr != "" {
		conn, err := db.NewConnection(ctx, a.cfg)
		if err != nil {
			return nil, err
		}
		if err := db.RunMigrations(ctx, conn); err != nil {
			return nil, err
		}
		arch = archive.NewActivityArchive(conn)
		a.log.Info("activity archive enabled")
	}

	return service.NewSyncService(api, sheets, mail, arch, a.log,
		a.cfg.Accounts, a.cfg.ActivityWindow, a.cfg.ActorWhitelist,
		a.cfg.MailTo, a.cfg.MailSubject), nil
}

func (a *app) buildSheetStore(ctx context.Context) (sheet.Store, error) {
	googleClient, err := googleauth.NewClient(ctx, a.cfg)
	if err != nil {
		return nil, err
	}
	return sheet.NewStore(ctx, googleClient, a.cfg.SpreadsheetID)
}

func (a *app) buildMailer() mailer.Sender {
	return mailer.NewSMTPSender(a.cfg.SMTPHost, a.cfg.SMTPPort,
		a.cfg.SMTPUser, a.cfg.SMTPPassword, a.cfg.MailFrom)
}

func newServeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server with the periodic sync scheduler",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			svc, err := a.buildSyncService(ctx)
			if err != nil {
				return err
			}
			runner := service.NewRunner(svc, a.log)
			server := appserver.NewServer(controller.NewSyncController(runner))

			go a.schedule(ctx, runner)

			go func() {
				<-ctx.Done()
				a.log.Info("shutting down")
				if err := server.Shutdown(); err != nil {
					a.log.WithError(err).Error("server shutdown failed")
				}
			}()

			a.log.WithField("addr", a.cfg.HTTPPort).Info("server listening")
			return server.Listen(a.cfg.HTTPPort)
		},
	}
}

// schedule triggers a run immediately and then on every tick. A tick landing
// while a run is still active is skipped, not queued.
func (a *app) schedule(ctx context.Context, runner *service.Runner) {
	run := func() {
		if _, err := runner.Run(ctx); err != nil {
			a.log.WithError(err).Warn("scheduled sync skipped")
		}
	}

	run()

	ticker := time.NewTicker(a.cfg.SyncInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			run()
		}
	}
}

func newSyncCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Run one sync pass over all configured accounts and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			svc, err := a.buildSyncService(ctx)
			if err != nil {
				return err
			}

			failed := 0
			for _, res := range svc.SyncAll(ctx) {
				entry := a.log.WithFields(logrus.Fields{
					"account":  res.AccountID,
					"label":    res.Label,
					"rows":     res.Rows,
					"notified": res.Notified,
				})
				if res.Error != "" {
					entry.WithField("error", res.Error).Error("account failed")
					failed++
				} else {
					entry.Info("account synced")
				}
			}
			if failed > 0 {
				return fmt.Errorf("%d account(s) failed", failed)
			}
			return nil
		},
	}
}

func newBirthdayCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "birthday",
		Short: "Send birthday greetings for today's matches",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			sheets, err := a.buildSheetStore(ctx)
			if err != nil {
				return err
			}
			job := jobs.NewBirthdayJob(sheets, a.buildMailer(), a.log, a.cfg.BirthdaySheet)
			return job.Run(ctx)
		},
	}
}

func newTasksCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "tasks",
		Short: "Notify assignees about task status changes and overdue tasks",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			sheets, err := a.buildSheetStore(ctx)
			if err != nil {
				return err
			}
			job := jobs.NewTaskJob(sheets, a.buildMailer(), a.log, a.cfg.TaskSheet, a.cfg.TaskMailTo)
			return job.Run(ctx)
		},
	}
}

func newBouncesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "bounces",
		Short: "Scan the mailbox for bounces and flag invalid addresses",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			googleClient, err := googleauth.NewClient(ctx, a.cfg)
			if err != nil {
				return err
			}
			gmailSvc, err := gmail.NewService(ctx, option.WithHTTPClient(googleClient))
			if err != nil {
				return err
			}
			sheets, err := sheet.NewStore(ctx, googleClient, a.cfg.SpreadsheetID)
			if err != nil {
				return err
			}
			job := jobs.NewBounceJob(gmailSvc, sheets, a.log, a.cfg.BirthdaySheet)
			return job.Run(ctx)
		},
	}
}

func newAdsReportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "adsreport",
		Short: "Import the Google Ads campaign report into its sheet tab",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			googleClient, err := googleauth.NewClient(ctx, a.cfg)
			if err != nil {
				return err
			}
			sheets, err := sheet.NewStore(ctx, googleClient, a.cfg.SpreadsheetID)
			if err != nil {
				return err
			}
			job := jobs.NewAdsReportJob(googleClient, sheets, a.log,
				a.cfg.AdsCustomerID, a.cfg.AdsDeveloperToken,
				a.cfg.AdsQuery, a.cfg.AdsReportSheet)
			return job.Run(ctx)
		},
	}
}
