package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	httpadp "compliance-portal/internal/adapter/http"
	"compliance-portal/internal/adapter/middleware"
	"compliance-portal/internal/adapter/repository/mysql"
	notificationDomain "compliance-portal/internal/domain/notification"
	"compliance-portal/internal/infrastructure/cache"
	"compliance-portal/internal/infrastructure/mailer"
	"compliance-portal/internal/infrastructure/metrics"
	"compliance-portal/internal/usecase/activity"
	"compliance-portal/internal/usecase/appeal"
	"compliance-portal/internal/usecase/audit"
	"compliance-portal/internal/usecase/deadline"
	"compliance-portal/internal/usecase/notification"
	"compliance-portal/internal/usecase/organization"
	"compliance-portal/internal/usecase/submission"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	shutdownTimeout = 15 * time.Second
	mailQueueSize   = 256
)

func newServeCmd() *cobra.Command {
	var autoMigrate bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return serve(ctx, autoMigrate)
		},
	}
	cmd.Flags().BoolVar(&autoMigrate, "migrate", false, "run migrate before serving")
	return cmd
}

func serve(ctx context.Context, autoMigrate bool) error {
	e, err := bootstrap()
	if err != nil {
		return err
	}
	defer e.close()
	cfg, log := e.cfg, e.log

	rdb, err := cache.OpenRedis(ctx, cfg.RedisAddr, cfg.RedisDB)
	if err != nil {
		return err
	}
	defer rdb.Close()

	// repositories
	orgRepo := mysql.NewOrganizationRepository(e.db)
	actRepo := mysql.NewActivityRepository(e.db)
	subRepo := mysql.NewSubmissionRepository(e.db)
	noteRepo := mysql.NewNotificationRepository(e.db)
	tx := mysql.NewGormUoW(e.db)

	orgUC := organization.NewUsecase(orgRepo, log)
	if autoMigrate {
		if err := migrate(ctx, e, orgUC.Seed); err != nil {
			return err
		}
	}

	m := metrics.New()
	var mail notificationDomain.Mailer
	if smtp := mailer.NewSMTP(mailer.Config{
		Host: cfg.SMTPHost, Port: cfg.SMTPPort, User: cfg.SMTPUser, Pass: cfg.SMTPPass,
		From: cfg.SMTPFrom, SkipTLSVerify: cfg.SMTPSkipTLSVerify,
	}); smtp.Configured() {
		mail = smtp
	} else {
		log.Info("smtp not configured; notifications stay in-app")
	}

	fanout := notification.NewFanout(time.Now, m)
	notifUC := notification.NewUsecase(noteRepo, orgRepo, mail, log, m)
	outbox := notification.NewDispatcher(notifUC, mailQueueSize, log)
	deadlineUC := deadline.NewUsecase(actRepo, subRepo)
	hold := organization.NewHoldWatcher(orgRepo, cfg.HoldPollInterval, log)

	routes := httpadp.Routes{
		Health: httpadp.NewHandler(
			httpadp.Check{Name: "database", Ping: e.ping},
			httpadp.Check{Name: "redis", Ping: func(ctx context.Context) error { return rdb.Ping(ctx).Err() }},
		),
		Metrics:       m.Handler(),
		Submissions:   httpadp.NewSubmissionHandler(submission.NewUsecase(tx, subRepo, fanout, outbox, time.Now, log, m), hold),
		Appeals:       httpadp.NewAppealHandler(appeal.NewUsecase(tx, fanout, outbox, log, m)),
		Audits:        httpadp.NewAuditHandler(audit.NewUsecase(tx, time.Now, log)),
		Activities:    httpadp.NewActivityHandler(activity.NewUsecase(tx, actRepo, fanout, outbox, log), deadlineUC),
		Deadlines:     httpadp.NewDeadlineHandler(deadlineUC),
		Notifications: httpadp.NewNotificationHandler(notifUC),
		Organizations: httpadp.NewOrganizationHandler(orgUC),
	}

	srv := echo.New()
	srv.HideBanner = true
	srv.Validator = httpadp.NewValidator()
	srv.Use(echomw.Logger(), echomw.Recover(), echomw.RequestID())
	httpadp.Register(srv, routes, middleware.Idempotency(rdb, cfg.IdempotencyTTL(), log))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := hold.Run(gctx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		if err := outbox.Run(gctx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		addr := ":" + cfg.AppPort
		log.Info("listening", zap.String("addr", addr))
		if err := srv.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(sctx)
	})
	return g.Wait()
}
