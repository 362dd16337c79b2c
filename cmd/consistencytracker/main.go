package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"consistency-tracker/internal/api"
	"consistency-tracker/internal/bot"
	"consistency-tracker/internal/config"
	"consistency-tracker/internal/repository"
	"consistency-tracker/internal/service"
)

const sessionPruneInterval = time.Hour

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("load .env: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	db, err := repository.NewDB(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	sqlDB, err := db.DB()
	if err == nil {
		defer sqlDB.Close()
	}

	userRepo := repository.NewUserRepository(db)
	sessionRepo := repository.NewSessionRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	blockRepo := repository.NewTimeBlockRepository(db)
	logRepo := repository.NewDailyLogRepository(db)

	clock := service.SystemClock(cfg.Location)
	authSvc := service.NewAuthService(userRepo, sessionRepo, cfg.SessionTTL, clock)
	scoreSvc := service.NewScoreService(taskRepo, blockRepo, logRepo, clock)
	taskSvc := service.NewTaskService(taskRepo, scoreSvc, clock)
	blockSvc := service.NewTimeBlockService(blockRepo, scoreSvc, clock)
	dashboardSvc := service.NewDashboardService(scoreSvc, clock)
	categorySvc := service.NewCategoryService()

	router := api.NewRouter(api.Services{
		Auth:       authSvc,
		Tasks:      taskSvc,
		Blocks:     blockSvc,
		Scores:     scoreSvc,
		Dashboard:  dashboardSvc,
		Categories: categorySvc,
	}, cfg.CookieSecure)

	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	scheduler := service.NewSchedulerService(cfg.Location)
	if _, err := scheduler.ScheduleInterval("prune-sessions", sessionPruneInterval, func(ctx context.Context) error {
		n, err := authSvc.DeleteExpiredSessions(ctx)
		if err != nil {
			return err
		}
		if n > 0 {
			log.Printf("[info] pruned %d expired sessions", n)
		}
		return nil
	}); err != nil {
		log.Fatalf("schedule session pruning: %v", err)
	}

	if cfg.BotEnabled() {
		telegramBot, err := bot.New(cfg.TelegramToken, bot.Services{
			Auth:       authSvc,
			Tasks:      taskSvc,
			Blocks:     blockSvc,
			Dashboard:  dashboardSvc,
			Reports:    service.NewReportService(taskSvc, blockSvc, scoreSvc),
			Categories: categorySvc,
			Clock:      clock,
		})
		if err != nil {
			log.Fatalf("bot: %v", err)
		}

		if cfg.ReportInterval > 0 {
			_, err = scheduler.ScheduleInterval("daily-reports", cfg.ReportInterval, telegramBot.SendDailyReports)
		} else {
			_, err = scheduler.ScheduleDaily("daily-reports", cfg.ReportTime, telegramBot.SendDailyReports)
		}
		if err != nil {
			log.Fatalf("schedule reports: %v", err)
		}

		go func() {
			if err := telegramBot.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
				log.Printf("bot stopped with error: %v", err)
			}
		}()
	} else {
		log.Println("[info] TELEGRAM_TOKEN not set, bot disabled")
	}

	scheduler.Start()
	defer scheduler.Stop()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Printf("http shutdown: %v", err)
		}
	}()

	log.Printf("[info] consistency tracker listening on %s", cfg.HTTPAddr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("http: %v", err)
	}
	log.Println("Shutdown complete.")
}
