package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/labstack/echo/v4"
	"github.com/redis/rueidis"
	"github.com/spf13/cobra"

	"task-tree-system.com/task-tree-system/internal/auth"
	config "task-tree-system.com/task-tree-system/internal/configs"
	httpapi "task-tree-system.com/task-tree-system/internal/http"
	"task-tree-system.com/task-tree-system/internal/llm"
	"task-tree-system.com/task-tree-system/internal/queue"
	repository "task-tree-system.com/task-tree-system/internal/repositories"
	"task-tree-system.com/task-tree-system/internal/services"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long:  "Starts the HTTP API, the rescoring worker pool and its cron schedule",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		database, err := config.NewDatabase(cfg.DatabaseDriver, cfg.DatabaseDSN)
		if err != nil {
			return err
		}
		taskRepo := repository.NewTaskRepository(database)
		userRepo := repository.NewUserRepository(database)

		tokenManager, closeTokens, err := newTokenManager(ctx)
		if err != nil {
			return err
		}
		defer closeTokens()

		var suggester llm.Suggester
		if cfg.LLMAPIKey != "" {
			suggester = llm.NewClient(llm.Config{
				APIKey:  cfg.LLMAPIKey,
				BaseURL: cfg.LLMBaseURL,
				Model:   cfg.LLMModel,
				Timeout: time.Duration(cfg.LLMTimeoutSeconds) * time.Second,
			})
		} else {
			log.Warn("LLM_API_KEY not set, subtask suggestions disabled")
		}

		jwtManager := auth.NewJWTManager(auth.JWTConfig{
			SecretKey:           cfg.JWTSecret,
			Issuer:              cfg.JWTIssuer,
			AccessTokenDuration: time.Duration(cfg.AccessTokenTTLMinutes) * time.Minute,
		})

		taskService := services.NewTaskService(taskRepo)
		authService := services.NewAuthService(userRepo, auth.NewPasswordHasher(auth.DefaultBcryptCost), jwtManager)
		suggestService := services.NewSuggestService(suggester, tokenManager, taskService)

		rescorer := services.NewRescoreService(taskRepo, cfg.RescoreWorkers, cfg.RescoreQueueSize)
		scheduler := services.NewSchedulerService(time.UTC)
		if _, err := scheduler.ScheduleRescore(cfg.RescoreSchedule, rescorer); err != nil {
			return fmt.Errorf("invalid RESCORE_SCHEDULE %q: %w", cfg.RescoreSchedule, err)
		}
		scheduler.Start()

		e := echo.New()
		e.HideBanner = true
		e.HidePort = true
		httpapi.Register(e, httpapi.NewHandler(taskService, authService, suggestService), cfg.RateLimit)

		server := httpapi.NewServer(cfg.AppURL(), e, cfg.CORSAllowedOrigins)
		go func() {
			log.Info("HTTP server listening", "addr", cfg.AppURL())
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error("server stopped", "err", err)
				stop()
			}
		}()

		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(
			context.Background(),
			time.Duration(cfg.ShutdownTimeoutSeconds)*time.Second,
		)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Error("http shutdown", "err", err)
		}
		scheduler.Stop()
		rescorer.Shutdown(shutdownCtx)

		log.Info("HTTP server and worker pool shut down gracefully")
		return nil
	},
}

// newTokenManager prefers the shared Redis token list so several instances
// respect one LLM concurrency limit.
func newTokenManager(ctx context.Context) (queue.TokenManager, func(), error) {
	if cfg.RedisAddr == "" {
		tm := queue.NewLocalTokenManager()
		if err := tm.InitializeTokens(ctx, cfg.LLMMaxConcurrency); err != nil {
			return nil, nil, err
		}
		return tm, func() {}, nil
	}

	client, err := config.NewRedisClient(cfg.RedisAddr)
	if err != nil {
		return nil, nil, err
	}

	tm := queue.NewRedisTokenManager(client, cfg.RedisLLMTokensKey, cfg.LLMModel)
	if err := tm.InitializeTokens(ctx, cfg.LLMMaxConcurrency); err != nil {
		client.Close()
		return nil, nil, fmt.Errorf("initialize redis tokens: %w", err)
	}
	log.Info("LLM request tokens stored in redis", "addr", cfg.RedisAddr, "key", tm.Key(), "tokens", cfg.LLMMaxConcurrency)

	return tm, closeRedis(client), nil
}

func closeRedis(client rueidis.Client) func() {
	return func() { client.Close() }
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
