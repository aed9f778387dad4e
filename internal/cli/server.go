package cli

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"blindtest-service/internal/app"
	"blindtest-service/internal/config"
	"blindtest-service/internal/domain"
	filepack "blindtest-service/internal/infra/file"
	"blindtest-service/internal/infra/memory"
	pgloader "blindtest-service/internal/infra/postgres"
	redisinfra "blindtest-service/internal/infra/redis"
	transport "blindtest-service/internal/transport/http"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the blind-test scoring server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	if cfg.Postgres.URL != "" {
		if err := runMigrationsWithConfig(ctx, cfg); err != nil {
			return err
		}
	}

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	}
	redisTTL := config.TTLDuration(cfg.Redis.TTL, 10*time.Minute)

	var pool *pgxpool.Pool
	if cfg.Postgres.URL != "" {
		pool, err = pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
	}

	// Stage content comes, in order of preference, from Postgres, from a
	// YAML pack directory, or from the built-in demo stage.
	var loader memory.StageLoader = memory.NewStaticStageLoader(sampleStages())
	if cfg.Pack.Dir != "" {
		loader = filepack.NewStageLoader(cfg.Pack.Dir)
	}
	if pool != nil {
		loader = pgloader.NewStageLoader(pool)
	}

	packTTL := config.TTLDuration(cfg.Pack.TTL, 10*time.Minute)
	var bank app.QuestionBank
	if redisClient != nil {
		bank = redisinfra.NewStageCatalog(redisClient, loader, packTTL)
	} else {
		bank = memory.NewStageCatalog(loader, packTTL)
	}

	var sessions app.SessionRepository
	if redisClient != nil {
		sessions = redisinfra.NewSessionStore(redisClient, redisTTL)
	} else {
		sessions = memory.NewSessionStore()
	}
	service := app.NewGameService(sessions, bank)
	wsHandler := transport.NewWSHandler(service)

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	mux.HandleFunc("/ws", wsHandler.ServeWS)

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Printf("starting blindtest service on :%s", finalPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("failed to start server: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		log.Println("shutting down server...")
	case <-ctx.Done():
		log.Println("context canceled, shutting down server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// sampleStages provides a minimal demo stage; configure pack.dir or
// postgres.url to serve real content.
func sampleStages() map[string][]domain.Question {
	return map[string][]domain.Question{
		"pop_1": {
			{
				ID:            "POP01_Q01",
				StageID:       "pop_1",
				Order:         0,
				Title:         "Jerry Rivera - Amore Como El Nuestro (1992)",
				CorrectAnswer: domain.CorrectAnswer{Artist: "Shakira ft. Wyclef Jean", Song: "Hips Don't Lie"},
			},
			{
				ID:            "POP01_Q02",
				StageID:       "pop_1",
				Order:         1,
				Title:         "Luiz Bonfá - Seville (1967)",
				CorrectAnswer: domain.CorrectAnswer{Artist: "Gotye ft. Kimbra", Song: "Somebody That I Used To Know"},
				AcceptedAnswers: []domain.CorrectAnswer{
					{Artist: "Gotye", Song: "Somebody"},
				},
			},
			{
				ID:            "POP01_Q03",
				StageID:       "pop_1",
				Order:         2,
				Title:         "Lata Mangeshkar and S. P. Balasubrahmanyam - Tere Mere Beech Mein (1981)",
				CorrectAnswer: domain.CorrectAnswer{Artist: "Britney Spears", Song: "Toxic"},
			},
		},
	}
}
