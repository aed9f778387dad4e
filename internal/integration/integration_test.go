package integration

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"testing"
	"time"

	"blindtest-service/internal/app"
	"blindtest-service/internal/domain"
	pgloader "blindtest-service/internal/infra/postgres"
	pgmigrations "blindtest-service/internal/infra/postgres/migrations"
	infraredis "blindtest-service/internal/infra/redis"
	"github.com/jackc/pgx/v4/pgxpool"
	goredis "github.com/redis/go-redis/v9"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/migrate"
)

func TestSubmitRoundEndToEnd(t *testing.T) {
	ctx := context.Background()
	requireDocker(t)

	pgURL, pgCleanup := startPostgres(t, ctx)
	defer pgCleanup()
	redisURL, redisCleanup := startRedis(t, ctx)
	defer redisCleanup()

	seedStage(t, ctx, pgURL, "pop_1", sampleStage())

	pool, err := pgxpool.Connect(ctx, pgURL)
	if err != nil {
		t.Fatalf("connect pg: %v", err)
	}
	defer pool.Close()

	loader := pgloader.NewStageLoader(pool)

	redisClient, err := redisClientFromURL(redisURL)
	if err != nil {
		t.Fatalf("redis client: %v", err)
	}
	bank := infraredis.NewStageCatalog(redisClient, loader, 5*time.Minute)
	sessions := infraredis.NewSessionStore(redisClient, 5*time.Minute)
	service := app.NewGameService(sessions, bank)

	if _, err := service.Join(ctx, "game-1", "p1", "Alice"); err != nil {
		t.Fatalf("join: %v", err)
	}
	if _, err := service.Join(ctx, "game-1", "p2", "Bob"); err != nil {
		t.Fatalf("join: %v", err)
	}

	recap, lb, err := service.SubmitRound(ctx, "game-1", "pop_1", "POP01_Q01", 0, map[string]domain.Answer{
		"p1": {Artist: "Shakira", Song: "Hips dont lie"},
		"p2": {Artist: "Britney Spears", Song: "Toxic"},
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if got := recap.Scores["p1"]; got.Score != 2 {
		t.Fatalf("expected full credit for Alice, got %+v", got)
	}
	if got := recap.Scores["p2"]; got.Score != 0 {
		t.Fatalf("expected no credit for Bob, got %+v", got)
	}
	if len(lb.Standings) != 2 || lb.Standings[0].PlayerID != "p1" || lb.Standings[0].Total != 2 {
		t.Fatalf("expected alice leading, got %+v", lb.Standings)
	}

	// The round is recomputable from the ledger after a cold read.
	recap2, ok, err := service.QuestionRecap(ctx, "game-1", "pop_1", "POP01_Q01")
	if err != nil || !ok {
		t.Fatalf("recap: ok=%v err=%v", ok, err)
	}
	if recap2.Scores["p1"] != recap.Scores["p1"] {
		t.Fatalf("recap drifted: %+v vs %+v", recap2.Scores["p1"], recap.Scores["p1"])
	}

	if _, err := service.ResetGame(ctx, "game-1"); err != nil {
		t.Fatalf("reset: %v", err)
	}
	played, err := service.PlayedStageIDs(ctx, "game-1")
	if err != nil || len(played) != 0 {
		t.Fatalf("expected empty ledger after reset, got %v err=%v", played, err)
	}
}

func startPostgres(t *testing.T, ctx context.Context) (string, func()) {
	t.Helper()
	req := tc.ContainerRequest{
		Image:        "postgres:15-alpine",
		Env:          map[string]string{"POSTGRES_USER": "blindtest", "POSTGRES_PASSWORD": "blindtestpass", "POSTGRES_DB": "blindtestdb"},
		ExposedPorts: []string{"5432/tcp"},
		WaitingFor:   wait.ForListeningPort("5432/tcp").WithStartupTimeout(60 * time.Second),
	}
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		if strings.Contains(err.Error(), "Cannot connect to the Docker daemon") {
			t.Skipf("docker not available: %v", err)
		}
		t.Fatalf("start postgres: %v", err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("host: %v", err)
	}
	port, err := container.MappedPort(ctx, "5432/tcp")
	if err != nil {
		t.Fatalf("port: %v", err)
	}
	dsn := fmt.Sprintf("postgres://blindtest:blindtestpass@%s:%s/blindtestdb?sslmode=disable", host, port.Port())
	return dsn, func() {
		_ = container.Terminate(ctx)
	}
}

func startRedis(t *testing.T, ctx context.Context) (string, func()) {
	t.Helper()
	req := tc.ContainerRequest{
		Image:        "redis:7-alpine",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForListeningPort("6379/tcp").WithStartupTimeout(30 * time.Second),
	}
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		if strings.Contains(err.Error(), "Cannot connect to the Docker daemon") {
			t.Skipf("docker not available: %v", err)
		}
		t.Fatalf("start redis: %v", err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("redis host: %v", err)
	}
	port, err := container.MappedPort(ctx, "6379/tcp")
	if err != nil {
		t.Fatalf("redis port: %v", err)
	}
	url := fmt.Sprintf("redis://%s:%s", host, port.Port())
	return url, func() {
		_ = container.Terminate(ctx)
	}
}

func seedStage(t *testing.T, ctx context.Context, dsn, stageID string, questions []domain.Question) {
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
	db := bun.NewDB(sqldb, pgdialect.New())
	defer db.Close()

	migrator := migrate.NewMigrator(db, pgmigrations.Migrations)
	if err := migrator.Init(ctx); err != nil {
		t.Fatalf("migrator init: %v", err)
	}
	if _, err := migrator.Migrate(ctx); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	data, err := json.Marshal(questions)
	if err != nil {
		t.Fatalf("marshal stage: %v", err)
	}
	if _, err := db.ExecContext(ctx, `INSERT INTO stages (id, questions) VALUES (? , ?::jsonb) ON CONFLICT (id) DO UPDATE SET questions=EXCLUDED.questions`, stageID, string(data)); err != nil {
		t.Fatalf("insert stage: %v", err)
	}
}

func sampleStage() []domain.Question {
	return []domain.Question{
		{
			ID:            "POP01_Q01",
			StageID:       "pop_1",
			Order:         0,
			CorrectAnswer: domain.CorrectAnswer{Artist: "Shakira ft. Wyclef Jean", Song: "Hips Don't Lie"},
		},
		{
			ID:            "POP01_Q02",
			StageID:       "pop_1",
			Order:         1,
			CorrectAnswer: domain.CorrectAnswer{Artist: "Gotye ft. Kimbra", Song: "Somebody That I Used To Know"},
		},
	}
}

func redisClientFromURL(url string) (*goredis.Client, error) {
	opts, err := goredis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	return goredis.NewClient(&goredis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	}), nil
}

func requireDocker(t *testing.T) {
	t.Helper()
	if _, err := tc.NewDockerProvider(); err != nil {
		t.Skipf("docker not available: %v", err)
	}
}
