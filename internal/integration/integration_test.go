package integration

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"firstaid-progress-service/internal/app"
	"firstaid-progress-service/internal/domain"
	"firstaid-progress-service/internal/infra/memory"
	"firstaid-progress-service/internal/infra/postgres"
	infraredis "firstaid-progress-service/internal/infra/redis"
	"github.com/jackc/pgx/v4/pgxpool"
	goredis "github.com/redis/go-redis/v9"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"golang.org/x/sync/errgroup"
)

func TestProgressEngineOnPostgres(t *testing.T) {
	ctx := context.Background()
	requireDocker(t)

	pgURL, pgCleanup := startPostgres(t, ctx)
	defer pgCleanup()
	redisURL, redisCleanup := startRedis(t, ctx)
	defer redisCleanup()

	db := postgres.OpenDB(pgURL)
	defer db.Close()
	if _, err := postgres.Migrate(ctx, db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if err := postgres.SeedCatalog(ctx, db, memory.SampleCatalog()); err != nil {
		t.Fatalf("seed: %v", err)
	}
	// Seeding twice must be a no-op.
	if err := postgres.SeedCatalog(ctx, db, memory.SampleCatalog()); err != nil {
		t.Fatalf("reseed: %v", err)
	}

	pool, err := pgxpool.Connect(ctx, pgURL)
	if err != nil {
		t.Fatalf("connect pg: %v", err)
	}
	defer pool.Close()
	loader := postgres.NewCatalogLoader(pool)

	t.Run("catalog loader reads seeded content", func(t *testing.T) {
		data, err := loader.LoadCatalog(ctx)
		if err != nil {
			t.Fatalf("load catalog: %v", err)
		}
		if len(data.Levels) != 3 || len(data.Scenarios) != 6 || len(data.Steps) != 11 || len(data.Badges) != 3 {
			t.Fatalf("unexpected catalog sizes %d/%d/%d/%d",
				len(data.Levels), len(data.Scenarios), len(data.Steps), len(data.Badges))
		}
		cat := domain.NewCatalog(data)
		steps := cat.Steps(1)
		if len(steps) != 2 || steps[0].CorrectOption != "A" || len(steps[0].Options) != 3 {
			t.Fatalf("unexpected steps for scenario 1: %+v", steps)
		}
	})

	redisClient, err := redisClientFromURL(redisURL)
	if err != nil {
		t.Fatalf("redis client: %v", err)
	}
	defer redisClient.Close()
	catalogRepo := memory.NewCatalogRepository(infraredis.NewCatalogRepository(redisClient, loader, 5*time.Minute), time.Minute)

	attempts := postgres.NewAttemptStore(db)
	progress := postgres.NewProgressStore(db)
	badges := postgres.NewBadgeStore(db)
	service := app.NewProgressService(catalogRepo, attempts, progress, badges)

	t.Run("submission pipeline", func(t *testing.T) {
		res, err := service.Submit(ctx, "u1", 1, []string{"a", "b"})
		if err != nil {
			t.Fatalf("submit 1: %v", err)
		}
		if nc, ok := res.LevelProgress.(domain.LevelNotCompleted); !ok || nc.PerfectInLevel != 1 || nc.TotalInLevel != 2 {
			t.Fatalf("unexpected progress %+v", res.LevelProgress)
		}

		res, err = service.Submit(ctx, "u1", 2, []string{"C", "A"})
		if err != nil {
			t.Fatalf("submit 2: %v", err)
		}
		done, ok := res.LevelProgress.(domain.LevelCompleted)
		if !ok || done.NextLevelUnlocked == nil || *done.NextLevelUnlocked != 2 {
			t.Fatalf("expected completion unlocking level 2, got %+v", res.LevelProgress)
		}
		if res.AwardedBadge == nil || res.AwardedBadge.ID != 1 {
			t.Fatalf("expected badge 1, got %+v", res.AwardedBadge)
		}

		levels, err := service.ListProgress(ctx, "u1")
		if err != nil {
			t.Fatalf("list progress: %v", err)
		}
		if levels[0].State != domain.StateCompleted || levels[1].State != domain.StateUnlocked || levels[2].State != domain.StateLocked {
			t.Fatalf("unexpected states %+v", levels)
		}
		earned, err := service.ListBadges(ctx, "u1")
		if err != nil || len(earned) != 1 || earned[0].Badge.Name != "First Responder" {
			t.Fatalf("unexpected badges %+v err=%v", earned, err)
		}
	})

	t.Run("best score is monotonic under concurrency", func(t *testing.T) {
		var g errgroup.Group
		for i := 0; i < 30; i++ {
			score := (i * 37) % 101
			g.Go(func() error {
				_, err := attempts.RecordBestScore(ctx, "u2", 3, score, time.Now())
				return err
			})
		}
		if err := g.Wait(); err != nil {
			t.Fatalf("record: %v", err)
		}
		want := 0
		for i := 0; i < 30; i++ {
			if s := (i * 37) % 101; s > want {
				want = s
			}
		}
		got, err := attempts.RecordBestScore(ctx, "u2", 3, 0, time.Now())
		if err != nil {
			t.Fatalf("record: %v", err)
		}
		if got.Score != want {
			t.Fatalf("expected max %d, got %d", want, got.Score)
		}
	})

	t.Run("completed flag never regresses", func(t *testing.T) {
		now := time.Now()
		if _, err := progress.MarkPlayed(ctx, "u3", 2, true, now); err != nil {
			t.Fatalf("mark: %v", err)
		}
		p, err := progress.MarkPlayed(ctx, "u3", 2, false, now)
		if err != nil {
			t.Fatalf("mark: %v", err)
		}
		if !p.Completed {
			t.Fatalf("completed regressed")
		}
		p, err = progress.Unlock(ctx, "u3", 2, now)
		if err != nil {
			t.Fatalf("unlock: %v", err)
		}
		if !p.Completed || !p.Unlocked {
			t.Fatalf("unlock changed flags: %+v", p)
		}
	})

	t.Run("badge grant is unique", func(t *testing.T) {
		grant := domain.UserBadge{UserID: "u4", BadgeID: 2, EarnedAt: time.Now()}
		if err := badges.CreateUserBadge(ctx, grant); err != nil {
			t.Fatalf("create: %v", err)
		}
		if err := badges.CreateUserBadge(ctx, grant); !errors.Is(err, domain.ErrConflict) {
			t.Fatalf("expected ErrConflict, got %v", err)
		}

		var g errgroup.Group
		for i := 0; i < 10; i++ {
			g.Go(func() error {
				_, err := service.Submit(ctx, "u5", 5, []string{"A"})
				return err
			})
		}
		_, _ = service.Submit(ctx, "u5", 6, []string{"C", "B"})
		if err := g.Wait(); err != nil {
			t.Fatalf("submit: %v", err)
		}
		earned, _ := badges.ListUserBadges(ctx, "u5")
		if len(earned) != 1 {
			t.Fatalf("expected one grant, got %d", len(earned))
		}
	})
}

func startPostgres(t *testing.T, ctx context.Context) (string, func()) {
	t.Helper()
	req := tc.ContainerRequest{
		Image:        "postgres:15-alpine",
		Env:          map[string]string{"POSTGRES_USER": "firstaid", "POSTGRES_PASSWORD": "firstaidpass", "POSTGRES_DB": "progressdb"},
		ExposedPorts: []string{"5432/tcp"},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
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
	dsn := fmt.Sprintf("postgres://firstaid:firstaidpass@%s:%s/progressdb?sslmode=disable", host, port.Port())
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

func redisClientFromURL(url string) (*goredis.Client, error) {
	opts, err := goredis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	return goredis.NewClient(opts), nil
}

func requireDocker(t *testing.T) {
	t.Helper()
	if _, err := tc.NewDockerProvider(); err != nil {
		t.Skipf("docker not available: %v", err)
	}
}
