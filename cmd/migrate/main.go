package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pathpal/pathpal/internal/pkg/config"
)

// Applied in order by up, and in reverse (via the .down.sql twins) by down.
var migrations = []string{
	"migrations/001_init_extensions.sql",
	"migrations/002_navigation_sessions.sql",
}

func main() {
	if len(os.Args) < 2 {
		log.Fatal("usage: migrate <up|down>")
	}

	cfg, err := config.Load("pathpal-migrate")
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer pool.Close()

	switch os.Args[1] {
	case "up":
		run(ctx, pool, migrations)
		log.Println("all migrations applied")
	case "down":
		run(ctx, pool, downFiles(migrations))
		log.Println("all migrations reverted")
	default:
		log.Fatalf("unknown command: %s", os.Args[1])
	}
}

// downFiles lists the rollback scripts newest first. The extension
// migration has no rollback; PostGIS may be shared with other schemas.
func downFiles(up []string) []string {
	var out []string
	for i := len(up) - 1; i >= 0; i-- {
		down := strings.TrimSuffix(up[i], ".sql") + ".down.sql"
		if _, err := os.Stat(down); err != nil {
			continue
		}
		out = append(out, down)
	}
	return out
}

func run(ctx context.Context, pool *pgxpool.Pool, files []string) {
	for _, f := range files {
		data, err := os.ReadFile(f)
		if err != nil {
			log.Fatalf("read %s: %v", f, err)
		}

		_, err = pool.Exec(ctx, string(data))
		if err != nil {
			log.Fatalf("exec %s: %v", f, err)
		}

		fmt.Printf("OK  %s\n", f)
	}
}
