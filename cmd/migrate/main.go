// Command migrate manages the database schema via Goose migrations.
//
// Usage:
//
//	migrate up              run all pending migrations
//	migrate up-to <n>       migrate up to version n
//	migrate down            roll back the last migration
//	migrate status          print migration status
//	migrate version         print current database version
//	migrate create <name>   create a new SQL migration file
package main

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"go.uber.org/zap"

	"github.com/schemata-hq/schemata-server/internal/migrate"
)

func main() {
	_ = godotenv.Load("../../.env")
	_ = godotenv.Overload("../../.env.local")

	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}
	command := os.Args[1]

	logger, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	ctx := context.Background()

	pool, err := pgxpool.New(ctx, dsnFromEnv())
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer pool.Close()

	sqldb := stdlib.OpenDBFromPool(pool)
	db := bun.NewDB(sqldb, pgdialect.New())
	defer db.Close()

	m := migrate.NewMigrator(db, logger)

	switch command {
	case "up":
		err = m.Up(ctx)
	case "up-to":
		version := argInt64(logger, 2, "up-to requires a version number")
		err = m.UpTo(ctx, version)
	case "down":
		err = m.Down(ctx)
	case "status":
		err = m.Status(ctx)
	case "version":
		var v int64
		v, err = m.Version(ctx)
		if err == nil {
			fmt.Printf("database version: %d\n", v)
		}
	case "create":
		if len(os.Args) < 3 {
			logger.Fatal("create requires a migration name")
		}
		err = m.CreateMigration(os.Args[2], "sql")
	case "mark-applied":
		version := argInt64(logger, 2, "mark-applied requires a version number")
		err = m.MarkApplied(ctx, version)
	default:
		usage()
		os.Exit(1)
	}

	if err != nil {
		logger.Fatal("migration command failed", zap.String("command", command), zap.Error(err))
	}
}

func dsnFromEnv() string {
	if dsn := os.Getenv("DATABASE_URL"); dsn != "" {
		return dsn
	}
	host := getEnv("POSTGRES_HOST", "localhost")
	port := getEnv("POSTGRES_PORT", "5432")
	user := getEnv("POSTGRES_USER", "schemata")
	pass := getEnv("POSTGRES_PASSWORD", "schemata")
	name := getEnv("POSTGRES_DB", "schemata")
	sslmode := getEnv("POSTGRES_SSLMODE", "disable")
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s", user, pass, host, port, name, sslmode)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func argInt64(logger *zap.Logger, idx int, msg string) int64 {
	if len(os.Args) <= idx {
		logger.Fatal(msg)
	}
	v, err := strconv.ParseInt(os.Args[idx], 10, 64)
	if err != nil {
		logger.Fatal("invalid version number", zap.Error(err))
	}
	return v
}

func usage() {
	fmt.Println("Usage: migrate <up|up-to|down|status|version|create|mark-applied> [args]")
}
