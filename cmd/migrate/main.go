package main

import (
	"context"
	"database/sql"
	_ "embed"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"aeobro.backend/internal/config"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
)

//go:embed schema.sql
var schemaSQL string

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

type migrateDeps struct {
	loadEnv func() error
	loadCfg func() *config.Config
	open    func(cfg config.DatabaseConfig) (execer, io.Closer, error)
	out     io.Writer
}

func defaultMigrateDeps() migrateDeps {
	return migrateDeps{
		loadEnv: func() error { return godotenv.Load() },
		loadCfg: config.Load,
		open: func(cfg config.DatabaseConfig) (execer, io.Closer, error) {
			db, err := sql.Open("postgres", cfg.URL())
			if err != nil {
				return nil, nil, fmt.Errorf("failed to open database: %w", err)
			}
			if err := db.Ping(); err != nil {
				_ = db.Close()
				return nil, nil, fmt.Errorf("failed to ping database: %w", err)
			}
			return db, db, nil
		},
		out: os.Stdout,
	}
}

// splitStatements breaks a schema file into single statements. The schema holds no
// semicolons inside literals.
func splitStatements(script string) []string {
	var out []string
	for _, part := range strings.Split(script, ";") {
		if stmt := strings.TrimSpace(part); stmt != "" {
			out = append(out, stmt)
		}
	}
	return out
}

func runMigrate(args []string, deps migrateDeps) error {
	fs := flag.NewFlagSet("migrate", flag.ContinueOnError)
	dryRun := fs.Bool("dry-run", false, "print statements without executing them")
	timeout := fs.Duration("timeout", time.Minute, "overall migration timeout")
	if err := fs.Parse(args); err != nil {
		return err
	}

	stmts := splitStatements(schemaSQL)
	if *dryRun {
		for _, stmt := range stmts {
			_, _ = fmt.Fprintf(deps.out, "%s;\n", stmt)
		}
		return nil
	}

	if err := deps.loadEnv(); err != nil {
		log.Println("No .env file found, using environment variables")
	}
	cfg := deps.loadCfg()

	db, closer, err := deps.open(cfg.Database)
	if err != nil {
		return err
	}
	defer closer.Close()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	for i, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("statement %d failed: %w", i+1, err)
		}
	}
	_, _ = fmt.Fprintf(deps.out, "Applied %d statements to %s\n", len(stmts), cfg.Database.DBName)
	return nil
}

func main() {
	if err := runMigrate(os.Args[1:], defaultMigrateDeps()); err != nil {
		log.Fatal(err)
	}
}
