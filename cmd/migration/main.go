package main

import (
	"errors"
	"fmt"
	"log"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

// Schema migration runner for the prediction league database. Kept apart
// from the API binary so deploys can gate boot on a clean migration run.
func main() {
	log.SetFlags(0)

	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	migrator, sourceURL, err := newMigrator()
	if err != nil {
		log.Fatal(err)
	}
	defer func() {
		if srcErr, dbErr := migrator.Close(); srcErr != nil || dbErr != nil {
			log.Printf("close migrator: source=%v db=%v", srcErr, dbErr)
		}
	}()

	if err := run(migrator, sourceURL, os.Args[1], os.Args[2:]); err != nil {
		log.Fatal(err)
	}
}

func newMigrator() (*migrate.Migrate, string, error) {
	dbURL := strings.TrimSpace(os.Getenv("DB_URL"))
	if dbURL == "" {
		return nil, "", errors.New("DB_URL is required")
	}

	dir, err := migrationsDir()
	if err != nil {
		return nil, "", err
	}
	sourceURL := "file://" + filepath.ToSlash(dir)

	m, err := migrate.New(sourceURL, pgbouncerSafeURL(dbURL))
	if err != nil {
		return nil, "", fmt.Errorf("create migrator: %w", err)
	}
	return m, sourceURL, nil
}

func run(m *migrate.Migrate, sourceURL, command string, args []string) error {
	switch strings.ToLower(strings.TrimSpace(command)) {
	case "up":
		if err := apply(m.Up()); err != nil {
			return err
		}
		log.Printf("migrations applied (source=%s)", sourceURL)
		return nil

	case "down":
		steps := 1
		if len(args) > 0 {
			parsed, err := strconv.Atoi(strings.TrimSpace(args[0]))
			if err != nil || parsed <= 0 {
				return fmt.Errorf("down expects a positive step count, got %q", args[0])
			}
			steps = parsed
		}
		if err := apply(m.Steps(-steps)); err != nil {
			return err
		}
		log.Printf("rolled back %d migration(s)", steps)
		return nil

	case "version":
		version, dirty, err := m.Version()
		if errors.Is(err, migrate.ErrNilVersion) {
			fmt.Println("version: none")
			fmt.Println("dirty: false")
			return nil
		}
		if err != nil {
			return fmt.Errorf("read version: %w", err)
		}
		fmt.Printf("version: %d\n", version)
		fmt.Printf("dirty: %t\n", dirty)
		return nil

	case "force":
		version, err := versionArg(args)
		if err != nil {
			return err
		}
		if err := m.Force(int(version)); err != nil {
			return fmt.Errorf("force version %d: %w", version, err)
		}
		log.Printf("forced version to %d", version)
		return nil

	case "goto", "migrate":
		version, err := versionArg(args)
		if err != nil {
			return err
		}
		if err := apply(m.Migrate(uint(version))); err != nil {
			return err
		}
		log.Printf("migrated to version %d", version)
		return nil

	default:
		usage()
		return fmt.Errorf("unknown command %q", command)
	}
}

// apply swallows ErrNoChange, which up and goto report on an already
// current schema.
func apply(err error) error {
	if errors.Is(err, migrate.ErrNoChange) {
		log.Printf("schema already up to date")
		return nil
	}
	return err
}

func versionArg(args []string) (uint64, error) {
	if len(args) == 0 {
		return 0, errors.New("a schema version argument is required")
	}
	version, err := strconv.ParseUint(strings.TrimSpace(args[0]), 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid schema version %q: %w", args[0], err)
	}
	return version, nil
}

func migrationsDir() (string, error) {
	candidates := []string{
		strings.TrimSpace(os.Getenv("MIGRATIONS_DIR")),
		strings.TrimSpace(os.Getenv("MIGRATIONS_PATH")),
		"./db/migrations",
		"/app/db/migrations",
	}
	for _, candidate := range candidates {
		if candidate == "" {
			continue
		}
		abs, err := filepath.Abs(candidate)
		if err != nil {
			continue
		}
		if info, err := os.Stat(abs); err == nil && info.IsDir() {
			return abs, nil
		}
	}
	return "", errors.New("no migrations directory found, set MIGRATIONS_DIR or run from the repo root")
}

// pgbouncerSafeURL mirrors the API's DB_DISABLE_PREPARED_BINARY_RESULT
// handling so both binaries dial the pooler the same way.
func pgbouncerSafeURL(raw string) string {
	switch strings.ToLower(strings.TrimSpace(os.Getenv("DB_DISABLE_PREPARED_BINARY_RESULT"))) {
	case "1", "true", "t", "yes", "y", "on":
	default:
		return raw
	}

	parsed, err := url.Parse(raw)
	if err != nil || parsed == nil {
		return raw
	}
	query := parsed.Query()
	if query.Has("disable_prepared_binary_result") {
		return raw
	}
	query.Set("disable_prepared_binary_result", "yes")
	parsed.RawQuery = query.Encode()
	return parsed.String()
}

func usage() {
	program := filepath.Base(os.Args[0])
	fmt.Fprintf(os.Stderr, "usage: %s <command> [args]\n\n", program)
	fmt.Fprintln(os.Stderr, "commands:")
	fmt.Fprintln(os.Stderr, "  up               apply all pending migrations")
	fmt.Fprintln(os.Stderr, "  down [n]         roll back n migrations (default 1)")
	fmt.Fprintln(os.Stderr, "  version          print the current schema version")
	fmt.Fprintln(os.Stderr, "  force <version>  mark the schema version without running migrations")
	fmt.Fprintln(os.Stderr, "  goto <version>   migrate up or down to an exact version")
}
