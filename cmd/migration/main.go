package main

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(2)
	}

	dbURL := strings.TrimSpace(os.Getenv("DB_URL"))
	if dbURL == "" {
		log.Fatal("DB_URL is required")
	}

	migrationsDir, err := resolveMigrationsDir()
	if err != nil {
		log.Fatalf("resolve migrations dir: %v", err)
	}

	sourceURL := "file://" + filepath.ToSlash(migrationsDir)
	m, err := migrate.New(sourceURL, dbURL)
	if err != nil {
		log.Fatalf("create migrator: %v", err)
	}
	defer closeMigrator(m)

	switch strings.ToLower(strings.TrimSpace(os.Args[1])) {
	case "up":
		handleMigrationErr(m.Up())
		log.Printf("migrations applied (source=%s)", sourceURL)
	case "down":
		steps, parseErr := parseSteps(os.Args[2:])
		if parseErr != nil {
			log.Fatal(parseErr)
		}
		handleMigrationErr(m.Steps(-steps))
		log.Printf("rolled back %d migration(s)", steps)
	case "version":
		version, dirty, versionErr := m.Version()
		if errors.Is(versionErr, migrate.ErrNilVersion) {
			fmt.Println("version: none")
			return
		}
		if versionErr != nil {
			log.Fatalf("read version: %v", versionErr)
		}
		fmt.Printf("version: %d\ndirty: %t\n", version, dirty)
	case "force":
		if len(os.Args) < 3 {
			log.Fatal("force requires a version argument")
		}
		version, parseErr := strconv.Atoi(strings.TrimSpace(os.Args[2]))
		if parseErr != nil {
			log.Fatalf("invalid version %q: %v", os.Args[2], parseErr)
		}
		if err := m.Force(version); err != nil {
			log.Fatalf("force version %d: %v", version, err)
		}
		log.Printf("forced version to %d", version)
	default:
		printUsage()
		os.Exit(2)
	}
}

func parseSteps(args []string) (int, error) {
	if len(args) == 0 {
		return 1, nil
	}

	steps, err := strconv.Atoi(strings.TrimSpace(args[0]))
	if err != nil {
		return 0, fmt.Errorf("invalid down steps %q: %w", args[0], err)
	}
	if steps <= 0 {
		return 0, fmt.Errorf("down steps must be > 0")
	}

	return steps, nil
}

func handleMigrationErr(err error) {
	if err == nil {
		return
	}
	if errors.Is(err, migrate.ErrNoChange) {
		log.Printf("no migration changes")
		return
	}
	log.Fatal(err)
}

func closeMigrator(m *migrate.Migrate) {
	srcErr, dbErr := m.Close()
	if srcErr != nil {
		log.Printf("close migration source: %v", srcErr)
	}
	if dbErr != nil {
		log.Printf("close migration db: %v", dbErr)
	}
}

func resolveMigrationsDir() (string, error) {
	candidates := []string{
		strings.TrimSpace(os.Getenv("MIGRATIONS_DIR")),
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
		info, err := os.Stat(abs)
		if err != nil || !info.IsDir() {
			continue
		}
		return abs, nil
	}

	return "", fmt.Errorf("migration directory not found (checked MIGRATIONS_DIR, ./db/migrations, /app/db/migrations)")
}

func printUsage() {
	name := filepath.Base(os.Args[0])
	fmt.Fprintf(os.Stderr, "usage: %s <up|down|version|force> [args]\n", name)
	fmt.Fprintf(os.Stderr, "  %s up\n", name)
	fmt.Fprintf(os.Stderr, "  %s down 1\n", name)
	fmt.Fprintf(os.Stderr, "  %s force 1\n", name)
}
