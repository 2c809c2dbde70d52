package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"sultan.app/internal/auth"
	"sultan.app/internal/ids"
	"sultan.app/internal/inventory"
	"sultan.app/internal/migrate"
	"sultan.app/internal/store/pg"
	"sultan.app/internal/store/sqlite"
)

func main() {
	log.SetFlags(0)
	var (
		driver         = flag.String("driver", envOr("SULTAN_DB_DRIVER", "sqlite"), "Storage driver: sqlite or postgres")
		dsn            = flag.String("dsn", envOr("SULTAN_DB_DSN", "data/sultan.db"), "Database DSN (file path for sqlite)")
		migrationsPath = flag.String("migrations", "", "Path to SQL migrations (defaults to migrations/<driver>)")
		seedsPath      = flag.String("seeds", "", "Path to SQL seeds")
	)
	flag.Parse()

	if len(flag.Args()) == 0 {
		log.Fatal("usage: migrate [up|down|status|seed|bootstrap]")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	var (
		db      *sql.DB
		dialect migrate.Dialect
		users   userStore
		closeDB func() error
	)
	switch *driver {
	case "postgres":
		s, err := pg.Open(*dsn)
		if err != nil {
			log.Fatalf("open db: %v", err)
		}
		db, dialect, users, closeDB = s.DB(), migrate.DialectPostgres, s.Users(), s.Close
	case "sqlite":
		s, err := sqlite.Open(*dsn)
		if err != nil {
			log.Fatalf("open db: %v", err)
		}
		db, dialect, users, closeDB = s.DB(), migrate.DialectSQLite, s.Users(), s.Close
	default:
		log.Fatalf("unknown driver %q", *driver)
	}
	defer closeDB()

	dir := *migrationsPath
	if dir == "" {
		dir = filepath.Join("migrations", *driver)
	}
	var opts []migrate.Option
	if *seedsPath != "" {
		opts = append(opts, migrate.WithSeedsDir(*seedsPath))
	}
	mgr := migrate.NewManager(db, dialect, dir, opts...)

	var err error
	switch flag.Arg(0) {
	case "up":
		err = mgr.Up(ctx)
	case "down":
		err = mgr.Down(ctx)
	case "seed":
		err = mgr.Seed(ctx)
	case "status":
		var history []string
		history, err = mgr.Status(ctx)
		if err == nil {
			for _, item := range history {
				fmt.Println(item)
			}
		}
	case "bootstrap":
		err = bootstrap(ctx, db, users)
	default:
		log.Fatalf("unknown command %q", flag.Arg(0))
	}
	if err != nil {
		log.Fatalf("migrate %s: %v", flag.Arg(0), err)
	}
}

type userStore interface {
	Create(ctx context.Context, id int64, u inventory.UserCreate, passwordHash string) error
	SaveGrant(ctx context.Context, g auth.Grant) error
}

// bootstrap creates the first administrator when the users table is empty.
// Credentials come from SULTAN_BOOTSTRAP_USER and SULTAN_BOOTSTRAP_PASSWORD;
// the password cannot live in a SQL seed because hashes are salted per user.
func bootstrap(ctx context.Context, db *sql.DB, users userStore) error {
	username := os.Getenv("SULTAN_BOOTSTRAP_USER")
	password := os.Getenv("SULTAN_BOOTSTRAP_PASSWORD")
	if username == "" || password == "" {
		return fmt.Errorf("bootstrap: SULTAN_BOOTSTRAP_USER and SULTAN_BOOTSTRAP_PASSWORD are required")
	}

	var count int
	if err := db.QueryRowContext(ctx, `select count(*) from users`).Scan(&count); err != nil {
		return fmt.Errorf("bootstrap: count users: %w", err)
	}
	if count > 0 {
		log.Println("bootstrap: users already exist, nothing to do")
		return nil
	}

	hash, err := auth.NewArgon2Hasher().Hash(password)
	if err != nil {
		return fmt.Errorf("bootstrap: hash password: %w", err)
	}
	id := ids.Next()
	if err := users.Create(ctx, id, inventory.UserCreate{Username: username, Name: username}, hash); err != nil {
		return fmt.Errorf("bootstrap: create user: %w", err)
	}
	err = users.SaveGrant(ctx, auth.Grant{UserID: id, Resource: auth.ResourceAdmin, Action: auth.ActionAll})
	if err != nil {
		return fmt.Errorf("bootstrap: grant admin: %w", err)
	}
	log.Printf("bootstrap: created administrator %q (id %d)", username, id)
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
