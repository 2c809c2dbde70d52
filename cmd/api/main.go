package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"sultan.app/internal/auth"
	"sultan.app/internal/config"
	"sultan.app/internal/httpapi"
	"sultan.app/internal/inventory"
	"sultan.app/internal/migrate"
	"sultan.app/internal/obs"
	"sultan.app/internal/store/pg"
	"sultan.app/internal/store/sqlite"
)

var version = "0.3.1"

// backend bundles the storage interfaces the API needs, so the sqlite and
// postgres stores can be wired through the same path.
type backend struct {
	db     *sql.DB
	close  func() error
	users  auth.UserDirectory
	tokens auth.TokenStore
	grants auth.GrantSource

	branches   inventory.BranchStore
	categories inventory.CategoryStore
	suppliers  inventory.SupplierStore
	customers  inventory.CustomerStore
	products   inventory.ProductStore
	userStore  inventory.UserStore
}

func openBackend(cfg config.Config) (backend, error) {
	switch cfg.DB.Driver {
	case "postgres":
		s, err := pg.Open(cfg.DB.DSN)
		if err != nil {
			return backend{}, err
		}
		return backend{
			db:         s.DB(),
			close:      s.Close,
			users:      s,
			tokens:     s,
			grants:     s,
			branches:   s.Branches(),
			categories: s.Categories(),
			suppliers:  s.Suppliers(),
			customers:  s.Customers(),
			products:   s.Products(),
			userStore:  s.Users(),
		}, nil
	default:
		s, err := sqlite.Open(cfg.DB.DSN)
		if err != nil {
			return backend{}, err
		}
		return backend{
			db:         s.DB(),
			close:      s.Close,
			users:      s,
			tokens:     s,
			grants:     s,
			branches:   s.Branches(),
			categories: s.Categories(),
			suppliers:  s.Suppliers(),
			customers:  s.Customers(),
			products:   s.Products(),
			userStore:  s.Users(),
		}, nil
	}
}

func main() {
	obs.Init()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	be, err := openBackend(cfg)
	if err != nil {
		log.Fatalf("open store: %v", err)
	}

	if os.Getenv("SULTAN_MIGRATE_ON_START") == "1" {
		dialect := migrate.DialectSQLite
		if cfg.DB.Driver == "postgres" {
			dialect = migrate.DialectPostgres
		}
		mgr := migrate.NewManager(be.db, dialect, filepath.Join("migrations", cfg.DB.Driver))
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		if err := mgr.Up(ctx); err != nil {
			cancel()
			log.Fatalf("migrate: %v", err)
		}
		cancel()
	}

	hasher := auth.NewArgon2Hasher()
	signer, err := auth.NewJWTSigner([]byte(cfg.Auth.Secret), auth.WithSignerIssuer(cfg.Auth.Issuer))
	if err != nil {
		log.Fatalf("signer: %v", err)
	}
	svc, err := auth.NewService(be.users, be.tokens, hasher, signer,
		auth.WithAccessTTL(cfg.AccessTTL()),
		auth.WithRefreshTTL(cfg.RefreshTTL()),
	)
	if err != nil {
		log.Fatalf("auth service: %v", err)
	}

	api := httpapi.New(httpapi.Config{
		Auth:       svc,
		Signer:     signer,
		Grants:     be.grants,
		Branches:   inventory.NewBranchService(be.branches),
		Categories: inventory.NewCategoryService(be.categories),
		Suppliers:  inventory.NewSupplierService(be.suppliers),
		Customers:  inventory.NewCustomerService(be.customers),
		Products:   inventory.NewProductService(be.products),
		Users:      inventory.NewUserService(be.userStore, hasher, be.tokens),
		Ready:      httpapi.ReadyProbe{DB: be.db},
		Version:    version,
	})

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           api.Handler(),
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	log.Printf("Starting sultan-api %s on %s (db=%s)", version, srv.Addr, cfg.DB.Driver)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	<-stop
	log.Println("Shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_ = srv.Shutdown(ctx)
	_ = be.close()
	log.Println("Stopped")
}
