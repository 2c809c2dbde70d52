package httpapi

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"sultan.app/internal/auth"
	"sultan.app/internal/inventory"
	"sultan.app/internal/obs"
)

// ReadyProbe reports whether the backing store answers.
type ReadyProbe struct {
	DB *sql.DB
}

func (rp ReadyProbe) Check(ctx context.Context) error {
	if rp.DB == nil {
		return nil
	}
	return rp.DB.PingContext(ctx)
}

// Config wires the API's collaborators.
type Config struct {
	Auth   *auth.Service
	Signer auth.TokenSigner
	Grants auth.GrantSource

	Branches   *inventory.BranchService
	Categories *inventory.CategoryService
	Suppliers  *inventory.SupplierService
	Customers  *inventory.CustomerService
	Products   *inventory.ProductService
	Users      *inventory.UserService

	Ready   ReadyProbe
	Version string
}

// API is the HTTP layer.
type API struct {
	mux *http.ServeMux

	auth   *auth.Service
	signer auth.TokenSigner
	grants auth.GrantSource

	branches   *inventory.BranchService
	categories *inventory.CategoryService
	suppliers  *inventory.SupplierService
	customers  *inventory.CustomerService
	products   *inventory.ProductService
	users      *inventory.UserService

	readyProbe ReadyProbe
	version    string
}

func New(cfg Config) *API {
	a := &API{
		mux:        http.NewServeMux(),
		auth:       cfg.Auth,
		signer:     cfg.Signer,
		grants:     cfg.Grants,
		branches:   cfg.Branches,
		categories: cfg.Categories,
		suppliers:  cfg.Suppliers,
		customers:  cfg.Customers,
		products:   cfg.Products,
		users:      cfg.Users,
		readyProbe: cfg.Ready,
		version:    cfg.Version,
	}

	// health/ready/info
	a.mux.HandleFunc("/healthz", a.Healthz)
	a.mux.HandleFunc("/readyz", a.Ready)
	a.mux.HandleFunc("/v1/info", a.Info)

	// Prometheus metrics
	a.mux.Handle("/metrics", obs.Handler())

	// session lifecycle
	a.mux.HandleFunc("/v1/auth", a.handleSession)
	a.mux.HandleFunc("/v1/auth/login", a.handleLogin)
	a.mux.HandleFunc("/v1/auth/refresh", a.handleRefresh)

	// business entities
	a.mux.HandleFunc("/v1/branches", a.handleBranchCollection)
	a.mux.HandleFunc("/v1/branches/", a.handleBranchResource)
	a.mux.HandleFunc("/v1/categories", a.handleCategoryCollection)
	a.mux.HandleFunc("/v1/categories/", a.handleCategoryResource)
	a.mux.HandleFunc("/v1/suppliers", a.handleSupplierCollection)
	a.mux.HandleFunc("/v1/suppliers/", a.handleSupplierResource)
	a.mux.HandleFunc("/v1/customers", a.handleCustomerCollection)
	a.mux.HandleFunc("/v1/customers/", a.handleCustomerResource)
	a.mux.HandleFunc("/v1/products", a.handleProductCollection)
	a.mux.HandleFunc("/v1/products/", a.handleProductResource)
	a.mux.HandleFunc("/v1/users", a.handleUserCollection)
	a.mux.HandleFunc("/v1/users/", a.handleUserResource)

	a.mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})

	return a
}

// Handler returns the full middleware chain around the mux.
func (a *API) Handler() http.Handler {
	var h http.Handler = a.mux
	h = a.withAuth(h)
	h = obs.Instrument(h)
	h = Logging(h)
	h = CORS(h)
	h = SecurityHeaders(h)
	h = RequestID(h)
	return h
}

func (a *API) Healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"service": "sultan-api",
		"version": a.version,
	})
}

func (a *API) Ready(w http.ResponseWriter, r *http.Request) {
	if err := a.readyProbe.Check(r.Context()); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]any{
			"status": "not_ready",
			"error":  err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ready",
	})
}

func (a *API) Info(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"name":    "sultan-api",
		"time":    time.Now().UTC().Format(time.RFC3339),
		"version": a.version,
	})
}
