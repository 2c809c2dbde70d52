package httpapi

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"sultan.app/internal/inventory"
)

// resourceID parses "/v1/<kind>/{id}[/rest]" and returns the id and whatever
// follows it.
func resourceID(r *http.Request, prefix string) (int64, string, error) {
	path := strings.TrimPrefix(r.URL.Path, prefix)
	path = strings.Trim(path, "/")
	seg, rest, _ := strings.Cut(path, "/")
	id, err := strconv.ParseInt(seg, 10, 64)
	if err != nil || id <= 0 {
		return 0, "", fmt.Errorf("invalid id %q", seg)
	}
	return id, rest, nil
}

func parsePage(r *http.Request) (inventory.Page, error) {
	q := r.URL.Query()
	page, size := 1, 0
	if v := q.Get("page"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return inventory.Page{}, fmt.Errorf("invalid page %q", v)
		}
		page = n
	}
	if v := q.Get("page_size"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return inventory.Page{}, fmt.Errorf("invalid page_size %q", v)
		}
		size = n
	}
	return inventory.NewPage(page, size), nil
}

func queryString(r *http.Request, key string) *string {
	if v := r.URL.Query().Get(key); v != "" {
		return &v
	}
	return nil
}

func queryInt64(r *http.Request, key string) (*int64, error) {
	v := r.URL.Query().Get(key)
	if v == "" {
		return nil, nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid %s %q", key, v)
	}
	return &n, nil
}

func queryInt32(r *http.Request, key string) (*int32, error) {
	v := r.URL.Query().Get(key)
	if v == "" {
		return nil, nil
	}
	n, err := strconv.ParseInt(v, 10, 32)
	if err != nil {
		return nil, fmt.Errorf("invalid %s %q", key, v)
	}
	n32 := int32(n)
	return &n32, nil
}

type createdResponse struct {
	ID int64 `json:"id"`
}

// --- branches ---

func (a *API) handleBranchCollection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		var req inventory.BranchCreate
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, r, http.StatusBadRequest, err.Error())
			return
		}
		id, err := a.branches.Create(requestContext(r), req)
		if err != nil {
			handleDomainError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, createdResponse{ID: id})
	case http.MethodGet:
		page, err := parsePage(r)
		if err != nil {
			writeError(w, r, http.StatusBadRequest, err.Error())
			return
		}
		items, err := a.branches.List(requestContext(r), page)
		if err != nil {
			handleDomainError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"items": items})
	default:
		methodNotAllowed(w, r, http.MethodPost, http.MethodGet)
	}
}

func (a *API) handleBranchResource(w http.ResponseWriter, r *http.Request) {
	id, rest, err := resourceID(r, "/v1/branches/")
	if err != nil || rest != "" {
		writeError(w, r, http.StatusNotFound, "resource not found")
		return
	}
	switch r.Method {
	case http.MethodGet:
		item, err := a.branches.Get(requestContext(r), id)
		if err != nil {
			handleDomainError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, item)
	case http.MethodPatch:
		var req inventory.BranchUpdate
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, r, http.StatusBadRequest, err.Error())
			return
		}
		if err := a.branches.Update(requestContext(r), id, req); err != nil {
			handleDomainError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	case http.MethodDelete:
		if err := a.branches.Delete(requestContext(r), id); err != nil {
			handleDomainError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		methodNotAllowed(w, r, http.MethodGet, http.MethodPatch, http.MethodDelete)
	}
}

// --- categories ---

func (a *API) handleCategoryCollection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		var req inventory.CategoryCreate
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, r, http.StatusBadRequest, err.Error())
			return
		}
		id, err := a.categories.Create(requestContext(r), req)
		if err != nil {
			handleDomainError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, createdResponse{ID: id})
	case http.MethodGet:
		page, err := parsePage(r)
		if err != nil {
			writeError(w, r, http.StatusBadRequest, err.Error())
			return
		}
		items, err := a.categories.List(requestContext(r), page)
		if err != nil {
			handleDomainError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"items": items})
	default:
		methodNotAllowed(w, r, http.MethodPost, http.MethodGet)
	}
}

func (a *API) handleCategoryResource(w http.ResponseWriter, r *http.Request) {
	id, rest, err := resourceID(r, "/v1/categories/")
	if err != nil || rest != "" {
		writeError(w, r, http.StatusNotFound, "resource not found")
		return
	}
	switch r.Method {
	case http.MethodGet:
		item, err := a.categories.Get(requestContext(r), id)
		if err != nil {
			handleDomainError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, item)
	case http.MethodPatch:
		var req inventory.CategoryUpdate
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, r, http.StatusBadRequest, err.Error())
			return
		}
		if err := a.categories.Update(requestContext(r), id, req); err != nil {
			handleDomainError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	case http.MethodDelete:
		if err := a.categories.Delete(requestContext(r), id); err != nil {
			handleDomainError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		methodNotAllowed(w, r, http.MethodGet, http.MethodPatch, http.MethodDelete)
	}
}

// --- suppliers ---

func (a *API) handleSupplierCollection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		var req inventory.SupplierCreate
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, r, http.StatusBadRequest, err.Error())
			return
		}
		id, err := a.suppliers.Create(requestContext(r), req)
		if err != nil {
			handleDomainError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, createdResponse{ID: id})
	case http.MethodGet:
		page, err := parsePage(r)
		if err != nil {
			writeError(w, r, http.StatusBadRequest, err.Error())
			return
		}
		filter := inventory.SupplierFilter{
			Name:  queryString(r, "name"),
			Code:  queryString(r, "code"),
			Phone: queryString(r, "phone"),
			Email: queryString(r, "email"),
		}
		items, err := a.suppliers.List(requestContext(r), filter, page)
		if err != nil {
			handleDomainError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"items": items})
	default:
		methodNotAllowed(w, r, http.MethodPost, http.MethodGet)
	}
}

func (a *API) handleSupplierResource(w http.ResponseWriter, r *http.Request) {
	id, rest, err := resourceID(r, "/v1/suppliers/")
	if err != nil || rest != "" {
		writeError(w, r, http.StatusNotFound, "resource not found")
		return
	}
	switch r.Method {
	case http.MethodGet:
		item, err := a.suppliers.Get(requestContext(r), id)
		if err != nil {
			handleDomainError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, item)
	case http.MethodPatch:
		var req inventory.SupplierUpdate
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, r, http.StatusBadRequest, err.Error())
			return
		}
		if err := a.suppliers.Update(requestContext(r), id, req); err != nil {
			handleDomainError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	case http.MethodDelete:
		if err := a.suppliers.Delete(requestContext(r), id); err != nil {
			handleDomainError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		methodNotAllowed(w, r, http.MethodGet, http.MethodPatch, http.MethodDelete)
	}
}

// --- customers ---

func (a *API) handleCustomerCollection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		var req inventory.CustomerCreate
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, r, http.StatusBadRequest, err.Error())
			return
		}
		id, err := a.customers.Create(requestContext(r), req)
		if err != nil {
			handleDomainError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, createdResponse{ID: id})
	case http.MethodGet:
		page, err := parsePage(r)
		if err != nil {
			writeError(w, r, http.StatusBadRequest, err.Error())
			return
		}
		level, err := queryInt32(r, "level")
		if err != nil {
			writeError(w, r, http.StatusBadRequest, err.Error())
			return
		}
		filter := inventory.CustomerFilter{
			Number: queryString(r, "number"),
			Name:   queryString(r, "name"),
			Phone:  queryString(r, "phone"),
			Email:  queryString(r, "email"),
			Level:  level,
		}
		items, err := a.customers.List(requestContext(r), filter, page)
		if err != nil {
			handleDomainError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"items": items})
	default:
		methodNotAllowed(w, r, http.MethodPost, http.MethodGet)
	}
}

func (a *API) handleCustomerResource(w http.ResponseWriter, r *http.Request) {
	id, rest, err := resourceID(r, "/v1/customers/")
	if err != nil || rest != "" {
		writeError(w, r, http.StatusNotFound, "resource not found")
		return
	}
	switch r.Method {
	case http.MethodGet:
		item, err := a.customers.Get(requestContext(r), id)
		if err != nil {
			handleDomainError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, item)
	case http.MethodPatch:
		var req inventory.CustomerUpdate
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, r, http.StatusBadRequest, err.Error())
			return
		}
		if err := a.customers.Update(requestContext(r), id, req); err != nil {
			handleDomainError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	case http.MethodDelete:
		if err := a.customers.Delete(requestContext(r), id); err != nil {
			handleDomainError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		methodNotAllowed(w, r, http.MethodGet, http.MethodPatch, http.MethodDelete)
	}
}

// --- products ---

func (a *API) handleProductCollection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		var req inventory.ProductCreate
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, r, http.StatusBadRequest, err.Error())
			return
		}
		id, err := a.products.Create(requestContext(r), req)
		if err != nil {
			handleDomainError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, createdResponse{ID: id})
	case http.MethodGet:
		page, err := parsePage(r)
		if err != nil {
			writeError(w, r, http.StatusBadRequest, err.Error())
			return
		}
		categoryID, err := queryInt64(r, "category_id")
		if err != nil {
			writeError(w, r, http.StatusBadRequest, err.Error())
			return
		}
		filter := inventory.ProductFilter{
			Name:       queryString(r, "name"),
			Barcode:    queryString(r, "barcode"),
			CategoryID: categoryID,
		}
		items, err := a.products.List(requestContext(r), filter, page)
		if err != nil {
			handleDomainError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"items": items})
	default:
		methodNotAllowed(w, r, http.MethodPost, http.MethodGet)
	}
}

func (a *API) handleProductResource(w http.ResponseWriter, r *http.Request) {
	id, rest, err := resourceID(r, "/v1/products/")
	if err != nil || rest != "" {
		writeError(w, r, http.StatusNotFound, "resource not found")
		return
	}
	switch r.Method {
	case http.MethodGet:
		item, err := a.products.Get(requestContext(r), id)
		if err != nil {
			handleDomainError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, item)
	case http.MethodPatch:
		var req inventory.ProductUpdate
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, r, http.StatusBadRequest, err.Error())
			return
		}
		if err := a.products.Update(requestContext(r), id, req); err != nil {
			handleDomainError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	case http.MethodDelete:
		if err := a.products.Delete(requestContext(r), id); err != nil {
			handleDomainError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		methodNotAllowed(w, r, http.MethodGet, http.MethodPatch, http.MethodDelete)
	}
}
