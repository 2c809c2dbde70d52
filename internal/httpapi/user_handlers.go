package httpapi

import (
	"net/http"

	"sultan.app/internal/auth"
	"sultan.app/internal/inventory"
)

type resetPasswordRequest struct {
	Password string `json:"password"`
}

type grantRequest struct {
	Resource auth.Resource `json:"resource"`
	Action   auth.Action   `json:"action"`
	BranchID *int64        `json:"branch_id"`
}

func (a *API) handleUserCollection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		var req inventory.UserCreate
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, r, http.StatusBadRequest, err.Error())
			return
		}
		id, err := a.users.Create(requestContext(r), req)
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
		filter := inventory.UserFilter{
			Username: queryString(r, "username"),
			Name:     queryString(r, "name"),
			Email:    queryString(r, "email"),
		}
		items, err := a.users.List(requestContext(r), filter, page)
		if err != nil {
			handleDomainError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"items": items})
	default:
		methodNotAllowed(w, r, http.MethodPost, http.MethodGet)
	}
}

func (a *API) handleUserResource(w http.ResponseWriter, r *http.Request) {
	id, rest, err := resourceID(r, "/v1/users/")
	if err != nil {
		writeError(w, r, http.StatusNotFound, "resource not found")
		return
	}
	switch rest {
	case "":
		a.userResource(w, r, id)
	case "password":
		a.userPassword(w, r, id)
	case "grants":
		a.userGrants(w, r, id)
	default:
		writeError(w, r, http.StatusNotFound, "resource not found")
	}
}

func (a *API) userResource(w http.ResponseWriter, r *http.Request, id int64) {
	switch r.Method {
	case http.MethodGet:
		item, err := a.users.Get(requestContext(r), id)
		if err != nil {
			handleDomainError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, item)
	case http.MethodPatch:
		var req inventory.UserUpdate
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, r, http.StatusBadRequest, err.Error())
			return
		}
		if err := a.users.Update(requestContext(r), id, req); err != nil {
			handleDomainError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	case http.MethodDelete:
		if err := a.users.Delete(requestContext(r), id); err != nil {
			handleDomainError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		methodNotAllowed(w, r, http.MethodGet, http.MethodPatch, http.MethodDelete)
	}
}

func (a *API) userPassword(w http.ResponseWriter, r *http.Request, id int64) {
	if r.Method != http.MethodPut {
		methodNotAllowed(w, r, http.MethodPut)
		return
	}
	var req resetPasswordRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if err := a.users.ResetPassword(requestContext(r), id, req.Password); err != nil {
		handleDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *API) userGrants(w http.ResponseWriter, r *http.Request, id int64) {
	switch r.Method {
	case http.MethodPut:
		var req grantRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, r, http.StatusBadRequest, err.Error())
			return
		}
		g := auth.Grant{UserID: id, Resource: req.Resource, Action: req.Action, BranchID: req.BranchID}
		if err := a.users.SaveGrant(requestContext(r), g); err != nil {
			handleDomainError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	case http.MethodDelete:
		var req grantRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, r, http.StatusBadRequest, err.Error())
			return
		}
		if err := a.users.DeleteGrant(requestContext(r), id, req.BranchID, req.Resource); err != nil {
			handleDomainError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		methodNotAllowed(w, r, http.MethodPut, http.MethodDelete)
	}
}
