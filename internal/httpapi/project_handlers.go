package httpapi

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"projecthub.org/internal/audit"
	"projecthub.org/internal/ids"
	"projecthub.org/internal/project"
)

type createProjectRequest struct {
	Name string `json:"name"`
}

func (a *API) handleProjects(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		a.listProjects(w, r)
	case http.MethodPost:
		a.createProject(w, r)
	default:
		methodNotAllowed(w, r, http.MethodGet, http.MethodPost)
	}
}

func (a *API) listProjects(w http.ResponseWriter, r *http.Request) {
	principal, ok := a.requirePrincipal(w, r)
	if !ok {
		return
	}
	all, err := a.projects.List(r.Context())
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, project.Scoped(principal, all))
}

func (a *API) createProject(w http.ResponseWriter, r *http.Request) {
	principal, ok := a.requirePrincipal(w, r)
	if !ok {
		return
	}
	var req createProjectRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		writeError(w, r, http.StatusBadRequest, "name is required")
		return
	}

	pr := &project.Project{
		ID:         ids.New(),
		Name:       name,
		OwnerEmail: principal.Email,
		CreatedAt:  time.Now().UTC(),
	}
	if err := a.projects.Create(r.Context(), pr); err != nil {
		writeError(w, r, http.StatusInternalServerError, "internal error")
		return
	}

	_ = audit.LogEvent(r.Context(), "project.create", map[string]any{
		"project_id": pr.ID,
		"name":       pr.Name,
	})
	w.Header().Set("Location", "/projects/"+pr.ID)
	writeJSON(w, http.StatusCreated, pr)
}

func (a *API) handleProjectResource(w http.ResponseWriter, r *http.Request) {
	id := strings.Trim(strings.TrimPrefix(r.URL.Path, "/projects/"), "/")
	if id == "" || strings.Contains(id, "/") {
		writeError(w, r, http.StatusNotFound, "resource not found")
		return
	}
	switch r.Method {
	case http.MethodGet:
		a.getProject(w, r, id)
	case http.MethodDelete:
		a.deleteProject(w, r, id)
	default:
		methodNotAllowed(w, r, http.MethodGet, http.MethodDelete)
	}
}

func (a *API) getProject(w http.ResponseWriter, r *http.Request, id string) {
	principal, ok := a.requirePrincipal(w, r)
	if !ok {
		return
	}
	pr, err := a.projects.Find(r.Context(), id)
	if err != nil {
		handleProjectError(w, r, err)
		return
	}
	if !project.CanView(principal, pr) {
		writeError(w, r, http.StatusUnauthorized, "You are not allowed to view this project.")
		return
	}
	writeJSON(w, http.StatusOK, pr)
}

func (a *API) deleteProject(w http.ResponseWriter, r *http.Request, id string) {
	principal, ok := a.requirePrincipal(w, r)
	if !ok {
		return
	}
	pr, err := a.projects.Find(r.Context(), id)
	if err != nil {
		handleProjectError(w, r, err)
		return
	}
	// Ownership only: the admin role does not bypass the delete rule.
	if !project.CanDelete(principal, pr) {
		writeError(w, r, http.StatusUnauthorized, "You are not allowed to delete this project.")
		return
	}
	if err := a.projects.Delete(r.Context(), pr.ID); err != nil {
		handleProjectError(w, r, err)
		return
	}
	_ = audit.LogEvent(r.Context(), "project.delete", map[string]any{
		"project_id": pr.ID,
	})
	w.WriteHeader(http.StatusNoContent)
}

func handleProjectError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, project.ErrNotFound):
		writeError(w, r, http.StatusNotFound, "Project not found.")
	case errors.Is(err, project.ErrInvalidInput):
		writeError(w, r, http.StatusBadRequest, err.Error())
	default:
		writeError(w, r, http.StatusInternalServerError, "internal error")
	}
}
