package api

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rpupo63/portfolio-backend/errs"
	"github.com/rpupo63/portfolio-backend/lifecycle"
	"github.com/rpupo63/portfolio-backend/models"
)

type projectHandler struct {
	responder Responder
	logger    zerolog.Logger
	manager   *lifecycle.Manager
}

func newProjectHandler(manager *lifecycle.Manager) projectHandler {
	logger := log.With().Str("handlerName", "projectHandler").Logger()

	return projectHandler{
		responder: NewResponder(logger),
		logger:    logger,
		manager:   manager,
	}
}

// createProjectRequest is the JSON form of a new project.
type createProjectRequest struct {
	lifecycle.CreateInput
	Skills skillsField `json:"skills"`
}

// updateProjectRequest is the JSON form of a partial project edit.
type updateProjectRequest struct {
	lifecycle.UpdateInput
	Skills *skillsField `json:"skills,omitempty"`
}

func projectIDParam(r *http.Request) (string, error) {
	projectID := strings.TrimSpace(chi.URLParam(r, "projectID"))
	if projectID == "" {
		return "", errs.NewMissingRequiredFieldError("projectID")
	}
	return projectID, nil
}

func collection(projects []*models.Project) ProjectCollection {
	if projects == nil {
		projects = []*models.Project{}
	}
	return ProjectCollection{Projects: projects, Total: len(projects)}
}

// getActiveProjects lists the public portfolio
// @Summary List active projects
// @Description Retrieves active projects, newest first, optionally filtered by category
// @Tags Projects
// @Produce json
// @Param category query string false "Category filter"
// @Success 200 {object} ProjectCollection "Active projects"
// @Failure 500 {object} ErrorResponse "Internal Server Error - Error fetching projects"
// @Router /projects [get]
func (h projectHandler) getActiveProjects() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		category := strings.TrimSpace(r.URL.Query().Get("category"))
		if strings.EqualFold(category, "all") {
			category = ""
		}

		projects, err := h.manager.ListActive(r.Context(), category)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, collection(projects))
	}
}

// getProjectBySlug retrieves an active project for its detail page
// @Summary Get project by slug
// @Tags Projects
// @Produce json
// @Param slug path string true "Project slug"
// @Success 200 {object} models.Project "Project details"
// @Failure 404 {object} ErrorResponse "Not Found - Project not found or binned"
// @Router /project/{slug} [get]
func (h projectHandler) getProjectBySlug() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slug := strings.TrimSpace(chi.URLParam(r, "slug"))
		project, err := h.manager.GetBySlug(r.Context(), slug)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, project)
	}
}

// likeProject increments the like counter of an active project
// @Summary Like project
// @Tags Projects
// @Produce json
// @Param projectID path string true "Project ID" format(uuid)
// @Success 200 {object} LikeResponse "Updated like count"
// @Failure 404 {object} ErrorResponse "Not Found - Project not found or binned"
// @Failure 429 {object} ErrorResponse "Too Many Requests"
// @Router /project/{projectID}/like [post]
func (h projectHandler) likeProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID, err := projectIDParam(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		likes, err := h.manager.Like(r.Context(), projectID)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, LikeResponse{ProjectID: projectID, Likes: likes})
	}
}

// getAllProjects lists active projects for the admin dashboard
// @Summary List all projects
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} ProjectCollection "Active projects, newest first"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Router /admin/projects [get]
func (h projectHandler) getAllProjects() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projects, err := h.manager.ListAll(r.Context())
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, collection(projects))
	}
}

// getProject retrieves any project by ID
// @Summary Get project
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param projectID path string true "Project ID" format(uuid)
// @Success 200 {object} models.Project "Project details"
// @Failure 404 {object} ErrorResponse "Not Found - Project not found"
// @Router /admin/project/{projectID} [get]
func (h projectHandler) getProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID, err := projectIDParam(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		project, err := h.manager.Get(r.Context(), projectID)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, project)
	}
}

// createProject creates a new project
// @Summary Create project
// @Description Accepts JSON, or multipart/form-data with optional media, thumbnail and document files
// @Tags Admin
// @Accept json,mpfd
// @Produce json
// @Security BearerAuth
// @Success 201 {object} models.Project "Created project"
// @Failure 400 {object} ErrorResponse "Bad Request - Invalid project data"
// @Failure 415 {object} ErrorResponse "Unsupported Media Type - Upload type not accepted"
// @Failure 502 {object} ErrorResponse "Bad Gateway - Object storage failure"
// @Router /admin/project [post]
func (h projectHandler) createProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in lifecycle.CreateInput

		if isMultipart(r) {
			form, err := multipartForm(w, r)
			if err != nil {
				h.responder.WriteError(w, err)
				return
			}
			defer form.RemoveAll()

			in = createInputFromForm(form)
			media, thumbnail, document, closeAll, err := projectUploads(form)
			if err != nil {
				h.responder.WriteError(w, err)
				return
			}
			defer closeAll()
			in.Media, in.Thumbnail, in.Document = media, thumbnail, document
		} else {
			var req createProjectRequest
			if err := decodeJSON(w, r, &req, "project"); err != nil {
				h.responder.WriteError(w, err)
				return
			}
			in = req.CreateInput
			in.Skills = []string(req.Skills)
		}

		if adminID, err := ctxGetAdminID(r.Context()); err == nil {
			in.OwnerID = adminID
		}

		project, err := h.manager.Create(r.Context(), in)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSONStatus(w, http.StatusCreated, project)
	}
}

// updateProject applies a partial edit
// @Summary Update project
// @Description Only fields present in the request change. Accepts JSON or multipart/form-data
// @Tags Admin
// @Accept json,mpfd
// @Produce json
// @Security BearerAuth
// @Param projectID path string true "Project ID" format(uuid)
// @Success 200 {object} models.Project "Updated project"
// @Failure 400 {object} ErrorResponse "Bad Request - Invalid project data"
// @Failure 404 {object} ErrorResponse "Not Found - Project not found"
// @Router /admin/project/{projectID} [patch]
func (h projectHandler) updateProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID, err := projectIDParam(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		var in lifecycle.UpdateInput
		if isMultipart(r) {
			form, err := multipartForm(w, r)
			if err != nil {
				h.responder.WriteError(w, err)
				return
			}
			defer form.RemoveAll()

			in = updateInputFromForm(form)
			media, thumbnail, document, closeAll, err := projectUploads(form)
			if err != nil {
				h.responder.WriteError(w, err)
				return
			}
			defer closeAll()
			in.Media, in.Thumbnail, in.Document = media, thumbnail, document
		} else {
			var req updateProjectRequest
			if err := decodeJSON(w, r, &req, "project"); err != nil {
				h.responder.WriteError(w, err)
				return
			}
			in = req.UpdateInput
			if req.Skills != nil {
				skills := []string(*req.Skills)
				in.Skills = &skills
			}
		}

		project, err := h.manager.Update(r.Context(), projectID, in)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, project)
	}
}

// deleteProject moves a project to the bin
// @Summary Soft delete project
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param projectID path string true "Project ID" format(uuid)
// @Success 200 {object} models.Project "Binned project"
// @Failure 404 {object} ErrorResponse "Not Found - Project not found"
// @Router /admin/project/{projectID} [delete]
func (h projectHandler) deleteProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID, err := projectIDParam(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		project, err := h.manager.SoftDelete(r.Context(), projectID)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, project)
	}
}
