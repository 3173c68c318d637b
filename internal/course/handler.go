package course

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/redmonkez12/course-api/internal/auth"
	"github.com/redmonkez12/course-api/internal/httputil"
	"github.com/redmonkez12/course-api/internal/logging"
	"github.com/redmonkez12/course-api/internal/user"
)

// Handler contains HTTP handlers for course endpoints
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// List handles listing every course
// @Summary      List courses
// @Description  Return all courses with their owner's name
// @Tags         courses
// @Produce      json
// @Success      200 {array} CourseResponse
// @Failure      500 {object} httputil.ErrorResponse "Internal server error"
// @Router       /api/courses [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) error {
	courses, err := h.service.List(r.Context())
	if err != nil {
		return err
	}

	resp := make([]CourseResponse, 0, len(courses))
	for i := range courses {
		resp = append(resp, toResponse(&courses[i]))
	}

	httputil.RespondJSON(w, resp, http.StatusOK)
	return nil
}

// Get handles fetching a single course
// @Summary      Get course
// @Description  Return a course by id with its owner's name
// @Tags         courses
// @Produce      json
// @Param        id path string true "Course ID"
// @Success      200 {object} CourseResponse
// @Failure      404 {object} httputil.ErrorResponse "Course not found"
// @Router       /api/courses/{id} [get]
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) error {
	id, err := courseID(r)
	if err != nil {
		return err
	}

	c, err := h.service.Get(r.Context(), id)
	if err != nil {
		return mapError(err)
	}

	httputil.RespondJSON(w, toResponse(c), http.StatusOK)
	return nil
}

// Create handles course creation
// @Summary      Create course
// @Description  Create a course owned by the authenticated user
// @Tags         courses
// @Accept       json
// @Param        request body Input true "Course"
// @Security     BasicAuth
// @Success      201 "Location header points at the new course"
// @Failure      400 {object} httputil.ErrorResponse "Invalid request or validation error"
// @Failure      401 {object} httputil.ErrorResponse "Access denied"
// @Router       /api/courses [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) error {
	actor, err := currentUser(r)
	if err != nil {
		return err
	}

	var in Input
	if err := httputil.DecodeJSON(r, &in); err != nil {
		return err
	}

	c, err := h.service.Create(r.Context(), actor, in)
	if err != nil {
		return err
	}

	logging.GetLoggerFromContext(r.Context()).Info("course created", "course_id", c.ID, "user_id", actor.ID)

	httputil.RespondCreated(w, "/api/courses/"+c.ID.String())
	return nil
}

// Update handles course replacement
// @Summary      Update course
// @Description  Replace the editable fields of a course owned by the authenticated user
// @Tags         courses
// @Accept       json
// @Param        id path string true "Course ID"
// @Param        request body Input true "Course"
// @Security     BasicAuth
// @Success      204
// @Failure      400 {object} httputil.ErrorResponse "Invalid request or validation error"
// @Failure      401 {object} httputil.ErrorResponse "Access denied or not the owner"
// @Failure      404 {object} httputil.ErrorResponse "Course not found"
// @Router       /api/courses/{id} [put]
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) error {
	actor, err := currentUser(r)
	if err != nil {
		return err
	}

	id, err := courseID(r)
	if err != nil {
		return err
	}

	if _, err := h.service.Authorize(r.Context(), actor, id); err != nil {
		return mapError(err)
	}

	var in Input
	if err := httputil.DecodeJSON(r, &in); err != nil {
		return err
	}

	if _, err := h.service.Update(r.Context(), actor, id, in); err != nil {
		return mapError(err)
	}

	logging.GetLoggerFromContext(r.Context()).Info("course updated", "course_id", id, "user_id", actor.ID)

	httputil.RespondNoContent(w)
	return nil
}

// Delete handles course removal
// @Summary      Delete course
// @Description  Delete a course owned by the authenticated user
// @Tags         courses
// @Param        id path string true "Course ID"
// @Security     BasicAuth
// @Success      204
// @Failure      401 {object} httputil.ErrorResponse "Access denied or not the owner"
// @Failure      404 {object} httputil.ErrorResponse "Course not found"
// @Router       /api/courses/{id} [delete]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) error {
	actor, err := currentUser(r)
	if err != nil {
		return err
	}

	id, err := courseID(r)
	if err != nil {
		return err
	}

	if err := h.service.Delete(r.Context(), actor, id); err != nil {
		return mapError(err)
	}

	logging.GetLoggerFromContext(r.Context()).Info("course deleted", "course_id", id, "user_id", actor.ID)

	httputil.RespondNoContent(w)
	return nil
}

var errCourseNotFound = httputil.NewError(http.StatusNotFound, httputil.CodeCourseNotFound, "course not found")

// courseID parses the {id} route parameter. Ids that are not UUIDs cannot
// name a course, so they are reported as not found.
func courseID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		return uuid.Nil, errCourseNotFound
	}
	return id, nil
}

func currentUser(r *http.Request) (*user.User, error) {
	u, ok := auth.CurrentUser(r.Context())
	if !ok {
		return nil, httputil.NewError(http.StatusUnauthorized, httputil.CodeAccessDenied, "Access Denied")
	}
	return u, nil
}

func mapError(err error) error {
	switch {
	case errors.Is(err, ErrNotFound):
		return errCourseNotFound
	case errors.Is(err, ErrNotOwner):
		return httputil.NewError(http.StatusUnauthorized, httputil.CodeNotCourseOwner, "only the course owner can modify this course")
	}
	return err
}
