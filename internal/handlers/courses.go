package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/vaughan-dsouza/nerv/internal/models"
	"github.com/vaughan-dsouza/nerv/internal/utils"
)

type CourseHandler struct {
	courses CourseStore
	log     *slog.Logger
}

func NewCourseHandler(courses CourseStore, log *slog.Logger) *CourseHandler {
	return &CourseHandler{courses: courses, log: log}
}

type courseReq struct {
	Title string `json:"title" validate:"notblank,max=200"`
}

type coursePatchReq struct {
	Title *string `json:"title" validate:"omitnil,notblank,max=200"`
}

func (h *CourseHandler) List(w http.ResponseWriter, r *http.Request) {
	uid, ok := ownerID(w, r)
	if !ok {
		return
	}

	courses, err := h.courses.ListCourses(r.Context(), uid)
	if err != nil {
		respondError(w, r, h.log, "course", err)
		return
	}
	utils.JSON(w, http.StatusOK, courses)
}

func (h *CourseHandler) Create(w http.ResponseWriter, r *http.Request) {
	uid, ok := ownerID(w, r)
	if !ok {
		return
	}

	var req courseReq
	if err := utils.DecodeJSON(w, r, &req); err != nil {
		return
	}
	if err := check(req); err != nil {
		respondError(w, r, h.log, "course", err)
		return
	}

	c, err := h.courses.CreateCourse(r.Context(), uid, req.Title)
	if err != nil {
		respondError(w, r, h.log, "course", err)
		return
	}
	utils.JSON(w, http.StatusCreated, c)
}

func (h *CourseHandler) Get(w http.ResponseWriter, r *http.Request) {
	uid, ok := ownerID(w, r)
	if !ok {
		return
	}

	c, err := h.courses.GetCourse(r.Context(), chi.URLParam(r, "id"), uid)
	if err != nil {
		respondError(w, r, h.log, "course", err)
		return
	}
	utils.JSON(w, http.StatusOK, c)
}

// Update serves both PUT and PATCH; absent fields are left unchanged.
func (h *CourseHandler) Update(w http.ResponseWriter, r *http.Request) {
	uid, ok := ownerID(w, r)
	if !ok {
		return
	}

	var req coursePatchReq
	if err := utils.DecodeJSON(w, r, &req); err != nil {
		return
	}
	if err := check(req); err != nil {
		respondError(w, r, h.log, "course", err)
		return
	}

	c, err := h.courses.UpdateCourse(r.Context(), chi.URLParam(r, "id"), uid, models.CoursePatch{Title: req.Title})
	if err != nil {
		respondError(w, r, h.log, "course", err)
		return
	}
	utils.JSON(w, http.StatusOK, c)
}

func (h *CourseHandler) Delete(w http.ResponseWriter, r *http.Request) {
	uid, ok := ownerID(w, r)
	if !ok {
		return
	}

	deleted, err := h.courses.DeleteCourse(r.Context(), chi.URLParam(r, "id"), uid)
	if err != nil {
		respondError(w, r, h.log, "course", err)
		return
	}
	if !deleted {
		utils.JSONError(w, http.StatusNotFound, "course not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
