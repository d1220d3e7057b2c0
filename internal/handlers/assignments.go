package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/vaughan-dsouza/nerv/internal/models"
	"github.com/vaughan-dsouza/nerv/internal/utils"
)

type AssignmentHandler struct {
	assignments AssignmentStore
	log         *slog.Logger
}

func NewAssignmentHandler(assignments AssignmentStore, log *slog.Logger) *AssignmentHandler {
	return &AssignmentHandler{assignments: assignments, log: log}
}

type assignmentReq struct {
	Title       string  `json:"title" validate:"notblank,max=200"`
	Description *string `json:"description" validate:"omitnil,max=5000"`
	DueDate     *string `json:"dueDate" validate:"required"`
	CourseTitle *string `json:"courseTitle" validate:"omitnil,max=200"`
	Status      *string `json:"status" validate:"omitnil,oneof=pending in-progress completed archived"`
}

type assignmentPatchReq struct {
	Title       *string `json:"title" validate:"omitnil,notblank,max=200"`
	Description *string `json:"description" validate:"omitnil,max=5000"`
	DueDate     *string `json:"dueDate"`
	CourseTitle *string `json:"courseTitle" validate:"omitnil,max=200"`
	Status      *string `json:"status" validate:"omitnil,oneof=pending in-progress completed archived"`
}

func (req assignmentReq) toModel() (models.NewAssignment, error) {
	if err := check(req); err != nil {
		return models.NewAssignment{}, err
	}
	due, err := parseDueDate(*req.DueDate)
	if err != nil {
		return models.NewAssignment{}, err
	}
	in := models.NewAssignment{
		Title:       req.Title,
		Description: req.Description,
		DueDate:     due,
		CourseTitle: req.CourseTitle,
		Status:      models.StatusPending,
	}
	if req.Status != nil {
		in.Status = models.AssignmentStatus(*req.Status)
	}
	return in, nil
}

func (req assignmentPatchReq) toModel() (models.AssignmentPatch, error) {
	if err := check(req); err != nil {
		return models.AssignmentPatch{}, err
	}
	patch := models.AssignmentPatch{
		Title:       req.Title,
		Description: req.Description,
		CourseTitle: req.CourseTitle,
	}
	if req.DueDate != nil {
		due, err := parseDueDate(*req.DueDate)
		if err != nil {
			return models.AssignmentPatch{}, err
		}
		patch.DueDate = &due
	}
	if req.Status != nil {
		s := models.AssignmentStatus(*req.Status)
		patch.Status = &s
	}
	return patch, nil
}

func (h *AssignmentHandler) List(w http.ResponseWriter, r *http.Request) {
	uid, ok := ownerID(w, r)
	if !ok {
		return
	}

	list, err := h.assignments.ListAssignments(r.Context(), uid)
	if err != nil {
		respondError(w, r, h.log, "assignment", err)
		return
	}
	utils.JSON(w, http.StatusOK, list)
}

func (h *AssignmentHandler) Create(w http.ResponseWriter, r *http.Request) {
	uid, ok := ownerID(w, r)
	if !ok {
		return
	}

	var req assignmentReq
	if err := utils.DecodeJSON(w, r, &req); err != nil {
		return
	}
	in, err := req.toModel()
	if err != nil {
		respondError(w, r, h.log, "assignment", err)
		return
	}

	a, err := h.assignments.CreateAssignment(r.Context(), uid, in)
	if err != nil {
		respondError(w, r, h.log, "assignment", err)
		return
	}
	utils.JSON(w, http.StatusCreated, a)
}

func (h *AssignmentHandler) Get(w http.ResponseWriter, r *http.Request) {
	uid, ok := ownerID(w, r)
	if !ok {
		return
	}

	a, err := h.assignments.GetAssignment(r.Context(), chi.URLParam(r, "id"), uid)
	if err != nil {
		respondError(w, r, h.log, "assignment", err)
		return
	}
	utils.JSON(w, http.StatusOK, a)
}

// Update serves both PUT and PATCH; absent fields are left unchanged.
func (h *AssignmentHandler) Update(w http.ResponseWriter, r *http.Request) {
	uid, ok := ownerID(w, r)
	if !ok {
		return
	}

	var req assignmentPatchReq
	if err := utils.DecodeJSON(w, r, &req); err != nil {
		return
	}
	patch, err := req.toModel()
	if err != nil {
		respondError(w, r, h.log, "assignment", err)
		return
	}

	a, err := h.assignments.UpdateAssignment(r.Context(), chi.URLParam(r, "id"), uid, patch)
	if err != nil {
		respondError(w, r, h.log, "assignment", err)
		return
	}
	utils.JSON(w, http.StatusOK, a)
}

func (h *AssignmentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	uid, ok := ownerID(w, r)
	if !ok {
		return
	}

	deleted, err := h.assignments.DeleteAssignment(r.Context(), chi.URLParam(r, "id"), uid)
	if err != nil {
		respondError(w, r, h.log, "assignment", err)
		return
	}
	if !deleted {
		utils.JSONError(w, http.StatusNotFound, "assignment not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
