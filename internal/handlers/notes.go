package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/vaughan-dsouza/nerv/internal/models"
	"github.com/vaughan-dsouza/nerv/internal/utils"
)

type NoteHandler struct {
	notes NoteStore
	log   *slog.Logger
}

func NewNoteHandler(notes NoteStore, log *slog.Logger) *NoteHandler {
	return &NoteHandler{notes: notes, log: log}
}

type noteReq struct {
	Course  *string `json:"course" validate:"omitnil,max=200"`
	Title   string  `json:"title" validate:"notblank,max=200"`
	Content string  `json:"content" validate:"notblank"`
	Link    *string `json:"link" validate:"omitempty,url"`
}

type notePatchReq struct {
	Course  *string `json:"course" validate:"omitnil,max=200"`
	Title   *string `json:"title" validate:"omitnil,notblank,max=200"`
	Content *string `json:"content" validate:"omitnil,notblank"`
	Link    *string `json:"link" validate:"omitempty,url"`
}

func (h *NoteHandler) List(w http.ResponseWriter, r *http.Request) {
	uid, ok := ownerID(w, r)
	if !ok {
		return
	}

	notes, err := h.notes.ListNotes(r.Context(), uid)
	if err != nil {
		respondError(w, r, h.log, "note", err)
		return
	}
	utils.JSON(w, http.StatusOK, notes)
}

func (h *NoteHandler) Create(w http.ResponseWriter, r *http.Request) {
	uid, ok := ownerID(w, r)
	if !ok {
		return
	}

	var req noteReq
	if err := utils.DecodeJSON(w, r, &req); err != nil {
		return
	}
	if err := check(req); err != nil {
		respondError(w, r, h.log, "note", err)
		return
	}

	n, err := h.notes.CreateNote(r.Context(), uid, models.NewNote{
		Course:  req.Course,
		Title:   req.Title,
		Content: req.Content,
		Link:    req.Link,
	})
	if err != nil {
		respondError(w, r, h.log, "note", err)
		return
	}
	utils.JSON(w, http.StatusCreated, n)
}

func (h *NoteHandler) Get(w http.ResponseWriter, r *http.Request) {
	uid, ok := ownerID(w, r)
	if !ok {
		return
	}

	n, err := h.notes.GetNote(r.Context(), chi.URLParam(r, "id"), uid)
	if err != nil {
		respondError(w, r, h.log, "note", err)
		return
	}
	utils.JSON(w, http.StatusOK, n)
}

// Update serves both PUT and PATCH; absent fields are left unchanged.
func (h *NoteHandler) Update(w http.ResponseWriter, r *http.Request) {
	uid, ok := ownerID(w, r)
	if !ok {
		return
	}

	var req notePatchReq
	if err := utils.DecodeJSON(w, r, &req); err != nil {
		return
	}
	if err := check(req); err != nil {
		respondError(w, r, h.log, "note", err)
		return
	}

	n, err := h.notes.UpdateNote(r.Context(), chi.URLParam(r, "id"), uid, models.NotePatch{
		Course:  req.Course,
		Title:   req.Title,
		Content: req.Content,
		Link:    req.Link,
	})
	if err != nil {
		respondError(w, r, h.log, "note", err)
		return
	}
	utils.JSON(w, http.StatusOK, n)
}

func (h *NoteHandler) Delete(w http.ResponseWriter, r *http.Request) {
	uid, ok := ownerID(w, r)
	if !ok {
		return
	}

	deleted, err := h.notes.DeleteNote(r.Context(), chi.URLParam(r, "id"), uid)
	if err != nil {
		respondError(w, r, h.log, "note", err)
		return
	}
	if !deleted {
		utils.JSONError(w, http.StatusNotFound, "note not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
