package rest

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/wanderlog/traveldiary-backend/internal/domain"
	"github.com/wanderlog/traveldiary-backend/internal/service/diary"
)

type moderationService interface {
	ListForReview(ctx context.Context, f domain.DiaryFilter) (*diary.Page, error)
	Approve(ctx context.Context, diaryID uuid.UUID) (*domain.Diary, error)
	Reject(ctx context.Context, input diary.RejectInput) (*domain.Diary, error)
	Delete(ctx context.Context, diaryID uuid.UUID) error
}

// AdminHandler serves the moderation endpoints. The router mounts it
// behind the moderator gate; the service layer re-checks the role.
type AdminHandler struct {
	svc moderationService
	log *slog.Logger
}

// NewAdminHandler creates an AdminHandler.
func NewAdminHandler(svc moderationService, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{
		svc: svc,
		log: logger.With("handler", "admin"),
	}
}

// List returns the review queue, filterable by status.
// GET /api/admin/diaries?status=pending&page=2
func (h *AdminHandler) List(w http.ResponseWriter, r *http.Request) {
	f := domain.DiaryFilter{Page: queryPage(r)}
	if v := r.URL.Query().Get("status"); v != "" {
		status := domain.ModerationStatus(v)
		f.Status = &status
	}

	page, err := h.svc.ListForReview(r.Context(), f)
	if err != nil {
		writeDomainError(r.Context(), w, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, toDiaryPageResponse(page))
}

// Approve publishes a diary.
// PUT /api/admin/diaries/{id}/approve
func (h *AdminHandler) Approve(w http.ResponseWriter, r *http.Request) {
	diaryID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid diary id")
		return
	}

	approved, err := h.svc.Approve(r.Context(), diaryID)
	if err != nil {
		writeDomainError(r.Context(), w, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, toDiaryResponse(approved))
}

type rejectRequest struct {
	RejectReason string `json:"rejectReason"`
}

// Reject turns a diary down with a reason the author will see.
// PUT /api/admin/diaries/{id}/reject
func (h *AdminHandler) Reject(w http.ResponseWriter, r *http.Request) {
	diaryID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid diary id")
		return
	}

	var req rejectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	rejected, err := h.svc.Reject(r.Context(), diary.RejectInput{
		DiaryID: diaryID,
		Reason:  req.RejectReason,
	})
	if err != nil {
		writeDomainError(r.Context(), w, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, toDiaryResponse(rejected))
}

// Delete logically deletes any diary, regardless of owner.
// DELETE /api/admin/diaries/{id}
func (h *AdminHandler) Delete(w http.ResponseWriter, r *http.Request) {
	diaryID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid diary id")
		return
	}

	if err := h.svc.Delete(r.Context(), diaryID); err != nil {
		writeDomainError(r.Context(), w, h.log, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
