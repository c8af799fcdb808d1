package rest

import (
	"context"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/wanderlog/traveldiary-backend/internal/config"
	"github.com/wanderlog/traveldiary-backend/internal/domain"
	"github.com/wanderlog/traveldiary-backend/internal/service/diary"
)

// multipartMemory caps the in-memory portion of a parsed form; larger
// file parts spill to the OS temp dir before we stream them into
// staging.
const multipartMemory = 8 << 20

type diaryService interface {
	Create(ctx context.Context, input diary.CreateInput) (*domain.Diary, error)
	Update(ctx context.Context, input diary.UpdateInput) (*domain.Diary, error)
	Delete(ctx context.Context, diaryID uuid.UUID) error
	Get(ctx context.Context, diaryID uuid.UUID) (*domain.Diary, error)
	ListApproved(ctx context.Context, f domain.DiaryFilter) (*diary.Page, error)
	ListMine(ctx context.Context) ([]domain.Diary, error)
}

// uploadStore stages multipart file parts on disk for the service layer.
type uploadStore interface {
	SaveUpload(field, origName string, r io.Reader, maxBytes int64) (string, error)
	RemoveAbs(abs string) error
}

// DiaryHandler serves the public and owner-facing diary endpoints.
type DiaryHandler struct {
	svc     diaryService
	uploads uploadStore
	limits  config.StorageConfig
	log     *slog.Logger
}

// NewDiaryHandler creates a DiaryHandler.
func NewDiaryHandler(svc diaryService, uploads uploadStore, limits config.StorageConfig, logger *slog.Logger) *DiaryHandler {
	return &DiaryHandler{
		svc:     svc,
		uploads: uploads,
		limits:  limits,
		log:     logger.With("handler", "diary"),
	}
}

// diaryResponse is the JSON shape of a single diary. Stored media
// paths are rewritten to their public /uploads/ URLs; external video
// links pass through untouched.
type diaryResponse struct {
	ID             string    `json:"id"`
	Title          string    `json:"title"`
	Body           string    `json:"body"`
	Images         []string  `json:"images"`
	VideoURL       *string   `json:"videoUrl,omitempty"`
	AuthorID       string    `json:"authorId"`
	AuthorNickname string    `json:"authorNickname"`
	AuthorAvatar   *string   `json:"authorAvatar,omitempty"`
	Status         string    `json:"status"`
	RejectReason   *string   `json:"rejectReason,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

type diaryPageResponse struct {
	Diaries []diaryResponse `json:"diaries"`
	Page    int             `json:"page"`
	Pages   int             `json:"pages"`
}

func toDiaryResponse(d *domain.Diary) diaryResponse {
	images := make([]string, 0, len(d.Images))
	for _, rel := range d.Images {
		images = append(images, "/uploads/"+rel)
	}

	var videoURL *string
	if d.HasVideo() {
		url := *d.VideoRef
		if d.VideoKind == domain.VideoKindFile {
			url = "/uploads/" + url
		}
		videoURL = &url
	}

	return diaryResponse{
		ID:             d.ID.String(),
		Title:          d.Title,
		Body:           d.Body,
		Images:         images,
		VideoURL:       videoURL,
		AuthorID:       d.AuthorID.String(),
		AuthorNickname: d.AuthorNickname,
		AuthorAvatar:   d.AuthorAvatar,
		Status:         d.Status.String(),
		RejectReason:   d.RejectReason,
		CreatedAt:      d.CreatedAt,
		UpdatedAt:      d.UpdatedAt,
	}
}

func toDiaryPageResponse(p *diary.Page) diaryPageResponse {
	diaries := make([]diaryResponse, 0, len(p.Diaries))
	for i := range p.Diaries {
		diaries = append(diaries, toDiaryResponse(&p.Diaries[i]))
	}
	return diaryPageResponse{Diaries: diaries, Page: p.Page, Pages: p.Pages}
}

// Create handles POST /api/diaries. The body is multipart/form-data
// with title, body, optional videoUrl fields, up to ten image parts
// under "images" and an optional video part under "video".
func (h *DiaryHandler) Create(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	defer r.MultipartForm.RemoveAll() //nolint:errcheck

	intake, err := h.stageUploads(r)
	if err != nil {
		writeDomainError(r.Context(), w, h.log, err)
		return
	}

	input := diary.CreateInput{
		Title:      r.FormValue("title"),
		Body:       r.FormValue("body"),
		ImagePaths: intake.imagePaths,
		VideoPath:  intake.videoPath,
		VideoURL:   formValuePtr(r, "videoUrl"),
	}

	created, err := h.svc.Create(r.Context(), input)
	if err != nil {
		writeDomainError(r.Context(), w, h.log, err)
		return
	}

	writeJSON(w, http.StatusCreated, toDiaryResponse(created))
}

// Update handles PUT /api/diaries/{id}. Same multipart shape as
// Create; absent fields keep their stored values, clearVideo=true
// removes the video.
func (h *DiaryHandler) Update(w http.ResponseWriter, r *http.Request) {
	diaryID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid diary id")
		return
	}

	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	defer r.MultipartForm.RemoveAll() //nolint:errcheck

	intake, err := h.stageUploads(r)
	if err != nil {
		writeDomainError(r.Context(), w, h.log, err)
		return
	}

	input := diary.UpdateInput{
		DiaryID:    diaryID,
		Title:      formValuePtr(r, "title"),
		Body:       formValuePtr(r, "body"),
		ImagePaths: intake.imagePaths,
		VideoPath:  intake.videoPath,
		VideoURL:   formValuePtr(r, "videoUrl"),
		ClearVideo: r.FormValue("clearVideo") == "true",
	}

	updated, err := h.svc.Update(r.Context(), input)
	if err != nil {
		writeDomainError(r.Context(), w, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, toDiaryResponse(updated))
}

// Delete handles DELETE /api/diaries/{id}.
func (h *DiaryHandler) Delete(w http.ResponseWriter, r *http.Request) {
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

// Get handles GET /api/diaries/{id}.
func (h *DiaryHandler) Get(w http.ResponseWriter, r *http.Request) {
	diaryID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid diary id")
		return
	}

	d, err := h.svc.Get(r.Context(), diaryID)
	if err != nil {
		writeDomainError(r.Context(), w, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, toDiaryResponse(d))
}

// List handles GET /api/diaries: the public approved feed with
// optional title and authorNickname substring filters.
func (h *DiaryHandler) List(w http.ResponseWriter, r *http.Request) {
	f := domain.DiaryFilter{
		Title:          queryPtr(r, "title"),
		AuthorNickname: queryPtr(r, "authorNickname"),
		Page:           queryPage(r),
	}

	page, err := h.svc.ListApproved(r.Context(), f)
	if err != nil {
		writeDomainError(r.Context(), w, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, toDiaryPageResponse(page))
}

// ListMine handles GET /api/diaries/my.
func (h *DiaryHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	diaries, err := h.svc.ListMine(r.Context())
	if err != nil {
		writeDomainError(r.Context(), w, h.log, err)
		return
	}

	resp := make([]diaryResponse, 0, len(diaries))
	for i := range diaries {
		resp = append(resp, toDiaryResponse(&diaries[i]))
	}
	writeJSON(w, http.StatusOK, map[string]any{"diaries": resp})
}

// stagedIntake holds the staging paths produced from one request.
type stagedIntake struct {
	imagePaths []string
	videoPath  *string
}

// stageUploads streams the request's file parts into staging. On any
// failure the parts staged so far are removed; the media type and size
// of each part are checked before it touches the staging area.
func (h *DiaryHandler) stageUploads(r *http.Request) (stagedIntake, error) {
	var intake stagedIntake

	cleanup := func() {
		for _, p := range intake.imagePaths {
			h.uploads.RemoveAbs(p) //nolint:errcheck
		}
		if intake.videoPath != nil {
			h.uploads.RemoveAbs(*intake.videoPath) //nolint:errcheck
		}
	}

	for _, header := range r.MultipartForm.File["images"] {
		if !hasMediaType(header, "image/") {
			cleanup()
			return stagedIntake{}, domain.NewValidationError("images", "only image uploads are accepted")
		}
		path, err := h.stagePart("images", header, h.limits.ImageMaxBytes)
		if err != nil {
			cleanup()
			return stagedIntake{}, err
		}
		intake.imagePaths = append(intake.imagePaths, path)
	}

	if videos := r.MultipartForm.File["video"]; len(videos) > 0 {
		if len(videos) > 1 {
			cleanup()
			return stagedIntake{}, domain.NewValidationError("video", "at most one video upload")
		}
		header := videos[0]
		if !hasMediaType(header, "video/") {
			cleanup()
			return stagedIntake{}, domain.NewValidationError("video", "only video uploads are accepted")
		}
		path, err := h.stagePart("video", header, h.limits.VideoMaxBytes)
		if err != nil {
			cleanup()
			return stagedIntake{}, err
		}
		intake.videoPath = &path
	}

	return intake, nil
}

func (h *DiaryHandler) stagePart(field string, header *multipart.FileHeader, maxBytes int64) (string, error) {
	f, err := header.Open()
	if err != nil {
		return "", err
	}
	defer f.Close()

	return h.uploads.SaveUpload(field, header.Filename, f, maxBytes)
}

func hasMediaType(header *multipart.FileHeader, prefix string) bool {
	return strings.HasPrefix(header.Header.Get("Content-Type"), prefix)
}

func formValuePtr(r *http.Request, key string) *string {
	if vals, ok := r.MultipartForm.Value[key]; ok && len(vals) > 0 {
		return &vals[0]
	}
	return nil
}

func queryPtr(r *http.Request, key string) *string {
	if v := r.URL.Query().Get(key); v != "" {
		return &v
	}
	return nil
}

func queryPage(r *http.Request) int {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	return page
}
