package diary

import (
	"strings"

	"github.com/google/uuid"

	"github.com/wanderlog/traveldiary-backend/internal/domain"
)

const (
	maxTitleLen  = 255
	minBodyLen   = 10
	maxReasonLen = 255
)

// CreateInput holds the parameters for submitting a new diary.
// ImagePaths and VideoPath are absolute staged upload paths produced by
// the transport layer; VideoURL is an external link. A submission may
// carry a video file or a video URL, never both.
type CreateInput struct {
	Title      string
	Body       string
	ImagePaths []string
	VideoPath  *string
	VideoURL   *string
}

// Validate checks all fields and collects all errors.
func (i CreateInput) Validate() error {
	var errs []domain.FieldError

	title := strings.TrimSpace(i.Title)
	if title == "" {
		errs = append(errs, domain.FieldError{Field: "title", Message: "required"})
	}
	if len(title) > maxTitleLen {
		errs = append(errs, domain.FieldError{Field: "title", Message: "max 255 characters"})
	}

	if len(strings.TrimSpace(i.Body)) < minBodyLen {
		errs = append(errs, domain.FieldError{Field: "body", Message: "min 10 characters"})
	}

	if len(i.ImagePaths) > domain.MaxImagesPerDiary {
		errs = append(errs, domain.FieldError{Field: "images", Message: "max 10 images"})
	}

	if i.VideoPath != nil && i.VideoURL != nil {
		errs = append(errs, domain.FieldError{Field: "video", Message: "provide a video file or a video url, not both"})
	}
	if i.VideoURL != nil && !validVideoURL(*i.VideoURL) {
		errs = append(errs, domain.FieldError{Field: "videoUrl", Message: "must be an http(s) url"})
	}

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}

// UpdateInput holds the parameters for an owner edit. Nil pointer
// fields and an empty ImagePaths slice mean "keep the stored value".
// ClearVideo removes the video and is incompatible with supplying a
// new one.
type UpdateInput struct {
	DiaryID    uuid.UUID
	Title      *string
	Body       *string
	ImagePaths []string
	VideoPath  *string
	VideoURL   *string
	ClearVideo bool
}

// Validate checks all fields and collects all errors.
func (i UpdateInput) Validate() error {
	var errs []domain.FieldError

	if i.DiaryID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "diary_id", Message: "required"})
	}

	if i.Title != nil {
		title := strings.TrimSpace(*i.Title)
		if title == "" {
			errs = append(errs, domain.FieldError{Field: "title", Message: "cannot be empty"})
		}
		if len(title) > maxTitleLen {
			errs = append(errs, domain.FieldError{Field: "title", Message: "max 255 characters"})
		}
	}

	if i.Body != nil && len(strings.TrimSpace(*i.Body)) < minBodyLen {
		errs = append(errs, domain.FieldError{Field: "body", Message: "min 10 characters"})
	}

	if len(i.ImagePaths) > domain.MaxImagesPerDiary {
		errs = append(errs, domain.FieldError{Field: "images", Message: "max 10 images"})
	}

	if i.VideoPath != nil && i.VideoURL != nil {
		errs = append(errs, domain.FieldError{Field: "video", Message: "provide a video file or a video url, not both"})
	}
	if i.ClearVideo && (i.VideoPath != nil || i.VideoURL != nil) {
		errs = append(errs, domain.FieldError{Field: "video", Message: "cannot clear and replace the video at once"})
	}
	if i.VideoURL != nil && !validVideoURL(*i.VideoURL) {
		errs = append(errs, domain.FieldError{Field: "videoUrl", Message: "must be an http(s) url"})
	}

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}

// RejectInput holds the parameters for rejecting a diary.
type RejectInput struct {
	DiaryID uuid.UUID
	Reason  string
}

// Validate checks all fields and collects all errors.
func (i RejectInput) Validate() error {
	var errs []domain.FieldError

	if i.DiaryID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "diary_id", Message: "required"})
	}

	reason := strings.TrimSpace(i.Reason)
	if reason == "" {
		errs = append(errs, domain.FieldError{Field: "rejectReason", Message: "required"})
	}
	if len(reason) > maxReasonLen {
		errs = append(errs, domain.FieldError{Field: "rejectReason", Message: "max 255 characters"})
	}

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}

func validVideoURL(raw string) bool {
	return strings.HasPrefix(raw, "http://") || strings.HasPrefix(raw, "https://")
}
