package upload

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"

	"github.com/gridrr/admin-backend/internal/auth"
	"github.com/gridrr/admin-backend/internal/models"
	"github.com/gridrr/admin-backend/internal/review"
	"github.com/gridrr/admin-backend/internal/store"
)

const (
	designFolder  = "designs"
	websiteFolder = "website-previews"

	maxFormMemory = 64 << 20

	// Headroom above MaxVideoSize for the non-file form fields and
	// multipart framing.
	maxFormOverhead = 1 << 20
)

// CatalogStore defines the interface for catalog persistence.
type CatalogStore interface {
	InsertWebsite(ctx context.Context, w *models.Website) (*models.Website, error)
	InsertDesign(ctx context.Context, d *models.Design) (*models.Design, error)
}

// Uploader defines the interface for media storage. The tagged result keeps
// business failures out of the error path.
type Uploader interface {
	Upload(ctx context.Context, folder, originalName, contentType string, size int64, r io.Reader) store.UploadResult
}

// Handler holds the upload-flow HTTP handlers.
type Handler struct {
	catalog CatalogStore
	media   Uploader
}

func NewHandler(catalog CatalogStore, media Uploader) *Handler {
	return &Handler{catalog: catalog, media: media}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func badRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, map[string]string{"error": msg})
}

// Design handles POST /api/upload/design: validate, upload the image, then
// insert the catalog row. The insert only runs after a successful upload.
func (h *Handler) Design(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxFormMemory); err != nil {
		badRequest(w, "invalid multipart form")
		return
	}

	title := r.FormValue("title")
	designerName := r.FormValue("designer_name")
	email := r.FormValue("email")
	twitter := r.FormValue("twitter")
	instagram := r.FormValue("instagram")
	toolsUsed := r.FormValue("tools_used")
	tags := r.FormValue("tags")

	file, header, err := r.FormFile("image")
	if err != nil {
		badRequest(w, "Please fill in all required fields and select an image")
		return
	}
	defer file.Close()

	if title == "" || designerName == "" || email == "" || twitter == "" || instagram == "" || toolsUsed == "" {
		badRequest(w, "Please fill in all required fields and select an image")
		return
	}
	if !ValidEmail(email) {
		badRequest(w, "Please enter a valid email address")
		return
	}
	contentType := header.Header.Get("Content-Type")
	if !AllowedMedia(contentType, "image/") {
		badRequest(w, "Please upload an image file")
		return
	}

	res := h.media.Upload(r.Context(), designFolder, header.Filename, contentType, header.Size, file)
	if !res.Success {
		log.Printf("design upload: %s", res.Error)
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": res.Error})
		return
	}

	description := ""
	if tags != "" {
		description = "Tags: " + tags
	}
	design := &models.Design{
		Title:           title,
		Description:     description,
		DesignerName:    designerName,
		DesignerEmail:   email,
		TwitterHandle:   AtHandle(twitter),
		InstagramHandle: AtHandle(instagram),
		ToolsUsed:       SplitList(toolsUsed),
		Tags:            SplitList(tags),
		ImageURL:        res.URL,
		Status:          models.StatusPending,
	}
	design, err = h.catalog.InsertDesign(r.Context(), design)
	if err != nil {
		log.Printf("insert design: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to save design"})
		return
	}

	writeJSON(w, http.StatusCreated, design)
}

// Website handles POST /api/upload/website: validate (URL shape, email
// shape, video type, 50MB cap), upload the preview video, then insert the
// catalog row with status pending.
func (h *Handler) Website(w http.ResponseWriter, r *http.Request) {
	// Stop reading an oversized body instead of spooling it before the
	// size check.
	r.Body = http.MaxBytesReader(w, r.Body, MaxVideoSize+maxFormOverhead)
	if err := r.ParseMultipartForm(maxFormMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			badRequest(w, "Video file must be less than 50MB")
			return
		}
		badRequest(w, "invalid multipart form")
		return
	}

	title := r.FormValue("title")
	rawURL := r.FormValue("url")
	yourName := r.FormValue("your_name")
	codedBy := r.FormValue("coded_by")
	email := r.FormValue("email")
	twitter := r.FormValue("twitter")
	instagram := r.FormValue("instagram")
	tags := r.FormValue("tags")

	file, header, err := r.FormFile("video")
	if err != nil {
		badRequest(w, "Please upload a video preview")
		return
	}
	defer file.Close()

	if title == "" || rawURL == "" || yourName == "" || codedBy == "" || email == "" {
		badRequest(w, "Please fill in all required fields")
		return
	}
	siteURL, err := NormalizeURL(rawURL)
	if err != nil {
		badRequest(w, "Please enter a valid URL")
		return
	}
	if !ValidEmail(email) {
		badRequest(w, "Please enter a valid email address")
		return
	}
	contentType := header.Header.Get("Content-Type")
	if !AllowedMedia(contentType, "video/") {
		badRequest(w, "Please upload a valid video file")
		return
	}
	if header.Size > MaxVideoSize {
		badRequest(w, "Video file must be less than 50MB")
		return
	}

	res := h.media.Upload(r.Context(), websiteFolder, header.Filename, contentType, header.Size, file)
	if !res.Success {
		log.Printf("website upload: %s", res.Error)
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": res.Error})
		return
	}

	site := &models.Website{
		Title:           title,
		URL:             siteURL,
		BuiltWith:       codedBy,
		Tags:            tags,
		PreviewVideoURL: res.URL,
		Email:           email,
		SubmittedBy:     auth.UserID(r.Context()),
		TwitterHandle:   twitter,
		InstagramHandle: instagram,
		Status:          models.StatusPending,
	}
	site, err = h.catalog.InsertWebsite(r.Context(), site)
	if err != nil {
		log.Printf("insert website: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to save website"})
		return
	}

	writeJSON(w, http.StatusCreated, site)
}

// Prefill decodes a resubmit token from the `data` query parameter so the
// upload form can prefill its fields.
func (h *Handler) Prefill(w http.ResponseWriter, r *http.Request) {
	data := r.URL.Query().Get("data")
	if data == "" {
		badRequest(w, "missing data parameter")
		return
	}
	token, err := review.DecodeResubmitToken(data)
	if err != nil {
		badRequest(w, "invalid data parameter")
		return
	}
	writeJSON(w, http.StatusOK, token)
}
