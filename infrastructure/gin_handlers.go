package infrastructure

import (
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/villagenews/video-service/domain"
	"github.com/villagenews/video-service/usecase"
)

// VideoHandlers binds the use cases to the HTTP surface.
type VideoHandlers struct {
	login    *usecase.LoginUseCase
	upload   *usecase.UploadVideoUseCase
	delete   *usecase.DeleteVideoUseCase
	list     *usecase.ListVideosUseCase
	moderate *usecase.ModerateVideoUseCase
	files    domain.FileStore
	metrics  *Metrics
	log      *slog.Logger
}

func NewVideoHandlers(
	login *usecase.LoginUseCase,
	upload *usecase.UploadVideoUseCase,
	del *usecase.DeleteVideoUseCase,
	list *usecase.ListVideosUseCase,
	moderate *usecase.ModerateVideoUseCase,
	files domain.FileStore,
	metrics *Metrics,
	log *slog.Logger,
) *VideoHandlers {
	return &VideoHandlers{
		login:    login,
		upload:   upload,
		delete:   del,
		list:     list,
		moderate: moderate,
		files:    files,
		metrics:  metrics,
		log:      log,
	}
}

func (h *VideoHandlers) Login(c *gin.Context) {
	var body struct {
		IDToken string `json:"id_token"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id_token is required"})
		return
	}

	out, err := h.login.Execute(c.Request.Context(), body.IDToken, c.ClientIP())
	if err != nil {
		if errors.Is(err, domain.ErrInvalidToken) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}
		h.log.Error("login failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "An internal error occurred."})
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": out.Token, "is_new_user": out.IsNewUser})
}

func (h *VideoHandlers) LoginHistory(c *gin.Context) {
	events, err := h.login.History(c.Request.Context(), currentUserID(c))
	if err != nil {
		h.log.Error("login history failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "An internal error occurred."})
		return
	}
	if events == nil {
		events = []domain.LoginEvent{}
	}
	c.JSON(http.StatusOK, events)
}

// ListVideos serves the public catalog of approved videos.
func (h *VideoHandlers) ListVideos(c *gin.Context) {
	entries, err := h.list.Catalog(c.Request.Context())
	if err != nil {
		h.log.Error("catalog query failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "An internal error occurred."})
		return
	}
	if entries == nil {
		entries = []domain.CatalogEntry{}
	}
	c.JSON(http.StatusOK, entries)
}

func (h *VideoHandlers) MyVideos(c *gin.Context) {
	videos, err := h.list.ByUser(c.Request.Context(), currentUserID(c))
	if err != nil {
		h.log.Error("my-videos query failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "An internal error occurred."})
		return
	}
	if videos == nil {
		videos = []domain.Video{}
	}
	c.JSON(http.StatusOK, videos)
}

func (h *VideoHandlers) Upload(c *gin.Context) {
	fileHeader, err := c.FormFile("video")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No video file part"})
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read uploaded file"})
		return
	}
	defer file.Close()

	input := usecase.UploadVideoInput{
		UserID:      currentUserID(c),
		Title:       c.PostForm("title"),
		Description: c.PostForm("description"),
		Category:    c.PostForm("category"),
		Region:      c.PostForm("region"),
		Filename:    fileHeader.Filename,
		Content:     file,
	}
	video, err := h.upload.Execute(c.Request.Context(), input)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.log.Error("upload failed", "user_id", input.UserID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "An internal error occurred while uploading the video."})
		return
	}

	h.metrics.UploadsTotal.Inc()
	c.JSON(http.StatusCreated, gin.H{
		"message":  "Video uploaded successfully and is awaiting approval.",
		"video_id": video.ID,
		"filename": video.Filename,
	})
}

func (h *VideoHandlers) Delete(c *gin.Context) {
	videoID, err := strconv.ParseInt(c.Param("video_id"), 10, 64)
	if err != nil {
		// A non-numeric id is as absent as a missing row.
		c.JSON(http.StatusNotFound, gin.H{"error": "Video not found or you do not have permission to delete it."})
		return
	}

	err = h.delete.Execute(c.Request.Context(), videoID, currentUserID(c))
	switch {
	case err == nil:
		h.metrics.DeletesTotal.WithLabelValues("ok").Inc()
		c.JSON(http.StatusOK, gin.H{"message": "Video deleted successfully."})
	case errors.Is(err, domain.ErrNotFound):
		h.metrics.DeletesTotal.WithLabelValues("not_found").Inc()
		c.JSON(http.StatusNotFound, gin.H{"error": "Video not found or you do not have permission to delete it."})
	case errors.Is(err, domain.ErrFileLocked):
		h.metrics.DeletesTotal.WithLabelValues("locked").Inc()
		c.JSON(http.StatusLocked, gin.H{"error": "File is currently in use and cannot be deleted. Please try again later."})
	default:
		h.metrics.DeletesTotal.WithLabelValues("error").Inc()
		h.log.Error("delete failed", "video_id", videoID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "An internal error occurred while deleting the video."})
	}
}

// Stream serves an artifact with single-part byte-range support so players
// can seek. Each request opens its own file handle.
func (h *VideoHandlers) Stream(c *gin.Context) {
	filename, ok := artifactName(c)
	if !ok {
		h.metrics.StreamRequests.WithLabelValues("not_found").Inc()
		return
	}

	size, err := h.files.Size(filename)
	if err != nil {
		h.metrics.StreamRequests.WithLabelValues("not_found").Inc()
		c.JSON(http.StatusNotFound, gin.H{"error": "File not found"})
		return
	}

	byteRange, err := domain.ParseRange(c.GetHeader("Range"), size)
	if err != nil {
		h.metrics.StreamRequests.WithLabelValues("unsatisfiable").Inc()
		c.Header("Content-Range", fmt.Sprintf("bytes */%d", size))
		c.JSON(http.StatusRequestedRangeNotSatisfiable, gin.H{"error": "Requested range not satisfiable"})
		return
	}

	f, err := h.files.Open(filename)
	if err != nil {
		h.metrics.StreamRequests.WithLabelValues("error").Inc()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "An internal error occurred."})
		return
	}
	defer f.Close()

	c.Header("Accept-Ranges", "bytes")
	if byteRange == nil {
		h.metrics.StreamRequests.WithLabelValues("full").Inc()
		h.metrics.StreamedBytes.Observe(float64(size))
		c.DataFromReader(http.StatusOK, size, "video/mp4", f, nil)
		return
	}

	if _, err := f.Seek(byteRange.Start, io.SeekStart); err != nil {
		h.metrics.StreamRequests.WithLabelValues("error").Inc()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "An internal error occurred."})
		return
	}

	h.metrics.StreamRequests.WithLabelValues("partial").Inc()
	h.metrics.StreamedBytes.Observe(float64(byteRange.Length()))
	c.Header("Content-Range", fmt.Sprintf("bytes %d-%d/%d", byteRange.Start, byteRange.End, size))
	c.DataFromReader(http.StatusPartialContent, byteRange.Length(), "video/mp4",
		io.LimitReader(f, byteRange.Length()), nil)
}

// ServeUpload serves a whole artifact without range handling, for direct
// download links.
func (h *VideoHandlers) ServeUpload(c *gin.Context) {
	filename, ok := artifactName(c)
	if !ok {
		return
	}

	size, err := h.files.Size(filename)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "File not found"})
		return
	}
	f, err := h.files.Open(filename)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "File not found"})
		return
	}
	defer f.Close()

	contentType := mime.TypeByExtension(filepath.Ext(filename))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	c.DataFromReader(http.StatusOK, size, contentType, f, nil)
}

func (h *VideoHandlers) AdminListVideos(c *gin.Context) {
	status := domain.VideoStatus(c.DefaultQuery("status", string(domain.VideoStatusPending)))
	videos, err := h.moderate.ListByStatus(c.Request.Context(), status)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.log.Error("admin list failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "An internal error occurred."})
		return
	}
	if videos == nil {
		videos = []domain.Video{}
	}
	c.JSON(http.StatusOK, videos)
}

func (h *VideoHandlers) AdminSetStatus(c *gin.Context) {
	videoID, err := strconv.ParseInt(c.Param("video_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Video not found"})
		return
	}
	var body struct {
		Status domain.VideoStatus `json:"status"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "status is required"})
		return
	}

	err = h.moderate.SetStatus(c.Request.Context(), videoID, body.Status)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"message": "Video status updated.", "status": body.Status})
	case errors.Is(err, domain.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Video not found"})
	default:
		h.log.Error("moderation failed", "video_id", videoID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "An internal error occurred."})
	}
}

// artifactName validates the :filename path parameter. Anything that is not
// a plain visible filename is treated as absent.
func artifactName(c *gin.Context) (string, bool) {
	filename := c.Param("filename")
	if filename == "" || filename != filepath.Base(filename) || strings.HasPrefix(filename, ".") {
		c.JSON(http.StatusNotFound, gin.H{"error": "File not found"})
		return "", false
	}
	return filename, true
}

// HealthHandler reports connectivity of the database and the broker.
type HealthHandler struct {
	db     *sql.DB
	broker *amqp.Connection
}

func NewHealthHandler(db *sql.DB, broker *amqp.Connection) *HealthHandler {
	return &HealthHandler{db: db, broker: broker}
}

func (h *HealthHandler) Check(c *gin.Context) {
	dbStatus := "connected"
	if err := h.db.PingContext(c.Request.Context()); err != nil {
		dbStatus = "error"
	}

	brokerStatus := "connected"
	if h.broker == nil || h.broker.IsClosed() {
		brokerStatus = "disconnected"
	}

	if dbStatus != "connected" || brokerStatus != "connected" {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":   "DOWN",
			"database": dbStatus,
			"broker":   brokerStatus,
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":   "UP",
		"database": dbStatus,
		"broker":   brokerStatus,
	})
}
