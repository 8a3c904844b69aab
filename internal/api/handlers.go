package api

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"gridchat/internal/auth"
	"gridchat/internal/models"
	"gridchat/internal/service/chat"
)

// DefaultUploadLimit is the file size ceiling accepted for extraction,
// enforced here at the upload boundary rather than inside the extractor.
const DefaultUploadLimit = 20 << 20

// ChatService is the pipeline surface the handlers depend on.
type ChatService interface {
	RegisterUser(ctx context.Context, username, password string) (*models.User, error)
	Login(ctx context.Context, username, password string) (*models.User, error)
	ListBots(ctx context.Context) ([]models.Bot, error)
	ListThreads(ctx context.Context, userID int64) ([]models.Thread, error)
	GetThreadWithTurns(ctx context.Context, userID, threadID int64) (*models.Thread, []*models.Message, error)
	DeleteThread(ctx context.Context, userID, threadID int64) error
	ProcessMessage(ctx context.Context, req chat.ProcessRequest) (*chat.ProcessResult, error)
}

// Handler wires HTTP routes to the chat service.
type Handler struct {
	chat        ChatService
	auth        *auth.Service
	fileBase    string
	uploadLimit int64
}

// NewHandler constructs a Handler instance.
func NewHandler(service ChatService, authService *auth.Service, fileBase string, uploadLimit int64) *Handler {
	if uploadLimit <= 0 {
		uploadLimit = DefaultUploadLimit
	}
	return &Handler{
		chat:        service,
		auth:        authService,
		fileBase:    fileBase,
		uploadLimit: uploadLimit,
	}
}

// RegisterRoutes attaches all HTTP routes to the router.
func (h *Handler) RegisterRoutes(router *gin.Engine) {
	api := router.Group("/api")
	api.POST("/users/register", h.registerUser)
	api.POST("/users/login", h.loginUser)

	authed := api.Group("", h.auth.Middleware())
	authed.GET("/bots", h.listBots)
	authed.GET("/threads", h.listThreads)
	authed.GET("/threads/:id/messages", h.getThreadMessages)
	authed.DELETE("/threads/:id", h.deleteThread)
	authed.POST("/bots/:id/messages", h.postMessage)
	authed.POST("/logout", h.logoutUser)
}

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *Handler) registerUser(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	user, err := h.chat.RegisterUser(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"id":         user.ID,
		"username":   user.Username,
		"created_at": user.CreatedAt,
	})
}

func (h *Handler) loginUser(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	user, err := h.chat.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}
	token, err := h.auth.IssueToken(c.Request.Context(), user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "issue token failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"id":         user.ID,
		"username":   user.Username,
		"auth_token": token,
	})
}

func (h *Handler) logoutUser(c *gin.Context) {
	if token, ok := auth.TokenFromContext(c); ok {
		_ = h.auth.RevokeToken(c.Request.Context(), token)
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) listBots(c *gin.Context) {
	bots, err := h.chat.ListBots(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if bots == nil {
		bots = make([]models.Bot, 0)
	}
	c.JSON(http.StatusOK, gin.H{"bots": bots})
}

func (h *Handler) listThreads(c *gin.Context) {
	userID, ok := h.authorizedUserID(c)
	if !ok {
		return
	}
	threads, err := h.chat.ListThreads(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if threads == nil {
		threads = make([]models.Thread, 0)
	}
	c.JSON(http.StatusOK, gin.H{"threads": threads})
}

func (h *Handler) getThreadMessages(c *gin.Context) {
	userID, ok := h.authorizedUserID(c)
	if !ok {
		return
	}
	threadID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || threadID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid thread id"})
		return
	}
	thread, messages, err := h.chat.GetThreadWithTurns(c.Request.Context(), userID, threadID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"error": "thread not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"thread":   thread,
		"messages": messages,
	})
}

func (h *Handler) deleteThread(c *gin.Context) {
	userID, ok := h.authorizedUserID(c)
	if !ok {
		return
	}
	threadID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || threadID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid thread id"})
		return
	}
	if err := h.chat.DeleteThread(c.Request.Context(), userID, threadID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"error": "thread not found"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

// postMessage accepts a multipart form: message text, optional thread_id and
// one optional file.
func (h *Handler) postMessage(c *gin.Context) {
	userID, ok := h.authorizedUserID(c)
	if !ok {
		return
	}
	botID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || botID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid bot id"})
		return
	}

	message := strings.TrimSpace(c.PostForm("message"))
	var threadID int64
	if raw := strings.TrimSpace(c.PostForm("thread_id")); raw != "" {
		threadID, err = strconv.ParseInt(raw, 10, 64)
		if err != nil || threadID < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid thread id"})
			return
		}
	}

	upload, err := h.saveUpload(c)
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, errFileTooLarge) {
			status = http.StatusRequestEntityTooLarge
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}
	if message == "" && upload == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "message or file is required"})
		return
	}

	result, err := h.chat.ProcessMessage(c.Request.Context(), chat.ProcessRequest{
		UserID:   userID,
		BotID:    botID,
		ThreadID: threadID,
		Message:  message,
		File:     upload,
	})
	if err != nil {
		if errors.Is(err, chat.ErrBotNotFound) || errors.Is(err, sql.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}

var errFileTooLarge = errors.New("file exceeds upload limit")

// saveUpload stores the optional multipart file under the upload base dir
// and returns its description, or nil when no file was sent.
func (h *Handler) saveUpload(c *gin.Context) (*models.UploadedFile, error) {
	header, err := c.FormFile("file")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return nil, nil
		}
		return nil, fmt.Errorf("read upload: %w", err)
	}
	if header.Size > h.uploadLimit {
		return nil, errFileTooLarge
	}

	if err := os.MkdirAll(h.fileBase, 0o755); err != nil {
		return nil, fmt.Errorf("prepare upload dir: %w", err)
	}
	storedPath := filepath.Join(h.fileBase, uuid.NewString()+filepath.Ext(header.Filename))
	if err := c.SaveUploadedFile(header, storedPath); err != nil {
		return nil, fmt.Errorf("store upload: %w", err)
	}
	return &models.UploadedFile{
		Path:         storedPath,
		OriginalName: header.Filename,
		MimeType:     header.Header.Get("Content-Type"),
		Size:         header.Size,
	}, nil
}

func (h *Handler) authorizedUserID(c *gin.Context) (int64, bool) {
	userID, ok := auth.UserIDFromContext(c)
	if !ok || userID <= 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authorization required"})
		return 0, false
	}
	return userID, true
}
