package http

import (
	"net/http"
	"path/filepath"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/immxrtalbeast/huddle/internal/api/http/converter"
	"github.com/immxrtalbeast/huddle/internal/domain"
	"github.com/immxrtalbeast/huddle/internal/service"
)

const defaultRoom = "general"

type RoomController struct {
	registry   service.RoomInteractor
	uploadsDir string
}

func NewRoomController(registry service.RoomInteractor, uploadsDir string) *RoomController {
	return &RoomController{registry: registry, uploadsDir: uploadsDir}
}

func (c *RoomController) GetMessages(ctx *gin.Context) {
	roomID := ctx.Query("room")
	if roomID == "" {
		roomID = defaultRoom
	}

	messages, err := c.registry.ListMessages(roomID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	if messages == nil {
		messages = []*domain.Message{}
	}
	ctx.JSON(http.StatusOK, messages)
}

func (c *RoomController) PostMessage(ctx *gin.Context) {
	type fileRef struct {
		URL      string `json:"url" binding:"required"`
		Filename string `json:"filename"`
		MimeType string `json:"mimetype"`
	}
	type request struct {
		Username string   `json:"username" binding:"required"`
		Message  string   `json:"message"`
		File     *fileRef `json:"file"`
		PollID   string   `json:"pollId"`
		Room     string   `json:"room"`
	}

	var req request
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "username and content required"})
		return
	}
	if req.Room == "" {
		req.Room = defaultRoom
	}

	var file *domain.FileRef
	if req.File != nil {
		file = &domain.FileRef{URL: req.File.URL, Filename: req.File.Filename, MimeType: req.File.MimeType}
	}

	msg, err := c.registry.PostMessage(ctx.Request.Context(), req.Room, req.Username, req.Message, file, req.PollID)
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Message sent", "id": msg.ID})
}

func (c *RoomController) EditMessage(ctx *gin.Context) {
	type request struct {
		MessageID  int64  `json:"messageId" binding:"required"`
		NewMessage string `json:"newMessage" binding:"required"`
		Room       string `json:"room" binding:"required"`
		Username   string `json:"username" binding:"required"`
	}

	var req request
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "message ID, new message, room, and username required"})
		return
	}

	if err := c.registry.EditMessage(ctx.Request.Context(), req.Room, req.MessageID, req.NewMessage, req.Username); err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Message edited successfully"})
}

func (c *RoomController) ListRooms(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, converter.RoomSummariesToApi(c.registry.ListRooms()))
}

func (c *RoomController) CreateRoom(ctx *gin.Context) {
	type request struct {
		Name    string `json:"name" binding:"required"`
		Type    string `json:"type" binding:"required"`
		Creator string `json:"creator" binding:"required"`
	}

	var req request
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "name, type, and creator required"})
		return
	}

	roomID, err := c.registry.CreateGroupRoom(ctx.Request.Context(), req.Name, req.Creator)
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Room created", "roomId": roomID})
}

func (c *RoomController) CreatePrivateChat(ctx *gin.Context) {
	type request struct {
		Username   string `json:"username" binding:"required"`
		TargetUser string `json:"targetUser" binding:"required"`
	}

	var req request
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "username and target user required"})
		return
	}

	roomID, err := c.registry.CreateOrGetPrivateRoom(ctx.Request.Context(), req.Username, req.TargetUser)
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Private chat created", "roomId": roomID})
}

// RoomDetail backs shareable room links.
func (c *RoomController) RoomDetail(ctx *gin.Context) {
	detail, err := c.registry.RoomDetail(ctx.Param("roomId"))
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, converter.RoomDetailToApi(detail))
}

// UploadFile stores the uploaded bytes under a generated name and records a
// file-reference message in the room. File storage is a collaborator, not
// part of the message log.
func (c *RoomController) UploadFile(ctx *gin.Context) {
	username := ctx.PostForm("username")
	roomID := ctx.PostForm("room")
	fileHeader, err := ctx.FormFile("file")
	if username == "" || roomID == "" || err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "username, room, and file required"})
		return
	}

	stored := uuid.New().String() + filepath.Ext(fileHeader.Filename)
	dst := filepath.Join(c.uploadsDir, stored)
	if err := ctx.SaveUploadedFile(fileHeader, dst); err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store file"})
		return
	}

	mime := fileHeader.Header.Get("Content-Type")
	if detected, err := mimetype.DetectFile(dst); err == nil {
		mime = detected.String()
	}

	file := &domain.FileRef{
		URL:      "/uploads/" + stored,
		Filename: fileHeader.Filename,
		MimeType: mime,
	}

	msg, err := c.registry.PostMessage(ctx.Request.Context(), roomID, username, "", file, "")
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "File uploaded", "id": msg.ID, "file": file})
}
