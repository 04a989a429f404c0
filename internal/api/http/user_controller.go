package http

import (
	"encoding/base64"
	"fmt"
	"io"
	"net/http"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gin-gonic/gin"
	"github.com/immxrtalbeast/huddle/internal/api/http/converter"
	"github.com/immxrtalbeast/huddle/internal/service"
)

type UserController struct {
	users    service.UserInteractor
	registry service.RoomInteractor
	presence *service.PresenceTracker
}

func NewUserController(users service.UserInteractor, registry service.RoomInteractor, presence *service.PresenceTracker) *UserController {
	return &UserController{users: users, registry: registry, presence: presence}
}

func (c *UserController) Register(ctx *gin.Context) {
	type request struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}

	var req request
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "username and password required"})
		return
	}

	if err := c.users.Register(ctx.Request.Context(), req.Username, req.Password); err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Registration successful"})
}

func (c *UserController) Login(ctx *gin.Context) {
	type request struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}

	var req request
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "username and password required"})
		return
	}

	if err := c.users.Login(ctx.Request.Context(), req.Username, req.Password); err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Login successful", "username": req.Username})
}

// OnlineUsers reports distinct users with a live realtime connection.
// Presence is connection-derived, not login-derived.
func (c *UserController) OnlineUsers(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{"count": c.presence.Count()})
}

func (c *UserController) GetProfile(ctx *gin.Context) {
	profile := c.registry.Profile(ctx.Param("username"))
	ctx.JSON(http.StatusOK, converter.ProfileToApi(profile))
}

// UpdateProfile accepts a multipart form with an optional displayName field
// and an optional avatar file. The avatar is stored inline as a data URL.
func (c *UserController) UpdateProfile(ctx *gin.Context) {
	username := ctx.Param("username")
	displayName := ctx.PostForm("displayName")

	var avatar string
	if fileHeader, err := ctx.FormFile("avatar"); err == nil {
		file, err := fileHeader.Open()
		if err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "cannot read avatar"})
			return
		}
		defer file.Close()

		data, err := io.ReadAll(file)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "cannot read avatar"})
			return
		}
		avatar = fmt.Sprintf("data:%s;base64,%s",
			mimetype.Detect(data).String(),
			base64.StdEncoding.EncodeToString(data))
	}

	if err := c.registry.UpdateProfile(ctx.Request.Context(), username, displayName, avatar); err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Profile updated"})
}

func (c *UserController) ChangeUsername(ctx *gin.Context) {
	type request struct {
		OldUsername string `json:"oldUsername" binding:"required"`
		NewUsername string `json:"newUsername" binding:"required"`
	}

	var req request
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "old and new username required"})
		return
	}

	if err := c.users.Rename(ctx.Request.Context(), req.OldUsername, req.NewUsername); err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Username changed successfully"})
}

func (c *UserController) UserChats(ctx *gin.Context) {
	username := ctx.Query("username")
	if username == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "username required"})
		return
	}

	chats := c.registry.UserChats(username)
	ctx.JSON(http.StatusOK, converter.ChatsToApi(chats))
}
