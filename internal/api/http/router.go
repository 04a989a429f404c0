package http

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/immxrtalbeast/huddle/internal/api/ws"
)

func SetupRouter(userController *UserController, roomController *RoomController, pollController *PollController, gateway *ws.Gateway, uploadsDir string) *gin.Engine {
	router := gin.Default()

	config := cors.DefaultConfig()
	config.AllowAllOrigins = true
	config.AllowHeaders = []string{
		"Authorization",
		"Content-Type",
		"Origin",
		"Accept",
	}
	config.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"}
	router.Use(cors.New(config))

	router.GET("/healthz", func(ctx *gin.Context) {
		ctx.JSON(200, gin.H{"status": "ok"})
	})

	router.POST("/register", userController.Register)
	router.POST("/login", userController.Login)
	router.GET("/online-users", userController.OnlineUsers)
	router.GET("/user-profile/:username", userController.GetProfile)
	router.POST("/user-profile/:username", userController.UpdateProfile)
	router.PUT("/change-username", userController.ChangeUsername)
	router.GET("/user-chats", userController.UserChats)

	router.GET("/messages", roomController.GetMessages)
	router.POST("/messages", roomController.PostMessage)
	router.PUT("/edit-message", roomController.EditMessage)
	router.GET("/rooms", roomController.ListRooms)
	router.POST("/create-room", roomController.CreateRoom)
	router.POST("/create-private-chat", roomController.CreatePrivateChat)
	router.GET("/room/:roomId", roomController.RoomDetail)
	router.POST("/upload-file", roomController.UploadFile)

	router.POST("/create-poll", pollController.CreatePoll)
	router.POST("/vote-poll", pollController.Vote)
	router.GET("/polls/:room", pollController.ListPolls)

	if uploadsDir != "" {
		router.Static("/uploads", uploadsDir)
	}
	if gateway != nil {
		router.GET("/ws", gateway.Handle)
	}

	return router
}
