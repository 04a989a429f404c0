package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/immxrtalbeast/huddle/internal/domain"
	"github.com/immxrtalbeast/huddle/internal/service"
)

type PollController struct {
	polls service.PollInteractor
}

func NewPollController(polls service.PollInteractor) *PollController {
	return &PollController{polls: polls}
}

func (c *PollController) CreatePoll(ctx *gin.Context) {
	type request struct {
		Question string   `json:"question" binding:"required"`
		Options  []string `json:"options" binding:"required"`
		Room     string   `json:"room" binding:"required"`
		Creator  string   `json:"creator" binding:"required"`
	}

	var req request
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "question, options, room, and creator required"})
		return
	}

	poll, err := c.polls.Create(ctx.Request.Context(), req.Question, req.Options, req.Room, req.Creator)
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"pollId": poll.ID, "message": "Poll created"})
}

func (c *PollController) Vote(ctx *gin.Context) {
	type request struct {
		PollID      string `json:"pollId" binding:"required"`
		OptionIndex *int   `json:"optionIndex" binding:"required"`
		Username    string `json:"username" binding:"required"`
	}

	var req request
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "poll ID, option index, and username required"})
		return
	}

	if err := c.polls.Vote(ctx.Request.Context(), req.PollID, *req.OptionIndex, req.Username); err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Vote recorded"})
}

func (c *PollController) ListPolls(ctx *gin.Context) {
	polls := c.polls.ListForRoom(ctx.Param("room"))
	if polls == nil {
		polls = []*domain.Poll{}
	}
	ctx.JSON(http.StatusOK, polls)
}
