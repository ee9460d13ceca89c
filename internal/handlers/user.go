package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/mrkr-backend/internal/domain"
	"github.com/yungbote/mrkr-backend/internal/services"
)

type UserHandler struct {
	userService services.UserService
}

func NewUserHandler(userService services.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

func (uh *UserHandler) Create(c *gin.Context) {
	var req domain.UserCreate
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondBadRequest(c, err)
		return
	}
	user, err := uh.userService.Create(c.Request.Context(), req)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, gin.H{"message": "User created", "user_id": user.ID})
}

func (uh *UserHandler) List(c *gin.Context) {
	users, err := uh.userService.List(c.Request.Context())
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, users)
}
