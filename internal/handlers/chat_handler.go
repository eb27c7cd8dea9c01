package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "budgetly/internal/errors"
	"budgetly/internal/services"
)

// ChatHandler handles chat assistant requests.
type ChatHandler struct {
	chatService services.ChatServicer
}

// NewChatHandler creates a new ChatHandler. A nil chatService makes the
// endpoint report CHAT_UNAVAILABLE.
func NewChatHandler(chatService services.ChatServicer) *ChatHandler {
	return &ChatHandler{chatService: chatService}
}

// ChatMessageRequest is one turn of the conversation.
type ChatMessageRequest struct {
	Role    string `json:"role" binding:"required,chat_role"`
	Content string `json:"content" binding:"required,not_blank,max=4000"`
}

// ChatRequest represents the request payload for the chat assistant.
type ChatRequest struct {
	Messages []ChatMessageRequest `json:"messages" binding:"required,min=1,max=50,dive"`
}

// ChatResponse carries the assistant's answer.
type ChatResponse struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Reply handles a chat turn
// @Summary     Ask the assistant
// @Description Send the conversation so far and receive the assistant's reply
// @Tags        chat
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body ChatRequest true "Conversation"
// @Success     200 {object} DataResponse[ChatResponse] "Assistant reply"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     502 {object} ErrorResponse "Assistant provider failed"
// @Failure     503 {object} ErrorResponse "Assistant not configured"
// @Router      /chat [post]
func (h *ChatHandler) Reply(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	if h.chatService == nil {
		respondWithError(c, apperrors.ErrChatUnavailable)
		return
	}

	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	messages := make([]services.ChatMessage, len(req.Messages))
	for i, m := range req.Messages {
		messages[i] = services.ChatMessage{Role: m.Role, Content: m.Content}
	}

	reply, err := h.chatService.Reply(c.Request.Context(), userID, messages)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": ChatResponse{Role: services.ChatRoleAssistant, Content: reply}})
}
