package web

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dialog-crowd/tablechat/internal/models"
	"github.com/dialog-crowd/tablechat/internal/services/coordinator"
)

func (s *Server) registerRoutes(router *gin.Engine) {
	api := router.Group("/api")

	api.POST("/participants/:id", s.handleEnsureParticipant)
	api.GET("/participants/:id/status", s.handleGetStatus)
	api.GET("/participants/:id/status/poll", s.handlePollStatus)
	api.GET("/participants/:id/waiting", s.handleGetWaitingInfo)
	api.GET("/participants/:id/single_task", s.handleGetSingleTaskInfo)
	api.POST("/participants/:id/single_task", s.handleSubmitSingleTask)
	api.GET("/participants/:id/chat", s.handleGetChatInfo)
	api.GET("/participants/:id/chat/valid", s.handleIsChatValid)
	api.POST("/participants/:id/pick", s.handlePickRestaurant)
	api.POST("/participants/:id/leave", s.handleLeaveRoom)
	api.GET("/participants/:id/finished", s.handleGetFinishedInfo)

	router.GET("/ws/:id", s.handleChatSocket)
}

// handleEnsureParticipant registers first contact and marks the client live
func (s *Server) handleEnsureParticipant(c *gin.Context) {
	id := c.Param("id")

	out, err := s.coordinator.EnsureParticipant(c.Request.Context(), &coordinator.EnsureParticipantInput{
		ParticipantID: id,
	})
	if err != nil {
		s.renderError(c, err)
		return
	}

	if _, err := s.coordinator.Connect(c.Request.Context(), &coordinator.ConnectInput{
		ParticipantID: id,
	}); err != nil {
		s.renderError(c, err)
		return
	}

	status, err := s.coordinator.GetEffectiveStatus(c.Request.Context(), &coordinator.GetEffectiveStatusInput{
		ParticipantID: id,
	})
	if err != nil {
		s.renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"created": out.Created,
		"status":  status.Status,
		"message": status.Message,
	})
}

func (s *Server) handleGetStatus(c *gin.Context) {
	out, err := s.coordinator.GetEffectiveStatus(c.Request.Context(), &coordinator.GetEffectiveStatusInput{
		ParticipantID: c.Param("id"),
	})
	if err != nil {
		s.renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  out.Status,
		"message": out.Message,
	})
}

// handlePollStatus is the client's heartbeat: it reports whether the screen
// the client last rendered still matches the participant's resolved status,
// and doubles as the matchmaking trigger for waiting participants.
func (s *Server) handlePollStatus(c *gin.Context) {
	assumed := models.Status(c.Query("assumed"))
	if assumed == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "assumed status is required"})
		return
	}

	out, err := s.coordinator.IsStatusUnchanged(c.Request.Context(), &coordinator.IsStatusUnchangedInput{
		ParticipantID: c.Param("id"),
		AssumedStatus: assumed,
	})
	if err != nil {
		s.renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"unchanged": out.Unchanged,
		"status":    out.Status,
	})
}

func (s *Server) handleGetWaitingInfo(c *gin.Context) {
	out, err := s.coordinator.GetWaitingInfo(c.Request.Context(), &coordinator.GetWaitingInfoInput{
		ParticipantID: c.Param("id"),
	})
	if err != nil {
		s.renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":           out.Message,
		"seconds_remaining": out.SecondsRemaining,
	})
}

func (s *Server) handleGetSingleTaskInfo(c *gin.Context) {
	out, err := s.coordinator.GetSingleTaskInfo(c.Request.Context(), &coordinator.GetSingleTaskInfoInput{
		ParticipantID: c.Param("id"),
	})
	if err != nil {
		s.renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"scenario":          out.Scenario,
		"agent_index":       out.AgentIndex,
		"seconds_remaining": out.SecondsRemaining,
	})
}

type submitSingleTaskRequest struct {
	Payload string `json:"payload"`
}

func (s *Server) handleSubmitSingleTask(c *gin.Context) {
	var req submitSingleTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	out, err := s.coordinator.SubmitSingleTask(c.Request.Context(), &coordinator.SubmitSingleTaskInput{
		ParticipantID: c.Param("id"),
		Payload:       req.Payload,
	})
	if err != nil {
		s.renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  out.Status,
		"message": out.Message,
	})
}

func (s *Server) handleGetChatInfo(c *gin.Context) {
	out, err := s.coordinator.GetChatInfo(c.Request.Context(), &coordinator.GetChatInfoInput{
		ParticipantID: c.Param("id"),
	})
	if err != nil {
		s.renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"room_id":           out.RoomID,
		"agent_index":       out.AgentIndex,
		"scenario":          out.Scenario,
		"seconds_remaining": out.SecondsRemaining,
	})
}

func (s *Server) handleIsChatValid(c *gin.Context) {
	out, err := s.coordinator.IsChatValid(c.Request.Context(), &coordinator.IsChatValidInput{
		ParticipantID: c.Param("id"),
	})
	if err != nil {
		s.renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"valid": out.Valid,
	})
}

type pickRestaurantRequest struct {
	RestaurantIndex int `json:"restaurant_index"`
}

func (s *Server) handlePickRestaurant(c *gin.Context) {
	var req pickRestaurantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	// Fetch the room before the pick so a settled outcome can still close
	// the relay afterwards
	roomID := -1
	if chat, err := s.coordinator.GetChatInfo(c.Request.Context(), &coordinator.GetChatInfoInput{
		ParticipantID: c.Param("id"),
	}); err == nil {
		roomID = chat.RoomID
	}

	out, err := s.coordinator.PickRestaurant(c.Request.Context(), &coordinator.PickRestaurantInput{
		ParticipantID:   c.Param("id"),
		RestaurantIndex: req.RestaurantIndex,
	})
	if err != nil {
		s.renderError(c, err)
		return
	}

	if out.Matched && roomID >= 0 {
		if err := s.transcripts.EndRoom(roomID); err != nil {
			log.Printf("Failed to finalize transcript for room %d: %v", roomID, err)
		}
		s.hub.CloseRoom(roomID, "negotiation settled")
	}

	c.JSON(http.StatusOK, gin.H{
		"restaurant": out.RestaurantName,
		"matched":    out.Matched,
		"message":    out.Message,
	})
}

func (s *Server) handleLeaveRoom(c *gin.Context) {
	// Fetch the room before leaving so the relay can be torn down
	roomID := -1
	if chat, err := s.coordinator.GetChatInfo(c.Request.Context(), &coordinator.GetChatInfoInput{
		ParticipantID: c.Param("id"),
	}); err == nil {
		roomID = chat.RoomID
	}

	if _, err := s.coordinator.LeaveRoom(c.Request.Context(), &coordinator.LeaveRoomInput{
		ParticipantID: c.Param("id"),
	}); err != nil {
		s.renderError(c, err)
		return
	}

	if roomID >= 0 {
		if err := s.transcripts.EndRoom(roomID); err != nil {
			log.Printf("Failed to finalize transcript for room %d: %v", roomID, err)
		}
		s.hub.CloseRoom(roomID, "participant left")
	}

	c.JSON(http.StatusOK, gin.H{})
}

func (s *Server) handleGetFinishedInfo(c *gin.Context) {
	out, err := s.coordinator.GetFinishedInfo(c.Request.Context(), &coordinator.GetFinishedInfoInput{
		ParticipantID:      c.Param("id"),
		WantCompletionCode: c.Query("code") == "1",
	})
	if err != nil {
		s.renderError(c, err)
		return
	}

	resp := gin.H{
		"message":           out.Message,
		"seconds_remaining": out.SecondsRemaining,
	}
	if out.CompletionCode != "" {
		resp["completion_code"] = out.CompletionCode
	}

	c.JSON(http.StatusOK, resp)
}

// renderError maps coordinator errors onto HTTP statuses
func (s *Server) renderError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, coordinator.ErrParticipantNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, coordinator.ErrUnexpectedStatus):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, coordinator.ErrInvalidRestaurant):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
