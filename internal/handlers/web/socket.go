package web

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/dialog-crowd/tablechat/internal/services/coordinator"
)

const socketReadTimeout = 60 * time.Second

var wsUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// The experiment front end is served from arbitrary crowdsourcing
		// sandboxes, so origins cannot be pinned
		return true
	},
}

type chatFrame struct {
	Type string `json:"type"`
	From string `json:"from,omitempty"`
	Text string `json:"text,omitempty"`
}

// handleChatSocket upgrades the connection and relays chat lines between the
// two members of the participant's room. The socket's lifetime drives the
// participant's liveness flag.
func (s *Server) handleChatSocket(c *gin.Context) {
	id := c.Param("id")

	chat, err := s.coordinator.GetChatInfo(c.Request.Context(), &coordinator.GetChatInfoInput{
		ParticipantID: id,
	})
	if err != nil {
		s.renderError(c, err)
		return
	}

	ws, err := wsUpgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade already wrote the response
		return
	}

	if _, err := s.coordinator.Connect(c.Request.Context(), &coordinator.ConnectInput{
		ParticipantID: id,
	}); err != nil {
		ws.Close()
		return
	}

	sock := newConn(id, chat.RoomID, ws)
	s.hub.Attach(sock)
	defer func() {
		s.hub.Detach(sock)
		sock.Close(websocket.CloseNormalClosure, "session closed")

		if _, err := s.coordinator.Disconnect(c.Request.Context(), &coordinator.DisconnectInput{
			ParticipantID: id,
		}); err != nil {
			log.Printf("Failed to mark %s disconnected: %v", id, err)
		}
	}()

	ws.SetReadLimit(1 << 16)
	_ = ws.SetReadDeadline(time.Now().Add(socketReadTimeout))
	ws.SetPongHandler(func(string) error {
		return ws.SetReadDeadline(time.Now().Add(socketReadTimeout))
	})

	if payload, err := json.Marshal(chatFrame{Type: "connected"}); err == nil {
		_ = sock.Send(payload)
	}

	for {
		_, data, err := ws.ReadMessage()
		if err != nil {
			return
		}

		var frame chatFrame
		if err := json.Unmarshal(data, &frame); err != nil || frame.Type != "message" {
			continue
		}

		if err := s.transcripts.Append(chat.RoomID, id, frame.Text); err != nil {
			log.Printf("Failed to record transcript line for room %d: %v", chat.RoomID, err)
		}

		out := chatFrame{
			Type: "message",
			From: id,
			Text: frame.Text,
		}
		payload, err := json.Marshal(out)
		if err != nil {
			continue
		}

		s.hub.Broadcast(chat.RoomID, payload, id)
	}
}
