// server.go
//
// Apartment maintenance tracker API
// Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC
//
// This file is part of apartment-maintenance-tracker.
// apartment-maintenance-tracker is free software: you can redistribute it and/or modify it
// under the terms of the GNU Affero General Public License as published by the Free Software
// Foundation, either version 3 of the License, or (at your option) any later version.
// apartment-maintenance-tracker is distributed in the hope that it will be useful, but WITHOUT ANY WARRANTY;
// without even the implied warranty of MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.
// See the GNU Affero General Public License for more details.
// You should have received a copy of the GNU Affero General Public License along with apartment-maintenance-tracker.
// If not, see <https://www.gnu.org/licenses/>.
// Additional terms under GNU AGPL version 3 section 7:
// a) The reasonable legal notice of original copyright and author attribution must be preserved
//    by including the string: "Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC"
//    in this material, copies, or source code of derived works.

package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/justinglotz/apartment-maintenance-tracker/internal/access"
	"github.com/justinglotz/apartment-maintenance-tracker/internal/auth"
	"github.com/justinglotz/apartment-maintenance-tracker/internal/services"
	"github.com/justinglotz/apartment-maintenance-tracker/internal/types"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Frame types
const (
	FrameReady      = "ready"
	FrameError      = "error"
	FrameJoined     = "joined"
	FrameLeft       = "left"
	FrameJoinIssue  = "join-issue"
	FrameLeaveIssue = "leave-issue"
)

const (
	defaultSendBuffer = 64
	writeTimeout      = 5 * time.Second
)

// TokenValidator checks the credential presented at connect time
type TokenValidator interface {
	Validate(token string) (*auth.Claims, error)
}

type inboundFrame struct {
	Type    string                       `json:"type"`
	IssueID types.FlexList[types.FlexID] `json:"issueId"`
}

// Server accepts live connections
type Server struct {
	Hub            *Hub
	DB             *gorm.DB
	Tokens         TokenValidator
	OriginPatterns []string
	SendBuffer     int
	Logger         *zap.Logger
}

// Routes returns the router for the live listener
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok","service":"realtime"}`))
	})
	r.Get("/ws", s.handleConnect)
	return r
}

func (s *Server) logger() *zap.Logger {
	if s.Logger == nil {
		return zap.L()
	}
	return s.Logger
}

// bearerToken reads the credential from the Authorization header or the token query parameter
func bearerToken(r *http.Request) string {
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
	}
	return r.URL.Query().Get("token")
}

// authenticate refuses the connection before the upgrade when the credential is bad
func (s *Server) authenticate(r *http.Request) (access.Actor, error) {
	token := bearerToken(r)
	if token == "" {
		return access.Actor{}, errors.New("missing token")
	}
	claims, err := s.Tokens.Validate(token)
	if err != nil {
		return access.Actor{}, err
	}
	actor, _, err := services.LoadActor(s.DB.WithContext(r.Context()), claims.UserID)
	return actor, err
}

func (s *Server) handleConnect(w http.ResponseWriter, r *http.Request) {
	actor, err := s.authenticate(r)
	if err != nil {
		s.logger().Debug("live connection refused", zap.Error(err))
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{OriginPatterns: s.OriginPatterns})
	if err != nil {
		s.logger().Debug("websocket accept failed", zap.Error(err))
		return
	}
	defer conn.CloseNow()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	size := s.SendBuffer
	if size <= 0 {
		size = defaultSendBuffer
	}
	c := &client{userID: actor.ID, send: make(chan Frame, size)}
	s.Hub.join(c, UserRoom(actor.ID))
	defer s.Hub.remove(c)

	activeConnections.Inc()
	defer activeConnections.Dec()
	log := s.logger().With(zap.Uint("user_id", actor.ID))
	log.Debug("live connection opened")

	c.enqueue(Frame{Type: FrameReady})

	readErr := make(chan error, 1)
	go func() {
		readErr <- s.readLoop(ctx, conn, c)
	}()

	for {
		select {
		case <-ctx.Done():
			_ = conn.Close(websocket.StatusNormalClosure, "closed")
			return
		case err := <-readErr:
			if websocket.CloseStatus(err) != websocket.StatusNormalClosure && !errors.Is(err, context.Canceled) {
				log.Debug("live connection read ended", zap.Error(err))
			}
			_ = conn.Close(websocket.StatusNormalClosure, "closed")
			return
		case f := <-c.send:
			writeCtx, cancelWrite := context.WithTimeout(ctx, writeTimeout)
			err := wsjson.Write(writeCtx, conn, f)
			cancelWrite()
			if err != nil {
				log.Debug("live write failed", zap.Error(err))
				_ = conn.Close(websocket.StatusNormalClosure, "write_failed")
				return
			}
		}
	}
}

func (s *Server) readLoop(ctx context.Context, conn *websocket.Conn, c *client) error {
	for {
		_, data, err := conn.Read(ctx)
		if err != nil {
			return err
		}

		var in inboundFrame
		if err := json.Unmarshal(data, &in); err != nil {
			c.enqueue(Frame{Type: FrameError, Message: "malformed frame"})
			continue
		}

		switch in.Type {
		case FrameJoinIssue:
			for _, id := range in.IssueID.Slice() {
				s.joinIssue(ctx, c, id.Uint())
			}
		case FrameLeaveIssue:
			for _, id := range in.IssueID.Slice() {
				s.Hub.leave(c, IssueRoom(id.Uint()))
				c.enqueue(Frame{Type: FrameLeft, IssueID: id.Uint()})
			}
		default:
			c.enqueue(Frame{Type: FrameError, Message: "unknown frame type " + in.Type})
		}
	}
}

// joinIssue subscribes to an issue room if the user may read the issue.
// Affiliation is re-read so a moved landlord loses access immediately.
func (s *Server) joinIssue(ctx context.Context, c *client, issueID uint) {
	db := s.DB.WithContext(ctx)
	actor, _, err := services.LoadActor(db, c.userID)
	if err == nil {
		_, err = services.AuthorizeIssue(db, actor, issueID, access.ActionRead)
	}
	if err != nil {
		message := "cannot join issue"
		var appErr *types.AppError
		if errors.As(err, &appErr) && appErr.Kind != types.KindDependencyFailure {
			message = appErr.Message
		}
		c.enqueue(Frame{Type: FrameError, IssueID: issueID, Message: message})
		return
	}
	s.Hub.join(c, IssueRoom(issueID))
	c.enqueue(Frame{Type: FrameJoined, IssueID: issueID})
}
