// Package client speaks the agent side of the wire protocol: one websocket
// connection, a HELLO/WELCOME handshake, then OBS in and ACT out.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/gorilla/websocket"

	"voxelbrain/internal/protocol"
)

const (
	handshakeTimeout = 10 * time.Second
	readTimeout      = 60 * time.Second
	writeTimeout     = 5 * time.Second
)

// Session is a connected, welcomed agent link. Not safe for concurrent use;
// the control loop owns it.
type Session struct {
	conn *websocket.Conn
	log  *log.Logger

	AgentID     string
	ResumeToken string
	Params      protocol.WorldParams
}

// Dial connects, sends HELLO, and waits for the WELCOME. A server ERROR
// during the handshake is returned as a failure with its code.
func Dial(ctx context.Context, url, agentName string, logger *log.Logger) (*Session, error) {
	dialer := websocket.Dialer{HandshakeTimeout: handshakeTimeout}
	conn, _, err := dialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", url, err)
	}

	hello := protocol.HelloMsg{
		Type:            protocol.TypeHello,
		ProtocolVersion: protocol.Version,
		AgentName:       agentName,
		Capabilities: protocol.HelloCapabilities{
			DeltaVoxels: true,
			MaxQueue:    8,
		},
	}
	if err := conn.WriteJSON(hello); err != nil {
		conn.Close()
		return nil, fmt.Errorf("send HELLO: %w", err)
	}

	s := &Session{conn: conn, log: logger}
	if err := s.awaitWelcome(); err != nil {
		conn.Close()
		return nil, err
	}
	return s, nil
}

func (s *Session) awaitWelcome() error {
	_ = s.conn.SetReadDeadline(time.Now().Add(handshakeTimeout))
	for {
		_, msg, err := s.conn.ReadMessage()
		if err != nil {
			return fmt.Errorf("await WELCOME: %w", err)
		}
		base, err := protocol.DecodeBase(msg)
		if err != nil {
			continue
		}
		switch base.Type {
		case protocol.TypeWelcome:
			var w protocol.WelcomeMsg
			if err := json.Unmarshal(msg, &w); err != nil {
				return fmt.Errorf("decode WELCOME: %w", err)
			}
			s.AgentID = w.AgentID
			s.ResumeToken = w.ResumeToken
			s.Params = w.WorldParams
			return nil
		case protocol.TypeError:
			var e protocol.ErrorMsg
			if err := json.Unmarshal(msg, &e); err != nil {
				return fmt.Errorf("decode ERROR: %w", err)
			}
			return fmt.Errorf("server refused handshake: %s %s", e.Code, e.Message)
		default:
			// Anything else before WELCOME is out of order; skip it.
		}
	}
}

// ReadObs blocks until the next observation. Unknown message types are
// skipped; server ERROR frames are logged and skipped, since the server
// keeps the session alive after a rejected request.
func (s *Session) ReadObs() (*protocol.ObsMsg, error) {
	for {
		_ = s.conn.SetReadDeadline(time.Now().Add(readTimeout))
		_, msg, err := s.conn.ReadMessage()
		if err != nil {
			return nil, fmt.Errorf("read: %w", err)
		}
		base, err := protocol.DecodeBase(msg)
		if err != nil {
			continue
		}
		switch base.Type {
		case protocol.TypeObs:
			var obs protocol.ObsMsg
			if err := json.Unmarshal(msg, &obs); err != nil {
				s.log.Printf("bad OBS frame: %v", err)
				continue
			}
			return &obs, nil
		case protocol.TypeError:
			var e protocol.ErrorMsg
			if json.Unmarshal(msg, &e) == nil {
				s.log.Printf("server error: %s %s", e.Code, e.Message)
			}
		default:
		}
	}
}

// WriteAct sends one action frame. A nil message is a no-op so callers can
// pass the flush result straight through.
func (s *Session) WriteAct(act *protocol.ActMsg) error {
	if act == nil {
		return nil
	}
	_ = s.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	if err := s.conn.WriteJSON(act); err != nil {
		return fmt.Errorf("send ACT: %w", err)
	}
	return nil
}

// Close sends a close frame and tears the connection down.
func (s *Session) Close() error {
	_ = s.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	_ = s.conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, "bye"))
	return s.conn.Close()
}
