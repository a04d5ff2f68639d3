package dashboard

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/textlens/textlens/internal/batch"
	"github.com/textlens/textlens/internal/detector"
	"github.com/textlens/textlens/internal/history"
	"github.com/textlens/textlens/internal/viewstate"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// uploadRequest is the incoming WebSocket message format.
type uploadRequest struct {
	Type    string `json:"type"` // "upload"
	Name    string `json:"name"`
	Content string `json:"content"` // base64 file bytes
}

// statusMessage is the outgoing WebSocket message format.
type statusMessage struct {
	Type       string               `json:"type"` // "status" or "error"
	ID         string               `json:"id,omitempty"`
	Name       string               `json:"name,omitempty"`
	Status     viewstate.FileStatus `json:"status,omitempty"`
	Label      string               `json:"label,omitempty"`
	Confidence float64              `json:"confidence"`
	Content    string               `json:"content,omitempty"`
}

// handleBatchSocket analyses uploaded files one at a time, reporting each
// status transition back to the client.
func (d *Dashboard) handleBatchSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("dashboard: websocket upgrade: %v", err)
		return
	}
	defer conn.Close()

	// Runs outlive the request timeout middleware; the detector client
	// applies its own per-call timeout.
	ctx := context.WithoutCancel(r.Context())

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("dashboard: websocket read: %v", err)
			}
			return
		}

		var req uploadRequest
		if err := json.Unmarshal(msg, &req); err != nil {
			d.sendError(conn, "invalid message format")
			continue
		}
		if req.Type != "upload" {
			d.sendError(conn, "unknown message type: "+req.Type)
			continue
		}

		item, err := d.decodeUpload(req)
		if err != nil {
			d.sendError(conn, err.Error())
			continue
		}

		d.send(conn, statusMessage{Type: "status", ID: item.ID, Name: item.Name, Status: viewstate.FilePending})
		final := d.runner.Run(ctx, []batch.Item{item}, func(u batch.Update) {
			d.send(conn, statusFor(u))
		})
		for _, u := range final {
			if u.Status == viewstate.FileDone {
				rec := history.Analysis{Source: history.SourceFile, Name: u.Name, Result: u.Result}
				if strings.EqualFold(filepath.Ext(item.Name), ".txt") {
					rec.Text = detector.Truncate(string(item.Data), d.cfg.MaxTextLength)
				}
				d.save(ctx, &rec)
			}
		}
	}
}

func (d *Dashboard) decodeUpload(req uploadRequest) (batch.Item, error) {
	name := filepath.Base(strings.TrimSpace(req.Name))
	if name == "" || name == "." || name == "/" {
		return batch.Item{}, fmt.Errorf("name is required")
	}
	if !allowedExtension(name, d.cfg.AllowedExtensions) {
		return batch.Item{}, fmt.Errorf("%s: unsupported file type", name)
	}
	data, err := base64.StdEncoding.DecodeString(req.Content)
	if err != nil {
		return batch.Item{}, fmt.Errorf("%s: content is not valid base64", name)
	}
	if len(data) == 0 {
		return batch.Item{}, fmt.Errorf("%s: file is empty", name)
	}
	if int64(len(data)) > d.cfg.MaxFileSize {
		return batch.Item{}, fmt.Errorf("%s: file exceeds %d bytes", name, d.cfg.MaxFileSize)
	}
	return batch.Item{ID: uuid.New().String(), Name: name, Data: data}, nil
}

func allowedExtension(name string, exts []string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range exts {
		if strings.EqualFold(ext, "."+strings.TrimPrefix(e, ".")) {
			return true
		}
	}
	return false
}

func statusFor(u batch.Update) statusMessage {
	m := statusMessage{Type: "status", ID: u.ID, Name: u.Name, Status: u.Status}
	switch u.Status {
	case viewstate.FileDone:
		m.Label = u.Result.Prediction
		m.Confidence = u.Result.Confidence
	case viewstate.FileError:
		m.Label = detector.LabelError
	}
	return m
}

func (d *Dashboard) send(conn *websocket.Conn, m statusMessage) {
	if err := conn.WriteJSON(m); err != nil {
		log.Printf("dashboard: websocket write: %v", err)
	}
}

func (d *Dashboard) sendError(conn *websocket.Conn, message string) {
	d.send(conn, statusMessage{Type: "error", Content: message})
}
