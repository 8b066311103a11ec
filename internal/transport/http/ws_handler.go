package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"ai-readiness-service/internal/app"
	"ai-readiness-service/internal/catalog"
	"ai-readiness-service/internal/domain"
	"ai-readiness-service/internal/validate"

	"github.com/gorilla/websocket"
)

// WSHandler is the presentation-layer contract: it raises the three mutation
// events (setField, toggleChoice, submit) into the core and streams state and
// progress back to the client.
type WSHandler struct {
	service  *app.FormService
	upgrader websocket.Upgrader
}

func NewWSHandler(service *app.FormService) *WSHandler {
	return &WSHandler{
		service: service,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type setFieldPayload struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

type toggleChoicePayload struct {
	Key      string `json:"key"`
	Choice   string `json:"choice"`
	Included bool   `json:"included"`
}

type formPayload struct {
	Catalog   domain.Catalog        `json:"catalog"`
	Countries []catalog.Country     `json:"countries"`
	State     domain.FormState      `json:"state"`
	Progress  domain.ProgressUpdate `json:"progress"`
}

type submitResultPayload struct {
	Outcome string `json:"outcome"`
	Message string `json:"message"`
	// Document carries the rendered responses PDF (base64 over the wire) so
	// the client can offer the download immediately; the session state is
	// already reset by the time this message arrives.
	Document []byte `json:"document,omitempty"`
	Filename string `json:"filename,omitempty"`
}

type validationErrorPayload struct {
	Message string          `json:"message"`
	Fields  map[string]bool `json:"fields,omitempty"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type errorPayload struct {
	Message string `json:"message"`
}

// User-facing validation messages; per-field flags travel alongside the
// presence message so the client can highlight inputs.
const (
	msgMissingFields = "Please answer every question and fill in your contact details."
	msgInvalidPhone  = "Please enter a valid phone number in international format, e.g., +254... or +1..."
)

// ServeWS upgrades HTTP requests to websockets and wires them into the form
// use cases.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	formID := r.URL.Query().Get("formId")
	sessionID := r.URL.Query().Get("sessionId")
	if formID == "" || sessionID == "" {
		http.Error(w, "missing formId or sessionId", http.StatusBadRequest)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	cat, state, progress, err := h.service.Open(r.Context(), formID, sessionID)
	if err != nil {
		_ = conn.WriteJSON(outboundMessage[errorPayload]{Type: "error", Payload: errorPayload{Message: err.Error()}})
		return
	}

	updates, cancel, err := h.service.SubscribeProgress(r.Context(), formID, sessionID)
	if err != nil {
		_ = conn.WriteJSON(outboundMessage[errorPayload]{Type: "error", Payload: errorPayload{Message: err.Error()}})
		return
	}
	// Release must observe the unsubscribed session, so it is registered
	// before cancel and runs after it.
	defer h.service.Release(r.Context(), sessionID)
	defer cancel()

	send := make(chan outboundMessage[any], 16)
	closeSignals := make(chan struct{})
	writerDone := make(chan struct{})
	updatesDone := make(chan struct{})

	go func() {
		defer close(writerDone)
		for msg := range send {
			if err := conn.WriteJSON(msg); err != nil {
				log.Printf("ws write error: %v", err)
				return
			}
		}
	}()

	send <- outboundMessage[any]{Type: "form", Payload: formPayload{
		Catalog:   cat,
		Countries: catalog.Countries(),
		State:     state,
		Progress:  progress,
	}}

	// Started after the form snapshot is queued so the client always sees the
	// form before the first progress update.
	go func() {
		defer close(updatesDone)
		for {
			select {
			case update, ok := <-updates:
				if !ok {
					return
				}
				select {
				case send <- outboundMessage[any]{Type: "progress", Payload: update}:
				case <-closeSignals:
					return
				}
			case <-closeSignals:
				return
			}
		}
	}()

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}
		switch inbound.Type {
		case "setField":
			var payload setFieldPayload
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
				send <- outboundMessage[any]{Type: "error", Payload: errorPayload{Message: "invalid setField payload"}}
				continue
			}
			if _, err := h.service.SetField(r.Context(), formID, sessionID, payload.Key, payload.Value); err != nil {
				send <- outboundMessage[any]{Type: "error", Payload: errorPayload{Message: err.Error()}}
			}
		case "toggleChoice":
			var payload toggleChoicePayload
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
				send <- outboundMessage[any]{Type: "error", Payload: errorPayload{Message: "invalid toggleChoice payload"}}
				continue
			}
			if _, err := h.service.ToggleChoice(r.Context(), formID, sessionID, payload.Key, payload.Choice, payload.Included); err != nil {
				send <- outboundMessage[any]{Type: "error", Payload: errorPayload{Message: err.Error()}}
			}
		case "submit":
			receipt, err := h.service.Submit(r.Context(), formID, sessionID)
			if err != nil {
				send <- submitErrorMessage(err)
				continue
			}
			send <- outboundMessage[any]{Type: "submitResult", Payload: submitResultPayload{
				Outcome:  receipt.Outcome.String(),
				Message:  receipt.Message,
				Document: receipt.Document,
				Filename: receipt.Filename,
			}}
		default:
			send <- outboundMessage[any]{Type: "error", Payload: errorPayload{Message: "unsupported message type"}}
		}
	}

	close(closeSignals)
	<-updatesDone
	close(send)
	<-writerDone
}

func submitErrorMessage(err error) outboundMessage[any] {
	var fieldErr *validate.FieldError
	if errors.As(err, &fieldErr) {
		return outboundMessage[any]{Type: "validationError", Payload: validationErrorPayload{
			Message: msgMissingFields,
			Fields:  fieldErr.Fields,
		}}
	}
	var phoneErr *validate.PhoneError
	if errors.As(err, &phoneErr) {
		return outboundMessage[any]{Type: "validationError", Payload: validationErrorPayload{
			Message: msgInvalidPhone,
		}}
	}
	if errors.Is(err, domain.ErrSubmissionInFlight) {
		return outboundMessage[any]{Type: "error", Payload: errorPayload{Message: "a submission is already in progress"}}
	}
	return outboundMessage[any]{Type: "error", Payload: errorPayload{Message: err.Error()}}
}
