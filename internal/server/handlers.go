package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/jonathan/form-autofill/internal/autofill"
	"github.com/jonathan/form-autofill/internal/fetch"
	"github.com/jonathan/form-autofill/internal/forms"
	"github.com/jonathan/form-autofill/internal/server/middleware"
	"go.uber.org/zap"
)

// maxRequestBytes caps the size of a posted page.
const maxRequestBytes = fetch.MaxBodyBytes

var validate = validator.New()

// MessageRequest is an action plus the page it applies to. The page is given
// inline as HTML or by URL; HTML wins when both are set.
type MessageRequest struct {
	Action string `json:"action" validate:"required"`
	HTML   string `json:"html,omitempty"`
	URL    string `json:"url,omitempty" validate:"omitempty,url"`
}

// MessageResponse is the action's response plus, for fills, the page after
// the fill pass.
type MessageResponse struct {
	autofill.Response
	HTML string `json:"html,omitempty"`
}

// handleMessage handles POST /messages
func (s *Server) handleMessage(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBytes)

	var req MessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, extractValidationErrors(err))
		return
	}

	log := s.logger.With(zap.String("action", req.Action))
	if userID, err := middleware.GetUserID(r); err == nil {
		log = log.With(zap.String("user_id", userID.String()))
	}

	msg := autofill.Message{Action: req.Action}
	if req.Action != autofill.ActionAutoFillPage && req.Action != autofill.ActionDetectForms {
		s.jsonResponse(w, http.StatusOK, MessageResponse{Response: s.orchestrator.Handle(msg, nil, s.actx)})
		return
	}

	page, err := s.loadPage(r, req)
	if err != nil {
		log.Warn("failed to load page", zap.Error(err))
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	resp := MessageResponse{Response: s.orchestrator.Handle(msg, page, s.actx)}
	if req.Action == autofill.ActionAutoFillPage && resp.Success {
		html, err := page.HTML()
		if err != nil {
			log.Error("failed to render filled page", zap.Error(err))
			s.errorResponse(w, http.StatusInternalServerError, "failed to render filled page")
			return
		}
		resp.HTML = html
	}

	log.Info("message handled",
		zap.Bool("success", resp.Success),
		zap.Int("filled", resp.FilledCount))
	s.jsonResponse(w, http.StatusOK, resp)
}

// loadPage parses the request's inline HTML, or fetches its URL.
func (s *Server) loadPage(r *http.Request, req MessageRequest) (*forms.Page, error) {
	html := req.HTML
	if html == "" {
		if req.URL == "" {
			return nil, &ErrValidation{Field: "html", Message: "html or url is required"}
		}
		result, err := fetch.URL(r.Context(), req.URL, s.fetchOpts)
		if err != nil {
			return nil, err
		}
		html = result.HTML
	}
	return forms.ParseString(html)
}

func extractValidationErrors(err error) string {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) && len(validationErrors) > 0 {
		ve := validationErrors[0]
		return fmt.Sprintf("validation error: %s - %s", ve.Field(), ve.Tag())
	}
	return "validation error: invalid request"
}
