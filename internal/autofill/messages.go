package autofill

import (
	"fmt"

	"github.com/jonathan/form-autofill/internal/types"
)

// Actions understood by Handle.
const (
	ActionAutoFillPage = "autoFillPage"
	ActionDetectForms  = "detectForms"
)

// Message is a request from the extension host.
type Message struct {
	Action string `json:"action"`
}

// Response is the reply to a Message.
type Response struct {
	Success     bool                `json:"success"`
	Message     string              `json:"message,omitempty"`
	FilledCount int                 `json:"filledCount,omitempty"`
	Forms       []types.FormSummary `json:"forms,omitzero"`
}

// Handle dispatches a message against page.
func (o *Orchestrator) Handle(msg Message, page Page, actx *Context) Response {
	switch msg.Action {
	case ActionAutoFillPage:
		res := o.AutoFill(page, actx)
		return Response{Success: res.Success, Message: res.Message, FilledCount: res.FilledCount}
	case ActionDetectForms:
		return Response{Success: true, Forms: o.DetectForms(page)}
	default:
		return Response{Success: false, Message: fmt.Sprintf("Unknown action: %s", msg.Action)}
	}
}
