package autofill

import (
	"github.com/jonathan/form-autofill/internal/classify"
)

// FieldPlan is what a fill pass would do to one field.
type FieldPlan struct {
	Name     string            `json:"name"`
	Label    string            `json:"label,omitempty"`
	Category classify.Category `json:"category"`
	Value    string            `json:"value,omitempty"`
}

// Fillable reports whether the field would be written.
func (f FieldPlan) Fillable() bool {
	return f.Category != classify.Unknown && f.Value != ""
}

// FormPlan groups the field plans of one detected form.
type FormPlan struct {
	ID     string      `json:"id"`
	Fields []FieldPlan `json:"fields"`
}

// Plan classifies and resolves every detected field without writing
// anything. Values are empty when no profile is loaded.
func (o *Orchestrator) Plan(page Page, actx *Context) []FormPlan {
	var snap Snapshot
	if actx != nil {
		snap = actx.Snapshot()
	}
	resolver := o.resolver(snap)

	detected := page.Detect()
	out := make([]FormPlan, 0, len(detected))
	for _, form := range detected {
		plan := FormPlan{ID: form.ID(), Fields: make([]FieldPlan, 0, len(form.Fields))}
		for _, field := range form.Fields {
			fp := FieldPlan{
				Name:     field.Name,
				Label:    field.Label,
				Category: classify.Classify(field.Descriptor),
			}
			if snap.Profile != nil && fp.Category != classify.Unknown {
				fp.Value = resolver.Resolve(fp.Category)
			}
			plan.Fields = append(plan.Fields, fp)
		}
		out = append(out, plan)
	}
	return out
}
