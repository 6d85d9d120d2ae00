// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/form-autofill/internal/autofill"
	"github.com/jonathan/form-autofill/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, truncate(line, boxWidth-4))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// truncate shortens s to n runes, marking the cut with "...".
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

// PrintSnapshot outputs the profile and résumé a fill pass would use.
func (p *Printer) PrintSnapshot(snap autofill.Snapshot) {
	var sb strings.Builder

	if snap.Profile == nil {
		sb.WriteString("Profile:  not loaded\n")
	} else {
		sb.WriteString(fmt.Sprintf("Name:     %s\n", snap.Profile.Name))
		sb.WriteString(fmt.Sprintf("Email:    %s\n", snap.Profile.Email))
		if snap.Profile.Phone != "" {
			sb.WriteString(fmt.Sprintf("Phone:    %s\n", snap.Profile.Phone))
		}
	}

	if snap.Resume == nil {
		sb.WriteString("Resume:   not loaded")
		p.printBox("LOADED PROFILE", sb.String())
		return
	}

	resume := snap.Resume
	if resume.PersonalInfo.Location != "" {
		sb.WriteString(fmt.Sprintf("Location: %s\n", resume.PersonalInfo.Location))
	}
	sb.WriteString("\n")

	if len(resume.Experience) > 0 {
		sb.WriteString(fmt.Sprintf("Experience (%d):\n", len(resume.Experience)))
		p.writeList(&sb, len(resume.Experience), func(i int) string {
			e := resume.Experience[i]
			return fmt.Sprintf("%s at %s", e.Position, e.Company)
		})
	}
	if len(resume.Education) > 0 {
		sb.WriteString(fmt.Sprintf("Education (%d):\n", len(resume.Education)))
		p.writeList(&sb, len(resume.Education), func(i int) string {
			e := resume.Education[i]
			if e.Degree == "" {
				return e.Institution
			}
			return fmt.Sprintf("%s, %s", e.Degree, e.Institution)
		})
	}
	if len(resume.Skills) > 0 {
		sb.WriteString(fmt.Sprintf("Skills:   %s", strings.Join(resume.Skills[:min(len(resume.Skills), maxItemsToShow)], ", ")))
		if len(resume.Skills) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf(" (+%d)", len(resume.Skills)-maxItemsToShow))
		}
		sb.WriteString("\n")
	}

	p.printBox("LOADED PROFILE", strings.TrimSuffix(sb.String(), "\n"))
}

// writeList writes up to maxItemsToShow bullet lines.
func (p *Printer) writeList(sb *strings.Builder, n int, line func(i int) string) {
	count := min(n, maxItemsToShow)
	for i := 0; i < count; i++ {
		sb.WriteString(fmt.Sprintf("  • %s\n", line(i)))
	}
	if n > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("  ... and %d more\n", n-maxItemsToShow))
	}
}

// PrintPlans outputs each detected form with the category and value of its
// fields. Fields left for the human are marked with "-".
func (p *Printer) PrintPlans(plans []autofill.FormPlan) {
	if len(plans) == 0 {
		p.printBox("DETECTED FORMS", "No job application forms detected")
		return
	}

	var sb strings.Builder
	for i, plan := range plans {
		fillable := 0
		for _, f := range plan.Fields {
			if f.Fillable() {
				fillable++
			}
		}
		sb.WriteString(fmt.Sprintf("#%d  %s  (%d/%d fillable)\n", i+1, plan.ID, fillable, len(plan.Fields)))
		for _, f := range plan.Fields {
			mark := "-"
			if f.Fillable() {
				mark = "✓"
			}
			name := f.Name
			if name == "" {
				name = f.Label
			}
			line := fmt.Sprintf("  %s %-16s %s", mark, truncate(name, 16), f.Category)
			if f.Value != "" {
				line += " = " + strings.ReplaceAll(f.Value, "\n", " ")
			}
			sb.WriteString(line + "\n")
		}
		if i < len(plans)-1 {
			sb.WriteString("\n")
		}
	}

	p.printBox("DETECTED FORMS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintFillResult outputs the outcome of a fill pass.
func (p *Printer) PrintFillResult(result types.FillResult) {
	status := "FAILED"
	if result.Success {
		status = "OK"
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Status:   %s\n", status))
	sb.WriteString(fmt.Sprintf("Filled:   %d field(s)\n", result.FilledCount))
	sb.WriteString(fmt.Sprintf("Message:  %s", result.Message))

	p.printBox("FILL RESULT", sb.String())
}
