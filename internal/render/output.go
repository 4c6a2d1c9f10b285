// Package render provides terminal output formatting for reflections.
package render

import (
	"fmt"
	"strings"
	"time"

	"github.com/fatih/color"

	"github.com/sabrisig-create/sadar/internal/reflection"
	strutil "github.com/sabrisig-create/sadar/internal/strings"
)

// Renderer handles output formatting.
type Renderer struct {
	pretty bool
}

// New creates a new renderer. Pretty output carries color and rules; plain
// output is stable for piping.
func New(pretty bool) *Renderer {
	return &Renderer{pretty: pretty}
}

// Reflections formats the history list, newest first.
func (r *Renderer) Reflections(refs []*reflection.Reflection) string {
	if len(refs) == 0 {
		return "Nessuna riflessione salvata"
	}

	var sb strings.Builder

	if r.pretty {
		sb.WriteString(color.CyanString("Riflessioni\n"))
		sb.WriteString(strings.Repeat("─", 60) + "\n")
	}

	for _, ref := range refs {
		r.formatListEntry(&sb, ref)
	}

	return sb.String()
}

func (r *Renderer) formatListEntry(sb *strings.Builder, ref *reflection.Reflection) {
	timeStr := ref.CreatedAt.Local().Format("2006-01-02 15:04")
	scene := strutil.TruncateRunes(strutil.FirstLine(ref.Scene), 48)

	if r.pretty {
		fmt.Fprintf(sb, "%s %s %s  %s\n",
			color.GreenString("●"),
			color.HiBlackString(timeStr),
			color.YellowString(ref.ID),
			scene)
	} else {
		fmt.Fprintf(sb, "[%s] %s %s\n", timeStr, ref.ID, scene)
	}
}

// Reflection formats one full reflection report: the three inputs followed
// by the generated 3-2-1 response.
func (r *Renderer) Reflection(ref *reflection.Reflection) string {
	var sb strings.Builder

	timeStr := ref.CreatedAt.Local().Format("2006-01-02 15:04")

	if r.pretty {
		sb.WriteString(color.CyanString("Riflessione SADAR\n"))
		sb.WriteString(strings.Repeat("─", 60) + "\n")
		fmt.Fprintf(&sb, "  ID:    %s\n", color.YellowString(ref.ID))
		fmt.Fprintf(&sb, "  Data:  %s\n\n", timeStr)
	} else {
		fmt.Fprintf(&sb, "id=%s date=%s\n\n", ref.ID, timeStr)
	}

	r.section(&sb, "Scena", ref.Scene)
	r.section(&sb, "Affetto del terapeuta", ref.TherapistAffect)
	r.section(&sb, "Ipotesi iniziale", ref.InitialHypothesis)

	if ref.AIResponse != "" {
		if r.pretty {
			sb.WriteString(color.CyanString("Risposta SADAR\n"))
			sb.WriteString(strings.Repeat("─", 60) + "\n")
		} else {
			sb.WriteString("Risposta SADAR\n")
		}
		sb.WriteString(strutil.WordWrap(ref.AIResponse, 76) + "\n")
	}

	return sb.String()
}

func (r *Renderer) section(sb *strings.Builder, title, body string) {
	if r.pretty {
		sb.WriteString(color.CyanString(title) + "\n")
	} else {
		sb.WriteString(title + "\n")
	}
	sb.WriteString(strutil.WordWrap(body, 76) + "\n\n")
}

// FormatAge renders how long ago a reflection was written.
func FormatAge(t time.Time, now time.Time) string {
	d := now.Sub(t)
	switch {
	case d < time.Minute:
		return "adesso"
	case d < time.Hour:
		return fmt.Sprintf("%dm fa", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh fa", int(d.Hours()))
	default:
		return fmt.Sprintf("%dg fa", int(d.Hours()/24))
	}
}
