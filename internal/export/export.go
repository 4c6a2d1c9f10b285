// Package export writes reflection reports to disk as markdown or HTML.
package export

import (
	"bytes"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"strings"

	"github.com/yuin/goldmark"

	"github.com/sabrisig-create/sadar/internal/reflection"
)

// Format selects the output file type.
type Format string

const (
	FormatMarkdown Format = "markdown"
	FormatHTML     Format = "html"
)

// ParseFormat maps a user-supplied flag value to a Format.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "md", "markdown":
		return FormatMarkdown, nil
	case "html":
		return FormatHTML, nil
	default:
		return "", fmt.Errorf("unknown export format %q", s)
	}
}

// Markdown renders one reflection as a standalone report.
func Markdown(ref *reflection.Reflection) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "# Riflessione SADAR\n\n")
	fmt.Fprintf(&sb, "- **ID**: %s\n", ref.ID)
	fmt.Fprintf(&sb, "- **Data**: %s\n\n", ref.CreatedAt.Local().Format("2006-01-02 15:04"))

	sb.WriteString("## Scena\n\n" + ref.Scene + "\n\n")
	sb.WriteString("## Affetto del terapeuta\n\n" + ref.TherapistAffect + "\n\n")
	sb.WriteString("## Ipotesi iniziale\n\n" + ref.InitialHypothesis + "\n")

	if ref.AIResponse != "" {
		sb.WriteString("\n## Risposta SADAR\n\n" + ref.AIResponse + "\n")
	}

	return sb.String()
}

const htmlShell = `<!DOCTYPE html>
<html lang="it">
<head>
<meta charset="utf-8">
<title>Riflessione SADAR %s</title>
<style>
body { max-width: 42rem; margin: 2rem auto; font-family: Georgia, serif; line-height: 1.6; padding: 0 1rem; }
h1, h2 { font-family: Helvetica, Arial, sans-serif; }
</style>
</head>
<body>
%s</body>
</html>
`

// HTML renders the markdown report through goldmark inside a minimal shell.
func HTML(ref *reflection.Reflection) (string, error) {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(Markdown(ref)), &buf); err != nil {
		return "", fmt.Errorf("render html: %w", err)
	}
	return fmt.Sprintf(htmlShell, template.HTMLEscapeString(ref.ID), buf.String()), nil
}

// Write renders the reflection in the given format into dir and returns the
// written file path. The filename is derived from the reflection id.
func Write(dir string, ref *reflection.Reflection, format Format) (string, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", fmt.Errorf("create export dir: %w", err)
	}

	var (
		content string
		ext     string
		err     error
	)
	switch format {
	case FormatHTML:
		content, err = HTML(ref)
		ext = "html"
	default:
		content = Markdown(ref)
		ext = "md"
	}
	if err != nil {
		return "", err
	}

	name := fmt.Sprintf("riflessione-%s.%s", ref.ID, ext)
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		return "", fmt.Errorf("write export: %w", err)
	}
	return path, nil
}
