package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/dmitrijs2005/lulu/internal/client/models"
)

// renderer prints transcript turns and notices.
type renderer struct {
	out io.Writer

	user      *color.Color
	assistant *color.Color
	failure   *color.Color
	notice    *color.Color
}

func newRenderer(out io.Writer, useColor bool) *renderer {
	r := &renderer{
		out:       out,
		user:      color.New(color.FgCyan, color.Bold),
		assistant: color.New(color.FgGreen),
		failure:   color.New(color.FgRed),
		notice:    color.New(color.FgYellow),
	}
	// With colour on, escapes are still dropped when stdout is not a terminal.
	if !useColor {
		for _, c := range []*color.Color{r.user, r.assistant, r.failure, r.notice} {
			c.DisableColor()
		}
	}
	return r
}

func (r *renderer) turn(t models.Turn) {
	switch t.Role {
	case models.RoleUser:
		r.labelled(r.user, "you", t.Text)
	case models.RoleAssistant:
		r.labelled(r.assistant, "lulu", t.Text)
	case models.RoleSystemError:
		r.labelled(r.failure, "error", t.Text)
	default:
		r.labelled(r.notice, string(t.Role), t.Text)
	}
}

// labelled prints "label: text", indenting continuation lines under the text.
func (r *renderer) labelled(c *color.Color, label, text string) {
	prefix := label + ": "
	indent := strings.Repeat(" ", len(prefix))
	lines := strings.Split(text, "\n")
	fmt.Fprintln(r.out, c.Sprint(prefix)+lines[0])
	for _, l := range lines[1:] {
		fmt.Fprintln(r.out, indent+l)
	}
}

func (r *renderer) transcript(turns []models.Turn) {
	if len(turns) == 0 {
		r.info("No messages yet.")
		return
	}
	for _, t := range turns {
		r.turn(t)
	}
}

func (r *renderer) info(format string, args ...any) {
	fmt.Fprintln(r.out, r.notice.Sprintf(format, args...))
}

func (r *renderer) errorf(format string, args ...any) {
	fmt.Fprintln(r.out, r.failure.Sprintf(format, args...))
}
