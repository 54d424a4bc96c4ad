// Package printers renders conference cards, the deadline timeline and the
// area tree for the terminal.
package printers

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"

	"csconfs/internal/catalog"
	"csconfs/internal/pipeline"
	"csconfs/internal/selection"
	"csconfs/internal/timeline"
)

// PrettyPrint writes human readable output to Out.
type PrettyPrint struct {
	Out io.Writer
	// Width is the number of columns of the timeline track.
	Width int
}

// New returns a PrettyPrint writing to color.Output.
func New() *PrettyPrint {
	return &PrettyPrint{Out: color.Output, Width: 60}
}

var (
	bold    = color.New(color.Bold)
	title   = color.New(color.Bold, color.Underline)
	faint   = color.New(color.Faint)
	green   = color.New(color.FgGreen)
	yellow  = color.New(color.FgYellow)
	palette = []*color.Color{
		color.New(color.FgBlue), color.New(color.FgHiYellow), color.New(color.FgGreen),
		color.New(color.FgRed), color.New(color.FgMagenta), color.New(color.FgHiRed),
		color.New(color.FgHiMagenta), color.New(color.FgWhite), color.New(color.FgHiGreen),
		color.New(color.FgCyan),
	}
)

// Title prints a bold underlined heading with a count.
func (pp *PrettyPrint) Title(text string, count int) {
	_, _ = title.Fprint(pp.Out, text)
	noun := "conferences"
	if count == 1 {
		noun = "conference"
	}
	_, _ = faint.Fprintf(pp.Out, " - %d %s\n", count, noun)
}

// Cards prints one row per card.
func (pp *PrettyPrint) Cards(cards []pipeline.Card) {
	if len(cards) == 0 {
		_, _ = color.New(color.Faint, color.Italic).Fprint(pp.Out, " none\n\n")
		return
	}

	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.MaxColWidth = 40
	tbl.AddRow(bold.Sprint("Conference"), bold.Sprint("Deadline"), bold.Sprint("Countdown"),
		bold.Sprint("Notification"), bold.Sprint("Date"), bold.Sprint("Place"), bold.Sprint("Acceptance"))
	for _, c := range cards {
		place := c.Place
		if place == "" {
			place = "TBD"
		}
		tbl.AddRow(c.Label, c.DisplayDeadline, statusColor(c.Status).Sprint(c.Countdown),
			c.DisplayNotification, c.DisplayDate, place, c.AcceptanceRate)
	}
	_, _ = fmt.Fprintln(pp.Out, tbl)
}

func statusColor(status string) *color.Color {
	switch status {
	case "upcoming":
		return green
	case "tbd":
		return yellow
	default:
		return faint
	}
}

// Timeline prints the chart as horizontal bars scaled to pp.Width columns.
// Synthesized notification spans are drawn with '~'.
func (pp *PrettyPrint) Timeline(chart timeline.Chart) {
	width := pp.Width
	if width <= 0 {
		width = 60
	}
	if len(chart.Bars) == 0 {
		_, _ = color.New(color.Faint, color.Italic).Fprint(pp.Out, " no upcoming deadlines\n\n")
		return
	}
	span := chart.Domain[1] - chart.Domain[0]
	if span <= 0 {
		span = 1
	}
	col := func(day int) int { return day * width / span }

	tbl := uitable.New()
	tbl.Separator = " "
	start := chart.Date(chart.Domain[0]).Format("2006-01-02")
	end := chart.Date(chart.Domain[1]).Format("2006-01-02")
	tbl.AddRow("", faint.Sprint(start+strings.Repeat(" ", max(1, width-len(start)-len(end)))+end))
	for i, b := range chart.Bars {
		from, to := col(b.NormStart), col(b.NormStart+b.Length)
		if to <= from {
			to = from + 1
		}
		fill := "="
		if b.IsSynthesized {
			fill = "~"
		}
		track := strings.Repeat(" ", from) + "|" + strings.Repeat(fill, max(0, to-from-1))
		c := palette[i%len(palette)]
		tbl.AddRow(b.Label, c.Sprint(track)+faint.Sprintf(" %dd", b.DaysToDeadline))
	}
	_, _ = fmt.Fprintln(pp.Out, tbl)
}

// Tree prints the area tree with a tri-state box per node.
func (pp *PrettyPrint) Tree(t catalog.Tree) {
	_, _ = fmt.Fprintf(pp.Out, "%s %s\n", box(t.State), title.Sprint(string(t.Dataset)))
	for _, p := range t.Parents {
		c := palette[p.Colour%len(palette)]
		_, _ = fmt.Fprintf(pp.Out, "  %s %s\n", box(p.State), c.Sprint(p.Name))
		for _, a := range p.Areas {
			_, _ = fmt.Fprintf(pp.Out, "    %s %s\n", box(a.State), a.AreaTitle)
			for _, leaf := range a.Conferences {
				st := selection.None
				if leaf.Selected {
					st = selection.All
				}
				_, _ = fmt.Fprintf(pp.Out, "      %s %s\n", box(st), leaf.Name)
			}
		}
	}
}

func box(st selection.TriState) string {
	switch st {
	case selection.All:
		return "[x]"
	case selection.Some:
		return "[-]"
	default:
		return "[ ]"
	}
}

// JSON writes v as indented JSON.
func JSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
