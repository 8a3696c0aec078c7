// Package render formats resolved session entries for the terminal.
package render

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/dustin/go-humanize"
	"github.com/muesli/termenv"

	"github.com/entrhq/fur/pkg/graph"
	"github.com/entrhq/fur/pkg/session"
)

// Options controls formatting.
type Options struct {
	// PreviewWidth caps one-line previews, in cells.
	PreviewWidth int
	// TimeFormat is a Go layout for absolute timestamps.
	TimeFormat string
	// Relative shows "3 hours ago" instead of absolute times.
	Relative bool
	// Color enables ANSI styling.
	Color bool
	// Now is the reference for relative times; time.Now when nil.
	Now func() time.Time
}

// DefaultOptions returns the options used when nothing is configured.
func DefaultOptions() Options {
	return Options{PreviewWidth: 60, TimeFormat: "2006-01-02 15:04", Color: true}
}

// Renderer writes views to one output.
type Renderer struct {
	out   io.Writer
	opts  Options
	style styles
}

// New returns a Renderer writing to out.
func New(out io.Writer, opts Options) *Renderer {
	if opts.PreviewWidth <= 0 {
		opts.PreviewWidth = DefaultOptions().PreviewWidth
	}
	if opts.TimeFormat == "" {
		opts.TimeFormat = DefaultOptions().TimeFormat
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	lr := lipgloss.NewRenderer(out)
	if !opts.Color {
		lr.SetColorProfile(termenv.Ascii)
	}
	return &Renderer{out: out, opts: opts, style: newStyles(lr)}
}

func (r *Renderer) printf(format string, args ...any) {
	fmt.Fprintf(r.out, format, args...)
}

func (r *Renderer) rule() {
	r.printf("%s\n", r.style.rule.Render(strings.Repeat("─", 29)))
}

// Time formats a timestamp per the options.
func (r *Renderer) Time(t time.Time) string {
	if r.opts.Relative {
		return humanize.RelTime(t, r.opts.Now(), "ago", "from now")
	}
	return t.Local().Format(r.opts.TimeFormat)
}

// Preview is a one-line summary of a body, capped at the preview width.
func (r *Renderer) Preview(b graph.Body) string {
	var s string
	switch b.Kind {
	case graph.BodyText:
		s, _, _ = strings.Cut(b.Value, "\n")
	case graph.BodyMarkdown:
		if sum, ok := summarizeFile(b.Value); ok {
			s = "📄 " + sum
		} else {
			s = "📄 " + b.Value
		}
	case graph.BodyAttachment:
		s = "📎 " + b.Value
	default:
		s = "<no content>"
	}
	return ansi.Truncate(strings.TrimSpace(s), r.opts.PreviewWidth, "…")
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// Status prints the active thread, the cursor lineage and what may follow.
func (r *Renderer) Status(st session.Status) {
	r.printf("%s\n", r.style.header.Render("Current fur status"))
	r.rule()
	r.printf("Active thread: %s (%s)\n", st.Thread.Title, shortID(st.Thread.ID))
	cur := "(none)"
	if n := len(st.Lineage); n > 0 {
		cur = shortID(st.Lineage[n-1].ID)
	}
	r.printf("Current message: %s\n", cur)
	r.rule()

	for _, e := range st.Lineage {
		marker := r.style.muted.Render("·")
		if e.Current {
			marker = r.style.current.Render("← current")
		}
		r.printf("%s %s %s %s %s\n", e.Emoji, r.style.name.Render(e.Name), r.Preview(e.Body), r.style.muted.Render(shortID(e.ID)), marker)
	}
	if len(st.Lineage) > 0 {
		r.rule()
	}

	if len(st.Next) == 0 {
		r.printf("%s\n", r.style.muted.Render("End of branch."))
		return
	}
	r.printf("Next:\n")
	for i, e := range st.Next {
		r.printf("  %d. %s %s %s %s\n", i+1, e.Emoji, r.style.name.Render(e.Name), r.Preview(e.Body), r.style.muted.Render(shortID(e.ID)))
	}
}

// Tree prints entries indented by depth, marking the cursor.
func (r *Renderer) Tree(entries []session.Entry) {
	if len(entries) == 0 {
		r.printf("%s\n", r.style.muted.Render("Thread is empty."))
		return
	}
	for _, e := range entries {
		marker := " "
		if e.Current {
			marker = r.style.current.Render("*")
		}
		indent := strings.Repeat("  > ", e.Depth)
		r.printf("%s%s %s %s %q %s\n", indent, marker, e.Emoji, r.style.name.Render(e.Name), r.Preview(e.Body), r.style.muted.Render(shortID(e.ID)))
	}
}

// Timeline prints every entry flat with its timestamp and branch label.
// In verbose mode linked markdown files are printed in full.
func (r *Renderer) Timeline(t *graph.Thread, entries []session.Entry, verbose bool) {
	if len(entries) == 0 {
		r.printf("%s\n", r.style.muted.Render("Thread is empty."))
		return
	}
	r.printf("%s\n\n", r.style.header.Render(fmt.Sprintf("Thread: %q", t.Title)))
	for _, e := range entries {
		r.printf("%s [%s] %s %s:\n", r.style.muted.Render(r.Time(e.Timestamp)), r.style.label.Render(e.Label), e.Emoji, r.style.name.Render(e.Name))
		r.body(e, verbose)
		r.printf("\n")
	}
}

func (r *Renderer) body(e session.Entry, verbose bool) {
	switch e.Body.Kind {
	case graph.BodyText:
		r.printf("%s\n", e.Body.Value)
	case graph.BodyMarkdown:
		if !verbose {
			r.printf("Linked markdown file: %s\n", e.Body.Value)
			return
		}
		content, err := session.Content(e)
		if err != nil {
			r.printf("%s\n", r.style.warning.Render(fmt.Sprintf("Could not read linked markdown file at: %s", e.Body.Value)))
			return
		}
		r.printf("Linked markdown content (%s):\n%s\n", e.Body.Value, r.markdown(content))
	case graph.BodyAttachment:
		r.printf("Attachment: %s\n", e.Body.Value)
	default:
		r.printf("%s\n", r.style.muted.Render("No comment"))
	}
}

func (r *Renderer) markdown(src string) string {
	if !r.opts.Color {
		return src
	}
	return highlight(src)
}

// Message prints one entry in full, reading linked markdown content.
func (r *Renderer) Message(e session.Entry) error {
	r.printf("%s %s %s\n", e.Emoji, r.style.name.Render(e.Name), r.style.muted.Render(e.ID))
	content, err := session.Content(e)
	if err != nil {
		return err
	}
	if e.Body.Kind == graph.BodyMarkdown {
		r.printf("Contents of %s\n%s\n", e.Body.Value, r.markdown(content))
		return nil
	}
	r.printf("%s\n", content)
	return nil
}

// ThreadRow is one line of the thread list.
type ThreadRow struct {
	Thread *graph.Thread
	Active bool
}

// Threads prints the thread list, marking the active one.
func (r *Renderer) Threads(rows []ThreadRow) {
	if len(rows) == 0 {
		r.printf("%s\n", r.style.muted.Render("No threads yet."))
		return
	}
	for _, row := range rows {
		marker := " "
		title := row.Thread.Title
		if row.Active {
			marker = r.style.current.Render("*")
			title = r.style.current.Render(title)
		}
		tags := ""
		if len(row.Thread.Tags) > 0 {
			tags = " " + r.style.label.Render("#"+strings.Join(row.Thread.Tags, " #"))
		}
		r.printf("%s %s %s%s %s\n", marker, r.style.muted.Render(shortID(row.Thread.ID)), title, tags, r.style.muted.Render("("+r.Time(row.Thread.CreatedAt)+")"))
	}
}

// AvatarRow is one registered avatar.
type AvatarRow struct {
	Name  string
	Emoji string
	Main  bool
}

// Avatars prints the avatar registry.
func (r *Renderer) Avatars(rows []AvatarRow) {
	if len(rows) == 0 {
		r.printf("%s\n", r.style.muted.Render("No avatars registered."))
		return
	}
	for _, a := range rows {
		suffix := ""
		if a.Main {
			suffix = " " + r.style.current.Render("(main)")
		}
		r.printf("%s %s%s\n", a.Emoji, r.style.name.Render(a.Name), suffix)
	}
}

// Warning prints a recoverable problem.
func (r *Renderer) Warning(msg string) {
	r.printf("%s\n", r.style.warning.Render("warning: "+msg))
}
