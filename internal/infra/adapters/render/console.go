// File: internal/infra/adapters/render/console.go
package render

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"sync"

	"spodown-client/internal/domain/model"
	"spodown-client/internal/domain/ports/adapter"
)

var (
	_ adapter.Renderer  = (*Console)(nil)
	_ adapter.Confirmer = (*Console)(nil)
)

// Console is a plain-text rendering layer for terminal use. It is one
// implementation of the render contract; the core never depends on it
// directly.
type Console struct {
	mu  sync.Mutex
	out io.Writer
	in  *bufio.Reader

	lastLine string
}

func NewConsole(out io.Writer, in io.Reader) *Console {
	return &Console{out: out, in: bufio.NewReader(in)}
}

func (c *Console) RenderJob(v model.JobView) {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch v.Phase {
	case model.PhaseIdle:
		c.println("ready")
	case model.PhaseRunning:
		line := fmt.Sprintf("%s %3d%%", bar(v.Percentage), v.Percentage)
		if line != c.lastLine {
			c.lastLine = line
			fmt.Fprintf(c.out, "\r%s", line)
		}
	case model.PhaseComplete:
		fmt.Fprintln(c.out)
		c.println("download complete")
		c.renderResult(v.Result)
	case model.PhaseCancelled:
		fmt.Fprintln(c.out)
		c.println("download cancelled")
	case model.PhaseFailed:
		fmt.Fprintln(c.out)
		c.println("download failed: " + v.FailReason)
	}
}

func (c *Console) renderResult(res *model.ResultView) {
	if res == nil {
		return
	}
	if res.SingleURL != "" {
		c.println("fetch: " + res.SingleURL)
		return
	}
	if res.ArchiveURL != "" {
		c.println("fetch archive: " + res.ArchiveURL)
	}
	for _, item := range res.Items {
		c.println("  " + item.Name + "  " + item.URL)
	}
}

func (c *Console) RenderFeed(v model.FeedView) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, m := range v.Messages {
		who := m.Username
		if m.Self {
			who = "you"
		}
		line := fmt.Sprintf("[%s] %s: %s", m.SentAt.Format("15:04"), who, m.Text)
		if m.Media != nil {
			line += fmt.Sprintf(" (%s: %s)", m.Media.Kind, m.Media.Ref)
		}
		c.println(line)
	}
}

// Viewport reports a zero viewport: a terminal stream has no scrollback the
// renderer controls, so the feed always sticks to the bottom.
func (c *Console) Viewport() model.Viewport { return model.Viewport{} }

// Confirm blocks for a y/N answer; anything but an explicit yes dismisses.
func (c *Console) Confirm(prompt string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintf(c.out, "\n%s [y/N] ", prompt)
	line, err := c.in.ReadString('\n')
	if err != nil {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}

func (c *Console) println(s string) {
	c.lastLine = ""
	fmt.Fprintln(c.out, s)
}

func bar(pct int) string {
	const width = 30
	if pct < 0 {
		pct = 0
	}
	if pct > 100 {
		pct = 100
	}
	filled := pct * width / 100
	return "[" + strings.Repeat("=", filled) + strings.Repeat(" ", width-filled) + "]"
}
