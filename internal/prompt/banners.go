package prompt

import (
	"fmt"
	"io"
	"sync"

	"github.com/HeerHirpara/healcard-dashboard/internal/alerts"
)

// BannerNotifier prints notifications like Terminal and additionally
// posts each one to a Board, so it lives through the dashboard's banner
// lifecycle: shown, faded, removed. Confirm passes through unchanged.
type BannerNotifier struct {
	*Terminal
	board *alerts.Board

	mu  sync.Mutex
	seq int
}

// NewBannerNotifier wraps a terminal prompter with banner rendering.
func NewBannerNotifier(term *Terminal, board *alerts.Board) *BannerNotifier {
	return &BannerNotifier{Terminal: term, board: board}
}

// Notify shows the message and arms its dismiss timers. CLI notices are
// posted as success banners; danger banners belong to the server-rendered
// page.
func (n *BannerNotifier) Notify(text string) {
	n.Terminal.Notify(text)

	n.mu.Lock()
	n.seq++
	id := fmt.Sprintf("notice-%d", n.seq)
	n.mu.Unlock()

	n.board.Attach([]alerts.Banner{{ID: id, Severity: alerts.SeveritySuccess, Text: text}})
}

// LineSurface renders banner removal on a terminal by erasing the most
// recent notice line. The faded state has no terminal rendering.
type LineSurface struct {
	mu  sync.Mutex
	out io.Writer
}

// NewLineSurface creates a surface writing to out.
func NewLineSurface(out io.Writer) *LineSurface {
	return &LineSurface{out: out}
}

func (s *LineSurface) Fade(string) {}

func (s *LineSurface) Remove(string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	// Cursor up one line, clear it, return to column zero.
	fmt.Fprint(s.out, "\x1b[1A\x1b[2K\r")
}
