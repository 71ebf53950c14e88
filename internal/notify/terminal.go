package notify

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"

	"github.com/manav03panchal/taskflow/internal/model"
	"github.com/manav03panchal/taskflow/internal/storage"
)

var bannerStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(lipgloss.Color("#3B82F6")).
	Padding(0, 1)

var bannerTitleStyle = lipgloss.NewStyle().Bold(true)

// Terminal rings the bell and prints a banner on an interactive terminal.
type Terminal struct {
	in    io.Reader
	out   io.Writer
	tty   bool
	perms permissionStore

	readMu  sync.Mutex
	pending chan string // in-flight read of in, shared by prompts
}

// NewTerminal creates a terminal platform writing to out and prompting on in.
// Support is detected from out; kv persists the grant and may be nil.
func NewTerminal(in io.Reader, out io.Writer, kv storage.KV) *Terminal {
	return &Terminal{
		in:    in,
		out:   out,
		tty:   isTerminal(out),
		perms: permissionStore{kv: kv, key: model.KeyNotificationPermission},
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// SetInteractive overrides TTY detection.
func (t *Terminal) SetInteractive(tty bool) {
	t.tty = tty
}

// Name implements Platform.
func (t *Terminal) Name() string {
	return "terminal"
}

// Supported implements Platform.
func (t *Terminal) Supported() bool {
	return t.tty
}

// Permission implements Platform.
func (t *Terminal) Permission() Permission {
	if !t.Supported() {
		return PermissionDenied
	}
	return t.perms.load()
}

// RequestPermission asks on the terminal and persists the answer.
func (t *Terminal) RequestPermission(ctx context.Context) (Permission, error) {
	if !t.Supported() {
		return PermissionDenied, nil
	}

	fmt.Fprint(t.out, "Allow TaskFlow to ring the terminal for reminders? [y/N]: ")

	var line string
	select {
	case <-ctx.Done():
		return t.Permission(), ctx.Err()
	case line = <-t.readLine():
		t.readMu.Lock()
		t.pending = nil
		t.readMu.Unlock()
	}
	line = strings.ToLower(strings.TrimSpace(line))

	perm := PermissionDenied
	if line == "y" || line == "yes" {
		perm = PermissionGranted
	}
	return perm, t.perms.save(perm)
}

// readLine returns the channel of the in-flight read, starting one if none
// is pending. A read abandoned by a cancelled prompt stays blocked on in
// until a line arrives, and that line answers the next prompt.
func (t *Terminal) readLine() <-chan string {
	t.readMu.Lock()
	defer t.readMu.Unlock()
	if t.pending == nil {
		ch := make(chan string, 1)
		t.pending = ch
		go func() { ch <- readLine(t.in) }()
	}
	return t.pending
}

// readLine reads a byte at a time so nothing after the newline is taken
// from in. The rest of stdin belongs to whoever reads it next.
func readLine(in io.Reader) string {
	var sb strings.Builder
	b := make([]byte, 1)
	for {
		n, err := in.Read(b)
		if n > 0 {
			if b[0] == '\n' {
				break
			}
			sb.WriteByte(b[0])
		}
		if err != nil {
			break
		}
	}
	return sb.String()
}

// Show rings the bell and prints a banner.
func (t *Terminal) Show(ctx context.Context, title, body string) error {
	if !t.Supported() {
		return nil
	}
	banner := bannerStyle.Render(bannerTitleStyle.Render(title) + "\n" + body)
	_, err := fmt.Fprintf(t.out, "\a%s\n", banner)
	return err
}
