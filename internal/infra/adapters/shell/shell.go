// File: internal/infra/adapters/shell/shell.go
package shell

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"localservices-frontend/internal/application"
	"localservices-frontend/internal/domain/ports/adapter"
	"localservices-frontend/internal/infra/i18n"
	"localservices-frontend/internal/infra/logging"

	"github.com/rs/zerolog"
)

var (
	_ adapter.Navigator = (*Shell)(nil)
	_ adapter.Notifier  = (*Shell)(nil)
	_ adapter.Confirmer = (*Shell)(nil)
)

// maxHops bounds redirects followed after one command (login guard, etc).
const maxHops = 5

// Shell is a line-oriented terminal front end. It is the navigator, notifier
// and confirmer of the frontend it drives: pushed routes are queued and
// rendered once the running command returns.
type Shell struct {
	out   io.Writer
	lines chan string
	log   *zerolog.Logger
	t     *i18n.Translator

	// done is closed when Run returns; the reader stops at its next line.
	done       chan struct{}
	stopOnce   sync.Once
	readerDone chan struct{} // closed when the reader goroutine exits

	front *application.Frontend

	mu      sync.Mutex
	pending []string
	current string
}

// New starts reading lines from in. Call Attach before Run.
func New(in io.Reader, out io.Writer, logger *zerolog.Logger) *Shell {
	if logger == nil {
		logger = logging.Nop()
	}
	s := &Shell{
		out:        out,
		lines:      make(chan string),
		log:        logger,
		t:          i18n.Default(),
		done:       make(chan struct{}),
		readerDone: make(chan struct{}),
	}
	go s.read(in)
	return s
}

func (s *Shell) read(in io.Reader) {
	defer close(s.readerDone)
	sc := bufio.NewScanner(in)
	for sc.Scan() {
		select {
		case s.lines <- sc.Text():
		case <-s.done:
			return
		}
	}
	if err := sc.Err(); err != nil {
		s.log.Warn().Err(err).Msg("shell input closed")
	}
	close(s.lines)
}

// UI exposes the shell as the frontend's interaction ports.
func (s *Shell) UI() application.UI {
	return application.UI{Nav: s, Notifier: s, Confirmer: s}
}

// Attach binds the frontend built with UI().
func (s *Shell) Attach(f *application.Frontend) {
	s.front = f
	s.t = f.Env.T
}

// Current is the route rendered last.
func (s *Shell) Current() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

func (s *Shell) Push(_ context.Context, route string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = append(s.pending, route)
	return nil
}

func (s *Shell) Notify(_ context.Context, msg string) {
	fmt.Fprintln(s.out, "! "+msg)
}

// Confirm asks on the terminal. Anything but y or yes declines, as does a
// closed input or cancelled context.
func (s *Shell) Confirm(ctx context.Context, prompt string) bool {
	fmt.Fprintf(s.out, "%s %s ", prompt, s.t.T("confirm_suffix"))
	line, ok := s.next(ctx)
	if !ok {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	}
	return false
}

func (s *Shell) next(ctx context.Context) (string, bool) {
	select {
	case <-ctx.Done():
		return "", false
	case line, ok := <-s.lines:
		return line, ok
	}
}

func (s *Shell) stop() { s.stopOnce.Do(func() { close(s.done) }) }

// Run renders the home page, then executes commands until exit, end of
// input or ctx cancellation. A shell runs once.
func (s *Shell) Run(ctx context.Context) error {
	defer s.stop()
	if s.front == nil {
		return errors.New("shell: no frontend attached")
	}
	_ = s.Push(ctx, "/")
	s.follow(ctx)
	for {
		fmt.Fprint(s.out, "> ")
		line, ok := s.next(ctx)
		if !ok {
			fmt.Fprintln(s.out)
			return ctx.Err()
		}
		line = strings.TrimSpace(line)
		if line == "exit" || line == "quit" {
			fmt.Fprintln(s.out, s.t.T("goodbye"))
			return nil
		}
		s.Execute(ctx, line)
	}
}

// Execute runs one command line and renders any routes it pushed.
func (s *Shell) Execute(ctx context.Context, line string) {
	name, args, _ := strings.Cut(strings.TrimSpace(line), " ")
	if name == "" {
		return
	}
	ctx = logging.WithRoute(ctx, s.Current())
	if err := s.dispatch(ctx, name, strings.TrimSpace(args)); err != nil {
		s.log.Debug().Err(err).Str("command", name).Msg("command failed")
		fmt.Fprintln(s.out, s.front.ErrorText(err))
	}
	s.follow(ctx)
}

// follow renders queued routes in order. Rendering may push again.
func (s *Shell) follow(ctx context.Context) {
	for hop := 0; hop < maxHops; hop++ {
		s.mu.Lock()
		if len(s.pending) == 0 {
			s.mu.Unlock()
			return
		}
		route := s.pending[0]
		s.pending = s.pending[1:]
		s.current = route
		s.mu.Unlock()

		out, err := s.front.Open(ctx, route)
		if err != nil {
			fmt.Fprintln(s.out, s.front.ErrorText(err))
			continue
		}
		fmt.Fprintf(s.out, "── %s\n%s\n", route, out)
	}
	s.mu.Lock()
	dropped := len(s.pending)
	s.pending = nil
	s.mu.Unlock()
	s.log.Warn().Int("dropped", dropped).Msg("too many redirects")
}

func (s *Shell) say(text string) error {
	fmt.Fprintln(s.out, text)
	return nil
}
