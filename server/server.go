// SPDX-License-Identifier: GPL-2.0-or-later

// Package server runs one engine per SSH session and shows it in the
// session's terminal.
package server

import (
	"context"
	"fmt"
	"net"

	"github.com/gliderlabs/ssh"
	"github.com/pkg/errors"
	"golang.org/x/sync/semaphore"

	"stmengine/conlog"
	"stmengine/engine"
)

// GameFactory returns a fresh game for a new session.
type GameFactory func() engine.Game

type Server struct {
	addr     string
	hostKey  string
	maxFPS   float64
	newGame  GameFactory
	sessions *semaphore.Weighted
	srv      *ssh.Server
}

type Option func(*Server)

// WithHostKeyFile sets the PEM host key. Without it a key is generated on
// every start.
func WithHostKeyFile(path string) Option {
	return func(s *Server) {
		s.hostKey = path
	}
}

// WithMaxSessions limits the number of concurrent sessions. Further
// sessions are turned away.
func WithMaxSessions(n int) Option {
	return func(s *Server) {
		s.sessions = semaphore.NewWeighted(int64(max(n, 1)))
	}
}

// WithMaxFPS limits the frame rate of every session.
func WithMaxFPS(fps float64) Option {
	return func(s *Server) {
		s.maxFPS = fps
	}
}

func New(addr string, g GameFactory, opts ...Option) *Server {
	s := &Server{
		addr:     addr,
		newGame:  g,
		maxFPS:   30,
		sessions: semaphore.NewWeighted(8),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

func (s *Server) setup() error {
	s.srv = &ssh.Server{
		Addr:    s.addr,
		Handler: s.handleSession,
	}
	if s.hostKey != "" {
		if err := s.srv.SetOption(ssh.HostKeyFile(s.hostKey)); err != nil {
			return errors.Wrap(err, "set host key")
		}
	}
	return nil
}

// ListenAndServe serves until ctx is done.
func (s *Server) ListenAndServe(ctx context.Context) error {
	l, err := net.Listen("tcp", s.addr)
	if err != nil {
		return errors.Wrap(err, "listen")
	}
	return s.Serve(ctx, l)
}

// Serve accepts sessions on l until ctx is done. l is closed on return.
func (s *Server) Serve(ctx context.Context, l net.Listener) error {
	if err := s.setup(); err != nil {
		l.Close()
		return err
	}
	stop := context.AfterFunc(ctx, func() {
		s.srv.Close()
	})
	defer stop()
	conlog.Printf("SSH server listening on %s\n", l.Addr())
	err := s.srv.Serve(l)
	if errors.Is(err, ssh.ErrServerClosed) {
		return nil
	}
	return err
}

func (s *Server) handleSession(sess ssh.Session) {
	ptyReq, winCh, ok := sess.Pty()
	if !ok {
		fmt.Fprintln(sess, "Error: PTY required. Use: ssh -t ...")
		sess.Exit(1)
		return
	}
	if !s.sessions.TryAcquire(1) {
		fmt.Fprintln(sess, "Error: server full, try again later.")
		sess.Exit(1)
		return
	}
	defer s.sessions.Release(1)

	user := sess.User()
	if user == "" {
		user = "Anonymous"
	}
	conlog.Printf("Session connected: %s (%s)\n", user, sess.RemoteAddr())
	defer conlog.Printf("Session disconnected: %s (%s)\n", user, sess.RemoteAddr())

	t := NewTerminal(sess, ptyReq.Window.Width, ptyReq.Window.Height)
	go func() {
		for win := range winCh {
			t.Resize(win.Width, win.Height)
		}
	}()

	w, h := t.PixelSize()
	e := engine.New(s.newGame(), t)
	cfg := engine.Config{
		AppName:      user,
		ScreenWidth:  w,
		ScreenHeight: h,
		PixelWidth:   1,
		PixelHeight:  1,
		MaxFPS:       s.maxFPS,
	}
	if err := e.Construct(cfg); err != nil {
		fmt.Fprintf(sess, "Error: %v\n", err)
		sess.Exit(1)
		return
	}
	if err := e.Start(sess.Context()); err != nil && !errors.Is(err, context.Canceled) {
		conlog.Printf("Session %s: %v\n", user, err)
		sess.Exit(1)
		return
	}
	sess.Exit(0)
}
