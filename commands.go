// SPDX-License-Identifier: GPL-2.0-or-later

package main

import (
	"bufio"
	"context"
	"flag"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/term"

	"stmengine/ansi"
	"stmengine/cbuf"
	"stmengine/cmd"
	"stmengine/commandline"
	"stmengine/conlog"
	"stmengine/cvar"
	"stmengine/cvars"
	"stmengine/engine"
	"stmengine/filesystem"
	simage "stmengine/image"
	"stmengine/pack"
	"stmengine/server"
	"stmengine/sprite"
	"stmengine/window"
)

var (
	packCommands = cmd.New()
	sprCommands  = cmd.New()
	script       cbuf.CommandBuffer
)

func init() {
	cmd.Must(cmd.AddCommand("demo", demoCmd, "demo : run the demo in a window"))
	cmd.Must(cmd.AddCommand("serve", serveCmd, "serve : run the demo for ssh clients"))
	cmd.Must(cmd.AddCommand("pack", sub("pack", packCommands), "pack build|list|extract : work with resource packs"))
	cmd.Must(cmd.AddCommand("spr", sub("spr", sprCommands), "spr convert|png : convert sprites"))
	cmd.Must(cmd.AddCommand("show", showCmd, "show <file> [pack] : print a sprite or image to the terminal"))
	cmd.Must(cmd.AddCommand("cmdlist", cmd.PrintList, "cmdlist [prefix] : list commands"))
	cmd.Must(cmd.AddCommand("exec", execCmd, "exec <file> : run the commands in file"))

	script.SetCommandExecutors([]cbuf.Efunc{
		func(_ *cbuf.CommandBuffer, a cmd.Arguments) (bool, error) {
			return cmd.Execute(a)
		},
		func(_ *cbuf.CommandBuffer, a cmd.Arguments) (bool, error) {
			return cvar.Execute(a)
		},
	})

	cmd.Must(packCommands.Add("build", packBuild, "pack build [-list file] <out> [files] : create a resource pack"))
	cmd.Must(packCommands.Add("list", packList, "pack list <pack> : list the files of a pack"))
	cmd.Must(packCommands.Add("extract", packExtract, "pack extract <pack> <name> <out> : copy a file out of a pack"))

	cmd.Must(sprCommands.Add("convert", sprConvert, "spr convert <image> <out.spr> : convert an image to a sprite"))
	cmd.Must(sprCommands.Add("png", sprPNG, "spr png <in.spr> <out.png> : convert a sprite to png"))
}

// sub dispatches to the commands in c by the second argument.
func sub(name string, c *cmd.Commands) cmd.Func {
	return func(a cmd.Arguments) error {
		ok, err := c.Execute(a.Shift())
		if !ok {
			for _, n := range c.List() {
				conlog.Printf("  %s\n", c.Help(n))
			}
			return errors.Errorf("%s: unknown subcommand", name)
		}
		return err
	}
}

func words(a cmd.Arguments) []string {
	args := a.Args()
	r := make([]string, 0, len(args))
	for _, w := range args[1:] {
		r = append(r, w.String())
	}
	return r
}

func expectArgs(a cmd.Arguments, min, max int, c *cmd.Commands) error {
	n := len(a.Args()) - 1
	if n < min || n > max {
		return errors.Errorf("usage: %s", c.Help(a.Argv(0).String()))
	}
	return nil
}

func packOptions() []pack.Option {
	return []pack.Option{pack.WithKey(cvars.PackKeyByte())}
}

// files binds the base directory, its packs and the -pack flag.
func files() (*filesystem.NameSpace, error) {
	ns := &filesystem.NameSpace{}
	if _, err := filesystem.UseDir(ns, commandline.BaseDirectory(), packOptions()...); err != nil {
		return nil, err
	}
	if name := commandline.Pack(); name != "" {
		p := pack.New(packOptions()...)
		if err := p.LoadPack(name); err != nil {
			return nil, err
		}
		ns.Bind(filesystem.Pack(p), filesystem.BindBefore)
	}
	conlog.DPrintf("Files: %s\n", strings.Join(ns.Sources(), ", "))
	return ns, nil
}

func engineConfig() engine.Config {
	return engine.Config{
		AppName:      "Demo",
		ScreenWidth:  int(cvars.VideoWidth.Value()),
		ScreenHeight: int(cvars.VideoHeight.Value()),
		PixelWidth:   int(cvars.VideoPixelWidth.Value()),
		PixelHeight:  int(cvars.VideoPixelHeight.Value()),
		Fullscreen:   cvars.VideoFullscreen.Bool(),
		VSync:        cvars.VideoVSync.Bool(),
		MaxFPS:       float64(cvars.HostMaxFps.Value()),
	}
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

func demoCmd(_ cmd.Arguments) error {
	ns, err := files()
	if err != nil {
		return err
	}
	e := engine.New(newDemo(ns), window.New())
	if err := e.Construct(engineConfig()); err != nil {
		return err
	}
	ctx, cancel := signalContext()
	defer cancel()
	if err := e.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func serveCmd(_ cmd.Arguments) error {
	ns, err := files()
	if err != nil {
		return err
	}
	game := func() engine.Game {
		return newDemo(ns)
	}
	s := server.New(commandline.Address(), game,
		server.WithHostKeyFile(commandline.HostKey()),
		server.WithMaxSessions(int(cvars.ServerMaxSessions.Value())),
		server.WithMaxFPS(float64(cvars.HostMaxFps.Value())))
	ctx, cancel := signalContext()
	defer cancel()
	return s.ListenAndServe(ctx)
}

// execCmd runs a script. Scripts may exec other scripts, their lines run
// before the rest of the calling script.
func execCmd(a cmd.Arguments) error {
	if n := len(a.Args()); n != 2 {
		return errors.Errorf("usage: %s", cmd.Help("exec"))
	}
	data, err := os.ReadFile(a.Argv(1).String())
	if err != nil {
		return errors.Wrap(err, "exec")
	}
	script.InsertText(string(data))
	if err := script.Execute(); err != nil {
		script.Clear()
		return err
	}
	return nil
}

// readList returns the files named by the add lines of a pack list.
func readList(name string) ([]string, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, errors.Wrap(err, "read list")
	}
	defer f.Close()
	var r []string
	scanner := bufio.NewScanner(f)
	line := 0
	for scanner.Scan() {
		line++
		a := cmd.Parse(scanner.Text())
		args := a.Args()
		if len(args) == 0 {
			continue
		}
		if !strings.EqualFold(args[0].String(), "add") || len(args) != 2 {
			return nil, errors.Errorf("%s:%d: expected add \"file\"", name, line)
		}
		r = append(r, args[1].String())
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "read list")
	}
	return r, nil
}

func packBuild(a cmd.Arguments) error {
	fs := flag.NewFlagSet("pack build", flag.ContinueOnError)
	list := fs.String("list", "", "file with one add \"path\" line per file")
	if err := fs.Parse(words(a)); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		return errors.Errorf("usage: %s", packCommands.Help("build"))
	}
	out := fs.Arg(0)
	names := fs.Args()[1:]
	if *list != "" {
		l, err := readList(*list)
		if err != nil {
			return err
		}
		names = append(l, names...)
	}
	p := pack.New(packOptions()...)
	ctx, cancel := signalContext()
	defer cancel()
	if err := p.AddAll(ctx, names...); err != nil {
		return err
	}
	if err := p.SavePack(out); err != nil {
		return err
	}
	conlog.Printf("Wrote %s with %d files\n", out, p.Len())
	return nil
}

func loadPack(name string) (*pack.ResourcePack, error) {
	p := pack.New(packOptions()...)
	if err := p.LoadPack(name); err != nil {
		return nil, err
	}
	return p, nil
}

func packList(a cmd.Arguments) error {
	if err := expectArgs(a, 1, 1, packCommands); err != nil {
		return err
	}
	p, err := loadPack(a.Argv(1).String())
	if err != nil {
		return err
	}
	for _, n := range p.Names() {
		e, _ := p.Entry(n)
		conlog.Printf("%4d %10d %10d %s\n", e.ID, e.Offset, e.Size, n)
	}
	return nil
}

func packExtract(a cmd.Arguments) error {
	if err := expectArgs(a, 3, 3, packCommands); err != nil {
		return err
	}
	p, err := loadPack(a.Argv(1).String())
	if err != nil {
		return err
	}
	data, err := p.ReadFile(a.Argv(2).String())
	if err != nil {
		return err
	}
	out := a.Argv(3).String()
	if err := os.MkdirAll(filepath.Dir(out), 0755); err != nil {
		return errors.Wrap(err, "extract")
	}
	return errors.Wrap(os.WriteFile(out, data, 0644), "extract")
}

func sprConvert(a cmd.Arguments) error {
	if err := expectArgs(a, 2, 2, sprCommands); err != nil {
		return err
	}
	s := sprite.New(0, 0)
	if err := s.LoadFromFile(a.Argv(1).String(), nil); err != nil {
		return err
	}
	return s.SaveToSprFile(a.Argv(2).String())
}

func sprPNG(a cmd.Arguments) error {
	if err := expectArgs(a, 2, 2, sprCommands); err != nil {
		return err
	}
	s := sprite.New(0, 0)
	if err := s.LoadFromSprFile(a.Argv(1).String(), nil); err != nil {
		return err
	}
	return simage.WriteFile(a.Argv(2).String(), s.Image())
}

// terminalSize returns the size of stdout or 80x24 if it is no terminal.
func terminalSize() (int, int) {
	fd := int(os.Stdout.Fd())
	if term.IsTerminal(fd) {
		if w, h, err := term.GetSize(fd); err == nil && w > 0 && h > 1 {
			return w, h
		}
	}
	return 80, 24
}

// halfBlocks prints s with two pixels per character cell.
func halfBlocks(s *sprite.Sprite) string {
	var sb strings.Builder
	for y := 0; y < s.Height(); y += 2 {
		for x := 0; x < s.Width(); x++ {
			c := ansi.Cell{Top: s.GetPixel(x, y), Bottom: s.GetPixel(x, y+1)}
			c.Top.A, c.Bottom.A = 255, 255
			ansi.WriteCell(&sb, c)
		}
		sb.WriteString(ansi.Reset + "\n")
	}
	return sb.String()
}

func showCmd(a cmd.Arguments) error {
	n := len(a.Args()) - 1
	if n < 1 || n > 2 {
		return errors.Errorf("usage: %s", cmd.Help("show"))
	}
	var p *pack.ResourcePack
	if n == 2 {
		var err error
		if p, err = loadPack(a.Argv(2).String()); err != nil {
			return err
		}
	}
	s, err := sprite.Load(a.Argv(1).String(), p)
	if err != nil {
		return err
	}
	cols, rows := terminalSize()
	// keep one line for the prompt
	fitted := sprite.FromImage(simage.Fit(s.Image(), cols, (rows-1)*2))
	os.Stdout.WriteString(halfBlocks(fitted))
	return nil
}
