package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gopxl/mainthread/v2"
	"github.com/pkg/errors"

	"stmengine/cmd"
	"stmengine/commandline"
	"stmengine/conlog"
	"stmengine/cvar"
	"stmengine/cvars"
	"stmengine/rcode"
)

func main() {
	flag.Usage = usage
	flag.Parse()
	code := 0
	// SDL and GL need the main thread, everything else runs beside it.
	mainthread.Run(func() {
		if err := run(flag.Args()); err != nil {
			c := rcode.Of(err)
			conlog.Printf("%v: %v\n", c, err)
			code = exitCode(c)
		}
	})
	os.Exit(code)
}

// exitCode tells missing files apart from other failures.
func exitCode(c rcode.Code) int {
	switch c {
	case rcode.OK:
		return 0
	case rcode.NO_FILE:
		return 2
	}
	return 1
}

func usage() {
	fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [flags] [command [args]]\n\nCommands:\n", os.Args[0])
	for _, c := range cmd.List() {
		fmt.Fprintf(flag.CommandLine.Output(), "  %s\n", cmd.Help(c))
	}
	fmt.Fprintf(flag.CommandLine.Output(), "\nFlags:\n")
	flag.PrintDefaults()
}

func configPath() string {
	return filepath.Join(commandline.BaseDirectory(), commandline.Config())
}

// applyCommandline lets flags override the archived cvars.
func applyCommandline() {
	if commandline.Developer() {
		cvars.Developer.SetByString("1")
	}
	if w := commandline.Width(); w > 0 {
		cvars.VideoWidth.SetValue(float32(w))
	}
	if h := commandline.Height(); h > 0 {
		cvars.VideoHeight.SetValue(float32(h))
	}
	if p := commandline.Pixel(); p > 0 {
		cvars.VideoPixelWidth.SetValue(float32(p))
		cvars.VideoPixelHeight.SetValue(float32(p))
	}
	if commandline.Fullscreen() {
		cvars.VideoFullscreen.SetByString("1")
	}
	if commandline.Window() {
		cvars.VideoFullscreen.SetByString("0")
	}
	if commandline.VSync() {
		cvars.VideoVSync.SetByString("1")
	}
	if commandline.Listen() {
		cvars.ServerMaxSessions.SetValue(float32(commandline.ListenNum()))
	}
}

func run(args []string) error {
	if err := cvar.Load(configPath()); err != nil {
		conlog.Printf("Could not load config: %v\n", err)
	}
	applyCommandline()

	if len(args) == 0 {
		args = []string{"demo"}
		if commandline.Listen() {
			args = []string{"serve"}
		}
	}
	a := cmd.FromArgs(args)
	ok, err := cmd.Execute(a)
	if !ok {
		// a bare cvar name prints or sets it
		ok, err = cvar.Execute(a)
	}
	if !ok {
		usage()
		return errors.Errorf("unknown command %q", args[0])
	}
	if err != nil {
		return err
	}
	if err := cvar.Save(configPath()); err != nil {
		return errors.Wrap(err, "save config")
	}
	return nil
}
