package commandline

import (
	"flag"
	"fmt"
	"strconv"
)

var (
	developer  bool
	fullscreen bool
	vsync      bool
	window     bool

	listen = boolInt{false, 8}

	height int
	pixel  int
	width  int

	address string
	basedir string
	config  string
	hostKey string
	pack    string
)

type boolInt struct {
	set bool
	num int
}

func (b *boolInt) IsBoolFlag() bool {
	// We can not support both "-flag" and "-flag 10"
	// This allows "-flag", and "-flag=10"
	// and also "-flag=true" and "-flag=false"
	// but not "-flag 10"
	return true
}

func (b *boolInt) Set(s string) error {
	v, err := strconv.ParseInt(s, 0, strconv.IntSize)
	if err != nil {
		v, err := strconv.ParseBool(s)
		b.set = v
		return err
	}
	b.set = true
	b.num = int(v)
	return nil
}

func (b *boolInt) String() string {
	return fmt.Sprintf("Set: %v, Num: %v", b.set, b.num)
}

func init() {
	Register(flag.CommandLine)
}

// Register adds all engine flags to fs.
func Register(fs *flag.FlagSet) {
	fs.BoolVar(&developer, "developer", false, "print developer messages")
	fs.BoolVar(&fullscreen, "f", false, "")
	fs.BoolVar(&fullscreen, "fullscreen", false, "run fullscreen")
	fs.BoolVar(&vsync, "vsync", false, "wait for vertical sync")
	fs.BoolVar(&window, "window", false, "run in a window, overrides vid_fullscreen")
	fs.BoolVar(&window, "w", false, "")

	fs.Var(&listen, "listen", "serve over ssh, optional number of sessions")

	fs.IntVar(&height, "height", -1, "screen height in pixels, negative is unset")
	fs.IntVar(&pixel, "pixel", -1, "size of one screen pixel in window pixels, negative is unset")
	fs.IntVar(&width, "width", -1, "screen width in pixels, negative is unset")

	fs.StringVar(&address, "addr", ":2222", "ssh listen address")
	fs.StringVar(&basedir, "basedir", ".", "directory holding resources and *.stm packs")
	fs.StringVar(&config, "config", "stm.cfg", "archived cvars, relative to basedir")
	fs.StringVar(&hostKey, "hostkey", "", "ssh host key file, empty generates one")
	fs.StringVar(&pack, "pack", "", "resource pack to read from")
}

func Address() string {
	return address
}

func BaseDirectory() string {
	return basedir
}

func Config() string {
	return config
}

func Developer() bool {
	return developer
}

func Fullscreen() bool {
	return fullscreen
}

func Height() int {
	return height
}

func HostKey() string {
	return hostKey
}

func Listen() bool {
	return listen.set
}

func ListenNum() int {
	return listen.num
}

func Pack() string {
	return pack
}

func Pixel() int {
	return pixel
}

func VSync() bool {
	return vsync
}

func Width() int {
	return width
}

func Window() bool {
	return window
}
