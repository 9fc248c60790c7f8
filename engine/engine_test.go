// SPDX-License-Identifier: GPL-2.0-or-later

package engine

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"stmengine/filesystem"
	"stmengine/input"
	"stmengine/keycode"
	"stmengine/pack"
	"stmengine/pixel"
	"stmengine/sprite"
)

type fakePlatform struct {
	opened, closed int
	presented      []pixel.Pixel
	// quitAt makes PollEvents return false from that poll on, 0 never
	quitAt int
	polls  int
	press  keycode.Key
	titles []string
}

func (p *fakePlatform) Open(Config) error {
	p.opened++
	return nil
}

func (p *fakePlatform) PollEvents(s *input.State) bool {
	p.polls++
	if p.press != keycode.NONE {
		s.SetKey(p.press, p.polls == 1)
	}
	return p.quitAt == 0 || p.polls < p.quitAt
}

func (p *fakePlatform) Present(s *sprite.Sprite) error {
	p.presented = append(p.presented, s.GetPixel(0, 0))
	return nil
}

func (p *fakePlatform) Close() error {
	p.closed++
	return nil
}

func (p *fakePlatform) SetTitle(t string) {
	p.titles = append(p.titles, t)
}

func testConfig() Config {
	return Config{AppName: "test", ScreenWidth: 4, ScreenHeight: 3, PixelWidth: 1, PixelHeight: 1}
}

func TestConstruct(t *testing.T) {
	e := New(GameFuncs{}, &fakePlatform{})
	for _, cfg := range []Config{
		{ScreenWidth: 0, ScreenHeight: 3, PixelWidth: 1, PixelHeight: 1},
		{ScreenWidth: 4, ScreenHeight: 3, PixelWidth: 0, PixelHeight: 1},
		{ScreenWidth: 4, ScreenHeight: -3, PixelWidth: 1, PixelHeight: 1},
	} {
		if err := e.Construct(cfg); err == nil {
			t.Errorf("Construct(%+v) succeeded", cfg)
		}
	}
	if err := e.Start(context.Background()); err == nil {
		t.Errorf("Start without Construct succeeded")
	}
	if err := e.Construct(testConfig()); err != nil {
		t.Fatal(err)
	}
	if e.ScreenWidth() != 4 || e.ScreenHeight() != 3 || e.Raster().DrawTarget() != e.Screen() {
		t.Errorf("screen not set up")
	}
}

func TestStartStopsOnUpdate(t *testing.T) {
	p := &fakePlatform{}
	frames := 0
	created, destroyed := false, false
	g := GameFuncs{
		Create: func(e *Engine) error {
			created = true
			return nil
		},
		Update: func(e *Engine, elapsed float32) bool {
			frames++
			e.Raster().Clear(pixel.RGBA(uint8(frames), 0, 0, 255))
			return frames < 3
		},
		Destroy: func(e *Engine) bool {
			destroyed = true
			return true
		},
	}
	e := New(g, p)
	if err := e.Construct(testConfig()); err != nil {
		t.Fatal(err)
	}
	if err := e.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if !created || !destroyed || frames != 3 {
		t.Errorf("created %v destroyed %v frames %d", created, destroyed, frames)
	}
	if p.opened != 1 || p.closed != 1 {
		t.Errorf("platform opened %d closed %d", p.opened, p.closed)
	}
	if len(p.presented) != 2 || p.presented[1].R != 2 {
		t.Errorf("presented %v", p.presented)
	}
}

func TestDestroyCanCancel(t *testing.T) {
	p := &fakePlatform{quitAt: 2}
	asked := 0
	g := GameFuncs{
		Destroy: func(e *Engine) bool {
			asked++
			return asked == 3
		},
	}
	e := New(g, p)
	e.Construct(testConfig())
	if err := e.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if asked != 3 {
		t.Errorf("OnUserDestroy called %d times, want 3", asked)
	}
}

func TestStartContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	g := GameFuncs{
		Update: func(e *Engine, elapsed float32) bool {
			cancel()
			return true
		},
		Destroy: func(e *Engine) bool { return false },
	}
	p := &fakePlatform{}
	e := New(g, p)
	e.Construct(testConfig())
	if err := e.Start(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Start = %v, want context.Canceled", err)
	}
	if p.closed != 1 {
		t.Errorf("platform not closed")
	}
}

func TestCreateError(t *testing.T) {
	fail := errors.New("fail")
	p := &fakePlatform{}
	e := New(GameFuncs{Create: func(*Engine) error { return fail }}, p)
	e.Construct(testConfig())
	if err := e.Start(context.Background()); !errors.Is(err, fail) {
		t.Errorf("Start = %v, want %v", err, fail)
	}
	if p.closed != 1 {
		t.Errorf("platform not closed")
	}
}

func TestInput(t *testing.T) {
	p := &fakePlatform{press: keycode.SPACE}
	var got []bool
	g := GameFuncs{
		Update: func(e *Engine, elapsed float32) bool {
			got = append(got, e.Key(keycode.SPACE).Pressed)
			return len(got) < 2
		},
	}
	e := New(g, p)
	e.Construct(testConfig())
	if err := e.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || !got[0] || got[1] {
		t.Errorf("Pressed per frame = %v, want [true false]", got)
	}
}

func TestSetScreenSize(t *testing.T) {
	e := New(GameFuncs{}, &fakePlatform{})
	e.Construct(testConfig())
	e.SetScreenSize(8, 6)
	if e.ScreenWidth() != 8 || e.ScreenHeight() != 6 || e.Raster().DrawTarget() != e.Screen() {
		t.Errorf("SetScreenSize not applied")
	}
	e.SetScreenSize(0, 6)
	if e.ScreenWidth() != 8 {
		t.Errorf("SetScreenSize(0,6) applied")
	}
}

func TestLoadSprite(t *testing.T) {
	e := New(GameFuncs{}, &fakePlatform{})
	e.Construct(testConfig())
	if _, err := e.LoadSprite("a.spr"); err == nil {
		t.Errorf("LoadSprite without files succeeded")
	}
	var buf bytes.Buffer
	s := sprite.New(2, 2)
	s.SetPixel(1, 1, pixel.Red)
	if err := s.Encode(&buf); err != nil {
		t.Fatal(err)
	}
	p := pack.New()
	p.AddBytes("gfx/a.spr", buf.Bytes())
	var ns filesystem.NameSpace
	ns.Bind(filesystem.Pack(p), filesystem.BindReplace)
	e.SetFiles(&ns)
	l, err := e.LoadSprite("/gfx/a.spr")
	if err != nil {
		t.Fatalf("LoadSprite: %v", err)
	}
	if l.GetPixel(1, 1) != pixel.Red {
		t.Errorf("loaded pixel = %v", l.GetPixel(1, 1))
	}
	if _, err := e.LoadSprite("gfx/b.spr"); err == nil {
		t.Errorf("LoadSprite(missing) succeeded")
	}
}

func TestTitleOncePerSecond(t *testing.T) {
	p := &fakePlatform{}
	frames := 0
	e := New(GameFuncs{
		Update: func(*Engine, float32) bool {
			frames++
			return frames < 9
		},
	}, p)
	if err := e.Construct(testConfig()); err != nil {
		t.Fatal(err)
	}
	// every reading of the clock is a quarter second later
	clock := time.Unix(100, 0)
	e.now = func() time.Time {
		clock = clock.Add(time.Second / 4)
		return clock
	}
	if err := e.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	want := []string{"test - FPS: 4", "test - FPS: 4"}
	if len(p.titles) != len(want) || p.titles[0] != want[0] || p.titles[1] != want[1] {
		t.Errorf("titles = %q, want %q", p.titles, want)
	}
	if e.FPS() != 4 {
		t.Errorf("FPS() = %d, want 4", e.FPS())
	}
}
