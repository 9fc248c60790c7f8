// SPDX-License-Identifier: GPL-2.0-or-later

package cvar

import (
	"os"
	"path/filepath"
	"testing"

	"stmengine/cmd"
)

func TestRegister(t *testing.T) {
	cv, err := Register("test_register", "3.5", ARCHIVE)
	if err != nil {
		t.Fatal(err)
	}
	if cv.Value() != 3.5 || cv.String() != "3.5" || !cv.Archive() {
		t.Errorf("cvar = %v %q %v", cv.Value(), cv.String(), cv.Archive())
	}
	if _, err := Register("test_register", "1", NONE); err == nil {
		t.Errorf("second Register succeeded")
	}
	if got, ok := Get("test_register"); !ok || got != cv {
		t.Errorf("Get = %v, %v", got, ok)
	}
	if _, err := Register("set", "1", NONE); err == nil {
		t.Errorf("Register of a command name succeeded")
	}
}

func TestSetValue(t *testing.T) {
	cv := MustRegister("test_setvalue", "0", NONE)
	called := 0
	cv.SetCallback(func(*Cvar) { called++ })
	cv.SetValue(2)
	if cv.String() != "2" {
		t.Errorf("SetValue(2) = %q", cv.String())
	}
	cv.SetValue(0.25)
	if cv.String() != "0.25" {
		t.Errorf("SetValue(0.25) = %q", cv.String())
	}
	cv.Toggle()
	if cv.String() != "0" || cv.Bool() {
		t.Errorf("Toggle of 0.25 = %q, want 0", cv.String())
	}
	cv.Toggle()
	if cv.String() != "1" || !cv.Bool() {
		t.Errorf("Toggle of 0 = %q, want 1", cv.String())
	}
	cv.Reset()
	if cv.String() != "0" || cv.Bool() {
		t.Errorf("Reset = %q", cv.String())
	}
	if called != 5 {
		t.Errorf("callback called %d times, want 5", called)
	}
}

func TestROM(t *testing.T) {
	cv := MustRegister("test_rom", "a", ROM)
	cv.SetByString("b")
	if cv.String() != "a" {
		t.Errorf("ROM cvar changed to %q", cv.String())
	}
}

func TestCommands(t *testing.T) {
	cv := MustRegister("test_cmd", "1", NONE)
	for _, c := range []string{"set test_cmd 5", "inc test_cmd 2"} {
		if ok, err := cmd.Execute(cmd.Parse(c)); !ok || err != nil {
			t.Fatalf("Execute(%q) = %v, %v", c, ok, err)
		}
	}
	if cv.Value() != 7 {
		t.Errorf("test_cmd = %v, want 7", cv.Value())
	}
	cmd.Execute(cmd.Parse("cycle test_cmd 1 7 9"))
	if cv.String() != "9" {
		t.Errorf("cycle = %q, want 9", cv.String())
	}
	if ok, _ := Execute(cmd.Parse("test_cmd 3")); !ok || cv.String() != "3" {
		t.Errorf("Execute(test_cmd 3) = %v, %q", ok, cv.String())
	}
}

func TestCommandErrors(t *testing.T) {
	MustRegister("test_cmderr", "1", NONE)
	for _, c := range []string{
		"toggle",
		"toggle test_cmderr extra",
		"inc missing_cvar",
		"reset missing_cvar",
		"cycle test_cmderr",
		"set test_cmderr",
		"set cvarlist 1",
	} {
		if ok, err := cmd.Execute(cmd.Parse(c)); !ok || err == nil {
			t.Errorf("Execute(%q) = %v, %v, want an error", c, ok, err)
		}
	}
}

func TestSetCreatesUserCvar(t *testing.T) {
	if ok, err := cmd.Execute(cmd.Parse("set test_user_cvar hello")); !ok || err != nil {
		t.Fatalf("set = %v, %v", ok, err)
	}
	cv, ok := Get("test_user_cvar")
	if !ok || cv.String() != "hello" || !cv.Archive() || !cv.UserDefined() {
		t.Errorf("user cvar = %v, %v", cv, ok)
	}
}

func TestCycleUnlisted(t *testing.T) {
	cv := MustRegister("test_cycle", "5", NONE)
	cmd.Execute(cmd.Parse("cycle test_cycle 1 2"))
	if cv.String() != "1" {
		t.Errorf("cycle from unlisted value = %q, want 1", cv.String())
	}
	cmd.Execute(cmd.Parse("cycle test_cycle 1 2"))
	cmd.Execute(cmd.Parse("cycle test_cycle 1 2"))
	if cv.String() != "1" {
		t.Errorf("cycle wrapped to %q, want 1", cv.String())
	}
}

func TestSaveLoad(t *testing.T) {
	a := MustRegister("test_save_a", "1", ARCHIVE)
	b := MustRegister("test_save_b", "1", NONE)
	name := filepath.Join(t.TempDir(), "cfg", "stm.cfg")
	a.SetByString("640")
	b.SetByString("2")
	if err := Save(name); err != nil {
		t.Fatalf("Save: %v", err)
	}
	a.Reset()
	b.Reset()
	if err := Load(name); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if a.String() != "640" {
		t.Errorf("archived cvar = %q, want 640", a.String())
	}
	if b.String() != "1" {
		t.Errorf("not archived cvar = %q, want 1", b.String())
	}
}

func TestLoadMissing(t *testing.T) {
	if err := Load(filepath.Join(t.TempDir(), "none.cfg")); err != nil {
		t.Errorf("Load(missing) = %v", err)
	}
}

func TestLoadBroken(t *testing.T) {
	name := filepath.Join(t.TempDir(), "broken.cfg")
	if err := os.WriteFile(name, []byte{0xff, 0xff, 0xff}, 0644); err != nil {
		t.Fatal(err)
	}
	if err := Load(name); err == nil {
		t.Errorf("Load(broken) succeeded")
	}
}
