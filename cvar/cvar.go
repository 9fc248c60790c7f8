// SPDX-License-Identifier: GPL-2.0-or-later

// Package cvar holds the engine settings. Every setting is a named string
// with a numeric view; archived ones are persisted between runs.
package cvar

import (
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"stmengine/cmd"
	"stmengine/conlog"
)

type Flag uint8

const (
	NONE Flag = 0
	// ARCHIVE cvars are written by Save.
	ARCHIVE Flag = 1 << iota
	// ROM cvars keep their default.
	ROM
)

// CallbackFunc is called after the value of a cvar changed.
type CallbackFunc func(cv *Cvar)

type Cvar struct {
	name  string
	flags Flag
	// user cvars were created by set or a config file, not by Register
	user     bool
	callback CallbackFunc
	// text is the truth, value is derived from it
	text  string
	value float32
	def   string
}

var byName = make(map[string]*Cvar)

// All returns the cvars sorted by name.
func All() []*Cvar {
	l := make([]*Cvar, 0, len(byName))
	for _, cv := range byName {
		l = append(l, cv)
	}
	sort.Slice(l, func(i, j int) bool { return l[i].name < l[j].name })
	return l
}

// Get looks up a cvar by name.
func Get(name string) (*Cvar, bool) {
	cv, ok := byName[name]
	return cv, ok
}

func create(name, value string, flags Flag) *Cvar {
	cv := &Cvar{name: name, flags: flags, def: value}
	cv.parse(value)
	byName[name] = cv
	return cv
}

// Register adds a cvar with the default value.
func Register(name, value string, flags Flag) (*Cvar, error) {
	if _, ok := byName[name]; ok {
		return nil, errors.Errorf("cvar %s already registered", name)
	}
	if cmd.Exists(name) {
		return nil, errors.Errorf("cvar %s conflicts with a command", name)
	}
	return create(name, value, flags), nil
}

// MustRegister is Register for package initialisation.
func MustRegister(name, value string, flags Flag) *Cvar {
	cv, err := Register(name, value, flags)
	cmd.Must(err)
	return cv
}

func (cv *Cvar) Name() string      { return cv.name }
func (cv *Cvar) String() string    { return cv.text }
func (cv *Cvar) Value() float32    { return cv.value }
func (cv *Cvar) Default() string   { return cv.def }
func (cv *Cvar) Archive() bool     { return cv.flags&ARCHIVE != 0 }
func (cv *Cvar) UserDefined() bool { return cv.user }

// Bool is false for "0" only, so "1", "yes" and "" all count as set.
func (cv *Cvar) Bool() bool {
	return cv.text != "0"
}

func (cv *Cvar) SetCallback(cb CallbackFunc) {
	cv.callback = cb
}

func (cv *Cvar) parse(s string) {
	cv.text = s
	f, err := strconv.ParseFloat(s, 32)
	if err != nil {
		f = 0
	}
	cv.value = float32(f)
}

// SetByString changes the value. ROM cvars ignore it.
func (cv *Cvar) SetByString(s string) {
	if cv.flags&ROM != 0 {
		return
	}
	cv.parse(s)
	if cv.callback != nil {
		cv.callback(cv)
	}
}

// SetValue stores v in its shortest form, "2" rather than "2.0".
func (cv *Cvar) SetValue(v float32) {
	cv.SetByString(strconv.FormatFloat(float64(v), 'f', -1, 32))
}

func (cv *Cvar) Reset() {
	cv.SetByString(cv.def)
}

func (cv *Cvar) Toggle() {
	if cv.Bool() {
		cv.SetByString("0")
	} else {
		cv.SetByString("1")
	}
}

// Execute treats the first word as cvar name: alone it prints the value,
// with a second word it sets it. It returns false for unknown names.
func Execute(a cmd.Arguments) (bool, error) {
	cv, ok := Get(a.Argv(0).String())
	if !ok {
		return false, nil
	}
	if len(a.Args()) == 1 {
		conlog.Printf("%q is %q\n", cv.name, cv.text)
		return true, nil
	}
	cv.SetByString(a.Argv(1).String())
	return true, nil
}

func init() {
	cmd.Must(cmd.AddCommand("cvarlist", list, "cvarlist [prefix] : list config variables"))
	cmd.Must(cmd.AddCommand("cycle", cycle, "cycle <cvar> <value list> : cycle cvar through a list of values"))
	cmd.Must(cmd.AddCommand("inc", inc, "inc <cvar> [amount] : increment cvar"))
	cmd.Must(cmd.AddCommand("reset", reset, "reset <cvar> : reset cvar to default"))
	cmd.Must(cmd.AddCommand("resetall", resetAll, "resetall : reset all cvars to default"))
	cmd.Must(cmd.AddCommand("set", set, "set <cvar> <value> : change and archive a cvar"))
	cmd.Must(cmd.AddCommand("toggle", toggle, "toggle <cvar> : toggle cvar"))
}

// lookup returns the cvar named by the first argument after checking the
// argument count.
func lookup(a cmd.Arguments, min, max int) (*Cvar, error) {
	if n := len(a.Args()) - 1; n < min || n > max {
		return nil, errors.Errorf("usage: %s", cmd.Help(a.Argv(0).String()))
	}
	name := a.Argv(1).String()
	cv, ok := Get(name)
	if !ok {
		return nil, errors.Errorf("%s: unknown cvar %s", a.Argv(0), name)
	}
	return cv, nil
}

func set(a cmd.Arguments) error {
	if len(a.Args()) != 3 {
		return errors.Errorf("usage: %s", cmd.Help("set"))
	}
	name, value := a.Argv(1).String(), a.Argv(2).String()
	if cv, ok := Get(name); ok {
		cv.SetByString(value)
		return nil
	}
	if cmd.Exists(name) {
		return errors.Errorf("set: %s is a command", name)
	}
	create(name, value, ARCHIVE).user = true
	return nil
}

func toggle(a cmd.Arguments) error {
	cv, err := lookup(a, 1, 1)
	if err != nil {
		return err
	}
	cv.Toggle()
	return nil
}

func inc(a cmd.Arguments) error {
	cv, err := lookup(a, 1, 2)
	if err != nil {
		return err
	}
	step := float32(1)
	if len(a.Args()) == 3 {
		step = a.Argv(2).Float32()
	}
	cv.SetValue(cv.value + step)
	return nil
}

func reset(a cmd.Arguments) error {
	cv, err := lookup(a, 1, 1)
	if err != nil {
		return err
	}
	cv.Reset()
	return nil
}

func resetAll(cmd.Arguments) error {
	for _, cv := range All() {
		cv.Reset()
	}
	return nil
}

// cycle sets the value following the current one in the list, or the first
// one if the current value is not listed.
func cycle(a cmd.Arguments) error {
	cv, err := lookup(a, 2, len(a.Args()))
	if err != nil {
		return err
	}
	values := a.Args()[2:]
	next := values[0]
	for i, v := range values {
		if v.String() == cv.text {
			next = values[(i+1)%len(values)]
			break
		}
	}
	cv.SetByString(next.String())
	return nil
}

func list(a cmd.Arguments) error {
	prefix := a.Argv(1).String()
	count := 0
	for _, cv := range All() {
		if !strings.HasPrefix(cv.name, prefix) {
			continue
		}
		count++
		mark := " "
		if cv.Archive() {
			mark = "*"
		}
		conlog.Printf("%s %-16s %q\n", mark, cv.name, cv.text)
	}
	if prefix == "" {
		conlog.Printf("%v cvars\n", count)
	} else {
		conlog.Printf("%v cvars beginning with %q\n", count, prefix)
	}
	return nil
}
