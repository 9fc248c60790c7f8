// SPDX-License-Identifier: GPL-2.0-or-later

package cmd

import (
	"sort"
	"strings"

	"github.com/pkg/errors"
)

// Func runs a command. args.Argv(0) is the command name.
type Func func(args Arguments) error

type command struct {
	f    Func
	help string
}

// Commands maps lower case names to commands.
type Commands map[string]command

func New() *Commands {
	c := make(Commands)
	return &c
}

// Add registers f as name. help is a one line usage text.
func (c *Commands) Add(name string, f Func, help string) error {
	ln := strings.ToLower(name)
	if _, ok := (*c)[ln]; ok {
		return errors.Errorf("command %s already defined", ln)
	}
	(*c)[ln] = command{f, help}
	return nil
}

func (c *Commands) Exists(cmdName string) bool {
	name := strings.ToLower(cmdName)
	_, ok := (*c)[name]
	return ok
}

func (c *Commands) List() []string {
	cmds := make([]string, 0, len(*c))
	for cmd := range *c {
		cmds = append(cmds, cmd)
	}
	sort.Strings(cmds)
	return cmds
}

// Help returns the usage text of cmdName.
func (c *Commands) Help(cmdName string) string {
	return (*c)[strings.ToLower(cmdName)].help
}

// Execute runs the command named by the first argument. It returns false
// if there is no such command.
func (c *Commands) Execute(a Arguments) (bool, error) {
	n := a.Args()
	if len(n) == 0 {
		return false, nil
	}
	name := strings.ToLower(n[0].String())
	if cmd, ok := (*c)[name]; ok {
		if err := cmd.f(a); err != nil {
			return true, err
		}
		return true, nil
	}
	return false, nil
}

var (
	commands = make(Commands)
)

// Must panics on registration errors, which are programming errors.
func Must(err error) {
	if err != nil {
		panic(err)
	}
}

func AddCommand(name string, f Func, help string) error {
	return commands.Add(name, f, help)
}

func Exists(cmdName string) bool {
	return commands.Exists(cmdName)
}

func Execute(a Arguments) (bool, error) {
	return commands.Execute(a)
}

func List() []string {
	return commands.List()
}

func Help(cmdName string) string {
	return commands.Help(cmdName)
}
