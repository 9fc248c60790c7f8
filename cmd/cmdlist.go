// SPDX-License-Identifier: GPL-2.0-or-later

package cmd

import (
	"strings"

	"stmengine/conlog"
)

type cmdList []string

// PrintList prints all commands, or only those starting with the first
// argument.
func (c *Commands) PrintList(a Arguments) error {
	args := a.Args()
	cl := cmdList(c.List())
	switch len(args) {
	default:
		cl.printPartialCmdList(c, args[1].String())
	case 0, 1:
		cl.printFullCmdList(c)
	}
	return nil
}

func PrintList(a Arguments) error {
	return commands.PrintList(a)
}

func (cl cmdList) printFullCmdList(c *Commands) {
	for _, n := range cl {
		conlog.Printf("  %-12s %s\n", n, c.Help(n))
	}
	conlog.Printf("%v commands\n", len(cl))
}

func (cl cmdList) printPartialCmdList(c *Commands, part string) {
	count := 0
	for _, n := range cl {
		if strings.HasPrefix(n, part) {
			conlog.Printf("  %-12s %s\n", n, c.Help(n))
			count++
		}
	}
	conlog.Printf("%v commands beginning with \"%v\"\n", count, part)
}
