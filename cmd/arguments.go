// SPDX-License-Identifier: GPL-2.0-or-later

package cmd

import (
	"strconv"
	"strings"
	"unicode"
)

// Arg is one word of a command line.
type Arg string

func (a Arg) String() string {
	return string(a)
}

// Float32 returns the word as number, 0 if it is none.
func (a Arg) Float32() float32 {
	r, err := strconv.ParseFloat(string(a), 32)
	if err != nil {
		return 0
	}
	return float32(r)
}

// Arguments is a command line split into words. The first word names the
// command.
type Arguments struct {
	args []Arg
	// full is the line the words came from, trimmed
	full string
}

// Argv returns word i or the empty word if there are fewer words.
func (c Arguments) Argv(i int) Arg {
	if i < 0 || i >= len(c.args) {
		return ""
	}
	return c.args[i]
}

// Args returns all words including the command name.
func (c Arguments) Args() []Arg {
	return c.args
}

// Full returns the whole line.
func (c Arguments) Full() string {
	return c.full
}

// FromArgs builds Arguments from already split words, e.g. os.Args[1:].
func FromArgs(words []string) Arguments {
	a := Arguments{args: make([]Arg, 0, len(words))}
	quoted := make([]string, 0, len(words))
	for _, w := range words {
		a.args = append(a.args, Arg(w))
		if w == "" || strings.IndexFunc(w, unicode.IsSpace) >= 0 {
			w = strconv.Quote(w)
		}
		quoted = append(quoted, w)
	}
	a.full = strings.Join(quoted, " ")
	return a
}

// Shift drops the command name, so the first argument becomes the name of
// a sub command.
func (c Arguments) Shift() Arguments {
	if len(c.args) == 0 {
		return c
	}
	words := make([]string, 0, len(c.args)-1)
	for _, a := range c.args[1:] {
		words = append(words, a.String())
	}
	return FromArgs(words)
}

// Parse splits one script or list line into words. A double quoted string
// is one word without its quotes, an unterminated one runs to the end of
// the line. Everything from // on is a comment.
func Parse(line string) Arguments {
	a := Arguments{
		args: []Arg{},
		full: strings.TrimFunc(line, unicode.IsSpace),
	}
	s := a.full
	for {
		s = strings.TrimLeftFunc(s, isSpace)
		if s == "" || s[0] == '\r' || s[0] == '\n' || strings.HasPrefix(s, "//") {
			return a
		}
		if s[0] == '"' {
			end := strings.IndexAny(s[1:], "\"\n")
			if end < 0 {
				a.args = append(a.args, Arg(s[1:]))
				return a
			}
			a.args = append(a.args, Arg(s[1:end+1]))
			s = s[end+2:]
			continue
		}
		end := strings.IndexFunc(s, func(r rune) bool { return r <= ' ' })
		if end < 0 {
			end = len(s)
		}
		a.args = append(a.args, Arg(s[:end]))
		s = s[end:]
	}
}

// isSpace reports blanks and control characters, line ends excluded.
func isSpace(r rune) bool {
	return r <= ' ' && r != '\r' && r != '\n'
}
