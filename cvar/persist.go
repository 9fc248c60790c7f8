// SPDX-License-Identifier: GPL-2.0-or-later

package cvar

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	pkgerrors "github.com/pkg/errors"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

// Archived returns the archived cvars as protobuf struct, name to string
// value.
func Archived() (*structpb.Struct, error) {
	m := make(map[string]interface{})
	for _, cv := range All() {
		if cv.Archive() {
			m[cv.Name()] = cv.String()
		}
	}
	return structpb.NewStruct(m)
}

// Apply sets every cvar named in s. Unknown names become archived user
// cvars so they survive the next Save.
func Apply(s *structpb.Struct) {
	for n, v := range s.GetFields() {
		value := v.GetStringValue()
		if cv, ok := Get(n); ok {
			cv.SetByString(value)
			continue
		}
		create(n, value, ARCHIVE).user = true
	}
}

// Save writes all archived cvars to name.
func Save(name string) error {
	s, err := Archived()
	if err != nil {
		return pkgerrors.Wrap(err, "collect cvars")
	}
	b, err := proto.Marshal(s)
	if err != nil {
		return pkgerrors.Wrap(err, "marshal cvars")
	}
	if err := os.MkdirAll(filepath.Dir(name), 0755); err != nil {
		return pkgerrors.Wrapf(err, "save cvars")
	}
	if err := os.WriteFile(name, b, 0644); err != nil {
		return pkgerrors.Wrapf(err, "save cvars")
	}
	return nil
}

// Load restores cvars written by Save. A missing file is not an error.
func Load(name string) error {
	b, err := os.ReadFile(name)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return pkgerrors.Wrapf(err, "load cvars")
	}
	var s structpb.Struct
	if err := proto.Unmarshal(b, &s); err != nil {
		return pkgerrors.Wrapf(err, "load cvars from %s", name)
	}
	Apply(&s)
	return nil
}
