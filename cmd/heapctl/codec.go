package main

import (
	"fmt"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

// textCodec turns script text into block payloads and back.
type textCodec struct {
	name string
	enc  encoding.Encoding // nil: raw UTF-8
}

var textCodecs = map[string]textCodec{
	"utf-8":        {name: "utf-8"},
	"utf-16le":     {name: "utf-16le", enc: unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)},
	"utf-16be":     {name: "utf-16be", enc: unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM)},
	"latin-1":      {name: "latin-1", enc: charmap.ISO8859_1},
	"windows-1252": {name: "windows-1252", enc: charmap.Windows1252},
}

// lookupCodec resolves a codec name; "utf8", "latin1" and case variants are
// accepted.
func lookupCodec(name string) (textCodec, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	switch key {
	case "", "utf8":
		key = "utf-8"
	case "latin1", "iso-8859-1":
		key = "latin-1"
	case "utf16le", "utf-16":
		key = "utf-16le"
	case "utf16be":
		key = "utf-16be"
	case "cp1252":
		key = "windows-1252"
	}
	c, ok := textCodecs[key]
	if !ok {
		return textCodec{}, fmt.Errorf("unknown text encoding %q", name)
	}
	return c, nil
}

func (c textCodec) encode(s string) ([]byte, error) {
	if c.enc == nil {
		return []byte(s), nil
	}
	b, err := c.enc.NewEncoder().String(s)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", c.name, err)
	}
	return []byte(b), nil
}

// decode renders a block payload as text, dropping the zero padding blocks
// carry past their payload.
func (c textCodec) decode(b []byte) (string, error) {
	s := string(b)
	if c.enc != nil {
		var err error
		if s, err = c.enc.NewDecoder().String(s); err != nil {
			return "", fmt.Errorf("decode %s: %w", c.name, err)
		}
	}
	return strings.TrimRight(s, "\x00"), nil
}
