package config

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"gopkg.in/ini.v1"

	"cursorvip/internal/fileutil"
)

// Lines starting with # or ; are comments; a # inside a value is literal.
// Quotes around a value are part of it, a trailing backslash is not a line
// continuation, and indented lines continue the previous value.
var iniOptions = ini.LoadOptions{
	InsensitiveKeys:            true,
	IgnoreInlineComment:        true,
	IgnoreContinuation:         true,
	PreserveSurroundedQuote:    true,
	AllowPythonMultilineValues: true,
}

// Parse decodes INI data. Keys of the DEFAULT section are not a section of
// their own: they are copied into every section that does not set them.
func Parse(data []byte) (*Config, error) {
	file, err := ini.LoadSources(iniOptions, data)
	if err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	var defaults []*ini.Key
	cfg := New()
	for _, sec := range file.Sections() {
		if sec.Name() == ini.DefaultSection {
			defaults = sec.Keys()
			continue
		}
		out := cfg.AddSection(sec.Name())
		for _, key := range sec.Keys() {
			out.Set(key.Name(), key.Value())
		}
	}

	for _, s := range cfg.sections {
		for _, key := range defaults {
			if _, ok := s.Get(key.Name()); !ok {
				s.Set(key.Name(), key.Value())
			}
		}
	}
	return cfg, nil
}

// Read parses the file at path.
func Read(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// WriteTo encodes c as INI.
func (c *Config) WriteTo(w io.Writer) (int64, error) {
	file := ini.Empty(iniOptions)
	for _, s := range c.sections {
		sec, err := file.NewSection(s.name)
		if err != nil {
			return 0, fmt.Errorf("encode section %q: %w", s.name, err)
		}
		for _, key := range s.keys {
			if _, err := sec.NewKey(key, s.values[key]); err != nil {
				return 0, fmt.Errorf("encode key %s.%s: %w", s.name, key, err)
			}
		}
	}
	return file.WriteTo(w)
}

// Encode returns the INI bytes of c. It fails when the encoding does not
// decode back to c, so a value INI cannot carry never reaches disk.
func (c *Config) Encode() ([]byte, error) {
	var buf bytes.Buffer
	if _, err := c.WriteTo(&buf); err != nil {
		return nil, err
	}
	decoded, err := Parse(buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("encode config: value cannot be stored as INI: %w", err)
	}
	if !decoded.Equal(c) {
		return nil, fmt.Errorf("encode config: %s cannot be stored as INI", firstDifference(c, decoded))
	}
	return buf.Bytes(), nil
}

// Write atomically replaces path with the encoded config.
func Write(path string, c *Config) error {
	data, err := c.Encode()
	if err != nil {
		return err
	}
	if err := fileutil.WriteFileAtomic(path, data, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// firstDifference names the first section or key whose decoded form differs.
func firstDifference(want, got *Config) string {
	for _, s := range want.sections {
		other := got.Section(s.name)
		if other == nil {
			return fmt.Sprintf("section %q", s.name)
		}
		for _, key := range s.keys {
			if value, ok := other.Get(key); !ok || value != s.values[key] {
				return fmt.Sprintf("value of %s.%s", s.name, key)
			}
		}
	}
	return "configuration"
}
