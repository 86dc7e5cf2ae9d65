package config

// Section is a named, ordered group of key/value settings.
type Section struct {
	name   string
	keys   []string
	values map[string]string
}

// Config is an ordered mapping from section name to Section.
//
// Section names are case-sensitive. Keys are case-insensitive and stored in
// lower case.
type Config struct {
	sections []*Section
}

// New returns an empty Config.
func New() *Config {
	return &Config{}
}

// Sections returns the section names in file order.
func (c *Config) Sections() []string {
	names := make([]string, 0, len(c.sections))
	for _, s := range c.sections {
		names = append(names, s.name)
	}
	return names
}

// Section returns the named section or nil.
func (c *Config) Section(name string) *Section {
	name = normalizeSection(name)
	for _, s := range c.sections {
		if s.name == name {
			return s
		}
	}
	return nil
}

// HasSection reports whether the named section exists.
func (c *Config) HasSection(name string) bool {
	return c.Section(name) != nil
}

// AddSection returns the named section, appending an empty one if needed.
func (c *Config) AddSection(name string) *Section {
	name = normalizeSection(name)
	if s := c.Section(name); s != nil {
		return s
	}
	s := &Section{name: name, values: make(map[string]string)}
	c.sections = append(c.sections, s)
	return s
}

// RemoveSection deletes the named section and reports whether it existed.
func (c *Config) RemoveSection(name string) bool {
	name = normalizeSection(name)
	for i, s := range c.sections {
		if s.name == name {
			c.sections = append(c.sections[:i], c.sections[i+1:]...)
			return true
		}
	}
	return false
}

// Get returns the raw value of section.key.
func (c *Config) Get(section, key string) (string, bool) {
	s := c.Section(section)
	if s == nil {
		return "", false
	}
	return s.Get(key)
}

// Set stores section.key, creating the section when missing.
func (c *Config) Set(section, key, value string) {
	c.AddSection(section).Set(key, value)
}

// Clone returns a deep copy.
func (c *Config) Clone() *Config {
	out := &Config{sections: make([]*Section, 0, len(c.sections))}
	for _, s := range c.sections {
		cp := &Section{
			name:   s.name,
			keys:   append([]string(nil), s.keys...),
			values: make(map[string]string, len(s.values)),
		}
		for k, v := range s.values {
			cp.values[k] = v
		}
		out.sections = append(out.sections, cp)
	}
	return out
}

// Equal reports whether both configs hold the same sections, keys, and
// values in the same order.
func (c *Config) Equal(other *Config) bool {
	if c == nil || other == nil {
		return c == other
	}
	if len(c.sections) != len(other.sections) {
		return false
	}
	for i, s := range c.sections {
		o := other.sections[i]
		if s.name != o.name || len(s.keys) != len(o.keys) {
			return false
		}
		for j, key := range s.keys {
			if o.keys[j] != key || o.values[key] != s.values[key] {
				return false
			}
		}
	}
	return true
}

// ToMap flattens the config into nested maps for JSON and TOML encoders.
func (c *Config) ToMap() map[string]map[string]string {
	out := make(map[string]map[string]string, len(c.sections))
	for _, s := range c.sections {
		values := make(map[string]string, len(s.keys))
		for _, key := range s.keys {
			values[key] = s.values[key]
		}
		out[s.name] = values
	}
	return out
}

// Name returns the section name.
func (s *Section) Name() string {
	return s.name
}

// Keys returns the keys in insertion order.
func (s *Section) Keys() []string {
	return append([]string(nil), s.keys...)
}

// Len returns the number of keys.
func (s *Section) Len() int {
	return len(s.keys)
}

// Get returns the raw value stored under key.
func (s *Section) Get(key string) (string, bool) {
	value, ok := s.values[normalizeKey(key)]
	return value, ok
}

// Set stores value under key, keeping the original position of an existing key.
// Whitespace around the value and around each of its lines is dropped.
func (s *Section) Set(key, value string) {
	key = normalizeKey(key)
	if key == "" {
		return
	}
	value = normalizeValue(value)
	if _, exists := s.values[key]; !exists {
		s.keys = append(s.keys, key)
	}
	s.values[key] = value
}

// Delete removes key and reports whether it existed.
func (s *Section) Delete(key string) bool {
	key = normalizeKey(key)
	if _, exists := s.values[key]; !exists {
		return false
	}
	delete(s.values, key)
	for i, k := range s.keys {
		if k == key {
			s.keys = append(s.keys[:i], s.keys[i+1:]...)
			break
		}
	}
	return true
}
