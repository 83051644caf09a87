package auth

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

type directoryFile struct {
	Users []User `yaml:"users"`
}

// LoadYAMLStore reads a user directory file:
//
//	users:
//	  - id: u-1
//	    email: ada@example.com
//	    name: Ada
//	    email_verified: true
//	    password_hash: $2a$10$...
func LoadYAMLStore(path string) (*MemoryStore, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read user directory: %w", err)
	}
	return ParseYAMLStore(raw)
}

// ParseYAMLStore parses the LoadYAMLStore format. Unknown keys, entries
// without id or email and duplicate ids or emails are rejected.
func ParseYAMLStore(raw []byte) (*MemoryStore, error) {
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)

	var file directoryFile
	if err := dec.Decode(&file); err != nil && !errors.Is(err, io.EOF) {
		return nil, errors.Join(ErrInvalidDirectory, err)
	}

	ids := make(map[string]struct{}, len(file.Users))
	emails := make(map[string]struct{}, len(file.Users))
	for i, u := range file.Users {
		email := NormalizeEmail(u.Email)
		switch {
		case u.ID == "" || email == "":
			return nil, fmt.Errorf("%w: entry %d needs id and email", ErrInvalidDirectory, i)
		case has(ids, u.ID):
			return nil, fmt.Errorf("%w: duplicate id %q", ErrInvalidDirectory, u.ID)
		case has(emails, email):
			return nil, fmt.Errorf("%w: duplicate email %q", ErrInvalidDirectory, email)
		}
		ids[u.ID] = struct{}{}
		emails[email] = struct{}{}
	}

	return NewMemoryStore(file.Users...), nil
}

func has(set map[string]struct{}, key string) bool {
	_, ok := set[key]
	return ok
}
