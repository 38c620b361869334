// Package properties provides read-at-request-time access to secret
// settings such as the notification address, so they can be rotated without
// restarting the server.
package properties

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// NotificationEmail is the property holding the address new submissions are mailed to
const NotificationEmail = "NOTIFICATION_EMAIL"

// Store looks up a property. A missing or blank property reports ok=false.
type Store interface {
	Get(key string) (value string, ok bool, err error)
}

// Env reads properties from the process environment on every call
type Env struct{}

func (Env) Get(key string) (string, bool, error) {
	v, ok := os.LookupEnv(key)
	v = strings.TrimSpace(v)
	return v, ok && v != "", nil
}

// Dir reads each property from a file named after the lower-cased key,
// the layout used by mounted secrets (e.g. /run/secrets/notification_email).
type Dir string

func (d Dir) Get(key string) (string, bool, error) {
	b, err := os.ReadFile(filepath.Join(string(d), strings.ToLower(key)))
	if errors.Is(err, fs.ErrNotExist) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("error reading property %s: %w", key, err)
	}
	v := strings.TrimSpace(string(b))
	return v, v != "", nil
}

// Static is a fixed property set
type Static map[string]string

func (s Static) Get(key string) (string, bool, error) {
	v := strings.TrimSpace(s[key])
	return v, v != "", nil
}

// Chain returns the first store that has the property
type Chain []Store

func (c Chain) Get(key string) (string, bool, error) {
	for _, s := range c {
		v, ok, err := s.Get(key)
		if err != nil || ok {
			return v, ok, err
		}
	}
	return "", false, nil
}
