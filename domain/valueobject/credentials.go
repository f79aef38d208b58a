package valueobject

import (
	"errors"
	"strings"
)

var ErrBlankCredentials = errors.New("username and password are required")

// Credentials is the username/password pair presented at login, checked for
// shape only; verification against the directory happens in the service.
type Credentials struct {
	username string
	password string
}

func NewCredentials(username, password string) (*Credentials, error) {
	if strings.TrimSpace(username) == "" || password == "" {
		return nil, ErrBlankCredentials
	}
	return &Credentials{
		username: username,
		password: password,
	}, nil
}

func (c *Credentials) Username() string {
	return c.username
}

func (c *Credentials) Password() string {
	return c.password
}
