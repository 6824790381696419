package session

import (
	"os/user"
	"strings"
	"sync"
)

const fallbackUser = "default"

// Provider reports who is using the application right now. An empty
// result means nobody is logged in and no alarm should fire.
type Provider interface {
	ActiveUser() string
}

type Static string

func (s Static) ActiveUser() string {
	return string(s)
}

// Current is a Provider whose user can be switched at runtime.
type Current struct {
	mu   sync.RWMutex
	user string
}

func NewCurrent(user string) *Current {
	return &Current{user: user}
}

func (c *Current) ActiveUser() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.user
}

func (c *Current) Set(user string) {
	c.mu.Lock()
	c.user = strings.TrimSpace(user)
	c.mu.Unlock()
}

// Logout clears the active user.
func (c *Current) Logout() {
	c.Set("")
}

// Resolve picks the configured user, falling back to the OS account name.
func Resolve(configured string) string {
	if v := strings.TrimSpace(configured); v != "" {
		return v
	}
	if u, err := user.Current(); err == nil && u.Username != "" {
		return u.Username
	}
	return fallbackUser
}
