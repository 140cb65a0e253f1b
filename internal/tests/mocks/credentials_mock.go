package mocks

import "sync"

// CredentialsMock is a fixed service-to-secret table.
type CredentialsMock struct {
	mu   sync.Mutex
	Keys map[string]string
}

func (c *CredentialsMock) Get(service string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	k, ok := c.Keys[service]
	return k, ok && k != ""
}
