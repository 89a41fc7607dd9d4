package httpapi

import (
	"net"
	"sync"
)

// Sessions stores Graph bearer tokens per remote host. It belongs to the
// transport; core services only ever see the token as an explicit value.
type Sessions struct {
	mu     sync.RWMutex
	tokens map[string]string
}

func NewSessions() *Sessions {
	return &Sessions{tokens: make(map[string]string)}
}

func (s *Sessions) Set(host, token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[host] = token
}

func (s *Sessions) Get(host string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	token, ok := s.tokens[host]
	return token, ok
}

func (s *Sessions) Delete(host string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tokens, host)
}

func remoteHost(remoteAddr string) string {
	host, _, err := net.SplitHostPort(remoteAddr)
	if err != nil {
		return remoteAddr
	}
	return host
}
