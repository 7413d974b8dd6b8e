package memory

import (
	"context"
	"sync"
	"time"
)

type item struct {
	token string
	exp   time.Time
}

// Client keeps the session registry in process memory. Entries expire with
// their token and the whole registry is lost on restart.
type Client struct {
	mu       sync.Mutex
	sessions map[string]item
}

func New() *Client {
	return &Client{sessions: make(map[string]item)}
}

func (c *Client) Close() error { return nil }

func (c *Client) PutIfAbsent(ctx context.Context, userID, token string, ttl time.Duration) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if v, ok := c.sessions[userID]; ok && time.Now().Before(v.exp) {
		return false, nil
	}
	c.sessions[userID] = item{token: token, exp: time.Now().Add(ttl)}
	return true, nil
}

func (c *Client) Get(ctx context.Context, userID string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.sessions[userID]
	if !ok {
		return "", nil
	}
	if time.Now().After(v.exp) {
		delete(c.sessions, userID)
		return "", nil
	}
	return v.token, nil
}

func (c *Client) Delete(ctx context.Context, userID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.sessions, userID)
	return nil
}
