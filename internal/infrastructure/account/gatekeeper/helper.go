package gatekeeper

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
)

func (c *Client) recordCircuitResult(err error) {
	if !c.circuitEnabled || c.breaker == nil {
		return
	}
	if err == nil {
		c.breaker.RecordSuccess()
		return
	}
	if isCircuitFailure(err) {
		c.breaker.RecordFailure()
		return
	}
	c.breaker.RecordSuccess()
}

func isCircuitFailure(err error) bool {
	return errors.Is(err, errGatekeeperTransient)
}

// Tokens never enter the cache in plain form.
func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

func buildURL(baseURL, path string) string {
	baseURL = strings.TrimSuffix(strings.TrimSpace(baseURL), "/")
	path = strings.TrimSpace(path)
	if path == "" {
		return baseURL
	}
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	return baseURL + path
}
