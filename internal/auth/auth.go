// Package auth backs the operator dashboard's login: a single configured
// admin user, bcrypt-checked, with a random session token cookie.
package auth

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"time"

	"golang.org/x/crypto/bcrypt"

	"catalogsync/internal/cache"
	"catalogsync/internal/models"
)

const sessionTTL = 24 * time.Hour

var ErrInvalidCredentials = errors.New("auth: invalid credentials")

type Authenticator struct {
	cache            *cache.Cache
	adminUser        string
	adminPasswordHash []byte
}

// New hashes adminPassword once at startup; a bad hash is a configuration
// error worth failing fast on rather than re-hashing per login attempt.
func New(c *cache.Cache, adminUser, adminPassword string) (*Authenticator, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	return &Authenticator{cache: c, adminUser: adminUser, adminPasswordHash: hash}, nil
}

// Login verifies username/password and issues a new session token.
func (a *Authenticator) Login(username, password string) (*models.Session, error) {
	if username != a.adminUser {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(a.adminPasswordHash, []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := randomToken()
	if err != nil {
		return nil, err
	}
	now := time.Now()
	session := &models.Session{
		Token:     token,
		CreatedAt: now,
		ExpiresAt: now.Add(sessionTTL),
	}
	if err := a.cache.CreateSession(session); err != nil {
		return nil, err
	}
	return session, nil
}

func (a *Authenticator) Logout(token string) error {
	return a.cache.DeleteSession(token)
}

// Check resolves a session token to its session row, rejecting an expired
// one without relying on the sweep in DeleteExpiredSessions having run.
func (a *Authenticator) Check(token string) (*models.Session, error) {
	session, err := a.cache.GetSession(token)
	if err != nil {
		return nil, err
	}
	if session.Expired(time.Now()) {
		return nil, models.ErrNotFound
	}
	return session, nil
}

func randomToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
