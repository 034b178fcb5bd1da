// Package token owns the CRM access lease: it renews the lease on a fixed
// schedule, persists the next renewal instant so a restart resumes the
// original schedule, and hands the current lease to the upstream client.
package token

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"crm-dashboard/pkg/httpclient"
)

// DeadlineStore is the durable single-record deadline storage.
type DeadlineStore interface {
	ReadDeadline(ctx context.Context) (time.Time, bool, error)
	WriteDeadline(ctx context.Context, deadline time.Time) error
}

// Config carries the static credentials for the refresh-token grant. None
// of these rotate at runtime.
type Config struct {
	TokenURL     string
	ClientID     string
	ClientSecret string
	RefreshToken string
	RedirectURL  string
	// Interval between renewals. Must be shorter than the real lease
	// validity so renewal lands with safety margin; 55m against the CRM's
	// 60-minute leases.
	Interval time.Duration
}

// DefaultInterval is the renewal interval when none is configured.
const DefaultInterval = 55 * time.Minute

// Scheduler renews the access lease ahead of expiry. Exactly one instance
// per process; the upstream client reads the lease through AccessToken.
type Scheduler struct {
	http  *httpclient.Client
	store DeadlineStore
	cfg   Config
	clock clockwork.Clock

	mu    sync.RWMutex
	token string
	timer clockwork.Timer
}

// NewScheduler wires a scheduler. The clock is injected so tests can drive
// the timers.
func NewScheduler(h *httpclient.Client, store DeadlineStore, cfg Config, clock clockwork.Clock) *Scheduler {
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultInterval
	}
	return &Scheduler{http: h, store: store, cfg: cfg, clock: clock}
}

// AccessToken returns the current lease. A renewal may replace it between
// two reads; in-flight requests holding the old lease get an auth-expired
// response and fail that one request.
func (s *Scheduler) AccessToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// Run reconciles the persisted deadline against the wall clock and either
// renews immediately or arms a timer for the remaining time. Called once at
// startup.
func (s *Scheduler) Run(ctx context.Context) error {
	deadline, created, err := s.store.ReadDeadline(ctx)
	if err != nil {
		return fmt.Errorf("failed to read renewal deadline: %w", err)
	}
	if created {
		return s.renewCycle(ctx)
	}

	remaining := deadline.Sub(s.clock.Now())
	if remaining > 0 {
		log.Printf("🔑 access token renewal resumes in %.2f min", remaining.Minutes())
		s.armTimer(remaining)
		return nil
	}
	return s.renewCycle(ctx)
}

// Stop cancels any pending renewal. Owned by the process entry point.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clearTimerLocked()
}

// renewCycle is one full renewal: request a fresh lease, install it, arm
// the next timer, persist the new deadline. The deadline write must land
// before the cycle counts as complete; a crash in between only makes the
// next start renew early, never late. On any failure the armed timer is
// cleared and the error surfaces with no retry loop: an un-renewed lease
// makes upstream calls fail auth, which upper layers must see.
func (s *Scheduler) renewCycle(ctx context.Context) error {
	newToken, err := s.requestToken(ctx)
	if err != nil {
		s.Stop()
		return fmt.Errorf("failed to renew access token: %w", err)
	}

	s.mu.Lock()
	s.token = newToken
	s.mu.Unlock()

	s.armTimer(s.cfg.Interval)

	deadline := s.clock.Now().Add(s.cfg.Interval)
	if err := s.store.WriteDeadline(ctx, deadline); err != nil {
		s.Stop()
		return fmt.Errorf("failed to persist renewal deadline: %w", err)
	}

	log.Printf("🔑 access token renewed, next renewal in %.2f min", s.cfg.Interval.Minutes())
	return nil
}

// armTimer replaces the pending renewal timer. At most one timer is armed
// at any time.
func (s *Scheduler) armTimer(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clearTimerLocked()
	s.timer = s.clock.AfterFunc(d, func() {
		if err := s.renewCycle(context.Background()); err != nil {
			log.Printf("❌ scheduled token renewal failed: %v", err)
		}
	})
}

func (s *Scheduler) clearTimerLocked() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

// requestToken performs the refresh-token grant against the CRM token
// endpoint.
func (s *Scheduler) requestToken(ctx context.Context) (string, error) {
	resp, err := s.http.PerformRequest(ctx, http.MethodPost, s.cfg.TokenURL, nil, httpclient.RequestOptions{
		Params: map[string]string{
			"refresh_token": s.cfg.RefreshToken,
			"client_id":     s.cfg.ClientID,
			"client_secret": s.cfg.ClientSecret,
			"redirect_uri":  s.cfg.RedirectURL,
			"grant_type":    "refresh_token",
			"scope":         "ZohoCRM.modules.all",
		},
	})
	if err != nil {
		return "", err
	}
	if resp.Status < 200 || resp.Status > 299 {
		return "", fmt.Errorf("token endpoint returned status %d", resp.Status)
	}

	var body struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.Unmarshal(resp.Body, &body); err != nil {
		return "", fmt.Errorf("failed to decode token response: %w", err)
	}
	if body.AccessToken == "" {
		return "", fmt.Errorf("token endpoint returned no access token")
	}
	return body.AccessToken, nil
}
