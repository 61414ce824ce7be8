// Package monitor keeps a periodic eye on the backend so the health
// endpoint and page banners can report upstream availability without
// probing on every request.
package monitor

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

const (
	StatusUnknown = "unknown"
	StatusUp      = "up"
	StatusDown    = "down"
)

// Monitor probes the backend base URL on a fixed schedule.
type Monitor struct {
	url    string
	client *http.Client
	log    *logrus.Entry
	cron   *cron.Cron

	mu        sync.RWMutex
	status    string
	checkedAt time.Time
}

// New creates a Monitor probing baseURL every period.
func New(baseURL string, log *logrus.Entry) *Monitor {
	return &Monitor{
		url:    baseURL,
		client: &http.Client{Timeout: 5 * time.Second},
		log:    log,
		status: StatusUnknown,
	}
}

// Start probes once immediately and then on the cron schedule.
func (m *Monitor) Start(period time.Duration) error {
	m.probe()

	c := cron.New()
	if _, err := c.AddFunc(fmt.Sprintf("@every %s", period), m.probe); err != nil {
		return fmt.Errorf("scheduling backend probe: %w", err)
	}
	c.Start()
	m.cron = c
	return nil
}

// Stop halts the probe schedule.
func (m *Monitor) Stop() {
	if m.cron != nil {
		m.cron.Stop()
	}
}

// Status returns the last observed backend state and when it was observed.
func (m *Monitor) Status() (string, time.Time) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.status, m.checkedAt
}

func (m *Monitor) probe() {
	status := StatusUp
	resp, err := m.client.Get(m.url + "/")
	if err != nil {
		status = StatusDown
	} else {
		resp.Body.Close()
		if resp.StatusCode >= 500 {
			status = StatusDown
		}
	}

	m.mu.Lock()
	prev := m.status
	m.status = status
	m.checkedAt = time.Now()
	m.mu.Unlock()

	if prev != status && m.log != nil {
		m.log.WithField("status", status).Info("backend availability changed")
	}
}
