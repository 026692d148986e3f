// Package connectivity reports whether the person provider is reachable.
package connectivity

import (
	"context"
	"fmt"
	"net"
	"net/url"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

// Checker is a synchronously readable reachability signal.
type Checker interface {
	Reachable() bool
}

// Static is a fixed signal.
type Static bool

func (s Static) Reachable() bool { return bool(s) }

type dialFunc func(ctx context.Context, network, addr string) (net.Conn, error)

// Probe dials the provider host over TCP on an interval. It reports
// reachable until the first check says otherwise.
type Probe struct {
	addr     string
	interval time.Duration
	timeout  time.Duration
	dial     dialFunc
	log      *zerolog.Logger

	reachable atomic.Bool
}

// NewProbe builds a probe for the host of rawURL.
func NewProbe(rawURL string, interval, timeout time.Duration, log *zerolog.Logger) (*Probe, error) {
	addr, err := hostPort(rawURL)
	if err != nil {
		return nil, err
	}
	d := &net.Dialer{}
	p := &Probe{
		addr:     addr,
		interval: interval,
		timeout:  timeout,
		dial:     d.DialContext,
		log:      log,
	}
	p.reachable.Store(true)
	return p, nil
}

func hostPort(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("invalid provider url: %w", err)
	}
	if u.Hostname() == "" {
		return "", fmt.Errorf("provider url %q has no host", rawURL)
	}
	port := u.Port()
	if port == "" {
		switch u.Scheme {
		case "http":
			port = "80"
		default:
			port = "443"
		}
	}
	return net.JoinHostPort(u.Hostname(), port), nil
}

func (p *Probe) Reachable() bool { return p.reachable.Load() }

func (p *Probe) Addr() string { return p.addr }

// Check dials once and records the result.
func (p *Probe) Check(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	conn, err := p.dial(ctx, "tcp", p.addr)
	ok := err == nil
	if ok {
		conn.Close()
	}

	if prev := p.reachable.Swap(ok); prev != ok {
		if ok {
			p.log.Info().Str("addr", p.addr).Msg("provider reachable again")
		} else {
			p.log.Warn().Err(err).Str("addr", p.addr).Msg("provider unreachable")
		}
	}
	return ok
}

// Run checks immediately and then on every interval until ctx is done.
func (p *Probe) Run(ctx context.Context) error {
	p.Check(ctx)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			p.Check(ctx)
		}
	}
}
