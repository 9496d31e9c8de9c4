package alert

import (
	"context"
	"log/slog"
	"time"

	"github.com/khanghh/kaudit/internal/metrics"
	"github.com/khanghh/kaudit/model"
	"github.com/khanghh/kaudit/params"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

type Config struct {
	Timeout        time.Duration `mapstructure:"timeout"`
	RatePerMinute  int           `mapstructure:"ratePerMinute"`
	MaxConcurrency int           `mapstructure:"maxConcurrency"`
}

func (c *Config) Sanitize() {
	if c.Timeout <= 0 {
		c.Timeout = params.AlertChannelTimeout
	}
	if c.RatePerMinute <= 0 {
		c.RatePerMinute = params.AlertRatePerMinute
	}
	if c.MaxConcurrency <= 0 {
		c.MaxConcurrency = params.AlertMaxConcurrency
	}
}

type route struct {
	channel  Channel
	minLevel model.Severity
	limiter  *rate.Limiter
}

// Dispatcher fans an alert out to every registered channel concurrently.
type Dispatcher struct {
	cfg    Config
	routes []*route
}

// Register adds ch for alerts at or above minLevel. Register is not safe to
// call concurrently with Dispatch.
func (d *Dispatcher) Register(ch Channel, minLevel model.Severity) {
	perSecond := rate.Limit(float64(d.cfg.RatePerMinute) / 60)
	d.routes = append(d.routes, &route{
		channel:  ch,
		minLevel: minLevel,
		limiter:  rate.NewLimiter(perSecond, d.cfg.RatePerMinute),
	})
}

func (d *Dispatcher) Channels() []string {
	names := make([]string, 0, len(d.routes))
	for _, r := range d.routes {
		names = append(names, r.channel.Name())
	}
	return names
}

// Dispatch sends a to each eligible channel with its own timeout and returns
// one *DeliveryError per failed channel. sent counts successful deliveries.
func (d *Dispatcher) Dispatch(ctx context.Context, a *Alert) (sent int, failures []error) {
	results := make([]error, len(d.routes))
	eligible := make([]bool, len(d.routes))

	var g errgroup.Group
	g.SetLimit(d.cfg.MaxConcurrency)
	for i, r := range d.routes {
		if a.Severity < r.minLevel {
			continue
		}
		eligible[i] = true
		g.Go(func() error {
			results[i] = d.deliver(ctx, r, a)
			return nil
		})
	}
	g.Wait()

	for i, err := range results {
		if !eligible[i] {
			continue
		}
		name := d.routes[i].channel.Name()
		if err != nil {
			metrics.Inc(metrics.AlertDeliveries, metrics.L("channel", name), metrics.L("result", "failure"))
			slog.Warn("Alert delivery failed", "channel", name, "critical_event_id", a.CriticalEventID, "error", err)
			failures = append(failures, &DeliveryError{Channel: name, Err: err})
			continue
		}
		metrics.Inc(metrics.AlertDeliveries, metrics.L("channel", name), metrics.L("result", "success"))
		sent++
	}
	return sent, failures
}

func (d *Dispatcher) deliver(ctx context.Context, r *route, a *Alert) error {
	if !r.limiter.Allow() {
		return ErrThrottled
	}
	ctx, cancel := context.WithTimeout(ctx, d.cfg.Timeout)
	defer cancel()
	return r.channel.Send(ctx, a)
}

func NewDispatcher(cfg Config) *Dispatcher {
	cfg.Sanitize()
	return &Dispatcher{cfg: cfg}
}
