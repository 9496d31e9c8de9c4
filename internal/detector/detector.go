package detector

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/khanghh/kaudit/internal/alert"
	"github.com/khanghh/kaudit/internal/metrics"
	"github.com/khanghh/kaudit/model"
	"github.com/khanghh/kaudit/params"
	"gorm.io/datatypes"
)

type Config struct {
	QueueSize           int           `mapstructure:"queueSize"`
	BruteForceThreshold int           `mapstructure:"bruteForceThreshold"`
	BruteForceWindow    time.Duration `mapstructure:"bruteForceWindow"`
	HighRiskThreshold   uint8         `mapstructure:"highRiskThreshold"`
	SensitiveActions    []string      `mapstructure:"sensitiveActions"`
}

func (c *Config) Sanitize() {
	if c.QueueSize <= 0 {
		c.QueueSize = params.DetectorQueueSize
	}
	if c.BruteForceThreshold <= 0 {
		c.BruteForceThreshold = params.BruteForceThreshold
	}
	if c.BruteForceWindow <= 0 {
		c.BruteForceWindow = params.BruteForceWindow
	}
	if c.HighRiskThreshold == 0 {
		c.HighRiskThreshold = params.HighRiskThreshold
	}
}

// Dispatcher delivers alerts for new critical events.
type Dispatcher interface {
	Dispatch(ctx context.Context, a *alert.Alert) (int, []error)
}

// Detector evaluates admitted events off the ingestion path. Events are
// queued by Observe and processed on a single goroutine.
type Detector struct {
	rules      []Rule
	repo       Repository
	dispatcher Dispatcher
	now        func() time.Time

	queue     chan *model.AuditEvent
	stopCh    chan struct{}
	doneCh    chan struct{}
	startOnce sync.Once
	stopOnce  sync.Once
}

// Observe queues ev for detection without blocking. When the queue is full
// the event is skipped.
func (d *Detector) Observe(ev *model.AuditEvent) {
	select {
	case d.queue <- ev:
	default:
		metrics.Inc(metrics.DetectionsDropped)
		slog.Warn("Detector queue full, event skipped", "event_id", ev.ID, "type", ev.EventType)
	}
}

// Process evaluates ev against every rule and records at most one critical
// event for it. It returns nil when nothing matched or the event was already
// recorded.
func (d *Detector) Process(ctx context.Context, ev *model.AuditEvent) (*model.CriticalEvent, error) {
	var findings []*Finding
	for _, rule := range d.rules {
		f, err := rule.Evaluate(ctx, ev)
		if err != nil {
			slog.Warn("Detection rule failed", "rule", rule.Name(), "event_id", ev.ID, "error", err)
			continue
		}
		if f != nil {
			findings = append(findings, f)
		}
	}
	if len(findings) == 0 {
		return nil, nil
	}

	// highest level wins, rule order breaks ties
	sort.SliceStable(findings, func(i, j int) bool {
		return findings[i].Level > findings[j].Level
	})
	top := findings[0]
	var others []string
	for _, f := range findings[1:] {
		others = append(others, f.Rule+": "+f.Summary)
	}

	ce := &model.CriticalEvent{
		SourceEventID: ev.ID,
		Rule:          top.Rule,
		ThreatType:    top.ThreatType,
		ThreatLevel:   top.Level,
		Status:        model.CriticalStatusDetected,
		Subject:       top.Subject,
		Summary:       top.Summary,
		Findings:      datatypes.JSONSlice[string](others),
		DedupKey:      ev.ID,
		DetectedAt:    d.now().UTC(),
	}
	created, err := d.repo.Create(ctx, ce)
	if err != nil {
		releaseFindings(ctx, findings)
		return nil, fmt.Errorf("record critical event: %w", err)
	}
	if !created {
		slog.Debug("Critical event already recorded", "event_id", ev.ID)
		return nil, nil
	}
	metrics.Inc(metrics.CriticalEventsCreated, metrics.L("rule", ce.Rule))
	slog.Info("Critical event detected", "id", ce.ID, "rule", ce.Rule, "event_id", ev.ID, "level", ce.ThreatLevel.String())

	d.notify(ctx, ce)
	return ce, nil
}

// releaseFindings lets the next matching event trigger the rules again.
func releaseFindings(ctx context.Context, findings []*Finding) {
	for _, f := range findings {
		if f.release == nil {
			continue
		}
		if err := f.release(ctx); err != nil {
			slog.Warn("Failed to release detection rule state", "rule", f.Rule, "subject", f.Subject, "error", err)
		}
	}
}

func (d *Detector) notify(ctx context.Context, ce *model.CriticalEvent) {
	if d.dispatcher == nil {
		return
	}
	sent, failures := d.dispatcher.Dispatch(ctx, alert.FromCriticalEvent(ce))
	var reasons []string
	for _, err := range failures {
		reasons = append(reasons, err.Error())
	}
	// an event whose alerts all failed stays detected so it remains visible
	alerted := sent > 0 || len(failures) == 0
	at := d.now().UTC()
	if err := d.repo.MarkAlerted(ctx, ce.ID, alerted, at, reasons); err != nil {
		slog.Error("Failed to record alert delivery", "id", ce.ID, "error", err)
		return
	}
	ce.AlertFailures = reasons
	if alerted {
		ce.Status = model.CriticalStatusAlerted
		ce.AlertedAt = &at
	}
}

func (d *Detector) Start() {
	d.startOnce.Do(func() {
		go d.loop()
	})
}

func (d *Detector) loop() {
	defer close(d.doneCh)
	for {
		select {
		case <-d.stopCh:
			d.drain()
			return
		case ev := <-d.queue:
			d.handle(ev)
		}
	}
}

// drain processes what was queued before Stop.
func (d *Detector) drain() {
	for {
		select {
		case ev := <-d.queue:
			d.handle(ev)
		default:
			return
		}
	}
}

func (d *Detector) handle(ev *model.AuditEvent) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if _, err := d.Process(ctx, ev); err != nil {
		slog.Error("Detection failed", "event_id", ev.ID, "error", err)
	}
}

func (d *Detector) Stop(ctx context.Context) error {
	d.stopOnce.Do(func() {
		close(d.stopCh)
	})
	d.startOnce.Do(func() { close(d.doneCh) })
	select {
	case <-d.doneCh:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

type Option func(*Detector)

func WithClock(now func() time.Time) Option {
	return func(d *Detector) { d.now = now }
}

func New(cfg Config, rules []Rule, repo Repository, dispatcher Dispatcher, opts ...Option) *Detector {
	cfg.Sanitize()
	d := &Detector{
		rules:      rules,
		repo:       repo,
		dispatcher: dispatcher,
		now:        time.Now,
		queue:      make(chan *model.AuditEvent, cfg.QueueSize),
		stopCh:     make(chan struct{}),
		doneCh:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}
