package risk

import (
	"strings"

	"github.com/khanghh/kaudit/model"
)

const MaxScore = 100

type Weights struct {
	FailureStep       int      `mapstructure:"failureStep"`
	FailureCap        int      `mapstructure:"failureCap"`
	OffHours          int      `mapstructure:"offHours"`
	NewGeo            int      `mapstructure:"newGeo"`
	Restricted        int      `mapstructure:"restricted"`
	Confidential      int      `mapstructure:"confidential"`
	AdminRole         int      `mapstructure:"adminRole"`
	Impersonation     int      `mapstructure:"impersonation"`
	AdminRoles        []string `mapstructure:"adminRoles"`
	BusinessStartHour int      `mapstructure:"businessStartHour"`
	BusinessEndHour   int      `mapstructure:"businessEndHour"`
	MinProfileSamples int64    `mapstructure:"minProfileSamples"`
	RareHourRatio     float64  `mapstructure:"rareHourRatio"`
}

func DefaultWeights() Weights {
	return Weights{
		FailureStep:       10,
		FailureCap:        40,
		OffHours:          15,
		NewGeo:            15,
		Restricted:        25,
		Confidential:      10,
		AdminRole:         15,
		Impersonation:     10,
		AdminRoles:        []string{"admin", "root", "superuser", "security_admin"},
		BusinessStartHour: 6,
		BusinessEndHour:   22,
		MinProfileSamples: 20,
		RareHourRatio:     0.05,
	}
}

// Signal is one additive contribution to a score.
type Signal struct {
	Name  string `json:"name"`
	Score int    `json:"score"`
}

// History is a point-in-time view of an actor's recent behaviour.
type History struct {
	RecentAuthFailures int64
	HourCounts         [24]int64
	TotalEvents        int64
	KnownCountries     map[string]struct{}
}

// Scorer is stateless, equal inputs always produce equal scores.
type Scorer struct {
	weights Weights
}

func (s *Scorer) Score(ev *model.AuditEvent, h History) uint8 {
	total := 0
	for _, sig := range s.Signals(ev, h) {
		total += sig.Score
	}
	if total > MaxScore {
		total = MaxScore
	}
	if total < 0 {
		total = 0
	}
	return uint8(total)
}

func (s *Scorer) Signals(ev *model.AuditEvent, h History) []Signal {
	w := s.weights
	var signals []Signal
	add := func(name string, score int) {
		if score > 0 {
			signals = append(signals, Signal{Name: name, Score: score})
		}
	}

	failures := h.RecentAuthFailures
	if ev.EventType == model.EventTypeAuthentication && ev.Result.Failed() {
		failures++
	}
	if failures > 0 {
		add("auth_failures", min(int(failures)*w.FailureStep, w.FailureCap))
	}

	if s.offHours(ev, h) {
		add("off_hours", w.OffHours)
	}

	if country := Country(ev.GeoLocation); country != "" && h.TotalEvents > 0 && len(h.KnownCountries) > 0 {
		if _, known := h.KnownCountries[country]; !known {
			add("new_geo", w.NewGeo)
		}
	}

	switch ev.Sensitivity {
	case model.SensitivityRestricted:
		add("restricted_data", w.Restricted)
	case model.SensitivityConfidential:
		add("confidential_data", w.Confidential)
	}

	if ev.HasRole(w.AdminRoles...) {
		add("admin_role", w.AdminRole)
	}
	if ev.OnBehalfOf != "" {
		add("impersonation", w.Impersonation)
	}
	return signals
}

// offHours prefers the actor's own access profile and falls back to fixed
// business hours while the profile is too small.
func (s *Scorer) offHours(ev *model.AuditEvent, h History) bool {
	hour := ev.Timestamp.UTC().Hour()
	if h.TotalEvents >= s.weights.MinProfileSamples && h.TotalEvents > 0 {
		ratio := float64(h.HourCounts[hour]) / float64(h.TotalEvents)
		return ratio < s.weights.RareHourRatio
	}
	return hour < s.weights.BusinessStartHour || hour >= s.weights.BusinessEndHour
}

// Country extracts the ISO country code from "CC" or "CC/Region".
func Country(geo string) string {
	if geo == "" {
		return ""
	}
	cc, _, _ := strings.Cut(geo, "/")
	return strings.ToUpper(strings.TrimSpace(cc))
}

func NewScorer(weights Weights) *Scorer {
	return &Scorer{weights: weights}
}
