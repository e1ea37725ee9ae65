package processor

import (
	"errors"
	"time"

	"github.com/RodolfoRXXX/project-voley-sub000/internal/allocation"
	"github.com/RodolfoRXXX/project-voley-sub000/internal/metrics"
	"github.com/RodolfoRXXX/project-voley-sub000/internal/notifier"
	"github.com/RodolfoRXXX/project-voley-sub000/internal/positions"
	"github.com/RodolfoRXXX/project-voley-sub000/internal/pubsub"
	"github.com/RodolfoRXXX/project-voley-sub000/internal/teams"
)

var (
	// ErrNotAdmin is returned when the caller is not the group admin.
	ErrNotAdmin = errors.New("caller is not the group admin")
	// ErrMatchNotOpen is returned when a join arrives for a non-open match.
	ErrMatchNotOpen = errors.New("match is not open for joining")
	// ErrMatchOver is returned for mutations on a played or cancelled match.
	ErrMatchOver = errors.New("match is already over")
	// ErrAlreadyWithdrawn is returned when the participation was removed before.
	ErrAlreadyWithdrawn = errors.New("participation already withdrawn")
	// ErrPaymentsPending is returned when closing with unconfirmed starter payments.
	ErrPaymentsPending = errors.New("starters with pending payments remain")
	// ErrReopenAfterStart is returned when reopening a match past its start time.
	ErrReopenAfterStart = errors.New("cannot reopen a match after its start time")
	// ErrInvalidPaymentStatus is returned for unknown payment status values.
	ErrInvalidPaymentStatus = errors.New("invalid payment status")
)

// Processor orchestrates match lifecycle, roster allocation and notifications.
type Processor struct {
	store       Store
	guard       Guard
	engine      *allocation.Engine
	partitioner *teams.Partitioner
	catalog     *positions.Catalog
	notifier    notifier.Notifier
	metrics     metrics.Metrics
	pubSub      pubsub.PubSubClient
	leadTime    time.Duration
	now         func() time.Time
}

// Option configures a Processor.
type Option func(*Processor)

// WithClock overrides the processor's time source.
func WithClock(now func() time.Time) Option {
	return func(p *Processor) {
		p.now = now
	}
}

// WithLeadTime sets how long before start time joining closes.
func WithLeadTime(d time.Duration) Option {
	return func(p *Processor) {
		p.leadTime = d
	}
}

// CreateMatchInput carries the admin-provided parameters for a new match.
type CreateMatchInput struct {
	GroupID      string
	CallerID     string
	StartTime    int64
	Quotas       map[string]int
	TeamCount    int
	SubsCapacity int
}
