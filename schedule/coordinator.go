package schedule

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/agntcy/tourist-scheduler/internal/metrics"
)

// Notifier delivers state-change events to the dashboard collaborator.
// Delivery is best-effort: the coordinator logs and swallows failures.
type Notifier interface {
	Notify(ctx context.Context, event any) error
}

// OutboundMessage is the sealed union of artifacts the coordinator returns
// to the immediate requester.
type OutboundMessage interface {
	outboundType() MessageType
}

func (p *ScheduleProposal) outboundType() MessageType { return MessageTypeScheduleProposal }
func (a *Acknowledgment) outboundType() MessageType   { return MessageTypeAcknowledgment }

// CoordinatorConfig holds configuration for the scheduler coordinator.
type CoordinatorConfig struct {
	// AgentID identifies this scheduler in logs and traces.
	AgentID string
	// NotifyTimeout bounds each dashboard notification.
	NotifyTimeout time.Duration
	// Logger is the logger instance.
	Logger *zap.Logger
}

// DefaultCoordinatorConfig returns a CoordinatorConfig with sensible defaults.
func DefaultCoordinatorConfig() *CoordinatorConfig {
	return &CoordinatorConfig{
		AgentID:       "tourist-scheduler",
		NotifyTimeout: 3 * time.Second,
		Logger:        zap.NewNop(),
	}
}

// Coordinator bridges inbound protocol messages to the store and the
// matching engine, and emits proposals to the requester plus best-effort
// notifications to the dashboard. It exclusively owns its Store.
type Coordinator struct {
	cfg       *CoordinatorConfig
	logger    *zap.Logger
	store     *Store
	dashboard Notifier
	collector *metrics.Collector
	tracer    trace.Tracer

	// mu serialises upsert + recompute + replace so two concurrent inbound
	// messages cannot interleave an upsert with a stale recompute.
	mu sync.Mutex
}

// NewCoordinator creates a coordinator over the given store. dashboard and
// collector may be nil.
func NewCoordinator(store *Store, dashboard Notifier, collector *metrics.Collector, cfg *CoordinatorConfig) *Coordinator {
	if cfg == nil {
		cfg = DefaultCoordinatorConfig()
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.NotifyTimeout <= 0 {
		cfg.NotifyTimeout = 3 * time.Second
	}
	return &Coordinator{
		cfg:       cfg,
		logger:    cfg.Logger.With(zap.String("component", "coordinator")),
		store:     store,
		dashboard: dashboard,
		collector: collector,
		tracer:    otel.Tracer("tourist-scheduler/coordinator"),
	}
}

// Store returns the store owned by this coordinator.
func (c *Coordinator) Store() *Store {
	return c.store
}

// HandleMessage decodes one inbound payload and dispatches it. Every valid
// message yields exactly one outbound artifact for the immediate requester:
// a ScheduleProposal for a tourist request, an Acknowledgment for a guide
// offer. Undecodable payloads and unknown types are logged and dropped; the
// returned error lets the transport map them to a protocol-level status.
func (c *Coordinator) HandleMessage(ctx context.Context, payload []byte) (OutboundMessage, error) {
	msg, err := DecodeMessage(payload)
	if err != nil {
		switch {
		case errors.Is(err, ErrUnknownMessageType):
			c.logger.Warn("ignoring message with unknown type", zap.Error(err))
			c.recordMessage("unknown", "ignored")
		default:
			c.logger.Warn("dropping undecodable message", zap.Error(err))
			c.recordMessage("invalid", "dropped")
		}
		return nil, err
	}

	switch m := msg.(type) {
	case *TouristRequest:
		return c.handleTouristRequest(ctx, m), nil
	case *GuideOffer:
		return c.handleGuideOffer(ctx, m), nil
	default:
		// Unreachable: DecodeMessage only produces the sealed union above.
		c.logger.Warn("ignoring message outside the inbound union",
			zap.String("type", m.messageType().String()))
		return nil, ErrUnknownMessageType
	}
}

// touristRequestEvent and guideOfferEvent restore the type discriminator
// when forwarding raw entities to the dashboard.
type touristRequestEvent struct {
	Type MessageType `json:"type"`
	*TouristRequest
}

type guideOfferEvent struct {
	Type MessageType `json:"type"`
	*GuideOffer
}

func (c *Coordinator) handleTouristRequest(ctx context.Context, req *TouristRequest) *ScheduleProposal {
	ctx, span := c.tracer.Start(ctx, "coordinator.tourist_request",
		trace.WithAttributes(attribute.String("tourist.id", req.TouristID)))
	defer span.End()

	start := time.Now()

	c.mu.Lock()
	c.store.UpsertTourist(*req)
	tourists := c.store.Tourists()
	guides := c.store.Guides()
	assignments := BuildSchedule(tourists, guides)
	c.store.ReplaceAssignments(assignments)
	c.mu.Unlock()

	c.recordMessage("TouristRequest", "ok")
	c.recordScheduleRun(time.Since(start), len(tourists), len(guides), len(assignments))

	c.notifyDashboard(ctx, touristRequestEvent{Type: MessageTypeTouristRequest, TouristRequest: req})

	mine := make([]Assignment, 0, 1)
	for _, a := range assignments {
		if a.TouristID == req.TouristID {
			mine = append(mine, a)
		}
	}
	proposal := NewScheduleProposal(req.TouristID, mine)

	c.notifyDashboard(ctx, proposal)
	c.notifyDashboard(ctx, c.store.Metrics())

	c.logger.Info("tourist request scheduled",
		zap.String("tourist_id", req.TouristID),
		zap.String("proposal_id", proposal.ProposalID),
		zap.Int("assignments", len(mine)),
		zap.Int("total_assignments", len(assignments)),
		zap.Duration("duration", time.Since(start)),
	)
	return proposal
}

func (c *Coordinator) handleGuideOffer(ctx context.Context, offer *GuideOffer) *Acknowledgment {
	ctx, span := c.tracer.Start(ctx, "coordinator.guide_offer",
		trace.WithAttributes(attribute.String("guide.id", offer.GuideID)))
	defer span.End()

	start := time.Now()

	c.mu.Lock()
	c.store.UpsertGuide(*offer)
	tourists := c.store.Tourists()
	guides := c.store.Guides()
	assignments := BuildSchedule(tourists, guides)
	c.store.ReplaceAssignments(assignments)
	c.mu.Unlock()

	c.recordMessage("GuideOffer", "ok")
	c.recordScheduleRun(time.Since(start), len(tourists), len(guides), len(assignments))

	c.notifyDashboard(ctx, guideOfferEvent{Type: MessageTypeGuideOffer, GuideOffer: offer})
	c.notifyDashboard(ctx, c.store.Metrics())

	c.logger.Info("guide offer registered",
		zap.String("guide_id", offer.GuideID),
		zap.Int("total_assignments", len(assignments)),
		zap.Duration("duration", time.Since(start)),
	)
	return NewAcknowledgment(offer.GuideID)
}

// notifyDashboard delivers one event best-effort. Failures never affect the
// primary response path.
func (c *Coordinator) notifyDashboard(ctx context.Context, event any) {
	if c.dashboard == nil {
		return
	}
	notifyCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.cfg.NotifyTimeout)
	defer cancel()

	if err := c.dashboard.Notify(notifyCtx, event); err != nil {
		c.logger.Warn("dashboard notification failed", zap.Error(err))
		c.recordDashboardNotification("error")
		return
	}
	c.recordDashboardNotification("ok")
}

func (c *Coordinator) recordMessage(msgType, status string) {
	if c.collector != nil {
		c.collector.RecordMessage(msgType, status)
	}
}

func (c *Coordinator) recordScheduleRun(d time.Duration, tourists, guides, assignments int) {
	if c.collector != nil {
		c.collector.RecordScheduleRun(d, tourists, guides, assignments)
	}
}

func (c *Coordinator) recordDashboardNotification(status string) {
	if c.collector != nil {
		c.collector.RecordDashboardNotification(status)
	}
}
