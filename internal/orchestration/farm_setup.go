package orchestration

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/angelmondragon/farmsip-backend/pkg/logger"
	"github.com/google/uuid"
)

const (
	CommandTriggerFarmSetup = "trigger_farm_setup"
	CommandCancelFarmSetup  = "cancel_farm_setup"

	AttrCommand = "command"
	AttrFarmID  = "farm_id"
)

// FarmSetup is the external provisioning collaborator. Receivers must treat repeated commands
// for the same farm as idempotent.
type FarmSetup interface {
	TriggerFarmSetup(ctx context.Context, farmID uuid.UUID) error
	CancelFarmSetup(ctx context.Context, farmID uuid.UUID) error
}

// FarmSetupCommand is the message body published for each command.
type FarmSetupCommand struct {
	Command  string    `json:"command"`
	FarmID   uuid.UUID `json:"farm_id"`
	IssuedAt time.Time `json:"issued_at"`
}

type messagePublisher interface {
	Publish(ctx context.Context, data []byte, attributes map[string]string) (string, error)
}

// PubSubFarmSetup sends farm setup commands to a Pub/Sub topic.
type PubSubFarmSetup struct {
	publisher messagePublisher
	logg      *logger.Logger
	now       func() time.Time
}

// NewPubSubFarmSetup wraps a topic publisher.
func NewPubSubFarmSetup(publisher messagePublisher, logg *logger.Logger) (*PubSubFarmSetup, error) {
	if publisher == nil {
		return nil, errors.New("publisher required")
	}
	if logg == nil {
		logg = logger.Nop()
	}
	return &PubSubFarmSetup{publisher: publisher, logg: logg, now: time.Now}, nil
}

func (p *PubSubFarmSetup) TriggerFarmSetup(ctx context.Context, farmID uuid.UUID) error {
	return p.send(ctx, CommandTriggerFarmSetup, farmID)
}

func (p *PubSubFarmSetup) CancelFarmSetup(ctx context.Context, farmID uuid.UUID) error {
	return p.send(ctx, CommandCancelFarmSetup, farmID)
}

func (p *PubSubFarmSetup) send(ctx context.Context, command string, farmID uuid.UUID) error {
	body, err := json.Marshal(FarmSetupCommand{
		Command:  command,
		FarmID:   farmID,
		IssuedAt: p.now().UTC(),
	})
	if err != nil {
		return err
	}
	msgID, err := p.publisher.Publish(ctx, body, map[string]string{
		AttrCommand: command,
		AttrFarmID:  farmID.String(),
	})
	if err != nil {
		return err
	}
	logCtx := p.logg.WithFields(p.logg.WithFarmID(ctx, farmID.String()), map[string]any{
		"command":    command,
		"message_id": msgID,
	})
	p.logg.Info(logCtx, "farm setup command published")
	return nil
}

// LogFarmSetup only logs commands. Used for local development.
type LogFarmSetup struct {
	logg *logger.Logger
}

// NewLogFarmSetup builds the log-only collaborator.
func NewLogFarmSetup(logg *logger.Logger) *LogFarmSetup {
	if logg == nil {
		logg = logger.Nop()
	}
	return &LogFarmSetup{logg: logg}
}

func (l *LogFarmSetup) TriggerFarmSetup(ctx context.Context, farmID uuid.UUID) error {
	l.logg.Info(l.logg.WithField(l.logg.WithFarmID(ctx, farmID.String()), "command", CommandTriggerFarmSetup), "farm setup requested")
	return nil
}

func (l *LogFarmSetup) CancelFarmSetup(ctx context.Context, farmID uuid.UUID) error {
	l.logg.Info(l.logg.WithField(l.logg.WithFarmID(ctx, farmID.String()), "command", CommandCancelFarmSetup), "farm setup cancellation requested")
	return nil
}
