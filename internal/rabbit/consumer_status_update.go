package rabbit

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"order-tracking-service/internal/model"

	"github.com/labstack/gommon/log"
)

type OrderUpdater interface {
	Update(ctx context.Context, trackingID string, newStatus model.Status, message *string) error
}

// StatusUpdateConsumer aplica las novedades que publica el transportista.
type StatusUpdateConsumer struct {
	Service OrderUpdater
}

func NewStatusUpdateConsumer(s OrderUpdater) *StatusUpdateConsumer {
	return &StatusUpdateConsumer{Service: s}
}

type CarrierStatusMessage struct {
	TrackingID    string  `json:"tracking_id"`
	Status        string  `json:"status"`
	UpdateMessage *string `json:"update_message"`
}

func (c *StatusUpdateConsumer) Handle(ctx context.Context, msg []byte) error {
	log.Debug("[Rabbit] Evento recibido: carrier_status")

	var event CarrierStatusMessage
	if err := json.Unmarshal(msg, &event); err != nil {
		return fmt.Errorf("parse carrier status message: %w", err)
	}
	if event.TrackingID == "" {
		return errors.New("carrier status message without tracking_id")
	}

	status, err := model.ParseStatus(event.Status)
	if err != nil {
		return err
	}

	if err := c.Service.Update(ctx, event.TrackingID, status, event.UpdateMessage); err != nil {
		return fmt.Errorf("apply carrier status to %s: %w", event.TrackingID, err)
	}

	log.Infof("✔ Estado %q aplicado a la orden %s", status, event.TrackingID)
	return nil
}
