// Package flow implements the reservation dialogue: a state machine that,
// one WhatsApp message at a time, collects club, sport, date and time,
// confirms the summary and books the court through the API gateway.
package flow

import (
	"context"

	"github.com/martinianod/chedoparti/models"
	"github.com/martinianod/chedoparti/services/gateway"
	"github.com/martinianod/chedoparti/services/intent"

	"go.uber.org/zap"
)

// FlowService advances a conversation by one turn.
type FlowService interface {
	// HandleMessage consumes one inbound message, mutates the session to its
	// next state and returns the reply to send back. Gateway failures other
	// than payment-link creation propagate; the caller decides how to answer.
	HandleMessage(ctx context.Context, waID, text string, session *models.Session) (string, error)
}

// DefaultFlowService implements FlowService.
type DefaultFlowService struct {
	Extractor intent.Extractor
	Gateway   gateway.Client
	Logger    *zap.Logger
}
