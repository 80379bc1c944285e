package handlers

import (
	"net/http"

	"github.com/martinianod/chedoparti/models"
	"github.com/martinianod/chedoparti/services/flow"
	"github.com/martinianod/chedoparti/services/session"
	"github.com/martinianod/chedoparti/services/whatsapp"
	"github.com/martinianod/chedoparti/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// WebhookHandler receives WhatsApp Cloud API callbacks and runs one dialogue
// turn per inbound text message.
type WebhookHandler struct {
	Store       session.Store
	Flow        flow.FlowService
	Sender      whatsapp.Sender
	VerifyToken string
	Logger      *zap.Logger
}

func NewWebhookHandler(store session.Store, flowSvc flow.FlowService, sender whatsapp.Sender, verifyToken string, logger *zap.Logger) *WebhookHandler {
	return &WebhookHandler{
		Store:       store,
		Flow:        flowSvc,
		Sender:      sender,
		VerifyToken: verifyToken,
		Logger:      logger,
	}
}

// VerifyHandler answers Meta's webhook subscription challenge.
func (h *WebhookHandler) VerifyHandler(c *gin.Context) {
	mode := c.Query("hub.mode")
	challenge := c.Query("hub.challenge")
	verifyToken := c.Query("hub.verify_token")

	if mode == "subscribe" && verifyToken == h.VerifyToken {
		c.String(http.StatusOK, challenge)
		return
	}
	c.JSON(http.StatusForbidden, gin.H{"status": "error", "message": "Invalid verify token"})
}

// ReceiveHandler processes one webhook delivery. Deliveries without a text
// message (status updates, media, malformed payloads) are acknowledged and
// ignored so Meta does not retry them.
func (h *WebhookHandler) ReceiveHandler(c *gin.Context) {
	var payload models.WebhookPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusOK, gin.H{"status": "ignored"})
		return
	}

	waID, text, ok := extractMessage(payload)
	if !ok {
		c.JSON(http.StatusOK, gin.H{"status": "ignored"})
		return
	}

	ctx := c.Request.Context()
	turnID := uuid.New().String()
	logger := h.Logger.With(zap.String("turnId", turnID), zap.String("waId", waID))
	logger.Info("inbound message received")

	sess, err := h.Store.Load(ctx, waID)
	if err != nil {
		logger.Error("failed to load session", zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "failed to load session", err.Error())
		return
	}

	reply, err := h.Flow.HandleMessage(ctx, waID, text, sess)
	if err != nil {
		logger.Error("turn failed", zap.Error(err))
		utils.JSONError(c, http.StatusBadGateway, "failed to process message", err.Error())
		return
	}

	if err := h.Store.Save(ctx, waID, sess); err != nil {
		logger.Error("failed to save session", zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "failed to save session", err.Error())
		return
	}

	// Delivery is best-effort: the session already advanced, and Meta would
	// redeliver the inbound message if we signalled an error here.
	if err := h.Sender.SendText(ctx, waID, reply); err != nil {
		logger.Warn("failed to send reply", zap.Error(err))
	} else {
		logger.Info("reply sent", zap.String("state", string(sess.State)))
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// extractMessage pulls the sender and text body out of the webhook envelope.
func extractMessage(payload models.WebhookPayload) (waID, text string, ok bool) {
	if len(payload.Entry) == 0 || len(payload.Entry[0].Changes) == 0 {
		return "", "", false
	}
	messages := payload.Entry[0].Changes[0].Value.Messages
	if len(messages) == 0 {
		return "", "", false
	}
	msg := messages[0]
	if msg.From == "" || msg.Text == nil || msg.Text.Body == "" {
		return "", "", false
	}
	return msg.From, msg.Text.Body, true
}
