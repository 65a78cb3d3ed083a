// Package events is the event processor (component G): the webhook
// endpoint that validates, persists, and acknowledges a push notification,
// and the dispatch logic that turns it into a replication engine call.
package events

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/segmentio/kafka-go"

	"catalogsync/internal/cache"
	"catalogsync/internal/logger"
	"catalogsync/internal/models"
	"catalogsync/internal/sourceclient"
)

const eventsTopic = "catalogsync.product-events"

type Handler struct {
	cache          *cache.Cache
	source         *sourceclient.Client
	logger         *logger.Logger
	webhookSecret  string
	sourceHostname string
	producer       *kafka.Writer
}

func NewHandler(c *cache.Cache, source *sourceclient.Client, log *logger.Logger, webhookSecret, sourceHostname string, brokers []string) *Handler {
	return &Handler{
		cache:          c,
		source:         source,
		logger:         log,
		webhookSecret:  webhookSecret,
		sourceHostname: sourceHostname,
		producer: &kafka.Writer{
			Addr:     kafka.TCP(brokers...),
			Topic:    eventsTopic,
			Balancer: &kafka.LeastBytes{},
		},
	}
}

func (h *Handler) Close() error {
	return h.producer.Close()
}

// ServeWebhook implements the fail-fast validation pipeline of spec.md
// §4.G: each numbered step short-circuits with the first listed status.
func (h *Handler) ServeWebhook(c *gin.Context) {
	topic := c.GetHeader("x-wc-webhook-topic")
	if topic == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing x-wc-webhook-topic header"})
		return
	}

	sourceURL := c.GetHeader("x-wc-webhook-source")
	if !hostnameMatches(sourceURL, h.sourceHostname) {
		c.JSON(http.StatusForbidden, gin.H{"error": "unrecognized webhook source"})
		return
	}

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read request body"})
		return
	}

	signature := c.GetHeader("x-wc-webhook-signature")
	if !verifySignature([]byte(h.webhookSecret), body, signature) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "signature mismatch"})
		return
	}

	var payload sourceclient.Product
	if err := json.Unmarshal(body, &payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON body"})
		return
	}

	action := actionFromTopic(topic)
	event, err := h.recordEvent(topic, action, payload, body, signature)
	if err != nil {
		h.logger.Error("failed to record event for product %d: %v", payload.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to record event"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"accepted": true, "event_id": event.ID})

	if err := h.publish(event); err != nil {
		h.logger.Error("failed to publish event %d to kafka: %v", event.ID, err)
	}
}

func hostnameMatches(rawURL, configured string) bool {
	if configured == "" {
		return true
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	return u.Hostname() == configured
}

func actionFromTopic(topic string) models.EventAction {
	// topic is "resource.action"; resource is always "product" per
	// spec.md §6.
	idx := strings.LastIndex(topic, ".")
	if idx < 0 {
		return models.ActionUpdated
	}
	return models.EventAction(topic[idx+1:])
}

// recordEvent computes the stock delta against whatever the cache
// currently holds for this product-id and inserts the event row before any
// async work happens.
func (h *Handler) recordEvent(topic string, action models.EventAction, payload sourceclient.Product, raw []byte, signature string) (*models.Event, error) {
	var oldStatus models.StockStatus
	var oldQty *int
	if existing, err := h.cache.GetProduct(payload.ID); err == nil {
		oldStatus = existing.StockStatus
		oldQty = existing.StockQuantity
	}

	newStatus := payload.ToModel().StockStatus
	newQty := payload.StockQuantity

	delta := 0
	if oldQty != nil && newQty != nil {
		delta = *newQty - *oldQty
	}

	kind := payload.ToModel().Kind

	event := &models.Event{
		Topic:             topic,
		SourceProductID:   payload.ID,
		RawPayload:        string(raw),
		Signature:         signature,
		Name:              payload.Name,
		Kind:              kind,
		Action:            action,
		OldStockStatus:    oldStatus,
		NewStockStatus:    newStatus,
		OldStockQuantity:  oldQty,
		NewStockQuantity:  newQty,
		StockDelta:        delta,
		DerivedRetailerID: retailerIDFor(payload.ToModel()),
	}

	if err := h.cache.InsertEvent(event); err != nil {
		return nil, err
	}
	return event, nil
}

func (h *Handler) publish(event *models.Event) error {
	value, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return h.producer.WriteMessages(context.Background(), kafka.Message{
		Key:   []byte(strconv.FormatInt(event.SourceProductID, 10)),
		Value: value,
	})
}
