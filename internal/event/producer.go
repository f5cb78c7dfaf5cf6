package event

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/KiranKumarPM/servon-1/internal/domain"
	pkgkafka "github.com/KiranKumarPM/servon-1/pkg/kafka"
	"github.com/KiranKumarPM/servon-1/pkg/logger"
)

// Kafka topics for marketplace events.
const (
	TopicServiceCreated           = "servon.service.created"
	TopicReviewCreated            = "servon.review.created"
	TopicReviewUpdated            = "servon.review.updated"
	TopicReviewDeleted            = "servon.review.deleted"
	TopicRequirementCreated       = "servon.requirement.created"
	TopicRequirementStatusChanged = "servon.requirement.status_changed"
	TopicQuotationSent            = "servon.quotation.sent"
	TopicQuotationStatusChanged   = "servon.quotation.status_changed"
)

// Aggregate types.
const (
	AggregateTypeService     = "service"
	AggregateTypeReview      = "review"
	AggregateTypeRequirement = "requirement"
	AggregateTypeQuotation   = "quotation"
)

// SourceServon identifies events emitted by this server.
const SourceServon = "servon-api"

// ReviewData is the payload of review events. Stats are the service's
// statistics after the change.
type ReviewData struct {
	ReviewID  string              `json:"reviewId"`
	ServiceID int64               `json:"serviceId"`
	UserID    string              `json:"userId"`
	Rating    int                 `json:"rating,omitempty"`
	Stats     *domain.ReviewStats `json:"stats"`
}

// RequirementData is the payload of requirement events.
type RequirementData struct {
	ID         string `json:"id"`
	CustomerID string `json:"customerId"`
	Title      string `json:"title"`
	Category   string `json:"category"`
	Location   string `json:"location"`
	Status     string `json:"status"`
}

// QuotationData is the payload of quotation events.
type QuotationData struct {
	ID            string `json:"id"`
	RequirementID string `json:"requirementId"`
	VendorID      string `json:"vendorId"`
	CustomerID    string `json:"customerId"`
	Price         int64  `json:"price"`
	Status        string `json:"status"`
}

// ServiceData is the payload of catalog events.
type ServiceData struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	ProviderID string `json:"providerId"`
	Category   string `json:"category"`
	Location   string `json:"location"`
}

// Publisher writes an event envelope to a topic. *pkgkafka.Producer satisfies it.
type Publisher interface {
	Publish(ctx context.Context, topic string, event *pkgkafka.Event) error
}

// Producer publishes marketplace events.
type Producer struct {
	kafka  Publisher
	logger *slog.Logger
}

type discard struct{}

func (discard) Publish(context.Context, string, *pkgkafka.Event) error { return nil }

// NewProducer creates an event producer. A nil publisher drops every event.
func NewProducer(kafka Publisher, logger *slog.Logger) *Producer {
	if kafka == nil {
		kafka = discard{}
	}
	return &Producer{kafka: kafka, logger: logger}
}

// PublishServiceCreated publishes a service.created event.
func (p *Producer) PublishServiceCreated(ctx context.Context, s *domain.Service) error {
	id := strconv.FormatInt(s.ID, 10)
	return p.publish(ctx, TopicServiceCreated, id, AggregateTypeService, ServiceData{
		ID:         s.ID,
		Name:       s.Name,
		ProviderID: s.ProviderID,
		Category:   s.Category,
		Location:   s.Location,
	})
}

// PublishReviewCreated publishes a review.created event.
func (p *Producer) PublishReviewCreated(ctx context.Context, r *domain.Review, stats *domain.ReviewStats) error {
	return p.publishReview(ctx, TopicReviewCreated, r, stats)
}

// PublishReviewUpdated publishes a review.updated event.
func (p *Producer) PublishReviewUpdated(ctx context.Context, r *domain.Review, stats *domain.ReviewStats) error {
	return p.publishReview(ctx, TopicReviewUpdated, r, stats)
}

// PublishReviewDeleted publishes a review.deleted event.
func (p *Producer) PublishReviewDeleted(ctx context.Context, r *domain.Review, stats *domain.ReviewStats) error {
	return p.publishReview(ctx, TopicReviewDeleted, r, stats)
}

func (p *Producer) publishReview(ctx context.Context, topic string, r *domain.Review, stats *domain.ReviewStats) error {
	return p.publish(ctx, topic, r.ID, AggregateTypeReview, ReviewData{
		ReviewID:  r.ID,
		ServiceID: r.ServiceID,
		UserID:    r.UserID,
		Rating:    r.Rating,
		Stats:     stats,
	})
}

// PublishRequirementCreated publishes a requirement.created event.
func (p *Producer) PublishRequirementCreated(ctx context.Context, q *domain.Requirement) error {
	return p.publish(ctx, TopicRequirementCreated, q.ID, AggregateTypeRequirement, requirementData(q))
}

// PublishRequirementStatusChanged publishes a requirement.status_changed event.
func (p *Producer) PublishRequirementStatusChanged(ctx context.Context, q *domain.Requirement) error {
	return p.publish(ctx, TopicRequirementStatusChanged, q.ID, AggregateTypeRequirement, requirementData(q))
}

// PublishQuotationSent publishes a quotation.sent event.
func (p *Producer) PublishQuotationSent(ctx context.Context, q *domain.Quotation) error {
	return p.publish(ctx, TopicQuotationSent, q.ID, AggregateTypeQuotation, quotationData(q))
}

// PublishQuotationStatusChanged publishes a quotation.status_changed event.
func (p *Producer) PublishQuotationStatusChanged(ctx context.Context, q *domain.Quotation) error {
	return p.publish(ctx, TopicQuotationStatusChanged, q.ID, AggregateTypeQuotation, quotationData(q))
}

func (p *Producer) publish(ctx context.Context, topic, aggregateID, aggregateType string, data any) error {
	event, err := pkgkafka.NewEvent(topic, aggregateID, aggregateType, SourceServon, data)
	if err != nil {
		return fmt.Errorf("create %s event: %w", topic, err)
	}
	event.RequestID = logger.RequestIDFromContext(ctx)

	if err := p.kafka.Publish(ctx, topic, event); err != nil {
		return fmt.Errorf("publish %s event: %w", topic, err)
	}

	p.logger.DebugContext(ctx, "published event",
		slog.String("topic", topic),
		slog.String("aggregate_id", aggregateID),
	)
	return nil
}

func requirementData(q *domain.Requirement) RequirementData {
	return RequirementData{
		ID:         q.ID,
		CustomerID: q.CustomerID,
		Title:      q.Title,
		Category:   q.Category,
		Location:   q.Location,
		Status:     q.Status,
	}
}

func quotationData(q *domain.Quotation) QuotationData {
	return QuotationData{
		ID:            q.ID,
		RequirementID: q.RequirementID,
		VendorID:      q.VendorID,
		CustomerID:    q.CustomerID,
		Price:         q.Price,
		Status:        q.Status,
	}
}
