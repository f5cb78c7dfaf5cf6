package event

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KiranKumarPM/servon-1/internal/domain"
	pkgkafka "github.com/KiranKumarPM/servon-1/pkg/kafka"
	"github.com/KiranKumarPM/servon-1/pkg/logger"
)

type published struct {
	topic string
	event *pkgkafka.Event
}

type recordingPublisher struct {
	sent []published
	err  error
}

func (r *recordingPublisher) Publish(_ context.Context, topic string, event *pkgkafka.Event) error {
	if r.err != nil {
		return r.err
	}
	r.sent = append(r.sent, published{topic: topic, event: event})
	return nil
}

func newTestProducer() (*Producer, *recordingPublisher) {
	pub := &recordingPublisher{}
	return NewProducer(pub, slog.New(slog.NewTextHandler(io.Discard, nil))), pub
}

func TestPublishReviewCreated(t *testing.T) {
	p, pub := newTestProducer()
	ctx := logger.WithRequestID(context.Background(), "req-7")

	review := &domain.Review{ID: "rev-1", ServiceID: 3, UserID: "user-1", Rating: 5}
	stats := domain.ReviewStatsFromRatings([]int{5, 4})

	require.NoError(t, p.PublishReviewCreated(ctx, review, stats))

	require.Len(t, pub.sent, 1)
	got := pub.sent[0]
	assert.Equal(t, TopicReviewCreated, got.topic)
	assert.Equal(t, "rev-1", got.event.AggregateID)
	assert.Equal(t, AggregateTypeReview, got.event.AggregateType)
	assert.Equal(t, SourceServon, got.event.Source)
	assert.Equal(t, "req-7", got.event.RequestID)

	var data ReviewData
	require.NoError(t, got.event.Decode(&data))
	assert.Equal(t, int64(3), data.ServiceID)
	assert.Equal(t, 4.5, data.Stats.AverageRating)
}

func TestPublishQuotationSent(t *testing.T) {
	p, pub := newTestProducer()

	q := &domain.Quotation{ID: "quo-1", RequirementID: "req-1", VendorID: "v-1", CustomerID: "c-1", Price: 900, Status: "sent"}
	require.NoError(t, p.PublishQuotationSent(context.Background(), q))

	require.Len(t, pub.sent, 1)
	assert.Equal(t, TopicQuotationSent, pub.sent[0].topic)

	var data QuotationData
	require.NoError(t, pub.sent[0].event.Decode(&data))
	assert.Equal(t, "c-1", data.CustomerID)
	assert.Equal(t, int64(900), data.Price)
}

func TestPublishServiceCreated_UsesNumericID(t *testing.T) {
	p, pub := newTestProducer()

	require.NoError(t, p.PublishServiceCreated(context.Background(), &domain.Service{ID: 42, Name: "Leak Repair"}))

	assert.Equal(t, "42", pub.sent[0].event.AggregateID)
}

func TestPublish_WrapsError(t *testing.T) {
	p, pub := newTestProducer()
	pub.err = errors.New("broker down")

	err := p.PublishRequirementCreated(context.Background(), &domain.Requirement{ID: "req-1"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), TopicRequirementCreated)
	assert.Contains(t, err.Error(), "broker down")
}

func TestNewProducer_NilPublisherDrops(t *testing.T) {
	p := NewProducer(nil, slog.New(slog.NewTextHandler(io.Discard, nil)))

	assert.NoError(t, p.PublishQuotationStatusChanged(context.Background(), &domain.Quotation{ID: "quo-1"}))
}
