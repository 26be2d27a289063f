package nats_test

import (
	"context"
	"encoding/json"
	"os"
	"testing"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/listing-service/internal/domain"
	natsPublisher "github.com/listing-service/internal/infrastructure/nats"
)

func testNATSURL() string {
	if url := os.Getenv("NATS_URL"); url != "" {
		return url
	}
	return nats.DefaultURL
}

func TestPublisher_Publish(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping NATS integration test in short mode")
	}

	sub, err := nats.Connect(testNATSURL(), nats.Timeout(time.Second))
	if err != nil {
		t.Skipf("NATS not available for integration tests: %v", err)
	}
	defer sub.Close()

	publisher, err := natsPublisher.NewPublisher(testNATSURL(), "listing-test", zap.NewNop())
	require.NoError(t, err)
	defer publisher.Close()

	subscription, err := sub.SubscribeSync(domain.SubjectListingDeleted)
	require.NoError(t, err)
	require.NoError(t, sub.Flush())

	event := domain.ListingEvent{
		Type:       domain.SubjectListingDeleted,
		ListingID:  "listing-1",
		OwnerID:    "owner-1",
		Category:   domain.CategoryBoats,
		OccurredAt: time.Now().UTC().Truncate(time.Second),
	}
	require.NoError(t, publisher.Publish(context.Background(), domain.SubjectListingDeleted, event))

	msg, err := subscription.NextMsg(2 * time.Second)
	require.NoError(t, err)

	var received domain.ListingEvent
	require.NoError(t, json.Unmarshal(msg.Data, &received))
	assert.Equal(t, event.ListingID, received.ListingID)
	assert.Equal(t, event.Category, received.Category)
	assert.True(t, event.OccurredAt.Equal(received.OccurredAt))
}

func TestPublisher_CancelledContext(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping NATS integration test in short mode")
	}

	publisher, err := natsPublisher.NewPublisher(testNATSURL(), "listing-test", zap.NewNop())
	if err != nil {
		t.Skipf("NATS not available for integration tests: %v", err)
	}
	defer publisher.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, publisher.Publish(ctx, domain.SubjectListingCreated, struct{}{}), context.Canceled)
}

func TestNoopPublisher(t *testing.T) {
	var p natsPublisher.NoopPublisher
	assert.NoError(t, p.Publish(context.Background(), domain.SubjectListingCreated, nil))
}
