package matchpublisherv1

import "context"

// MatchPublisher defines the interface for publishing match events.
type MatchPublisher interface {
	// PublishMatchEvent publishes a match event to the match topic.
	PublishMatchEvent(ctx context.Context, matchEvent *MatchEvent) error
}
