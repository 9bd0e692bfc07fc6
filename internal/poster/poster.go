package poster

import (
	"context"
)

// PostContent is a message to relay. Username and AvatarURL override the
// webhook's defaults so a quote appears to come from its champion.
type PostContent struct {
	Text      string
	Username  string
	AvatarURL string
}

// PostResult represents the result of a post.
type PostResult struct {
	PostID string
}

// Poster is the interface for relaying messages to a chat platform.
type Poster interface {
	// Platform returns the name of the platform.
	Platform() string

	// Post publishes content to the platform.
	Post(ctx context.Context, content PostContent) (*PostResult, error)

	// ValidateCredentials checks that the destination accepts posts.
	ValidateCredentials(ctx context.Context) error
}
