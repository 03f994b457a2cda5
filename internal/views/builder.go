package views

import (
	"context"
	"log/slog"
	"strings"

	"github.com/gamebase54/gamebot/internal/logging"
	"github.com/gamebase54/gamebot/pkg/domain"
	"github.com/gamebase54/gamebot/pkg/ports"
	"github.com/gamebase54/gamebot/pkg/scene"
)

// InjectUserVariables substitutes user placeholders in view text.
// {username} falls back to the first name when the peer has no
// username; <br> becomes a newline.
func InjectUserVariables(text string, peer domain.Peer) string {
	username := peer.Username
	if username == "" {
		username = peer.FirstName
	}
	replacer := strings.NewReplacer(
		"{username}", username,
		"{first_name}", peer.FirstName,
		"<br>", "\n",
	)
	return replacer.Replace(text)
}

// ReplyBuilder turns view codes into render-ready content, resolving
// images through the object store.
type ReplyBuilder struct {
	views   ports.ViewStore
	objects ports.ObjectStore
	logger  *slog.Logger
}

// NewReplyBuilder wires a builder. objects may be nil when no views
// carry images.
func NewReplyBuilder(views ports.ViewStore, objects ports.ObjectStore, logger *slog.Logger) *ReplyBuilder {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &ReplyBuilder{views: views, objects: objects, logger: logger}
}

// Build resolves a view code into content for peer. A missing view
// record degrades to the fallback text; a missing image degrades to a
// plain text reply. Neither aborts the turn.
func (b *ReplyBuilder) Build(ctx context.Context, code domain.ViewCode, peer domain.Peer, fallback string) scene.Content {
	view, err := b.views.GetView(ctx, code)
	if err != nil {
		b.logger.Warn("view lookup failed", "code", code, "err", err)
		return scene.Content{Text: InjectUserVariables(fallback, peer)}
	}

	content := scene.Content{Text: InjectUserVariables(view.Description, peer)}
	if view.Image == "" || b.objects == nil {
		return content
	}

	image, err := b.objects.GetObject(ctx, view.Image)
	if err != nil {
		b.logger.Warn("view image unavailable, sending text only", "code", code, "image", view.Image, "err", err)
		return content
	}
	content.Image = image
	return content
}
