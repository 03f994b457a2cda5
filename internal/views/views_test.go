package views_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gamebase54/gamebot/internal/views"
	"github.com/gamebase54/gamebot/pkg/domain"
)

const sampleYAML = `
GREETINGS_VIEW:
  description: "Hi, {first_name}!<br>Pick a category below."
  image: views/greetings.png
DONATIONS_VIEW:
  description: "Thanks, {username}!"
`

func TestParse(t *testing.T) {
	store, err := views.Parse([]byte(sampleYAML))
	require.NoError(t, err)

	view, err := store.GetView(context.Background(), domain.GreetingsView)
	require.NoError(t, err)
	assert.Equal(t, "views/greetings.png", view.Image)

	_, err = store.GetView(context.Background(), domain.FeedbackViewBefore)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestInjectUserVariables(t *testing.T) {
	peer := domain.Peer{Username: "gamer42", FirstName: "Sam"}
	got := views.InjectUserVariables("Hi, {first_name} ({username})!<br>Welcome.", peer)
	assert.Equal(t, "Hi, Sam (gamer42)!\nWelcome.", got)
}

func TestInjectUserVariables_UsernameFallsBackToFirstName(t *testing.T) {
	peer := domain.Peer{FirstName: "Sam"}
	assert.Equal(t, "Hi, Sam!", views.InjectUserVariables("Hi, {username}!", peer))
}

type fakeObjects struct {
	data map[string][]byte
}

func (f *fakeObjects) GetObject(ctx context.Context, name string) ([]byte, error) {
	if data, ok := f.data[name]; ok {
		return data, nil
	}
	return nil, domain.ErrNotFound
}

func TestReplyBuilder(t *testing.T) {
	store, err := views.Parse([]byte(sampleYAML))
	require.NoError(t, err)

	objects := &fakeObjects{data: map[string][]byte{"views/greetings.png": []byte("png")}}
	builder := views.NewReplyBuilder(store, objects, nil)
	peer := domain.Peer{Username: "gamer42", FirstName: "Sam"}

	content := builder.Build(context.Background(), domain.GreetingsView, peer, "fallback")
	assert.Equal(t, "Hi, Sam!\nPick a category below.", content.Text)
	assert.Equal(t, []byte("png"), content.Image)

	// Text-only view.
	content = builder.Build(context.Background(), domain.DonationsView, peer, "fallback")
	assert.Equal(t, "Thanks, gamer42!", content.Text)
	assert.Nil(t, content.Image)

	// Unknown view degrades to the fallback text, interpolated.
	content = builder.Build(context.Background(), domain.FeedbackViewAfter, peer, "Bye, {username}")
	assert.Equal(t, "Bye, gamer42", content.Text)
}

func TestReplyBuilder_MissingImageDegradesToText(t *testing.T) {
	store, err := views.Parse([]byte(sampleYAML))
	require.NoError(t, err)

	builder := views.NewReplyBuilder(store, &fakeObjects{}, nil)
	content := builder.Build(context.Background(), domain.GreetingsView, domain.Peer{FirstName: "Sam"}, "")
	assert.Equal(t, "Hi, Sam!\nPick a category below.", content.Text)
	assert.Nil(t, content.Image)
}
