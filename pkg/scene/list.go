package scene

import (
	"bytes"
	"context"

	"github.com/gamebase54/gamebot/pkg/domain"
)

// Pagination callback actions shared by all list scenes.
const (
	ActionPrev = "prev"
	ActionNext = "next"
)

// DefaultPageSize is used when a list is built without an explicit size.
const DefaultPageSize = 10

// Content is the display payload of a list render: message text and an
// optional image. A message created with an image keeps it for its whole
// lifetime; subsequent renders edit the caption.
type Content struct {
	Text  string
	Image []byte
}

// ListSource supplies the scene-specific parts of a paginated list: the
// dataset, per-item button markup, extra keyboard rows and display text.
type ListSource[T any] interface {
	// FetchDataset returns the full ordered dataset for the scene. It may
	// depend on the scene's stored state (filter, node id, query).
	FetchDataset(ctx context.Context, t *Turn) ([]T, error)

	// ItemRow returns the button row rendered for one dataset item.
	ItemRow(ctx context.Context, t *Turn, item T) []domain.Button

	// ExtraRows returns additional keyboard rows appended after the
	// navigation row. May be empty.
	ExtraRows(ctx context.Context, t *Turn) domain.Keyboard

	// PageContent returns the display content for the current page.
	PageContent(ctx context.Context, t *Turn, page []T) (Content, error)

	// EmptyContent returns the display content of the empty-dataset path.
	EmptyContent(ctx context.Context, t *Turn) (Content, error)
}

// List is the base of every list-type scene: it fetches the dataset, slices
// pages, composes the keyboard and maintains the at-most-one-live-message
// invariant, creating the reply message once and editing it in place on
// every later render. On Leave the tracked message is deleted.
type List[T any] struct {
	source   ListSource[T]
	pageSize int

	data       []T
	pageData   []T
	totalCount int
	pageNumber int
	pageCount  int

	replyID int
	isPhoto bool
}

// NewList creates the list base for a concrete scene.
func NewList[T any](source ListSource[T], pageSize int) *List[T] {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &List[T]{source: source, pageSize: pageSize}
}

// Page reports the current pagination state: page number, page count and
// total item count.
func (l *List[T]) Page() (number, count, total int) {
	return l.pageNumber, l.pageCount, l.totalCount
}

// Enter fetches the dataset, resets pagination to the first page and
// renders. A reply message tracked from a previous render of the same
// instance is kept, so Reenter refreshes the view in place.
func (l *List[T]) Enter(ctx context.Context, t *Turn) error {
	data, err := l.source.FetchDataset(ctx, t)
	if err != nil {
		return err
	}

	l.data = data
	l.totalCount = len(data)
	l.pageNumber = 1
	l.pageCount = (l.totalCount + l.pageSize - 1) / l.pageSize
	l.slicePage()

	return l.Render(ctx, t)
}

// Leave deletes the tracked reply message. Deletion is racy against external
// removal, so failures are swallowed; the tracked id is cleared regardless.
func (l *List[T]) Leave(ctx context.Context, t *Turn) error {
	if l.replyID == 0 {
		return nil
	}

	defer func() {
		l.replyID = 0
		l.isPhoto = false
	}()

	if err := t.Transport().DeleteMessage(ctx, t.ChatID(), l.replyID); err != nil {
		t.Logger().Debug("failed to delete reply message", "message_id", l.replyID, "err", err)
	}
	return nil
}

// HandlePageAction processes prev/next navigation. It reports whether the
// action was a pagination action, so embedding scenes can fall through to
// their own handlers.
func (l *List[T]) HandlePageAction(ctx context.Context, t *Turn, action string) (bool, error) {
	switch action {
	case ActionPrev:
		if l.pageNumber > 1 {
			l.pageNumber--
			l.slicePage()
			return true, l.Render(ctx, t)
		}
		return true, nil
	case ActionNext:
		if l.hasNext() {
			l.pageNumber++
			l.slicePage()
			return true, l.Render(ctx, t)
		}
		return true, nil
	}
	return false, nil
}

// HandleMessage is a no-op default; concrete scenes override it.
func (l *List[T]) HandleMessage(ctx context.Context, t *Turn, text string) error {
	return nil
}

func (l *List[T]) slicePage() {
	from := (l.pageNumber - 1) * l.pageSize
	to := min(from+l.pageSize, l.totalCount)
	l.pageData = l.data[from:to]
}

func (l *List[T]) hasNext() bool {
	return l.pageNumber*l.pageSize < l.totalCount
}

// NavRow composes the pagination navigation row: a previous button iff the
// page number is above one, a next button iff items remain beyond the
// current page.
func (l *List[T]) NavRow() []domain.Button {
	var row []domain.Button
	if l.pageNumber > 1 {
		row = append(row, domain.CallbackButton("⬅️ Prev", ActionPrev))
	}
	if l.hasNext() {
		row = append(row, domain.CallbackButton("Next ➡️", ActionNext))
	}
	return row
}

// Render draws the current page into the tracked reply message, creating it
// on first render and editing it in place afterwards. The empty dataset is
// a distinct path: an informational view instead of a zero-row list.
func (l *List[T]) Render(ctx context.Context, t *Turn) error {
	var (
		content Content
		kb      domain.Keyboard
		err     error
	)

	if l.totalCount == 0 {
		content, err = l.source.EmptyContent(ctx, t)
		if err != nil {
			return err
		}
		kb = domain.Keyboard{}.Append(l.source.ExtraRows(ctx, t)...)
	} else {
		content, err = l.source.PageContent(ctx, t, l.pageData)
		if err != nil {
			return err
		}
		kb = make(domain.Keyboard, 0, len(l.pageData)+1)
		for _, item := range l.pageData {
			kb = kb.Append(l.source.ItemRow(ctx, t, item))
		}
		kb = kb.Append(l.NavRow())
		kb = kb.Append(l.source.ExtraRows(ctx, t)...)
	}

	created := l.replyID == 0
	if created {
		err = l.createReply(ctx, t, content, kb)
	} else {
		err = l.editReply(ctx, t, content, kb)
	}
	if err != nil {
		// Transport errors are non-fatal for the turn.
		t.Logger().Error("failed to render list", "err", err)
		return nil
	}

	t.emitRender(ctx, created, l.pageNumber, l.pageCount)
	return nil
}

func (l *List[T]) createReply(ctx context.Context, t *Turn, content Content, kb domain.Keyboard) error {
	var (
		id  int
		err error
	)
	if len(content.Image) > 0 {
		id, err = t.Transport().SendPhoto(ctx, t.ChatID(), bytes.NewReader(content.Image), content.Text, kb)
		l.isPhoto = true
	} else {
		id, err = t.Transport().SendMessage(ctx, t.ChatID(), content.Text, kb)
	}
	if err != nil {
		l.isPhoto = false
		return err
	}
	l.replyID = id
	return nil
}

func (l *List[T]) editReply(ctx context.Context, t *Turn, content Content, kb domain.Keyboard) error {
	if l.isPhoto {
		return t.Transport().EditMessageCaption(ctx, t.ChatID(), l.replyID, content.Text, kb)
	}
	return t.Transport().EditMessageText(ctx, t.ChatID(), l.replyID, content.Text, kb)
}
