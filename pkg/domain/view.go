package domain

// ViewCode identifies a stored view content record.
type ViewCode string

const (
	GreetingsView               ViewCode = "GREETINGS_VIEW"
	CategorySelectionView       ViewCode = "CATEGORY_SELECTION_VIEW"
	EmptyCategoryListView       ViewCode = "EMPTY_CATEGORY_LIST_VIEW"
	DefaultCategoryView         ViewCode = "DEFAULT_CATEGORY_VIEW"
	EmptyCategoryView           ViewCode = "EMPTY_CATEGORY_VIEW"
	GameSearchResultsView       ViewCode = "GAME_SEARCH_RESULTS_VIEW"
	EmptyGameSearchResultsView  ViewCode = "EMPTY_GAME_SEARCH_RESULTS_VIEW"
	FeedbackViewBefore          ViewCode = "FEEDBACK_VIEW_BEFORE"
	FeedbackViewAfter           ViewCode = "FEEDBACK_VIEW_AFTER"
	DonationsView               ViewCode = "DONATIONS_VIEW"
)

// View holds the display content for one view code. Image names an object in
// the object store and may be empty.
type View struct {
	Description string `json:"description" yaml:"description"`
	Image       string `json:"image,omitempty" yaml:"image,omitempty"`
}
