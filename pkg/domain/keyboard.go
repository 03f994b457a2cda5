package domain

// Button is a single inline keyboard button. Exactly one of Action or URL
// should be set: Action buttons dispatch a callback event back into the
// router, URL buttons open an external link.
type Button struct {
	Text   string `json:"text"`
	Action string `json:"action,omitempty"`
	URL    string `json:"url,omitempty"`
}

// Keyboard is an inline keyboard: rows of buttons.
type Keyboard [][]Button

// CallbackButton builds a button dispatching the given action.
func CallbackButton(text, action string) Button {
	return Button{Text: text, Action: action}
}

// URLButton builds a button opening an external link.
func URLButton(text, url string) Button {
	return Button{Text: text, URL: url}
}

// Append returns the keyboard with extra rows appended. Empty rows are
// skipped so callers can concatenate optional sections unconditionally.
func (k Keyboard) Append(rows ...[]Button) Keyboard {
	for _, row := range rows {
		if len(row) > 0 {
			k = append(k, row)
		}
	}
	return k
}
