package internal

// HeaderVariant names a navigation chrome
type HeaderVariant string

const (
	HeaderAnonymous HeaderVariant = "anonymous"
	HeaderStudent   HeaderVariant = "student"
	HeaderTeacher   HeaderVariant = "teacher"
)

// NavItem is one entry of the navigation chrome
type NavItem struct {
	Label    string
	Command  string    // CLI command the entry maps to, "" when it has none
	Children []NavItem // dropdown entries
}

// Header is the navigation chrome for a session
type Header struct {
	Variant HeaderVariant
	Title   string
	Items   []NavItem
}

// HeaderFor picks the chrome for the session's role. Unknown roles get
// the student chrome.
func HeaderFor(s Session) Header {
	if !s.IsAuthenticated {
		return Header{
			Variant: HeaderAnonymous,
			Title:   "Glancenote",
			Items: []NavItem{
				{Label: "Log in", Command: "login"},
				{Label: "Sign up", Command: "signup"},
			},
		}
	}

	if s.Role() == RoleTeacher {
		return Header{
			Variant: HeaderTeacher,
			Title:   s.Identity.DisplayName(),
			Items: []NavItem{
				{Label: "Discover"},
				{Label: "Assistant", Command: "chat"},
				{Label: "Add", Children: []NavItem{
					{Label: "Student log"},
					{Label: "Assignment"},
					{Label: "Assignment completion"},
				}},
				{Label: "Profile", Command: "whoami"},
				{Label: "Settings"},
				{Label: "Log out", Command: "logout"},
			},
		}
	}

	return Header{
		Variant: HeaderStudent,
		Title:   s.Identity.DisplayName(),
		Items: []NavItem{
			{Label: "Chat", Command: "chat"},
			{Label: "Profile", Command: "whoami"},
			{Label: "Log out", Command: "logout"},
		},
	}
}

// Labels returns the top-level labels in display order
func (h Header) Labels() []string {
	labels := make([]string, len(h.Items))
	for i, item := range h.Items {
		labels[i] = item.Label
	}
	return labels
}
