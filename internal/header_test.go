package internal

import (
	"reflect"
	"testing"
)

func TestHeaderFor(t *testing.T) {
	tests := []struct {
		name    string
		session Session
		variant HeaderVariant
		labels  []string
		title   string
	}{
		{
			name:    "anonymous",
			session: Session{},
			variant: HeaderAnonymous,
			labels:  []string{"Log in", "Sign up"},
			title:   "Glancenote",
		},
		{
			name:    "parent",
			session: Session{Identity: &Identity{Email: "p@b.com", Role: "parent"}, IsAuthenticated: true},
			variant: HeaderStudent,
			labels:  []string{"Chat", "Profile", "Log out"},
			title:   "p@b.com",
		},
		{
			name:    "unknown role",
			session: Session{Identity: &Identity{Email: "x@b.com", Role: "admin"}, IsAuthenticated: true},
			variant: HeaderStudent,
			labels:  []string{"Chat", "Profile", "Log out"},
			title:   "x@b.com",
		},
		{
			name:    "teacher",
			session: Session{Identity: &Identity{Email: "t@b.com", FirstName: "Ada", LastName: "Byron", Role: RoleTeacher}, IsAuthenticated: true},
			variant: HeaderTeacher,
			labels:  []string{"Discover", "Assistant", "Add", "Profile", "Settings", "Log out"},
			title:   "Ada Byron",
		},
		{
			name:    "identity without auth",
			session: Session{Identity: &Identity{Email: "t@b.com", Role: RoleTeacher}},
			variant: HeaderAnonymous,
			labels:  []string{"Log in", "Sign up"},
			title:   "Glancenote",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := HeaderFor(tt.session)
			if h.Variant != tt.variant {
				t.Errorf("Variant = %q, want %q", h.Variant, tt.variant)
			}
			if !reflect.DeepEqual(h.Labels(), tt.labels) {
				t.Errorf("Labels() = %v, want %v", h.Labels(), tt.labels)
			}
			if h.Title != tt.title {
				t.Errorf("Title = %q, want %q", h.Title, tt.title)
			}
		})
	}
}

func TestHeaderFor_TeacherAddMenu(t *testing.T) {
	h := HeaderFor(Session{Identity: &Identity{Email: "t@b.com", Role: RoleTeacher}, IsAuthenticated: true})
	var add NavItem
	for _, item := range h.Items {
		if item.Label == "Add" {
			add = item
		}
	}
	want := []string{"Student log", "Assignment", "Assignment completion"}
	got := Header{Items: add.Children}.Labels()
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Add menu = %v, want %v", got, want)
	}
}
