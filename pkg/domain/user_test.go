package domain

import "testing"

func TestUserDisplayName(t *testing.T) {
	tests := []struct {
		name string
		user User
		want string
	}{
		{"full profile", User{Username: "sam", Profile: Profile{FirstName: "Sam", LastName: "Okafor"}}, "Sam Okafor"},
		{"first name only", User{Username: "sam", Profile: Profile{FirstName: "Sam"}}, "Sam"},
		{"no profile", User{Username: "sam"}, "sam"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.user.DisplayName(); got != tc.want {
				t.Errorf("DisplayName() = %q, want %q", got, tc.want)
			}
		})
	}
}
