package ledger

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/crypto/bcrypt"

	"pichacka/internal/core"
)

// RegisterUser creates a user with a bcrypt-hashed password and initials
// taken from the display name.
func RegisterUser(ctx context.Context, s UserStore, username, password, displayName string) (core.User, error) {
	in := core.NewUser{
		Username:       strings.TrimSpace(username),
		Password:       password,
		DisplayName:    strings.TrimSpace(displayName),
		AvatarInitials: Initials(displayName),
	}
	if err := in.Validate(); err != nil {
		return core.User{}, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return core.User{}, fmt.Errorf("hash password: %w", err)
	}
	in.Password = string(hash)

	u, err := s.CreateUser(ctx, in)
	if err != nil {
		return core.User{}, fmt.Errorf("create user: %w", err)
	}
	return u, nil
}

// Initials returns up to two upper-case initials, "Marie Nováková" -> "MN".
func Initials(name string) string {
	out := make([]rune, 0, 2)
	for _, word := range strings.Fields(name) {
		r := []rune(word)[0]
		if !unicode.IsLetter(r) {
			continue
		}
		out = append(out, unicode.ToUpper(r))
		if len(out) == 2 {
			break
		}
	}
	return string(out)
}
