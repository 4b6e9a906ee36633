package flows

import (
	"errors"
	"fmt"

	"github.com/podhealth/pod-api/pkg/domain"
)

// CreateProfile enforces username uniqueness at the application layer and
// creates the profile document, returning its identity. The username field
// must already be validated by the boundary. Returns *ConflictError when the
// username is taken, whether found by the pre-check or by losing the race to
// a concurrent create against the store's unique index.
func CreateProfile(store domain.DocumentStore, profile domain.Document) (string, error) {
	username, _ := profile["username"].(string)

	existing, err := store.Query("profile", map[string]interface{}{"username": username}, 1)
	if err != nil {
		return "", fmt.Errorf("profile lookup failed: %w", err)
	}
	if len(existing) > 0 {
		return "", &ConflictError{Field: "username", Value: username}
	}

	doc := profile.Copy()
	doc["created_at"] = Timestamp()

	id, err := store.Create("profile", doc)
	if err != nil {
		var dup *domain.DuplicateKeyError
		if errors.As(err, &dup) {
			return "", &ConflictError{Field: "username", Value: username}
		}
		return "", fmt.Errorf("profile creation failed: %w", err)
	}
	return id, nil
}
