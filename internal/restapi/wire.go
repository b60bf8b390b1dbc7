// Package restapi defines the JSON wire types shared by the REST server
// and the client in backend/rest. Both sides marshal exactly these
// shapes; anything else on the wire is a bug on one side or the other.
package restapi

import "time"

// Credentials is the sign-in / sign-up request body.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// TokenPair is returned by sign-in, sign-up and refresh.
type TokenPair struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
	User         User      `json:"user"`
}

// User identifies the authenticated subject.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// RefreshRequest exchanges a refresh token for a new pair.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// ResetRequest asks for a password-reset mail.
type ResetRequest struct {
	Email          string `json:"email"`
	RedirectTarget string `json:"redirect_target"`
}

// PasswordUpdate sets a new password for the authenticated user.
type PasswordUpdate struct {
	NewPassword string `json:"new_password"`
}

// Order mirrors backend.Order on the wire.
type Order struct {
	Column     string `json:"column"`
	Descending bool   `json:"descending"`
}

// SelectRequest queries rows of a table.
type SelectRequest struct {
	Filter map[string]string `json:"filter,omitempty"`
	Order  *Order            `json:"order,omitempty"`
}

// RowsResponse carries query or update results.
type RowsResponse struct {
	Rows []map[string]any `json:"rows"`
}

// InsertRequest adds one row.
type InsertRequest struct {
	Row map[string]any `json:"row"`
}

// RowResponse carries one stored row.
type RowResponse struct {
	Row map[string]any `json:"row"`
}

// UpdateRequest patches all rows matching the filter.
type UpdateRequest struct {
	Patch  map[string]any    `json:"patch"`
	Filter map[string]string `json:"filter"`
}

// UpsertRequest inserts or replaces a row keyed by ConflictKey.
type UpsertRequest struct {
	Row         map[string]any `json:"row"`
	ConflictKey string         `json:"conflict_key"`
}

// DeleteRequest removes all rows matching the filter.
type DeleteRequest struct {
	Filter map[string]string `json:"filter"`
}

// ErrorResponse is the body of every non-2xx reply.
type ErrorResponse struct {
	Error string `json:"error"`
}
