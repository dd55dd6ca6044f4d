package metadata

import "fmt"

// Application is an application record as served by the metadata service.
// The password field holds the bcrypt hash, never the plain password.
type Application struct {
	Name           string `json:"name"`
	HashedPassword string `json:"password"`
	AdminEmail     string `json:"admin_email"`
	Token          string `json:"token"`
}

// CreateApplicationRequest is the body for POST /create_application.
type CreateApplicationRequest struct {
	Name           string `json:"name"`
	HashedPassword string `json:"hashed_password"`
	AdminEmail     string `json:"admin_email"`
	Token          string `json:"token"`
}

// UpdateTokenRequest is the body for POST /update_token.
type UpdateTokenRequest struct {
	Name  string `json:"name"`
	Token string `json:"token"`
}

// StatusError is a non-2xx answer from the metadata service. It keeps the
// upstream status, the parsed detail message, and the raw body so the
// gateway can relay the failure verbatim — the metadata service is
// authoritative for not-found, already-exists, and similar conditions.
type StatusError struct {
	Status int
	Detail string
	Body   []byte
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("metadata service returned %d: %s", e.Status, e.Detail)
}
