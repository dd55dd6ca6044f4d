package models

// Application is the registration request body for a new application.
type Application struct {
	Name       string `json:"name" binding:"required"`
	Password   string `json:"password" binding:"required"`
	AdminEmail string `json:"admin_email" binding:"required,email"`
}

// Credentials is a transient name/password pair supplied by a caller for
// password-proof operations (deletion, token revocation). Never stored.
type Credentials struct {
	Name     string `json:"name" binding:"required"`
	Password string `json:"password" binding:"required"`
}
