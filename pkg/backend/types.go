package backend

// File is one uploaded file to forward: field name, original filename, and
// the caller's declared content type are preserved exactly on the wire.
type File struct {
	Field       string
	Filename    string
	ContentType string
	Content     []byte
}

// Response is an opaque backend answer. The gateway relays status and body
// unchanged; it never reinterprets the backend's JSON.
type Response struct {
	Status      int
	ContentType string
	Body        []byte
}
