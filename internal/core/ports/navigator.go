package ports

// LoginPath is the view boundary users are sent to after a forced teardown.
const LoginPath = "/login"

// Navigator abstracts the view boundary the access layer redirects to when
// the backend rejects the session. The CLI wires a stderr-printing
// implementation; tests record navigation events.
type Navigator interface {
	CurrentPath() string
	Navigate(path string)
}
