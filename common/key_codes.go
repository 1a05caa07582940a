package common

// Virtual key codes delivered by the window key callback.
// These values match GLFW key codes which use ASCII values for printable keys.
// Reference: https://pkg.go.dev/github.com/go-gl/glfw/v3.3/glfw#Key
const (
	KeySpace = 32  // Spacebar (ASCII)
	KeyR     = 82  // R key (ASCII)
	KeyV     = 86  // V key (ASCII)
	KeyEsc   = 256 // Escape key (GLFW)
	KeyF5    = 294 // F5 key (GLFW)
)
