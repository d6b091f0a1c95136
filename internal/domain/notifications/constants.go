package notifications

const (
	TypeAccessDenied   = "access_denied"
	TypeSessionExpired = "session_expired"
	TypeSignedOut      = "signed_out"
	TypeActionResult   = "action_result"
)

const (
	LevelInfo    = "info"
	LevelSuccess = "success"
	LevelError   = "error"
)

// maxQueued bounds the notices kept for one browser between page views.
const maxQueued = 10
