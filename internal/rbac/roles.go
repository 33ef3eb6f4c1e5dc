package rbac

// Role names. Keep these stable; they are embedded in issued tokens.
const (
	RoleUser  = "user"
	RoleCoach = "coach"
	RoleAdmin = "admin"
)
