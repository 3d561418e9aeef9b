package bus

// Well known role names seeded at install time. New roles can be created at
// runtime; these three are what route authorization keys off.
const (
	RoleAdmin   = "admin"
	RoleManager = "manager"
	RoleWorker  = "worker"
)
