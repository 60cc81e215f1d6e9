package service

// Service is a long-lived subsystem owned by a Group: the speaker, the network transport
// Group calls Init on every binding in dependency order, then Start, and Stop in reverse
type Service interface {
	// Name is unique within a Group and is what Dependencies refer to
	Name() string

	// Dependencies lists services that must be initialized and started first
	Dependencies() []string

	// Init receives the binding's args, typically one *Config of the service's own package
	Init(args ...any) error

	// Start may launch goroutines; every service is initialized by then
	Start() error

	// Stop releases resources and must tolerate repeated calls
	Stop() error
}
