package ports

// IDGenerator produces slide identifiers that are unique for the lifetime
// of the process
type IDGenerator interface {
	NewID() string
}
