package interfaces

// Repository defines the interface for data persistence
type Repository interface {
	Credential() CredentialRepository

	// Close releases the underlying client, if any
	Close() error
}
