package memory

import (
	"github.com/secmon-lab/instanotion/pkg/domain/interfaces"
)

// Repository is an alias for Memory to match the pattern
type Repository = Memory

// Memory is an in-process repository for development and tests
type Memory struct {
	credential *credentialRepository
}

var _ interfaces.Repository = &Memory{}

func New() *Memory {
	return &Memory{
		credential: newCredentialRepository(),
	}
}

func (m *Memory) Credential() interfaces.CredentialRepository {
	return m.credential
}

func (m *Memory) Close() error {
	return nil
}
