package model

// Sender is the resolved identity of a message sender. Only ID is guaranteed.
type Sender struct {
	ID       string
	Username string
	Name     string
}

// DisplayName prefers the profile name, then the username, then the raw ID
func (s *Sender) DisplayName() string {
	switch {
	case s.Name != "":
		return s.Name
	case s.Username != "":
		return s.Username
	default:
		return s.ID
	}
}
