package config

// NewNotionOAuthForTest creates a NotionOAuth config for testing purposes
func NewNotionOAuthForTest(clientID, clientSecret, redirectURI, stateSecret string) *NotionOAuth {
	return &NotionOAuth{
		clientID:     clientID,
		clientSecret: clientSecret,
		redirectURI:  redirectURI,
		stateSecret:  stateSecret,
	}
}

// NewSlackForTest creates a Slack config for testing purposes
func NewSlackForTest(botToken, channel string) *Slack {
	return &Slack{botToken: botToken, channel: channel}
}

// NewNotionForTest creates a Notion config for testing purposes
func NewNotionForTest(apiKey, databaseID, schemaPath string) *Notion {
	return &Notion{apiKey: apiKey, databaseID: databaseID, schemaPath: schemaPath}
}

// NewServerForTest creates a Server config for testing purposes
func NewServerForTest(addr string, port int) *Server {
	return &Server{addr: addr, port: port}
}

// NewRepositoryForTest creates a Repository config for testing purposes
func NewRepositoryForTest(backend, projectID string) *Repository {
	return &Repository{backend: backend, projectID: projectID}
}
