package cli

var (
	ReplayFiles      = replayFiles
	PrintCredentials = printCredentials
	GetIndexConfig   = getIndexConfig
)
