package config

import (
	"fmt"
	"log/slog"

	"github.com/urfave/cli/v3"
)

const defaultAddr = ":3000"

// Server holds the HTTP listener settings
type Server struct {
	addr string
	port int
}

func (x *Server) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "addr",
			Usage:       "HTTP server address (default " + defaultAddr + ")",
			Sources:     cli.EnvVars("INSTANOTION_ADDR"),
			Destination: &x.addr,
		},
		&cli.IntFlag{
			Name:        "port",
			Usage:       "HTTP server port, used when --addr is not set",
			Sources:     cli.EnvVars("PORT"),
			Destination: &x.port,
		},
	}
}

func (x Server) LogValue() slog.Value {
	return slog.GroupValue(slog.String("addr", x.Addr()))
}

// Addr returns the listen address. --addr wins over --port.
func (x *Server) Addr() string {
	if x.addr != "" {
		return x.addr
	}
	if x.port > 0 {
		return fmt.Sprintf(":%d", x.port)
	}
	return defaultAddr
}
