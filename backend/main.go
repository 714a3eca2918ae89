package main

import (
	"flag"
	"os"

	"webguard/backend/global"
	"webguard/backend/initialize"
	"webguard/backend/server"
)

func main() {
	cfgPath := flag.String("config", "config/backend.yaml", "Path to configuration file")
	flag.Parse()

	app, err := initialize.Build(*cfgPath)
	if err != nil {
		global.Logger.Error().Err(err).Msg("build backend")
		os.Exit(1)
	}

	addr := app.Cfg.HTTP.Addr()
	global.Logger.Info().Str("addr", addr).Msg("backend listening")
	if err := server.StartHTTP(addr, app.Router); err != nil {
		global.Logger.Error().Err(err).Msg("http server")
		os.Exit(1)
	}
}
