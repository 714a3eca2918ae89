package router

import (
	"net/http"

	"webguard/backend/app/controllers"
	"webguard/backend/app/middleware"
)

func NewRouter(channelCtrl *controllers.ChannelController, authCtrl *controllers.AuthController, adminCtrl *controllers.AdminController, mw *middleware.Auth) http.Handler {
	mux := http.NewServeMux()
	// agent-facing channel endpoints
	mux.HandleFunc("/ping", channelCtrl.Ping)
	mux.HandleFunc("/get-commands", channelCtrl.GetCommands)
	mux.HandleFunc("/clear-commands", channelCtrl.ClearCommands)
	mux.HandleFunc("/track-url", channelCtrl.TrackURL)
	mux.HandleFunc("/urls", channelCtrl.ListURLs)

	mux.HandleFunc("/login", authCtrl.Login)

	// admin-only endpoints
	mux.Handle("/admin/command", mw.RequireAdmin(http.HandlerFunc(adminCtrl.PostCommand)))

	return mux
}
