package router

import (
	"net/http"

	"renewals-authorization/app/controller"
)

type Controllers struct {
	Renewal *controller.RenewalController
}

// pingHandler handles GET /ping
func pingHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}

// SetupRoutes registers every endpoint on mux
func SetupRoutes(mux *http.ServeMux, controllers *Controllers) {
	// Ping endpoint
	mux.HandleFunc("/ping", pingHandler)

	// Tool registration for the host studio
	mux.HandleFunc("/admin/renewals/tool", controllers.Renewal.GetTool)

	// Start a renewal session
	mux.HandleFunc(controller.SessionsPath, controllers.Renewal.CreateSession)

	// Session state and actions: fields, search, select, cart, items, submit
	mux.HandleFunc(controller.SessionsPath+"/", controllers.Renewal.HandleSession)
}
