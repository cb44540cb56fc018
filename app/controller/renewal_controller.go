package controller

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"renewals-authorization/models"
	"renewals-authorization/service"
)

// SessionsPath is the URL prefix of the renewal session endpoints
const SessionsPath = "/admin/renewals/sessions"

// Tool is how a host studio registers the renewals tool
var Tool = models.ToolRegistration{
	Name:  "renewals",
	Title: "Renewals",
	Icon:  "🔄",
}

// RenewalController handles HTTP requests for renewal sessions
type RenewalController struct {
	sessions service.SessionServiceInterface
	logger   *zap.Logger
}

// NewRenewalController creates a new RenewalController
func NewRenewalController(sessions service.SessionServiceInterface, logger *zap.Logger) *RenewalController {
	return &RenewalController{
		sessions: sessions,
		logger:   logger,
	}
}

// GetTool handles GET /admin/renewals/tool
func (c *RenewalController) GetTool(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	c.writeJSON(w, "GetTool", http.StatusOK, Tool)
}

// CreateSession handles POST /admin/renewals/sessions
// Example response:
// {
//   "id": "5b0f3c5e-8c8e-4d0e-9b7a-0c7f3f0f2d1a",
//   "state": {"loading": false, "searchQuery": "", "foundOrders": [], "additionalItems": [], ...},
//   "summary": {"subtotal": "$0.00", "tax": "$0.00", "total": "$0.00", "canSubmit": false}
// }
func (c *RenewalController) CreateSession(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		c.logger.Warn("CreateSession: method not allowed", zap.String("method", r.Method))
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	id, form := c.sessions.Create()
	c.logger.Info("📥 CreateSession: started renewal session", zap.String("session", id))
	c.writeJSON(w, "CreateSession", http.StatusCreated, sessionResponse(id, form, ""))
}

// HandleSession dispatches /admin/renewals/sessions/{id}[/action[/index]]
func (c *RenewalController) HandleSession(w http.ResponseWriter, r *http.Request) {
	path := strings.Trim(strings.TrimPrefix(r.URL.Path, SessionsPath), "/")
	if path == "" {
		http.Error(w, "session id parameter is required", http.StatusBadRequest)
		return
	}
	parts := strings.Split(path, "/")
	id := parts[0]

	form, err := c.sessions.Get(id)
	if err != nil {
		c.writeError(w, "HandleSession", err)
		return
	}

	action := ""
	if len(parts) > 1 {
		action = parts[1]
	}

	switch {
	case action == "" && len(parts) == 1:
		switch r.Method {
		case http.MethodGet:
			c.writeJSON(w, "GetSession", http.StatusOK, sessionResponse(id, form, ""))
		case http.MethodDelete:
			c.DeleteSession(w, r, id)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	case action == "fields" && len(parts) == 2:
		c.requireMethod(w, r, http.MethodPut, func() { c.UpdateFields(w, r, id, form) })
	case action == "search" && len(parts) == 2:
		c.requireMethod(w, r, http.MethodPost, func() { c.Search(w, r, id, form) })
	case action == "select" && len(parts) == 2:
		c.requireMethod(w, r, http.MethodPost, func() { c.SelectOrder(w, r, id, form) })
	case action == "cart" && len(parts) == 2:
		c.requireMethod(w, r, http.MethodPost, func() { c.ImportCart(w, r, id, form) })
	case action == "items" && len(parts) == 2:
		c.requireMethod(w, r, http.MethodPost, func() { c.AddItem(w, r, id, form) })
	case action == "items" && len(parts) == 3:
		index, err := strconv.Atoi(parts[2])
		if err != nil {
			http.Error(w, "invalid item index parameter", http.StatusBadRequest)
			return
		}
		switch r.Method {
		case http.MethodPatch, http.MethodPut:
			c.UpdateItem(w, r, id, form, index)
		case http.MethodDelete:
			c.RemoveItem(w, r, id, form, index)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	case action == "submit" && len(parts) == 2:
		c.requireMethod(w, r, http.MethodPost, func() { c.Submit(w, r, id, form) })
	default:
		http.Error(w, "Not found", http.StatusNotFound)
	}
}

func (c *RenewalController) requireMethod(w http.ResponseWriter, r *http.Request, method string, next func()) {
	if r.Method != method {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	next()
}

// DeleteSession handles DELETE /admin/renewals/sessions/{id}
func (c *RenewalController) DeleteSession(w http.ResponseWriter, r *http.Request, id string) {
	if err := c.sessions.Delete(id); err != nil {
		c.writeError(w, "DeleteSession", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// UpdateFields handles PUT /admin/renewals/sessions/{id}/fields
// Example request:
// {"effectiveDate": "2024-02-01", "supersededDocNumber": "INV-889", "discountCode": "RENEW10"}
func (c *RenewalController) UpdateFields(w http.ResponseWriter, r *http.Request, id string, form *service.RenewalForm) {
	var req models.UpdateFieldsRequest
	if !c.decode(w, r, "UpdateFields", &req) {
		return
	}

	applyFields(form, &req)
	c.writeJSON(w, "UpdateFields", http.StatusOK, sessionResponse(id, form, ""))
}

func applyFields(form *service.RenewalForm, req *models.UpdateFieldsRequest) {
	if req.SearchQuery != nil {
		form.SetSearchQuery(*req.SearchQuery)
	}
	if req.CartURL != nil {
		form.SetCartURL(*req.CartURL)
	}
	if req.EffectiveDate != nil {
		form.SetEffectiveDate(*req.EffectiveDate)
	}
	if req.SupersededDocNumber != nil {
		form.SetSupersededDocNumber(*req.SupersededDocNumber)
	}
	if req.DiscountCode != nil {
		form.SetDiscountCode(*req.DiscountCode)
	}
}

// Search handles POST /admin/renewals/sessions/{id}/search
// Example request:
// {"query": "ada"}
func (c *RenewalController) Search(w http.ResponseWriter, r *http.Request, id string, form *service.RenewalForm) {
	var req models.SearchRequest
	if !c.decode(w, r, "Search", &req) {
		return
	}
	if req.Query != nil {
		form.SetSearchQuery(*req.Query)
	}

	if err := form.Search(r.Context()); err != nil {
		c.writeError(w, "Search", err)
		return
	}
	c.writeJSON(w, "Search", http.StatusOK, sessionResponse(id, form, ""))
}

// SelectOrder handles POST /admin/renewals/sessions/{id}/select
// Example request:
// {"orderId": "order-123"}
func (c *RenewalController) SelectOrder(w http.ResponseWriter, r *http.Request, id string, form *service.RenewalForm) {
	var req models.SelectOrderRequest
	if !c.decode(w, r, "SelectOrder", &req) {
		return
	}

	if err := form.SelectOrder(req.OrderID); err != nil {
		c.writeError(w, "SelectOrder", err)
		return
	}
	c.writeJSON(w, "SelectOrder", http.StatusOK, sessionResponse(id, form, ""))
}

// ImportCart handles POST /admin/renewals/sessions/{id}/cart
// Example request:
// {"cartUrl": "https://shop.example.com/checkout?cart=abc123"}
func (c *RenewalController) ImportCart(w http.ResponseWriter, r *http.Request, id string, form *service.RenewalForm) {
	var req models.ImportCartRequest
	if !c.decode(w, r, "ImportCart", &req) {
		return
	}
	if req.CartURL != nil {
		form.SetCartURL(*req.CartURL)
	}

	if _, err := form.ImportCart(r.Context()); err != nil {
		c.writeError(w, "ImportCart", err)
		return
	}
	c.writeJSON(w, "ImportCart", http.StatusOK, sessionResponse(id, form, ""))
}

// AddItem handles POST /admin/renewals/sessions/{id}/items
func (c *RenewalController) AddItem(w http.ResponseWriter, r *http.Request, id string, form *service.RenewalForm) {
	form.AddItem()
	c.writeJSON(w, "AddItem", http.StatusOK, sessionResponse(id, form, ""))
}

// UpdateItem handles PATCH /admin/renewals/sessions/{id}/items/{index}
// Example request:
// {"field": "price", "value": "19.99"}
func (c *RenewalController) UpdateItem(w http.ResponseWriter, r *http.Request, id string, form *service.RenewalForm, index int) {
	var req models.UpdateItemRequest
	if !c.decode(w, r, "UpdateItem", &req) {
		return
	}

	if err := form.UpdateItem(index, req.Field, req.Value); err != nil {
		c.writeError(w, "UpdateItem", err)
		return
	}
	c.writeJSON(w, "UpdateItem", http.StatusOK, sessionResponse(id, form, ""))
}

// RemoveItem handles DELETE /admin/renewals/sessions/{id}/items/{index}
func (c *RenewalController) RemoveItem(w http.ResponseWriter, r *http.Request, id string, form *service.RenewalForm, index int) {
	if err := form.RemoveItem(index); err != nil {
		c.writeError(w, "RemoveItem", err)
		return
	}
	c.writeJSON(w, "RemoveItem", http.StatusOK, sessionResponse(id, form, ""))
}

// Submit handles POST /admin/renewals/sessions/{id}/submit
// Example response:
// {
//   "id": "5b0f3c5e-...",
//   "message": "Renewal order created successfully: 7d1c...",
//   "order": {"_id": "7d1c...", "_type": "order", "orderType": "renewal", "orderNumber": "REN-1705314600000", ...},
//   "state": {...},
//   "summary": {...}
// }
func (c *RenewalController) Submit(w http.ResponseWriter, r *http.Request, id string, form *service.RenewalForm) {
	created, err := form.Submit(r.Context())
	if err != nil {
		c.writeError(w, "Submit", err)
		return
	}

	resp := models.SubmitResponse{
		SessionResponse: sessionResponse(id, form, fmt.Sprintf("Renewal order created successfully: %s", created.ID)),
		Order:           created,
	}
	c.writeJSON(w, "Submit", http.StatusCreated, resp)
}

func sessionResponse(id string, form *service.RenewalForm, message string) models.SessionResponse {
	state, summary := form.Snapshot()
	return models.SessionResponse{
		ID:      id,
		State:   state,
		Summary: summary,
		Message: message,
	}
}

// decode reads an optional JSON body. An empty body leaves v untouched.
func (c *RenewalController) decode(w http.ResponseWriter, r *http.Request, op string, v interface{}) bool {
	if r.Body == nil || r.Body == http.NoBody {
		return true
	}
	defer r.Body.Close()

	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return true
		}
		c.logger.Warn(op+": failed to decode request body", zap.Error(err))
		http.Error(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return false
	}
	return true
}

// writeError maps service errors to HTTP responses
func (c *RenewalController) writeError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, service.ErrSessionNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, service.ErrBusy):
		http.Error(w, err.Error(), http.StatusConflict)
	case service.IsValidation(err):
		c.logger.Info(op+": rejected", zap.String("reason", service.UserMessage(err)))
		http.Error(w, service.UserMessage(err), http.StatusBadRequest)
	case service.IsRemote(err):
		c.logger.Error("❌ "+op+": document store failure", zap.Error(err))
		http.Error(w, service.UserMessage(err), http.StatusBadGateway)
	default:
		c.logger.Error("❌ "+op+": unexpected error", zap.Error(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

// writeJSON encodes v before writing the status so an encoding failure
// still produces an error response
func (c *RenewalController) writeJSON(w http.ResponseWriter, op string, status int, v interface{}) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		c.logger.Error("❌ "+op+": error encoding response", zap.Error(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(buf.Bytes()); err != nil {
		c.logger.Warn(op+": error writing response", zap.Error(err))
	}
}
