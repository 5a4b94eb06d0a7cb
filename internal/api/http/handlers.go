package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"quickbite/internal/cart"
	"quickbite/internal/domain"
	"quickbite/internal/service"

	"github.com/gorilla/mux"
)

type Handler struct {
	Orders          service.OrderServiceInterface
	Catalog         service.CatalogServiceInterface
	Users           service.UserServiceInterface
	CartPersistence cart.Persistence
	ServiceToken    string
}

func NewHandler(orders service.OrderServiceInterface, catalog service.CatalogServiceInterface,
	users service.UserServiceInterface, carts cart.Persistence, serviceToken string) *Handler {
	return &Handler{
		Orders:          orders,
		Catalog:         catalog,
		Users:           users,
		CartPersistence: carts,
		ServiceToken:    serviceToken,
	}
}

func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/health", h.healthCheck).Methods("GET")

	r.HandleFunc("/api/products", h.listProducts).Methods("GET")
	r.HandleFunc("/api/products/{id}", h.getProduct).Methods("GET")

	r.HandleFunc("/api/carts/{cartKey}", h.getCart).Methods("GET")
	r.HandleFunc("/api/carts/{cartKey}", h.clearCart).Methods("DELETE")
	r.HandleFunc("/api/carts/{cartKey}/items", h.addCartItem).Methods("POST")
	r.HandleFunc("/api/carts/{cartKey}/items", h.updateCartItem).Methods("PATCH")
	r.HandleFunc("/api/carts/{cartKey}/items", h.removeCartItem).Methods("DELETE")

	r.HandleFunc("/api/orders", h.createOrder).Methods("POST")
	r.HandleFunc("/api/orders", h.listOrders).Methods("GET")
	r.HandleFunc("/api/orders/{id}", h.getOrder).Methods("GET")
	r.HandleFunc("/api/orders/{id}/qrcode", h.getOrderQRCode).Methods("GET")
	r.HandleFunc("/api/orders/{id}/status", h.transitionOrder).Methods("POST")

	r.HandleFunc("/api/admin/users", h.provisionUser).Methods("POST")
	r.HandleFunc("/api/admin/orders/reconcile", h.reconcileOrders).Methods("POST")
}

func (h *Handler) healthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"service":   "quickbite",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

func (h *Handler) listProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.Catalog.ListProducts(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, products)
}

func (h *Handler) getProduct(w http.ResponseWriter, r *http.Request) {
	productID, _ := strconv.Atoi(mux.Vars(r)["id"])

	product, groups, err := h.Catalog.GetProduct(r.Context(), productID)
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			http.Error(w, "Product not found", http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"product":       product,
		"option_groups": groups,
	})
}

func (h *Handler) openCart(r *http.Request) *cart.Store {
	return cart.NewStore(r.Context(), mux.Vars(r)["cartKey"], h.CartPersistence)
}

func (h *Handler) getCart(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.openCart(r).View())
}

func (h *Handler) addCartItem(w http.ResponseWriter, r *http.Request) {
	var item domain.CartItem
	if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if item.ProductID <= 0 || item.ProductName == "" {
		http.Error(w, "product_id and product_name are required", http.StatusBadRequest)
		return
	}

	store := h.openCart(r)
	if err := store.Add(r.Context(), item); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, store.View())
}

func (h *Handler) updateCartItem(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		LineKey  string `json:"line_key"`
		Quantity int    `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if payload.LineKey == "" {
		http.Error(w, "line_key is required", http.StatusBadRequest)
		return
	}

	store := h.openCart(r)
	if err := store.UpdateQuantity(r.Context(), payload.LineKey, payload.Quantity); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, store.View())
}

func (h *Handler) removeCartItem(w http.ResponseWriter, r *http.Request) {
	lineKey := r.URL.Query().Get("line_key")
	if lineKey == "" {
		http.Error(w, "line_key is required", http.StatusBadRequest)
		return
	}

	store := h.openCart(r)
	if err := store.Remove(r.Context(), lineKey); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, store.View())
}

func (h *Handler) clearCart(w http.ResponseWriter, r *http.Request) {
	store := h.openCart(r)
	if err := store.Clear(r.Context()); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, store.View())
}

func (h *Handler) createOrder(w http.ResponseWriter, r *http.Request) {
	var req domain.CheckoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON format: "+err.Error(), http.StatusBadRequest)
		return
	}

	order, err := h.Orders.Submit(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmptyCart),
			errors.Is(err, service.ErrMissingContact),
			errors.Is(err, service.ErrInvalidPayment),
			errors.Is(err, service.ErrChangeRequiresCash),
			errors.Is(err, service.ErrInvalidQuantity):
			http.Error(w, err.Error(), http.StatusBadRequest)
		default:
			http.Error(w, "Failed to create order: "+err.Error(), http.StatusInternalServerError)
		}
		return
	}

	writeJSON(w, http.StatusCreated, order)
}

func (h *Handler) getOrder(w http.ResponseWriter, r *http.Request) {
	orderID, _ := strconv.Atoi(mux.Vars(r)["id"])

	order, err := h.Orders.GetOrder(r.Context(), orderID)
	if err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			http.Error(w, "Order not found", http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

func (h *Handler) listOrders(w http.ResponseWriter, r *http.Request) {
	status := r.URL.Query().Get("status")
	customerID, _ := strconv.Atoi(r.URL.Query().Get("customer_id"))

	orders, err := h.Orders.ListOrders(r.Context(), status, customerID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, orders)
}

func (h *Handler) getOrderQRCode(w http.ResponseWriter, r *http.Request) {
	orderID, _ := strconv.Atoi(mux.Vars(r)["id"])

	png, err := h.Orders.OrderQRCode(r.Context(), orderID)
	if err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			http.Error(w, "Order not found", http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}

func (h *Handler) transitionOrder(w http.ResponseWriter, r *http.Request) {
	orderID, _ := strconv.Atoi(mux.Vars(r)["id"])

	var payload struct {
		Status string `json:"status"`
		Note   string `json:"note"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	order, err := h.Orders.Transition(r.Context(), orderID, payload.Status, payload.Note)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrOrderNotFound):
			http.Error(w, "Order not found", http.StatusNotFound)
		case errors.Is(err, service.ErrInvalidTransition):
			http.Error(w, err.Error(), http.StatusConflict)
		default:
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
		return
	}
	writeJSON(w, http.StatusOK, order)
}

func (h *Handler) provisionUser(w http.ResponseWriter, r *http.Request) {
	if h.ServiceToken == "" || r.Header.Get("X-Service-Token") != h.ServiceToken {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}

	var payload struct {
		Email    string `json:"email"`
		Password string `json:"password"`
		FullName string `json:"full_name"`
		Phone    string `json:"phone"`
		Role     string `json:"role"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	user, err := h.Users.Provision(r.Context(), payload.Email, payload.Password,
		payload.FullName, payload.Phone, payload.Role)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidUserFields), errors.Is(err, service.ErrInvalidRole):
			http.Error(w, err.Error(), http.StatusBadRequest)
		case errors.Is(err, service.ErrDuplicateEmail):
			http.Error(w, err.Error(), http.StatusConflict)
		default:
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
		return
	}
	writeJSON(w, http.StatusCreated, user)
}

func (h *Handler) reconcileOrders(w http.ResponseWriter, r *http.Request) {
	if h.ServiceToken == "" || r.Header.Get("X-Service-Token") != h.ServiceToken {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}

	ids, err := h.Orders.Reconcile(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"orders_without_items": ids,
		"count":                len(ids),
	})
}

func writeJSON(w http.ResponseWriter, code int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(payload)
}
