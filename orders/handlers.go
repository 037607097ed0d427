package orders

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"regexp"
	"strings"

	"velore/models"
	"velore/recordapi"
	"velore/utils"

	"github.com/julienschmidt/httprouter"
)

var (
	phoneRe   = regexp.MustCompile(`^\d{10}$`)
	pincodeRe = regexp.MustCompile(`^\d{6}$`)
	emailRe   = regexp.MustCompile(`^\S+@\S+\.\S+$`)
)

// Handlers exposes checkout and order tracking. Form validation lives here,
// at the boundary; the materializer assumes validated input.
type Handlers struct {
	Mat    *Materializer
	Remote *recordapi.Client
}

func NewHandlers(mat *Materializer, remote *recordapi.Client) *Handlers {
	return &Handlers{Mat: mat, Remote: remote}
}

// validateForm mirrors the storefront's checkout rules.
func validateForm(f models.ShippingAddress) map[string]string {
	errs := map[string]string{}
	if strings.TrimSpace(f.FirstName) == "" {
		errs["firstName"] = "First name is required"
	}
	if strings.TrimSpace(f.LastName) == "" {
		errs["lastName"] = "Last name is required"
	}
	switch {
	case strings.TrimSpace(f.Email) == "":
		errs["email"] = "Email is required"
	case !emailRe.MatchString(f.Email):
		errs["email"] = "Email is invalid"
	}
	switch {
	case strings.TrimSpace(f.Phone) == "":
		errs["phone"] = "Phone number is required"
	case !phoneRe.MatchString(f.Phone):
		errs["phone"] = "Phone number must be 10 digits"
	}
	if strings.TrimSpace(f.Address) == "" {
		errs["address"] = "Address is required"
	}
	if strings.TrimSpace(f.City) == "" {
		errs["city"] = "City is required"
	}
	if strings.TrimSpace(f.State) == "" {
		errs["state"] = "State is required"
	}
	switch {
	case strings.TrimSpace(f.Pincode) == "":
		errs["pincode"] = "Pincode is required"
	case !pincodeRe.MatchString(f.Pincode):
		errs["pincode"] = "Pincode must be 6 digits"
	}
	switch f.PaymentMethod {
	case "cod", "card", "upi":
	default:
		errs["paymentMethod"] = "Unknown payment method"
	}
	return errs
}

// PlaceOrder materializes the current cart into an order.
func (h *Handlers) PlaceOrder(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var form models.ShippingAddress
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		log.Println("PlaceOrder decode error:", err)
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}
	if errs := validateForm(form); len(errs) > 0 {
		utils.RespondWithJSON(w, http.StatusBadRequest, utils.M{"errors": errs})
		return
	}

	order, err := h.Mat.Place(r.Context(), form)
	if err != nil {
		if errors.Is(err, ErrEmptyCart) {
			utils.RespondWithError(w, http.StatusBadRequest, "Cart is empty")
			return
		}
		// local storage rejected the write: the one failure worth surfacing
		log.Println("PlaceOrder persist error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to save order")
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, order)
}

// GetLastOrder returns the most recent order, for the confirmation page.
func (h *Handlers) GetLastOrder(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	order, ok := h.Mat.LastOrder()
	if !ok {
		utils.RespondWithError(w, http.StatusNotFound, "No orders yet")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, order)
}

// GetOrderHistory returns all locally recorded orders.
func (h *Handlers) GetOrderHistory(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	history := h.Mat.History()
	if history == nil {
		history = []models.Order{}
	}
	utils.RespondWithJSON(w, http.StatusOK, history)
}

// GetOrder returns one order by number, for the tracking page.
func (h *Handlers) GetOrder(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	order, err := h.Mat.FindByNumber(ps.ByName("ordernumber"))
	if err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Order not found")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, order)
}

// AdminListOrders serves the order-management table. The record API is
// consulted first; on failure the local history still renders the page.
func (h *Handlers) AdminListOrders(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if h.Remote != nil {
		if remote, err := h.Remote.ListOrders(r.Context()); err == nil {
			utils.RespondWithJSON(w, http.StatusOK, remote)
			return
		} else {
			log.Println("AdminListOrders: record API unreachable, serving local history:", err)
		}
	}
	utils.RespondWithJSON(w, http.StatusOK, h.Mat.History())
}

// AdminUpdateStatus moves an order through the status machine and mirrors
// the change to the record API.
func (h *Handlers) AdminUpdateStatus(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var payload struct {
		Status models.OrderStatus `json:"status"`
		// the record store's own id for the order, when known
		RecordID string `json:"recordId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}

	order, err := h.Mat.SetStatus(ps.ByName("ordernumber"), payload.Status)
	if err != nil {
		if errors.Is(err, ErrOrderNotFound) {
			utils.RespondWithError(w, http.StatusNotFound, "Order not found")
			return
		}
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	if h.Remote != nil && payload.RecordID != "" {
		if err := h.Remote.PatchOrderStatus(r.Context(), payload.RecordID, payload.Status); err != nil {
			log.Println("AdminUpdateStatus: record API patch failed:", err)
		}
	}
	utils.RespondWithJSON(w, http.StatusOK, order)
}

// AdminStats feeds the dashboard from the local history.
func (h *Handlers) AdminStats(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	history := h.Mat.History()
	var revenue float64
	byStatus := map[models.OrderStatus]int{}
	for _, o := range history {
		if o.Status != models.StatusCancelled {
			revenue += o.Total
		}
		byStatus[o.Status]++
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"orderCount": len(history),
		"revenue":    revenue,
		"byStatus":   byStatus,
	})
}
