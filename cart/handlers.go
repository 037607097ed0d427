package cart

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	"velore/models"
	"velore/utils"

	"github.com/julienschmidt/httprouter"
)

// Handlers exposes the engine over HTTP. The engine is injected, not
// ambient.
type Handlers struct {
	Engine *Engine
}

func NewHandlers(engine *Engine) *Handlers {
	return &Handlers{Engine: engine}
}

type cartView struct {
	Items []models.CartLine `json:"items"`
	Total float64           `json:"total"`
	Count int               `json:"count"`
}

func (h *Handlers) view() cartView {
	return cartView{
		Items: h.Engine.Lines(),
		Total: h.Engine.CartTotal(),
		Count: h.Engine.CartCount(),
	}
}

// GetCart returns the current lines plus recomputed total and badge count.
func (h *Handlers) GetCart(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	utils.RespondWithJSON(w, http.StatusOK, h.view())
}

// AddToCart upserts a line for the posted product.
func (h *Handlers) AddToCart(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var payload struct {
		Product  models.Product `json:"product"`
		Quantity int            `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		log.Println("AddToCart decode error:", err)
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}
	if payload.Product.ID <= 0 || payload.Product.Price < 0 {
		utils.RespondWithError(w, http.StatusBadRequest, "Missing or invalid product")
		return
	}
	if payload.Quantity == 0 {
		payload.Quantity = 1
	}

	if err := h.Engine.AddToCart(payload.Product, payload.Quantity); err != nil {
		log.Println("AddToCart persist error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to save cart")
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, h.view())
}

// UpdateQuantity sets an absolute quantity; zero or less removes the line.
func (h *Handlers) UpdateQuantity(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	productID, err := strconv.Atoi(ps.ByName("productid"))
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid product id")
		return
	}
	var payload struct {
		Quantity int `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		log.Println("UpdateQuantity decode error:", err)
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}

	if err := h.Engine.UpdateQuantity(productID, payload.Quantity); err != nil {
		log.Println("UpdateQuantity persist error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to save cart")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, h.view())
}

// RemoveFromCart deletes one line; removing an absent line still succeeds.
func (h *Handlers) RemoveFromCart(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	productID, err := strconv.Atoi(ps.ByName("productid"))
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid product id")
		return
	}
	if err := h.Engine.RemoveFromCart(productID); err != nil {
		log.Println("RemoveFromCart persist error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to save cart")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, h.view())
}

// ClearCart empties the cart.
func (h *Handlers) ClearCart(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if err := h.Engine.ClearCart(); err != nil {
		log.Println("ClearCart persist error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to save cart")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, h.view())
}
