package wishlist

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	"velore/models"
	"velore/utils"

	"github.com/julienschmidt/httprouter"
)

type Handlers struct {
	Engine *Engine
}

func NewHandlers(engine *Engine) *Handlers {
	return &Handlers{Engine: engine}
}

type wishlistView struct {
	Items []models.Product `json:"items"`
	Count int              `json:"count"`
}

func (h *Handlers) view() wishlistView {
	return wishlistView{Items: h.Engine.Items(), Count: h.Engine.WishlistCount()}
}

// GetWishlist returns all saved products in insertion order.
func (h *Handlers) GetWishlist(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	utils.RespondWithJSON(w, http.StatusOK, h.view())
}

// Toggle flips membership for the posted product and reports the new state.
func (h *Handlers) Toggle(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var p models.Product
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		log.Println("Toggle decode error:", err)
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}
	if p.ID <= 0 {
		utils.RespondWithError(w, http.StatusBadRequest, "Missing product id")
		return
	}

	if err := h.Engine.ToggleWishlist(p); err != nil {
		log.Println("Toggle persist error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to save wishlist")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"saved": h.Engine.IsInWishlist(p.ID),
		"count": h.Engine.WishlistCount(),
	})
}

// Add saves a product snapshot; duplicates are accepted silently.
func (h *Handlers) Add(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var p models.Product
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		log.Println("Add decode error:", err)
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}
	if p.ID <= 0 {
		utils.RespondWithError(w, http.StatusBadRequest, "Missing product id")
		return
	}

	if err := h.Engine.AddToWishlist(p); err != nil {
		log.Println("Add persist error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to save wishlist")
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, h.view())
}

// Remove deletes one entry; absent ids still succeed.
func (h *Handlers) Remove(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	productID, err := strconv.Atoi(ps.ByName("productid"))
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid product id")
		return
	}
	if err := h.Engine.RemoveFromWishlist(productID); err != nil {
		log.Println("Remove persist error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to save wishlist")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, h.view())
}

// Clear empties the wishlist.
func (h *Handlers) Clear(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if err := h.Engine.ClearWishlist(); err != nil {
		log.Println("Clear persist error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to save wishlist")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, h.view())
}
