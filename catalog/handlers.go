package catalog

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"velore/models"
	"velore/recordapi"
	"velore/utils"

	"github.com/disintegration/imaging"
	"github.com/julienschmidt/httprouter"
)

const uploadDir = "./static/productpic"

// Handlers serves the catalog. Reads come from the snapshot; admin writes
// go through the record API and land in the snapshot on the next reload.
type Handlers struct {
	Snap   *Snapshot
	Remote *recordapi.Client
}

func NewHandlers(snap *Snapshot, remote *recordapi.Client) *Handlers {
	return &Handlers{Snap: snap, Remote: remote}
}

// ListProducts returns the catalog, optionally filtered by ?category=.
func (h *Handlers) ListProducts(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	products := h.Snap.Products(r.URL.Query().Get("category"))
	utils.RespondWithJSON(w, http.StatusOK, products)
}

// GetProduct returns one product by id.
func (h *Handlers) GetProduct(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id, err := strconv.Atoi(ps.ByName("id"))
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid product id")
		return
	}
	p, ok := h.Snap.Product(id)
	if !ok {
		utils.RespondWithError(w, http.StatusNotFound, "Product not found")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, p)
}

// ListCategories returns the distinct category names.
func (h *Handlers) ListCategories(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	utils.RespondWithJSON(w, http.StatusOK, h.Snap.Categories())
}

// ReloadCatalog re-reads the snapshot file, picking up record-API edits.
func (h *Handlers) ReloadCatalog(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if err := h.Snap.Reload(); err != nil {
		log.Println("ReloadCatalog:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to reload catalog")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"count": len(h.Snap.Products(""))})
}

// AdminCreateProduct stores a new product in the record API.
func (h *Handlers) AdminCreateProduct(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var p models.Product
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}
	if p.Name == "" || p.Price <= 0 {
		utils.RespondWithError(w, http.StatusBadRequest, "Name and a positive price are required")
		return
	}
	created, err := h.Remote.CreateProduct(r.Context(), p)
	if err != nil {
		log.Println("AdminCreateProduct:", err)
		utils.RespondWithError(w, http.StatusBadGateway, "Record API unavailable")
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, created)
}

// AdminUpdateProduct replaces a product record.
func (h *Handlers) AdminUpdateProduct(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id, err := strconv.Atoi(ps.ByName("id"))
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid product id")
		return
	}
	var p models.Product
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}
	p.ID = id
	updated, err := h.Remote.UpdateProduct(r.Context(), p)
	if err != nil {
		log.Println("AdminUpdateProduct:", err)
		utils.RespondWithError(w, http.StatusBadGateway, "Record API unavailable")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, updated)
}

// AdminDeleteProduct removes a product record.
func (h *Handlers) AdminDeleteProduct(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id, err := strconv.Atoi(ps.ByName("id"))
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid product id")
		return
	}
	if err := h.Remote.DeleteProduct(r.Context(), id); err != nil {
		log.Println("AdminDeleteProduct:", err)
		utils.RespondWithError(w, http.StatusBadGateway, "Record API unavailable")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"deleted": id})
}

// UploadProductImage saves a product photo and a 300px-wide thumbnail.
func (h *Handlers) UploadProductImage(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if err := r.ParseMultipartForm(10 << 20); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Unable to parse form")
		return
	}
	file, _, err := r.FormFile("image")
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Image file is required")
		return
	}
	defer file.Close()

	img, err := imaging.Decode(file)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Unsupported image format")
		return
	}

	if err := ensureDirExists(uploadDir); err != nil {
		log.Println("UploadProductImage mkdir:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to save image")
		return
	}
	thumbDir := filepath.Join(uploadDir, "thumb")
	if err := ensureDirExists(thumbDir); err != nil {
		log.Println("UploadProductImage mkdir:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to save image")
		return
	}

	name := fmt.Sprintf("%s.jpg", ps.ByName("id"))
	imagePath := filepath.Join(uploadDir, name)
	if err := imaging.Save(img, imagePath); err != nil {
		log.Println("UploadProductImage save:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to save image")
		return
	}

	thumbImg := imaging.Resize(img, 300, 0, imaging.Lanczos)
	if err := imaging.Save(thumbImg, filepath.Join(thumbDir, name)); err != nil {
		log.Println("UploadProductImage thumbnail:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to save thumbnail")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"image":     "/static/productpic/" + name,
		"thumbnail": "/static/productpic/thumb/" + name,
	})
}

func ensureDirExists(dir string) error {
	return os.MkdirAll(dir, 0755)
}
