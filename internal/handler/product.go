package handler

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/eclatbeaute/eclat/internal/model"
	"github.com/eclatbeaute/eclat/internal/store"
)

type ProductHandler struct {
	products *store.ProductStore
	log      *slog.Logger
}

func NewProductHandler(products *store.ProductStore, log *slog.Logger) *ProductHandler {
	return &ProductHandler{products: products, log: log.With("component", "product")}
}

type productRequest struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Price       float64 `json:"price"`
	Stock       int     `json:"stock"`
	ImageURL    string  `json:"image_url"`
}

func (req *productRequest) validate() string {
	req.Name = strings.TrimSpace(req.Name)
	req.Category = strings.TrimSpace(req.Category)
	switch {
	case req.Name == "":
		return "Le nom du produit est requis"
	case req.Category == "":
		return "La catégorie est requise"
	case req.Price < 0:
		return "Le prix doit être positif"
	case req.Stock < 0:
		return "Le stock doit être positif"
	}
	return ""
}

func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Requête invalide")
		return
	}
	if msg := req.validate(); msg != "" {
		respondError(w, http.StatusBadRequest, msg)
		return
	}

	product, err := h.products.Create(req.Name, req.Description, req.Category, req.Price, req.Stock, req.ImageURL)
	if err != nil {
		h.log.Error("create product", "error", err)
		respondError(w, http.StatusInternalServerError, "Impossible de créer le produit")
		return
	}
	respond(w, http.StatusCreated, "Produit créé", product)
}

func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	products, err := h.products.List()
	if err != nil {
		h.log.Error("list products", "error", err)
		respondError(w, http.StatusInternalServerError, "Une erreur est survenue")
		return
	}
	if products == nil {
		products = []model.Product{}
	}
	respondData(w, http.StatusOK, products)
}

func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Identifiant invalide")
		return
	}

	product, err := h.products.GetByID(id)
	if err != nil {
		h.log.Error("get product", "error", err)
		respondError(w, http.StatusInternalServerError, "Une erreur est survenue")
		return
	}
	if product == nil {
		respondError(w, http.StatusNotFound, "Produit non trouvé")
		return
	}
	respondData(w, http.StatusOK, product)
}

func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Identifiant invalide")
		return
	}
	var req productRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Requête invalide")
		return
	}
	if msg := req.validate(); msg != "" {
		respondError(w, http.StatusBadRequest, msg)
		return
	}

	existing, err := h.products.GetByID(id)
	if err != nil {
		h.log.Error("get product", "error", err)
		respondError(w, http.StatusInternalServerError, "Une erreur est survenue")
		return
	}
	if existing == nil {
		respondError(w, http.StatusNotFound, "Produit non trouvé")
		return
	}

	product, err := h.products.Update(id, req.Name, req.Description, req.Category, req.Price, req.Stock, req.ImageURL)
	if err != nil {
		h.log.Error("update product", "error", err)
		respondError(w, http.StatusInternalServerError, "Impossible de mettre à jour le produit")
		return
	}
	respond(w, http.StatusOK, "Produit mis à jour", product)
}

func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Identifiant invalide")
		return
	}

	if err := h.products.Delete(id); err != nil {
		h.log.Error("delete product", "error", err)
		respondError(w, http.StatusInternalServerError, "Impossible de supprimer le produit")
		return
	}
	respond(w, http.StatusOK, "Produit supprimé", nil)
}
