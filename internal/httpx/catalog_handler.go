package httpx

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/ariefcatur/korzinka-bot/internal/shop"
)

// CatalogHandler exposes the product list read-only, for dashboards and
// smoke checks. Managing products stays in the bot.
type CatalogHandler struct {
	Catalog shop.Catalog
	Log     *zap.Logger
}

type productResp struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Price string `json:"price"`
}

func (h *CatalogHandler) Register(r chi.Router) {
	r.Get("/products", h.listProducts)
}

func (h *CatalogHandler) listProducts(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	ps, err := h.Catalog.ListProducts(ctx)
	if err != nil {
		h.Log.Error("list products", zap.String("op", "http_list_products"), zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
		return
	}
	out := make([]productResp, 0, len(ps))
	for _, p := range ps {
		out = append(out, productResp{ID: p.ID, Name: p.Name, Price: p.Price.StringFixed(2)})
	}
	writeJSON(w, http.StatusOK, out)
}
