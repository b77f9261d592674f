package api

import (
	"net/http"
	"strconv"
	"time"

	"cart-service/internal/apperr"
	"cart-service/internal/service"
	"cart-service/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handler contains HTTP handlers
type Handler struct {
	catalog      *service.CatalogService
	carts        *service.CartService
	coordinator  *service.Coordinator
	defaultOwner string
}

// NewHandler creates a new HTTP handler
func NewHandler(
	catalog *service.CatalogService,
	carts *service.CartService,
	coordinator *service.Coordinator,
	defaultOwner string,
) *Handler {
	return &Handler{
		catalog:      catalog,
		carts:        carts,
		coordinator:  coordinator,
		defaultOwner: defaultOwner,
	}
}

// SetupRoutes sets up HTTP routes
func (h *Handler) SetupRoutes(router *gin.Engine) {
	router.Use(gin.Recovery())
	router.Use(prometheusMiddleware())
	router.Use(gin.Logger())

	router.GET("/health", h.healthCheck)
	router.GET("/ready", h.readinessCheck)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	router.POST("/produtos", h.createProduct)
	router.GET("/produtos", h.listProducts)
	router.GET("/produtos/:id", h.getProduct)
	router.PUT("/produtos/:id", h.updateProduct)
	router.DELETE("/produtos/:id", h.deleteProduct)

	router.POST("/carrinho/adicionar", h.addCartItem)
	router.GET("/carrinho", h.viewCart)
	router.DELETE("/carrinho/remover/:produtoId", h.removeCartItem)

	router.GET("/movimentos", h.listMovements)
}

// ownerID resolves the cart owner: the X-User-ID header when present,
// otherwise the configured placeholder identity.
func (h *Handler) ownerID(c *gin.Context) string {
	if id := c.GetHeader("X-User-ID"); id != "" {
		return id
	}
	return h.defaultOwner
}

// statusFor maps a domain error kind to an HTTP status
func statusFor(err error) int {
	switch apperr.KindOf(err) {
	case apperr.KindInvalidInput, apperr.KindInsufficientStock:
		return http.StatusBadRequest
	case apperr.KindNotFound:
		return http.StatusNotFound
	case apperr.KindConflict:
		return http.StatusConflict
	case apperr.KindStoreUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func respondError(c *gin.Context, err error) {
	c.JSON(statusFor(err), gin.H{"erro": err.Error()})
}

// healthCheck handles health check requests
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"time":   time.Now().Unix(),
	})
}

// readinessCheck handles readiness check requests
func (h *Handler) readinessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
		"time":   time.Now().Unix(),
	})
}

// createProduct handles product creation
func (h *Handler) createProduct(c *gin.Context) {
	var req service.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"erro": "corpo da requisição inválido", "detalhes": err.Error()})
		return
	}

	product, err := h.catalog.CreateProduct(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"mensagem": "produto criado com sucesso",
		"produto":  product,
	})
}

// listProducts handles catalog listing
func (h *Handler) listProducts(c *gin.Context) {
	products, err := h.catalog.ListProducts(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, products)
}

// getProduct handles get product by ID
func (h *Handler) getProduct(c *gin.Context) {
	product, err := h.catalog.GetProduct(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

// updateProduct handles partial product updates
func (h *Handler) updateProduct(c *gin.Context) {
	var req service.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"erro": "corpo da requisição inválido", "detalhes": err.Error()})
		return
	}

	product, err := h.catalog.UpdateProduct(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"mensagem": "produto atualizado com sucesso",
		"produto":  product,
	})
}

// deleteProduct handles product deletion
func (h *Handler) deleteProduct(c *gin.Context) {
	if err := h.catalog.DeleteProduct(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// addCartItem handles adding a product to the cart
func (h *Handler) addCartItem(c *gin.Context) {
	var req service.AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"erro": "corpo da requisição inválido", "detalhes": err.Error()})
		return
	}

	view, err := h.coordinator.AddItem(c.Request.Context(), h.ownerID(c), req.ProductID, req.Quantity)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"mensagem": "item adicionado ao carrinho",
		"carrinho": view,
	})
}

// viewCart handles the formatted cart view
func (h *Handler) viewCart(c *gin.Context) {
	view, err := h.carts.View(c.Request.Context(), h.ownerID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// removeCartItem handles removing a product's line from the cart
func (h *Handler) removeCartItem(c *gin.Context) {
	view, err := h.coordinator.RemoveItem(c.Request.Context(), h.ownerID(c), c.Param("produtoId"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"mensagem": "item removido do carrinho",
		"carrinho": view,
	})
}

// listMovements handles the stock movement audit trail
func (h *Handler) listMovements(c *gin.Context) {
	movements, err := h.coordinator.GetStockMovements(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, movements)
}

// prometheusMiddleware collects HTTP metrics
func prometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Writer.Status())

		util.HTTPRequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Observe(duration)

		util.HTTPRequestsTotal.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Inc()
	}
}
