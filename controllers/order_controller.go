package controllers

import (
	"encoding/json"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/vmotion/repairshop-api/models"
	"github.com/vmotion/repairshop-api/services"
)

// CreateOrderRequest represents the JSON body for requesting a quote.
// service_name and notes/message are accepted as aliases used by the mobile app.
type CreateOrderRequest struct {
	ShopID        string           `json:"shop_id"`
	VehicleID     *string          `json:"vehicle_id"`
	Title         string           `json:"title"`
	ServiceName   string           `json:"service_name"`
	Description   string           `json:"description"`
	Notes         string           `json:"notes"`
	Message       string           `json:"message"`
	ContactPhone  string           `json:"contact_phone"`
	PriceEstimate *decimal.Decimal `json:"price_estimate"`
}

// EstimateRequest is a partial estimate update
type EstimateRequest struct {
	Amount    *decimal.Decimal `json:"amount"`
	Breakdown *string          `json:"breakdown"`
	Currency  *string          `json:"currency"`
}

// AddPhotoRequest references a photo stored outside this API
type AddPhotoRequest struct {
	URL          string `json:"url"`
	OriginalName string `json:"original_name"`
	Size         int64  `json:"size"`
	MimeType     string `json:"mime_type"`
}

// UpdateOrderRequest represents the change set a shop sends for an order
type UpdateOrderRequest struct {
	Status   *string          `json:"status"`
	Note     *string          `json:"note"`
	Estimate *EstimateRequest `json:"estimate"`
	EtaHours *float64         `json:"eta_hours"`
	AddPhoto *AddPhotoRequest `json:"add_photo"`
}

// ClientMessageRequest represents a message from the client to the shop
type ClientMessageRequest struct {
	Message string `json:"message"`
}

// RateOrderRequest represents the client's rating of a finished order
type RateOrderRequest struct {
	Rating json.RawMessage `json:"rating"`
	Review string          `json:"review"`
}

var errInvalidEstimateFormat = models.InvalidInput("INVALID_ESTIMATE", "Estimate amount must be a number")

// CreateOrder handles POST /api/v1/orders - a client requests a quote from a shop.
// Accepts JSON or multipart/form-data with up to five files under "photos".
// @Summary Request a quote from a shop (client)
// @Tags orders
// @Accept json,mpfd
// @Produce json
// @Param request body CreateOrderRequest false "Order request"
// @Success 201
// @Failure 400,403,404
// @Security BearerAuth
// @Router /orders [post]
func CreateOrder(c *gin.Context) {
	id, ok := currentIdentity(c)
	if !ok {
		return
	}

	var (
		input services.CreateOrderInput
		err   error
	)
	if strings.HasPrefix(c.ContentType(), "multipart/form-data") {
		input, err = createOrderInputFromForm(c)
	} else {
		input, err = createOrderInputFromJSON(c)
	}
	if err != nil {
		return
	}

	order, err := services.GetOrderService().CreateOrder(c.Request.Context(), id, input)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, http.StatusCreated, order)
}

func createOrderInputFromJSON(c *gin.Context) (services.CreateOrderInput, error) {
	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, err)
		return services.CreateOrderInput{}, err
	}

	return services.CreateOrderInput{
		ShopID:         strings.TrimSpace(req.ShopID),
		VehicleID:      req.VehicleID,
		Title:          firstNonBlank(req.Title, req.ServiceName),
		Description:    firstNonBlank(req.Description, req.Notes, req.Message),
		ContactPhone:   strings.TrimSpace(req.ContactPhone),
		EstimateAmount: req.PriceEstimate,
	}, nil
}

func createOrderInputFromForm(c *gin.Context) (services.CreateOrderInput, error) {
	form, err := c.MultipartForm()
	if err != nil {
		respondValidation(c, err)
		return services.CreateOrderInput{}, err
	}

	input := services.CreateOrderInput{
		ShopID:       strings.TrimSpace(c.PostForm("shop_id")),
		Title:        firstNonBlank(c.PostForm("title"), c.PostForm("service_name")),
		Description:  firstNonBlank(c.PostForm("description"), c.PostForm("notes"), c.PostForm("message")),
		ContactPhone: strings.TrimSpace(c.PostForm("contact_phone")),
		Photos:       form.File["photos"],
	}

	if vehicleID := strings.TrimSpace(c.PostForm("vehicle_id")); vehicleID != "" {
		input.VehicleID = &vehicleID
	}

	if raw := strings.TrimSpace(c.PostForm("price_estimate")); raw != "" {
		amount, err := decimal.NewFromString(raw)
		if err != nil {
			respondError(c, errInvalidEstimateFormat)
			return services.CreateOrderInput{}, err
		}
		input.EstimateAmount = &amount
	}

	return input, nil
}

// ListMyOrders handles GET /api/v1/orders/mine - the client's own orders, newest first
// @Summary List the caller's orders (client)
// @Tags orders
// @Produce json
// @Success 200
// @Security BearerAuth
// @Router /orders/mine [get]
func ListMyOrders(c *gin.Context) {
	id, ok := currentIdentity(c)
	if !ok {
		return
	}

	orders, err := services.GetOrderService().ListForClient(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, http.StatusOK, orders)
}

// ListShopOrders handles GET /api/v1/orders/shop/mine - the shop dashboard.
// Query: status, bucket (quotes|active|done), group=1 and, for admins, shopId.
// @Summary Shop dashboard listing
// @Tags orders
// @Produce json
// @Param status query string false "Single status filter"
// @Param bucket query string false "Status bucket; wins over status" Enums(quotes, active, done)
// @Param group query string false "1 to group by bucket"
// @Param shopId query string false "Shop id (admin only)"
// @Success 200
// @Failure 400
// @Security BearerAuth
// @Router /orders/shop/mine [get]
func ListShopOrders(c *gin.Context) {
	id, ok := currentIdentity(c)
	if !ok {
		return
	}

	shopID := firstNonBlank(c.Query("shopId"), c.Query("shop_id"))
	svc := services.GetOrderService()

	if c.Query("group") == "1" {
		grouped, err := svc.ListForShopGrouped(c.Request.Context(), id, shopID)
		if err != nil {
			respondError(c, err)
			return
		}
		respondOK(c, http.StatusOK, grouped)
		return
	}

	orders, err := svc.ListForShop(c.Request.Context(), id, shopID,
		strings.TrimSpace(c.Query("status")),
		strings.TrimSpace(c.Query("bucket")))
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, http.StatusOK, orders)
}

// ListAllOrders handles GET /api/v1/orders - every order (admins only)
// @Summary List every order (admin)
// @Tags orders
// @Produce json
// @Success 200
// @Failure 403
// @Security BearerAuth
// @Router /orders [get]
func ListAllOrders(c *gin.Context) {
	id, ok := currentIdentity(c)
	if !ok {
		return
	}

	orders, err := services.GetOrderService().ListAll(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, http.StatusOK, orders)
}

// GetOrder handles GET /api/v1/orders/:id
// @Summary Get an order
// @Tags orders
// @Produce json
// @Param id path string true "Order ID"
// @Success 200
// @Failure 403,404
// @Security BearerAuth
// @Router /orders/{id} [get]
func GetOrder(c *gin.Context) {
	id, ok := currentIdentity(c)
	if !ok {
		return
	}

	order, err := services.GetOrderService().GetOrder(c.Request.Context(), id, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, http.StatusOK, order)
}

// UpdateOrder handles PATCH /api/v1/orders/:id - status, note, estimate, ETA and photo reference
// @Summary Update status, note, estimate, ETA or add a photo reference (shop, admin)
// @Tags orders
// @Accept json
// @Produce json
// @Param id path string true "Order ID"
// @Param request body UpdateOrderRequest true "Change set"
// @Success 200
// @Failure 400,403,404,409
// @Security BearerAuth
// @Router /orders/{id} [patch]
func UpdateOrder(c *gin.Context) {
	id, ok := currentIdentity(c)
	if !ok {
		return
	}

	var req UpdateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, err)
		return
	}

	input := services.UpdateOrderInput{
		Status:   req.Status,
		Note:     req.Note,
		EtaHours: req.EtaHours,
	}
	if req.Estimate != nil {
		input.Estimate = &models.EstimatePatch{
			Amount:    req.Estimate.Amount,
			Breakdown: req.Estimate.Breakdown,
			Currency:  req.Estimate.Currency,
		}
	}
	if req.AddPhoto != nil {
		input.AddPhoto = &services.PhotoReference{
			URL:          req.AddPhoto.URL,
			OriginalName: req.AddPhoto.OriginalName,
			Size:         req.AddPhoto.Size,
			MimeType:     req.AddPhoto.MimeType,
		}
	}

	order, err := services.GetOrderService().UpdateOrder(c.Request.Context(), id, c.Param("id"), input)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, http.StatusOK, order)
}

// UploadOrderPhotos handles POST /api/v1/orders/:id/photos - multipart "photos", up to five files
// @Summary Upload up to five photos (shop, admin)
// @Tags orders
// @Accept mpfd
// @Produce json
// @Param id path string true "Order ID"
// @Param photos formData file true "Photos"
// @Success 200
// @Failure 400,409
// @Security BearerAuth
// @Router /orders/{id}/photos [post]
func UploadOrderPhotos(c *gin.Context) {
	id, ok := currentIdentity(c)
	if !ok {
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		respondValidation(c, err)
		return
	}

	order, photos, err := services.GetOrderService().AppendPhotos(c.Request.Context(), id, c.Param("id"), form.File["photos"])
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, http.StatusOK, gin.H{
		"order_id": order.ID,
		"photos":   photos,
	})
}

// SendClientMessage handles POST /api/v1/orders/:id/message
// @Summary Send a message to the shop (client)
// @Tags orders
// @Accept json
// @Produce json
// @Param id path string true "Order ID"
// @Param request body ClientMessageRequest true "Message"
// @Success 200
// @Failure 400,409
// @Security BearerAuth
// @Router /orders/{id}/message [post]
func SendClientMessage(c *gin.Context) {
	id, ok := currentIdentity(c)
	if !ok {
		return
	}

	var req ClientMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, err)
		return
	}

	order, err := services.GetOrderService().AppendClientMessage(c.Request.Context(), id, c.Param("id"), req.Message)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, http.StatusOK, order)
}

// RateOrder handles POST /api/v1/orders/:id/rating
// @Summary Rate a finalized order once (client)
// @Tags orders
// @Accept json
// @Produce json
// @Param id path string true "Order ID"
// @Param request body RateOrderRequest true "Rating 1..5"
// @Success 200
// @Failure 400,409
// @Security BearerAuth
// @Router /orders/{id}/rating [post]
func RateOrder(c *gin.Context) {
	id, ok := currentIdentity(c)
	if !ok {
		return
	}

	var req RateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, err)
		return
	}

	rating, err := parseRating(req.Rating)
	if err != nil {
		respondError(c, err)
		return
	}

	order, err := services.GetOrderService().SubmitRating(c.Request.Context(), id, c.Param("id"), rating, req.Review)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, http.StatusOK, order)
}

// parseRating accepts a JSON number or numeric string holding a whole number
func parseRating(raw json.RawMessage) (int, error) {
	text := strings.Trim(strings.TrimSpace(string(raw)), `"`)
	if text == "" {
		return 0, models.ErrInvalidRating
	}

	value, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) || value != math.Trunc(value) {
		return 0, models.ErrInvalidRating
	}
	if value < math.MinInt32 || value > math.MaxInt32 {
		return 0, models.ErrInvalidRating
	}
	return int(value), nil
}

func firstNonBlank(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
