package services

import (
	"context"
	"mime/multipart"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/vmotion/repairshop-api/models"
	"github.com/vmotion/repairshop-api/utils"
	"go.uber.org/zap"
)

const (
	defaultOrderTitle       = "Solicitud de servicio"
	defaultOrderDescription = "Solicitud de servicio desde la app"
)

// ShopDirectory answers whether a shop exists
type ShopDirectory interface {
	ShopExists(ctx context.Context, shopID string) (bool, error)
}

// CreateOrderInput is what a client submits to request a quote
type CreateOrderInput struct {
	ShopID         string
	VehicleID      *string
	Title          string
	Description    string
	ContactPhone   string
	EstimateAmount *decimal.Decimal
	Photos         []*multipart.FileHeader
}

// PhotoReference points to a photo that is already stored somewhere
type PhotoReference struct {
	URL          string
	OriginalName string
	Size         int64
	MimeType     string
}

// UpdateOrderInput is the change set a shop sends for one order.
// Nil fields are left untouched.
type UpdateOrderInput struct {
	Status   *string
	Note     *string
	Estimate *models.EstimatePatch
	EtaHours *float64
	AddPhoto *PhotoReference
}

// GroupedOrders is a shop listing split by bucket
type GroupedOrders struct {
	Quotes []models.Order `json:"quotes"`
	Active []models.Order `json:"active"`
	Done   []models.Order `json:"done"`
}

// OrderService runs the order lifecycle: every mutation loads the order,
// checks access and the finalized lock, validates the whole change set,
// applies it and writes the document back once.
type OrderService struct {
	store     OrderStore
	shops     ShopDirectory
	photos    PhotoStorage
	events    EventPublisher
	vehicles  VehicleResolver
	validator *utils.PhotoValidator
	logger    *zap.SugaredLogger
	now       func() time.Time
}

// OrderServiceDeps groups the collaborators of an OrderService.
// Vehicles may be nil to disable the default vehicle association.
type OrderServiceDeps struct {
	Store     OrderStore
	Shops     ShopDirectory
	Photos    PhotoStorage
	Events    EventPublisher
	Vehicles  VehicleResolver
	Validator *utils.PhotoValidator
	Logger    *zap.SugaredLogger
}

var orderServiceInstance *OrderService

// GetOrderService returns the configured order service
func GetOrderService() *OrderService {
	return orderServiceInstance
}

// SetOrderService sets the order service instance
func SetOrderService(s *OrderService) {
	orderServiceInstance = s
}

// NewOrderService wires an order service
func NewOrderService(deps OrderServiceDeps) *OrderService {
	s := &OrderService{
		store:     deps.Store,
		shops:     deps.Shops,
		photos:    deps.Photos,
		events:    deps.Events,
		vehicles:  deps.Vehicles,
		validator: deps.Validator,
		logger:    deps.Logger,
		now:       time.Now,
	}
	if s.events == nil {
		s.events = NoopEventPublisher{}
	}
	if s.validator == nil {
		s.validator = utils.NewPhotoValidator(utils.MimeProfileExtended)
	}
	if s.logger == nil {
		s.logger = zap.NewNop().Sugar()
	}
	return s
}

// CreateOrder opens a new REQUESTED order for the calling client
func (s *OrderService) CreateOrder(ctx context.Context, id Identity, in CreateOrderInput) (*models.Order, error) {
	if err := Authorize(id, ActionCreate, &models.Order{CustomerID: id.UserID}); err != nil {
		return nil, err
	}

	shopID := strings.TrimSpace(in.ShopID)
	if shopID == "" {
		return nil, models.ErrShopRequired
	}
	exists, err := s.shops.ShopExists(ctx, shopID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, models.ErrShopNotFound
	}

	var estimate *models.Estimate
	if in.EstimateAmount != nil {
		if in.EstimateAmount.IsNegative() {
			return nil, models.ErrInvalidEstimate
		}
		if in.EstimateAmount.IsPositive() {
			estimate = &models.Estimate{Amount: *in.EstimateAmount, Currency: models.DefaultCurrency}
		}
	}

	validated, err := s.validator.ValidateBatch(in.Photos)
	if err != nil {
		return nil, err
	}

	vehicleID := in.VehicleID
	if s.vehicles != nil {
		vehicleID, err = s.vehicles.Resolve(ctx, id.UserID, in.VehicleID)
		if err != nil {
			return nil, err
		}
	}

	photos, err := s.storePhotos(ctx, validated)
	if err != nil {
		return nil, err
	}

	order := models.NewOrder(models.OrderDraft{
		CustomerID:   id.UserID,
		ShopID:       shopID,
		VehicleID:    vehicleID,
		Title:        firstNonEmpty(in.Title, defaultOrderTitle),
		Description:  firstNonEmpty(in.Description, defaultOrderDescription),
		ContactPhone: strings.TrimSpace(in.ContactPhone),
		Photos:       photos,
		Estimate:     estimate,
	}, s.now())

	if err := s.store.Create(ctx, order); err != nil {
		s.discardPhotos(ctx, photos)
		return nil, err
	}

	s.publish(ctx, NewOrderEvent(EventOrderCreated, order, models.NoteOrderCreated, order.Timeline[0].At))
	return s.reload(ctx, order)
}

// GetOrder returns an order the caller may read
func (s *OrderService) GetOrder(ctx context.Context, id Identity, orderID string) (*models.Order, error) {
	order, err := s.store.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if err := Authorize(id, ActionRead, order); err != nil {
		return nil, err
	}
	s.presentPhotos(ctx, order)
	return order, nil
}

// ListForClient returns the caller's own orders
func (s *OrderService) ListForClient(ctx context.Context, id Identity) ([]models.Order, error) {
	filter, err := ClientOrdersFilter(id)
	if err != nil {
		return nil, err
	}
	return s.list(ctx, filter)
}

// ListAll returns every order; admins only
func (s *OrderService) ListAll(ctx context.Context, id Identity) ([]models.Order, error) {
	filter, err := AllOrdersFilter(id)
	if err != nil {
		return nil, err
	}
	return s.list(ctx, filter)
}

// ListForShop returns a shop's orders. A bucket takes precedence over a
// single status when both are given.
func (s *OrderService) ListForShop(ctx context.Context, id Identity, shopID, status, bucket string) ([]models.Order, error) {
	filter, err := ShopOrdersFilter(id, shopID)
	if err != nil {
		return nil, err
	}

	switch {
	case bucket != "":
		statuses, ok := models.Bucket(bucket).Statuses()
		if !ok {
			return nil, models.ErrInvalidBucket
		}
		filter.Statuses = statuses
	case status != "":
		parsed, err := models.ParseStatus(status)
		if err != nil {
			return nil, err
		}
		filter.Statuses = []models.OrderStatus{parsed}
	}

	return s.list(ctx, filter)
}

// ListForShopGrouped returns a shop's orders split into quotes, active and done
func (s *OrderService) ListForShopGrouped(ctx context.Context, id Identity, shopID string) (*GroupedOrders, error) {
	filter, err := ShopOrdersFilter(id, shopID)
	if err != nil {
		return nil, err
	}

	lists := make(map[models.Bucket][]models.Order, 3)
	for _, bucket := range []models.Bucket{models.BucketQuotes, models.BucketActive, models.BucketDone} {
		statuses, _ := bucket.Statuses()
		f := filter
		f.Statuses = statuses
		orders, err := s.list(ctx, f)
		if err != nil {
			return nil, err
		}
		lists[bucket] = orders
	}

	return &GroupedOrders{
		Quotes: lists[models.BucketQuotes],
		Active: lists[models.BucketActive],
		Done:   lists[models.BucketDone],
	}, nil
}

// UpdateOrder applies a shop change set: status, note, estimate, ETA and an
// optional photo reference. Nothing is applied unless every part is valid.
func (s *OrderService) UpdateOrder(ctx context.Context, id Identity, orderID string, in UpdateOrderInput) (*models.Order, error) {
	order, err := s.loadForManage(ctx, id, orderID)
	if err != nil {
		return nil, err
	}

	var requested models.OrderStatus
	if in.Status != nil && strings.TrimSpace(*in.Status) != "" {
		requested, err = models.ParseStatus(strings.TrimSpace(*in.Status))
		if err != nil {
			return nil, err
		}
	}
	if err := models.CheckTransition(order.Status, requested); err != nil {
		return nil, err
	}

	if in.Estimate != nil && in.Estimate.Amount != nil && in.Estimate.Amount.IsNegative() {
		return nil, models.ErrInvalidEstimate
	}
	if in.EtaHours != nil && *in.EtaHours < 0 {
		return nil, models.ErrInvalidEtaHours
	}
	var addPhoto *models.Photo
	if in.AddPhoto != nil {
		if strings.TrimSpace(in.AddPhoto.URL) == "" {
			return nil, models.InvalidInput("INVALID_PHOTO", "addPhoto.url is required")
		}
		if err := s.validator.ValidateReference(in.AddPhoto.MimeType, in.AddPhoto.Size); err != nil {
			return nil, err
		}
		addPhoto = &models.Photo{
			URL:          strings.TrimSpace(in.AddPhoto.URL),
			OriginalName: in.AddPhoto.OriginalName,
			Size:         in.AddPhoto.Size,
			MimeType:     strings.ToLower(strings.TrimSpace(in.AddPhoto.MimeType)),
		}
	}

	note := ""
	if in.Note != nil {
		note = strings.TrimSpace(*in.Note)
	}

	now := s.now()
	var events []OrderEvent

	if in.Estimate != nil {
		if err := order.MergeEstimate(*in.Estimate); err != nil {
			return nil, err
		}
		events = append(events, NewOrderEvent(EventEstimateUpdated, order, "", now))
	}
	if in.EtaHours != nil {
		if err := order.SetEtaHours(*in.EtaHours); err != nil {
			return nil, err
		}
	}
	if requested != "" {
		order.PushStatus(requested, note, now)
		events = append(events, NewOrderEvent(EventStatusChanged, order, note, now))
	} else if note != "" {
		order.AppendNote(note, now)
		events = append(events, NewOrderEvent(EventNoteAdded, order, note, now))
	}
	if addPhoto != nil {
		order.AppendPhotos([]models.Photo{*addPhoto}, now)
		events = append(events, NewOrderEvent(EventPhotosAdded, order, "", now))
	}

	if err := s.store.Replace(ctx, order); err != nil {
		return nil, err
	}

	s.publish(ctx, events...)
	s.presentPhotos(ctx, order)
	return order, nil
}

// AppendPhotos validates and stores an upload batch, then attaches it to the
// order. Either every file is attached or none is.
func (s *OrderService) AppendPhotos(ctx context.Context, id Identity, orderID string, files []*multipart.FileHeader) (*models.Order, []models.Photo, error) {
	order, err := s.loadForManage(ctx, id, orderID)
	if err != nil {
		return nil, nil, err
	}
	if err := models.CheckTransition(order.Status, ""); err != nil {
		return nil, nil, err
	}

	validated, err := s.validator.ValidateBatch(files)
	if err != nil {
		return nil, nil, err
	}
	if len(validated) == 0 {
		return order, []models.Photo{}, nil
	}

	photos, err := s.storePhotos(ctx, validated)
	if err != nil {
		return nil, nil, err
	}

	now := s.now()
	order.AppendPhotos(photos, now)
	if err := s.store.Replace(ctx, order); err != nil {
		s.discardPhotos(ctx, photos)
		return nil, nil, err
	}

	s.publish(ctx, NewOrderEvent(EventPhotosAdded, order, order.Timeline[len(order.Timeline)-1].Note, now))
	s.presentPhotos(ctx, order)
	return order, order.Photos[len(order.Photos)-len(photos):], nil
}

// AppendClientMessage lets the owning client write to the shop
func (s *OrderService) AppendClientMessage(ctx context.Context, id Identity, orderID, text string) (*models.Order, error) {
	order, err := s.store.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if err := Authorize(id, ActionMessage, order); err != nil {
		return nil, err
	}
	if err := models.CheckTransition(order.Status, ""); err != nil {
		return nil, err
	}

	now := s.now()
	if err := order.AppendClientMessage(text, now); err != nil {
		return nil, err
	}
	if err := s.store.Replace(ctx, order); err != nil {
		return nil, err
	}

	s.publish(ctx, NewOrderEvent(EventClientMessage, order, order.Timeline[len(order.Timeline)-1].Note, now))
	return order, nil
}

// SubmitRating records the owning client's rating of a finalized order
func (s *OrderService) SubmitRating(ctx context.Context, id Identity, orderID string, rating int, review string) (*models.Order, error) {
	if rating < 1 || rating > 5 {
		return nil, models.ErrInvalidRating
	}

	order, err := s.store.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if err := Authorize(id, ActionRate, order); err != nil {
		return nil, err
	}
	if err := order.Rate(rating, review); err != nil {
		return nil, err
	}
	if err := s.store.Replace(ctx, order); err != nil {
		return nil, err
	}

	s.publish(ctx, NewOrderEvent(EventOrderRated, order, order.ClientReview, s.now()))
	return order, nil
}

func (s *OrderService) loadForManage(ctx context.Context, id Identity, orderID string) (*models.Order, error) {
	order, err := s.store.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if err := Authorize(id, ActionManage, order); err != nil {
		return nil, err
	}
	return order, nil
}

func (s *OrderService) list(ctx context.Context, filter OrderFilter) ([]models.Order, error) {
	orders, err := s.store.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	for i := range orders {
		s.presentPhotos(ctx, &orders[i])
	}
	return orders, nil
}

func (s *OrderService) reload(ctx context.Context, order *models.Order) (*models.Order, error) {
	loaded, err := s.store.FindByID(ctx, order.ID)
	if err != nil {
		return nil, err
	}
	s.presentPhotos(ctx, loaded)
	return loaded, nil
}

// storePhotos saves validated files; if any save fails the ones already
// stored are removed again
func (s *OrderService) storePhotos(ctx context.Context, validated []utils.ValidatedPhoto) ([]models.Photo, error) {
	photos := make([]models.Photo, 0, len(validated))
	for _, v := range validated {
		key, err := s.photos.Save(ctx, v.Header, v.MimeType)
		if err != nil {
			s.discardPhotos(ctx, photos)
			return nil, err
		}
		url, err := s.photos.URL(ctx, key)
		if err != nil {
			photos = append(photos, models.Photo{Key: key})
			s.discardPhotos(ctx, photos)
			return nil, err
		}
		photos = append(photos, models.Photo{
			Key:          key,
			URL:          url,
			OriginalName: v.Header.Filename,
			Size:         v.Header.Size,
			MimeType:     v.MimeType,
		})
	}
	return photos, nil
}

func (s *OrderService) discardPhotos(ctx context.Context, photos []models.Photo) {
	for _, p := range photos {
		if err := s.photos.Delete(ctx, p.Key); err != nil {
			s.logger.Warnw("failed to remove stored photo", "key", p.Key, "error", err)
		}
	}
}

// presentPhotos refreshes photo URLs from their storage keys; presigned
// URLs expire so the stored value can be stale
func (s *OrderService) presentPhotos(ctx context.Context, order *models.Order) {
	if s.photos == nil {
		return
	}
	for i := range order.Photos {
		if order.Photos[i].Key == "" {
			continue
		}
		url, err := s.photos.URL(ctx, order.Photos[i].Key)
		if err != nil {
			s.logger.Warnw("failed to resolve photo url", "order_id", order.ID, "key", order.Photos[i].Key, "error", err)
			continue
		}
		order.Photos[i].URL = url
	}
}

func (s *OrderService) publish(ctx context.Context, events ...OrderEvent) {
	if len(events) == 0 {
		return
	}
	if err := s.events.Publish(ctx, events...); err != nil {
		s.logger.Errorw("failed to publish order events", "order_id", events[0].OrderID, "error", err)
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
