package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	// DefaultCurrency is used when an estimate never received one
	DefaultCurrency = "CLP"

	NoteOrderCreated     = "Solicitud creada por el cliente"
	noteClientMessageFmt = "Mensaje del cliente: %s"
	notePhotosAddedFmt   = "Se agregaron %d foto(s)"
)

// TimelineEntry is one line of the order audit trail
type TimelineEntry struct {
	Status OrderStatus `json:"status"`
	Note   string      `json:"note"`
	At     time.Time   `json:"at"`
}

// Estimate is the cost projection provided by the shop
type Estimate struct {
	Amount    decimal.Decimal `json:"amount"`
	Breakdown string          `json:"breakdown"`
	Currency  string          `json:"currency"`
}

// EstimatePatch carries a partial estimate update; nil fields keep their value
type EstimatePatch struct {
	Amount    *decimal.Decimal
	Breakdown *string
	Currency  *string
}

// Photo references an image kept by the photo storage
type Photo struct {
	Key          string    `json:"key"`
	URL          string    `json:"url"`
	OriginalName string    `json:"original_name"`
	Size         int64     `json:"size"`
	MimeType     string    `json:"mime_type"`
	At           time.Time `json:"at"`
}

// ClientMessage is a note written by the client to the shop
type ClientMessage struct {
	Text string    `json:"text"`
	At   time.Time `json:"at"`
}

// Order is a service request between a client and a repair shop.
// Timeline, photos and client messages are embedded in the order row as JSON
// and only ever grow.
type Order struct {
	ID             string                             `gorm:"primaryKey;size:36" json:"id"`
	CustomerID     string                             `gorm:"not null;index;size:36" json:"customer_id"`
	Customer       *User                              `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	ShopID         string                             `gorm:"not null;index;size:36" json:"shop_id"`
	Shop           *Shop                              `gorm:"foreignKey:ShopID" json:"shop,omitempty"`
	VehicleID      *string                            `gorm:"index;size:36" json:"vehicle_id"`
	Vehicle        *Vehicle                           `gorm:"foreignKey:VehicleID" json:"vehicle,omitempty"`
	Title          string                             `json:"title"`
	Description    string                             `gorm:"type:text" json:"description"`
	ContactPhone   string                             `json:"contact_phone"`
	Status         OrderStatus                        `gorm:"not null;default:'REQUESTED';index" json:"status"`
	EtaHours       *float64                           `json:"eta_hours"`
	Estimate       *Estimate                          `gorm:"serializer:json;type:text" json:"estimate"`
	Timeline       datatypes.JSONSlice[TimelineEntry] `json:"timeline"`
	Photos         datatypes.JSONSlice[Photo]         `json:"photos"`
	ClientMessages datatypes.JSONSlice[ClientMessage] `json:"client_messages"`
	ClientRating   *int                               `json:"client_rating"`
	ClientReview   string                             `gorm:"type:text" json:"client_review"`
	CreatedAt      time.Time                          `gorm:"index" json:"created_at"`
	UpdatedAt      time.Time                          `json:"updated_at"`
}

// TableName specifies the table name for the Order model
func (Order) TableName() string {
	return "orders"
}

// BeforeCreate assigns the order id
func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	return nil
}

// OrderDraft holds what a client submits when requesting a quote
type OrderDraft struct {
	CustomerID   string
	ShopID       string
	VehicleID    *string
	Title        string
	Description  string
	ContactPhone string
	Photos       []Photo
	Estimate     *Estimate
}

// NewOrder builds a REQUESTED order with its opening timeline entry
func NewOrder(d OrderDraft, at time.Time) *Order {
	photos := make(datatypes.JSONSlice[Photo], 0, len(d.Photos))
	for _, p := range d.Photos {
		p.At = at
		photos = append(photos, p)
	}

	return &Order{
		ID:             uuid.NewString(),
		CustomerID:     d.CustomerID,
		ShopID:         d.ShopID,
		VehicleID:      d.VehicleID,
		Title:          d.Title,
		Description:    d.Description,
		ContactPhone:   d.ContactPhone,
		Status:         StatusRequested,
		Estimate:       d.Estimate,
		Timeline:       datatypes.JSONSlice[TimelineEntry]{{Status: StatusRequested, Note: NoteOrderCreated, At: at}},
		Photos:         photos,
		ClientMessages: datatypes.JSONSlice[ClientMessage]{},
	}
}

// IsFinalized reports whether the order reached a terminal status
func (o *Order) IsFinalized() bool {
	return o.Status.IsTerminal()
}

// PushStatus moves the order to status and records the change
func (o *Order) PushStatus(status OrderStatus, note string, at time.Time) {
	o.Status = status
	o.Timeline = append(o.Timeline, TimelineEntry{Status: status, Note: note, At: at})
}

// AppendNote records a free-form note under the current status
func (o *Order) AppendNote(note string, at time.Time) {
	o.Timeline = append(o.Timeline, TimelineEntry{Status: o.Status, Note: note, At: at})
}

// MergeEstimate coalesces the patch into the current estimate field by field
func (o *Order) MergeEstimate(patch EstimatePatch) error {
	if patch.Amount != nil && patch.Amount.IsNegative() {
		return ErrInvalidEstimate
	}

	merged := Estimate{Amount: decimal.Zero, Currency: DefaultCurrency}
	if o.Estimate != nil {
		merged = *o.Estimate
	}
	if patch.Amount != nil {
		merged.Amount = *patch.Amount
	}
	if patch.Breakdown != nil {
		merged.Breakdown = *patch.Breakdown
	}
	if patch.Currency != nil && *patch.Currency != "" {
		merged.Currency = *patch.Currency
	}

	o.Estimate = &merged
	return nil
}

// SetEtaHours sets the expected repair duration
func (o *Order) SetEtaHours(hours float64) error {
	if hours < 0 {
		return ErrInvalidEtaHours
	}
	o.EtaHours = &hours
	return nil
}

// AppendPhotos attaches photos and notes how many were added
func (o *Order) AppendPhotos(photos []Photo, at time.Time) {
	if len(photos) == 0 {
		return
	}
	for _, p := range photos {
		p.At = at
		o.Photos = append(o.Photos, p)
	}
	o.AppendNote(fmt.Sprintf(notePhotosAddedFmt, len(photos)), at)
}

// AppendClientMessage stores a client message and mirrors it into the timeline
func (o *Order) AppendClientMessage(text string, at time.Time) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return ErrEmptyMessage
	}
	o.ClientMessages = append(o.ClientMessages, ClientMessage{Text: text, At: at})
	o.AppendNote(fmt.Sprintf(noteClientMessageFmt, text), at)
	return nil
}

// Rate records the client's rating once the order is finalized.
// The first rating wins; later attempts are rejected.
func (o *Order) Rate(rating int, review string) error {
	if rating < 1 || rating > 5 {
		return ErrInvalidRating
	}
	if !o.IsFinalized() {
		return ErrOrderNotFinalized
	}
	if o.ClientRating != nil {
		return ErrAlreadyRated
	}
	o.ClientRating = &rating
	o.ClientReview = strings.TrimSpace(review)
	return nil
}
