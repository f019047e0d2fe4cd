package models

// OrderStatus is a step of the repair order lifecycle
type OrderStatus string

const (
	StatusRequested  OrderStatus = "REQUESTED"   // client sent a quote request
	StatusContacted  OrderStatus = "CONTACTED"   // shop got in touch with the client
	StatusCheckedIn  OrderStatus = "CHECKED_IN"  // vehicle is at the shop
	StatusInProgress OrderStatus = "IN_PROGRESS" // under repair
	StatusReady      OrderStatus = "READY"       // ready for pickup
	StatusDelivered  OrderStatus = "DELIVERED"
	StatusCanceled   OrderStatus = "CANCELED"
)

// OrderStatuses lists every status in lifecycle order
var OrderStatuses = []OrderStatus{
	StatusRequested,
	StatusContacted,
	StatusCheckedIn,
	StatusInProgress,
	StatusReady,
	StatusDelivered,
	StatusCanceled,
}

// Bucket groups statuses for the shop dashboard
type Bucket string

const (
	BucketQuotes Bucket = "quotes"
	BucketActive Bucket = "active"
	BucketDone   Bucket = "done"
)

var bucketStatuses = map[Bucket][]OrderStatus{
	BucketQuotes: {StatusRequested, StatusContacted},
	BucketActive: {StatusCheckedIn, StatusInProgress, StatusReady},
	BucketDone:   {StatusDelivered, StatusCanceled},
}

// IsValid reports whether s is one of the known statuses
func (s OrderStatus) IsValid() bool {
	for _, known := range OrderStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// IsTerminal reports whether the order is frozen against further changes
func (s OrderStatus) IsTerminal() bool {
	return s == StatusDelivered || s == StatusCanceled
}

// ParseStatus converts raw input into a known status
func ParseStatus(raw string) (OrderStatus, error) {
	s := OrderStatus(raw)
	if !s.IsValid() {
		return "", ErrInvalidStatus
	}
	return s, nil
}

// Statuses returns the statuses grouped under the bucket
func (b Bucket) Statuses() ([]OrderStatus, bool) {
	statuses, ok := bucketStatuses[b]
	return statuses, ok
}

// CheckTransition guards every order mutation.
// A terminal order rejects all changes. Otherwise any known status may be
// requested, including jumps between non-terminal steps; an empty requested
// status means the mutation does not touch the status.
func CheckTransition(current OrderStatus, requested OrderStatus) error {
	if current.IsTerminal() {
		return ErrOrderFinalized
	}
	if requested != "" && !requested.IsValid() {
		return ErrInvalidStatus
	}
	return nil
}
