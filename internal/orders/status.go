package orders

// Status is the lifecycle state shown to kitchen and back-office staff.
type Status string

const (
	StatusNew       Status = "NEW"
	StatusPreparing Status = "PREPARING"
	StatusReady     Status = "READY"
	StatusEnRoute   Status = "EN_ROUTE"
	StatusDelivered Status = "DELIVERED"
)

// StoreStatus is the enum persisted in the orders table. It has a
// different granularity than Status: INIT marks a not-yet-paid order
// that staff never see, and PAYED looks identical to a brand-new order
// once it reaches the kitchen.
type StoreStatus string

const (
	StoreInit       StoreStatus = "INIT"
	StorePayed      StoreStatus = "PAYED"
	StoreInProgress StoreStatus = "IN_PROGRESS"
	StoreReady      StoreStatus = "READY"
	StoreOnTheWay   StoreStatus = "ON_THE_WAY"
	StoreDelivered  StoreStatus = "DELIVERED"

	// Present in the store enum but never written by this service.
	StoreBotReady StoreStatus = "BOT_READY"
)

// ToDomain collapses the store vocabulary onto the staff-facing one.
// Many-to-one: INIT and PAYED both read as NEW. Unknown values also
// default to NEW rather than failing the whole row.
func ToDomain(s StoreStatus) Status {
	switch s {
	case StoreInProgress:
		return StatusPreparing
	case StoreReady:
		return StatusReady
	case StoreOnTheWay:
		return StatusEnRoute
	case StoreDelivered:
		return StatusDelivered
	default:
		return StatusNew
	}
}

// ToStore maps a staff-facing status back to the store enum. NEW always
// writes PAYED: an order staff can see has been paid, so writing NEW
// never resurrects INIT. ToDomain(ToStore(s)) == s for every s, but the
// pair is not a round trip the other way around.
func ToStore(s Status) StoreStatus {
	switch s {
	case StatusPreparing:
		return StoreInProgress
	case StatusReady:
		return StoreReady
	case StatusEnRoute:
		return StoreOnTheWay
	case StatusDelivered:
		return StoreDelivered
	default:
		return StorePayed
	}
}

// ParseStatus validates a client-supplied status string.
func ParseStatus(s string) (Status, bool) {
	switch Status(s) {
	case StatusNew, StatusPreparing, StatusReady, StatusEnRoute, StatusDelivered:
		return Status(s), true
	}
	return "", false
}

// validNext is the kitchen-path transition graph. EN_ROUTE may be
// skipped for pickup orders. The back-office correction path bypasses
// this check on purpose.
var validNext = map[Status]map[Status]bool{
	StatusNew:       {StatusPreparing: true},
	StatusPreparing: {StatusReady: true},
	StatusReady:     {StatusEnRoute: true, StatusDelivered: true},
	StatusEnRoute:   {StatusDelivered: true},
	StatusDelivered: {},
}

func CanTransition(from, to Status) bool {
	return validNext[from][to]
}
