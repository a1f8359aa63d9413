package domain

// OrderStatus is the lifecycle state of a purchase order.
type OrderStatus string

const (
	OrderPending   OrderStatus = "PENDING"
	OrderPreparing OrderStatus = "PREPARING"
	OrderDelivered OrderStatus = "DELIVERED"
	OrderCancelled OrderStatus = "CANCELLED"
)

// OrderStatuses lists every valid order status in display order.
var OrderStatuses = []OrderStatus{OrderPending, OrderPreparing, OrderDelivered, OrderCancelled}

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderPending, OrderPreparing, OrderDelivered, OrderCancelled:
		return true
	}
	return false
}

// PaymentMethod is how an order is paid.
type PaymentMethod string

const (
	PaymentCashOnDelivery PaymentMethod = "CASH_ON_DELIVERY"
	PaymentRazorpay       PaymentMethod = "RAZORPAY"
)

// Label returns the human readable payment method name.
func (m PaymentMethod) Label() string {
	switch m {
	case PaymentCashOnDelivery:
		return "Cash on Delivery"
	case PaymentRazorpay:
		return "Razorpay"
	}
	return string(m)
}

// PaymentStatus is the settlement state of an order payment.
type PaymentStatus string

const (
	PaymentPending PaymentStatus = "PENDING"
	PaymentPaid    PaymentStatus = "PAID"
	PaymentFailed  PaymentStatus = "FAILED"
)

var PaymentStatuses = []PaymentStatus{PaymentPending, PaymentPaid, PaymentFailed}

func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentPending, PaymentPaid, PaymentFailed:
		return true
	}
	return false
}

// Timestamps are carried as the upstream service emits them (zone-less ISO
// strings); parse at the edge with ParseTime when calendar math is needed.

// ProductItem is a catalog product. Mrp is the retail price, GenPrice the
// vendor cost; the backend does not order one against the other.
type ProductItem struct {
	ID        int64   `json:"id"`
	Name      string  `json:"name"`
	ImageURL  string  `json:"imageUrl,omitempty"`
	Mrp       float64 `json:"mrp"`
	GenPrice  float64 `json:"genPrice"`
	Active    bool    `json:"active"`
	CreatedAt string  `json:"createdAt"`
	UpdatedAt string  `json:"updatedAt"`
}

// ServiceVendor is a fulfilment vendor account. Password is write-only and
// never returned by the backend.
type ServiceVendor struct {
	ID          int64  `json:"id"`
	VendorName  string `json:"vendorName"`
	CenterName  string `json:"centerName"`
	PhoneNumber string `json:"phoneNumber"`
	Username    string `json:"username"`
	Active      bool   `json:"active"`
	CreatedAt   string `json:"createdAt"`
	UpdatedAt   string `json:"updatedAt"`
}

// AppCustomer is an end customer of the mobile app.
type AppCustomer struct {
	ID           int64  `json:"id"`
	UID          string `json:"uid"`
	CustomerName string `json:"customerName"`
	PhoneNumber  string `json:"phoneNumber"`
	Email        string `json:"email,omitempty"`
	Address      string `json:"address,omitempty"`
	City         string `json:"city,omitempty"`
	PinCode      string `json:"pinCode,omitempty"`
	Active       bool   `json:"active"`
	CreatedAt    string `json:"createdAt"`
	UpdatedAt    string `json:"updatedAt"`
}

// CustomerVendorMap assigns a customer to the vendor currently responsible
// for them. Reassignment replaces the mapping server-side.
type CustomerVendorMap struct {
	ID         int64         `json:"id"`
	Customer   AppCustomer   `json:"customer"`
	Vendor     ServiceVendor `json:"vendor"`
	AssignedAt string        `json:"assignedAt"`
	AssignedBy string        `json:"assignedBy"`
}

// PurchaseOrder is an order snapshot. TotalPrice is server-computed and
// trusted as-is; it is not revalidated against UnitPrice*Quantity here.
type PurchaseOrder struct {
	ID               int64         `json:"id"`
	OrderNumber      string        `json:"orderNumber"`
	Customer         AppCustomer   `json:"customer"`
	Vendor           ServiceVendor `json:"vendor"`
	Item             ProductItem   `json:"item"`
	Quantity         int           `json:"quantity"`
	UnitPrice        float64       `json:"unitPrice"`
	TotalPrice       float64       `json:"totalPrice"`
	Status           OrderStatus   `json:"status"`
	PaymentMethod    PaymentMethod `json:"paymentMethod"`
	PaymentStatus    PaymentStatus `json:"paymentStatus"`
	DeliveryAddress  string        `json:"deliveryAddress,omitempty"`
	Notes            string        `json:"notes,omitempty"`
	PaymentUpdatedBy string        `json:"paymentUpdatedBy,omitempty"`
	PaymentUpdatedAt string        `json:"paymentUpdatedAt,omitempty"`
	CreatedAt        string        `json:"createdAt"`
	UpdatedAt        string        `json:"updatedAt"`
}
