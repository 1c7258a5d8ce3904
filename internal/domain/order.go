package domain

import (
	"strings"
	"time"
)

// Order is the read-only listing projection of an order row together with
// the display fields joined in from users and services.
type Order struct {
	ID            int64     `json:"id"`
	UserID        int64     `json:"userId"`
	Link          string    `json:"link"`
	Quantity      int       `json:"quantity"`
	ServiceID     int64     `json:"serviceId"`
	Status        Status    `json:"status"`
	Mode          Mode      `json:"mode"`
	CreatedAt     time.Time `json:"createdAt"`
	ServiceName   string    `json:"serviceName,omitempty"`
	UserFirstName string    `json:"-"`
	UserLastName  string    `json:"-"`
}

func (o Order) UserFullName() string {
	return strings.TrimSpace(o.UserFirstName + " " + o.UserLastName)
}
