package booking

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	StatusPending  = "pending"
	StatusAccepted = "accepted"
	StatusDeclined = "declined"

	ActionAccept  = "accept"
	ActionDecline = "decline"
)

type Booking struct {
	ID                string     `bson:"_id,omitempty" json:"id"`
	UserID            string     `bson:"user_id" json:"user_id"`
	UserName          string     `bson:"user_name" json:"user_name"`
	UserEmail         string     `bson:"user_email" json:"user_email"`
	ServiceID         string     `bson:"service_id" json:"service_id"`
	ServiceType       string     `bson:"service_type" json:"service_type"`
	PreferredDate     string     `bson:"preferred_date" json:"preferred_date"`
	Duration          int        `bson:"duration" json:"duration"`
	Details           string     `bson:"details,omitempty" json:"details,omitempty"`
	Status            string     `bson:"status" json:"status"`
	CovidRestrictions string     `bson:"covid_restrictions" json:"covid_restrictions"`
	Cost              float64    `bson:"cost" json:"cost"`
	AdminNotes        string     `bson:"admin_notes,omitempty" json:"admin_notes,omitempty"`
	CreatedAt         time.Time  `bson:"created_at" json:"created_at"`
	UpdatedAt         *time.Time `bson:"updated_at,omitempty" json:"updated_at,omitempty"`
}

// ReceiptText is the payload encoded into the QR receipt for an
// accepted booking.
func (b Booking) ReceiptText() string {
	var sb strings.Builder
	sb.WriteString("HomeBound Care Receipt\n")
	fmt.Fprintf(&sb, "Booking ID: %s\n", b.ID)
	fmt.Fprintf(&sb, "Service: %s\n", b.ServiceType)
	fmt.Fprintf(&sb, "Date: %s\n", b.PreferredDate)
	fmt.Fprintf(&sb, "Duration: %d min\n", b.Duration)
	fmt.Fprintf(&sb, "Cost: $%s\n", strconv.FormatFloat(b.Cost, 'f', -1, 64))
	sb.WriteString("Status: CONFIRMED\n")
	fmt.Fprintf(&sb, "Customer: %s", b.UserName)
	return sb.String()
}

type CreateRequest struct {
	ServiceID     string `json:"service_id" validate:"required"`
	ServiceType   string `json:"service_type" validate:"required"`
	PreferredDate string `json:"preferred_date" validate:"required,date"`
	Duration      int    `json:"duration,omitempty" validate:"omitempty,gt=0"`
	Details       string `json:"details,omitempty"`
}

type ActionRequest struct {
	Action     string `json:"action" validate:"required,oneof=accept decline"`
	AdminNotes string `json:"admin_notes,omitempty"`
}

type DecisionResponse struct {
	Message     string `json:"message"`
	BookingID   string `json:"booking_id"`
	QRGenerated bool   `json:"qr_generated"`
}
