package mailer

import (
	"bytes"
	"html/template"
)

const welcomeTemplate = `<h2>Welcome {{.Name}}!</h2>
<p>Thank you for registering with HomeBound Care. Your account has been created successfully.</p>
<p>We prioritize your privacy and data security.</p>
<p>You can now browse services and request bookings!</p>`

const bookingConfirmationTemplate = `<h2>Booking Confirmed</h2>
<p>Dear {{.Name}},</p>
<p>Your request for {{.ServiceName}} has been received. Booking ID: {{.BookingID}}</p>
<p>Status: Pending Admin Approval</p>
<p><strong>COVID Safety:</strong> {{.CovidMessage}}</p>
<p>You will receive a notification and email once an admin reviews your request.</p>`

const bookingDecisionTemplate = `<h2>Booking {{.StatusTitle}}</h2>
<p>Dear {{.Name}},</p>
<p>Your booking for <strong>{{.ServiceType}}</strong> has been {{.Status}}.</p>
<div style="background: #f3f4f6; padding: 16px; border-radius: 8px; margin: 16px 0;">
  <p><strong>Booking Details:</strong></p>
  <p>Booking ID: {{.BookingID}}</p>
  <p>Date: {{.Date}}</p>
  <p>Duration: {{.DurationMinutes}} minutes</p>
  <p>Cost: ${{.Cost}}</p>
</div>
<p>{{.AdminNotes}}</p>
{{if .Accepted}}<div style="margin: 20px 0; text-align: center;">
  <h3>Your Service Receipt QR Code:</h3>
  <img src="cid:qr_code" alt="Booking QR Code" style="max-width: 300px; border: 2px solid #4F46E5; padding: 10px; border-radius: 8px;"/>
  <p style="font-size: 12px; color: #666;">Show this QR code to your service provider</p>
</div>
{{end}}<p>Thank you for choosing HomeBound Care!</p>`

var (
	welcomeTmpl             = template.Must(template.New("welcome").Parse(welcomeTemplate))
	bookingConfirmationTmpl = template.Must(template.New("booking_confirmation").Parse(bookingConfirmationTemplate))
	bookingDecisionTmpl     = template.Must(template.New("booking_decision").Parse(bookingDecisionTemplate))
)

type welcomeData struct {
	Name string
}

type ConfirmationData struct {
	Name         string
	ServiceName  string
	BookingID    string
	CovidMessage string
}

type DecisionData struct {
	Name            string
	ServiceType     string
	Status          string
	StatusTitle     string
	BookingID       string
	Date            string
	DurationMinutes int
	Cost            float64
	AdminNotes      string
	Accepted        bool
}

func WelcomeHTML(name string) (string, error) {
	return render(welcomeTmpl, welcomeData{Name: name})
}

func BookingConfirmationHTML(data ConfirmationData) (string, error) {
	return render(bookingConfirmationTmpl, data)
}

func BookingDecisionHTML(data DecisionData) (string, error) {
	return render(bookingDecisionTmpl, data)
}

func render(tmpl *template.Template, data interface{}) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
