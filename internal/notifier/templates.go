package notifier

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"github.com/automan-solutions-poc/challan-maker-enterprise-backend/internal/domain"
)

var creationTmpl = template.Must(template.New("creation").Parse(`
<p>Dear {{.CustomerName}},</p>
<p>Your service challan <strong>{{.ChallanNo}}</strong> has been created.</p>
{{if .SerialNumber}}<p>Serial Number: {{.SerialNumber}}</p>{{end}}
{{if .Problem}}<p>Reported Problem: {{.Problem}}</p>{{end}}
{{if .Accessories}}<p>Accessories received: {{.Accessories}}</p>{{end}}
<p>The challan document is attached for your records.</p>
<p>Thank you.</p>
`))

var otpTmpl = template.Must(template.New("otp").Parse(`
<p>Dear {{.CustomerName}},</p>
<p>Your one-time password for collecting challan <strong>{{.ChallanNo}}</strong> is:</p>
<h2>{{.OTPCode}}</h2>
<p>This code expires in {{.TTLMinutes}} minute(s). Please share it only with our staff at pickup.</p>
`))

var deliveryTmpl = template.Must(template.New("delivery").Parse(`
<p>Dear {{.CustomerName}},</p>
<p>Your challan <strong>{{.ChallanNo}}</strong> has been delivered{{if .DeliveredAt}} on {{.DeliveredAt}}{{end}}.</p>
{{if .DeliveredBy}}<p>Handed over by: {{.DeliveredBy}}</p>{{end}}
<p>Thank you for choosing us.</p>
`))

type templateData struct {
	ChallanNo    string
	CustomerName string
	SerialNumber string
	Problem      string
	Accessories  string
	OTPCode      string
	TTLMinutes   int
	DeliveredAt  string
	DeliveredBy  string
}

// BuildMessage renders the subject and body for an outbox message. Attachments
// are resolved separately at send time.
func BuildMessage(challanNo string, kind domain.NotificationKind, payload domain.NotificationPayload) (subject, body string, err error) {
	data := templateData{
		ChallanNo:    challanNo,
		CustomerName: orCustomer(payload.CustomerName),
		SerialNumber: payload.SerialNumber,
		Problem:      payload.Problem,
		Accessories:  strings.Join(payload.Accessories, ", "),
		OTPCode:      payload.OTPCode,
		TTLMinutes:   payload.TTLMinutes,
		DeliveredBy:  payload.DeliveredBy,
	}
	if payload.DeliveredAt != nil {
		data.DeliveredAt = payload.DeliveredAt.Format("02/01/2006, 03:04:05 PM")
	}

	var tmpl *template.Template
	switch kind {
	case domain.KindCreation:
		subject = fmt.Sprintf("Challan - %s", challanNo)
		tmpl = creationTmpl
	case domain.KindOTP:
		subject = fmt.Sprintf("OTP for Challan %s", challanNo)
		tmpl = otpTmpl
	case domain.KindDeliveryConfirmation:
		subject = fmt.Sprintf("Delivery Confirmation - Challan %s", challanNo)
		tmpl = deliveryTmpl
	default:
		return "", "", fmt.Errorf("unknown notification kind: %s", kind)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", "", fmt.Errorf("render notification body: %w", err)
	}
	return subject, buf.String(), nil
}

func orCustomer(name string) string {
	if name == "" {
		return "Customer"
	}
	return name
}
