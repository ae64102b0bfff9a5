package notify

import (
	"fmt"
	"strings"
	"text/template"
	"time"

	"github.com/shopspring/decimal"

	"github.com/stirlingv/honey-biz/internal/entities"
)

const (
	shortLimit  = 160
	shortPrefix = 155
)

// Short fits msg into a single SMS: longer messages keep their first 155
// characters followed by "...".
func Short(msg string) string {
	r := []rune(msg)
	if len(r) <= shortLimit {
		return msg
	}
	return string(r[:shortPrefix]) + "..."
}

// Notice is one formatted notification about a persisted record.
type Notice struct {
	Kind    entities.Kind
	ID      int64
	Short   string
	Subject string
	Body    string
}

func money(d decimal.Decimal) string {
	return "$" + d.StringFixed(2)
}

var funcs = template.FuncMap{
	"fallback": func(s, fallback string) string {
		if strings.TrimSpace(s) == "" {
			return fallback
		}
		return s
	},
	"yesno": func(b bool, yes string) string {
		if b {
			return yes
		}
		return "No"
	},
	"money": money,
	"date":  func(t time.Time) string { return t.Format("2006-01-02") },
	"optdate": func(t *time.Time) string {
		if t == nil {
			return "Not specified"
		}
		return t.Format("2006-01-02")
	},
	"optint": func(i *int) string {
		if i == nil {
			return "Not specified"
		}
		return fmt.Sprint(*i)
	},
	"upper": func(v any) string { return strings.ToUpper(fmt.Sprint(v)) },
}

const customerBlock = `Customer: {{.Customer.FullName}}
Email: {{.Customer.Email}}
Phone: {{.Customer.Phone}}
📞 Prefers Callback: {{yesno .Customer.PreferCallback "YES - Please call!"}}`

const addressBlock = `{{.Customer.Address.Street}}
{{.Customer.Address.City}}, {{.Customer.Address.State}} {{.Customer.Address.ZIP}}`

var templates = template.Must(template.New("").Funcs(funcs).Parse(`
{{define "customer"}}` + customerBlock + `{{end}}
{{define "address"}}` + addressBlock + `{{end}}

{{define "order"}}New honey order received!

Order #{{.Record.ID}}
{{template "customer" .Record}}

Product: {{.Record.Product.Name}} ({{.Record.Product.Size}})
Quantity: {{.Record.Quantity}}
Total: {{money .Record.Total}}

Shipping Address:
{{template "address" .Record}}

Notes: {{fallback .Record.Notes "None"}}

View in admin: {{.AdminURL}}
{{end}}

{{define "nuc"}}New bee nuc request received!

Request #{{.Record.ID}}
{{template "customer" .Record}}

Quantity: {{.Record.Quantity}} nucs
Experience Level: {{.Record.ExperienceLevel}}
Preferred Pickup: {{optdate .Record.PreferredPickupDate}}

Location:
{{template "address" .Record}}

Notes: {{fallback .Record.Notes "None"}}

View in admin: {{.AdminURL}}
{{end}}

{{define "pollination"}}New pollination service request!

Request #{{.Record.ID}}
{{template "customer" .Record}}

Crop Type: {{.Record.CropType}}
Acreage: {{.Record.Acreage}} acres
Hives Requested: {{optint .Record.HivesRequested}}
Start Date: {{date .Record.PreferredStartDate}}
Duration: {{.Record.DurationWeeks}} weeks

Property Location:
{{template "address" .Record}}

Notes: {{fallback .Record.Notes "None"}}

View in admin: {{.AdminURL}}
{{end}}

{{define "removal"}}New bee removal request!

Request #{{.Record.ID}}
URGENCY: {{upper .Record.Urgency}}

{{template "customer" .Record}}

Property Type: {{.Record.PropertyType}}
Bee Location: {{.Record.BeeLocation}}
How Long Present: {{.Record.HowLongPresent}}
Estimated Size: {{fallback .Record.EstimatedSize "Not specified"}}
Height from Ground: {{fallback .Record.HeightFromGround "Not specified"}}

Been Sprayed: {{yesno .Record.HasBeenSprayed "Yes ⚠️"}}
Can Send Photo: {{yesno .Record.CanSendPhoto "Yes"}}

Property Location:
{{template "address" .Record}}

Notes: {{fallback .Record.Notes "None"}}

View in admin: {{.AdminURL}}
{{end}}

{{define "callback"}}New callback request received!

Request #{{.Record.ID}}
Name: {{.Record.Name}}
Phone: {{.Record.Phone}}
Email: {{fallback .Record.Email "Not provided"}}

Interested In: {{.Record.InterestLabel}}
Best Time to Call: {{fallback .Record.BestTime "Not specified"}}

Message: {{fallback .Record.Message "None"}}

View in admin: {{.AdminURL}}
{{end}}
`))

var urgencyMarks = map[entities.Urgency]string{
	entities.UrgencyLow:       "🟢",
	entities.UrgencyMedium:    "🟡",
	entities.UrgencyHigh:      "🟠",
	entities.UrgencyEmergency: "🔴",
}

func callbackFlag(c entities.Customer) string {
	if c.PreferCallback {
		return "📞CALLBACK "
	}
	return ""
}

// Formatter renders notices with admin links rooted at BaseURL.
type Formatter struct {
	BaseURL string
}

// AdminURL is the staff edit page of a record.
func (f Formatter) AdminURL(kind entities.Kind, id int64) string {
	return fmt.Sprintf("%s/admin/shop/%s/%d/change/", strings.TrimRight(f.BaseURL, "/"), kind, id)
}

func (f Formatter) render(name string, kind entities.Kind, id int64, record any) (string, error) {
	var b strings.Builder
	data := struct {
		Record   any
		AdminURL string
	}{record, f.AdminURL(kind, id)}

	if err := templates.ExecuteTemplate(&b, name, data); err != nil {
		return "", fmt.Errorf("failed to render %s notification: %w", name, err)
	}
	return b.String(), nil
}

func (f Formatter) Order(o entities.Order) (Notice, error) {
	body, err := f.render("order", entities.KindOrder, o.ID, o)
	if err != nil {
		return Notice{}, err
	}
	return Notice{
		Kind: entities.KindOrder,
		ID:   o.ID,
		Short: fmt.Sprintf("%sNew Order! %s - %dx %s (%s)",
			callbackFlag(o.Customer), o.Customer.FullName(), o.Quantity, o.Product.Name, money(o.Total)),
		Subject: fmt.Sprintf("New Honey Order #%d", o.ID),
		Body:    body,
	}, nil
}

func (f Formatter) NucRequest(r entities.NucRequest) (Notice, error) {
	body, err := f.render("nuc", entities.KindNuc, r.ID, r)
	if err != nil {
		return Notice{}, err
	}
	return Notice{
		Kind: entities.KindNuc,
		ID:   r.ID,
		Short: fmt.Sprintf("%sNew Nuc Request! %s wants %d nucs",
			callbackFlag(r.Customer), r.Customer.FullName(), r.Quantity),
		Subject: fmt.Sprintf("New Nuc Request #%d", r.ID),
		Body:    body,
	}, nil
}

func (f Formatter) PollinationRequest(r entities.PollinationRequest) (Notice, error) {
	body, err := f.render("pollination", entities.KindPollination, r.ID, r)
	if err != nil {
		return Notice{}, err
	}
	return Notice{
		Kind: entities.KindPollination,
		ID:   r.ID,
		Short: fmt.Sprintf("%sPollination Request! %s - %s acres of %s",
			callbackFlag(r.Customer), r.Customer.FirstName, r.Acreage.String(), r.CropType),
		Subject: fmt.Sprintf("New Pollination Request #%d", r.ID),
		Body:    body,
	}, nil
}

func (f Formatter) BeeRemovalRequest(r entities.BeeRemovalRequest) (Notice, error) {
	body, err := f.render("removal", entities.KindBeeRemoval, r.ID, r)
	if err != nil {
		return Notice{}, err
	}

	mark, ok := urgencyMarks[r.Urgency]
	if !ok {
		mark = "⚪"
	}
	subject := fmt.Sprintf("Bee Removal Request #%d", r.ID)
	if r.Urgency.Urgent() {
		subject = "🚨 URGENT: " + subject
	}

	return Notice{
		Kind: entities.KindBeeRemoval,
		ID:   r.ID,
		Short: fmt.Sprintf("%s %sBee Removal! %s - %s in %s (%s)",
			mark, callbackFlag(r.Customer), strings.ToUpper(string(r.Urgency)),
			r.Customer.FirstName, r.Customer.Address.City, r.BeeLocation),
		Subject: subject,
		Body:    body,
	}, nil
}

func (f Formatter) CallbackRequest(r entities.CallbackRequest) (Notice, error) {
	body, err := f.render("callback", entities.KindCallback, r.ID, r)
	if err != nil {
		return Notice{}, err
	}
	return Notice{
		Kind: entities.KindCallback,
		ID:   r.ID,
		Short: fmt.Sprintf("📞 Callback Request! %s wants to discuss: %s. Call: %s",
			r.Name, r.InterestLabel(), r.Phone),
		Subject: fmt.Sprintf("📞 Callback Request #%d - %s", r.ID, r.InterestLabel()),
		Body:    body,
	}, nil
}
