package email

import (
	"bytes"
	"fmt"
	htmltpl "html/template"
	texttpl "text/template"
	"time"
)

const (
	TemplateTwoFactor     = "two_factor_code"
	TemplateReceipt       = "sale_receipt"
	TemplateAccountStatus = "account_status"
)

// TwoFactorData alimenta la plantilla del código de verificación.
type TwoFactorData struct {
	AppName   string
	Nombre    string
	Code      string
	ExpiresAt time.Time
	Minutes   int
}

// ReceiptLine es una línea del recibo con montos ya formateados.
type ReceiptLine struct {
	Descripcion string
	Cantidad    int
	Unitario    string
	Subtotal    string
}

type ReceiptData struct {
	AppName     string
	SaleID      string
	Fecha       time.Time
	Cliente     string
	Lineas      []ReceiptLine
	Total       string
	MetodoPago  string
	Transaccion string
}

type AccountStatusData struct {
	AppName string
	Nombre  string
	Activo  bool
	Rol     string
}

var (
	htmlTpls = htmltpl.Must(htmltpl.New("root").Funcs(htmltpl.FuncMap{"fecha": fecha}).Parse(`
{{define "two_factor_code"}}<p>Hola {{.Nombre}},</p>
<p>Tu código de verificación de {{.AppName}} es:</p>
<p style="font-size:24px;font-weight:bold;letter-spacing:4px">{{.Code}}</p>
<p>Vence en {{.Minutes}} minutos ({{fecha .ExpiresAt}}). Si no intentaste ingresar, ignora este mensaje.</p>{{end}}

{{define "sale_receipt"}}<h2>{{.AppName}} - Recibo de venta</h2>
<p>Venta <b>{{.SaleID}}</b> del {{fecha .Fecha}}{{if .Cliente}} a {{.Cliente}}{{end}}</p>
<table cellpadding="4">
<tr><th align="left">Producto</th><th>Cant.</th><th align="right">Unitario</th><th align="right">Subtotal</th></tr>
{{range .Lineas}}<tr><td>{{.Descripcion}}</td><td align="center">{{.Cantidad}}</td><td align="right">{{.Unitario}}</td><td align="right">{{.Subtotal}}</td></tr>
{{end}}</table>
<p><b>Total: {{.Total}}</b></p>
{{if .Transaccion}}<p>Pago: {{.MetodoPago}} (transacción {{.Transaccion}})</p>{{end}}{{end}}

{{define "account_status"}}<p>Hola {{.Nombre}},</p>
{{if .Activo}}<p>Tu cuenta de {{.AppName}} fue activada con el rol <b>{{.Rol}}</b>.</p>{{else}}<p>Tu cuenta de {{.AppName}} fue desactivada. Contacta a un administrador si crees que es un error.</p>{{end}}{{end}}
`))

	textTpls = texttpl.Must(texttpl.New("root").Funcs(texttpl.FuncMap{"fecha": fecha}).Parse(`
{{define "two_factor_code"}}Hola {{.Nombre}},

Tu código de verificación de {{.AppName}} es: {{.Code}}

Vence en {{.Minutes}} minutos ({{fecha .ExpiresAt}}).{{end}}

{{define "sale_receipt"}}{{.AppName}} - Recibo de venta {{.SaleID}} ({{fecha .Fecha}})
{{range .Lineas}}
- {{.Descripcion}} x{{.Cantidad}} @ {{.Unitario}} = {{.Subtotal}}{{end}}

Total: {{.Total}}{{if .Transaccion}}
Pago: {{.MetodoPago}} (transacción {{.Transaccion}}){{end}}{{end}}

{{define "account_status"}}Hola {{.Nombre}},
{{if .Activo}}Tu cuenta de {{.AppName}} fue activada con el rol {{.Rol}}.{{else}}Tu cuenta de {{.AppName}} fue desactivada.{{end}}{{end}}
`))
)

func fecha(t time.Time) string {
	return t.Local().Format("02/01/2006 15:04")
}

// Render arma un Message a partir de una plantilla registrada.
func Render(name, to, subject string, data any) (Message, error) {
	var hb, tb bytes.Buffer
	if err := htmlTpls.ExecuteTemplate(&hb, name, data); err != nil {
		return Message{}, fmt.Errorf("email: render html %s: %w", name, err)
	}
	if err := textTpls.ExecuteTemplate(&tb, name, data); err != nil {
		return Message{}, fmt.Errorf("email: render text %s: %w", name, err)
	}
	return Message{
		To:       to,
		Subject:  subject,
		HTMLBody: hb.String(),
		TextBody: tb.String(),
		Template: name,
	}, nil
}

func TwoFactorMessage(to string, d TwoFactorData) (Message, error) {
	return Render(TemplateTwoFactor, to, fmt.Sprintf("%s: tu código de verificación", d.AppName), d)
}

func ReceiptMessage(to string, d ReceiptData) (Message, error) {
	return Render(TemplateReceipt, to, fmt.Sprintf("%s: recibo de venta %s", d.AppName, d.SaleID), d)
}

func AccountStatusMessage(to string, d AccountStatusData) (Message, error) {
	subject := fmt.Sprintf("%s: tu cuenta fue desactivada", d.AppName)
	if d.Activo {
		subject = fmt.Sprintf("%s: tu cuenta fue activada", d.AppName)
	}
	return Render(TemplateAccountStatus, to, subject, d)
}
