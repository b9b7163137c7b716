package notify

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"html/template"
	"strings"

	"storefront_back_end/internal/models"

	"github.com/shopspring/decimal"
	"github.com/skip2/go-qrcode"
)

var funcs = template.FuncMap{
	"euros": func(v float64) string {
		return strings.Replace(decimal.NewFromFloat(v).StringFixed(2), ".", ",", 1) + " €"
	},
	"lineTotal": func(it models.LineItem) float64 {
		return decimal.NewFromFloat(it.Price).Mul(decimal.NewFromInt(int64(it.Quantity))).Round(2).InexactFloat64()
	},
	"shortID": shortID,
}

const layout = `{{define "items"}}
<table style="width: 100%; border-collapse: collapse; margin: 20px 0;">
	<thead>
		<tr style="background-color: #f4f6f8;">
			<th style="padding: 8px 12px; text-align: left; border-bottom: 2px solid #e5e5e5;">Produit</th>
			<th style="padding: 8px 12px; text-align: left; border-bottom: 2px solid #e5e5e5;">Couleur</th>
			<th style="padding: 8px 12px; text-align: left; border-bottom: 2px solid #e5e5e5;">Quantité</th>
			<th style="padding: 8px 12px; text-align: left; border-bottom: 2px solid #e5e5e5;">Prix unitaire</th>
			<th style="padding: 8px 12px; text-align: left; border-bottom: 2px solid #e5e5e5;">Total</th>
		</tr>
	</thead>
	<tbody>
	{{- range .Order.LineItems}}
		<tr>
			<td style="padding: 8px 12px; border-bottom: 1px solid #eeeeee;">{{.Title}} <small>({{.Reference}})</small></td>
			<td style="padding: 8px 12px; border-bottom: 1px solid #eeeeee;">{{.Color}}</td>
			<td style="padding: 8px 12px; border-bottom: 1px solid #eeeeee;">{{.Quantity}}</td>
			<td style="padding: 8px 12px; border-bottom: 1px solid #eeeeee;">{{euros .Price}}</td>
			<td style="padding: 8px 12px; border-bottom: 1px solid #eeeeee;">{{euros (lineTotal .)}}</td>
		</tr>
	{{- end}}
	</tbody>
	<tfoot>
		<tr>
			<td colspan="4" style="padding: 10px; text-align: right; font-weight: bold;">Total :</td>
			<td style="padding: 10px; font-weight: bold;">{{euros .Order.Total}}</td>
		</tr>
	</tfoot>
</table>
{{end}}`

var customerTmpl = template.Must(template.New("customer").Funcs(funcs).Parse(layout + `
<!DOCTYPE html>
<html lang="fr">
<head><meta charset="UTF-8"><title>Confirmation de commande</title></head>
<body style="font-family: Helvetica, Arial, sans-serif; background-color: #f6f7f9; padding: 24px;">
	<div style="max-width: 600px; margin: 0 auto; background: #ffffff; padding: 24px; border-radius: 8px;">
		<h2 style="color: #333;">Merci pour votre commande !</h2>
		<p>Bonjour {{.Order.Name}},</p>
		<p>Votre commande n°{{shortID .Order}} a bien été enregistrée. Nous vous préviendrons dès qu'elle sera prête.</p>
		{{template "items" .}}
		<p><strong>Adresse :</strong> {{.Order.StreetAddress}}, {{.Order.Country}}</p>
		{{if .QRCode}}<p style="text-align: center;"><img src="{{.QRCode}}" alt="Suivi de commande" width="160" height="160"><br><a href="{{.OrderURL}}">Suivre ma commande</a></p>{{end}}
		<p style="margin-top: 30px; color: #555;">À très bientôt,<br><strong>L'équipe de la boutique</strong></p>
	</div>
</body>
</html>`))

var staffTmpl = template.Must(template.New("staff").Funcs(funcs).Parse(layout + `
<!DOCTYPE html>
<html lang="fr">
<head><meta charset="UTF-8"><title>Nouvelle commande</title></head>
<body style="font-family: Helvetica, Arial, sans-serif; background-color: #f6f7f9; padding: 24px;">
	<div style="max-width: 600px; margin: 0 auto; background: #ffffff; padding: 24px; border-radius: 8px;">
		<h2 style="color: #333;">Nouvelle commande n°{{shortID .Order}}</h2>
		<ul>
			<li><strong>Client :</strong> {{.Order.Name}}</li>
			<li><strong>E-mail :</strong> {{.Order.Email}}</li>
			<li><strong>Téléphone :</strong> {{.Order.Phone}}</li>
			<li><strong>Adresse :</strong> {{.Order.StreetAddress}}, {{.Order.Country}}</li>
		</ul>
		{{template "items" .}}
		{{if .OrderURL}}<p><a href="{{.OrderURL}}">Voir la commande</a></p>{{end}}
	</div>
</body>
</html>`))

var statusTmpl = template.Must(template.New("status").Funcs(funcs).Parse(`
<!DOCTYPE html>
<html lang="fr">
<head><meta charset="UTF-8"><title>Mise à jour de commande</title></head>
<body style="font-family: Arial, sans-serif; background-color: #f5f5f5; padding: 20px;">
	<div style="max-width: 600px; margin: auto; background-color: white; padding: 20px; border-radius: 12px;">
		<h2 style="color: #333;">Commande n°{{shortID .Order}}</h2>
		<p>Bonjour {{.Order.Name}},</p>
		<p>{{.Message}}</p>
		<p>Statut actuel : <strong>{{.Order.Status}}</strong></p>
		{{if .OrderURL}}<p><a href="{{.OrderURL}}">Voir ma commande</a></p>{{end}}
	</div>
</body>
</html>`))

type emailData struct {
	Order    models.Order
	OrderURL string
	QRCode   template.URL
	Message  string
}

func render(t *template.Template, data emailData) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("rendu e-mail %s: %w", t.Name(), err)
	}
	return buf.String(), nil
}

// qrDataURI encode content en PNG base64 prêt pour <img src>.
func qrDataURI(content string) (template.URL, error) {
	png, err := qrcode.Encode(content, qrcode.Medium, 256)
	if err != nil {
		return "", err
	}
	return template.URL("data:image/png;base64," + base64.StdEncoding.EncodeToString(png)), nil
}

func shortID(o models.Order) string {
	hex := o.ID.Hex()
	return strings.ToUpper(hex[len(hex)-8:])
}

func statusSubject(status string) string {
	switch status {
	case models.StatusReady:
		return "📦 Votre commande est prête"
	case models.StatusDelivered:
		return "🎉 Votre commande a été livrée"
	case models.StatusCancelled:
		return "❌ Commande annulée"
	default:
		return "📋 Mise à jour de votre commande"
	}
}

func statusMessage(status string) string {
	switch status {
	case models.StatusReady:
		return "Bonne nouvelle, votre commande est prête."
	case models.StatusDelivered:
		return "Votre commande a été livrée. Merci de votre confiance !"
	case models.StatusCancelled:
		return "Votre commande a été annulée."
	default:
		return "Le statut de votre commande a changé."
	}
}
