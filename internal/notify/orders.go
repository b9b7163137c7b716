package notify

import (
	"context"
	"strings"
	"time"

	"storefront_back_end/internal/logger"
	"storefront_back_end/internal/models"
	"storefront_back_end/internal/store"

	"go.uber.org/zap"
)

const staffLookupTimeout = 5 * time.Second

// OrderNotifier prévient le client, l'administrateur et le personnel approuvé.
type OrderNotifier struct {
	dispatcher  *Dispatcher
	employees   store.Employees
	adminEmail  string
	frontendURL string
}

func NewOrderNotifier(d *Dispatcher, employees store.Employees, adminEmail, frontendURL string) *OrderNotifier {
	return &OrderNotifier{
		dispatcher:  d,
		employees:   employees,
		adminEmail:  adminEmail,
		frontendURL: strings.TrimRight(frontendURL, "/"),
	}
}

func (n *OrderNotifier) orderURL(o models.Order) string {
	if n.frontendURL == "" {
		return ""
	}
	return n.frontendURL + "/commandes/" + o.ID.Hex()
}

// OrderPlaced part en arrière-plan : l'appelant n'attend ni la recherche du personnel ni les envois.
func (n *OrderNotifier) OrderPlaced(ctx context.Context, order models.Order) {
	ctx = context.WithoutCancel(ctx)
	log := logger.FromCtx(ctx).With(zap.String("order_id", order.ID.Hex()))

	data := emailData{Order: order, OrderURL: n.orderURL(order)}

	customerData := data
	if data.OrderURL != "" {
		if qr, err := qrDataURI(data.OrderURL); err == nil {
			customerData.QRCode = qr
		} else {
			log.Warn("⚠️ QR code non généré", zap.Error(err))
		}
	}

	if html, err := render(customerTmpl, customerData); err != nil {
		log.Error("❌ Rendu e-mail client", zap.Error(err))
	} else {
		n.dispatcher.Broadcast(ctx, []string{order.Email}, "✅ Confirmation de votre commande", html, nil)
	}

	staffHTML, err := render(staffTmpl, data)
	if err != nil {
		log.Error("❌ Rendu e-mail personnel", zap.Error(err))
		return
	}
	subject := "🛒 Nouvelle commande n°" + shortID(order)

	if n.adminEmail != "" {
		n.dispatcher.Broadcast(ctx, []string{n.adminEmail}, subject, staffHTML, nil)
	}

	if n.employees == nil {
		return
	}
	n.dispatcher.Go(func() {
		lookupCtx, cancel := context.WithTimeout(ctx, staffLookupTimeout)
		defer cancel()

		staff, err := n.employees.ListByStatus(lookupCtx, models.EmployeeApproved)
		if err != nil {
			log.Error("❌ Impossible de récupérer le personnel approuvé", zap.Error(err))
			return
		}
		recipients := make([]string, 0, len(staff))
		for _, e := range staff {
			recipients = append(recipients, e.Email)
		}
		n.dispatcher.Broadcast(ctx, recipients, subject, staffHTML, nil)
	})
}

// StatusChanged informe le client du nouveau statut de sa commande.
func (n *OrderNotifier) StatusChanged(ctx context.Context, order models.Order) {
	ctx = context.WithoutCancel(ctx)

	html, err := render(statusTmpl, emailData{
		Order:    order,
		OrderURL: n.orderURL(order),
		Message:  statusMessage(order.Status),
	})
	if err != nil {
		logger.FromCtx(ctx).Error("❌ Rendu e-mail statut", zap.Error(err))
		return
	}
	n.dispatcher.Broadcast(ctx, []string{order.Email}, statusSubject(order.Status), html, nil)
}
