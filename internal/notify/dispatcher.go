package notify

import (
	"context"
	"errors"
	"sync"

	"storefront_back_end/internal/logger"

	"go.uber.org/zap"
)

var ErrDispatcherClosed = errors.New("dispatcher arrêté")

// Dispatcher diffuse un même message à plusieurs destinataires, chacun indépendamment.
// Après Wait, il refuse tout nouvel envoi une fois les envois en cours terminés.
type Dispatcher struct {
	sender Sender

	mu      sync.Mutex
	idle    *sync.Cond
	pending int
	closed  bool
}

func NewDispatcher(sender Sender) *Dispatcher {
	d := &Dispatcher{sender: sender}
	d.idle = sync.NewCond(&d.mu)
	return d
}

// acquire compte une tâche de plus. Pendant l'arrêt, seules les tâches lancées
// depuis un envoi encore en cours sont acceptées.
func (d *Dispatcher) acquire() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed && d.pending == 0 {
		return false
	}
	d.pending++
	return true
}

func (d *Dispatcher) release() {
	d.mu.Lock()
	d.pending--
	if d.pending == 0 {
		d.idle.Broadcast()
	}
	d.mu.Unlock()
}

// Broadcast lance un envoi par destinataire et rend la main immédiatement.
// onResult, s'il est fourni, reçoit chaque résultat dans l'ordre d'achèvement.
func (d *Dispatcher) Broadcast(ctx context.Context, recipients []string, subject, html string, onResult func(Result)) {
	for _, to := range recipients {
		if to == "" {
			continue
		}
		if !d.acquire() {
			logger.FromCtx(ctx).Warn("⚠️ Dispatcher arrêté, e-mail abandonné", zap.String("to", to), zap.String("subject", subject))
			if onResult != nil {
				onResult(Result{To: to, Error: ErrDispatcherClosed.Error()})
			}
			continue
		}
		go func(to string) {
			defer d.release()
			res := d.sender.Send(ctx, to, subject, html)
			if onResult != nil {
				onResult(res)
			}
		}(to)
	}
}

// Go exécute fn en arrière-plan en la comptant parmi les envois en cours.
// Retourne false si le dispatcher est arrêté ; fn n'est alors pas exécutée.
func (d *Dispatcher) Go(fn func()) bool {
	if !d.acquire() {
		logger.L().Warn("⚠️ Dispatcher arrêté, tâche abandonnée")
		return false
	}
	go func() {
		defer d.release()
		fn()
	}()
	return true
}

// Wait ferme le dispatcher et bloque jusqu'à la fin des envois en cours. Utilisé à l'arrêt du serveur.
func (d *Dispatcher) Wait() {
	d.mu.Lock()
	d.closed = true
	for d.pending > 0 {
		d.idle.Wait()
	}
	d.mu.Unlock()
}
