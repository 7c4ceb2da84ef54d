package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"

	"comanda-dashboard-backend/internal/model"
	"comanda-dashboard-backend/internal/upstream"
	"comanda-dashboard-backend/internal/worker"
)

// Dispatcher accepts detached tasks.
type Dispatcher interface {
	Dispatch(task worker.Task)
}

// Alert is the push payload.
type Alert struct {
	Title       string `json:"title"`
	Body        string `json:"body"`
	TableNumber string `json:"tableNumber"`
	IdleMinutes int    `json:"idleMinutes"`
}

// IdleAlerter pushes one alert per subscription when an occupied table stays idle past its area's
// maximum idle time. A table alerts at most once per cooldown.
type IdleAlerter struct {
	subs       *Subscriptions
	sender     Sender
	options    *webpush.Options
	dispatcher Dispatcher
	cooldown   time.Duration
	recent     *cache.Cache
	logger     *zap.Logger
}

// NewIdleAlerter creates an alerter sending through the real webpush library.
func NewIdleAlerter(subs *Subscriptions, options *webpush.Options, dispatcher Dispatcher, cooldown time.Duration, logger *zap.Logger) *IdleAlerter {
	return &IdleAlerter{
		subs:       subs,
		sender:     &WebPushSender{},
		options:    options,
		dispatcher: dispatcher,
		cooldown:   cooldown,
		recent:     cache.New(cooldown, 2*cooldown),
		logger:     logger,
	}
}

// Thresholds maps table models, and area names, to the idle limit in minutes of areas that enable it.
func Thresholds(areas []upstream.Area) map[string]int {
	out := make(map[string]int)
	for _, a := range areas {
		limit := int(a.MaxIdleTime.Float())
		if !a.MaxIdleTimeEnabled.Set() || limit <= 0 {
			continue
		}
		for _, m := range a.CheckpadModels {
			if m.Name != "" {
				out[string(m.Name)] = limit
			}
		}
		if _, ok := out[string(a.Name)]; !ok && a.Name != "" {
			out[string(a.Name)] = limit
		}
	}
	return out
}

// Check dispatches alerts for the idle tables in tables and returns how many tables alerted.
func (a *IdleAlerter) Check(tables []model.Table, areas []upstream.Area) int {
	limits := Thresholds(areas)
	if len(limits) == 0 {
		return 0
	}
	alerted := 0
	for _, t := range tables {
		if t.Status != model.StatusOccupied || t.IdleMinutes == nil {
			continue
		}
		limit, ok := limits[t.Model]
		if !ok {
			limit, ok = limits[t.Area]
		}
		if !ok || *t.IdleMinutes <= limit {
			continue
		}
		key := fmt.Sprintf("%d", t.ID)
		if _, seen := a.recent.Get(key); seen {
			continue
		}
		a.recent.Set(key, struct{}{}, a.cooldown)

		alert := Alert{
			Title:       fmt.Sprintf("Mesa %s ociosa", t.Number),
			Body:        fmt.Sprintf("Mesa %s sem pedidos há %d min", t.Number, *t.IdleMinutes),
			TableNumber: t.Number,
			IdleMinutes: *t.IdleMinutes,
		}
		a.dispatcher.Dispatch(worker.Task{
			Name: "idle alert table " + t.Number,
			Run:  func(ctx context.Context) error { return a.broadcast(ctx, alert) },
		})
		alerted++
	}
	return alerted
}

func (a *IdleAlerter) broadcast(ctx context.Context, alert Alert) error {
	subs := a.subs.List()
	if len(subs) == 0 {
		return nil
	}
	payload, err := json.Marshal(alert)
	if err != nil {
		return err
	}
	a.logger.Info("sending idle alerts", zap.String("table", alert.TableNumber), zap.Int("subscriptions", len(subs)))
	options := alertOptions(a.options, alert)
	for _, sub := range subs {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		a.sendNotification(sub, payload, options)
	}
	return nil
}

// sendNotification sends a single web push notification. Expired subscriptions are forgotten.
func (a *IdleAlerter) sendNotification(sub model.PushSubscription, payload []byte, options *webpush.Options) {
	wpSub := &webpush.Subscription{
		Endpoint: sub.Endpoint,
		Keys: webpush.Keys{
			P256dh: sub.P256DH,
			Auth:   sub.Auth,
		},
	}

	resp, err := a.sender.Send(payload, wpSub, options)
	if err != nil {
		a.logger.Warn("push failed", zap.String("endpoint", sub.Endpoint), zap.Error(err))
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusGone {
		a.logger.Info("subscription expired", zap.String("endpoint", sub.Endpoint))
		a.subs.Delete(sub.Endpoint)
	}
}
