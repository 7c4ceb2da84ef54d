// Package notification sends web push alerts for tables left idle past their area's threshold.
package notification

import (
	"net/http"

	"github.com/SherClockHolmes/webpush-go"
)

// Sender delivers one encrypted push message.
type Sender interface {
	Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error)
}

// WebPushSender delivers through the push service named by the subscription endpoint.
type WebPushSender struct{}

func (s *WebPushSender) Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
	return webpush.SendNotification(payload, sub, options)
}

// alertOptions derives the per-alert options: alerts for the same table collapse into one pending
// message on the device.
func alertOptions(base *webpush.Options, alert Alert) *webpush.Options {
	opts := webpush.Options{Urgency: webpush.UrgencyHigh}
	if base != nil {
		opts = *base
		if opts.Urgency == "" {
			opts.Urgency = webpush.UrgencyHigh
		}
	}
	opts.Topic = "mesa-" + alert.TableNumber
	return &opts
}
