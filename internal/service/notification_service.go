package service

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/PGMA10/rrak-website/config"
	"github.com/PGMA10/rrak-website/internal/domain"
	"github.com/PGMA10/rrak-website/internal/metrics"
	"github.com/PGMA10/rrak-website/internal/models"
	"github.com/PGMA10/rrak-website/internal/schema"
	"github.com/PGMA10/rrak-website/pkg/mailer"
)

// Notifier emails the operator a summary of every new submission. Delivery
// is best effort: failures are logged and counted, never returned.
type Notifier struct {
	sender   mailer.Sender
	to       string
	siteName string
	timeout  time.Duration
	wg       sync.WaitGroup
}

func NewNotifier(sender mailer.Sender, cfg *config.MailConfig) *Notifier {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Notifier{
		sender:   sender,
		to:       cfg.NotificationEmail,
		siteName: cfg.SiteName,
		timeout:  timeout,
	}
}

// Dispatch sends the notification on its own goroutine and returns at once.
func (n *Notifier) Dispatch(sub models.Submission) {
	msg := n.Compose(sub)
	n.wg.Add(1)
	go func() {
		defer n.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), n.timeout)
		defer cancel()
		n.deliver(ctx, sub.Kind(), msg)
	}()
}

// Wait blocks until every dispatched notification has finished.
func (n *Notifier) Wait() {
	n.wg.Wait()
}

func (n *Notifier) deliver(ctx context.Context, kind domain.Entity, msg mailer.Message) {
	if _, noop := n.sender.(mailer.NoopSender); noop {
		metrics.RecordNotification("skipped")
		if err := n.sender.Send(ctx, msg); err != nil {
			log.Warn().Err(err).Str("component", "notifier").Str("entity", string(kind)).Msg("noop sender failed")
		}
		return
	}
	if err := n.sender.Send(ctx, msg); err != nil {
		metrics.RecordNotification("failed")
		log.Error().Err(err).Str("component", "notifier").Str("entity", string(kind)).
			Msg("failed to send notification")
		return
	}
	metrics.RecordNotification("sent")
	log.Info().Str("component", "notifier").Str("entity", string(kind)).Msg("notification sent")
}

type notificationLine struct {
	Label string
	Lines []string
}

var notificationHTML = template.Must(template.New("notification").Parse(
	`<h2>New {{.Title}}</h2>
{{range .Fields}}<p><strong>{{.Label}}:</strong>{{if gt (len .Lines) 1}}<br>{{else}} {{end}}{{range $i, $l := .Lines}}{{if $i}}<br>{{end}}{{$l}}{{end}}</p>
{{end}}<p><em>Submitted at: {{.At}}</em></p>
`))

// Compose renders subject, HTML and plain-text bodies from the row's
// present fields.
func (n *Notifier) Compose(sub models.Submission) mailer.Message {
	kind := sub.Kind()
	fields := sub.Fields()
	at := time.Now().UTC().Format(time.RFC1123)

	var lines []notificationLine
	var text strings.Builder
	fmt.Fprintf(&text, "New %s\n\n", kind.Label())
	for _, f := range fields {
		if f.Value == nil || f.Name == "id" || f.Name == "createdAt" {
			continue
		}
		label := fieldLabel(kind, f.Name)
		lines = append(lines, notificationLine{Label: label, Lines: strings.Split(*f.Value, "\n")})
		fmt.Fprintf(&text, "%s: %s\n", label, *f.Value)
	}
	fmt.Fprintf(&text, "\nSubmitted at: %s\n", at)

	var html bytes.Buffer
	err := notificationHTML.Execute(&html, map[string]interface{}{
		"Title":  kind.Label(),
		"Fields": lines,
		"At":     at,
	})
	body := html.String()
	if err != nil {
		log.Warn().Err(err).Str("component", "notifier").Str("entity", string(kind)).
			Msg("html body failed, sending plain text")
		body = "<pre>" + template.HTMLEscapeString(text.String()) + "</pre>"
	}

	return mailer.Message{
		To:        n.to,
		Subject:   n.subject(kind, fields),
		HTML:      body,
		PlainText: text.String(),
	}
}

func (n *Notifier) subject(kind domain.Entity, fields []models.Field) string {
	switch kind {
	case domain.EntityNewsletterSubscribers:
		return fmt.Sprintf("New Newsletter Subscriber from %s", n.siteName)
	case domain.EntityLeads, domain.EntityQuoteRequests, domain.EntityConsultationBookings:
		return fmt.Sprintf("New %s: %s from %s", kind.Label(), fieldValue(fields, "name"), n.siteName)
	default:
		return fmt.Sprintf("New %s: %s from %s", kind.Label(), fieldValue(fields, "email"), n.siteName)
	}
}

func fieldValue(fields []models.Field, name string) string {
	for _, f := range fields {
		if f.Name == name && f.Value != nil {
			return *f.Value
		}
	}
	return ""
}

func fieldLabel(kind domain.Entity, name string) string {
	for _, r := range schema.Table[kind] {
		if r.Field == name {
			return r.Label
		}
	}
	if name == "" {
		return name
	}
	return strings.ToUpper(name[:1]) + name[1:]
}
