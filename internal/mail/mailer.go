package mail

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"io/fs"
	"net/http"
	"net/smtp"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/gofiber/template/html/v2"

	"equipstore/internal/domain"
	applog "equipstore/internal/log"
)

//go:embed templates/*.html
var templatesFS embed.FS

type Message struct {
	To      string
	Subject string
	HTML    string
}

type Sender interface {
	Send(ctx context.Context, m Message) error
}

// SMTPSender delivers through a plain-auth SMTP relay.
type SMTPSender struct {
	Host, Port, User, Pass, From string
}

func (s SMTPSender) Send(ctx context.Context, m Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	var auth smtp.Auth
	if s.User != "" {
		auth = smtp.PlainAuth("", s.User, s.Pass, s.Host)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\nTo: %s\r\nSubject: %s\r\n", s.From, m.To, m.Subject)
	b.WriteString("MIME-Version: 1.0\r\nContent-Type: text/html; charset=UTF-8\r\n\r\n")
	b.WriteString(m.HTML)
	return smtp.SendMail(s.Host+":"+s.Port, auth, s.From, []string{m.To}, []byte(b.String()))
}

// LogSender writes messages to the application log instead of delivering them.
type LogSender struct{}

func (LogSender) Send(_ context.Context, m Message) error {
	applog.Info(nil, "mail.logged", map[string]any{"to": m.To, "subject": m.Subject, "bytes": len(m.HTML)})
	return nil
}

// Naira formats an amount as ₦1,234.50.
func Naira(v float64) string {
	return "₦" + humanize.FormatFloat("#,###.##", v)
}

type Mailer struct {
	sender Sender
	views  *html.Engine
}

func New(sender Sender) (*Mailer, error) {
	sub, err := fs.Sub(templatesFS, "templates")
	if err != nil {
		return nil, err
	}
	views := html.NewFileSystem(http.FS(sub), ".html")
	views.AddFunc("naira", Naira)
	if err := views.Load(); err != nil {
		return nil, err
	}
	return &Mailer{sender: sender, views: views}, nil
}

func (m *Mailer) OrderConfirmation(ctx context.Context, u *domain.User, o *domain.Order) error {
	var buf bytes.Buffer
	data := map[string]any{"Name": u.Name, "Order": o}
	if err := m.views.Render(&buf, "order_confirmation", data); err != nil {
		return fmt.Errorf("render order confirmation: %w", err)
	}
	return m.sender.Send(ctx, Message{
		To:      u.Email,
		Subject: "Order " + o.OrderNumber + " received",
		HTML:    buf.String(),
	})
}
