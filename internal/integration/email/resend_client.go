package email

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/resend/resend-go/v2"

	"github.com/budget-tracker/backend/internal/application/adapter"
	domainerror "github.com/budget-tracker/backend/internal/domain/error"
)

// ResendClient delivers alert emails through the Resend API.
type ResendClient struct {
	client *resend.Client
	from   string
}

// NewResendClient creates a Resend sender. An empty baseURL uses the Resend API.
func NewResendClient(apiKey, baseURL, fromName, fromEmail string) (*ResendClient, error) {
	client := resend.NewClient(apiKey)
	if baseURL != "" {
		u, err := url.Parse(strings.TrimRight(baseURL, "/") + "/")
		if err != nil {
			return nil, fmt.Errorf("invalid resend base url: %w", err)
		}
		client.BaseURL = u
	}

	return &ResendClient{
		client: client,
		from:   fmt.Sprintf("%s <%s>", fromName, fromEmail),
	}, nil
}

func (c *ResendClient) Send(ctx context.Context, email adapter.OutgoingEmail) (string, error) {
	resp, err := c.client.Emails.SendWithContext(ctx, &resend.SendEmailRequest{
		From:    c.from,
		To:      []string{email.To},
		Subject: email.Subject,
		Html:    email.HTML,
		Text:    email.Text,
	})
	if err != nil {
		code := domainerror.ErrCodeTemporaryEmailFailure
		if isPermanent(ctx, err) {
			code = domainerror.ErrCodePermanentEmailFailure
		}
		return "", domainerror.NewEmailError(code, "resend rejected the alert", err)
	}
	return resp.Id, nil
}

// Resend reports HTTP failures only through the error text. Auth and
// validation failures will not succeed on retry; rate limits and 5xx will.
var permanentMarkers = []string{
	fmt.Sprint(http.StatusUnauthorized),
	fmt.Sprint(http.StatusForbidden),
	fmt.Sprint(http.StatusUnprocessableEntity),
	"unauthorized",
	"forbidden",
	"validation",
	"invalid",
}

func isPermanent(ctx context.Context, err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) || ctx.Err() != nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	for _, marker := range permanentMarkers {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}

var _ adapter.EmailSender = (*ResendClient)(nil)
