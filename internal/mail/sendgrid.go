package mail

import (
	"fmt"
	"net/http"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
)

const (
	sendgridHost     = "https://api.sendgrid.com"
	sendgridEndpoint = "/v3/mail/send"
)

type SendGridService struct {
	key        string
	from       *sgmail.Email
	subjPrefix string
}

var _ Service = (*SendGridService)(nil)

func NewSendGridService(key string, appName string, fromEmail string) *SendGridService {
	return &SendGridService{
		key:        key,
		from:       sgmail.NewEmail(appName, fromEmail),
		subjPrefix: "[" + appName + "] ",
	}
}

func (svc *SendGridService) Send(to string, subject string, body string) error {
	personalization := sgmail.NewPersonalization()
	personalization.Subject = svc.subjPrefix + subject
	personalization.AddTos(sgmail.NewEmail("", to))

	message := sgmail.NewV3Mail()
	message.SetFrom(svc.from)
	message.AddPersonalizations(personalization)
	message.AddContent(sgmail.NewContent("text/plain", body))

	request := sendgrid.GetRequest(svc.key, sendgridEndpoint, sendgridHost)
	request.Method = http.MethodPost
	request.Body = sgmail.GetRequestBody(message)

	response, err := sendgrid.API(request)
	if err != nil {
		return fmt.Errorf("sendgrid request: %w", err)
	}
	if response.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("sendgrid responded %d", response.StatusCode)
	}
	return nil
}
