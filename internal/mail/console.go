package mail

import (
	"fmt"
	"log"
	"strings"
	"sync"
	"time"
)

// ConsoleService writes messages to the process log instead of delivering
// them. Used in development when no SendGrid key is configured.
type ConsoleService struct {
	defaultFromEmail string
	subjPrefix       string
}

var _ Service = (*ConsoleService)(nil)

func NewConsoleService(appName string, defaultFromEmail string) *ConsoleService {
	return &ConsoleService{
		defaultFromEmail: defaultFromEmail,
		subjPrefix:       "[" + appName + "] ",
	}
}

func (svc *ConsoleService) Send(to string, subject string, body string) error {
	message := &strings.Builder{}
	_, _ = fmt.Fprintf(message, "From: %s\r\n", svc.defaultFromEmail)
	_, _ = fmt.Fprintf(message, "Date: %s\r\n", time.Now().Format(time.RFC1123Z))
	_, _ = fmt.Fprintf(message, "Subject: %s\r\n", svc.subjPrefix+subject)
	_, _ = fmt.Fprintf(message, "To: %s\r\n\r\n", to)
	_, _ = fmt.Fprintf(message, "%s\r\n", body)
	log.Println(message.String())
	return nil
}

// RecorderService captures sent messages for tests. FailNext makes the next
// Send return an error, for exercising delivery-failure fallbacks.
type RecorderService struct {
	mu       sync.Mutex
	Sent     []RecordedMessage
	FailNext bool
}

type RecordedMessage struct {
	To      string
	Subject string
	Body    string
}

var _ Service = (*RecorderService)(nil)

func (svc *RecorderService) Send(to string, subject string, body string) error {
	svc.mu.Lock()
	defer svc.mu.Unlock()
	if svc.FailNext {
		svc.FailNext = false
		return fmt.Errorf("simulated delivery failure to %s", to)
	}
	svc.Sent = append(svc.Sent, RecordedMessage{To: to, Subject: subject, Body: body})
	return nil
}
