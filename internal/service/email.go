package service

import (
	"context"
	"fmt"

	"muontra/internal/domain"
	"muontra/internal/logger"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

const sendEndpoint = "/v3/mail/send"

type sendGridEmailService struct {
	apiKey    string
	host      string
	fromEmail string
	fromName  string
}

// NewSendGridEmailService sends through the SendGrid v3 API. An empty host means api.sendgrid.com.
func NewSendGridEmailService(apiKey, host, fromEmail, fromName string) EmailService {
	return &sendGridEmailService{
		apiKey:    apiKey,
		host:      host,
		fromEmail: fromEmail,
		fromName:  fromName,
	}
}

func (s *sendGridEmailService) SendOverdueReminder(ctx context.Context, r domain.OverdueReminder) error {
	subject := fmt.Sprintf("Nhắc trả đồ: %s đã quá hạn", r.ItemName)
	plain := fmt.Sprintf("Xin chào %s,\n\nPhiếu mượn #%d (%d x %s) đã quá hạn trả ngày %s (trễ %d ngày). Vui lòng liên hệ chủ sở hữu để trả đồ.\n",
		r.BorrowerName, r.TicketID, r.Quantity, r.ItemName, r.ExpectedReturnDate.Date(), r.DaysOverdue)
	html := fmt.Sprintf("<p>Xin chào %s,</p><p>Phiếu mượn <strong>#%d</strong> (%d x %s) đã quá hạn trả ngày <strong>%s</strong>, trễ %d ngày.</p>",
		r.BorrowerName, r.TicketID, r.Quantity, r.ItemName, r.ExpectedReturnDate.Date(), r.DaysOverdue)

	return s.send(ctx, r.BorrowerEmail, r.BorrowerName, subject, plain, html)
}

func (s *sendGridEmailService) send(ctx context.Context, to, toName, subject, plainText, htmlContent string) error {
	from := mail.NewEmail(s.fromName, s.fromEmail)
	recipient := mail.NewEmail(toName, to)
	message := mail.NewSingleEmail(from, subject, recipient, plainText, htmlContent)

	request := sendgrid.GetRequest(s.apiKey, sendEndpoint, s.host)
	request.Method = "POST"
	request.Body = mail.GetRequestBody(message)

	logger.ExternalServiceCall("sendgrid", "send", "to", to, "subject", subject)
	response, err := sendgrid.MakeRequestWithContext(ctx, request)
	if err != nil {
		logger.ExternalServiceResult("sendgrid", "send", err, "to", to)
		return fmt.Errorf("failed to send email: %w", err)
	}
	if response.StatusCode >= 400 {
		err := fmt.Errorf("sendgrid error: status %d, body: %s", response.StatusCode, response.Body)
		logger.ExternalServiceResult("sendgrid", "send", err, "to", to)
		return err
	}

	logger.ExternalServiceResult("sendgrid", "send", nil, "to", to, "status", response.StatusCode)
	return nil
}
