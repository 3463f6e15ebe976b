package verify

import (
	"context"
	"fmt"

	"github.com/beconsistent/consistent-api/internal/mail"
)

// Service couples the code store to the mail transport: a code only
// stays outstanding if its delivery mail was accepted.
type Service struct {
	store  *CodeStore
	mailer mail.Sender
}

func NewService(store *CodeStore, mailer mail.Sender) *Service {
	return &Service{store: store, mailer: mailer}
}

// SendCode issues a code for the address and emails it. If the send
// fails the code is dropped again so the caller may retry immediately.
func (s *Service) SendCode(ctx context.Context, email string) error {
	code, err := s.store.Issue(email)
	if err != nil {
		return err
	}

	body := fmt.Sprintf("Your verification code is: %s\n\nIt will expire in 5 minutes.", code)
	if err := s.mailer.Send(ctx, email, "Your verification code for Be Consistent", body, ""); err != nil {
		s.store.Drop(email)
		return fmt.Errorf("%w: %v", ErrDeliveryFailed, err)
	}
	return nil
}

func (s *Service) VerifyCode(email, code string) error {
	return s.store.Consume(email, code)
}
