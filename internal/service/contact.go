package service

import (
	"context"
	"fmt"
	"net/mail"
	"strings"

	"elixa-backend/internal/dto"
	"elixa-backend/internal/model"
	"elixa-backend/internal/repository"

	"github.com/google/uuid"
)

// contactSubjects is the closed set the contact form accepts.
var contactSubjects = []string{
	"Product Inquiry",
	"Order Support",
	"Collaboration",
	"Other",
}

type ContactService interface {
	SubmitMessage(ctx context.Context, req *dto.ContactRequest) (*dto.ContactView, error)
}

type contactServiceImpl struct {
	contactRepo repository.ContactRepository
}

func NewContactService(contactRepo repository.ContactRepository) ContactService {
	return &contactServiceImpl{
		contactRepo: contactRepo,
	}
}

func (s *contactServiceImpl) SubmitMessage(ctx context.Context, req *dto.ContactRequest) (*dto.ContactView, error) {
	name := strings.TrimSpace(req.Name)
	email := strings.ToLower(strings.TrimSpace(req.Email))
	message := strings.TrimSpace(req.Message)

	if name == "" || email == "" || req.Subject == "" || message == "" {
		return nil, fmt.Errorf("%w: all fields are required", ErrInvalidInput)
	}
	if len(name) < 2 || len(name) > 100 {
		return nil, fmt.Errorf("%w: name must be between 2 and 100 characters", ErrInvalidInput)
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, fmt.Errorf("%w: enter a valid email", ErrInvalidInput)
	}
	if !validSubject(req.Subject) {
		return nil, fmt.Errorf("%w: invalid subject", ErrInvalidInput)
	}
	if len(message) < 10 || len(message) > 1000 {
		return nil, fmt.Errorf("%w: message must be between 10 and 1000 characters", ErrInvalidInput)
	}

	contact := &model.Contact{
		ID:      uuid.NewString(),
		Name:    name,
		Email:   email,
		Subject: req.Subject,
		Message: message,
	}

	if err := s.contactRepo.Create(ctx, contact); err != nil {
		return nil, fmt.Errorf("store contact message: %w", err)
	}

	return &dto.ContactView{
		ID:        contact.ID,
		Name:      contact.Name,
		Email:     contact.Email,
		Subject:   contact.Subject,
		Message:   contact.Message,
		CreatedAt: contact.CreatedAt,
	}, nil
}

func validSubject(subject string) bool {
	for _, s := range contactSubjects {
		if s == subject {
			return true
		}
	}
	return false
}
