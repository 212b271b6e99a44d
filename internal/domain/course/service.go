// internal/domain/course/service.go
package course

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/your-org/gurukul-storefront/internal/config"
	"github.com/your-org/gurukul-storefront/internal/pkg/validate"
)

// InquirySheet is the spreadsheet resource inquiries are appended to
const InquirySheet = "sheet1"

// SheetClient appends rows to a spreadsheet endpoint
type SheetClient interface {
	AppendRow(ctx context.Context, endpoint, sheet string, row any) error
}

// InquiryRequest is the baking course contact form
type InquiryRequest struct {
	Name    string `json:"name" validate:"required,notblank"`
	PhoneNo string `json:"phone_no" validate:"required,notblank"`
	Email   string `json:"email" validate:"required,email"`
	Age     int    `json:"age" validate:"required,min=1"`
	Message string `json:"message" validate:"required,notblank"`
}

// InquiryRow is one row of the inquiry sheet
type InquiryRow struct {
	Name        string `json:"name"`
	PhoneNo     string `json:"phoneNo"`
	Email       string `json:"email"`
	Age         int    `json:"age"`
	Message     string `json:"message"`
	SubmittedAt string `json:"submittedAt"`
}

// Service handles course inquiries
type Service struct {
	sheets SheetClient
	config config.CoursesConfig
	logger *logrus.Logger
	now    func() time.Time
}

// NewService creates a new course service
func NewService(sheets SheetClient, cfg config.CoursesConfig, logger *logrus.Logger) *Service {
	return &Service{
		sheets: sheets,
		config: cfg,
		logger: logger,
		now:    time.Now,
	}
}

// SubmitInquiry appends the contact form to the inquiry sheet
func (s *Service) SubmitInquiry(ctx context.Context, req *InquiryRequest) (*InquiryRow, error) {
	if err := validate.Struct(req); err != nil {
		return nil, err
	}

	row := &InquiryRow{
		Name:        strings.TrimSpace(req.Name),
		PhoneNo:     strings.TrimSpace(req.PhoneNo),
		Email:       strings.TrimSpace(req.Email),
		Age:         req.Age,
		Message:     strings.TrimSpace(req.Message),
		SubmittedAt: s.now().Format("02/01/2006 15:04"),
	}
	if err := s.sheets.AppendRow(ctx, s.config.InquirySheetURL, InquirySheet, row); err != nil {
		return nil, fmt.Errorf("failed to send inquiry: %w", err)
	}

	s.logger.WithField("submitted_at", row.SubmittedAt).Info("Course inquiry sent")
	return row, nil
}
