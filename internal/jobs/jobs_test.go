package jobs_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"muontra/internal/config"
	"muontra/internal/domain"
	"muontra/internal/jobs"
	"muontra/internal/repository"
	"muontra/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockLoanService struct {
	service.LoanService
	mock.Mock
}

func (m *MockLoanService) MarkOverdue(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

type MockLoanRepo struct {
	repository.LoanRepository
	mock.Mock
}

func (m *MockLoanRepo) ListOverdueReminders(ctx context.Context) ([]domain.OverdueReminder, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.OverdueReminder), args.Error(1)
}

type MockEmailService struct{ mock.Mock }

func (m *MockEmailService) SendOverdueReminder(ctx context.Context, reminder domain.OverdueReminder) error {
	return m.Called(ctx, reminder).Error(0)
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Scheduler.MarkOverdueLoans = "0 0 * * * *"
	cfg.Scheduler.SendOverdueReminders = "0 0 8 * * *"
	return cfg
}

func TestMarkOverdueLoans(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		loanSvc := new(MockLoanService)
		loanSvc.On("MarkOverdue", mock.Anything).Return(int64(3), nil)

		jobs.NewJobRunner(loanSvc, new(MockLoanRepo), nil, testConfig()).MarkOverdueLoans()
		loanSvc.AssertExpectations(t)
	})

	t.Run("ErrorIsLogged", func(t *testing.T) {
		loanSvc := new(MockLoanService)
		loanSvc.On("MarkOverdue", mock.Anything).Return(int64(0), errors.New("db down"))

		assert.NotPanics(t, func() {
			jobs.NewJobRunner(loanSvc, new(MockLoanRepo), nil, testConfig()).MarkOverdueLoans()
		})
		loanSvc.AssertExpectations(t)
	})

	t.Run("PanicRecovered", func(t *testing.T) {
		loanSvc := new(MockLoanService)
		loanSvc.On("MarkOverdue", mock.Anything).Run(func(mock.Arguments) { panic("boom") })

		assert.NotPanics(t, func() {
			jobs.NewJobRunner(loanSvc, new(MockLoanRepo), nil, testConfig()).MarkOverdueLoans()
		})
	})
}

func TestSendOverdueReminders(t *testing.T) {
	t.Run("SkippedWithoutEmail", func(t *testing.T) {
		loanRepo := new(MockLoanRepo)
		jobs.NewJobRunner(new(MockLoanService), loanRepo, nil, testConfig()).SendOverdueReminders()
		loanRepo.AssertNotCalled(t, "ListOverdueReminders", mock.Anything)
	})

	t.Run("SendsEachReminder", func(t *testing.T) {
		loanRepo := new(MockLoanRepo)
		email := new(MockEmailService)
		due := domain.NewLocalTime(time.Date(2025, 10, 25, 0, 0, 0, 0, time.UTC))
		now := time.Date(2025, 10, 28, 8, 0, 0, 0, time.UTC)
		reminders := []domain.OverdueReminder{
			{TicketID: 1, BorrowerEmail: "a@b.c", ItemName: "Khoan", ExpectedReturnDate: due},
			{TicketID: 2, BorrowerEmail: ""},
			{TicketID: 3, BorrowerEmail: "d@e.f", ItemName: "Thang", ExpectedReturnDate: due},
		}
		ticket := func(id int32) any {
			return mock.MatchedBy(func(r domain.OverdueReminder) bool {
				return r.TicketID == id && r.DaysOverdue == 3
			})
		}
		loanRepo.On("ListOverdueReminders", mock.Anything).Return(reminders, nil)
		email.On("SendOverdueReminder", mock.Anything, ticket(1)).Return(errors.New("rate limited"))
		email.On("SendOverdueReminder", mock.Anything, ticket(3)).Return(nil)

		jobs.NewJobRunner(new(MockLoanService), loanRepo, email, testConfig()).
			WithClock(func() time.Time { return now }).
			SendOverdueReminders()
		loanRepo.AssertExpectations(t)
		email.AssertExpectations(t)
		email.AssertNumberOfCalls(t, "SendOverdueReminder", 2)
	})
}
