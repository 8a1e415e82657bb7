package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"muontra/internal/config"
	"muontra/internal/domain"
	"muontra/internal/logger"
	"muontra/internal/repository/postgres"
	"muontra/internal/security"
	"muontra/internal/service"

	"gopkg.in/yaml.v3"
)

type SeedAccount struct {
	Email    string `yaml:"email"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
	Phone    string `yaml:"phone"`
	Address  string `yaml:"address"`
	Role     string `yaml:"role"` // "owner" or "borrower"
}

type SeedItem struct {
	Owner       string `yaml:"owner"` // account email
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Category    int32  `yaml:"category"`
	Quantity    int32  `yaml:"quantity"`
	Condition   string `yaml:"condition"`
	Image       string `yaml:"image"`
}

type SeedTicket struct {
	Borrower string `yaml:"borrower"` // account email
	Item     string `yaml:"item"`     // item name
	Quantity int32  `yaml:"quantity"`
	DaysAgo  int    `yaml:"days_ago"`
	Days     int    `yaml:"days"`
	Note     string `yaml:"note"`
}

type SeedData struct {
	Accounts []SeedAccount `yaml:"accounts"`
	Items    []SeedItem    `yaml:"items"`
	Tickets  []SeedTicket  `yaml:"tickets"`
}

func readSeedFile(path string) (*SeedData, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}
	var seed SeedData
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return nil, fmt.Errorf("failed to parse seed file: %w", err)
	}
	return &seed, nil
}

func main() {
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	seedPath := flag.String("data", "config/seed.dev.yaml", "Path to the seed data file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)

	seed, err := readSeedFile(*seedPath)
	if err != nil {
		log.Fatalf("%v", err)
	}

	ctx := context.Background()
	db, err := postgres.Open(ctx, cfg.GetDatabaseConnectionString())
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	if err := postgres.Migrate(ctx, db); err != nil {
		log.Fatalf("Failed to apply schema: %v", err)
	}

	store := postgres.NewStore(db)
	s := &seeder{
		store: store,
		auth:  service.NewAuthService(store.AccountRepository, security.NewTokenManager(cfg.JWT.Secret, cfg.AccessTokenTTL())),
		items: service.NewItemService(store.ItemRepository, store.LoanRepository, store.AccountRepository),
		loans: service.NewLoanService(store.LoanRepository, store.ItemRepository, store.AccountRepository),
		now:   time.Now().UTC(),
	}
	if err := s.run(ctx, seed); err != nil {
		log.Fatalf("Failed to populate data: %v", err)
	}
	log.Println("Seed data populated")
}

// seeder goes through the services so stock bookkeeping matches real traffic.
type seeder struct {
	store *postgres.Store
	auth  service.AuthService
	items service.ItemService
	loans service.LoanService
	now   time.Time

	accounts map[string]int32
	itemIDs  map[string]int32
}

func (s *seeder) run(ctx context.Context, seed *SeedData) error {
	s.accounts = make(map[string]int32)
	s.itemIDs = make(map[string]int32)

	for _, a := range seed.Accounts {
		if err := s.account(ctx, a); err != nil {
			return fmt.Errorf("account %s: %w", a.Email, err)
		}
	}
	for _, it := range seed.Items {
		if err := s.item(ctx, it); err != nil {
			return fmt.Errorf("item %s: %w", it.Name, err)
		}
	}
	for _, t := range seed.Tickets {
		if err := s.ticket(ctx, t); err != nil {
			return fmt.Errorf("ticket %s -> %s: %w", t.Item, t.Borrower, err)
		}
	}
	return nil
}

func (s *seeder) account(ctx context.Context, a SeedAccount) error {
	role := domain.RoleBorrower
	if a.Role == "owner" {
		role = domain.RoleOwner
	}
	acc, err := s.auth.Register(ctx, domain.RegisterRequest{
		Email:    a.Email,
		Password: a.Password,
		Phone:    a.Phone,
		Address:  a.Address,
		FullName: a.Name,
		Role:     role,
	})
	if errors.Is(err, service.ErrEmailTaken) {
		acc, err = s.store.AccountRepository.GetByEmail(ctx, a.Email)
		if err == nil {
			logger.Info("Account exists, reusing", "email", a.Email, "id", acc.ID)
		}
	}
	if err != nil {
		return err
	}
	s.accounts[a.Email] = acc.ID
	return nil
}

func (s *seeder) item(ctx context.Context, it SeedItem) error {
	ownerID, ok := s.accounts[it.Owner]
	if !ok {
		return fmt.Errorf("unknown owner %q", it.Owner)
	}
	item := &domain.Item{
		OwnerID:       ownerID,
		Name:          it.Name,
		Description:   it.Description,
		CategoryID:    it.Category,
		TotalQuantity: it.Quantity,
		Lendable:      true,
		Condition:     it.Condition,
		ImageURL:      it.Image,
	}
	if err := s.items.CreateItem(ctx, service.Actor{}, item); err != nil {
		return err
	}
	s.itemIDs[it.Name] = item.ID
	logger.Info("Seeded item", "id", item.ID, "name", item.Name)
	return nil
}

func (s *seeder) ticket(ctx context.Context, t SeedTicket) error {
	borrowerID, ok := s.accounts[t.Borrower]
	if !ok {
		return fmt.Errorf("unknown borrower %q", t.Borrower)
	}
	itemID, ok := s.itemIDs[t.Item]
	if !ok {
		return fmt.Errorf("unknown item %q", t.Item)
	}
	days := t.Days
	if days <= 0 {
		days = domain.DefaultLoanDays
	}
	quantity := t.Quantity
	if quantity <= 0 {
		quantity = 1
	}

	borrowed := time.Date(s.now.Year(), s.now.Month(), s.now.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, -t.DaysAgo)
	ticket, err := s.loans.CreateTicket(ctx, service.Actor{}, domain.NewLoanTicket{
		ItemID:             itemID,
		BorrowerID:         borrowerID,
		Quantity:           quantity,
		BorrowDate:         domain.NewLocalTime(borrowed),
		ExpectedReturnDate: domain.NewLocalTime(borrowed.AddDate(0, 0, days)),
		Note:               t.Note,
	})
	if err != nil {
		return err
	}
	logger.Info("Seeded loan ticket", "id", ticket.ID, "item", t.Item, "borrower", t.Borrower)
	return nil
}
