package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"sort"

	"muontra/internal/app"
	"muontra/internal/client"
	"muontra/internal/config"
	"muontra/internal/logger"
	"muontra/internal/session"

	"github.com/redis/go-redis/v9"
)

type command struct {
	usage string
	run   func(ctx context.Context, env *env, args []string) error
}

// env is what every command receives.
type env struct {
	app      *app.App
	sessions *session.Manager
	revoker  *session.RedisStore
}

var commands = map[string]command{
	"register":      {"register --email E --password P --confirm P --phone N --address A --name N --role owner|borrower", cmdRegister},
	"login":         {"login --email E --password P", cmdLogin},
	"logout":        {"logout [--all]", cmdLogout},
	"whoami":        {"whoami", cmdWhoAmI},
	"profile":       {"profile [--update --email E --name N --phone N --address A --password P]", cmdProfile},
	"items":         {"items [--mine]", cmdItems},
	"item":          {"item <id>", cmdItem},
	"item-save":     {"item-save [--id N] --name N --category N --total N [--remaining N] [--lendable] [--condition C] [--image PATH|URL]", cmdItemSave},
	"item-delete":   {"item-delete <id> --yes", cmdItemDelete},
	"borrow":        {"borrow <itemId> [--qty N] [--days N] [--note T]", cmdBorrow},
	"tickets":       {"tickets [--mine|--owned|--legacy]", cmdTickets},
	"ticket":        {"ticket <id>", cmdTicket},
	"ticket-update": {"ticket-update <id> [--return] [--status N] [--note T]", cmdTicketUpdate},
	"ticket-delete": {"ticket-delete <id> --yes", cmdTicketDelete},
}

func usage() {
	fmt.Fprintf(os.Stderr, "usage: client [--config path] <command> [flags]\n\ncommands:\n")
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(os.Stderr, "  %s\n", commands[name].usage)
	}
}

func main() {
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	flag.Usage = usage
	flag.Parse()

	if flag.NArg() == 0 {
		usage()
		os.Exit(2)
	}
	cmd, ok := commands[flag.Arg(0)]
	if !ok {
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n", flag.Arg(0))
		usage()
		os.Exit(2)
	}

	cfg, err := config.LoadClient(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	logger.InitializeWithWriter(cfg.Log.Level, cfg.Log.Format, os.Stderr)

	store, revoker, closeStore := openStore(cfg)
	defer closeStore()

	sessions := session.NewManager(store)
	gateway := client.New(cfg.Client.BaseURL, cfg.ClientTimeout(), client.WithTokenSource(sessions.Token))
	e := &env{
		app:      app.New(gateway, sessions),
		sessions: sessions,
		revoker:  revoker,
	}

	if err := cmd.run(context.Background(), e, flag.Args()[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "error:", app.Describe(err))
		os.Exit(1)
	}
}

func openStore(cfg *config.Config) (session.Store, *session.RedisStore, func()) {
	switch cfg.Client.SessionStore {
	case "redis":
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		store := session.NewRedisStore(rdb, cfg.Client.DeviceID, cfg.SessionTTL())
		return store, store, func() { rdb.Close() }
	case "memory":
		return session.NewMemoryStore(), nil, func() {}
	default:
		return session.NewFileStore(cfg.Client.SessionFile), nil, func() {}
	}
}
