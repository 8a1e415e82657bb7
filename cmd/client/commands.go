package main

import (
	"context"
	"flag"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"muontra/internal/app"
	"muontra/internal/domain"
	"muontra/internal/utils"
)

func newFlags(name string) *flag.FlagSet {
	return flag.NewFlagSet(name, flag.ContinueOnError)
}

// parseWithID accepts the id either before or after the flags.
func parseWithID(fs *flag.FlagSet, args []string) (int32, error) {
	var raw string
	if len(args) > 0 && !strings.HasPrefix(args[0], "-") {
		raw, args = args[0], args[1:]
	}
	if err := fs.Parse(args); err != nil {
		return 0, err
	}
	if raw == "" {
		raw = fs.Arg(0)
	}
	n, err := strconv.ParseInt(raw, 10, 32)
	if err != nil || n <= 0 {
		return 0, &domain.ValidationError{Field: "id", Message: fmt.Sprintf("a numeric id is required, got %q", raw)}
	}
	return int32(n), nil
}

func requireYes(yes bool, what string) error {
	if !yes {
		return &domain.ValidationError{Field: "yes", Message: "refusing to delete " + what + " without --yes"}
	}
	return nil
}

func table() *tabwriter.Writer {
	return tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
}

func printResult(res *domain.Result) {
	if res != nil && res.Message != "" {
		fmt.Println(res.Message)
	}
}

func cmdRegister(ctx context.Context, e *env, args []string) error {
	fs := newFlags("register")
	var req domain.RegisterRequest
	var confirm, role string
	fs.StringVar(&req.Email, "email", "", "email")
	fs.StringVar(&req.Password, "password", "", "password")
	fs.StringVar(&confirm, "confirm", "", "password confirmation")
	fs.StringVar(&req.Phone, "phone", "", "phone number")
	fs.StringVar(&req.Address, "address", "", "address")
	fs.StringVar(&req.FullName, "name", "", "full name")
	fs.StringVar(&role, "role", "borrower", "owner or borrower")
	if err := fs.Parse(args); err != nil {
		return err
	}
	switch role {
	case "owner":
		req.Role = domain.RoleOwner
	case "borrower":
		req.Role = domain.RoleBorrower
	}

	res, err := e.app.Register(ctx, req, confirm)
	if err != nil {
		return err
	}
	printResult(res)
	return nil
}

func cmdLogin(ctx context.Context, e *env, args []string) error {
	fs := newFlags("login")
	email := fs.String("email", "", "email")
	password := fs.String("password", "", "password")
	if err := fs.Parse(args); err != nil {
		return err
	}

	sess, err := e.app.Login(ctx, *email, *password)
	if err != nil {
		return err
	}
	fmt.Printf("Logged in as account %d (%s)\n", sess.AccountID, roleName(sess.IsOwner))
	return nil
}

func cmdLogout(ctx context.Context, e *env, args []string) error {
	fs := newFlags("logout")
	all := fs.Bool("all", false, "log out every device of this account (redis session store only)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *all {
		if e.revoker == nil {
			return &domain.ValidationError{Field: "all", Message: "--all needs the redis session store"}
		}
		sess := e.sessions.Current(ctx)
		if sess.LoggedIn() {
			n, err := e.revoker.RevokeAll(ctx, sess.AccountID)
			if err != nil {
				return err
			}
			fmt.Printf("Revoked %d session(s)\n", n)
		}
	}
	if err := e.app.Logout(ctx); err != nil {
		return err
	}
	fmt.Println("Logged out")
	return nil
}

func cmdWhoAmI(ctx context.Context, e *env, args []string) error {
	sess := e.app.Session(ctx)
	if !sess.LoggedIn() {
		fmt.Println("Not logged in")
		return nil
	}
	fmt.Printf("Account %d (%s), logged in %s\n", sess.AccountID, roleName(sess.IsOwner), sess.SavedAt.Format("2006-01-02 15:04"))
	return nil
}

func cmdProfile(ctx context.Context, e *env, args []string) error {
	fs := newFlags("profile")
	update := fs.Bool("update", false, "update the profile")
	var upd domain.ProfileUpdate
	fs.StringVar(&upd.Email, "email", "", "email")
	fs.StringVar(&upd.FullName, "name", "", "full name")
	fs.StringVar(&upd.Phone, "phone", "", "phone number")
	fs.StringVar(&upd.Address, "address", "", "address")
	fs.StringVar(&upd.Password, "password", "", "new password (leave empty to keep)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	current, err := e.app.Profile(ctx)
	if err != nil {
		return err
	}
	if !*update {
		w := table()
		fmt.Fprintf(w, "ID\t%d\n", current.ID)
		fmt.Fprintf(w, "Name\t%s\n", current.FullName)
		fmt.Fprintf(w, "Email\t%s\n", current.Email)
		fmt.Fprintf(w, "Phone\t%s\n", current.Phone)
		fmt.Fprintf(w, "Address\t%s\n", current.Address)
		fmt.Fprintf(w, "Joined\t%s\n", current.CreatedOn.Date())
		return w.Flush()
	}

	// Unset flags keep the current values.
	if upd.Email == "" {
		upd.Email = current.Email
	}
	if upd.FullName == "" {
		upd.FullName = current.FullName
	}
	if upd.Phone == "" {
		upd.Phone = current.Phone
	}
	if upd.Address == "" {
		upd.Address = current.Address
	}
	res, err := e.app.UpdateProfile(ctx, upd)
	if err != nil {
		return err
	}
	printResult(res)
	return nil
}

func cmdItems(ctx context.Context, e *env, args []string) error {
	fs := newFlags("items")
	mine := fs.Bool("mine", false, "only my items (owners)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	items, err := e.app.Items(ctx, *mine)
	if err != nil {
		return err
	}
	if len(items) == 0 {
		fmt.Println("No items")
		return nil
	}

	w := table()
	fmt.Fprintln(w, "ID\tNAME\tREMAINING\tCONDITION\tSTOCK")
	for _, it := range items {
		fmt.Fprintf(w, "%d\t%s\t%d/%d\t%s\t%s\n", it.ID, it.Name, it.RemainingQuantity, it.TotalQuantity, it.Condition, it.StockLabel())
	}
	if err := w.Flush(); err != nil {
		return err
	}
	if *mine {
		s := domain.SummarizeStock(items)
		fmt.Printf("\n%d items, %d in stock, %d out of stock\n", s.Total, s.InStock, s.OutOfStock)
	}
	return nil
}

func cmdItem(ctx context.Context, e *env, args []string) error {
	id, err := parseWithID(newFlags("item"), args)
	if err != nil {
		return err
	}
	it, err := e.app.Item(ctx, id)
	if err != nil {
		return err
	}

	w := table()
	fmt.Fprintf(w, "ID\t%d\n", it.ID)
	fmt.Fprintf(w, "Name\t%s\n", it.Name)
	fmt.Fprintf(w, "Description\t%s\n", it.Description)
	fmt.Fprintf(w, "Owner\t%d\n", it.OwnerID)
	fmt.Fprintf(w, "Category\t%d\n", it.CategoryID)
	fmt.Fprintf(w, "Quantity\t%d of %d remaining\n", it.RemainingQuantity, it.TotalQuantity)
	fmt.Fprintf(w, "Condition\t%s\n", it.Condition)
	fmt.Fprintf(w, "Stock\t%s\n", it.StockLabel())
	if it.ImageURL != "" {
		fmt.Fprintf(w, "Image\t%s\n", it.ImageURL)
	}
	return w.Flush()
}

// cmdItemSave is the one item form; --id switches it to update mode.
func cmdItemSave(ctx context.Context, e *env, args []string) error {
	fs := newFlags("item-save")
	id := fs.Int("id", 0, "item id (update mode)")
	var it domain.Item
	var category, total int
	remaining := fs.Int("remaining", -1, "remaining quantity (update mode, default keeps lent units out)")
	fs.StringVar(&it.Name, "name", "", "item name")
	fs.StringVar(&it.Description, "description", "", "description")
	fs.IntVar(&category, "category", 0, "category id")
	fs.IntVar(&total, "total", 0, "total quantity")
	fs.BoolVar(&it.Lendable, "lendable", true, "can be borrowed")
	fs.StringVar(&it.Condition, "condition", "", "condition")
	image := fs.String("image", "", "image file to upload, or an image URL")
	if err := fs.Parse(args); err != nil {
		return err
	}
	it.ID = int32(*id)
	it.CategoryID = int32(category)
	it.TotalQuantity = int32(total)
	it.Active = true

	if *image != "" {
		url, err := resolveImage(ctx, e.app, *image)
		if err != nil {
			return err
		}
		it.ImageURL = url
	}

	mode := app.ModeCreate
	if it.ID > 0 {
		mode = app.ModeUpdate
		if *remaining >= 0 {
			it.RemainingQuantity = int32(*remaining)
		} else {
			// Units out on loan stay out: shift the stock by the change in total.
			current, err := e.app.Item(ctx, it.ID)
			if err != nil {
				return err
			}
			it.RemainingQuantity = max(current.RemainingQuantity+it.TotalQuantity-current.TotalQuantity, 0)
		}
	}
	res, err := e.app.SaveItem(ctx, it, mode)
	if err != nil {
		return err
	}
	printResult(res)
	return nil
}

func resolveImage(ctx context.Context, a *app.App, ref string) (string, error) {
	if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		return ref, nil
	}
	f, err := os.Open(ref)
	if err != nil {
		return "", err
	}
	defer f.Close()

	contentType := mime.TypeByExtension(strings.ToLower(filepath.Ext(ref)))
	return a.UploadImage(ctx, contentType, f)
}

func cmdItemDelete(ctx context.Context, e *env, args []string) error {
	fs := newFlags("item-delete")
	yes := fs.Bool("yes", false, "confirm deletion")
	id, err := parseWithID(fs, args)
	if err != nil {
		return err
	}
	if err := requireYes(*yes, "the item"); err != nil {
		return err
	}
	res, err := e.app.DeleteItem(ctx, id)
	if err != nil {
		return err
	}
	printResult(res)
	return nil
}

func cmdBorrow(ctx context.Context, e *env, args []string) error {
	fs := newFlags("borrow")
	var opts app.BorrowOptions
	qty := fs.Int("qty", 0, "quantity (default 1)")
	fs.IntVar(&opts.Days, "days", 0, "loan length in days (default 7)")
	until := fs.String("until", "", "return date yyyy-mm-dd, instead of --days")
	fs.StringVar(&opts.Note, "note", "", "note for the owner")
	id, err := parseWithID(fs, args)
	if err != nil {
		return err
	}
	opts.Quantity = int32(*qty)
	if *until != "" {
		due, err := utils.ParseDate(*until)
		if err != nil {
			return &domain.ValidationError{Field: "until", Message: err.Error()}
		}
		opts.Days = utils.DaysBetween(time.Now(), due.Time())
		if opts.Days <= 0 {
			return &domain.ValidationError{Field: "until", Message: "return date must be after today"}
		}
	}

	res, err := e.app.Borrow(ctx, id, opts)
	if err != nil {
		return err
	}
	printResult(res)
	return nil
}

func cmdTickets(ctx context.Context, e *env, args []string) error {
	fs := newFlags("tickets")
	mine := fs.Bool("mine", false, "tickets I borrowed")
	owned := fs.Bool("owned", false, "tickets for my items")
	legacy := fs.Bool("legacy", false, "all tickets in the older flat listing")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *legacy {
		if *mine || *owned {
			return &domain.ValidationError{Field: "scope", Message: "--legacy lists every ticket and cannot be combined with --mine or --owned"}
		}
		return printLegacyTickets(ctx, e)
	}
	scope := app.ScopeAll
	switch {
	case *mine && *owned:
		return &domain.ValidationError{Field: "scope", Message: "choose either --mine or --owned"}
	case *mine:
		scope = app.ScopeBorrowed
	case *owned:
		scope = app.ScopeOwned
	}

	tickets, err := e.app.Tickets(ctx, scope)
	if err != nil {
		return err
	}
	if len(tickets) == 0 {
		fmt.Println("No loan tickets")
		return nil
	}

	w := table()
	fmt.Fprintln(w, "ID\tITEM\tQTY\tBORROWED\tDUE\tRETURNED\tSTATUS")
	for _, t := range tickets {
		name := strconv.Itoa(int(t.ItemID))
		if t.Item != nil && t.Item.Name != "" {
			name = t.Item.Name
		}
		returned := "-"
		if t.ActualReturnDate != nil {
			returned = t.ActualReturnDate.Date()
		}
		fmt.Fprintf(w, "%d\t%s\t%d\t%s\t%s\t%s\t%s\n", t.ID, name, t.Quantity, t.BorrowDate.Date(), t.ExpectedReturnDate.Date(), returned, t.Status)
	}
	return w.Flush()
}

func printLegacyTickets(ctx context.Context, e *env) error {
	tickets, err := e.app.LegacyTickets(ctx)
	if err != nil {
		return err
	}
	if len(tickets) == 0 {
		fmt.Println("No loan tickets")
		return nil
	}

	w := table()
	fmt.Fprintln(w, "ID\tITEM ID\tQTY\tBORROWED\tDUE\tRETURNED\tSTATUS")
	for _, t := range tickets {
		returned := "-"
		if t.ActualReturnDate != nil {
			returned = t.ActualReturnDate.Date()
		}
		fmt.Fprintf(w, "%d\t%d\t%d\t%s\t%s\t%s\t%s\n", t.ID, t.ItemID, t.Quantity, t.BorrowDate.Date(), t.ExpectedReturnDate.Date(), returned, t.Status)
	}
	return w.Flush()
}

func cmdTicket(ctx context.Context, e *env, args []string) error {
	id, err := parseWithID(newFlags("ticket"), args)
	if err != nil {
		return err
	}
	t, err := e.app.Ticket(ctx, id)
	if err != nil {
		return err
	}

	w := table()
	fmt.Fprintf(w, "ID\t%d\n", t.ID)
	if t.Item != nil {
		fmt.Fprintf(w, "Item\t%s (#%d)\n", t.Item.Name, t.Item.ID)
	} else {
		fmt.Fprintf(w, "Item\t#%d\n", t.ItemID)
	}
	fmt.Fprintf(w, "Quantity\t%d\n", t.Quantity)
	fmt.Fprintf(w, "Borrowed\t%s\n", t.BorrowDate)
	fmt.Fprintf(w, "Due\t%s\n", t.ExpectedReturnDate)
	if t.ActualReturnDate != nil {
		fmt.Fprintf(w, "Returned\t%s\n", t.ActualReturnDate)
		if span, err := utils.LoanSpan(t.BorrowDate.Time, t.ActualReturnDate.Time); err == nil {
			fmt.Fprintf(w, "Loan length\t%s\n", span)
		}
	} else if days := utils.DaysOverdue(t.ExpectedReturnDate.Time, time.Now()); days > 0 && t.Status.IsActive() {
		fmt.Fprintf(w, "Late by\t%d days\n", days)
	}
	fmt.Fprintf(w, "Status\t%s\n", t.Status)
	if t.Note != "" {
		fmt.Fprintf(w, "Note\t%s\n", t.Note)
	}
	return w.Flush()
}

func cmdTicketUpdate(ctx context.Context, e *env, args []string) error {
	fs := newFlags("ticket-update")
	ret := fs.Bool("return", false, "mark the ticket returned now")
	status := fs.Int("status", 0, "new status id (2 returned, 3 overdue, 4 cancelled)")
	note := fs.String("note", "", "note")
	id, err := parseWithID(fs, args)
	if err != nil {
		return err
	}

	edit := app.TicketEdit{ID: id, Return: *ret}
	if *status != 0 {
		s := domain.Status(*status)
		edit.Status = &s
	}
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "note" {
			edit.Note = note
		}
	})

	res, err := e.app.UpdateTicket(ctx, edit)
	if err != nil {
		return err
	}
	printResult(res)
	return nil
}

func cmdTicketDelete(ctx context.Context, e *env, args []string) error {
	fs := newFlags("ticket-delete")
	yes := fs.Bool("yes", false, "confirm deletion")
	id, err := parseWithID(fs, args)
	if err != nil {
		return err
	}
	if err := requireYes(*yes, "the loan ticket"); err != nil {
		return err
	}
	res, err := e.app.DeleteTicket(ctx, id)
	if err != nil {
		return err
	}
	printResult(res)
	return nil
}

func roleName(isOwner bool) string {
	if isOwner {
		return "owner"
	}
	return "borrower"
}
