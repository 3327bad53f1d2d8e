package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"text/tabwriter"

	"github.com/shopspring/decimal"
	"golang.org/x/term"

	"tradepro/internal/auth"
	"tradepro/internal/config"
	"tradepro/internal/dashboard"
	"tradepro/internal/gateway"
	"tradepro/internal/notify"
	"tradepro/internal/repo"
	"tradepro/internal/session"
)

// runAdmin dispatches the dashboard subcommands. The session slot lives in
// the configured session backend, so a login survives between invocations.
func runAdmin(ctx context.Context, cfg *config.Config, logger *slog.Logger, args []string) error {
	if len(args) == 0 || args[0] == "help" || args[0] == "--help" {
		printAdminHelp()
		return nil
	}

	d, err := openDeps(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer d.close()
	a := &admin{
		deps:     d,
		auth:     auth.NewService(d.gateway, d.sessions, logger),
		merchant: dashboard.NewMerchantService(d.gateway, logger),
	}

	cmd, rest := args[0], args[1:]
	switch cmd {
	case "create-merchant":
		return a.createMerchant(ctx, rest)
	case "login":
		return a.login(ctx, rest)
	case "login-client":
		return a.loginClient(ctx, rest)
	case "whoami":
		return a.whoami(ctx)
	case "logout":
		return a.auth.Logout(ctx)
	case "overview":
		return a.overview(ctx)
	case "add-product":
		return a.addProduct(ctx, rest)
	case "add-client":
		return a.addClient(ctx, rest)
	case "deliver":
		return a.deliver(ctx, rest)
	case "set-logo":
		return a.setLogo(ctx, rest)
	case "catalog":
		return a.catalog(ctx)
	case "order":
		return a.order(ctx, rest)
	default:
		printAdminHelp()
		return fmt.Errorf("unknown admin command: %s", cmd)
	}
}

func printAdminHelp() {
	fmt.Fprint(os.Stderr, `Usage: tradepro admin <command> [options]

Merchant commands:
  create-merchant  Register a merchant account
  login            Open a merchant session
  overview         Show products, clients, orders and stats
  add-product      Create a product
  add-client       Create a client account
  deliver          Mark an order delivered
  set-logo         Upload the company logo

Client commands:
  login-client     Open a client session
  catalog          List orderable products
  order            Place orders, e.g. "order <product-id>=2 <product-id>=1"

Session commands:
  whoami           Show the current session
  logout           Clear the session
`)
}

type admin struct {
	deps     *deps
	auth     *auth.Service
	merchant *dashboard.MerchantService
}

func (a *admin) createMerchant(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("create-merchant", flag.ContinueOnError)
	handle := fs.String("id", "", "merchant identifier used to log in (required)")
	name := fs.String("name", "", "display name (required)")
	password := fs.String("password", "", "password (prompted if not provided)") //nolint:gosec // CLI flag
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *handle == "" || *name == "" {
		return errors.New("--id and --name are required")
	}
	pw, err := passwordOrPrompt(*password, true)
	if err != nil {
		return err
	}

	created := a.deps.gateway.CreateMerchant(ctx, repo.Merchant{MerchantID: *handle, Name: *name, Password: pw})
	if created == nil {
		return fmt.Errorf("create merchant %s: %w", *handle, dashboard.ErrNotSaved)
	}
	fmt.Fprintf(os.Stderr, "Merchant %s created (%s)\n", created.MerchantID, created.ID)
	return nil
}

func (a *admin) login(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("login", flag.ContinueOnError)
	handle := fs.String("merchant", "", "merchant identifier (required)")
	password := fs.String("password", "", "password (prompted if not provided)") //nolint:gosec // CLI flag
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *handle == "" {
		return errors.New("--merchant is required")
	}
	pw, err := passwordOrPrompt(*password, false)
	if err != nil {
		return err
	}
	sess, err := a.auth.LoginMerchant(ctx, *handle, pw)
	if err != nil {
		return err
	}
	printSession(sess)
	return nil
}

func (a *admin) loginClient(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("login-client", flag.ContinueOnError)
	merchantHandle := fs.String("merchant", "", "merchant identifier (required)")
	clientHandle := fs.String("client", "", "client identifier (required)")
	password := fs.String("password", "", "password (prompted if not provided)") //nolint:gosec // CLI flag
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *merchantHandle == "" || *clientHandle == "" {
		return errors.New("--merchant and --client are required")
	}
	pw, err := passwordOrPrompt(*password, false)
	if err != nil {
		return err
	}
	sess, err := a.auth.LoginClient(ctx, *clientHandle, pw, *merchantHandle)
	if err != nil {
		return err
	}
	printSession(sess)
	return nil
}

func (a *admin) whoami(ctx context.Context) error {
	sess, ok := a.deps.sessions.Get(ctx)
	if !ok {
		return auth.ErrNoSession
	}
	printSession(sess)
	return nil
}

func (a *admin) overview(ctx context.Context) error {
	sess, err := a.auth.Require(ctx, session.RoleMerchant)
	if err != nil {
		return err
	}
	ov := a.merchant.Overview(ctx, sess.MerchantID)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintf(w, "PRODUCTS\t%d\nCLIENTS\t%d\nORDERS\t%d\nPENDING\t%d\nREVENUE\t%s\n\n",
		ov.Stats.Products, ov.Stats.Clients, ov.Stats.Orders, ov.Stats.PendingOrders, ov.Stats.Revenue.StringFixed(2))

	_, _ = fmt.Fprintln(w, "PRODUCT ID\tNAME\tPRICE\tACTIVE")
	for _, p := range ov.Products {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%t\n", p.ID, p.Name, p.Price.StringFixed(2), p.Active)
	}
	_, _ = fmt.Fprintln(w, "\nCLIENT ID\tHANDLE\tNAME\tACTIVE")
	for _, c := range ov.Clients {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%t\n", c.ID, c.ClientID, c.Name, c.Active)
	}
	_, _ = fmt.Fprintln(w, "\nORDER ID\tCLIENT\tPRODUCT\tQTY\tSTATUS\tCREATED")
	for _, o := range ov.Orders {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\t%s\n", o.ID, o.ClientID, o.ProductID, o.Quantity, o.Status, o.CreatedAt.Format("2006-01-02 15:04"))
	}
	return w.Flush()
}

func (a *admin) addProduct(ctx context.Context, args []string) error {
	sess, err := a.auth.Require(ctx, session.RoleMerchant)
	if err != nil {
		return err
	}
	fs := flag.NewFlagSet("add-product", flag.ContinueOnError)
	name := fs.String("name", "", "product name (required)")
	price := fs.String("price", "0", "unit price")
	description := fs.String("description", "", "description")
	image := fs.String("image", "", "path to a picture")
	inactive := fs.Bool("inactive", false, "hide from the catalog")
	if err := fs.Parse(args); err != nil {
		return err
	}

	amount, err := decimal.NewFromString(*price)
	if err != nil {
		return fmt.Errorf("parse price: %w", err)
	}
	form := dashboard.ProductForm{Name: *name, Price: amount, Description: *description, Active: !*inactive}
	if *image != "" {
		if form.Image, err = os.ReadFile(*image); err != nil {
			return fmt.Errorf("read image: %w", err)
		}
	}

	p, err := a.merchant.SaveProduct(ctx, sess.MerchantID, "", form)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "Product %s created (%s)\n", p.Name, p.ID)
	return nil
}

func (a *admin) addClient(ctx context.Context, args []string) error {
	sess, err := a.auth.Require(ctx, session.RoleMerchant)
	if err != nil {
		return err
	}
	form := dashboard.NewClientForm()
	fs := flag.NewFlagSet("add-client", flag.ContinueOnError)
	fs.StringVar(&form.ClientID, "client", "", "client identifier used to log in (required)")
	fs.StringVar(&form.Name, "name", "", "display name (required)")
	fs.StringVar(&form.Email, "email", "", "email")
	fs.StringVar(&form.Phone, "phone", "", "phone")
	fs.StringVar(&form.City, "city", "", "city")
	fs.BoolVar(&form.ShowPrice, "show-price", true, "show prices in the catalog")
	password := fs.String("password", "", "password (prompted if not provided)") //nolint:gosec // CLI flag
	if err := fs.Parse(args); err != nil {
		return err
	}
	if form.Password, err = passwordOrPrompt(*password, true); err != nil {
		return err
	}

	c, err := a.merchant.SaveClient(ctx, sess.MerchantID, "", form)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "Client %s created (%s)\n", c.ClientID, c.ID)
	return nil
}

func (a *admin) deliver(ctx context.Context, args []string) error {
	if _, err := a.auth.Require(ctx, session.RoleMerchant); err != nil {
		return err
	}
	if len(args) != 1 {
		return errors.New("usage: deliver <order-id>")
	}
	if o := a.merchant.MarkDelivered(ctx, args[0]); o == nil {
		return fmt.Errorf("deliver order %s: %w", args[0], dashboard.ErrNotSaved)
	}
	fmt.Fprintf(os.Stderr, "Order %s delivered\n", args[0])
	return nil
}

func (a *admin) setLogo(ctx context.Context, args []string) error {
	sess, err := a.auth.Require(ctx, session.RoleMerchant)
	if err != nil {
		return err
	}
	if len(args) != 1 {
		return errors.New("usage: set-logo <file>")
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read logo: %w", err)
	}

	current := a.merchant.LoadSettings(ctx, sess.MerchantID)
	saved, err := a.merchant.SaveSettings(ctx, current, &gateway.LogoFile{Name: filepath.Base(args[0]), Data: data})
	if err != nil {
		return err
	}
	if saved.LogoURL == current.LogoURL {
		fmt.Fprintln(os.Stderr, "Logo upload failed, previous logo kept")
		return nil
	}
	fmt.Fprintf(os.Stderr, "Logo available at %s\n", saved.LogoURL)
	return nil
}

func (a *admin) clientService(ctx context.Context) (*dashboard.ClientService, func(), error) {
	sender, closeSender, err := openSender(ctx, a.deps.cfg.WhatsApp, a.deps.logger)
	if err != nil {
		return nil, nil, err
	}
	notifier := notify.NewWhatsApp(a.deps.gateway, sender, a.deps.cfg.WhatsApp.CountryCode, a.deps.logger, a.deps.metrics)
	return dashboard.NewClientService(a.deps.gateway, notifier, a.deps.logger), closeSender, nil
}

func (a *admin) clientSession(ctx context.Context) (session.ClientPrincipal, error) {
	sess, err := a.auth.Require(ctx, session.RoleClient)
	if err != nil {
		return session.ClientPrincipal{}, err
	}
	p, ok := sess.Principal.(session.ClientPrincipal)
	if !ok {
		return session.ClientPrincipal{}, auth.ErrForbidden
	}
	return p, nil
}

func (a *admin) catalog(ctx context.Context) error {
	p, err := a.clientSession(ctx)
	if err != nil {
		return err
	}
	svc := dashboard.NewClientService(a.deps.gateway, nil, a.deps.logger)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "PRODUCT ID\tNAME\tPRICE")
	for _, item := range svc.Catalog(ctx, p) {
		price := "-"
		if item.PriceVisible {
			price = item.Product.Price.StringFixed(2)
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\n", item.Product.ID, item.Product.Name, price)
	}
	return w.Flush()
}

func (a *admin) order(ctx context.Context, args []string) error {
	p, err := a.clientSession(ctx)
	if err != nil {
		return err
	}
	if len(args) == 0 {
		return errors.New("usage: order <product-id>=<qty> ...")
	}
	var cart dashboard.Cart
	for _, arg := range args {
		id, qty, ok := strings.Cut(arg, "=")
		if !ok {
			id, qty = arg, "1"
		}
		n, err := strconv.Atoi(qty)
		if err != nil {
			return fmt.Errorf("parse quantity for %s: %w", id, err)
		}
		cart.Add(id, n)
	}

	svc, closeSender, err := a.clientService(ctx)
	if err != nil {
		return err
	}
	defer closeSender()

	placed := svc.Checkout(ctx, p, &cart)
	for _, o := range placed {
		fmt.Fprintf(os.Stderr, "Order %s placed: %s x%d\n", o.ID, o.ProductID, o.Quantity)
	}
	for _, line := range cart.Lines() {
		fmt.Fprintf(os.Stderr, "Not ordered: %s x%d\n", line.ProductID, line.Quantity)
	}
	if len(placed) == 0 {
		return errors.New("no order was placed")
	}
	return nil
}

func printSession(sess *session.Data) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintf(w, "ROLE\t%s\n", sess.Principal.Role())
	switch p := sess.Principal.(type) {
	case session.MerchantPrincipal:
		_, _ = fmt.Fprintf(w, "MERCHANT\t%s (%s)\n", p.Merchant.MerchantID, p.Merchant.Name)
	case session.ClientPrincipal:
		_, _ = fmt.Fprintf(w, "CLIENT\t%s (%s)\n", p.Client.ClientID, p.Client.Name)
	}
	_, _ = fmt.Fprintf(w, "TENANT\t%s\nSINCE\t%s\n", sess.MerchantID, sess.Timestamp.Format("2006-01-02 15:04:05"))
	_ = w.Flush()
}

func passwordOrPrompt(flagValue string, confirm bool) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	pw, err := promptPassword("Password: ")
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	if confirm {
		again, err := promptPassword("Confirm password: ")
		if err != nil {
			return "", fmt.Errorf("read password: %w", err)
		}
		if pw != again {
			return "", errors.New("passwords do not match")
		}
	}
	return pw, nil
}

// promptPassword reads a password from the terminal without echoing.
func promptPassword(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)
	b, err := term.ReadPassword(int(syscall.Stdin)) //nolint:unconvert // int conversion needed on some platforms
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
