package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"salonova/backend"
	"salonova/config"
	"salonova/mockapi"
	"salonova/models"
	"salonova/notify"
	"salonova/session"
	"salonova/stores"
	"salonova/utils"
)

const usage = `Usage: salonova <command> [flags]

Commands:
  serve-mock   run the in-memory mock backend
  list         fetch one page of a resource (categories|services|packages|users|workstations|payments|audits|appointments|mine)
  book         book an appointment through the multi-step wizard
  rearrange    check availability and reschedule an appointment
`

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()
	defer logger.Sync()

	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	var err error
	switch os.Args[1] {
	case "serve-mock":
		err = runServeMock()
	case "list":
		err = runList(os.Args[2:])
	case "book":
		err = runBook(os.Args[2:])
	case "rearrange":
		err = runRearrange(os.Args[2:])
	default:
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
	if err != nil {
		logger.Error("Command failed", zap.String("command", os.Args[1]), zap.Error(err))
		os.Exit(1)
	}
}

func runServeMock() error {
	secret := config.AppConfig.JWTSecret
	if secret == "" {
		secret = "salonova-dev-secret"
	}
	server := mockapi.NewServer(secret)
	addr := ":" + config.AppConfig.MockAPIPort
	utils.GetLogger().Info("Mock backend listening", zap.String("addr", addr))
	return server.Router().Run(addr)
}

// app is the wired store layer a real front end would hold for its whole
// lifetime; each CLI invocation builds a short-lived one.
type app struct {
	session *session.Store
	client  *backend.Client
	notices <-chan notify.Notice
	hub     *notify.Hub
}

func newApp() *app {
	hub := notify.NewHub()
	notices := hub.Subscribe()
	sess := session.NewStore(hub)
	client := backend.NewClient(config.AppConfig.BackendURL, sess, sess.Expire,
		backend.WithRateLimit(config.AppConfig.MaxRequestsPerMin))
	return &app{session: sess, client: client, notices: notices, hub: hub}
}

func (a *app) login(ctx context.Context, email, password string) error {
	token, err := a.client.Login(ctx, email, password)
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}
	a.session.SetToken(token)
	return nil
}

// drainNotices prints whatever the stores surfaced, toast-style.
func (a *app) drainNotices() {
	for {
		select {
		case n := <-a.notices:
			fmt.Printf("[%s] %s\n", n.Level, n.Message)
		default:
			return
		}
	}
}

func authFlags(fs *flag.FlagSet) (email, password *string) {
	email = fs.String("email", mockapi.SeedAdminEmail, "login email")
	password = fs.String("password", mockapi.SeedAdminPassword, "login password")
	return
}

func runList(args []string) error {
	fs := flag.NewFlagSet("list", flag.ExitOnError)
	email, password := authFlags(fs)
	page := fs.Int("page", 1, "page to fetch")
	orderBy := fs.String("order-by", "", "sort field")
	orderType := fs.String("order-type", backend.OrderAsc, "ASC or DESC")
	filter := fs.String("filter", "", "free-text filter")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		return fmt.Errorf("list: missing resource name")
	}
	resource := fs.Arg(0)

	a := newApp()
	ctx := context.Background()
	if err := a.login(ctx, *email, *password); err != nil {
		return err
	}
	defer a.drainNotices()

	switch resource {
	case "categories":
		return listPage(ctx, stores.NewCategoryStore(a.client, a.hub), *page, *orderBy, *orderType, *filter,
			func(c models.Category) string { return c.Name + "\t" + c.Description })
	case "services":
		return listPage(ctx, stores.NewServiceStore(a.client, a.hub), *page, *orderBy, *orderType, *filter,
			func(s models.Service) string { return fmt.Sprintf("%s\t$%.0f\t%d min", s.Name, s.Price, s.Duration) })
	case "packages":
		return listPage(ctx, stores.NewPackageStore(a.client, a.hub), *page, *orderBy, *orderType, *filter,
			func(p models.Package) string {
				kind := "paquete"
				if p.IsSingleService() {
					kind = "servicio"
				}
				return fmt.Sprintf("%s\t%s\t$%.0f\t%d min", p.Name, kind, p.Price, p.Duration)
			})
	case "users":
		return listPage(ctx, stores.NewUserStore(a.client, a.hub), *page, *orderBy, *orderType, *filter,
			func(u models.User) string { return u.FullName() + "\t" + u.Email })
	case "workstations":
		return listPage(ctx, stores.NewWorkstationStore(a.client, a.hub), *page, *orderBy, *orderType, *filter,
			func(w models.Workstation) string { return w.Name + "\t" + w.State })
	case "payments":
		return listPage(ctx, stores.NewPaymentStore(a.client, a.hub), *page, *orderBy, *orderType, *filter,
			func(p models.Payment) string { return fmt.Sprintf("%s\t$%.0f\t%s", p.Method, p.Amount, p.Status) })
	case "audits":
		return listPage(ctx, stores.NewAuditStore(a.client, a.hub), *page, *orderBy, *orderType, *filter,
			func(r models.AuditRecord) string {
				return fmt.Sprintf("%s\t%s\t%s", r.Datetime.Format("2006-01-02 15:04"), r.Action, r.Description)
			})
	case "appointments":
		return listPage(ctx, stores.NewAppointmentStore(a.client, a.hub).EntityStore, *page, *orderBy, *orderType, *filter, appointmentRow)
	case "mine":
		return listPage(ctx, stores.NewMyDatesStore(a.client, a.hub), *page, *orderBy, *orderType, *filter, appointmentRow)
	}
	return fmt.Errorf("list: unknown resource %q", resource)
}

func appointmentRow(ap models.Appointment) string {
	pkg := ""
	if ap.Package != nil {
		pkg = ap.Package.Name
	}
	return fmt.Sprintf("%s\t%s\t%s\tpendiente $%.0f",
		ap.DatetimeStart.Format("2006-01-02 15:04"), pkg, ap.State, ap.PendingPayment)
}

func listPage[T any](ctx context.Context, st *stores.EntityStore[T], page int, orderBy, orderType, filter string, row func(T) string) error {
	if orderBy != "" {
		st.SetOrderBy(ctx, orderBy)
		st.SetOrderType(ctx, strings.ToUpper(orderType))
	}
	if filter != "" {
		st.SetFilter(ctx, filter)
	}
	if err := st.Fetch(ctx, page); err != nil {
		return err
	}

	state := st.State()
	for _, item := range state.Items {
		fmt.Println(row(item))
	}
	var bar []string
	for _, link := range st.PageLinks() {
		switch {
		case link.Ellipsis:
			bar = append(bar, "…")
		case link.Current:
			bar = append(bar, fmt.Sprintf("[%d]", link.Page))
		default:
			bar = append(bar, fmt.Sprintf("%d", link.Page))
		}
	}
	fmt.Printf("total %d, páginas: %s\n", state.Total, strings.Join(bar, " "))
	return nil
}

func runBook(args []string) error {
	fs := flag.NewFlagSet("book", flag.ExitOnError)
	email, password := authFlags(fs)
	date := fs.String("date", "", "appointment date (YYYY-MM-DD)")
	at := fs.String("time", "", "appointment time (HH:MM)")
	packageID := fs.String("package", "", "package id")
	if err := fs.Parse(args); err != nil {
		return err
	}

	a := newApp()
	ctx := context.Background()
	if err := a.login(ctx, *email, *password); err != nil {
		return err
	}
	defer a.drainNotices()

	wizard := stores.NewWizardStore(a.client, a.hub)
	day, err := time.Parse("2006-01-02", *date)
	if err != nil {
		return fmt.Errorf("invalid -date: %w", err)
	}
	wizard.Update(stores.StepData{Date: day})
	wizard.SetStep(stores.StepTime)
	wizard.Update(stores.StepData{Time: *at})
	wizard.SetStep(stores.StepPackage)
	wizard.Update(stores.StepData{PackageID: *packageID})

	for step := stores.StepDate; step <= stores.StepPackage; step++ {
		if !wizard.StepValid(step) {
			return fmt.Errorf("step %d is incomplete", step)
		}
	}
	return wizard.Submit(ctx)
}

func runRearrange(args []string) error {
	fs := flag.NewFlagSet("rearrange", flag.ExitOnError)
	email, password := authFlags(fs)
	appointmentID := fs.String("appointment", "", "appointment id")
	packageID := fs.String("package", "", "package id")
	datetime := fs.String("datetime", "", "new start (RFC 3339)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	a := newApp()
	ctx := context.Background()
	if err := a.login(ctx, *email, *password); err != nil {
		return err
	}
	defer a.drainNotices()

	when, err := time.Parse(time.RFC3339, *datetime)
	if err != nil {
		return fmt.Errorf("invalid -datetime: %w", err)
	}

	st := stores.NewRearrangeStore(a.client, a.hub)
	st.SetAppointment(*appointmentID)
	st.OpenDialog()
	defer st.CloseDialog()

	if err := st.CheckAvailability(ctx, *packageID, when); err != nil {
		return err
	}
	if !st.CanCommit() {
		fmt.Println("El horario solicitado no está disponible")
		return nil
	}
	return st.Commit(ctx, stores.RearrangeInput{DatetimeStart: when, PackageID: *packageID})
}
