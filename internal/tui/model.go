// Package tui implements the FoodVerse terminal dashboard.
package tui

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/huh"
	"github.com/rs/zerolog"

	"github.com/foodverse/foodverse/internal/core/api"
	"github.com/foodverse/foodverse/internal/core/auth"
	"github.com/foodverse/foodverse/internal/core/config"
	"github.com/foodverse/foodverse/internal/core/logging"
	"github.com/foodverse/foodverse/internal/core/notify"
	"github.com/foodverse/foodverse/internal/core/styles"
)

// Options wires the dashboard to the application services.
type Options struct {
	Auth      *auth.Service
	API       DashboardAPI
	Center    *notify.Center
	Dashboard config.DashboardConfig
	MaxToasts int
	Logger    zerolog.Logger
}

type (
	// changedMsg is sent after the notification center or the auth state
	// changed. Bursts collapse into one message.
	changedMsg struct{}

	itemsLoadedMsg struct {
		gen    int
		items  []item
		seller *api.SellerRequest
		err    error
	}

	storeBagsMsg struct {
		gen     int
		storeID int64
		bags    []api.FoodBag
		orders  []api.Order
		err     error
	}

	orderPlacedMsg struct {
		title string
		order api.Order
		err   error
	}
)

// Model is the Bubble Tea model of the dashboard: a login form while signed
// out, a role specific list with a detail pane while signed in, and the toast
// stack drawn over both.
type Model struct {
	auth   *auth.Service
	api    DashboardAPI
	center *notify.Center
	loc    config.DashboardConfig
	logger zerolog.Logger

	changes chan struct{}
	unsubs  []func()

	toasts  *ToastView
	keys    keyMap
	help    help.Model
	spinner spinner.Model

	creds     *credentials
	form      *huh.Form
	signingIn bool

	authed   bool
	user     auth.User
	sections []section
	section  int
	seller   *api.SellerRequest
	items    []item
	selected int
	loading  bool
	loadGen  int
	ordering bool
	detail   string

	width  int
	height int
}

// New creates the dashboard model and subscribes it to the center and the
// auth service. Call Close once the program exits.
func New(opts Options) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = styles.AppTitleStyle

	changes := make(chan struct{}, 1)
	signal := func() {
		select {
		case changes <- struct{}{}:
		default:
		}
	}

	m := Model{
		auth:    opts.Auth,
		api:     opts.API,
		center:  opts.Center,
		loc:     opts.Dashboard,
		logger:  opts.Logger,
		changes: changes,
		toasts:  NewToastView(opts.Center, opts.MaxToasts),
		keys:    defaultKeyMap(),
		help:    help.New(),
		spinner: s,
		unsubs: []func(){
			opts.Center.Subscribe(func(notify.Event) { signal() }),
			opts.Auth.Subscribe(func(auth.State) { signal() }),
		},
	}

	if user, ok := opts.Auth.Current(); ok {
		m.authed = true
		m.user = user
		m.sections = sectionsFor(user.Role)
		m.loading = true
		m.loadGen = 1
	} else {
		m.resetLogin("")
	}

	return m
}

// Close removes the model's subscriptions.
func (m Model) Close() {
	for _, unsub := range m.unsubs {
		unsub()
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{waitForChange(m.changes)}
	if m.authed {
		cmds = append(cmds, m.spinner.Tick, m.fetchCmd(m.loadGen))
	} else {
		cmds = append(cmds, m.form.Init())
	}
	return tea.Batch(cmds...)
}

func waitForChange(ch <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return nil
		}
		return changedMsg{}
	}
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		m.refreshDetail()
		return m, nil

	case changedMsg:
		cmd := m.syncAuth(true)
		return m, tea.Batch(waitForChange(m.changes), cmd)

	case loginDoneMsg:
		return m.handleLoginDone(msg)

	case itemsLoadedMsg:
		return m.handleItemsLoaded(msg), nil

	case storeBagsMsg:
		return m.handleStoreBags(msg), nil

	case orderPlacedMsg:
		return m.handleOrderPlaced(msg)

	case spinner.TickMsg:
		if !m.loading && !m.signingIn {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.authed {
			return m.handleKey(msg)
		}
		// The login form consumes printable keys, so toasts are dismissed
		// with keys huh leaves alone.
		switch {
		case key.Matches(msg, m.keys.FormDismiss):
			m.dismissNewest()
			return m, nil
		case key.Matches(msg, m.keys.FormDismissAll):
			m.center.Clear()
			return m, nil
		}
	}

	if !m.authed {
		return m.updateForm(msg)
	}
	return m, nil
}

func (m Model) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.form == nil || m.signingIn {
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		m.signingIn = true
		email := strings.TrimSpace(m.creds.email)
		return m, tea.Batch(m.spinner.Tick, loginCmd(m.auth, email, m.creds.password))
	}
	return m, cmd
}

func (m Model) handleLoginDone(msg loginDoneMsg) (tea.Model, tea.Cmd) {
	m.signingIn = false

	if msg.err != nil {
		m.center.Add(notify.Notification{
			Category: notify.CategoryError,
			Title:    "Login Failed",
			Message:  msg.err.Error(),
		})
		m.resetLogin(msg.email)
		return m, m.form.Init()
	}

	m.center.Add(notify.Notification{
		Category: notify.CategorySuccess,
		Title:    "Welcome back!",
		Message:  fmt.Sprintf("Signed in as %s.", msg.name),
	})
	cmd := m.syncAuth(false)
	return m, cmd
}

// syncAuth reconciles the view with the auth service after its state moved
// underneath the model: a finished login starts loading, a session dropped by
// the API goes back to the login form.
func (m *Model) syncAuth(warnOnLoss bool) tea.Cmd {
	user, ok := m.auth.Current()
	switch {
	case ok && !m.authed:
		m.authed = true
		m.user = user
		m.sections = sectionsFor(user.Role)
		m.section = 0
		m.form = nil
		return m.startLoad()

	case !ok && m.authed && !m.auth.Loading():
		m.resetLogin("")
		if warnOnLoss {
			m.center.Add(notify.Notification{
				Category: notify.CategoryWarning,
				Title:    "Session expired",
				Message:  "Please log in again.",
			})
		}
		return m.form.Init()
	}
	return nil
}

// resetLogin drops dashboard state and shows a fresh login form. Responses of
// loads already in flight are ignored afterwards.
func (m *Model) resetLogin(email string) {
	m.authed = false
	m.user = auth.User{}
	m.sections = nil
	m.section = 0
	m.seller = nil
	m.items = nil
	m.selected = 0
	m.loading = false
	m.ordering = false
	m.loadGen++
	m.detail = ""
	m.signingIn = false
	m.creds = &credentials{email: email}
	m.form = newLoginForm(m.creds)
}

func (m *Model) startLoad() tea.Cmd {
	if !m.authed {
		return nil
	}
	m.loadGen++
	m.loading = true
	return tea.Batch(m.spinner.Tick, m.fetchCmd(m.loadGen))
}

func (m Model) userContext() context.Context {
	return logging.WithUserID(context.Background(), m.user.ID)
}

func (m Model) currentSection() section {
	if m.section < 0 || m.section >= len(m.sections) {
		return sectionsFor(m.user.Role)[0]
	}
	return m.sections[m.section]
}

func (m Model) fetchCmd(gen int) tea.Cmd {
	ctx := m.userContext()
	client, sec, loc, logger := m.api, m.currentSection(), m.loc, m.logger
	withSeller := m.user.Role == auth.RoleConsumer

	return func() tea.Msg {
		items, err := fetchItems(ctx, client, sec, loc)
		if err != nil {
			logger.Error().Ctx(ctx).Err(err).Msg("dashboard load failed")
			return itemsLoadedMsg{gen: gen, err: err}
		}

		msg := itemsLoadedMsg{gen: gen, items: items}
		if withSeller {
			seller, err := fetchSellerStatus(ctx, client)
			if err != nil {
				logger.Warn().Ctx(ctx).Err(err).Msg("seller status unavailable")
			}
			msg.seller = seller
		}
		return msg
	}
}

func (m Model) handleItemsLoaded(msg itemsLoadedMsg) Model {
	if msg.gen != m.loadGen {
		return m
	}
	m.loading = false

	if msg.err != nil {
		if !isUnauthorized(msg.err) {
			m.center.Add(notify.Notification{
				Category: notify.CategoryError,
				Title:    "Could not load dashboard",
				Message:  errorMessage(msg.err),
			})
		}
		return m
	}

	m.items = msg.items
	m.seller = msg.seller
	m.selected = min(m.selected, max(len(m.items)-1, 0))
	m.refreshDetail()
	return m
}

func (m Model) openStore() tea.Cmd {
	it, ok := m.current()
	if !ok || it.kind != kindStore {
		return nil
	}

	ctx := m.userContext()
	client, gen, id := m.api, m.loadGen, it.id
	owned := m.currentSection() == sectionOwnedStores
	return func() tea.Msg {
		bags, err := client.FoodBagsByStore(ctx, id)
		if err != nil || !owned {
			return storeBagsMsg{gen: gen, storeID: id, bags: bags, err: err}
		}
		orders, err := client.StoreOrders(ctx, id)
		return storeBagsMsg{gen: gen, storeID: id, bags: bags, orders: orders, err: err}
	}
}

func (m Model) handleStoreBags(msg storeBagsMsg) Model {
	if msg.gen != m.loadGen {
		return m
	}
	if msg.err != nil {
		if !isUnauthorized(msg.err) {
			m.center.Add(notify.Notification{
				Category: notify.CategoryError,
				Title:    "Could not load food bags",
				Message:  errorMessage(msg.err),
			})
		}
		return m
	}

	detail := storeDetail{
		owned:  m.currentSection() == sectionOwnedStores,
		loaded: true,
		bags:   msg.bags,
		orders: msg.orders,
	}
	items := make([]item, len(m.items))
	copy(items, m.items)
	for i, it := range items {
		if it.kind == kindStore && it.id == msg.storeID && it.store != nil {
			items[i].markdown = storeMarkdown(*it.store, detail)
		}
	}
	m.items = items
	m.refreshDetail()
	return m
}

// placeOrder reserves one bag of the selected food bag.
func (m Model) placeOrder() (tea.Model, tea.Cmd) {
	it, ok := m.current()
	if !ok || it.kind != kindFoodBag || it.bag == nil || m.ordering {
		return m, nil
	}
	if it.bag.QuantityLeft <= 0 {
		m.center.Add(notify.Notification{
			Category: notify.CategoryWarning,
			Title:    "Sold out",
			Message:  fmt.Sprintf("No %s left.", it.title),
		})
		return m, nil
	}

	m.ordering = true
	ctx := m.userContext()
	client, title, id, logger := m.api, it.title, it.id, m.logger
	return m, func() tea.Msg {
		order, err := client.CreateOrder(ctx, api.OrderInput{FoodBagID: id, Quantity: 1})
		if err != nil {
			logger.Error().Ctx(ctx).Err(err).Int64("food_bag_id", id).Msg("order failed")
		}
		return orderPlacedMsg{title: title, order: order, err: err}
	}
}

func (m Model) handleOrderPlaced(msg orderPlacedMsg) (tea.Model, tea.Cmd) {
	m.ordering = false

	if msg.err != nil {
		if !isUnauthorized(msg.err) {
			m.center.Add(notify.Notification{
				Category: notify.CategoryError,
				Title:    "Order Failed",
				Message:  errorMessage(msg.err),
			})
		}
		return m, nil
	}

	m.center.Add(notify.Notification{
		Category: notify.CategorySuccess,
		Title:    "Order placed",
		Message:  fmt.Sprintf("%s, pickup code %s.", msg.title, msg.order.PickupCode),
	})
	cmd := m.startLoad()
	return m, cmd
}

// nextSection switches to the role's next list and loads it.
func (m Model) nextSection() (tea.Model, tea.Cmd) {
	if len(m.sections) < 2 {
		return m, nil
	}
	m.section = (m.section + 1) % len(m.sections)
	m.items = nil
	m.selected = 0
	m.detail = ""
	cmd := m.startLoad()
	return m, cmd
}

func (m *Model) dismissNewest() {
	if visible, _ := m.toasts.Visible(); len(visible) > 0 {
		m.center.Remove(visible[len(visible)-1].ID)
	}
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll

	case key.Matches(msg, m.keys.Up):
		if m.selected > 0 {
			m.selected--
			m.refreshDetail()
		}

	case key.Matches(msg, m.keys.Down):
		if m.selected < len(m.items)-1 {
			m.selected++
			m.refreshDetail()
		}

	case key.Matches(msg, m.keys.Open):
		it, ok := m.current()
		if ok && it.kind == kindFoodBag {
			return m.placeOrder()
		}
		return m, m.openStore()

	case key.Matches(msg, m.keys.NextSection):
		return m.nextSection()

	case key.Matches(msg, m.keys.Reload):
		cmd := m.startLoad()
		return m, cmd

	case key.Matches(msg, m.keys.Logout):
		return m.logout()

	case key.Matches(msg, m.keys.Dismiss):
		m.dismissNewest()

	case key.Matches(msg, m.keys.DismissAll):
		m.center.Clear()

	case key.Matches(msg, m.keys.DismissNth):
		n := int(msg.String()[0] - '0')
		if t, ok := m.toasts.At(n); ok {
			m.center.Remove(t.ID)
		}
	}

	return m, nil
}

func (m Model) logout() (tea.Model, tea.Cmd) {
	if err := m.auth.Logout(m.userContext()); err != nil {
		m.logger.Error().Err(err).Msg("logout failed")
	}
	m.resetLogin("")
	m.center.Add(notify.Notification{Category: notify.CategoryInfo, Message: "Logged out"})
	return m, m.form.Init()
}

func (m Model) current() (item, bool) {
	if m.selected < 0 || m.selected >= len(m.items) {
		return item{}, false
	}
	return m.items[m.selected], true
}

func (m Model) listWidth() int {
	return max(m.width*2/5, 32)
}

func (m Model) detailWidth() int {
	return max(m.width-m.listWidth()-4, 24)
}

// refreshDetail renders the selected item's markdown for the current width.
func (m *Model) refreshDetail() {
	it, ok := m.current()
	if !ok || m.width == 0 {
		m.detail = ""
		return
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithStyles(styles.GlamourStyle()),
		glamour.WithWordWrap(m.detailWidth()-2),
	)
	if err != nil {
		m.detail = it.markdown
		return
	}
	out, err := r.Render(it.markdown)
	if err != nil {
		m.detail = it.markdown
		return
	}
	m.detail = strings.Trim(out, "\n")
}

func isUnauthorized(err error) bool {
	var apiErr *api.Error
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnauthorized
}

// errorMessage prefers the server's message over the wrapped chain.
func errorMessage(err error) string {
	var apiErr *api.Error
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return err.Error()
}
