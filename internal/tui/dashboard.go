package tui

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/foodverse/foodverse/internal/core/api"
	"github.com/foodverse/foodverse/internal/core/auth"
	"github.com/foodverse/foodverse/internal/core/config"
	"github.com/foodverse/foodverse/internal/core/styles"
)

// DashboardAPI is the part of the REST client the dashboard talks to.
type DashboardAPI interface {
	SearchFoodBags(ctx context.Context, q api.FoodBagSearch) ([]api.FoodBag, error)
	SearchStores(ctx context.Context, q api.StoreSearch) ([]api.Store, error)
	OwnedStores(ctx context.Context) ([]api.Store, error)
	FoodBagsByStore(ctx context.Context, storeID int64) ([]api.FoodBag, error)
	SellerRequests(ctx context.Context, q api.SellerRequestQuery) (api.SellerRequestPage, error)
	MySellerRequest(ctx context.Context) (api.SellerRequest, error)
	MyOrders(ctx context.Context) ([]api.Order, error)
	StoreOrders(ctx context.Context, storeID int64) ([]api.Order, error)
	CreateOrder(ctx context.Context, in api.OrderInput) (api.Order, error)
}

var _ DashboardAPI = (*api.Client)(nil)

type itemKind int

const (
	kindFoodBag itemKind = iota
	kindStore
	kindSellerRequest
	kindOrder
)

// item is one row of the dashboard list.
type item struct {
	id       int64
	kind     itemKind
	title    string
	meta     string
	markdown string
	store    *api.Store
	bag      *api.FoodBag
}

// section is one list the dashboard can show.
type section int

const (
	sectionFoodBags section = iota
	sectionNearbyStores
	sectionMyOrders
	sectionOwnedStores
	sectionSellerRequests
)

// pendingRequestLimit caps the admin queue fetched per load.
const pendingRequestLimit = 20

// sectionsFor lists the sections of a role in the order tab cycles them.
func sectionsFor(role auth.Role) []section {
	switch {
	case role == auth.RoleAdmin:
		return []section{sectionSellerRequests}
	case role.SellsFood():
		return []section{sectionOwnedStores}
	default:
		return []section{sectionFoodBags, sectionNearbyStores, sectionMyOrders}
	}
}

func (s section) title() string {
	switch s {
	case sectionSellerRequests:
		return styles.IconRequest + " Pending seller requests"
	case sectionOwnedStores:
		return styles.IconStore + " Your stores"
	case sectionNearbyStores:
		return styles.IconPin + " Stores near you"
	case sectionMyOrders:
		return styles.IconOrder + " Your orders"
	default:
		return styles.IconBag + " Food bags near you"
	}
}

func fetchItems(ctx context.Context, client DashboardAPI, sec section, loc config.DashboardConfig) ([]item, error) {
	switch sec {
	case sectionSellerRequests:
		page, err := client.SellerRequests(ctx, api.SellerRequestQuery{
			Status: api.SellerRequestPending,
			Limit:  pendingRequestLimit,
		})
		if err != nil {
			return nil, fmt.Errorf("load seller requests: %w", err)
		}
		items := make([]item, 0, len(page.Requests))
		for _, r := range page.Requests {
			items = append(items, sellerRequestItem(r))
		}
		return items, nil

	case sectionOwnedStores:
		stores, err := client.OwnedStores(ctx)
		if err != nil {
			return nil, fmt.Errorf("load stores: %w", err)
		}
		items := make([]item, 0, len(stores))
		for _, s := range stores {
			items = append(items, storeItem(s, true))
		}
		return items, nil

	case sectionNearbyStores:
		stores, err := client.SearchStores(ctx, api.StoreSearch{
			Latitude:  loc.Latitude,
			Longitude: loc.Longitude,
			Radius:    loc.RadiusKM,
		})
		if err != nil {
			return nil, fmt.Errorf("load stores: %w", err)
		}
		items := make([]item, 0, len(stores))
		for _, s := range stores {
			items = append(items, storeItem(s, false))
		}
		return items, nil

	case sectionMyOrders:
		orders, err := client.MyOrders(ctx)
		if err != nil {
			return nil, fmt.Errorf("load orders: %w", err)
		}
		items := make([]item, 0, len(orders))
		for _, o := range orders {
			items = append(items, orderItem(o))
		}
		return items, nil

	default:
		bags, err := client.SearchFoodBags(ctx, api.FoodBagSearch{
			Latitude:  loc.Latitude,
			Longitude: loc.Longitude,
			Radius:    loc.RadiusKM,
		})
		if err != nil {
			return nil, fmt.Errorf("load food bags: %w", err)
		}
		items := make([]item, 0, len(bags))
		for _, b := range bags {
			items = append(items, foodBagItem(b))
		}
		return items, nil
	}
}

// fetchSellerStatus returns the user's seller application, or nil when
// they never applied.
func fetchSellerStatus(ctx context.Context, client DashboardAPI) (*api.SellerRequest, error) {
	req, err := client.MySellerRequest(ctx)
	var apiErr *api.Error
	switch {
	case errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound:
		return nil, nil
	case err != nil:
		return nil, fmt.Errorf("load seller request: %w", err)
	}
	return &req, nil
}

func foodBagItem(b api.FoodBag) item {
	meta := styles.PriceStyle.Render(price(b.DiscountedPrice)) + " " +
		styles.OldPriceStyle.Render(price(b.OriginalPrice))
	if b.DiscountPercent > 0 {
		meta += " " + styles.DiscountStyle.Render(fmt.Sprintf("-%.0f%%", b.DiscountPercent))
	}
	if b.Store.Name != "" {
		meta += styles.MutedStyle.Render(" · " + b.Store.Name)
	}

	return item{
		id:       b.ID,
		kind:     kindFoodBag,
		title:    b.Title,
		meta:     meta,
		markdown: foodBagMarkdown(b),
		bag:      &b,
	}
}

func foodBagMarkdown(b api.FoodBag) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "## %s\n\n", b.Title)
	if b.Description != "" {
		fmt.Fprintf(&sb, "%s\n\n", b.Description)
	}
	fmt.Fprintf(&sb, "- **Price:** %s ~~%s~~\n", price(b.DiscountedPrice), price(b.OriginalPrice))
	fmt.Fprintf(&sb, "- **Left:** %d\n", b.QuantityLeft)
	if !b.PickupStart.IsZero() {
		fmt.Fprintf(&sb, "- **Pickup:** %s – %s\n", b.PickupStart.Format("Jan 2 15:04"), b.PickupEnd.Format("15:04"))
	}
	if b.Store.Name != "" {
		fmt.Fprintf(&sb, "- **Store:** %s", b.Store.Name)
		if b.Store.Distance > 0 {
			fmt.Fprintf(&sb, " (%.1f km)", b.Store.Distance)
		}
		sb.WriteString("\n")
	}
	if b.Category != "" {
		fmt.Fprintf(&sb, "- **Category:** %s\n", b.Category)
	}
	if b.QuantityLeft > 0 {
		sb.WriteString("\n_Press enter to order one._\n")
	}
	return sb.String()
}

func storeItem(s api.Store, owned bool) item {
	meta := styles.MutedStyle.Render(s.Category)
	if s.Rating > 0 {
		meta += styles.MutedStyle.Render(fmt.Sprintf(" · ★ %.1f", s.Rating))
	}
	if s.Distance > 0 {
		meta += styles.MutedStyle.Render(fmt.Sprintf(" · %.1f km", s.Distance))
	}
	return item{
		id:       s.ID,
		kind:     kindStore,
		title:    s.Name,
		meta:     meta,
		markdown: storeMarkdown(s, storeDetail{owned: owned}),
		store:    &s,
	}
}

// storeDetail is what was fetched for a store after it was opened. Orders
// are only listed for stores the user owns.
type storeDetail struct {
	owned  bool
	loaded bool
	bags   []api.FoodBag
	orders []api.Order
}

func storeMarkdown(s api.Store, d storeDetail) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "## %s\n\n", s.Name)
	if s.Description != "" {
		fmt.Fprintf(&sb, "%s\n\n", s.Description)
	}
	if s.Address != "" {
		fmt.Fprintf(&sb, "- **Address:** %s\n", s.Address)
	}
	if s.Phone != "" {
		fmt.Fprintf(&sb, "- **Phone:** %s\n", s.Phone)
	}

	sb.WriteString("\n### Food bags\n\n")
	switch {
	case !d.loaded:
		sb.WriteString("_Press enter to load._\n")
	case len(d.bags) == 0:
		sb.WriteString("_No food bags listed._\n")
	default:
		for _, b := range d.bags {
			fmt.Fprintf(&sb, "- %s: %s (%d left)\n", b.Title, price(b.DiscountedPrice), b.QuantityLeft)
		}
	}

	if !d.owned || !d.loaded {
		return sb.String()
	}

	sb.WriteString("\n### Orders\n\n")
	if len(d.orders) == 0 {
		sb.WriteString("_No orders yet._\n")
		return sb.String()
	}
	for _, o := range d.orders {
		fmt.Fprintf(&sb, "- `%s` %s × %d, %s (%s)\n", o.PickupCode, orderBagTitle(o), o.Quantity, price(o.TotalPrice), o.Status)
	}
	return sb.String()
}

func orderItem(o api.Order) item {
	meta := styles.PriceStyle.Render(price(o.TotalPrice)) + " " + orderStatusStyle(o.Status).Render(string(o.Status))
	if o.Store != nil && o.Store.Name != "" {
		meta += styles.MutedStyle.Render(" · " + o.Store.Name)
	}
	return item{
		id:       o.ID,
		kind:     kindOrder,
		title:    fmt.Sprintf("%s × %d", orderBagTitle(o), o.Quantity),
		meta:     meta,
		markdown: orderMarkdown(o),
	}
}

func orderStatusStyle(s api.OrderStatus) lipgloss.Style {
	switch s {
	case api.OrderCompleted:
		return styles.PriceStyle
	case api.OrderCancelled:
		return styles.ErrorTextStyle
	default:
		return styles.StatusPendingStyle
	}
}

func orderBagTitle(o api.Order) string {
	if o.FoodBag != nil && o.FoodBag.Title != "" {
		return o.FoodBag.Title
	}
	return fmt.Sprintf("Food bag #%d", o.FoodBagID)
}

func orderMarkdown(o api.Order) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "## Order #%d\n\n", o.ID)
	fmt.Fprintf(&sb, "- **Bag:** %s × %d\n", orderBagTitle(o), o.Quantity)
	fmt.Fprintf(&sb, "- **Total:** %s\n", price(o.TotalPrice))
	fmt.Fprintf(&sb, "- **Status:** %s\n", o.Status)
	if o.Store != nil && o.Store.Name != "" {
		fmt.Fprintf(&sb, "- **Store:** %s\n", o.Store.Name)
	}
	if o.FoodBag != nil && !o.FoodBag.PickupStart.IsZero() {
		fmt.Fprintf(&sb, "- **Pickup:** %s – %s\n", o.FoodBag.PickupStart.Format("Jan 2 15:04"), o.FoodBag.PickupEnd.Format("15:04"))
	}
	if o.PickedUpAt != nil {
		fmt.Fprintf(&sb, "- **Picked up:** %s\n", o.PickedUpAt.Format("Jan 2 15:04"))
	}
	if o.Notes != "" {
		fmt.Fprintf(&sb, "\n> %s\n", o.Notes)
	}
	if o.Status != api.OrderCompleted && o.Status != api.OrderCancelled {
		fmt.Fprintf(&sb, "\nShow **%s** at the store to collect your order.\n", o.PickupCode)
	}
	return sb.String()
}

func sellerStatusLabel(r *api.SellerRequest) string {
	if r == nil {
		return ""
	}
	return "seller application: " + string(r.Status)
}

func sellerRequestItem(r api.SellerRequest) item {
	return item{
		id:       r.ID,
		kind:     kindSellerRequest,
		title:    r.User.Name,
		meta:     styles.StatusPendingStyle.Render(string(r.Status)) + styles.MutedStyle.Render(" · "+r.User.Email),
		markdown: sellerRequestMarkdown(r),
	}
}

func sellerRequestMarkdown(r api.SellerRequest) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "## Request #%d\n\n", r.ID)
	fmt.Fprintf(&sb, "- **Applicant:** %s <%s>\n", r.User.Name, r.User.Email)
	fmt.Fprintf(&sb, "- **Location:** %s\n", r.Location)
	fmt.Fprintf(&sb, "- **Submitted:** %s\n\n", r.CreatedAt.Format("Jan 2, 2006"))
	if r.Reason != "" {
		fmt.Fprintf(&sb, "> %s\n", r.Reason)
	}
	return sb.String()
}

func price(v float64) string {
	return fmt.Sprintf("$%.2f", v)
}
