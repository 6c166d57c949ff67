package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/foodverse/foodverse/internal/core/api"
	"github.com/foodverse/foodverse/internal/core/notify"
	"github.com/foodverse/foodverse/internal/foodverse"
	"github.com/foodverse/foodverse/internal/printer"
	"github.com/foodverse/foodverse/pkg/iojson"
)

type OrdersCmd struct {
	flags *Flags
	app   *foodverse.App

	format  string
	storeID int64

	// place flags
	quantity int
	notes    string
}

// NewOrdersCmd creates a new orders command.
func NewOrdersCmd(flags *Flags, app *foodverse.App) *OrdersCmd {
	return &OrdersCmd{flags: flags, app: app}
}

// Register adds the orders command to the application.
func (cmd *OrdersCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:  "orders",
		Usage: "Place, list and hand out food bag orders",
		Commands: []*cli.Command{
			cmd.listCmd(),
			cmd.placeCmd(),
			cmd.verifyCmd(),
		},
	})

	return app
}

func (cmd *OrdersCmd) listCmd() *cli.Command {
	return &cli.Command{
		Name:      "list",
		Usage:     "List your orders, or the orders of one of your stores",
		UsageText: "foodverse orders list [--store <id>] [--format json]",
		Flags: []cli.Flag{
			formatFlag(&cmd.format),
			&cli.Int64Flag{
				Name:        "store",
				Aliases:     []string{"s"},
				Usage:       "list the orders placed at this store (store owners only)",
				Destination: &cmd.storeID,
			},
		},
		Action: cmd.runList,
	}
}

func (cmd *OrdersCmd) placeCmd() *cli.Command {
	return &cli.Command{
		Name:      "place",
		Usage:     "Reserve bags from a food bag listing",
		UsageText: "foodverse orders place [--quantity 1] [--notes <text>] <food-bag-id>",
		ArgsUsage: "<food-bag-id>",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:        "quantity",
				Aliases:     []string{"q"},
				Value:       1,
				Destination: &cmd.quantity,
				Validator: func(n int) error {
					if n < 1 {
						return errors.New("--quantity must be at least 1")
					}
					return nil
				},
			},
			&cli.StringFlag{
				Name:        "notes",
				Usage:       "message for the store",
				Destination: &cmd.notes,
			},
		},
		Action: cmd.runPlace,
	}
}

func (cmd *OrdersCmd) verifyCmd() *cli.Command {
	return &cli.Command{
		Name:      "verify",
		Usage:     "Complete the order a customer's pickup code belongs to",
		UsageText: "foodverse orders verify <pickup-code>",
		ArgsUsage: "<pickup-code>",
		Action:    cmd.runVerify,
	}
}

func (cmd *OrdersCmd) runList(ctx context.Context, c *cli.Command) error {
	if _, err := requireUser(cmd.app.Auth); err != nil {
		return err
	}

	var (
		orders []api.Order
		err    error
	)
	if cmd.storeID > 0 {
		orders, err = cmd.app.API.StoreOrders(ctx, cmd.storeID)
	} else {
		orders, err = cmd.app.API.MyOrders(ctx)
	}
	if err != nil {
		return fmt.Errorf("list orders: %w", err)
	}

	if cmd.format == formatJSON {
		return iojson.WriteWith(c.Root().Writer, os.Stderr, orders)
	}

	p := printer.Ctx(ctx)
	if len(orders) == 0 {
		p.Infof("No orders yet")
		return nil
	}

	p.Section(fmt.Sprintf("Orders (%d)", len(orders)))
	for _, o := range orders {
		bag := fmt.Sprintf("food bag #%d", o.FoodBagID)
		if o.FoodBag != nil && o.FoodBag.Title != "" {
			bag = o.FoodBag.Title
		}
		p.Printf("#%d  %s  %s × %d  $%.2f  %s", o.ID, o.PickupCode, bag, o.Quantity, o.TotalPrice, o.Status)
	}
	return nil
}

func (cmd *OrdersCmd) runPlace(ctx context.Context, c *cli.Command) error {
	if _, err := requireUser(cmd.app.Auth); err != nil {
		return err
	}

	id, err := strconv.ParseInt(c.Args().First(), 10, 64)
	if err != nil || id <= 0 {
		return errors.New("a numeric food bag id is required: foodverse orders place <food-bag-id>")
	}

	order, err := cmd.app.API.CreateOrder(ctx, api.OrderInput{
		FoodBagID: id,
		Quantity:  cmd.quantity,
		Notes:     strings.TrimSpace(cmd.notes),
	})
	if err != nil {
		cmd.app.Center.Add(notify.Notification{
			Category: notify.CategoryError,
			Title:    "Order Failed",
			Message:  err.Error(),
		})
		return cli.Exit("", 1)
	}

	cmd.app.Center.Add(notify.Notification{
		Category: notify.CategorySuccess,
		Title:    "Order placed",
		Message:  fmt.Sprintf("Pickup code %s, total $%.2f.", order.PickupCode, order.TotalPrice),
	})
	return nil
}

func (cmd *OrdersCmd) runVerify(ctx context.Context, c *cli.Command) error {
	if _, err := requireUser(cmd.app.Auth); err != nil {
		return err
	}

	code := strings.TrimSpace(c.Args().First())
	if code == "" {
		return errors.New("a pickup code is required: foodverse orders verify <pickup-code>")
	}

	order, err := cmd.app.API.VerifyPickup(ctx, code)
	if err != nil {
		cmd.app.Center.Add(notify.Notification{
			Category: notify.CategoryError,
			Title:    "Pickup Failed",
			Message:  err.Error(),
		})
		return cli.Exit("", 1)
	}

	cmd.app.Center.Add(notify.Notification{
		Category: notify.CategorySuccess,
		Title:    "Order picked up",
		Message:  fmt.Sprintf("Order #%d is complete.", order.ID),
	})
	return nil
}
