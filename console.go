package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"storefront/application/storefront"
	"storefront/domain/order"
	"storefront/domain/shared"
	"storefront/domain/user"
)

const consoleHelp = `commands:
  products                      list visible products
  refresh                       reload the catalogue and store status
  search <text>                 filter by name ("search" alone clears)
  category <name|All>           filter by category
  price <min> [max]             filter by price
  sort <name|name-desc|price-low|price-high>
  reset                         clear all filters
  login <username> <password>
  register <username> <email> <password>
  logout
  cart                          show cart and totals
  add <productId> [qty]
  qty <productId> <qty>         set quantity, 0 removes
  remove <productId>
  clear
  wish <productId>              toggle wishlist
  wishlist
  discount <code>               apply a discount code ("discount" alone removes)
  shipping <id>
  payment <id>
  checkout [name;street;city;postal;country]
  orders
  help
  quit`

// console is a line-oriented view over the controller.
type console struct {
	ctrl *storefront.Controller
	in   *bufio.Scanner
	out  io.Writer
}

func newConsole(ctrl *storefront.Controller, in io.Reader, out io.Writer) *console {
	return &console{ctrl: ctrl, in: bufio.NewScanner(in), out: out}
}

func (c *console) Run(ctx context.Context) error {
	c.status()
	for {
		fmt.Fprint(c.out, "> ")
		if !c.in.Scan() {
			return c.in.Err()
		}
		if ctx.Err() != nil {
			return nil
		}
		line := strings.TrimSpace(c.in.Text())
		if line == "" {
			continue
		}
		name, rest, _ := strings.Cut(line, " ")
		if name == "quit" || name == "exit" {
			return nil
		}
		if err := c.dispatch(ctx, name, strings.TrimSpace(rest)); err != nil {
			c.fail(err)
		}
	}
}

func (c *console) dispatch(ctx context.Context, name, rest string) error {
	args := strings.Fields(rest)
	switch name {
	case "help":
		fmt.Fprintln(c.out, consoleHelp)
	case "products":
		c.products()
	case "refresh":
		if err := c.ctrl.RefreshProducts(ctx); err != nil {
			return err
		}
		c.status()
		c.products()
	case "search":
		c.ctrl.SetSearchQuery(rest)
		for _, s := range c.ctrl.Suggestions() {
			fmt.Fprintf(c.out, "  suggestion: %s\n", s.Name)
		}
		c.products()
	case "category":
		c.ctrl.SetCategory(rest)
		c.products()
	case "price":
		if len(args) == 0 {
			return usage("price <min> [max]")
		}
		lo, err := strconv.ParseFloat(args[0], 64)
		if err != nil {
			return usage("price <min> [max]")
		}
		var hi float64
		if len(args) > 1 {
			if hi, err = strconv.ParseFloat(args[1], 64); err != nil {
				return usage("price <min> [max]")
			}
		}
		if err := c.ctrl.SetPriceRange(lo, hi); err != nil {
			return err
		}
		c.products()
	case "sort":
		c.ctrl.SetSort(rest)
		c.products()
	case "reset":
		c.ctrl.ResetFilters()
		c.products()
	case "login":
		if len(args) != 2 {
			return usage("login <username> <password>")
		}
		u, err := c.ctrl.Login(ctx, args[0], args[1])
		if err != nil {
			return err
		}
		fmt.Fprintf(c.out, "Welcome back, %s.\n", displayName(u))
		c.status()
	case "register":
		if len(args) != 3 {
			return usage("register <username> <email> <password>")
		}
		u, err := c.ctrl.Register(ctx, user.Credentials{Username: args[0], Email: args[1], Password: args[2]})
		if err != nil {
			return err
		}
		fmt.Fprintf(c.out, "Welcome, %s.\n", displayName(u))
	case "logout":
		if err := c.ctrl.Logout(ctx); err != nil {
			return err
		}
		fmt.Fprintln(c.out, "Signed out.")
	case "cart":
		c.cart()
	case "add":
		if len(args) == 0 {
			return usage("add <productId> [qty]")
		}
		qty := 1
		if len(args) > 1 {
			n, err := strconv.Atoi(args[1])
			if err != nil {
				return usage("add <productId> [qty]")
			}
			qty = n
		}
		if err := c.ctrl.AddToCart(ctx, args[0], qty); err != nil {
			return err
		}
		c.cart()
	case "qty":
		if len(args) != 2 {
			return usage("qty <productId> <qty>")
		}
		n, err := strconv.Atoi(args[1])
		if err != nil {
			return usage("qty <productId> <qty>")
		}
		if err := c.ctrl.ChangeQuantity(ctx, args[0], n); err != nil {
			return err
		}
		c.cart()
	case "remove":
		if len(args) != 1 {
			return usage("remove <productId>")
		}
		if err := c.ctrl.RemoveFromCart(ctx, args[0]); err != nil {
			return err
		}
		c.cart()
	case "clear":
		if err := c.ctrl.ClearCart(ctx); err != nil {
			return err
		}
		c.cart()
	case "wish":
		if len(args) != 1 {
			return usage("wish <productId>")
		}
		action, err := c.ctrl.ToggleWishlist(ctx, args[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(c.out, "Wishlist: %s %s\n", action, args[0])
	case "wishlist":
		for _, e := range c.ctrl.Snapshot().Wishlist {
			fmt.Fprintf(c.out, "  %-6s %-28s %9.2f\n", e.ProductID, e.Name, e.Price)
		}
	case "discount":
		if rest == "" {
			c.ctrl.RemoveDiscount()
			c.cart()
			return nil
		}
		d, err := c.ctrl.ApplyDiscount(ctx, rest)
		if err != nil {
			return err
		}
		fmt.Fprintf(c.out, "Applied %s: %s\n", d.Code, d.Description)
		c.cart()
	case "shipping":
		if err := c.ctrl.SelectShipping(rest); err != nil {
			return err
		}
		c.cart()
	case "payment":
		if err := c.ctrl.SelectPayment(rest); err != nil {
			return err
		}
		c.cart()
	case "checkout":
		addr, err := parseAddress(rest)
		if err != nil {
			return err
		}
		receipt, err := c.ctrl.PlaceOrder(ctx, addr)
		if err != nil {
			return err
		}
		fmt.Fprintf(c.out, "Order %s placed: %.2f (%s)\n", receipt.OrderID, receipt.Total, receipt.Status)
	case "orders":
		orders, err := c.ctrl.LoadOrderHistory(ctx)
		if err != nil {
			return err
		}
		for _, o := range orders {
			fmt.Fprintf(c.out, "  %-12s %s %-10s %9.2f  %d item(s)\n",
				o.ID, o.Date.Format("2006-01-02"), o.Status, o.Total, o.ItemCount())
		}
	default:
		fmt.Fprintf(c.out, "unknown command %q, try help\n", name)
	}
	return nil
}

func (c *console) status() {
	s := c.ctrl.Snapshot()
	switch {
	case !s.BackendAvailable:
		fmt.Fprintln(c.out, "Store is offline; showing the built-in catalogue.")
	case s.CurrentUser == nil:
		fmt.Fprintln(c.out, "Connected. Sign in with: login demo demo123")
	}
	if s.CurrentUser != nil {
		mode := ""
		if s.Offline {
			mode = " (offline)"
		}
		fmt.Fprintf(c.out, "Signed in as %s%s.\n", displayName(*s.CurrentUser), mode)
	}
}

func (c *console) products() {
	s := c.ctrl.Snapshot()
	for _, p := range c.ctrl.VisibleProducts() {
		mark := " "
		if s.InWishlist(p.ID) {
			mark = "*"
		}
		stock := strconv.Itoa(p.StockQuantity) + " left"
		if !p.InStock() {
			stock = "sold out"
		}
		fmt.Fprintf(c.out, "%s %-6s %-28s %-12s %9.2f  %s\n", mark, p.ID, p.Name, p.Category, p.Price, stock)
	}
}

func (c *console) cart() {
	s := c.ctrl.Snapshot()
	if len(s.Cart) == 0 {
		fmt.Fprintln(c.out, "Cart is empty.")
		return
	}
	for _, l := range s.Cart {
		fmt.Fprintf(c.out, "  %-6s %-28s %3d x %9.2f\n", l.ProductID, l.Name, l.Quantity, l.Price)
	}
	sum := c.ctrl.Summary()
	fmt.Fprintf(c.out, "  subtotal %9.2f\n", sum.Subtotal)
	if sum.DiscountAmount > 0 {
		fmt.Fprintf(c.out, "  discount %9.2f\n", -sum.DiscountAmount)
	}
	fmt.Fprintf(c.out, "  tax      %9.2f\n  shipping %9.2f (%s)\n  total    %9.2f  pay by %s\n",
		sum.Tax, sum.Shipping, s.ShippingMethod, sum.Total, s.PaymentMethod)
}

func (c *console) fail(err error) {
	switch {
	case errors.Is(err, shared.ErrAuthRequired):
		fmt.Fprintln(c.out, "Please sign in first.")
	case shared.FieldOf(err) != "":
		fmt.Fprintf(c.out, "%s: %v\n", shared.FieldOf(err), err)
	default:
		fmt.Fprintf(c.out, "error: %v\n", err)
	}
}

type usageError string

func (e usageError) Error() string { return "usage: " + string(e) }

func usage(s string) error { return usageError(s) }

func displayName(u user.User) string {
	if u.FirstName != "" {
		return u.FirstName
	}
	return u.Username
}

// parseAddress reads "name;street;city;postal;country". Empty input means no
// address.
func parseAddress(s string) (*order.Address, error) {
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ";")
	if len(parts) != 5 {
		return nil, usage("checkout [name;street;city;postal;country]")
	}
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return &order.Address{Name: parts[0], Street: parts[1], City: parts[2], PostalCode: parts[3], Country: parts[4]}, nil
}
