package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/dstore/storefront/internal/api"
	"github.com/dstore/storefront/internal/auth"
	"github.com/dstore/storefront/internal/cart"
	"github.com/dstore/storefront/internal/models"
	"github.com/dstore/storefront/internal/patterns"
	"github.com/dstore/storefront/internal/wishlist"
	log "github.com/sirupsen/logrus"
)

const usage = `usage: storefront <command> [args]

commands:
  register <name> <email> <password>
  login <email> <password>
  logout
  profile
  search <query>
  cart
  cart set <productId> <quantity>
  cart inc <productId>
  cart dec <productId>
  cart rm <productId>
  coupon <code>
  checkout <addressId> <paymentMethod> [couponCode]
  orders
  wishlist
  wishlist add <productId>
  wishlist rm <productId>
  wishlist tocart <productId>
`

func init() {
	log.SetFormatter(&log.TextFormatter{DisableTimestamp: true})
	log.SetLevel(log.WarnLevel)
}

func main() {
	if len(os.Args) < 2 {
		fmt.Print(usage)
		os.Exit(2)
	}

	baseURL := getEnv("STOREFRONT_API_URL", "http://localhost:8080")
	tokenFile := getEnv("STOREFRONT_TOKEN_FILE", defaultTokenFile())

	session := auth.NewSession(tokenFile)
	client := api.NewClient(baseURL, session)

	ctx, cancel := patterns.WithTimeout(patterns.CheckoutTimeout)
	defer cancel()

	if err := run(ctx, os.Args[1:], client, session); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, client *api.Client, session *auth.Session) error {
	switch args[0] {
	case "register":
		if len(args) != 4 {
			return fmt.Errorf("usage: storefront register <name> <email> <password>")
		}
		if err := client.Register(ctx, args[1], args[2], args[3]); err != nil {
			return err
		}
		fmt.Println("registered and logged in as", args[2])
		return nil

	case "login":
		if len(args) != 3 {
			return fmt.Errorf("usage: storefront login <email> <password>")
		}
		if err := client.Login(ctx, args[1], args[2]); err != nil {
			return err
		}
		fmt.Println("logged in as", args[1])
		return nil

	case "logout":
		if err := session.Clear(); err != nil {
			return err
		}
		fmt.Println("logged out")
		return nil

	case "profile":
		profile, err := client.Profile(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("%s <%s>\n", profile.Name, profile.Email)
		if profile.IsAdmin {
			fmt.Println("role: admin")
		}
		for _, addr := range profile.Addresses {
			fmt.Printf("  address %s: %s, %s, %s %s, %s\n", addr.ID, addr.Street, addr.City, addr.State, addr.Zip, addr.Country)
		}
		return nil

	case "search":
		if len(args) != 2 {
			return fmt.Errorf("usage: storefront search <query>")
		}
		products, err := client.Search(ctx, args[1])
		if err != nil {
			return err
		}
		for _, p := range products {
			fmt.Printf("%-10s %-28s $%s  stock:%d\n", p.ID, p.Name, cart.FormatAmount(p.UnitPrice), p.AvailableStock)
		}
		return nil

	case "cart":
		return runCart(ctx, args[1:], client)

	case "coupon":
		if len(args) != 2 {
			return fmt.Errorf("usage: storefront coupon <code>")
		}
		ctrl := cart.NewController(client)
		if _, err := ctrl.Refresh(ctx); err != nil {
			return err
		}
		discount, err := ctrl.ApplyCoupon(ctx, args[1])
		if err != nil {
			return err
		}
		state := ctrl.State()
		fmt.Printf("coupon accepted: %.0f%% off\n", discount)
		printTotals(state)
		return nil

	case "checkout":
		if len(args) < 3 || len(args) > 4 {
			return fmt.Errorf("usage: storefront checkout <addressId> <paymentMethod> [couponCode]")
		}
		ctrl := cart.NewController(client)
		if _, err := ctrl.Refresh(ctx); err != nil {
			return err
		}
		if len(args) == 4 {
			if _, err := ctrl.ApplyCoupon(ctx, args[3]); err != nil {
				return err
			}
		}
		confirmation, err := ctrl.PlaceOrder(ctx, args[1], args[2])
		if err != nil {
			return err
		}
		order := confirmation.Order
		fmt.Printf("order %s placed: total $%s (%s)\n", order.ID, cart.FormatAmount(order.Total), order.Status)
		return nil

	case "orders":
		list, err := client.Orders(ctx)
		if err != nil {
			return err
		}
		for _, order := range list.Orders {
			fmt.Printf("%s  %-10s $%s  %s\n", order.PlacedAt.Format("2006-01-02"), order.Status, cart.FormatAmount(order.Total), order.ID)
		}
		return nil

	case "wishlist":
		return runWishlist(ctx, args[1:], client)

	default:
		fmt.Print(usage)
		return fmt.Errorf("unknown command %q", args[0])
	}
}

func runCart(ctx context.Context, args []string, client *api.Client) error {
	ctrl := cart.NewController(client)
	state, err := ctrl.Refresh(ctx)
	if err != nil {
		return err
	}

	if len(args) == 0 {
		printCart(state)
		return nil
	}

	switch args[0] {
	case "set":
		if len(args) != 3 {
			return fmt.Errorf("usage: storefront cart set <productId> <quantity>")
		}
		// Non-numeric input is treated as zero, like a cleared quantity box.
		quantity, _ := strconv.Atoi(args[2])
		state, err = ctrl.SetQuantity(ctx, args[1], quantity)
	case "inc":
		if len(args) != 2 {
			return fmt.Errorf("usage: storefront cart inc <productId>")
		}
		state, err = ctrl.Increment(ctx, args[1])
	case "dec":
		if len(args) != 2 {
			return fmt.Errorf("usage: storefront cart dec <productId>")
		}
		state, err = ctrl.Decrement(ctx, args[1])
	case "rm":
		if len(args) != 2 {
			return fmt.Errorf("usage: storefront cart rm <productId>")
		}
		state, err = ctrl.Remove(ctx, args[1])
	default:
		return fmt.Errorf("unknown cart command %q", args[0])
	}
	if err != nil {
		return err
	}

	printCart(state)
	return nil
}

func runWishlist(ctx context.Context, args []string, client *api.Client) error {
	ctrl := wishlist.NewController(client)

	if len(args) == 0 {
		products, err := ctrl.Refresh(ctx)
		if err != nil {
			return err
		}
		printWishlist(products)
		return nil
	}

	switch args[0] {
	case "add":
		if len(args) != 2 {
			return fmt.Errorf("usage: storefront wishlist add <productId>")
		}
		products, err := ctrl.Add(ctx, args[1])
		if err != nil {
			return err
		}
		printWishlist(products)
		return nil
	case "rm":
		if len(args) != 2 {
			return fmt.Errorf("usage: storefront wishlist rm <productId>")
		}
		products, err := ctrl.Remove(ctx, args[1])
		if err != nil {
			return err
		}
		printWishlist(products)
		return nil
	case "tocart":
		if len(args) != 2 {
			return fmt.Errorf("usage: storefront wishlist tocart <productId>")
		}
		if err := ctrl.AddToCart(ctx, args[1]); err != nil {
			return err
		}
		fmt.Println("added to cart:", args[1])
		return nil
	default:
		return fmt.Errorf("unknown wishlist command %q", args[0])
	}
}

func printCart(state cart.State) {
	if len(state.Lines) == 0 {
		fmt.Println("cart is empty")
		return
	}
	for _, line := range state.Lines {
		fmt.Printf("%-10s %-28s x%-3d $%s  (stock %d)\n",
			line.ProductID, line.Name, line.Quantity,
			cart.FormatAmount(line.UnitPrice*float64(line.Quantity)), line.AvailableStock)
	}
	printTotals(state)
}

func printTotals(state cart.State) {
	fmt.Printf("subtotal: $%s\n", cart.FormatAmount(state.Subtotal()))
	if state.DiscountPercent > 0 {
		fmt.Printf("discount: %.0f%%\n", state.DiscountPercent)
	}
	fmt.Printf("total:    $%s\n", cart.FormatAmount(state.Total()))
}

func printWishlist(products []models.Product) {
	if len(products) == 0 {
		fmt.Println("wishlist is empty")
		return
	}
	for _, p := range products {
		fmt.Printf("%-10s %-28s $%s  stock:%d\n", p.ID, p.Name, cart.FormatAmount(p.UnitPrice), p.AvailableStock)
	}
}

func defaultTokenFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".dstore", "token")
}

// getEnv gets environment variable with fallback
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}
