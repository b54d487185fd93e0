package container

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"massimos/storefront/internal/order"
	"massimos/storefront/internal/view"

	log "github.com/sirupsen/logrus"
)

// runStorefront drives the core through a line-based terminal front-end. It
// is the presentation stand-in: all state changes go through the component
// contracts, never direct field writes.
func (c *Container) runStorefront(ctx context.Context) error {
	filters := view.NewFilters()
	searchDebounce := view.NewDebouncer(c.Config.UI.SearchDebounce())
	notesDebounce := view.NewDebouncer(c.Config.UI.NotesDebounce())
	defer searchDebounce.Stop()
	defer notesDebounce.Stop()

	fmt.Printf("%s — %s\n", c.Config.Store.Name, c.Config.Store.Location)
	fmt.Println(`Type "help" for commands.`)

	scanner := bufio.NewScanner(os.Stdin)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		fmt.Print("> ")
		if !scanner.Scan() {
			return scanner.Err()
		}

		cmd, arg, _ := strings.Cut(strings.TrimSpace(scanner.Text()), " ")
		switch cmd {
		case "":
		case "help":
			printHelp()
		case "menu":
			c.printMenu(filters.Snapshot())
		case "categories":
			fmt.Println("all")
			for _, category := range c.Menu.Categories() {
				fmt.Println(category)
			}
		case "filter":
			if arg == "" {
				arg = view.CategoryAll
			}
			c.printMenu(filters.SetCategory(arg))
		case "search":
			// Only the final query within the quiescence window is applied;
			// earlier keystrokes reset the timer and are dropped.
			searchDebounce.Trigger(func() {
				c.printMenu(filters.SetQuery(arg))
			})
		case "add":
			c.addBySKU(ctx, arg)
		case "customize":
			c.customize(ctx, scanner, arg)
		case "cart":
			c.printCart()
		case "qty":
			index, qty, ok := twoInts(arg)
			if ok {
				c.Cart.UpdateQuantityAt(ctx, index-1, qty)
			}
		case "note":
			indexArg, text, _ := strings.Cut(arg, " ")
			if index, err := strconv.Atoi(indexArg); err == nil {
				notesDebounce.Trigger(func() {
					c.Cart.SetNotesAt(ctx, index-1, text)
				})
			}
		case "rm":
			if index, err := strconv.Atoi(arg); err == nil {
				c.Cart.RemoveAt(ctx, index-1)
			}
		case "clear":
			c.Cart.Clear(ctx)
		case "refresh":
			c.Menu.LoadMenu(ctx, true)
		case "checkout":
			c.checkout(ctx)
		case "quit", "exit":
			return nil
		default:
			fmt.Println("Unknown command, type \"help\".")
		}
	}
}

func printHelp() {
	fmt.Println(`menu                 show the visible menu
categories           list categories
filter <category>    filter by category (or "all")
search <text>        search names and descriptions
add <sku>            add an item to the cart
customize <sku>      pick a variant and extras, then add
cart                 show the cart
qty <n> <count>      change quantity of cart row n
note <n> <text>      set notes on cart row n
rm <n>               remove cart row n
clear                empty the cart
refresh              force a menu refresh
checkout             send the pre-order and empty the cart
quit                 exit`)
}

func (c *Container) printMenu(filters view.FilterState) {
	items := view.Visible(c.Menu.Items(), filters)
	if len(items) == 0 {
		fmt.Println("No products found")
		return
	}
	for _, item := range items {
		marker := ""
		if item.Customizable() {
			marker = " *"
		}
		fmt.Printf("[%s] %s — %s%s\n", item.SKU, item.Name, order.FormatPrice(item.Price), marker)
		if item.Description != "" {
			fmt.Printf("      %s\n", item.Description)
		}
	}
}

func (c *Container) addBySKU(ctx context.Context, sku string) {
	product, ok := c.Menu.Find(sku)
	if !ok {
		fmt.Println("Unknown sku:", sku)
		return
	}
	if product.Customizable() {
		fmt.Printf("%s has options, use: customize %s\n", product.Name, sku)
		return
	}
	c.Cart.Add(ctx, product, nil)
}

// customize runs one customization session interactively.
func (c *Container) customize(ctx context.Context, scanner *bufio.Scanner, sku string) {
	product, ok := c.Menu.Find(sku)
	if !ok {
		fmt.Println("Unknown sku:", sku)
		return
	}

	s := c.Sessions.Begin(product)
	fmt.Printf("Customizing %s (variant <n>, extra <n>, done [notes], cancel)\n", product.Name)

	for {
		for i, variant := range product.Variants {
			selected := " "
			if s.Variant() != nil && s.Variant().Name == variant.Name {
				selected = "x"
			}
			label := "Base"
			if variant.Price > 0 {
				label = "+" + order.FormatPrice(variant.Price)
			}
			fmt.Printf("  variant %d [%s] %s (%s)\n", i+1, selected, variant.Name, label)
		}
		for i, extra := range product.Extras {
			selected := " "
			for _, chosen := range s.Extras() {
				if chosen.Name == extra.Name {
					selected = "x"
				}
			}
			fmt.Printf("  extra   %d [%s] %s (+%s)\n", i+1, selected, extra.Name, order.FormatPrice(extra.Price))
		}
		fmt.Printf("  total: %s\n> ", order.FormatPrice(s.RunningTotal()))

		if !scanner.Scan() {
			c.Sessions.Cancel()
			return
		}
		cmd, arg, _ := strings.Cut(strings.TrimSpace(scanner.Text()), " ")
		switch cmd {
		case "variant":
			if i, err := strconv.Atoi(arg); err == nil {
				s.SelectVariant(i - 1)
			}
		case "extra":
			if i, err := strconv.Atoi(arg); err == nil && i >= 1 && i <= len(product.Extras) {
				s.ToggleExtra(product.Extras[i-1])
			}
		case "done":
			c.Sessions.Commit(ctx, c.Cart, arg)
			return
		case "cancel":
			c.Sessions.Cancel()
			return
		default:
			fmt.Println("variant <n>, extra <n>, done [notes], cancel")
		}
	}
}

func (c *Container) printCart() {
	lines := c.Cart.Lines()
	if len(lines) == 0 {
		fmt.Println("Your cart is empty")
		return
	}
	for i, line := range lines {
		fmt.Printf("%d. %dx %s — %s\n", i+1, line.Qty, line.DisplayName(), order.FormatPrice(line.LineTotal()))
		if strings.TrimSpace(line.Notes) != "" {
			fmt.Printf("   ↳ %s\n", line.Notes)
		}
	}
	fmt.Printf("Total: %s (%d items)\n", order.FormatPrice(c.Cart.Total()), c.Cart.Count())
}

// checkout hands the order off and empties the cart, so a second checkout
// starts from scratch instead of resending the same lines.
func (c *Container) checkout(ctx context.Context) {
	lines := c.Cart.Lines()
	if len(lines) == 0 {
		c.Notifier.Notify("El carrito está vacío")
		return
	}

	msg := order.BuildMessage(c.Config.Store, lines, c.Cart.Total())
	link := order.WhatsAppLink(c.Config.Store.WhatsApp, msg)
	fmt.Println(msg)
	fmt.Println()
	fmt.Println("Open to send:", link)
	log.Infof("📱 Pre-order link built for %d lines", len(lines))

	c.Cart.Clear(ctx)
	c.Notifier.Notify("Carrito limpiado - Pedido enviado")
}

func twoInts(arg string) (int, int, bool) {
	first, second, ok := strings.Cut(arg, " ")
	if !ok {
		return 0, 0, false
	}
	a, err1 := strconv.Atoi(first)
	b, err2 := strconv.Atoi(strings.TrimSpace(second))
	if err1 != nil || err2 != nil {
		return 0, 0, false
	}
	return a, b, true
}
