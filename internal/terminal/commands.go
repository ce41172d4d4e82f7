package terminal

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/Zachkp/portfolio-terminal/internal/catalog"
	"github.com/Zachkp/portfolio-terminal/internal/checkout"
)

// Invocation is what a command handler sees.
type Invocation struct {
	// Raw is the input exactly as typed.
	Raw string
	// Input is the trimmed, lower-cased form used for matching.
	Input string
	// Args are captured by the matcher.
	Args []string
}

// Matcher decides whether a normalized input belongs to a command.
type Matcher func(input string) (args []string, ok bool)

// Command is one row of the dispatch table. Rows are tried in order and the
// first match wins. A nil payload from Run means nothing is recorded.
type Command struct {
	// Name is listed by help and offered by tab completion.
	Name        string
	Usage       string
	Description string
	Match       Matcher
	Run         func(ctx context.Context, inv Invocation) Payload
	Hidden      bool
}

// Exact matches any of the given triggers literally.
func Exact(triggers ...string) Matcher {
	return func(input string) ([]string, bool) {
		for _, t := range triggers {
			if input == t {
				return nil, true
			}
		}
		return nil, false
	}
}

// Word matches the bare word or the word followed by a space and an
// argument, which is captured with surrounding spaces removed.
func Word(word string) Matcher {
	return func(input string) ([]string, bool) {
		if input == word {
			return []string{""}, true
		}
		rest, ok := strings.CutPrefix(input, word+" ")
		if !ok {
			return nil, false
		}
		return []string{strings.TrimSpace(rest)}, true
	}
}

func (i *Interpreter) builtins() []Command {
	return []Command{
		{Name: "help", Description: "Show available commands", Match: Exact("help"), Run: i.help},
		{Name: "whoami", Description: "Display information about me", Match: Exact("whoami"), Run: i.whoami},
		{Name: "experience", Description: "Show work experience", Match: Exact("experience", "work"), Run: i.experience},
		{Name: "ls projects/", Description: "List all projects", Match: Exact("ls projects/", "ls projects"), Run: i.projects},
		{Name: "cat skills.txt", Description: "Show my skills", Match: Exact("cat skills.txt", "cat skills"), Run: i.skills},
		{Name: "cat contact.json", Description: "Display contact information", Match: Exact("cat contact.json", "cat contact"), Run: i.contact},
		{Name: "skateboards", Description: "List skateboards for sale", Match: Exact("skateboards", "ls skateboards"), Run: i.skateboards},
		{Name: "buy", Usage: "buy <number>", Description: "Buy a skateboard from the list", Match: Word("buy"), Run: i.buy},
		{Name: "checkout status", Description: "Show the current checkout", Match: Exact("checkout status", "checkout"), Run: i.checkoutStatus},
		{Name: "checkout refresh", Description: "Refresh the checkout status now", Match: Exact("checkout refresh"), Run: i.checkoutRefresh},
		{Name: "checkout stop", Description: "Stop polling the checkout", Match: Exact("checkout stop"), Run: i.checkoutStop},
		{Name: "clear", Description: "Clear the terminal", Match: Exact("clear"), Run: i.clear},
	}
}

func (i *Interpreter) help(context.Context, Invocation) Payload {
	return Help{Commands: i.Commands()}
}

func (i *Interpreter) whoami(context.Context, Invocation) Payload {
	return Identity{Identity: i.profile.Identity}
}

func (i *Interpreter) experience(context.Context, Invocation) Payload {
	return ExperienceList{Roles: i.profile.Experience}
}

func (i *Interpreter) projects(context.Context, Invocation) Payload {
	return ProjectList{Projects: i.profile.Projects}
}

func (i *Interpreter) skills(context.Context, Invocation) Payload {
	return SkillList{Categories: i.profile.Skills}
}

func (i *Interpreter) contact(context.Context, Invocation) Payload {
	return ContactCard{Contact: i.profile.Contact}
}

func (i *Interpreter) skateboards(context.Context, Invocation) Payload {
	return ProductCatalog{Products: i.catalog}
}

const catalogHint = "Type 'skateboards' to list products, then 'buy <number>'"

func (i *Interpreter) buy(ctx context.Context, inv Invocation) Payload {
	arg := ""
	if len(inv.Args) > 0 {
		arg = inv.Args[0]
	}

	n, err := strconv.Atoi(arg)
	if err != nil {
		if arg == "" {
			arg = "missing product number"
		}
		return Error{Message: "Invalid index: " + arg, Hint: catalogHint}
	}

	p, err := i.catalog.At(n)
	if err != nil {
		return Error{
			Message: fmt.Sprintf("Invalid product index: %d. Use 'skateboards' to see available products (1-%d).", n, len(i.catalog)),
			Hint:    catalogHint,
		}
	}

	if i.checkout == nil {
		return Error{Message: "Checkout is not available in this session"}
	}
	return PurchaseResult{Index: n, Session: i.checkout.StartPurchase(ctx, p)}
}

func (i *Interpreter) checkoutStatus(context.Context, Invocation) Payload {
	s, errPayload := i.currentCheckout()
	if errPayload != nil {
		return errPayload
	}
	return PurchaseResult{Session: s}
}

func (i *Interpreter) checkoutRefresh(ctx context.Context, _ Invocation) Payload {
	s, errPayload := i.currentCheckout()
	if errPayload != nil {
		return errPayload
	}
	i.checkout.Refresh(ctx)
	s.Message = "Refreshing checkout status..."
	return PurchaseResult{Session: s}
}

func (i *Interpreter) checkoutStop(context.Context, Invocation) Payload {
	s, errPayload := i.currentCheckout()
	if errPayload != nil {
		return errPayload
	}
	i.checkout.CancelPolling()
	s.Message = "Stopped polling. Type 'checkout refresh' to check again."
	return PurchaseResult{Session: s}
}

func (i *Interpreter) currentCheckout() (checkout.Session, Payload) {
	if i.checkout == nil {
		return checkout.Session{}, Error{Message: "Checkout is not available in this session"}
	}
	s := i.checkout.Session()
	if s.CheckoutID == "" {
		return s, Error{Message: "No checkout in progress", Hint: catalogHint}
	}
	return s, nil
}

func (i *Interpreter) clear(context.Context, Invocation) Payload {
	i.history = nil
	i.cursor = -1
	return nil
}

// Checkout is the purchase flow the buy and checkout commands drive.
type Checkout interface {
	StartPurchase(ctx context.Context, p catalog.Product) checkout.Session
	Refresh(ctx context.Context)
	CancelPolling()
	Session() checkout.Session
}
