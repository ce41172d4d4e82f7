package tui

import (
	"fmt"
	"strings"

	"github.com/Zachkp/portfolio-terminal/internal/checkout"
	"github.com/Zachkp/portfolio-terminal/internal/terminal"
)

func renderEntry(e terminal.Entry) string {
	var b strings.Builder
	b.WriteString(promptStyle.Render(prompt))
	b.WriteString(textStyle.Render(e.Input))
	b.WriteString("\n")
	if out := renderPayload(e.Output); out != "" {
		b.WriteString(out)
		b.WriteString("\n")
	}
	return b.String()
}

func renderPayload(p terminal.Payload) string {
	var b strings.Builder

	switch v := p.(type) {
	case terminal.Help:
		b.WriteString(titleStyle.Render("Available commands:") + "\n")
		for _, c := range v.Commands {
			b.WriteString("  " + commandStyle.Render(c.Name) + mutedStyle.Render(c.Description) + "\n")
		}

	case terminal.Identity:
		b.WriteString(titleStyle.Render(v.Name) + "\n")
		fmt.Fprintf(&b, "%s at %s\n", v.Role, v.Company)
		b.WriteString(mutedStyle.Render(v.Location) + "\n\n")
		b.WriteString(v.Summary + "\n")
		if len(v.Education) > 0 {
			b.WriteString("\n" + titleStyle.Render("Education") + "\n")
			for _, e := range v.Education {
				b.WriteString("  - " + e + "\n")
			}
		}

	case terminal.ProjectList:
		for _, pr := range v.Projects {
			b.WriteString(titleStyle.Render(pr.Name+"/") + "\n")
			b.WriteString("  " + pr.Description + "\n")
			b.WriteString("  " + mutedStyle.Render(pr.Tech) + "\n")
			if pr.Link != "" {
				b.WriteString("  " + hintStyle.Render(pr.Link) + "\n")
			}
		}

	case terminal.SkillList:
		for _, cat := range v.Categories {
			b.WriteString(titleStyle.Render(cat.Name) + "\n")
			for _, s := range cat.Skills {
				fmt.Fprintf(&b, "  %-24s %s\n", s.Name, mutedStyle.Render(s.Level))
			}
		}

	case terminal.ContactCard:
		b.WriteString("{\n")
		fmt.Fprintf(&b, "  %q: %q,\n", "github", v.GitHub)
		fmt.Fprintf(&b, "  %q: %q,\n", "linkedin", v.LinkedIn)
		fmt.Fprintf(&b, "  %q: %q,\n", "website", v.Website)
		fmt.Fprintf(&b, "  %q: %q\n", "location", v.Location)
		b.WriteString("}\n")

	case terminal.ExperienceList:
		for _, r := range v.Roles {
			b.WriteString(titleStyle.Render(r.Title+" @ "+r.Company) + "\n")
			b.WriteString(mutedStyle.Render(r.Period+" | "+r.Location) + "\n")
			for _, item := range r.Responsibilities {
				b.WriteString("  - " + item + "\n")
			}
			if r.Tech != "" {
				b.WriteString("  " + mutedStyle.Render(r.Tech) + "\n")
			}
		}

	case terminal.ProductCatalog:
		for i, pr := range v.Products {
			price := priceStyle.Render(pr.Price)
			if pr.BillingPeriod != "" {
				price += mutedStyle.Render("/" + pr.BillingPeriod)
			}
			if pr.OriginalPrice != "" {
				price += " " + mutedStyle.Render(pr.OriginalPrice)
			}
			if pr.Discount != "" {
				price += " " + warnStyle.Render(pr.Discount)
			}
			fmt.Fprintf(&b, "%d. %s  %s\n", i+1, titleStyle.Render(pr.Name), price)
			b.WriteString("   " + pr.Description + "\n")
			if !pr.Configured() {
				b.WriteString("   " + hintStyle.Render("not configured: set "+pr.EnvVar) + "\n")
			}
		}
		b.WriteString(hintStyle.Render("Type 'buy <number>' to purchase") + "\n")

	case terminal.PurchaseResult:
		b.WriteString(renderSession(v.Session) + "\n")

	case terminal.Suggestions:
		b.WriteString(strings.Join(v.Matches, "  ") + "\n")

	case terminal.Error:
		b.WriteString(errorStyle.Render(v.Message) + "\n")
		if v.Hint != "" {
			b.WriteString(hintStyle.Render(v.Hint) + "\n")
		}

	case terminal.Empty, nil:
	}

	return strings.TrimRight(b.String(), "\n")
}

func renderSession(s checkout.Session) string {
	var b strings.Builder

	label := string(s.Status)
	switch s.Status {
	case checkout.StatusCompleted:
		label = priceStyle.Render(label)
	case checkout.StatusError:
		label = errorStyle.Render(label)
	case checkout.StatusCreating, checkout.StatusPending:
		label = warnStyle.Render(label)
	}

	fmt.Fprintf(&b, "[%s]", label)
	if s.Product != "" {
		b.WriteString(" " + s.Product)
	}
	if s.Message != "" {
		b.WriteString(" " + mutedStyle.Render(s.Message))
	}
	if s.CheckoutURL != "" && !s.Terminal() {
		b.WriteString("\n" + hintStyle.Render(s.CheckoutURL))
	}
	for _, e := range s.Log {
		fmt.Fprintf(&b, "\n  %s  %s", mutedStyle.Render(e.At.Format("15:04:05")), e.Status)
	}
	return b.String()
}
