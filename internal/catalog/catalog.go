// Package catalog holds the static skateboard product catalog offered by the
// "buy a skateboard" checkout demo.
package catalog

import "fmt"

// Kind distinguishes one-time purchases from subscriptions.
type Kind string

const (
	OneTime      Kind = "one-time"
	Subscription Kind = "subscription"
)

// Product is one read-only catalog entry. ExternalID is the provider product
// id; when it is empty the product is unconfigured and cannot be bought.
type Product struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Price         string `json:"price"`
	OriginalPrice string `json:"originalPrice,omitempty"`
	Discount      string `json:"discount,omitempty"`
	Description   string `json:"description"`
	EnvVar        string `json:"envVar"`
	ExternalID    string `json:"externalProductId,omitempty"`
	Kind          Kind   `json:"kind"`
	BillingPeriod string `json:"billingPeriod,omitempty"`
}

// Configured reports whether the product has a provider product id.
func (p Product) Configured() bool {
	return p.ExternalID != ""
}

// Catalog is an ordered list of products. Indexes exposed to users are 1-based.
type Catalog []Product

var skateboards = Catalog{
	{
		ID:          "aurora-cruiser",
		Name:        "Aurora Cruiser",
		Price:       "$129",
		Description: "Lightweight maple cruiser built for smooth city rides.",
		EnvVar:      "POLAR_PRODUCT_AURORA",
		Kind:        OneTime,
	},
	{
		ID:          "midnight-freestyle",
		Name:        "Midnight Freestyle",
		Price:       "$149",
		Description: "Responsive deck with medium concave for park and flat tricks.",
		EnvVar:      "POLAR_PRODUCT_MIDNIGHT",
		Kind:        OneTime,
	},
	{
		ID:          "ember-downhill",
		Name:        "Ember Downhill",
		Price:       "$189",
		Description: "Stiff downhill setup for stable high-speed carving.",
		EnvVar:      "POLAR_PRODUCT_EMBER",
		Kind:        OneTime,
	},
	{
		ID:            "skateboard-subscription-monthly",
		Name:          "Skateboard Subscription",
		Price:         "$29/month",
		Description:   "Get a new skateboard delivered every year. Cancel anytime.",
		EnvVar:        "POLAR_PRODUCT_SUBSCRIPTION_MONTHLY",
		Kind:          Subscription,
		BillingPeriod: "monthly",
	},
	{
		ID:            "skateboard-subscription-yearly",
		Name:          "Skateboard Subscription (Yearly)",
		Price:         "$278.40/year",
		OriginalPrice: "$348/year",
		Discount:      "20% off",
		Description:   "Get a new skateboard delivered every year. Save 20% with yearly billing.",
		EnvVar:        "POLAR_PRODUCT_SUBSCRIPTION_YEARLY",
		Kind:          Subscription,
		BillingPeriod: "yearly",
	},
}

// Skateboards returns a copy of the built-in catalog with no provider ids set.
func Skateboards() Catalog {
	out := make(Catalog, len(skateboards))
	copy(out, skateboards)
	return out
}

// New returns the built-in catalog with provider ids filled in from ids,
// which is keyed by Product.ID. Products missing from ids stay unconfigured.
func New(ids map[string]string) Catalog {
	c := Skateboards()
	for i := range c {
		c[i].ExternalID = ids[c[i].ID]
	}
	return c
}

// At returns the product at the 1-based index n.
func (c Catalog) At(n int) (Product, error) {
	if n < 1 || n > len(c) {
		return Product{}, fmt.Errorf("index %d out of range 1-%d", n, len(c))
	}
	return c[n-1], nil
}
