package terminal

import (
	"github.com/Zachkp/portfolio-terminal/internal/catalog"
	"github.com/Zachkp/portfolio-terminal/internal/checkout"
	"github.com/Zachkp/portfolio-terminal/internal/content"
)

// Kind tags a Payload variant.
type Kind string

const (
	KindHelp           Kind = "help"
	KindIdentity       Kind = "identity"
	KindProjectList    Kind = "projects"
	KindSkillList      Kind = "skills"
	KindContactCard    Kind = "contact"
	KindExperienceList Kind = "experience"
	KindProductCatalog Kind = "catalog"
	KindPurchaseResult Kind = "purchase"
	KindSuggestions    Kind = "suggestions"
	KindError          Kind = "error"
	KindEmpty          Kind = "empty"
)

// Payload describes what a command produced. Rendering is up to the UI.
type Payload interface {
	Kind() Kind
}

type CommandInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type Help struct {
	Commands []CommandInfo `json:"commands"`
}

type Identity struct {
	content.Identity
}

type ProjectList struct {
	Projects []content.Project `json:"projects"`
}

type SkillList struct {
	Categories []content.SkillCategory `json:"categories"`
}

type ContactCard struct {
	content.Contact
}

type ExperienceList struct {
	Roles []content.Role `json:"roles"`
}

type ProductCatalog struct {
	Products catalog.Catalog `json:"products"`
}

// PurchaseResult is the checkout session as it stood when the command ran.
// Index is the 1-based catalog index, zero for status commands.
type PurchaseResult struct {
	Index   int              `json:"index,omitempty"`
	Session checkout.Session `json:"session"`
}

// Suggestions lists the commands matching an ambiguous tab completion.
type Suggestions struct {
	Matches []string `json:"matches"`
}

type Error struct {
	Message string `json:"message"`
	Hint    string `json:"hint,omitempty"`
}

type Empty struct{}

func (Help) Kind() Kind           { return KindHelp }
func (Identity) Kind() Kind       { return KindIdentity }
func (ProjectList) Kind() Kind    { return KindProjectList }
func (SkillList) Kind() Kind      { return KindSkillList }
func (ContactCard) Kind() Kind    { return KindContactCard }
func (ExperienceList) Kind() Kind { return KindExperienceList }
func (ProductCatalog) Kind() Kind { return KindProductCatalog }
func (PurchaseResult) Kind() Kind { return KindPurchaseResult }
func (Suggestions) Kind() Kind    { return KindSuggestions }
func (Error) Kind() Kind          { return KindError }
func (Empty) Kind() Kind          { return KindEmpty }
