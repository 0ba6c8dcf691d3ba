package game

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/magefree/coup-engine-go/internal/game/rules"
)

// ActionKind identifies an action variant in the catalog.
type ActionKind int

const (
	ActionUnknown ActionKind = iota
	ActionIncome
	ActionForeignAid
	ActionCoup
	ActionTax
	ActionAssassinate
	ActionSteal
	ActionExchange
	ActionBlockAssassination
	ActionBlockForeignAid
	ActionBlockStealingAmbassador
	ActionBlockStealingCaptain
	ActionChallenge
)

// ActionType is informational metadata describing a variant's family.
type ActionType string

const (
	TypeGeneral       ActionType = "general"
	TypeCharacter     ActionType = "character"
	TypeCounteraction ActionType = "counteraction"
	TypeChallenge     ActionType = "challenge"
)

const (
	// ForcedCoupThreshold is the coin count at which Coup becomes the only
	// legal primary action.
	ForcedCoupThreshold = 10
	// StealAmount is the most a single Steal can take.
	StealAmount = 2
	// ExchangeDraw is the number of cards an Exchange draws.
	ExchangeDraw = 2
)

// Variant is the static description of an action kind together with its
// legality predicate and resolution effect.
type Variant struct {
	Kind          ActionKind
	Name          string
	Description   string
	Cost          int
	Type          ActionType
	Requirement   Influence
	Blockable     bool
	Challengeable bool
	HasTarget     bool

	legal   func(gs *GameState, a *Action) rules.LegalityResult
	resolve func(gs *GameState, a *Action) error
}

// IsCounteraction reports whether the variant responds to a pending action
// rather than starting a turn.
func (v Variant) IsCounteraction() bool {
	return v.Type == TypeCounteraction || v.Type == TypeChallenge
}

var (
	catalog     map[ActionKind]Variant
	catalogKeys []ActionKind
)

func init() {
	variants := []Variant{
		{
			Kind:        ActionIncome,
			Name:        "Income",
			Description: "Take 1 coin from the treasury.",
			Type:        TypeGeneral,
			legal:       primaryLegal,
			resolve:     gainCoins(1),
		},
		{
			Kind:        ActionForeignAid,
			Name:        "Foreign Aid",
			Description: "Take 2 coins from the treasury. Can be blocked by a Duke.",
			Type:        TypeGeneral,
			Blockable:   true,
			legal:       primaryLegal,
			resolve:     gainCoins(2),
		},
		{
			Kind:        ActionCoup,
			Name:        "Coup",
			Description: "Pay 7 coins; the target loses an influence. Cannot be blocked or challenged.",
			Cost:        7,
			Type:        TypeGeneral,
			HasTarget:   true,
			legal:       primaryLegal,
			resolve:     targetLosesInfluence,
		},
		{
			Kind:          ActionTax,
			Name:          "Tax",
			Description:   "Claim the Duke and take 3 coins from the treasury.",
			Type:          TypeCharacter,
			Requirement:   Duke,
			Challengeable: true,
			legal:         primaryLegal,
			resolve:       gainCoins(3),
		},
		{
			Kind:          ActionAssassinate,
			Name:          "Assassinate",
			Description:   "Claim the Assassin and pay 3 coins; the target loses an influence. Can be blocked by a Contessa.",
			Cost:          3,
			Type:          TypeCharacter,
			Requirement:   Assassin,
			Blockable:     true,
			Challengeable: true,
			HasTarget:     true,
			legal:         primaryLegal,
			resolve:       targetLosesInfluence,
		},
		{
			Kind:          ActionSteal,
			Name:          "Steal",
			Description:   "Claim the Captain and take up to 2 coins from the target. Can be blocked by a Captain or Ambassador.",
			Type:          TypeCharacter,
			Requirement:   Captain,
			Blockable:     true,
			Challengeable: true,
			HasTarget:     true,
			legal:         primaryLegal,
			resolve:       steal,
		},
		{
			Kind:          ActionExchange,
			Name:          "Exchange",
			Description:   "Claim the Ambassador, draw 2 cards from the court and return 2.",
			Type:          TypeCharacter,
			Requirement:   Ambassador,
			Challengeable: true,
			legal:         primaryLegal,
			resolve:       exchange,
		},
		{
			Kind:          ActionBlockAssassination,
			Name:          "Block Assassination",
			Description:   "Claim the Contessa to block an assassination against you.",
			Type:          TypeCounteraction,
			Requirement:   Contessa,
			Challengeable: true,
			legal:         blockLegal(ActionAssassinate, true),
			resolve:       nullifyContested,
		},
		{
			Kind:          ActionBlockForeignAid,
			Name:          "Block Foreign Aid",
			Description:   "Claim the Duke to block foreign aid.",
			Type:          TypeCounteraction,
			Requirement:   Duke,
			Challengeable: true,
			legal:         blockLegal(ActionForeignAid, false),
			resolve:       nullifyContested,
		},
		{
			Kind:          ActionBlockStealingAmbassador,
			Name:          "Block Stealing (Ambassador)",
			Description:   "Claim the Ambassador to block a steal against you.",
			Type:          TypeCounteraction,
			Requirement:   Ambassador,
			Challengeable: true,
			legal:         blockLegal(ActionSteal, true),
			resolve:       nullifyContested,
		},
		{
			Kind:          ActionBlockStealingCaptain,
			Name:          "Block Stealing (Captain)",
			Description:   "Claim the Captain to block a steal against you.",
			Type:          TypeCounteraction,
			Requirement:   Captain,
			Challengeable: true,
			legal:         blockLegal(ActionSteal, true),
			resolve:       nullifyContested,
		},
		{
			Kind:        ActionChallenge,
			Name:        "Challenge",
			Description: "Dispute the character claimed by the pending action.",
			Type:        TypeChallenge,
			legal:       challengeLegal,
			resolve:     resolveChallenge,
		},
	}

	catalog = make(map[ActionKind]Variant, len(variants))
	catalogKeys = make([]ActionKind, 0, len(variants))
	for _, v := range variants {
		catalog[v.Kind] = v
		catalogKeys = append(catalogKeys, v.Kind)
	}
}

// LookupVariant returns the catalog entry for kind.
func LookupVariant(kind ActionKind) (Variant, bool) {
	v, ok := catalog[kind]
	return v, ok
}

// ActionKinds lists every catalog kind in declaration order.
func ActionKinds() []ActionKind {
	out := make([]ActionKind, len(catalogKeys))
	copy(out, catalogKeys)
	return out
}

// ParseActionKind resolves a variant by name, ignoring case and spaces.
func ParseActionKind(name string) (ActionKind, error) {
	norm := func(s string) string {
		return strings.ToLower(strings.NewReplacer(" ", "", "_", "", "(", "", ")", "").Replace(s))
	}
	want := norm(name)
	for _, kind := range catalogKeys {
		if norm(catalog[kind].Name) == want {
			return kind, nil
		}
	}
	return ActionUnknown, fmt.Errorf("unknown action %q", name)
}

func (k ActionKind) String() string {
	if v, ok := catalog[k]; ok {
		return v.Name
	}
	return fmt.Sprintf("ACTION_%d", int(k))
}

// Action is a declared move. User and Target are player names.
type Action struct {
	ID       string
	Kind     ActionKind
	User     string
	Target   string
	Succeeds bool
}

// NewAction creates an untargeted action for user.
func NewAction(kind ActionKind, user string) Action {
	return Action{
		ID:       uuid.New().String(),
		Kind:     kind,
		User:     user,
		Succeeds: true,
	}
}

// NewTargetedAction creates an action for user aimed at target.
func NewTargetedAction(kind ActionKind, user, target string) Action {
	a := NewAction(kind, user)
	a.Target = target
	return a
}

// Variant returns the catalog entry for the action's kind. Unknown kinds
// yield the zero Variant.
func (a Action) Variant() Variant {
	return catalog[a.Kind]
}

func (a Action) String() string {
	if a.Target != "" {
		return fmt.Sprintf("%s: %s -> %s", a.User, a.Kind, a.Target)
	}
	return fmt.Sprintf("%s: %s", a.User, a.Kind)
}
