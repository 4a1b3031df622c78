package catalog

import "fmt"

// CardType is the broad category of a card.
type CardType int

const (
	TypeAttack CardType = iota
	TypeDefense
	TypeUtility
)

var cardTypeNames = map[CardType]string{
	TypeAttack:  "ATTACK",
	TypeDefense: "DEFENSE",
	TypeUtility: "UTILITY",
}

func (t CardType) String() string {
	if name, ok := cardTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("CARD_TYPE_%d", int(t))
}

// Priority is the resolution tier a card executes in.
// The numeric order is not the resolution order; see rules.TierOrder.
type Priority int

const (
	PriorityDontExecute Priority = iota
	PriorityEarly
	PriorityNormal
	PriorityLate
	PriorityEffectNegate
	PriorityManaLost
)

var priorityNames = map[Priority]string{
	PriorityDontExecute:  "DONT_EXECUTE",
	PriorityEarly:        "EARLY",
	PriorityNormal:       "NORMAL",
	PriorityLate:         "LATE",
	PriorityEffectNegate: "EFFECT_NEGATE",
	PriorityManaLost:     "MANA_LOST",
}

func (p Priority) String() string {
	if name, ok := priorityNames[p]; ok {
		return name
	}
	return fmt.Sprintf("PRIORITY_%d", int(p))
}

// DamageType distinguishes which defense cards can block an attack.
type DamageType int

const (
	DamageSlash DamageType = iota
	DamageGun
	DamageMagic
	DamageMisc
)

var damageTypeNames = map[DamageType]string{
	DamageSlash: "Slash",
	DamageGun:   "Gun",
	DamageMagic: "Magic",
	DamageMisc:  "Misc",
}

func (d DamageType) String() string {
	if name, ok := damageTypeNames[d]; ok {
		return name
	}
	return fmt.Sprintf("Damage%d", int(d))
}

// StatusType is the polarity of a status preset. Cleanse effects select on it.
type StatusType int

const (
	StatusMisc StatusType = iota
	StatusPassive
	StatusBuff
	StatusDebuff
)

var statusTypeNames = map[StatusType]string{
	StatusMisc:    "MISC",
	StatusPassive: "PASSIVE",
	StatusBuff:    "BUFF",
	StatusDebuff:  "DEBUFF",
}

func (s StatusType) String() string {
	if name, ok := statusTypeNames[s]; ok {
		return name
	}
	return fmt.Sprintf("STATUS_TYPE_%d", int(s))
}

// Generation tags with special meaning.
const (
	GenerationTestOnly       = -3
	GenerationDiviner        = -2
	GenerationDivinerAbility = -1
	// Generations 0..PoolSize-1 are draftable.
	PoolSize = 9
)
