package catalog

import (
	"strconv"
	"strings"
)

// StatusPreset is an immutable status effect definition. Descriptions may
// carry {A} and {B} placeholders filled from the instance parameters.
type StatusPreset struct {
	ID          int
	Name        string
	Description string
	Type        StatusType
}

// Status preset ids.
const (
	StatusEnergised = iota
	StatusCrippled
	StatusWithering
	StatusRegeneration
	StatusCannotAttack
	StatusCannotDefend
	StatusInvincible
	StatusNegated
	StatusUntargetable
	StatusCostDown
	StatusTypeCostUp
	StatusSpiritBleed
	StatusUnderAttack
	StatusVulnerable
	StatusWarded
	StatusShockwaves
	StatusClone
	StatusEnrage
	StatusExecuteEffect
	StatusEternalBeauty
	StatusBackstab
	StatusSolarCharge
	StatusCloudHop
	StatusMischievousClone
	StatusAphrodite
	StatusLoki
	StatusBabaYaga
	StatusRa
	StatusSunWukong
	StatusBellona
	StatusModeAutoAid
	StatusModeCloneZone
	StatusModeDeflation
)

var statuses = []StatusPreset{
	{StatusEnergised, "Energised", "Gain {A} mana at the end of every turn.", StatusBuff},
	{StatusCrippled, "Crippled", "Lose {A} mana at the end of every turn.", StatusDebuff},
	{StatusWithering, "Withering", "Lose {A} health at the end of every turn.", StatusDebuff},
	{StatusRegeneration, "Regeneration", "Gain {A} health at the end of every turn.", StatusBuff},
	{StatusCannotAttack, "Cannot Attack", "Unable to use attack cards.", StatusDebuff},
	{StatusCannotDefend, "Cannot Defend", "Unable to use defense cards.", StatusDebuff},
	{StatusInvincible, "Invincible", "You do not take damage.", StatusBuff},
	{StatusNegated, "Negated", "Your card effects do nothing.", StatusMisc},
	{StatusUntargetable, "Untargetable", "You cannot be targeted by card effects.", StatusBuff},
	{StatusCostDown, "Cost Down", "Reduce the cost of {A} by {B} mana.", StatusBuff},
	{StatusTypeCostUp, "Type Cost Up", "Increase the cost of {A} cards by {B} mana.", StatusDebuff},
	{StatusSpiritBleed, "Spirit Bleed", "You must play Mana or lose 1 health.", StatusDebuff},
	{StatusUnderAttack, "Under Attack", "Take {A} {B} damage at the end of the turn.", StatusDebuff},
	{StatusVulnerable, "Vulnerable", "Increase your damage taken by {A}.", StatusDebuff},
	{StatusWarded, "Warded", "Reduce your damage taken by {A}.", StatusBuff},
	{StatusShockwaves, "Shockwaves", "Your cards that affect another target player now also affect all other players (except you).", StatusBuff},
	{StatusClone, "Clone", "Your cards execute twice.", StatusBuff},
	{StatusEnrage, "Enrage", "Increase your damage dealt by {A}.", StatusBuff},
	{StatusExecuteEffect, "Execute Effect", "Execute the effect of {A} on your current target at the end of the turn.", StatusMisc},
	{StatusEternalBeauty, "Aphrodite - Eternal Beauty", "Take 1 less damage for 3 turns after the fifth turn.", StatusPassive},
	{StatusBackstab, "Loki - Backstab", "If your attack target used a utility card, they lose 1 additional health.", StatusPassive},
	{StatusSolarCharge, "Ra - Solar Charge", "When you gain mana, gain 1 extra mana.", StatusPassive},
	{StatusCloudHop, "Sun Wukong - Cloud Hop", "When you take damage, you cannot be targeted by card effects for 2 turns.", StatusPassive},
	{StatusMischievousClone, "Sun Wukong - Mischievous Clone", "When you take damage, your card effects execute twice for 2 turns.", StatusPassive},
	{StatusAphrodite, "Aphrodite", "+1 Health\nPassive - Take 1 less damage for 3 turns after the fifth turn.\nActive - All other players cannot attack for 2 turns.", StatusPassive},
	{StatusLoki, "Loki", "-1 Health / +1 Mana\nPassive - If your attack target used a utility card, they lose 1 additional health.\nActive - Deal 1 slash damage to a target player.", StatusPassive},
	{StatusBabaYaga, "Baba Yaga", "Active (3 uses) - Give a debuff to a target player for 2 turns.\nActive - Block all damage and remove all active debuffs from yourself.", StatusPassive},
	{StatusRa, "Ra", "Passive - When you gain mana, gain 1 extra mana.\nActive - Lose all your mana, deal 1 magic damage to a target player for each mana lost.", StatusPassive},
	{StatusSunWukong, "Sun Wukong", "+1 Health / -1 Mana\nPassive - When you take damage, you cannot be targeted by card effects for 2 turns.\nPassive - When you take damage, your card effects execute twice for 2 turns.", StatusPassive},
	{StatusBellona, "Bellona", "Active - Deal 1 slash damage to a target player. If successful, you gain 2 mana.\nActive - Deal 1 gun damage to a target player. If successful, you cannot be targeted by card effects for 1 turn.", StatusPassive},
	{StatusModeAutoAid, "Game Mode - Auto Aid", "When a player's health drops to 0 or below and they have 3 mana or more, they lose 3 mana to set their health back to 1.", StatusPassive},
	{StatusModeCloneZone, "Game Mode - Clone Zone", "All cards execute twice.", StatusPassive},
	{StatusModeDeflation, "Game Mode - Deflation", "Players start with a lot of mana and cannot gain any more. If a player has less than 1 mana, they die.", StatusPassive},
}

// Render fills the {A}/{B} placeholders of a preset description.
func (p StatusPreset) Render(a, b string) string {
	return strings.NewReplacer("{A}", a, "{B}", b).Replace(p.Description)
}

// FormatAmount renders a float parameter the way descriptions show it.
func FormatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
