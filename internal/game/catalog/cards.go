package catalog

// Card is an immutable card definition.
type Card struct {
	ID          int
	Name        string
	Description string
	Generation  int
	Priority    Priority
	Type        CardType
	Cost        float64
	Targets     bool
	// Damage is only meaningful for attack-style cards.
	Damage DamageType
}

// IsDraftable reports whether the card belongs to a normal card pool.
func (c Card) IsDraftable() bool {
	return c.Generation >= 0
}

// Well-known card ids referenced by rules code.
const (
	CardOneShot           = 0
	CardMana              = 1
	CardSlash             = 2
	CardDeflect           = 3
	CardGun               = 4
	CardBulletRepel       = 5
	CardFireball          = 6
	CardSweep             = 7
	CardSkullBolt         = 22
	CardCleanse           = 25
	CardHaymaker          = 45
	CardMagicalProduction = 54
	CardAphrodite         = 60
	CardLoki              = 62
	CardBabaYaga          = 64
	CardRa                = 69
	CardSunWukong         = 71
	CardBellona           = 72
)

var cards = []Card{
	{ID: 0, Name: "One Shot", Generation: -3, Priority: PriorityNormal, Type: TypeAttack, Cost: 0, Targets: true, Damage: DamageMisc,
		Description: "Insta-kill a target player."},
	{ID: 1, Name: "Mana", Generation: 0, Priority: PriorityNormal, Type: TypeUtility, Cost: 0, Targets: false, Damage: DamageMisc,
		Description: "Gain 1 mana."},
	{ID: 2, Name: "Slash", Generation: 0, Priority: PriorityNormal, Type: TypeAttack, Cost: 1, Targets: true, Damage: DamageSlash,
		Description: "Deal 1 slash damage to a target player."},
	{ID: 3, Name: "Deflect", Generation: 0, Priority: PriorityDontExecute, Type: TypeDefense, Cost: 0, Targets: false, Damage: DamageMisc,
		Description: "Block slash damage."},
	{ID: 4, Name: "Gun", Generation: 0, Priority: PriorityNormal, Type: TypeAttack, Cost: 2, Targets: true, Damage: DamageGun,
		Description: "Deal 1 gun damage to a target player."},
	{ID: 5, Name: "Bullet Repel", Generation: 0, Priority: PriorityDontExecute, Type: TypeDefense, Cost: 0, Targets: false, Damage: DamageMisc,
		Description: "Block gun damage."},
	{ID: 6, Name: "Fireball", Generation: 0, Priority: PriorityNormal, Type: TypeAttack, Cost: 4, Targets: true, Damage: DamageMagic,
		Description: "Deal 2 magic damage to a target player."},
	{ID: 7, Name: "Sweep", Generation: 0, Priority: PriorityNormal, Type: TypeAttack, Cost: 2, Targets: false, Damage: DamageSlash,
		Description: "Deal 1 slash damage to all other players."},
	{ID: 8, Name: "Steel Armour", Generation: 1, Priority: PriorityDontExecute, Type: TypeDefense, Cost: 1, Targets: false, Damage: DamageMisc,
		Description: "Block all damage."},
	{ID: 9, Name: "Vampire Bite", Generation: 1, Priority: PriorityNormal, Type: TypeAttack, Cost: 1, Targets: true, Damage: DamageSlash,
		Description: "Deal 1 slash damage to a target player. If successful, you gain 1 health, otherwise, you lose 1 health."},
	{ID: 10, Name: "Cannon", Generation: 1, Priority: PriorityNormal, Type: TypeAttack, Cost: 3, Targets: true, Damage: DamageGun,
		Description: "Deal 2 gun damage to a target player. Reduce the damage by 1 if they played a defense card."},
	{ID: 11, Name: "Mana Burst", Generation: 1, Priority: PriorityNormal, Type: TypeUtility, Cost: 0, Targets: false, Damage: DamageMisc,
		Description: "Gain 2 mana. All other players gain 1 mana."},
	{ID: 12, Name: "Guardian Angel", Generation: 1, Priority: PriorityEarly, Type: TypeUtility, Cost: 3, Targets: false, Damage: DamageMisc,
		Description: "You do not take damage for 2 turns (including this turn)."},
	{ID: 13, Name: "First Aid", Generation: 1, Priority: PriorityNormal, Type: TypeUtility, Cost: 3, Targets: true, Damage: DamageMisc,
		Description: "Target player gains 1 health."},
	{ID: 14, Name: "Reflect Mirror", Generation: 8, Priority: PriorityDontExecute, Type: TypeDefense, Cost: 2, Targets: false, Damage: DamageMisc,
		Description: "Reflect all single-target damage back to your attackers."},
	{ID: 15, Name: "Soul Steal", Generation: 2, Priority: PriorityManaLost, Type: TypeUtility, Cost: 2, Targets: true, Damage: DamageMisc,
		Description: "Steal 1 mana from a target player before they play their card. Blockable by slash defense cards."},
	{ID: 16, Name: "Soul Rip", Generation: 2, Priority: PriorityManaLost, Type: TypeUtility, Cost: 5, Targets: true, Damage: DamageMisc,
		Description: "Steal all mana from a target player before they play their card. Blockable by slash defense cards."},
	{ID: 17, Name: "Seduce", Generation: 2, Priority: PriorityEffectNegate, Type: TypeUtility, Cost: 3, Targets: true, Damage: DamageMisc,
		Description: "Negate a target player's card."},
	{ID: 18, Name: "Love Aura", Generation: 2, Priority: PriorityEffectNegate, Type: TypeUtility, Cost: 5, Targets: false, Damage: DamageMisc,
		Description: "Negate all other players' cards."},
	{ID: 19, Name: "Shuriken", Generation: 2, Priority: PriorityNormal, Type: TypeUtility, Cost: 1, Targets: true, Damage: DamageSlash,
		Description: "Deal 1 slash damage to a target player. Cannot block or be blocked by attack cards."},
	{ID: 20, Name: "Poison Dart", Generation: 8, Priority: PriorityLate, Type: TypeAttack, Cost: 0, Targets: true, Damage: DamageSlash,
		Description: "Give Withering(0.5) to a target player for 1 turn (Lose 0.5 health every turn). Blockable by slash defense cards."},
	{ID: 21, Name: "Smoke Bomb", Generation: 2, Priority: PriorityLate, Type: TypeUtility, Cost: 2, Targets: false, Damage: DamageMisc,
		Description: "You cannot be targeted by card effects for 2 turns."},
	{ID: 22, Name: "Skull Bolt", Generation: 3, Priority: PriorityLate, Type: TypeAttack, Cost: 2, Targets: true, Damage: DamageMagic,
		Description: "Deal 1 magic damage to a target player. If successful, give Withering(0.5) to them for 2 turns (Lose 0.5 health every turn)."},
	{ID: 23, Name: "Wizard Robes", Generation: 3, Priority: PriorityLate, Type: TypeUtility, Cost: 1, Targets: false, Damage: DamageMisc,
		Description: "Reduce the cost of Skull Bolt and Cleanse by 1 for 2 turns."},
	{ID: 24, Name: "Fire Breath", Generation: 3, Priority: PriorityLate, Type: TypeAttack, Cost: 3, Targets: false, Damage: DamageMagic,
		Description: "Give Withering(0.5) to all other players for 4 turns (Lose 0.5 health every turn). Blockable by magic defense cards."},
	{ID: 25, Name: "Cleanse", Generation: 3, Priority: PriorityNormal, Type: TypeUtility, Cost: 1, Targets: false, Damage: DamageMisc,
		Description: "Remove all active debuffs from yourself."},
	{ID: 26, Name: "Freeze", Generation: 3, Priority: PriorityLate, Type: TypeAttack, Cost: 1, Targets: true, Damage: DamageMagic,
		Description: "Give Crippled(0.5) to a target player for 3 turns (Lose 0.5 mana every turn). Blockable by magic defense cards."},
	{ID: 27, Name: "Magic Shield", Generation: 0, Priority: PriorityDontExecute, Type: TypeDefense, Cost: 0, Targets: false, Damage: DamageMisc,
		Description: "Block magic damage."},
	{ID: 28, Name: "Lightning Strike", Generation: 3, Priority: PriorityNormal, Type: TypeAttack, Cost: 1, Targets: true, Damage: DamageMagic,
		Description: "Deal 1 magic damage to a target player. If successful, they gain 3 mana."},
	{ID: 29, Name: "Regrowth", Generation: 3, Priority: PriorityLate, Type: TypeUtility, Cost: 3, Targets: false, Damage: DamageMisc,
		Description: "Gain Regeneration(0.5) for 4 turns (Gain 0.5 health every turn)."},
	{ID: 30, Name: "Spirit Bleed", Generation: 4, Priority: PriorityLate, Type: TypeUtility, Cost: 3, Targets: true, Damage: DamageMisc,
		Description: "Target player must play Mana or lose 1 health for 2 turns. Blockable by slash defense cards."},
	{ID: 31, Name: "Sword Shatter", Generation: 4, Priority: PriorityLate, Type: TypeUtility, Cost: 3, Targets: true, Damage: DamageMisc,
		Description: "Target player cannot use attack cards for 2 turns. Blockable by slash defense cards."},
	{ID: 32, Name: "Shield Break", Generation: 4, Priority: PriorityLate, Type: TypeUtility, Cost: 3, Targets: true, Damage: DamageMisc,
		Description: "Target player cannot use defense cards for 2 turns. Blockable by slash defense cards."},
	{ID: 33, Name: "Delayed Slash", Generation: 4, Priority: PriorityLate, Type: TypeUtility, Cost: 1, Targets: true, Damage: DamageMisc,
		Description: "Deal 1 slash damage to a target player at the end of the next turn."},
	{ID: 34, Name: "Petrify", Generation: 4, Priority: PriorityDontExecute, Type: TypeDefense, Cost: 0, Targets: false, Damage: DamageMisc,
		Description: "Increase the cost of all your attackers' attack cards by 2 for 2 turns."},
	{ID: 35, Name: "Artillery Rain", Generation: 4, Priority: PriorityNormal, Type: TypeAttack, Cost: 4, Targets: true, Damage: DamageGun,
		Description: "For 4 turns, deal 0.5 gun damage to a target player at the end of the turn."},
	{ID: 36, Name: "Mana Fountain", Generation: 5, Priority: PriorityLate, Type: TypeUtility, Cost: 3, Targets: false, Damage: DamageMisc,
		Description: "Gain Energised(1) indefinitely (Gain 1 mana every turn)."},
	{ID: 37, Name: "Iron Skin", Generation: 5, Priority: PriorityEarly, Type: TypeUtility, Cost: 4, Targets: false, Damage: DamageMisc,
		Description: "Reduce your damage taken by 1 indefinitely (including this turn)."},
	{ID: 38, Name: "Shockwaves", Generation: 5, Priority: PriorityLate, Type: TypeUtility, Cost: 4, Targets: false, Damage: DamageMisc,
		Description: "Indefinitely, cards that affect a target player now also affect all other players (except you)."},
	{ID: 39, Name: "Catapult", Generation: 8, Priority: PriorityLate, Type: TypeUtility, Cost: 3, Targets: false, Damage: DamageMisc,
		Description: "Reduce the cost of your Fireball by 3 for 2 turns."},
	{ID: 40, Name: "Clone", Generation: 6, Priority: PriorityLate, Type: TypeUtility, Cost: 2, Targets: false, Damage: DamageMisc,
		Description: "Your cards execute twice for 2 turns."},
	{ID: 41, Name: "Silence", Generation: 5, Priority: PriorityNormal, Type: TypeAttack, Cost: 2, Targets: true, Damage: DamageMagic,
		Description: "Deal 1 magic damage to a target player. If successful, remove all active buffs from them."},
	{ID: 42, Name: "Meditate", Generation: 5, Priority: PriorityNormal, Type: TypeUtility, Cost: 5, Targets: false, Damage: DamageMisc,
		Description: "Gain 2 health."},
	{ID: 43, Name: "Draining Shield", Generation: 5, Priority: PriorityDontExecute, Type: TypeDefense, Cost: 1, Targets: false, Damage: DamageMisc,
		Description: "Block slash damage. Gain 1 health for each attack blocked."},
	{ID: 44, Name: "Enrage", Generation: 5, Priority: PriorityLate, Type: TypeUtility, Cost: 2, Targets: false, Damage: DamageMisc,
		Description: "Increase your attack damage by 1 indefinitely."},
	{ID: 45, Name: "Haymaker", Generation: 6, Priority: PriorityNormal, Type: TypeAttack, Cost: 2, Targets: true, Damage: DamageSlash,
		Description: "Deal 1 slash damage to a target player. If successful, reduce this card's cost by 2 next turn."},
	{ID: 46, Name: "Hyper Mana", Generation: 6, Priority: PriorityNormal, Type: TypeUtility, Cost: 0, Targets: false, Damage: DamageMisc,
		Description: "Lose 1 health. If successful, gain 4 mana."},
	{ID: 47, Name: "Evade", Generation: 6, Priority: PriorityDontExecute, Type: TypeDefense, Cost: 1, Targets: false, Damage: DamageMisc,
		Description: "Block slash and gun damage. Gain 2 mana for each attack blocked."},
	{ID: 48, Name: "Machine Gun", Generation: 8, Priority: PriorityNormal, Type: TypeAttack, Cost: 3, Targets: false, Damage: DamageGun,
		Description: "Deal 1 gun damage to all other players."},
	{ID: 49, Name: "Bayonet", Generation: 6, Priority: PriorityNormal, Type: TypeAttack, Cost: 2, Targets: true, Damage: DamageGun,
		Description: "Deal 1 gun damage to a target player. If successful, deal 1 slash damage to them, otherwise, deal 1 slash damage to yourself."},
	{ID: 50, Name: "Death Mark", Generation: 6, Priority: PriorityLate, Type: TypeUtility, Cost: 2, Targets: true, Damage: DamageMisc,
		Description: "Give Vulnerable(1) to a target player for 3 turns (Lose 1 extra health when taking damage)."},
	{ID: 51, Name: "Nuke", Generation: 5, Priority: PriorityLate, Type: TypeAttack, Cost: 6, Targets: false, Damage: DamageGun,
		Description: "Deal 3 gun damage to all other players. If successful, give Withering(1) to them indefinitely (Lose 1 health every turn)."},
	{ID: 52, Name: "Maim", Generation: 8, Priority: PriorityLate, Type: TypeAttack, Cost: 2, Targets: true, Damage: DamageSlash,
		Description: "Deal 1 slash damage to a target player. If successful, give Crippled(0.5) to them for 4 turn (Lose 0.5 mana every turn)."},
	{ID: 53, Name: "Dynamite", Generation: 7, Priority: PriorityNormal, Type: TypeAttack, Cost: 0, Targets: false, Damage: DamageSlash,
		Description: "Deal 1 slash damage to all players."},
	{ID: 54, Name: "Magical Production", Generation: 7, Priority: PriorityNormal, Type: TypeUtility, Cost: 2, Targets: true, Damage: DamageMisc,
		Description: "This card becomes a random card that costs 2 or more. Execute the random card's effect at the end of the turn."},
	{ID: 55, Name: "Balloonify", Generation: 7, Priority: PriorityDontExecute, Type: TypeDefense, Cost: 1, Targets: false, Damage: DamageMisc,
		Description: "Block magic damage. Give Vulnerable(2) to your attackers for 2 turns (Lose 2 extra health when taking damage)."},
	{ID: 56, Name: "Suspicious Martini", Generation: 7, Priority: PriorityEarly, Type: TypeUtility, Cost: 2, Targets: true, Damage: DamageMisc,
		Description: "Give 2 random buffs to yourself and give 2 random debuffs to a target player for 2 turns (including this turn)."},
	{ID: 57, Name: "Mystery Block", Generation: 7, Priority: PriorityEarly, Type: TypeUtility, Cost: 1, Targets: false, Damage: DamageMisc,
		Description: "Randomly gain 1 of the following for 2 turns (including this turn): Untargetable, Warded(1), Enrage(1), Regeneration(0.5)."},
	{ID: 58, Name: "Drama Masks", Generation: 7, Priority: PriorityLate, Type: TypeUtility, Cost: 0, Targets: true, Damage: DamageMisc,
		Description: "Target player gains 1 mana, Clone for 1 turn, and cannot attack for 2 turns."},
	{ID: 59, Name: "Variate Blast", Generation: 8, Priority: PriorityNormal, Type: TypeAttack, Cost: 3, Targets: true, Damage: DamageMagic,
		Description: "Deal 2 magic damage to a target player if their health is higher than yours, otherwise deal 1 magic damage instead."},
	{ID: 60, Name: "Aphrodite", Generation: -2, Priority: PriorityNormal, Type: TypeUtility, Cost: 0, Targets: false, Damage: DamageMisc,
		Description: "+1 Health\nPassive - Take 1 less damage for 3 turns after the fifth turn.\nActive - All other players cannot attack for 2 turns."},
	{ID: 61, Name: "Blessing of Love", Generation: -1, Priority: PriorityLate, Type: TypeUtility, Cost: 2, Targets: false, Damage: DamageMisc,
		Description: "All other players cannot attack for 2 turns."},
	{ID: 62, Name: "Loki", Generation: -2, Priority: PriorityNormal, Type: TypeUtility, Cost: 0, Targets: false, Damage: DamageMisc,
		Description: "-1 Health / +1 Mana\nPassive - If your attack target played a utility card, they lose 1 additional health.\nActive - Deal 1 slash damage to a target player."},
	{ID: 63, Name: "Concealed Knife", Generation: -1, Priority: PriorityNormal, Type: TypeAttack, Cost: 0, Targets: true, Damage: DamageSlash,
		Description: "Deal 1 slash damage to a target player."},
	{ID: 64, Name: "Baba Yaga", Generation: -2, Priority: PriorityNormal, Type: TypeUtility, Cost: 0, Targets: false, Damage: DamageMisc,
		Description: "Active (3 uses) - Give a debuff to a target player for 2 turns.\nActive - Block all damage and remove all active debuffs from yourself."},
	{ID: 65, Name: "Toxic Potion", Generation: -1, Priority: PriorityLate, Type: TypeAttack, Cost: 1, Targets: true, Damage: DamageMagic,
		Description: "Give Withering(0.5) to a target player for 2 turns (Lose 0.5 health every turn) Blockable by magic defense cards."},
	{ID: 66, Name: "Suffocating Potion", Generation: -1, Priority: PriorityLate, Type: TypeAttack, Cost: 1, Targets: true, Damage: DamageMagic,
		Description: "Give Crippled(1) to a target player for 2 turns (Lose 1 mana every turn) Blockable by magic defense cards."},
	{ID: 67, Name: "Weakening Potion", Generation: -1, Priority: PriorityLate, Type: TypeAttack, Cost: 1, Targets: true, Damage: DamageMagic,
		Description: "Increase the cost of a target player's defense cards by 1 for 2 turns. Blockable by magic defense cards."},
	{ID: 68, Name: "House with Chicken Feet", Generation: -1, Priority: PriorityNormal, Type: TypeDefense, Cost: 0, Targets: false, Damage: DamageMisc,
		Description: "Block all damage and remove all active debuffs from yourself."},
	{ID: 69, Name: "Ra", Generation: -2, Priority: PriorityNormal, Type: TypeUtility, Cost: 0, Targets: false, Damage: DamageMisc,
		Description: "Passive - When you gain mana, gain 1 extra mana.\nActive - Lose all your mana, deal 1 magic damage to a target player for each mana lost."},
	{ID: 70, Name: "Wrath of the Sun", Generation: -1, Priority: PriorityNormal, Type: TypeAttack, Cost: 2, Targets: true, Damage: DamageMisc,
		Description: "Lose all your mana, deal 1 magic damage to a target player for each mana lost."},
	{ID: 71, Name: "Sun Wukong", Generation: -2, Priority: PriorityNormal, Type: TypeUtility, Cost: 0, Targets: false, Damage: DamageMisc,
		Description: "+1 Health / -1 Mana\nPassive - When you take damage, you cannot be targeted by card effects for 2 turns.\nPassive - When you take damage, your card effects execute twice for 2 turns."},
	{ID: 72, Name: "Bellona", Generation: -2, Priority: PriorityNormal, Type: TypeUtility, Cost: 0, Targets: false, Damage: DamageMisc,
		Description: "Active - Deal 1 slash damage to a target player. If successful, you gain 2 mana.\nActive - Deal 1 gun damage to a target player. If successful, you cannot be targeted by card effects for 1 turn."},
	{ID: 73, Name: "Empowering Thrust", Generation: -1, Priority: PriorityNormal, Type: TypeAttack, Cost: 1, Targets: true, Damage: DamageSlash,
		Description: "Deal 1 slash damage to a target player. If successful, you gain 2 mana."},
	{ID: 74, Name: "Elusive Snipe", Generation: -1, Priority: PriorityNormal, Type: TypeAttack, Cost: 2, Targets: true, Damage: DamageGun,
		Description: "Deal 1 gun damage to a target player. If successful, you cannot be targeted by card effects for 1 turn."},
}
