package effects

import (
	"github.com/tom-jt/Diviners-Gambit/internal/game/catalog"
	"github.com/tom-jt/Diviners-Gambit/internal/game/state"
	"github.com/tom-jt/Diviners-Gambit/internal/game/status"
)

var procedures map[int]Procedure

// Populated in init: the table refers to functions that reach back into it.
func init() {
	procedures = map[int]Procedure{
		0:  oneShot,
		1:  mana,
		2:  strike(catalog.DamageSlash, 1),
		3:  blocks(catalog.DamageSlash),
		4:  strike(catalog.DamageGun, 1),
		5:  blocks(catalog.DamageGun),
		6:  strike(catalog.DamageMagic, 2),
		7:  sweep,
		8:  blockAll,
		9:  vampireBite,
		10: cannon,
		11: manaBurst,
		12: selfStatus(catalog.StatusInvincible, 2, false, status.NoParams),
		13: firstAid,
		14: reflectMirror,
		15: soulSteal,
		16: soulRip,
		17: seduce,
		18: loveAura,
		19: shuriken,
		20: poisonDart,
		21: selfStatus(catalog.StatusUntargetable, 2, true, status.NoParams),
		22: skullBolt,
		23: wizardRobes,
		24: fireBreath,
		25: cleanse,
		26: freeze,
		27: blocks(catalog.DamageMagic),
		28: lightningStrike,
		29: selfStatus(catalog.StatusRegeneration, 4, true, status.Float(0.5)),
		30: targetStatus(catalog.StatusSpiritBleed, 2, true, status.NoParams),
		31: targetStatus(catalog.StatusCannotAttack, 2, true, status.NoParams),
		32: targetStatus(catalog.StatusCannotDefend, 2, true, status.NoParams),
		33: targetStatus(catalog.StatusUnderAttack, 1, true, status.FloatInt(1, int(catalog.DamageSlash))),
		34: petrify,
		35: targetStatus(catalog.StatusUnderAttack, 4, true, status.FloatInt(0.5, int(catalog.DamageGun))),
		36: selfStatus(catalog.StatusEnergised, -1, true, status.Float(1)),
		37: selfStatus(catalog.StatusWarded, -1, false, status.Float(1)),
		38: selfStatus(catalog.StatusShockwaves, -1, true, status.NoParams),
		39: selfStatus(catalog.StatusCostDown, 2, true, status.FloatInt(3, catalog.CardFireball)),
		40: selfStatus(catalog.StatusClone, 2, true, status.NoParams),
		41: silence,
		42: meditate,
		43: drainingShield,
		44: selfStatus(catalog.StatusEnrage, -1, true, status.Float(1)),
		45: haymaker,
		46: hyperMana,
		47: evade,
		48: machineGun,
		49: bayonet,
		50: targetStatus(catalog.StatusVulnerable, 3, true, status.Float(1)),
		51: nuke,
		52: maim,
		53: dynamite,
		54: magicalProduction,
		55: balloonify,
		56: suspiciousMartini,
		57: mysteryBlock,
		58: dramaMasks,
		59: variateBlast,
		60: diviner(catalog.StatusAphrodite, catalog.StatusEternalBeauty),
		61: blessingOfLove,
		62: diviner(catalog.StatusLoki, catalog.StatusBackstab),
		63: strike(catalog.DamageSlash, 1),
		64: diviner(catalog.StatusBabaYaga),
		65: potion(catalog.StatusWithering, status.Float(0.5)),
		66: potion(catalog.StatusCrippled, status.Float(1)),
		67: potion(catalog.StatusTypeCostUp, status.FloatInt(1, int(catalog.TypeDefense))),
		68: houseWithChickenFeet,
		69: diviner(catalog.StatusRa, catalog.StatusSolarCharge),
		70: wrathOfTheSun,
		71: diviner(catalog.StatusSunWukong, catalog.StatusCloudHop, catalog.StatusMischievousClone),
		72: diviner(catalog.StatusBellona),
		73: empoweringThrust,
		74: elusiveSnipe,
	}
}

// Building blocks shared by several cards.

// strike deals fixed damage of one type to the card's target.
func strike(damage catalog.DamageType, amount float64) Procedure {
	return func(d *Dispatcher, card *state.PlayedCard, _ *Reaction) bool {
		if !d.TryEffectOnTarget(card, card.Target, damage) {
			return false
		}
		d.attackLoseHealth(card.Owner, card.Target, amount)
		return true
	}
}

// blocks is a defense that stops one damage type.
func blocks(damage catalog.DamageType) Procedure {
	return func(_ *Dispatcher, _ *state.PlayedCard, r *Reaction) bool {
		return r.damage() == damage
	}
}

func blockAll(*Dispatcher, *state.PlayedCard, *Reaction) bool {
	return true
}

func selfStatus(presetID, countdown int, skipFirst bool, params status.Params) Procedure {
	return func(d *Dispatcher, card *state.PlayedCard, _ *Reaction) bool {
		return d.spawn(card.Owner, presetID, countdown, skipFirst, params)
	}
}

// targetStatus gives the target a status without a defense check.
func targetStatus(presetID, countdown int, skipFirst bool, params status.Params) Procedure {
	return func(d *Dispatcher, card *state.PlayedCard, _ *Reaction) bool {
		return d.spawn(card.Target, presetID, countdown, skipFirst, params)
	}
}

// potion is a magic attack that applies a two-turn debuff.
func potion(presetID int, params status.Params) Procedure {
	return func(d *Dispatcher, card *state.PlayedCard, _ *Reaction) bool {
		if !d.TryEffectOnTarget(card, card.Target, catalog.DamageMagic) {
			return false
		}
		return d.spawn(card.Target, presetID, 2, true, params)
	}
}

// diviner attaches the indefinite passives of a chosen diviner.
func diviner(presetIDs ...int) Procedure {
	return func(d *Dispatcher, card *state.PlayedCard, _ *Reaction) bool {
		for _, id := range presetIDs {
			d.spawn(card.Owner, id, -1, false, status.NoParams)
		}
		return true
	}
}

// removeDebuffs cleanses the owner and reports whether anything was removed.
func removeDebuffs(d *Dispatcher, owner int) bool {
	return d.statuses.RemoveDebuffs(owner) > 0
}

// Cards.

func oneShot(d *Dispatcher, card *state.PlayedCard, _ *Reaction) bool {
	return d.loseHealth(card.Target, 99)
}

func mana(d *Dispatcher, card *state.PlayedCard, _ *Reaction) bool {
	return d.gainMana(card.Owner, 1)
}

func sweep(d *Dispatcher, card *state.PlayedCard, _ *Reaction) bool {
	landed := false
	for _, p := range d.others(card.Owner) {
		if d.TryEffectOnTarget(card, p.ID, catalog.DamageSlash) {
			d.attackLoseHealth(card.Owner, p.ID, 1)
			landed = true
		}
	}
	return landed
}

func vampireBite(d *Dispatcher, card *state.PlayedCard, _ *Reaction) bool {
	if !d.TryEffectOnTarget(card, card.Target, catalog.DamageSlash) {
		d.loseHealth(card.Owner, 1)
		return false
	}
	if d.attackLoseHealth(card.Owner, card.Target, 1) {
		return d.gainHealth(card.Owner, 1)
	}
	return false
}

func cannon(d *Dispatcher, card *state.PlayedCard, _ *Reaction) bool {
	if !d.TryEffectOnTarget(card, card.Target, catalog.DamageGun) {
		return false
	}
	damage := 2.0
	if guard := d.arena.PlayedCardOf(card.Target); guard != nil && guard.Type == catalog.TypeDefense {
		damage--
	}
	return d.attackLoseHealth(card.Owner, card.Target, damage)
}

func manaBurst(d *Dispatcher, card *state.PlayedCard, _ *Reaction) bool {
	d.gainMana(card.Owner, 2)
	for _, p := range d.others(card.Owner) {
		d.gainMana(p.ID, 1)
	}
	return true
}

func firstAid(d *Dispatcher, card *state.PlayedCard, _ *Reaction) bool {
	return d.gainHealth(card.Target, 1)
}

// reflectMirror turns a single-target attacker's card back on its owner.
func reflectMirror(d *Dispatcher, _ *state.PlayedCard, r *Reaction) bool {
	attacker := r.attacker()
	if attacker != nil && attacker.HasTarget() {
		attacker.Target = attacker.Owner
		d.run(attacker, nil)
	}
	return true
}

func soulSteal(d *Dispatcher, card *state.PlayedCard, _ *Reaction) bool {
	if !d.TryEffectOnTarget(card, card.Target, catalog.DamageSlash) {
		return false
	}
	victim := d.arena.Player(card.Target)
	if victim.Mana >= 1 && d.loseMana(victim.ID, 1) {
		return d.gainMana(card.Owner, 1)
	}
	return false
}

func soulRip(d *Dispatcher, card *state.PlayedCard, _ *Reaction) bool {
	if !d.TryEffectOnTarget(card, card.Target, catalog.DamageSlash) {
		return false
	}
	stolen := d.arena.Player(card.Target).Mana
	if stolen > 0 && d.loseMana(card.Target, stolen) {
		return d.gainMana(card.Owner, stolen)
	}
	return false
}

func seduce(d *Dispatcher, card *state.PlayedCard, _ *Reaction) bool {
	return d.spawn(card.Target, catalog.StatusNegated, 1, false, status.NoParams)
}

func loveAura(d *Dispatcher, card *state.PlayedCard, _ *Reaction) bool {
	for _, p := range d.others(card.Owner) {
		d.spawn(p.ID, catalog.StatusNegated, 1, false, status.NoParams)
	}
	return true
}

func shuriken(d *Dispatcher, card *state.PlayedCard, _ *Reaction) bool {
	if !d.TryEffectOnTarget(card, card.Target, catalog.DamageSlash) {
		return false
	}
	return d.attackLoseHealth(card.Owner, card.Target, 1)
}

func poisonDart(d *Dispatcher, card *state.PlayedCard, _ *Reaction) bool {
	if !d.TryEffectOnTarget(card, card.Target, catalog.DamageSlash) {
		return false
	}
	return d.spawn(card.Target, catalog.StatusWithering, 1, true, status.Float(0.5))
}

func skullBolt(d *Dispatcher, card *state.PlayedCard, _ *Reaction) bool {
	if !d.TryEffectOnTarget(card, card.Target, catalog.DamageMagic) {
		return false
	}
	if !d.attackLoseHealth(card.Owner, card.Target, 1) {
		return false
	}
	return d.spawn(card.Target, catalog.StatusWithering, 2, true, status.Float(0.5))
}

func wizardRobes(d *Dispatcher, card *state.PlayedCard, _ *Reaction) bool {
	d.spawn(card.Owner, catalog.StatusCostDown, 2, true, status.FloatInt(1, catalog.CardSkullBolt))
	return d.spawn(card.Owner, catalog.StatusCostDown, 2, true, status.FloatInt(1, catalog.CardCleanse))
}

func fireBreath(d *Dispatcher, card *state.PlayedCard, _ *Reaction) bool {
	landed := false
	for _, p := range d.others(card.Owner) {
		if d.TryEffectOnTarget(card, p.ID, catalog.DamageMagic) {
			d.spawn(p.ID, catalog.StatusWithering, 4, true, status.Float(0.5))
			landed = true
		}
	}
	return landed
}

func cleanse(d *Dispatcher, card *state.PlayedCard, _ *Reaction) bool {
	return removeDebuffs(d, card.Owner)
}

func freeze(d *Dispatcher, card *state.PlayedCard, _ *Reaction) bool {
	if !d.TryEffectOnTarget(card, card.Target, catalog.DamageMagic) {
		return false
	}
	return d.spawn(card.Target, catalog.StatusCrippled, 3, true, status.Float(0.5))
}

func lightningStrike(d *Dispatcher, card *state.PlayedCard, _ *Reaction) bool {
	if !d.TryEffectOnTarget(card, card.Target, catalog.DamageMagic) {
		return false
	}
	if !d.attackLoseHealth(card.Owner, card.Target, 1) {
		return false
	}
	return d.gainMana(card.Target, 3)
}

// petrify raises the attack costs of whoever attacked, without blocking.
func petrify(d *Dispatcher, _ *state.PlayedCard, r *Reaction) bool {
	if attacker := r.attacker(); attacker != nil {
		d.spawn(attacker.Owner, catalog.StatusTypeCostUp, 2, true, status.FloatInt(2, int(catalog.TypeAttack)))
	}
	return false
}

func silence(d *Dispatcher, card *state.PlayedCard, _ *Reaction) bool {
	if !d.TryEffectOnTarget(card, card.Target, catalog.DamageMagic) {
		return false
	}
	if !d.attackLoseHealth(card.Owner, card.Target, 1) {
		return false
	}
	d.statuses.RemoveBuffs(card.Target)
	return true
}

func meditate(d *Dispatcher, card *state.PlayedCard, _ *Reaction) bool {
	return d.gainHealth(card.Owner, 2)
}

func drainingShield(d *Dispatcher, card *state.PlayedCard, r *Reaction) bool {
	if r.damage() != catalog.DamageSlash {
		return false
	}
	d.gainHealth(card.Owner, 1)
	return true
}

func haymaker(d *Dispatcher, card *state.PlayedCard, _ *Reaction) bool {
	if !d.TryEffectOnTarget(card, card.Target, catalog.DamageSlash) {
		return false
	}
	if !d.attackLoseHealth(card.Owner, card.Target, 1) {
		return false
	}
	d.spawn(card.Owner, catalog.StatusCostDown, 1, true, status.FloatInt(2, catalog.CardHaymaker))
	return true
}

func hyperMana(d *Dispatcher, card *state.PlayedCard, _ *Reaction) bool {
	if d.loseHealth(card.Owner, 1) {
		return d.gainMana(card.Owner, 4)
	}
	return false
}

func evade(d *Dispatcher, card *state.PlayedCard, r *Reaction) bool {
	if dmg := r.damage(); dmg == catalog.DamageSlash || dmg == catalog.DamageGun {
		d.gainMana(card.Owner, 2)
		return true
	}
	return false
}

func machineGun(d *Dispatcher, card *state.PlayedCard, _ *Reaction) bool {
	landed := false
	for _, p := range d.others(card.Owner) {
		if d.TryEffectOnTarget(card, p.ID, catalog.DamageGun) {
			d.attackLoseHealth(card.Owner, p.ID, 1)
			landed = true
		}
	}
	return landed
}

// bayonet shoots, then follows up with a slash if the shot hurt.
func bayonet(d *Dispatcher, card *state.PlayedCard, _ *Reaction) bool {
	if !d.TryEffectOnTarget(card, card.Target, catalog.DamageGun) {
		return false
	}
	if !d.attackLoseHealth(card.Owner, card.Target, 1) {
		return false
	}
	if d.TryEffectOnTarget(card, card.Target, catalog.DamageSlash) {
		d.attackLoseHealth(card.Owner, card.Target, 1)
	}
	return true
}

func nuke(d *Dispatcher, card *state.PlayedCard, _ *Reaction) bool {
	landed := false
	for _, p := range d.others(card.Owner) {
		if !d.TryEffectOnTarget(card, p.ID, catalog.DamageGun) {
			continue
		}
		if d.attackLoseHealth(card.Owner, p.ID, 3) {
			d.spawn(p.ID, catalog.StatusWithering, -1, true, status.Float(1))
			landed = true
		}
	}
	return landed
}

func maim(d *Dispatcher, card *state.PlayedCard, _ *Reaction) bool {
	if !d.TryEffectOnTarget(card, card.Target, catalog.DamageSlash) {
		return false
	}
	if !d.attackLoseHealth(card.Owner, card.Target, 1) {
		return false
	}
	d.spawn(card.Target, catalog.StatusCrippled, 4, true, status.Float(0.5))
	return true
}

// dynamite hits every player including its owner and never reports success.
func dynamite(d *Dispatcher, card *state.PlayedCard, _ *Reaction) bool {
	for _, p := range d.arena.Players() {
		if d.TryEffectOnTarget(card, p.ID, catalog.DamageSlash) {
			d.attackLoseHealth(card.Owner, p.ID, 1)
		}
	}
	return false
}

// magicalProduction schedules a random card costing 2 or more to run on the
// owner's target at turn end.
func magicalProduction(d *Dispatcher, card *state.PlayedCard, _ *Reaction) bool {
	var pool []int
	for _, c := range d.cat.Cards() {
		if c.Cost >= 2 {
			pool = append(pool, c.ID)
		}
	}
	if len(pool) == 0 {
		return false
	}
	picked := pool[d.rng.IntN(len(pool))]
	return d.spawn(card.Owner, catalog.StatusExecuteEffect, 1, false, status.Int(picked))
}

// balloonify makes attackers vulnerable and blocks only magic.
func balloonify(d *Dispatcher, _ *state.PlayedCard, r *Reaction) bool {
	if attacker := r.attacker(); attacker != nil {
		d.spawn(attacker.Owner, catalog.StatusVulnerable, 2, true, status.Float(2))
	}
	return r.damage() == catalog.DamageMagic
}

// suspiciousMartini gives the owner two random buffs and the target two
// random debuffs with random strengths.
func suspiciousMartini(d *Dispatcher, card *state.PlayedCard, _ *Reaction) bool {
	roll := func(recipient int, kind catalog.StatusType) {
		presets := d.cat.StatusesOfType(kind)
		if len(presets) == 0 {
			return
		}
		for i := 0; i < 2; i++ {
			preset := presets[d.rng.IntN(len(presets))]
			strength := float64(1+d.rng.IntN(2)) / 2
			param := 1 + d.rng.IntN(3)
			d.spawn(recipient, preset, 2, false, status.FloatInt(strength, param))
		}
	}
	roll(card.Owner, catalog.StatusBuff)
	roll(card.Target, catalog.StatusDebuff)
	return true
}

func mysteryBlock(d *Dispatcher, card *state.PlayedCard, _ *Reaction) bool {
	switch d.rng.IntN(4) {
	case 0:
		d.spawn(card.Owner, catalog.StatusWarded, 2, false, status.Float(1))
	case 1:
		d.spawn(card.Owner, catalog.StatusEnrage, 2, false, status.Float(1))
	case 2:
		d.spawn(card.Owner, catalog.StatusRegeneration, 2, false, status.Float(0.5))
	case 3:
		d.spawn(card.Owner, catalog.StatusUntargetable, 2, false, status.NoParams)
	}
	return true
}

func dramaMasks(d *Dispatcher, card *state.PlayedCard, _ *Reaction) bool {
	d.gainMana(card.Target, 1)
	d.spawn(card.Target, catalog.StatusClone, 1, true, status.NoParams)
	d.spawn(card.Target, catalog.StatusCannotAttack, 2, true, status.NoParams)
	return true
}

func variateBlast(d *Dispatcher, card *state.PlayedCard, _ *Reaction) bool {
	if !d.TryEffectOnTarget(card, card.Target, catalog.DamageMagic) {
		return false
	}
	damage := 1.0
	if d.arena.Player(card.Target).Health > d.arena.Player(card.Owner).Health {
		damage = 2
	}
	d.attackLoseHealth(card.Owner, card.Target, damage)
	return true
}

func blessingOfLove(d *Dispatcher, card *state.PlayedCard, _ *Reaction) bool {
	for _, p := range d.others(card.Owner) {
		d.spawn(p.ID, catalog.StatusCannotAttack, 2, true, status.NoParams)
	}
	return true
}

// houseWithChickenFeet blocks everything and cleanses its owner whenever it
// reacts to an attack.
func houseWithChickenFeet(d *Dispatcher, card *state.PlayedCard, r *Reaction) bool {
	if r != nil {
		removeDebuffs(d, card.Owner)
	}
	return true
}

// wrathOfTheSun converts all of the owner's mana into magic damage.
func wrathOfTheSun(d *Dispatcher, card *state.PlayedCard, _ *Reaction) bool {
	spent := d.arena.Player(card.Owner).Mana
	if !d.loseMana(card.Owner, spent) {
		return false
	}
	if !d.TryEffectOnTarget(card, card.Target, catalog.DamageMagic) {
		return false
	}
	return d.attackLoseHealth(card.Owner, card.Target, spent)
}

func empoweringThrust(d *Dispatcher, card *state.PlayedCard, _ *Reaction) bool {
	if !d.TryEffectOnTarget(card, card.Target, catalog.DamageSlash) {
		return false
	}
	if !d.attackLoseHealth(card.Owner, card.Target, 1) {
		return false
	}
	return d.gainMana(card.Owner, 2)
}

func elusiveSnipe(d *Dispatcher, card *state.PlayedCard, _ *Reaction) bool {
	if !d.TryEffectOnTarget(card, card.Target, catalog.DamageGun) {
		return false
	}
	if !d.attackLoseHealth(card.Owner, card.Target, 1) {
		return false
	}
	d.spawn(card.Target, catalog.StatusUntargetable, 1, true, status.NoParams)
	return true
}
