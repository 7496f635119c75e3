package game

// The master card list. Instances reference these definitions; the heal
// effect reads MaxHP back from here after stripping instance suffixes.

func monster(id, name, desc string, cost, frontATK, backATK, hp int, race string) *CardDef {
	return &CardDef{
		ID:          id,
		Name:        name,
		Description: desc,
		Kind:        KindMonster,
		Cost:        cost,
		FrontAttack: frontATK,
		BackAttack:  backATK,
		MaxHP:       hp,
		Race:        race,
	}
}

func spell(id, name, desc string, cost int, effect SpellEffect) *CardDef {
	return &CardDef{
		ID:          id,
		Name:        name,
		Description: desc,
		Kind:        KindSpell,
		Cost:        cost,
		Race:        "Spell",
		Spell:       effect,
	}
}

// catalog is ordered; random deck building samples uniformly from it.
var catalog = []*CardDef{
	monster("m001", "Goblin Attacker", "A standard goblin warrior.", 1, 2, 2, 6, "Goblin"),
	monster("m002", "Stone Golem", "A creature made of living rock.", 2, 3, 0, 13, "Golem"),
	monster("m003", "Brute", "Hits hard, breaks fast.", 1, 4, 0, 5, "Golem"),
	monster("m004", "Hunter", "Picks targets off from the back line.", 1, 0, 4, 3, "Golem"),
	monster("m005", "Soldier", "A disciplined front-line fighter.", 2, 5, 0, 7, "Golem"),
	monster("m006", "Sorcerer", "Strikes from behind the line.", 2, 0, 5, 6, "Golem"),
	monster("m007", "Balancer", "Equally at home in either row.", 2, 3, 3, 9, "Golem"),
	monster("m008", "Colossus", "Slow, enormous, unstoppable.", 3, 8, 0, 12, "Golem"),
	monster("m009", "Champion", "A veteran of a hundred fields.", 3, 4, 4, 15, "Golem"),
	monster("m010", "Arcanist", "The strongest back-row artillery.", 3, 0, 8, 10, "Golem"),
	monster("m011", "Footman", "Cheap and expendable.", 0, 2, 0, 2, "Golem"),
	monster("m012", "Scout", "First in, rarely last out.", 0, 1, 1, 3, "Golem"),
	monster("m013", "Slinger", "Barely more than a distraction.", 0, 0, 1, 1, "Golem"),
	func() *CardDef {
		c := monster("m014", "Monk", "Once per turn, restores 1 HP to one allied monster.", 1, 0, 1, 2, "Golem")
		c.Effect = MonsterEffectHealAlly
		return c
	}(),
	spell("s001", "Battle Chant", "Raise one allied monster's attack by 1 until end of turn.", 1, SpellAttackBuff),
	spell("s002", "Insight", "Draw 2 cards.", 1, SpellExtraDraw),
	spell("s003", "Triage", "Discard 2 other cards from your hand, then draw 2 cards.", 1, SpellDiscardDraw),
}

var (
	defsByID   = map[string]*CardDef{}
	defsByName = map[string]*CardDef{}
)

func init() {
	for _, c := range catalog {
		defsByID[c.ID] = c
		defsByName[c.Name] = c
	}
}

// Catalog returns the full master card list.
func Catalog() []*CardDef {
	return catalog
}

// DefByID looks up a definition by catalog id. Returns nil if unknown.
func DefByID(id string) *CardDef {
	return defsByID[id]
}

// DefByName looks up a definition by display name. Returns nil if unknown.
func DefByName(name string) *CardDef {
	return defsByName[name]
}
