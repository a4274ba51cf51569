package protocol

// GameruleKey is the closed enumeration of §4.7 gamerule keys. Clients
// MUST tolerate unknown keys by ignoring them — GameruleUnknown is what a
// decoder returns for any string not in this table, rather than failing
// the whole S2C_GAMERULE_UPDATE message.
type GameruleKey int

const (
	GameruleUnknown GameruleKey = iota
	GamerulePlayerSpeed
	GamerulePlayerHealth
	GamerulePlayerFireRate
	GamerulePlayerDamage
	GamerulePlayerSpawnX
	GamerulePlayerSpawnY
)

var gameruleNames = map[GameruleKey]string{
	GamerulePlayerSpeed:    "player.speed",
	GamerulePlayerHealth:   "player.health",
	GamerulePlayerFireRate: "player.fireRate",
	GamerulePlayerDamage:   "player.damage",
	GamerulePlayerSpawnX:   "player.spawnX",
	GamerulePlayerSpawnY:   "player.spawnY",
}

var gameruleByName = func() map[string]GameruleKey {
	m := make(map[string]GameruleKey, len(gameruleNames))
	for k, v := range gameruleNames {
		m[v] = k
	}
	return m
}()

func (k GameruleKey) String() string {
	if s, ok := gameruleNames[k]; ok {
		return s
	}
	return ""
}

// ParseGameruleKey maps a wire string to its GameruleKey, returning
// GameruleUnknown (not an error) for anything not in the table.
func ParseGameruleKey(s string) GameruleKey {
	if k, ok := gameruleByName[s]; ok {
		return k
	}
	return GameruleUnknown
}

// GameruleEntry is one {key, float value} pair of an S2C_GAMERULE_UPDATE.
type GameruleEntry struct {
	Key   GameruleKey
	Value float64
}
