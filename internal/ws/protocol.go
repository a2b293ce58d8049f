package ws

type MessageType string

const (
	MsgAchievementUnlocked MessageType = "achievement_unlocked"
	MsgXPAwarded           MessageType = "xp_awarded"
	MsgError               MessageType = "error"
)

type WSMessage struct {
	Type    MessageType `json:"type"`
	Payload interface{} `json:"payload"`
}

// AchievementUnlockedPayload announces one new unlock to connected clients.
type AchievementUnlockedPayload struct {
	PlayerID    string `json:"playerId"`
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	Category    string `json:"category"`
	XPReward    int    `json:"xpReward"`
}

// XPAwardedPayload reports a player's XP total after an award.
type XPAwardedPayload struct {
	PlayerID string `json:"playerId"`
	Amount   int    `json:"amount"`
	TotalXP  int    `json:"totalXp"`
}
