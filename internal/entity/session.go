package entity

// Session - a browser or socket client and the game it owns.
type Session struct {
	ID     string `json:"id"`
	GameID string `json:"game_id,omitempty"`
}

func (that *Session) HasGame() bool {
	return that.GameID != ""
}
